package intent

import (
	"regexp"
	"strings"

	"github.com/citimaster/booking-platform/internal/geo"
	"github.com/citimaster/booking-platform/internal/leads"
)

var devanagariPattern = regexp.MustCompile(`[\x{0900}-\x{097F}]`)

// Romanized Hindi words common enough to flip language detection on
// their own.
var hinglishWords = []string{"kya", "hai", "chahiye", "kar", "nahi", "acha", "theek"}

var greetingWords = []string{"hi", "hello", "hey", "start"}

// Delhi city center, used when address extraction cannot geocode.
var fallbackLocation = geo.Coordinate{Lat: 28.6139, Lng: 77.2090}

// detectLanguageLocal classifies a message as Hindi when it carries
// Devanagari script or common romanized Hindi words, English otherwise.
func detectLanguageLocal(text string) string {
	if devanagariPattern.MatchString(text) {
		return "hi"
	}
	lower := strings.ToLower(text)
	for _, w := range strings.Fields(lower) {
		for _, hw := range hinglishWords {
			if w == hw {
				return "hi"
			}
		}
	}
	return "en"
}

// parseIntentLocal recognizes greetings by keyword and gives up on
// everything else.
func parseIntentLocal(text string) ParsedIntent {
	lower := strings.ToLower(strings.TrimSpace(text))
	for _, g := range greetingWords {
		if lower == g {
			return ParsedIntent{Intent: IntentGreeting, Confidence: 0.9}
		}
	}
	return ParsedIntent{Intent: IntentUnknown, Confidence: 0}
}

// parseAddressLocal keeps the raw text as the street line and fills the
// rest with platform defaults.
func parseAddressLocal(raw, defaultCity, defaultPostalCode string) ParsedAddress {
	return ParsedAddress{
		Address: leads.Address{
			Street:     strings.TrimSpace(raw),
			City:       defaultCity,
			PostalCode: defaultPostalCode,
			Location:   fallbackLocation,
		},
		Parsed: false,
	}
}

// chatReplyLocal is the canned reply when the model is unavailable.
func chatReplyLocal(language string) string {
	if language == "hi" {
		return "माफ़ कीजिए, अभी जवाब नहीं दे पा रहे। कृपया थोड़ी देर में फिर कोशिश करें, या कॉलबैक के लिए 'callback' लिखें।"
	}
	return "Sorry, I could not process that right now. Please try again in a moment, or type 'callback' to request a call from our team."
}
