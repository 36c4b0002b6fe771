package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/citimaster/booking-platform/pkg/logging"
)

// DefaultTimeout bounds every model call. A slow model is treated the
// same as a failed one.
const DefaultTimeout = 8 * time.Second

// Bridge answers the natural-language questions the conversation engine
// cannot answer from keywords alone. Every method degrades to a local
// heuristic, so callers never see an error from the model.
type Bridge interface {
	ParseIntent(ctx context.Context, text string) ParsedIntent
	ParseAddress(ctx context.Context, text string) ParsedAddress
	DetectLanguage(ctx context.Context, text string) string
	Chat(ctx context.Context, language string, history []ChatTurn, message string) string
}

// Config carries the platform defaults the bridge bakes into prompts
// and fallbacks.
type Config struct {
	Timeout           time.Duration
	DefaultCity       string
	DefaultPostalCode string
	// ServiceCatalog is a plain-text list of category and subcategory
	// codes the classifier is allowed to emit.
	ServiceCatalog string
}

// LLMBridge implements Bridge over an LLMClient.
type LLMBridge struct {
	llm    LLMClient
	cfg    Config
	logger *logging.Logger
}

// NewLLMBridge builds a bridge. A nil client is allowed and forces
// fallback behavior on every call, which keeps local development working
// without an API key.
func NewLLMBridge(llm LLMClient, cfg Config, logger *logging.Logger) *LLMBridge {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.DefaultCity == "" {
		cfg.DefaultCity = "Delhi"
	}
	if cfg.DefaultPostalCode == "" {
		cfg.DefaultPostalCode = "110001"
	}
	return &LLMBridge{llm: llm, cfg: cfg, logger: logger}
}

const intentSystemPrompt = `You classify the first message a customer sends to a home-services booking assistant in Delhi.
Reply with JSON only, no prose: {"intent":"SERVICE_REQUEST|QUERY|COMPLAINT|GREETING|UNKNOWN","category":"","subcategory":"","confidence":0.0}
Set category and subcategory only when the message clearly names a service, using these codes:
%s
confidence is 0.0 to 1.0.`

// ParseIntent classifies a message and extracts the requested service
// when it is explicit.
func (b *LLMBridge) ParseIntent(ctx context.Context, text string) ParsedIntent {
	if b.llm == nil {
		return parseIntentLocal(text)
	}
	ctx, cancel := context.WithTimeout(ctx, b.cfg.Timeout)
	defer cancel()

	resp, err := b.llm.Complete(ctx, LLMRequest{
		System:      fmt.Sprintf(intentSystemPrompt, b.cfg.ServiceCatalog),
		Messages:    []ChatTurn{{Role: RoleUser, Content: text}},
		Temperature: 0,
		MaxTokens:   256,
	})
	if err != nil {
		b.logger.Warn("intent classification fell back to heuristics", "error", err)
		return parseIntentLocal(text)
	}

	var parsed ParsedIntent
	if err := json.Unmarshal(extractJSON(resp.Text), &parsed); err != nil {
		b.logger.Warn("intent classification returned malformed JSON", "error", err)
		return parseIntentLocal(text)
	}
	switch parsed.Intent {
	case IntentServiceRequest, IntentQuery, IntentComplaint, IntentGreeting, IntentUnknown:
	default:
		return parseIntentLocal(text)
	}
	if parsed.Confidence < 0 {
		parsed.Confidence = 0
	}
	if parsed.Confidence > 1 {
		parsed.Confidence = 1
	}
	return parsed
}

const addressSystemPrompt = `You extract a structured Indian address from a customer's free-form message.
Reply with JSON only: {"street":"","area":"","city":"","postalCode":"","landmark":"","lat":0.0,"lng":0.0}
Default city is %s and default postalCode is %s when the message does not say otherwise.
Set lat and lng to your best estimate for the locality, or 0 when you cannot tell.`

// ParseAddress extracts a structured address, falling back to the raw
// text with platform defaults.
func (b *LLMBridge) ParseAddress(ctx context.Context, text string) ParsedAddress {
	fallback := parseAddressLocal(text, b.cfg.DefaultCity, b.cfg.DefaultPostalCode)
	if b.llm == nil {
		return fallback
	}
	ctx, cancel := context.WithTimeout(ctx, b.cfg.Timeout)
	defer cancel()

	resp, err := b.llm.Complete(ctx, LLMRequest{
		System:      fmt.Sprintf(addressSystemPrompt, b.cfg.DefaultCity, b.cfg.DefaultPostalCode),
		Messages:    []ChatTurn{{Role: RoleUser, Content: text}},
		Temperature: 0,
		MaxTokens:   256,
	})
	if err != nil {
		b.logger.Warn("address extraction fell back to raw text", "error", err)
		return fallback
	}

	var raw struct {
		Street     string  `json:"street"`
		Area       string  `json:"area"`
		City       string  `json:"city"`
		PostalCode string  `json:"postalCode"`
		Landmark   string  `json:"landmark"`
		Lat        float64 `json:"lat"`
		Lng        float64 `json:"lng"`
	}
	if err := json.Unmarshal(extractJSON(resp.Text), &raw); err != nil {
		b.logger.Warn("address extraction returned malformed JSON", "error", err)
		return fallback
	}
	if strings.TrimSpace(raw.Street) == "" {
		return fallback
	}

	out := fallback
	out.Parsed = true
	out.Address.Street = strings.TrimSpace(raw.Street)
	out.Address.Area = strings.TrimSpace(raw.Area)
	out.Address.Landmark = strings.TrimSpace(raw.Landmark)
	if raw.City != "" {
		out.Address.City = raw.City
	}
	if raw.PostalCode != "" {
		out.Address.PostalCode = raw.PostalCode
	}
	if raw.Lat != 0 || raw.Lng != 0 {
		out.Address.Location.Lat = raw.Lat
		out.Address.Location.Lng = raw.Lng
	}
	return out
}

// DetectLanguage uses the local classifier, which handles Devanagari and
// romanized Hindi well enough that a model call is not worth the
// latency on every message.
func (b *LLMBridge) DetectLanguage(_ context.Context, text string) string {
	return detectLanguageLocal(text)
}

const chatSystemPromptEN = `You are the support assistant for CitiMaster, a home-services booking platform in Delhi covering AC service, cleaning, plumbing, electrical work, painting, and carpentry.
Answer briefly and helpfully in English. If the customer wants to book a service, tell them to type 'book'. If they want a human, tell them to type 'callback'.`

const chatSystemPromptHI = `You are the support assistant for CitiMaster, a home-services booking platform in Delhi covering AC service, cleaning, plumbing, electrical work, painting, and carpentry.
Answer briefly and helpfully in Hindi. If the customer wants to book a service, tell them to type 'book'. If they want a human, tell them to type 'callback'.`

// Chat produces a free-form support reply, keeping prior turns as
// context.
func (b *LLMBridge) Chat(ctx context.Context, language string, history []ChatTurn, message string) string {
	if b.llm == nil {
		return chatReplyLocal(language)
	}
	ctx, cancel := context.WithTimeout(ctx, b.cfg.Timeout)
	defer cancel()

	system := chatSystemPromptEN
	if language == "hi" {
		system = chatSystemPromptHI
	}
	messages := make([]ChatTurn, 0, len(history)+1)
	messages = append(messages, history...)
	messages = append(messages, ChatTurn{Role: RoleUser, Content: message})

	resp, err := b.llm.Complete(ctx, LLMRequest{
		System:      system,
		Messages:    messages,
		Temperature: 0.7,
		MaxTokens:   512,
	})
	if err != nil || strings.TrimSpace(resp.Text) == "" {
		if err != nil {
			b.logger.Warn("chat completion fell back to canned reply", "error", err)
		}
		return chatReplyLocal(language)
	}
	return resp.Text
}

// extractJSON trims markdown fences and surrounding prose so a strict
// unmarshal can run on what the model returned.
func extractJSON(text string) []byte {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end <= start {
		return []byte(text)
	}
	return []byte(text[start : end+1])
}
