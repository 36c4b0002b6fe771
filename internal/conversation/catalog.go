package conversation

import "strings"

// Category and subcategory codes are stable identifiers shared between
// session state, vendor records, and button/list reply IDs.

// ServiceCategory is one top-level service the platform books.
type ServiceCategory struct {
	Code    string
	LabelEN string
	LabelHI string
}

// ServiceOption is a bookable subcategory under a category.
type ServiceOption struct {
	Code    string
	LabelEN string
	LabelHI string
}

var categories = []ServiceCategory{
	{Code: "AC", LabelEN: "AC Service", LabelHI: "एसी सर्विस"},
	{Code: "CLEANING", LabelEN: "Cleaning", LabelHI: "सफ़ाई"},
	{Code: "PLUMBING", LabelEN: "Plumbing", LabelHI: "प्लंबिंग"},
	{Code: "ELECTRICAL", LabelEN: "Electrical", LabelHI: "बिजली का काम"},
	{Code: "PAINTING", LabelEN: "Painting", LabelHI: "पेंटिंग"},
	{Code: "CARPENTER", LabelEN: "Carpenter", LabelHI: "बढ़ई"},
}

var subcategories = map[string][]ServiceOption{
	"AC": {
		{Code: "AC_REPAIR", LabelEN: "AC Repair", LabelHI: "एसी रिपेयर"},
		{Code: "AC_INSTALLATION", LabelEN: "AC Installation", LabelHI: "एसी इंस्टॉलेशन"},
		{Code: "AC_GAS_REFILL", LabelEN: "AC Gas Refill", LabelHI: "एसी गैस रिफिल"},
	},
	"CLEANING": {
		{Code: "DEEP_CLEANING", LabelEN: "Deep Cleaning", LabelHI: "डीप क्लीनिंग"},
		{Code: "SOFA_CLEANING", LabelEN: "Sofa Cleaning", LabelHI: "सोफ़ा क्लीनिंग"},
		{Code: "KITCHEN_CLEANING", LabelEN: "Kitchen Cleaning", LabelHI: "किचन क्लीनिंग"},
	},
	"PLUMBING": {
		{Code: "TAP_REPAIR", LabelEN: "Tap Repair", LabelHI: "नल रिपेयर"},
		{Code: "PIPE_LEAKAGE", LabelEN: "Pipe Leakage", LabelHI: "पाइप लीकेज"},
		{Code: "BATHROOM_FITTING", LabelEN: "Bathroom Fitting", LabelHI: "बाथरूम फिटिंग"},
	},
	"ELECTRICAL": {
		{Code: "WIRING", LabelEN: "Wiring Work", LabelHI: "वायरिंग का काम"},
		{Code: "FAN_REPAIR", LabelEN: "Fan Repair", LabelHI: "पंखा रिपेयर"},
		{Code: "INVERTER_INSTALLATION", LabelEN: "Inverter Installation", LabelHI: "इन्वर्टर इंस्टॉलेशन"},
	},
	"PAINTING": {
		{Code: "INTERIOR_PAINTING", LabelEN: "Interior Painting", LabelHI: "अंदरूनी पेंटिंग"},
		{Code: "EXTERIOR_PAINTING", LabelEN: "Exterior Painting", LabelHI: "बाहरी पेंटिंग"},
	},
	"CARPENTER": {
		{Code: "FURNITURE_REPAIR", LabelEN: "Furniture Repair", LabelHI: "फ़र्नीचर रिपेयर"},
		{Code: "DOOR_REPAIR", LabelEN: "Door Repair", LabelHI: "दरवाज़ा रिपेयर"},
	},
}

const (
	categoryIDPrefix    = "cat_"
	subcategoryIDPrefix = "sub_"
	slotIDPrefix        = "slot_"
	confirmYesID        = "confirm_yes"
	confirmNoID         = "confirm_no"
)

// TimeSlot is a coarse visit window offered during booking.
type TimeSlot struct {
	Code    string
	LabelEN string
	LabelHI string
}

var timeSlots = []TimeSlot{
	{Code: "today_evening", LabelEN: "Today Evening", LabelHI: "आज शाम"},
	{Code: "tomorrow_morning", LabelEN: "Tomorrow Morning", LabelHI: "कल सुबह"},
	{Code: "tomorrow_afternoon", LabelEN: "Tomorrow Afternoon", LabelHI: "कल दोपहर"},
}

func categoryByCode(code string) (ServiceCategory, bool) {
	for _, c := range categories {
		if c.Code == code {
			return c, true
		}
	}
	return ServiceCategory{}, false
}

func subcategoryByCode(category, code string) (ServiceOption, bool) {
	for _, s := range subcategories[category] {
		if s.Code == code {
			return s, true
		}
	}
	return ServiceOption{}, false
}

func slotByCode(code string) (TimeSlot, bool) {
	for _, s := range timeSlots {
		if s.Code == code {
			return s, true
		}
	}
	return TimeSlot{}, false
}

func (c ServiceCategory) label(language string) string {
	if language == "hi" {
		return c.LabelHI
	}
	return c.LabelEN
}

func (s ServiceOption) label(language string) string {
	if language == "hi" {
		return s.LabelHI
	}
	return s.LabelEN
}

func (s TimeSlot) label(language string) string {
	if language == "hi" {
		return s.LabelHI
	}
	return s.LabelEN
}

// ServiceCatalogPrompt renders the category and subcategory codes as a
// plain-text list for classifier prompts.
func ServiceCatalogPrompt() string {
	var b strings.Builder
	for _, c := range categories {
		b.WriteString(c.Code)
		b.WriteString(": ")
		codes := make([]string, 0, len(subcategories[c.Code]))
		for _, s := range subcategories[c.Code] {
			codes = append(codes, s.Code)
		}
		b.WriteString(strings.Join(codes, ", "))
		b.WriteString("\n")
	}
	return b.String()
}
