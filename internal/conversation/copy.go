package conversation

import "fmt"

// Customer-facing message copy, English and Hindi. Keyed by session
// language, defaulting to English.

func welcomeBody(language, name string) string {
	if language == "hi" {
		if name != "" {
			return fmt.Sprintf("नमस्ते %s! CitiMaster में आपका स्वागत है। आपको कौन सी सर्विस चाहिए?", name)
		}
		return "नमस्ते! CitiMaster में आपका स्वागत है। आपको कौन सी सर्विस चाहिए?"
	}
	if name != "" {
		return fmt.Sprintf("Hi %s! Welcome to CitiMaster. Which service do you need?", name)
	}
	return "Hi! Welcome to CitiMaster. Which service do you need?"
}

func categoryPromptBody(language string) string {
	if language == "hi" {
		return "कृपया एक सर्विस चुनें:"
	}
	return "Please choose a service:"
}

func categoryRePromptBody(language string) string {
	if language == "hi" {
		return "माफ़ कीजिए, वह समझ नहीं आया। कृपया नीचे की सूची से एक सर्विस चुनें:"
	}
	return "Sorry, I did not catch that. Please pick a service from the list below:"
}

func categoryListTitle(language string) string {
	if language == "hi" {
		return "सर्विस चुनें"
	}
	return "Select service"
}

func popularServicesTitle(language string) string {
	if language == "hi" {
		return "लोकप्रिय सर्विस"
	}
	return "Popular services"
}

func moreServicesTitle(language string) string {
	if language == "hi" {
		return "अन्य सर्विस"
	}
	return "More services"
}

func subcategoryPromptBody(language, categoryLabel string) string {
	if language == "hi" {
		return fmt.Sprintf("%s के लिए आपको क्या करवाना है?", categoryLabel)
	}
	return fmt.Sprintf("What do you need done for %s?", categoryLabel)
}

func addressPromptBody(language string) string {
	if language == "hi" {
		return "कृपया अपना पूरा पता भेजें (मकान नंबर, इलाक़ा, पिनकोड):"
	}
	return "Please share your full address (house number, area, pincode):"
}

func slotPromptBody(language string) string {
	if language == "hi" {
		return "हमें आपके इलाक़े में पार्टनर मिल गए हैं! आप कौन सा समय चाहेंगे?"
	}
	return "We found partners in your area! Which time works for you?"
}

func noMatchBody(language string) string {
	if language == "hi" {
		return "माफ़ कीजिए, अभी आपके इलाक़े में कोई पार्टनर उपलब्ध नहीं है। कृपया बाद में फिर कोशिश करें।"
	}
	return "Sorry, no partners are available in your area right now. Please try again later."
}

func bookingSummaryBody(language, serviceLabel, street, slotLabel string) string {
	if language == "hi" {
		return fmt.Sprintf("कृपया पुष्टि करें:\nसर्विस: %s\nपता: %s\nसमय: %s", serviceLabel, street, slotLabel)
	}
	return fmt.Sprintf("Please confirm your booking:\nService: %s\nAddress: %s\nTime: %s", serviceLabel, street, slotLabel)
}

func confirmYesLabel(language string) string {
	if language == "hi" {
		return "पक्का करें"
	}
	return "Confirm"
}

func confirmNoLabel(language string) string {
	if language == "hi" {
		return "रद्द करें"
	}
	return "Cancel"
}

func bookingConfirmedBody(language, vendorName string) string {
	if language == "hi" {
		return fmt.Sprintf("आपकी बुकिंग पक्की हो गई! %s जल्द ही आपसे संपर्क करेंगे।", vendorName)
	}
	return fmt.Sprintf("Your booking is confirmed! %s will contact you shortly.", vendorName)
}

func bookingCancelledBody(language string) string {
	if language == "hi" {
		return "ठीक है, बुकिंग रद्द कर दी गई। जब चाहें फिर से शुरू करें।"
	}
	return "Okay, the booking was cancelled. Start again whenever you like."
}

func partnerInfoBody(language string) string {
	if language == "hi" {
		return "CitiMaster पार्टनर बनने के लिए हमें partners@citimaster.in पर लिखें। हमारी टीम आपको रजिस्ट्रेशन में मदद करेगी।"
	}
	return "To become a CitiMaster partner, write to us at partners@citimaster.in and our team will help you register."
}

func chatEnterBody(language string) string {
	if language == "hi" {
		return "आप हमारे असिस्टेंट से बात कर रहे हैं। बुकिंग के लिए 'book' लिखें, टीम से बात करने के लिए 'callback' लिखें।"
	}
	return "You are chatting with our assistant. Type 'book' to start a booking, or 'callback' to talk to our team."
}

func callbackPromptBody(language string) string {
	if language == "hi" {
		return "हमारी टीम आपको कॉल करेगी। कृपया अपना ईमेल भेजें, या कोई और जानकारी लिखें:"
	}
	return "Our team will call you back. Please share your email, or any details we should know:"
}

func callbackConfirmedBody(language string) string {
	if language == "hi" {
		return "धन्यवाद! हमारी टीम जल्द ही आपसे संपर्क करेगी।"
	}
	return "Thank you! Our team will reach out to you shortly."
}
