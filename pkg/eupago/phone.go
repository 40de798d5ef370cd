package eupago

import (
	"regexp"
	"strings"
)

// Portuguese mobile numbers are 9 digits starting 91, 92, 93 or 96.
var ptMobilePattern = regexp.MustCompile(`^9[1236]\d{7}$`)

var nonDigits = regexp.MustCompile(`\D`)

func cleanPhone(phone string) string {
	cleaned := nonDigits.ReplaceAllString(phone, "")
	if strings.HasPrefix(cleaned, "351") && len(cleaned) > 9 {
		cleaned = cleaned[3:]
	}
	return cleaned
}

// ValidatePhoneNumber reports whether the input is a Portuguese
// mobile number, tolerating a 351 country prefix.
func ValidatePhoneNumber(phone string) bool {
	return ptMobilePattern.MatchString(cleanPhone(phone))
}

// FormatPhoneForGateway normalizes a number to the 351XXXXXXXXX shape
// the gateway expects, never duplicating the country code.
func FormatPhoneForGateway(phone string) string {
	return "351" + cleanPhone(phone)
}

// MaskPhoneNumber hides the middle digits for display (912***678).
// Inputs too short to mask are returned unchanged.
func MaskPhoneNumber(phone string) string {
	cleaned := cleanPhone(phone)
	if len(cleaned) < 9 {
		return phone
	}
	return cleaned[:3] + "***" + cleaned[len(cleaned)-3:]
}

// FormatReference groups a Multibanco reference into digit triples
// for display (123 456 789).
func FormatReference(reference string) string {
	var b strings.Builder
	for i, r := range reference {
		if i > 0 && i%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}
