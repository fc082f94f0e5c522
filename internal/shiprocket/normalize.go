package shiprocket

import (
	"strings"
	"unicode"

	"jumboprint/internal/models"
)

// cityAliases maps common short names to the canonical city name the provider
// expects. Matching is case-insensitive on the trimmed input.
var cityAliases = map[string]string{
	"hyd":          "Hyderabad",
	"secunderabad": "Secunderabad",
}

// titleCase capitalizes the first letter of each whitespace-separated word and
// lowercases the rest. Whitespace is preserved as-is, so the function is
// idempotent.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inWord := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			inWord = false
			b.WriteRune(r)
		case !inWord:
			inWord = true
			b.WriteRune(unicode.ToUpper(r))
		default:
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// normalizeCity trims the input and expands known aliases to their canonical
// form. Unknown cities pass through trimmed.
func normalizeCity(city string) string {
	city = strings.TrimSpace(city)
	if canonical, ok := cityAliases[strings.ToLower(city)]; ok {
		return canonical
	}
	return city
}

// normalizePhone strips every non-digit character and keeps the last 10
// digits, which is what the provider expects for Indian numbers.
func normalizePhone(phone string) string {
	var b strings.Builder
	b.Grow(len(phone))
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) > 10 {
		return digits[len(digits)-10:]
	}
	return digits
}

// paymentMethod maps the order's payment status onto the provider's
// payment_method field.
func paymentMethod(status string) string {
	if status == models.PaymentPaid {
		return "Prepaid"
	}
	return "COD"
}
