// utils/phone.go
package utils

import (
	"regexp"
	"strings"

	"github.com/rwahyudi/galeri_backend/models"
)

var nonDigitRegex = regexp.MustCompile(`[^0-9]`)

// NormalizePhone canonicalizes a free-form Indonesian phone number into the
// digits-only international form the WhatsApp gateway expects ("62..."). The
// same subscriber always maps to the same canonical string, whatever the input
// spelling: "0851-5730-0793", "+62 851 5730 0793" and "6285157300793" all
// normalize to "6285157300793". The canonical string is the account key, so
// this must stay a pure function.
func NormalizePhone(raw string) (string, error) {
	digits := nonDigitRegex.ReplaceAllString(raw, "")
	if digits == "" {
		return "", models.ErrInvalidPhoneFormat
	}

	switch {
	case strings.HasPrefix(digits, "0"):
		// Domestic trunk prefix: 08xx -> 628xx
		digits = "62" + digits[1:]
	case strings.HasPrefix(digits, "62"):
		// Already international, possibly written as +62
	case strings.HasPrefix(digits, "8"):
		// Bare subscriber number without trunk prefix
		digits = "62" + digits
	default:
		return "", models.ErrInvalidPhoneFormat
	}

	// 62 + 8..13 national digits
	if len(digits) < 10 || len(digits) > 15 {
		return "", models.ErrInvalidPhoneFormat
	}

	return digits, nil
}
