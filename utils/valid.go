// utils/valid.go
package utils

import (
	"html"
	"regexp"
	"strings"
	"unicode"
)

var scriptRegex = regexp.MustCompile(`<script[^>]*>.*?</script>`)

// SanitizeInput sanitizes user input to prevent XSS and injection attacks
func SanitizeInput(input string) string {
	// Trim spaces
	input = strings.TrimSpace(input)

	// HTML escape
	input = html.EscapeString(input)

	// Remove control characters
	input = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, input)

	// Remove any potential script tags
	input = scriptRegex.ReplaceAllString(input, "")

	return input
}
