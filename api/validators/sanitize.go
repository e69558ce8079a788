package validators

import "strings"

// SanitizeString trims whitespace and caps length without splitting a rune.
func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen <= 0 || len(trimmed) <= maxLen {
		return trimmed
	}
	runes := []rune(trimmed)
	if len(runes) > maxLen {
		runes = runes[:maxLen]
	}
	return string(runes)
}
