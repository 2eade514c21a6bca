package utils

import "strings"

// TruncateText caps s at max runes, preferring to cut at the last
// separator inside the window. Separator-free text gets a hard cut
// instead; the result is always valid UTF-8.
func TruncateText(s string, max int) string {
	runes := []rune(s)
	if max >= len(runes) {
		return s
	}

	cut := string(runes[:max])
	if i := strings.LastIndexAny(cut, " .,:;-"); i > 0 {
		return cut[:i]
	}
	return cut
}

// EllipsisText hard-truncates s to max runes and appends "..." when
// anything was cut off.
func EllipsisText(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

func StringOrNone(s string) string {
	if s == "" {
		return "None"
	}

	return s
}
