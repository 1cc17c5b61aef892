package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// NormalizeContent trims surrounding whitespace and checks that the result
// is non-empty and at most maxChars characters long. field names the input in
// error messages.
func NormalizeContent(field, raw string, maxChars int) (string, error) {
	content := strings.TrimSpace(raw)
	if content == "" {
		return "", fmt.Errorf("%s is required", field)
	}
	if n := utf8.RuneCountInString(content); n > maxChars {
		return "", fmt.Errorf("%s too long (max %d characters)", field, maxChars)
	}
	return content, nil
}

// ValidateScore checks a skill score is within [0,100].
func ValidateScore(field string, score int) error {
	if score < 0 || score > 100 {
		return fmt.Errorf("%s must be between 0 and 100", field)
	}
	return nil
}
