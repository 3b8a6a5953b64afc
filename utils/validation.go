// utils/validation.go
package utils

import (
	"regexp"
	"strings"
)

var nonDigits = regexp.MustCompile(`\D`)

// NormalizePhone canonicalizes a US phone number to +1 followed by ten
// digits. Input may carry spaces, dashes, parentheses or an existing +1
// prefix; anything past ten significant digits is dropped.
func NormalizePhone(phone string) string {
	digits := nonDigits.ReplaceAllString(phone, "")
	if digits == "" {
		return ""
	}
	if strings.Contains(phone, "+1") || (strings.HasPrefix(digits, "1") && len(digits) == 11) {
		digits = strings.TrimPrefix(digits, "1")
	}
	if len(digits) > 10 {
		digits = digits[:10]
	}
	return "+1" + digits
}

// ValidatePhone reports whether a normalized phone number is complete:
// +1 followed by exactly ten digits.
func ValidatePhone(phone string) bool {
	match, _ := regexp.MatchString(`^\+1\d{10}$`, phone)
	return match
}
