package utils

import (
	"medblock-service/internal/pkg/constvars"
	"regexp"
	"strings"
)

var (
	reE164       = regexp.MustCompile(constvars.RegexPhoneNumberGeneral)
	reKenyaLocal = regexp.MustCompile(constvars.RegexKenyaPhoneNumberLocal)
)

// NormalizePhoneNumber strips inner spaces and rewrites Kenyan local numbers
// (07XXXXXXXX, 01XXXXXXXX) into E.164 (+2547XXXXXXXX). Anything else is
// returned trimmed.
func NormalizePhoneNumber(input string) string {
	s := strings.ReplaceAll(strings.TrimSpace(input), " ", "")
	if reKenyaLocal.MatchString(s) {
		return "+254" + s[1:]
	}
	return s
}

func IsValidPhoneNumber(input string) bool {
	s := strings.ReplaceAll(strings.TrimSpace(input), " ", "")
	return reE164.MatchString(s) || reKenyaLocal.MatchString(s)
}
