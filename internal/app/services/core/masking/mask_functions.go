package masking

import (
	"strings"
	"unicode/utf8"
)

const (
	RedactedValue = "[REDACTED]"
	maskMarker    = "***"

	phoneKeptDigits = 5
	// Shorter bodies would leave fewer than three digits behind the marker.
	phoneMinDigits = phoneKeptDigits + 3
)

// MaskFunc replaces a raw value. Every MaskFunc is idempotent.
type MaskFunc func(value interface{}) interface{}

func Redact(value interface{}) interface{} {
	return RedactedValue
}

// MaskPhone keeps the first three and the last two digits:
// +254712345678 -> +254***78. Bodies under eight digits are fully hidden.
func MaskPhone(value interface{}) interface{} {
	phone, ok := value.(string)
	if !ok {
		return RedactedValue
	}
	phone = strings.TrimSpace(phone)

	prefix := ""
	body := phone
	if strings.HasPrefix(phone, "+") {
		prefix = "+"
		body = phone[1:]
	}
	if len(body) < phoneMinDigits {
		return maskMarker
	}
	return prefix + body[:3] + maskMarker + body[len(body)-2:]
}

// MaskEmail keeps up to two leading characters of the local part and the
// domain: john.doe@example.com -> jo***@example.com.
func MaskEmail(value interface{}) interface{} {
	email, ok := value.(string)
	if !ok {
		return RedactedValue
	}
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return RedactedValue
	}
	local, domain := email[:at], email[at:]

	keep := 2
	if utf8.RuneCountInString(local) <= 2 {
		keep = 1
	}

	kept := make([]rune, 0, keep)
	for _, r := range local {
		if len(kept) == keep || r == '*' {
			break
		}
		kept = append(kept, r)
	}
	return string(kept) + maskMarker + domain
}

// MaskNationalID keeps the first and last two characters: 12345678 -> 12****78.
func MaskNationalID(value interface{}) interface{} {
	id, ok := value.(string)
	if !ok {
		return RedactedValue
	}
	runes := []rune(id)
	if len(runes) <= 4 {
		return strings.Repeat("*", len(runes))
	}
	return string(runes[:2]) + strings.Repeat("*", len(runes)-4) + string(runes[len(runes)-2:])
}
