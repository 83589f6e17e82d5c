package middleware

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/bryanwahyu/triagedesk/internal/domain/diagnosis"
)

// Input validation and sanitization utilities

// maxFieldRunes caps any single form field before it reaches the policy.
const maxFieldRunes = 10000

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters
	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}

// SanitizeForm cleans every known field and drops unknown ones.
func SanitizeForm(in diagnosis.Form) diagnosis.Form {
	out := make(diagnosis.Form, len(diagnosis.Fields))
	for _, f := range diagnosis.Fields {
		v, ok := in[f]
		if !ok {
			continue
		}
		v = SanitizeString(v)
		if utf8.RuneCountInString(v) > maxFieldRunes {
			v = string([]rune(v)[:maxFieldRunes])
		}
		out[f] = v
	}
	return out
}

// ValidVisitorID reports whether id is a canonical uuid, as issued in cookies.
func ValidVisitorID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

// SafeRedirect returns target if it is a local absolute path, else fallback.
// Used for "redirect back" after preference changes.
func SafeRedirect(target, fallback string) string {
	if target == "" {
		return fallback
	}
	u, err := url.Parse(target)
	if err != nil || u.IsAbs() || u.Host != "" {
		return fallback
	}
	if !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(target, "//") || strings.Contains(target, "\\") {
		return fallback
	}
	return u.RequestURI()
}
