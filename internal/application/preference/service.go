package preference

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/text/language"

	domain "github.com/bryanwahyu/triagedesk/internal/domain/preference"
)

// ErrUnsupportedLanguage is returned by SetLanguage for codes with no table.
var ErrUnsupportedLanguage = errors.New("preference: unsupported language")

// Languages is the slice of the translator the service needs.
type Languages interface {
	IsSupported(code string) bool
	Match(code string) language.Tag
}

// Service implements use-cases untuk preference (theme + bahasa)
type Service struct {
	Store     domain.Store
	Languages Languages
}

// Load restores a visitor's preference. Missing or unknown values fall back
// to the dark theme and an empty language (the caller resolves it per request).
// On a store error the defaults are returned together with the error.
func (s *Service) Load(ctx context.Context, visitorID string) (domain.Preference, error) {
	pref := domain.Preference{Theme: domain.ThemeDark}

	theme, ok, err := s.Store.Get(ctx, visitorID, domain.KeyTheme)
	if err != nil {
		return pref, fmt.Errorf("load theme: %w", err)
	}
	if ok {
		pref.Theme = domain.Theme(theme).Normalize()
	}

	lang, ok, err := s.Store.Get(ctx, visitorID, domain.KeyLanguage)
	if err != nil {
		return pref, fmt.Errorf("load language: %w", err)
	}
	if ok && s.Languages.IsSupported(lang) {
		pref.Language = s.Languages.Match(lang).String()
	}
	return pref, nil
}

// ToggleTheme flips dark/light and persists the new value.
func (s *Service) ToggleTheme(ctx context.Context, visitorID string) (domain.Theme, error) {
	current := domain.ThemeDark
	if v, ok, err := s.Store.Get(ctx, visitorID, domain.KeyTheme); err != nil {
		return current, fmt.Errorf("load theme: %w", err)
	} else if ok {
		current = domain.Theme(v)
	}

	next := current.Toggle()
	if err := s.Store.Set(ctx, visitorID, domain.KeyTheme, string(next)); err != nil {
		return current.Normalize(), fmt.Errorf("save theme: %w", err)
	}
	return next, nil
}

// SetLanguage stores the closest supported language and returns its code.
func (s *Service) SetLanguage(ctx context.Context, visitorID, code string) (string, error) {
	if !s.Languages.IsSupported(code) {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, code)
	}
	tag := s.Languages.Match(code).String()
	if err := s.Store.Set(ctx, visitorID, domain.KeyLanguage, tag); err != nil {
		return "", fmt.Errorf("save language: %w", err)
	}
	return tag, nil
}
