// Package i18n resolves UI labels for the supported languages.
//
// Tables are immutable package data; the active language is never stored here.
// Callers carry it explicitly (request context, CLI flag) and ask a Translator.
package i18n

import (
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Table maps keys to labels for one language.
type Table map[Key]string

var tables = map[language.Tag]Table{
	language.English:    english,
	language.French:     french,
	language.Spanish:    spanish,
	language.Italian:    italian,
	language.Portuguese: portuguese,
	language.Russian:    russian,
	language.German:     german,
	language.Turkish:    turkish,
}

// order used for language pickers
var supportedOrder = []language.Tag{
	language.English, language.French, language.Spanish, language.Italian,
	language.Portuguese, language.Russian, language.German, language.Turkish,
}

const (
	// LangParam selects a language from a query string.
	LangParam = "lang"
)

// Translator looks up labels with a fallback chain:
// active language → default language → english → the key itself.
type Translator struct {
	fallback  language.Tag
	supported []language.Tag
	matcher   language.Matcher
}

// New builds a translator whose fallback is defaultLang.
func New(defaultLang string) (*Translator, error) {
	tag, err := language.Parse(strings.TrimSpace(defaultLang))
	if err != nil {
		return nil, fmt.Errorf("i18n: default language %q: %w", defaultLang, err)
	}
	base, _ := tag.Base()
	fallback := language.Make(base.String())
	if _, ok := tables[fallback]; !ok {
		return nil, fmt.Errorf("i18n: default language %q is not supported", defaultLang)
	}

	// the matcher returns supported[0] when nothing matches, so the default goes first
	supported := []language.Tag{fallback}
	for _, t := range supportedOrder {
		if t != fallback {
			supported = append(supported, t)
		}
	}
	return &Translator{
		fallback:  fallback,
		supported: supported,
		matcher:   language.NewMatcher(supported),
	}, nil
}

// Default returns the fallback language.
func (t *Translator) Default() language.Tag { return t.fallback }

// Supported returns the supported languages, default first.
func (t *Translator) Supported() []language.Tag {
	out := make([]language.Tag, len(t.supported))
	copy(out, t.supported)
	return out
}

// Match returns the closest supported language for a code. Unknown or
// unparsable codes resolve to the default.
func (t *Translator) Match(code string) language.Tag {
	code = strings.TrimSpace(code)
	if code == "" {
		return t.fallback
	}
	tag, err := language.Parse(code)
	if err != nil {
		return t.fallback
	}
	_, idx, conf := t.matcher.Match(tag)
	if conf == language.No {
		return t.fallback
	}
	return t.supported[idx]
}

// IsSupported reports whether code names a language with its own table.
func (t *Translator) IsSupported(code string) bool {
	tag, err := language.Parse(strings.TrimSpace(code))
	if err != nil {
		return false
	}
	_, _, conf := t.matcher.Match(tag)
	return conf != language.No
}

// Translate is total: it always returns a label for any key.
func (t *Translator) Translate(code string, key Key) string {
	return t.lookup(t.Match(code), key)
}

func (t *Translator) lookup(tag language.Tag, key Key) string {
	for _, candidate := range []language.Tag{tag, t.fallback, language.English} {
		if s, ok := tables[candidate][key]; ok && s != "" {
			return s
		}
	}
	return string(key)
}

// For binds a translator to one language.
func (t *Translator) For(code string) Localizer {
	return Localizer{t: t, tag: t.Match(code)}
}

// Localizer is a translator bound to a language, handed to templates and renderers.
type Localizer struct {
	t   *Translator
	tag language.Tag
}

// T returns the label for key.
func (l Localizer) T(key Key) string {
	if l.t == nil {
		return string(key)
	}
	return l.t.lookup(l.tag, key)
}

// Lang returns the BCP 47 code of the bound language.
func (l Localizer) Lang() string { return l.tag.String() }

// LanguageOption is an entry of a language picker.
type LanguageOption struct {
	Tag    string
	Label  string
	Active bool
}

// Options lists the supported languages, labelled in their own language.
func (t *Translator) Options(active string) []LanguageOption {
	activeTag := t.Match(active)
	out := make([]LanguageOption, 0, len(supportedOrder))
	for _, tag := range supportedOrder {
		label := display.Self.Name(tag)
		if label == "" {
			label = tag.String()
		}
		out = append(out, LanguageOption{Tag: tag.String(), Label: label, Active: tag == activeTag})
	}
	return out
}

// ResolveRequest picks the language for a request: ?lang=, then the stored
// preference, then Accept-Language, then the default. The bool reports whether
// the value came from the query string and should be persisted.
func (t *Translator) ResolveRequest(r *http.Request, preferred string) (language.Tag, bool) {
	if r == nil {
		return t.fallback, false
	}
	if v := strings.TrimSpace(r.URL.Query().Get(LangParam)); v != "" && t.IsSupported(v) {
		return t.Match(v), true
	}
	if preferred != "" && t.IsSupported(preferred) {
		return t.Match(preferred), false
	}
	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			_, idx, conf := t.matcher.Match(tags...)
			if conf != language.No {
				return t.supported[idx], false
			}
		}
	}
	return t.fallback, false
}
