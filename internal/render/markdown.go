package render

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// fences the model sometimes leaves around its answer
var fenceReplacer = strings.NewReplacer("```json", "", "```", "")

// CleanAnalysis strips code-fence artifacts from free text.
func CleanAnalysis(text string) string {
	return strings.TrimSpace(fenceReplacer.Replace(text))
}

// Markdown converts network-sourced markdown into sanitized HTML.
type Markdown struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewMarkdown builds the converter. Raw HTML in the input is not passed
// through by goldmark, and the output always goes through a UGC policy.
func NewMarkdown() *Markdown {
	policy := bluemonday.UGCPolicy()
	policy.RequireNoFollowOnLinks(true)
	policy.AddTargetBlankToFullyQualifiedLinks(true)
	return &Markdown{
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy: policy,
	}
}

// HTML returns safe markup for text. Conversion failures degrade to escaped text.
func (m *Markdown) HTML(text string) template.HTML {
	clean := CleanAnalysis(text)
	if clean == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := m.md.Convert([]byte(clean), &buf); err != nil {
		return template.HTML("<p>" + template.HTMLEscapeString(clean) + "</p>")
	}
	return template.HTML(m.policy.SanitizeBytes(buf.Bytes()))
}

// Sanitize runs arbitrary markup through the same policy.
func (m *Markdown) Sanitize(html string) string {
	return m.policy.Sanitize(html)
}
