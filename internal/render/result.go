// Package render turns a diagnosis response into something a surface can show.
// Everything here is a pure function of its inputs.
package render

import (
	"fmt"
	"html/template"
	"math"

	"github.com/bryanwahyu/triagedesk/internal/domain/diagnosis"
	"github.com/bryanwahyu/triagedesk/internal/i18n"
)

// Percent is round(score*100).
func Percent(score float64) int {
	return int(math.Round(score * 100))
}

// PercentLabel formats a score as "87%".
func PercentLabel(score float64) string {
	return fmt.Sprintf("%d%%", Percent(score))
}

// BarWidth is the CSS width of a confidence bar, proportional to score and clamped to [0,100].
func BarWidth(score float64) string {
	w := score * 100
	if w < 0 || math.IsNaN(w) {
		w = 0
	}
	if w > 100 {
		w = 100
	}
	return fmt.Sprintf("%.1f%%", w)
}

// PathologyView is the pathology card.
type PathologyView struct {
	Name            string  `json:"name"`
	Urgency         string  `json:"urgency,omitempty"`
	Confidence      float64 `json:"confidence"`
	ConfidenceLabel string  `json:"confidence_label"`
	BarWidth        string  `json:"bar_width"`
	Badge           Badge   `json:"-"`
	SeverityLabel   string  `json:"severity_label"`
	SeverityClass   string  `json:"severity_class"`
	Specialist      string  `json:"specialist,omitempty"`
	Advice          string  `json:"advice,omitempty"`
}

// SourceView is one citation line.
type SourceView struct {
	Label           string `json:"label"`
	SimilarityLabel string `json:"similarity_label"`
	Description     string `json:"description,omitempty"`
}

// View is everything a surface needs to paint a result.
type View struct {
	Matched      bool           `json:"matched"`
	Pathology    *PathologyView `json:"pathology,omitempty"`
	AnalysisText string         `json:"-"`
	Analysis     template.HTML  `json:"analysis_html"`
	Sources      []SourceView   `json:"sources"`
	Disclaimer   string         `json:"disclaimer"`
	Authors      []string       `json:"authors,omitempty"`
}

// Renderer holds the markdown pipeline; it has no other state.
type Renderer struct {
	md *Markdown
}

func NewRenderer() *Renderer {
	return &Renderer{md: NewMarkdown()}
}

// Render maps a response to a view. A nil response renders as an empty view.
func (r *Renderer) Render(resp *diagnosis.Response, loc i18n.Localizer) View {
	if resp == nil {
		return View{Sources: []SourceView{}}
	}
	v := View{
		Matched:      resp.Matched,
		AnalysisText: CleanAnalysis(resp.Analysis),
		Analysis:     r.md.HTML(resp.Analysis),
		Sources:      make([]SourceView, 0, len(resp.Sources)),
		Disclaimer:   resp.Disclaimer,
		Authors:      resp.Authors,
	}
	if v.Disclaimer == "" {
		v.Disclaimer = loc.T(i18n.DisclaimerDefault)
	}
	if resp.Matched && resp.Pathology != nil {
		p := resp.Pathology
		badge := SeverityBadge(p.SeverityLevel)
		v.Pathology = &PathologyView{
			Name:            p.Name,
			Urgency:         p.Urgency,
			Confidence:      p.ConfidenceScore,
			ConfidenceLabel: PercentLabel(p.ConfidenceScore),
			BarWidth:        BarWidth(p.ConfidenceScore),
			Badge:           badge,
			SeverityLabel:   loc.T(badge.LabelKey),
			SeverityClass:   "severity-" + badge.Color,
			Specialist:      p.Specialist,
			Advice:          p.Advice,
		}
	}
	for _, s := range resp.Sources {
		v.Sources = append(v.Sources, SourceView{
			Label:           s.Label,
			SimilarityLabel: PercentLabel(s.SimilarityScore),
			Description:     s.Description,
		})
	}
	return v
}
