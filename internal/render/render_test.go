package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/triagedesk/internal/domain/diagnosis"
	"github.com/bryanwahyu/triagedesk/internal/i18n"
)

func localizer(t *testing.T, lang string) i18n.Localizer {
	t.Helper()
	tr, err := i18n.New("en")
	require.NoError(t, err)
	return tr.For(lang)
}

func matched() *diagnosis.Response {
	return &diagnosis.Response{
		Matched: true,
		Pathology: &diagnosis.Pathology{
			Name:            "Appendicitis",
			ConfidenceScore: 0.87,
			SeverityLevel:   5,
			Urgency:         "Emergency",
			Advice:          "Go to the ER",
			Specialist:      "Surgeon",
		},
		Analysis: "```json\n**Likely** appendicitis.\n```",
		Sources: []diagnosis.Source{
			{Label: "Gastroenteritis", SimilarityScore: 0.412},
			{Label: "Appendicitis", SimilarityScore: 0.87, Description: "RLQ pain"},
		},
		Disclaimer: "Not medical advice.",
	}
}

func TestSeverityBadgeIsTotal(t *testing.T) {
	assert.Equal(t, "green", SeverityBadge(1).Color)
	assert.Equal(t, "red", SeverityBadge(5).Color)
	for _, lvl := range []int{-1, 0, 6, 7, 100} {
		b := SeverityBadge(lvl)
		assert.Equal(t, "gray", b.Color)
		assert.Equal(t, i18n.SeverityUnknown, b.LabelKey)
		assert.False(t, b.Known)
	}
}

func TestPercentAndBar(t *testing.T) {
	assert.Equal(t, 87, Percent(0.87))
	assert.Equal(t, "87%", PercentLabel(0.87))
	assert.Equal(t, "87.0%", BarWidth(0.87))
	assert.Equal(t, "0%", PercentLabel(0))
	assert.Equal(t, "100%", PercentLabel(1))
	assert.Equal(t, "41%", PercentLabel(0.412))
	assert.Equal(t, "100.0%", BarWidth(3))
	assert.Equal(t, "0.0%", BarWidth(-1))
}

func TestRenderMatched(t *testing.T) {
	v := NewRenderer().Render(matched(), localizer(t, "en"))

	require.NotNil(t, v.Pathology)
	assert.Equal(t, "87%", v.Pathology.ConfidenceLabel)
	assert.Equal(t, "87.0%", v.Pathology.BarWidth)
	assert.Equal(t, "Urgent", v.Pathology.SeverityLabel)
	assert.Equal(t, "severity-red", v.Pathology.SeverityClass)

	// order preserved, no re-sorting
	require.Len(t, v.Sources, 2)
	assert.Equal(t, "Gastroenteritis", v.Sources[0].Label)
	assert.Equal(t, "41%", v.Sources[0].SimilarityLabel)
	assert.Equal(t, "Appendicitis", v.Sources[1].Label)

	assert.NotContains(t, string(v.Analysis), "```")
	assert.Contains(t, string(v.Analysis), "<strong>Likely</strong>")
	assert.Equal(t, "Not medical advice.", v.Disclaimer)
}

func TestRenderUnmatchedOmitsPathology(t *testing.T) {
	resp := &diagnosis.Response{Matched: false, Analysis: "Please see a doctor."}
	v := NewRenderer().Render(resp, localizer(t, "fr"))

	assert.Nil(t, v.Pathology)
	assert.Contains(t, string(v.Analysis), "Please see a doctor.")
	assert.Contains(t, v.Disclaimer, "avis médical", "empty disclaimer falls back to the translated default")
}

func TestRenderUnknownSeverityFallsBack(t *testing.T) {
	resp := matched()
	resp.Pathology.SeverityLevel = 7
	v := NewRenderer().Render(resp, localizer(t, "en"))
	require.NotNil(t, v.Pathology)
	assert.Equal(t, "Unknown", v.Pathology.SeverityLabel)
	assert.Equal(t, "severity-gray", v.Pathology.SeverityClass)
}

func TestRenderNil(t *testing.T) {
	v := NewRenderer().Render(nil, localizer(t, "en"))
	assert.Nil(t, v.Pathology)
	assert.Empty(t, v.Sources)
}

func TestMarkdownIsSanitized(t *testing.T) {
	md := NewMarkdown()
	out := string(md.HTML("Hello <script>alert(1)</script> <img src=x onerror=alert(1)>"))
	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "onerror")

	assert.Equal(t, "", string(md.HTML("```json\n```")))
	assert.NotContains(t, md.Sanitize(`<a href="#" onclick="x()">a</a>`), "onclick")
}

func TestCleanAnalysis(t *testing.T) {
	assert.Equal(t, `{"a":1}`, CleanAnalysis("```json\n{\"a\":1}\n```"))
	assert.Equal(t, "plain", CleanAnalysis("  plain "))
}

func TestTerminal(t *testing.T) {
	loc := localizer(t, "en")
	resp := matched()
	resp.Pathology.Name = "Appendicitis\x1b[31m"
	v := NewRenderer().Render(resp, loc)

	out, err := Terminal(v, loc, TerminalOptions{Width: 60, Style: "notty"})
	require.NoError(t, err)
	assert.Contains(t, out, "Appendicitis")
	assert.NotContains(t, out, "\x1b[31m")
	assert.Contains(t, out, "87%")
	assert.Contains(t, out, "[#################---]")
	assert.Contains(t, out, "Likely")
	assert.Less(t, strings.Index(out, "Gastroenteritis"), strings.Index(out, " 2. Appendicitis"))
	assert.Contains(t, out, "Not medical advice.")

	v = NewRenderer().Render(&diagnosis.Response{Analysis: "nothing"}, loc)
	out, err = Terminal(v, loc, TerminalOptions{Style: "notty"})
	require.NoError(t, err)
	assert.Contains(t, out, "Incomplete analysis")
}

func TestStripControl(t *testing.T) {
	assert.Equal(t, "ab\ncd", StripControl("a\x1b[0mb\ncd\x00"))
}

func TestProblemMessages(t *testing.T) {
	loc := localizer(t, "en")
	assert.Equal(t, "Please describe your symptoms in more detail.", ProblemMessage(diagnosis.ProblemTooShort, loc))
	assert.Equal(t, "This field is required.", ProblemMessage(diagnosis.Problem("nonsense"), loc))

	got := ProblemMessages(&diagnosis.ValidationError{Problems: map[diagnosis.Field]diagnosis.Problem{
		diagnosis.FieldAge:         diagnosis.ProblemOutOfRange,
		diagnosis.FieldDescription: diagnosis.ProblemRequired,
	}}, loc)
	assert.Equal(t, map[diagnosis.Field]string{
		diagnosis.FieldAge:         "This value is out of range.",
		diagnosis.FieldDescription: "This field is required.",
	}, got)
	assert.Nil(t, ProblemMessages(nil, loc))
}
