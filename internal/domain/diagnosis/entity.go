package diagnosis

import (
	"errors"
	"fmt"
)

// Pathology is the candidate condition returned by the diagnosis API.
type Pathology struct {
	ID              string  `json:"id,omitempty"`
	Name            string  `json:"name"`
	ConfidenceScore float64 `json:"confidence_score"`
	SeverityLevel   int     `json:"severity_level"`
	Urgency         string  `json:"urgency,omitempty"`
	Advice          string  `json:"advice,omitempty"`
	Specialist      string  `json:"specialist,omitempty"`
}

// Source is a citation returned alongside the analysis.
type Source struct {
	Label           string  `json:"label"`
	SimilarityScore float64 `json:"similarity_score"`
	Description     string  `json:"description,omitempty"`
}

// Response is the normalized diagnosis payload, whatever schema the API speaks.
// A Response is never mutated after it has been decoded.
type Response struct {
	Matched    bool       `json:"matched"`
	Pathology  *Pathology `json:"pathology,omitempty"`
	Analysis   string     `json:"analysis"`
	Sources    []Source   `json:"sources"`
	Disclaimer string     `json:"disclaimer,omitempty"`
	Authors    []string   `json:"authors,omitempty"`
}

var (
	ErrPathologyWithoutMatch = errors.New("pathology present on an unmatched response")
	ErrMatchWithoutPathology = errors.New("matched response carries no pathology")
)

// Validate checks the invariants a renderer relies on.
func (r *Response) Validate() error {
	if r == nil {
		return errors.New("empty response")
	}
	if r.Matched && r.Pathology == nil {
		return ErrMatchWithoutPathology
	}
	if !r.Matched && r.Pathology != nil {
		return ErrPathologyWithoutMatch
	}
	if p := r.Pathology; p != nil {
		if p.Name == "" {
			return errors.New("pathology name is empty")
		}
		if !unitInterval(p.ConfidenceScore) {
			return fmt.Errorf("confidence score %v outside [0,1]", p.ConfidenceScore)
		}
	}
	for i, s := range r.Sources {
		if !unitInterval(s.SimilarityScore) {
			return fmt.Errorf("source %d: similarity score %v outside [0,1]", i, s.SimilarityScore)
		}
	}
	return nil
}

func unitInterval(v float64) bool {
	return v >= 0 && v <= 1
}
