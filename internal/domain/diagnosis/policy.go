package diagnosis

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Policy decides whether a request may be sent. There is deliberately no
// package-level default: every schema declares its own and config may override it.
type Policy struct {
	MinDescriptionLength int     `json:"min_description_length"`
	MaxDescriptionLength int     `json:"max_description_length,omitempty"` // 0 = unbounded
	Required             []Field `json:"required,omitempty"`
}

// Valid rejects policies that would let an empty description through.
func (p Policy) Valid() error {
	if p.MinDescriptionLength < 1 {
		return errors.New("policy: min description length must be at least 1")
	}
	if p.MaxDescriptionLength != 0 && p.MaxDescriptionLength < p.MinDescriptionLength {
		return fmt.Errorf("policy: max description length %d below min %d",
			p.MaxDescriptionLength, p.MinDescriptionLength)
	}
	return nil
}

// Check validates a parsed request. Lengths are counted in runes.
func (p Policy) Check(req SymptomRequest) error {
	problems := map[Field]Problem{}

	for _, f := range p.Required {
		if f == FieldDescription {
			continue
		}
		if !req.Has(f) {
			problems[f] = ProblemRequired
		}
	}

	n := utf8.RuneCountInString(req.Description)
	switch {
	case n == 0:
		problems[FieldDescription] = ProblemRequired
	case n < p.MinDescriptionLength:
		problems[FieldDescription] = ProblemTooShort
	case p.MaxDescriptionLength > 0 && n > p.MaxDescriptionLength:
		problems[FieldDescription] = ProblemTooLong
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// Requires reports whether the policy marks a field as mandatory.
func (p Policy) Requires(field Field) bool {
	if field == FieldDescription {
		return true
	}
	for _, f := range p.Required {
		if f == field {
			return true
		}
	}
	return false
}
