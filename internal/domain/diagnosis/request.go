package diagnosis

import (
	"strconv"
	"strings"
)

// Field names a form input. The string value is the form/JSON key.
type Field string

const (
	FieldDescription Field = "description"
	FieldFirstName   Field = "first_name"
	FieldLastName    Field = "last_name"
	FieldAge         Field = "age"
	FieldGender      Field = "gender"
	FieldHeight      Field = "height"
	FieldWeight      Field = "weight"
	FieldSeverity    Field = "severity"
	FieldHistory     Field = "history"
	FieldVitals      Field = "vitals"
	FieldMedications Field = "medications"
)

// Fields lists every form field in display order.
var Fields = []Field{
	FieldFirstName, FieldLastName, FieldAge, FieldGender, FieldHeight, FieldWeight,
	FieldSeverity, FieldDescription, FieldHistory, FieldVitals, FieldMedications,
}

// Form is the raw snapshot of what the user typed. Every value is kept as a string
// so a re-render shows exactly what was entered.
type Form map[Field]string

// Get returns the trimmed value of a field.
func (f Form) Get(field Field) string {
	return strings.TrimSpace(f[field])
}

// Clone returns an independent copy.
func (f Form) Clone() Form {
	out := make(Form, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// SymptomRequest is built fresh for every submission.
type SymptomRequest struct {
	Description string
	FirstName   string
	LastName    string
	Age         *int
	Gender      string
	HeightCM    *int
	WeightKG    *int
	Severity    int // 1-10, 0 when unset
	History     string
	Vitals      string
	Medications string
	Language    string
}

// Request parses the form. Numeric fields that do not parse, or fall outside their
// range, are reported as a *ValidationError.
func (f Form) Request(lang string) (SymptomRequest, error) {
	req := SymptomRequest{
		Description: f.Get(FieldDescription),
		FirstName:   f.Get(FieldFirstName),
		LastName:    f.Get(FieldLastName),
		Gender:      f.Get(FieldGender),
		History:     f.Get(FieldHistory),
		Vitals:      f.Get(FieldVitals),
		Medications: f.Get(FieldMedications),
		Language:    lang,
	}
	problems := map[Field]Problem{}

	parse := func(field Field, min, max int) *int {
		raw := f.Get(field)
		if raw == "" {
			return nil
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			problems[field] = ProblemNotANumber
			return nil
		}
		if n < min || n > max {
			problems[field] = ProblemOutOfRange
			return nil
		}
		return &n
	}

	req.Age = parse(FieldAge, 0, 130)
	req.HeightCM = parse(FieldHeight, 1, 300)
	req.WeightKG = parse(FieldWeight, 1, 500)
	if sev := parse(FieldSeverity, 1, 10); sev != nil {
		req.Severity = *sev
	}

	if len(problems) > 0 {
		return req, &ValidationError{Problems: problems}
	}
	return req, nil
}

// Has reports whether a field carries a usable value.
func (r SymptomRequest) Has(field Field) bool {
	switch field {
	case FieldDescription:
		return r.Description != ""
	case FieldFirstName:
		return r.FirstName != ""
	case FieldLastName:
		return r.LastName != ""
	case FieldAge:
		return r.Age != nil
	case FieldGender:
		return r.Gender != ""
	case FieldHeight:
		return r.HeightCM != nil && *r.HeightCM > 0
	case FieldWeight:
		return r.WeightKG != nil && *r.WeightKG > 0
	case FieldSeverity:
		return r.Severity > 0
	case FieldHistory:
		return r.History != ""
	case FieldVitals:
		return r.Vitals != ""
	case FieldMedications:
		return r.Medications != ""
	default:
		return false
	}
}
