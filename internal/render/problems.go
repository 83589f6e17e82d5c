package render

import (
	"github.com/bryanwahyu/triagedesk/internal/domain/diagnosis"
	"github.com/bryanwahyu/triagedesk/internal/i18n"
)

var problemKeys = map[diagnosis.Problem]i18n.Key{
	diagnosis.ProblemRequired:   i18n.ValidationRequired,
	diagnosis.ProblemTooShort:   i18n.ValidationTooShort,
	diagnosis.ProblemTooLong:    i18n.ValidationTooLong,
	diagnosis.ProblemNotANumber: i18n.ValidationNotANumber,
	diagnosis.ProblemOutOfRange: i18n.ValidationOutOfRange,
}

// ProblemMessage translates a validation problem. Unknown problems read as "required".
func ProblemMessage(p diagnosis.Problem, loc i18n.Localizer) string {
	key, ok := problemKeys[p]
	if !ok {
		key = i18n.ValidationRequired
	}
	return loc.T(key)
}

// ProblemMessages translates every problem of a validation error, keyed by field.
func ProblemMessages(verr *diagnosis.ValidationError, loc i18n.Localizer) map[diagnosis.Field]string {
	if verr == nil {
		return nil
	}
	out := make(map[diagnosis.Field]string, len(verr.Problems))
	for f, p := range verr.Problems {
		out[f] = ProblemMessage(p, loc)
	}
	return out
}
