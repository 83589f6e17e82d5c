package httpserver

import (
	"errors"
	"unicode/utf8"

	"github.com/bryanwahyu/triagedesk/internal/application/submission"
	"github.com/bryanwahyu/triagedesk/internal/domain/diagnosis"
	"github.com/bryanwahyu/triagedesk/internal/i18n"
	"github.com/bryanwahyu/triagedesk/internal/render"
)

var fieldLabels = map[diagnosis.Field]i18n.Key{
	diagnosis.FieldDescription: i18n.SymptomHeader,
	diagnosis.FieldFirstName:   i18n.FormFirstName,
	diagnosis.FieldLastName:    i18n.FormLastName,
	diagnosis.FieldAge:         i18n.FormAge,
	diagnosis.FieldGender:      i18n.FormGender,
	diagnosis.FieldHeight:      i18n.FormHeight,
	diagnosis.FieldWeight:      i18n.FormWeight,
	diagnosis.FieldSeverity:    i18n.SeverityInput,
	diagnosis.FieldHistory:     i18n.FormHistory,
	diagnosis.FieldVitals:      i18n.FormVitals,
	diagnosis.FieldMedications: i18n.FormMedications,
}

var noticeMessages = map[submission.NoticeKind]i18n.Key{
	submission.NoticeSuccess:    i18n.ToastSuccess,
	submission.NoticeTransport:  i18n.ToastTransport,
	submission.NoticeInFlight:   i18n.ToastInFlight,
	submission.NoticeValidation: i18n.ToastValidation,
}

// toast kinds, also CSS classes
var noticeToast = map[submission.NoticeKind]string{
	submission.NoticeSuccess:    "success",
	submission.NoticeTransport:  "error",
	submission.NoticeInFlight:   "info",
	submission.NoticeValidation: "warning",
}

// example descriptions offered on an empty single-field form
var examples = []string{
	"J'ai mal au ventre en bas à droite et je vomis depuis ce matin, avec un peu de fièvre",
	"J'ai très mal à la tête d'un côté, je supporte plus la lumière et j'ai des nausées",
	"J'ai la diarrhée depuis 2 jours avec des crampes au ventre et je me sens très fatigué",
}

type fieldView struct {
	Name     string
	Label    string
	Value    string
	Error    string
	Required bool
	Kind     string // text, number, textarea, gender, severity
	Min, Max int
}

type toastView struct {
	Kind    string
	Message string
}

type pageData struct {
	L         i18n.Localizer
	Lang      string
	Theme     string
	Languages []i18n.LanguageOption
	ReturnTo  string

	Schema           string
	Fields           []fieldView
	DescriptionCount int
	MinLength        int
	MaxLength        int
	OverLimit        bool
	Examples         []string

	State     string
	Loading   bool
	Result    *render.View
	ReportURL string
	Toast     *toastView
}

func fieldKind(f diagnosis.Field) (kind string, lo, hi int) {
	switch f {
	case diagnosis.FieldDescription, diagnosis.FieldHistory, diagnosis.FieldVitals, diagnosis.FieldMedications:
		return "textarea", 0, 0
	case diagnosis.FieldAge:
		return "number", 0, 130
	case diagnosis.FieldHeight:
		return "number", 1, 300
	case diagnosis.FieldWeight:
		return "number", 1, 500
	case diagnosis.FieldSeverity:
		return "severity", 1, 10
	case diagnosis.FieldGender:
		return "gender", 0, 0
	default:
		return "text", 0, 0
	}
}

// fieldErrors translates validation problems; nil when err is not a validation error.
func fieldErrors(err error, loc i18n.Localizer) map[diagnosis.Field]string {
	var verr *diagnosis.ValidationError
	if !errors.As(err, &verr) {
		return nil
	}
	return render.ProblemMessages(verr, loc)
}

func toastFor(kind submission.NoticeKind, loc i18n.Localizer) *toastView {
	key, ok := noticeMessages[kind]
	if !ok {
		return nil
	}
	return &toastView{Kind: noticeToast[kind], Message: loc.T(key)}
}

// buildForm lays out the fields a schema collects with the draft values and errors.
func buildForm(fields []diagnosis.Field, policy diagnosis.Policy, draft diagnosis.Form,
	errs map[diagnosis.Field]string, loc i18n.Localizer) []fieldView {
	out := make([]fieldView, 0, len(fields))
	for _, f := range fields {
		kind, lo, hi := fieldKind(f)
		out = append(out, fieldView{
			Name:     string(f),
			Label:    loc.T(fieldLabels[f]),
			Value:    draft[f],
			Error:    errs[f],
			Required: policy.Requires(f),
			Kind:     kind,
			Min:      lo,
			Max:      hi,
		})
	}
	return out
}

func descriptionStats(draft diagnosis.Form, policy diagnosis.Policy) (count int, over bool) {
	count = utf8.RuneCountInString(draft.Get(diagnosis.FieldDescription))
	return count, policy.MaxDescriptionLength > 0 && count > policy.MaxDescriptionLength
}
