package i18n

// Key identifies a UI string. The set is closed: every key used by a surface is declared here.
type Key string

const (
	AppTitle   Key = "app.title"
	AppTagline Key = "app.tagline"

	SymptomHeader   Key = "lbl_symptom_header"
	SeverityInput   Key = "lbl_severity"
	DescriptionLbl  Key = "lbl_desc"
	ResultsHeader   Key = "lbl_results"
	AnalyzeButton   Key = "btn_analyze"
	DescPlaceholder Key = "placeholder_desc"
	LoadingText     Key = "loading_text"

	FormFirstName    Key = "form.first_name"
	FormLastName     Key = "form.last_name"
	FormAge          Key = "form.age"
	FormGender       Key = "form.gender"
	FormGenderFemale Key = "form.gender_female"
	FormGenderMale   Key = "form.gender_male"
	FormGenderOther  Key = "form.gender_other"
	FormHeight       Key = "form.height"
	FormWeight       Key = "form.weight"
	FormHistory      Key = "form.history"
	FormVitals       Key = "form.vitals"
	FormMedications  Key = "form.medications"
	FormCharacters   Key = "form.characters"
	FormMinimum      Key = "form.minimum"
	FormOverLimit    Key = "form.over_limit"

	NewAnalysisButton Key = "btn.new_analysis"
	ThemeToggle       Key = "btn.theme_toggle"
	LanguageLabel     Key = "nav.language"

	ResultPrediagnosis Key = "result.prediagnosis"
	ResultIncomplete   Key = "result.incomplete"
	ResultConfidence   Key = "result.confidence"
	ResultSpecialist   Key = "result.specialist"
	ResultAdvice       Key = "result.advice"
	ResultAnalysis     Key = "result.analysis"
	ResultSources      Key = "result.sources"
	ResultSimilarity   Key = "result.similarity"
	ResultDisclaimer   Key = "result.disclaimer_title"
	ResultReportLink   Key = "result.report_link"
	ResultEmpty        Key = "result.empty"

	SeverityTitle   Key = "severity.title"
	SeverityVeryLow Key = "severity.very_low"
	SeverityLow     Key = "severity.low"
	SeverityMod     Key = "severity.moderate"
	SeverityHigh    Key = "severity.high"
	SeverityUrgent  Key = "severity.urgent"
	SeverityUnknown Key = "severity.unknown"

	ToastSuccess    Key = "toast.success"
	ToastTransport  Key = "toast.transport_error"
	ToastInFlight   Key = "toast.in_flight"
	ToastValidation Key = "toast.validation"

	ValidationRequired   Key = "validation.required"
	ValidationTooShort   Key = "validation.too_short"
	ValidationTooLong    Key = "validation.too_long"
	ValidationNotANumber Key = "validation.not_a_number"
	ValidationOutOfRange Key = "validation.out_of_range"
	DisclaimerDefault    Key = "disclaimer.default"
	ExamplesTitle        Key = "examples.title"
)

// AllKeys is the closed key set, used by tests to check table completeness.
var AllKeys = []Key{
	AppTitle, AppTagline,
	SymptomHeader, SeverityInput, DescriptionLbl, ResultsHeader, AnalyzeButton, DescPlaceholder, LoadingText,
	FormFirstName, FormLastName, FormAge, FormGender, FormGenderFemale, FormGenderMale, FormGenderOther,
	FormHeight, FormWeight, FormHistory, FormVitals, FormMedications, FormCharacters, FormMinimum, FormOverLimit,
	NewAnalysisButton, ThemeToggle, LanguageLabel,
	ResultPrediagnosis, ResultIncomplete, ResultConfidence, ResultSpecialist, ResultAdvice, ResultAnalysis,
	ResultSources, ResultSimilarity, ResultDisclaimer, ResultReportLink, ResultEmpty,
	SeverityTitle, SeverityVeryLow, SeverityLow, SeverityMod, SeverityHigh, SeverityUrgent, SeverityUnknown,
	ToastSuccess, ToastTransport, ToastInFlight, ToastValidation,
	ValidationRequired, ValidationTooShort, ValidationTooLong, ValidationNotANumber, ValidationOutOfRange,
	DisclaimerDefault, ExamplesTitle,
}
