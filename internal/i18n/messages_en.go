package i18n

// english is the base table; every Key must be present.
var english = Table{
	// Page chrome
	AppTitle:      "TriageDesk",
	AppTagline:    "Medical pre-diagnosis assistant. This service does not replace a medical consultation.",
	LanguageLabel: "Language",
	ThemeToggle:   "Toggle theme",

	// Form
	SymptomHeader:     "Describe your symptoms",
	SeverityInput:     "Pain Severity (1-10)",
	DescriptionLbl:    "Details",
	ResultsHeader:     "Analysis Results",
	AnalyzeButton:     "Analyze Symptoms",
	DescPlaceholder:   "E.g., I have a throbbing headache on the left side...",
	LoadingText:       "Analyzing semantic matches...",
	FormFirstName:     "First name",
	FormLastName:      "Last name",
	FormAge:           "Age",
	FormGender:        "Gender",
	FormGenderFemale:  "Female",
	FormGenderMale:    "Male",
	FormGenderOther:   "Other",
	FormHeight:        "Height (cm)",
	FormWeight:        "Weight (kg)",
	FormHistory:       "Medical history",
	FormVitals:        "Vital signs",
	FormMedications:   "Current medications",
	FormCharacters:    "characters",
	FormMinimum:       "min.",
	FormOverLimit:     "Description is over the length limit",
	NewAnalysisButton: "← New analysis",
	ExamplesTitle:     "Example descriptions",

	// Result
	ResultPrediagnosis: "Pre-diagnosis",
	ResultIncomplete:   "Incomplete analysis",
	ResultConfidence:   "AI confidence",
	ResultSpecialist:   "Recommended specialist",
	ResultAdvice:       "Medical advice",
	ResultAnalysis:     "Assistant response",
	ResultSources:      "Sources",
	ResultSimilarity:   "Sim:",
	ResultDisclaimer:   "Disclaimer:",
	ResultReportLink:   "Saved report",
	ResultEmpty:        "Fill in the form to start the analysis.",
	DisclaimerDefault:  "This pre-diagnosis is informational only and is not medical advice. Consult a healthcare professional.",

	// Severity
	SeverityTitle:   "Severity:",
	SeverityVeryLow: "Very low",
	SeverityLow:     "Low",
	SeverityMod:     "Moderate",
	SeverityHigh:    "High",
	SeverityUrgent:  "Urgent",
	SeverityUnknown: "Unknown",

	// Notices
	ToastSuccess:         "Analysis completed successfully!",
	ToastTransport:       "API error: the service is busy or offline. Please try again.",
	ToastInFlight:        "An analysis is already running. Please wait for it to finish.",
	ToastValidation:      "Please check the highlighted fields.",
	ValidationRequired:   "This field is required.",
	ValidationTooShort:   "Please describe your symptoms in more detail.",
	ValidationTooLong:    "The description is too long.",
	ValidationNotANumber: "Please enter a number.",
	ValidationOutOfRange: "This value is out of range.",
}
