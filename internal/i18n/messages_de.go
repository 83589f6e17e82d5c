package i18n

var german = Table{
	// Form
	SymptomHeader:   "Beschreiben Sie Ihre Symptome",
	SeverityInput:   "Schmerzlevel (1-10)",
	DescriptionLbl:  "Details",
	ResultsHeader:   "Analyseergebnisse",
	AnalyzeButton:   "Symptome analysieren",
	DescPlaceholder: "Z.B.: Ich habe pulsierende Kopfschmerzen auf der linken Seite...",
	LoadingText:     "Semantische Analyse läuft...",

	// Severity
	SeverityVeryLow: "Sehr niedrig",
	SeverityLow:     "Niedrig",
	SeverityMod:     "Mittel",
	SeverityHigh:    "Hoch",
	SeverityUrgent:  "Dringend",
	SeverityUnknown: "Unbekannt",

	// Notices
	ToastSuccess:   "Analyse erfolgreich abgeschlossen!",
	ToastTransport: "API-Fehler: Der Dienst ist ausgelastet oder offline. Bitte erneut versuchen.",
}
