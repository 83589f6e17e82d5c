package i18n

var italian = Table{
	// Form
	SymptomHeader:   "Descrivi i tuoi sintomi",
	SeverityInput:   "Livello di Dolore (1-10)",
	DescriptionLbl:  "Dettagli",
	ResultsHeader:   "Risultati dell'Analisi",
	AnalyzeButton:   "Analizza i sintomi",
	DescPlaceholder: "Es: Ho un mal di testa pulsante sul lato sinistro...",
	LoadingText:     "Analisi semantica in corso...",

	// Severity
	SeverityVeryLow: "Molto bassa",
	SeverityLow:     "Bassa",
	SeverityMod:     "Moderata",
	SeverityHigh:    "Alta",
	SeverityUrgent:  "Urgente",
	SeverityUnknown: "Sconosciuta",

	// Notices
	ToastSuccess:   "Analisi completata con successo!",
	ToastTransport: "Errore API: servizio occupato o non in linea. Riprova.",
}
