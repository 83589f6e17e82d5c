package i18n

var spanish = Table{
	// Form
	SymptomHeader:   "Describa sus síntomas",
	SeverityInput:   "Nivel de Dolor (1-10)",
	DescriptionLbl:  "Detalles",
	ResultsHeader:   "Resultados del Análisis",
	AnalyzeButton:   "Analizar síntomas",
	DescPlaceholder: "Ej: Tengo un dolor de cabeza pulsante en el lado izquierdo...",
	LoadingText:     "Analizando coincidencias semánticas...",

	// Severity
	SeverityVeryLow: "Muy baja",
	SeverityLow:     "Baja",
	SeverityMod:     "Moderada",
	SeverityHigh:    "Alta",
	SeverityUrgent:  "Urgente",
	SeverityUnknown: "Desconocida",

	// Notices
	ToastSuccess:   "¡Análisis completado con éxito!",
	ToastTransport: "Error de API: el servicio está ocupado o fuera de línea. Inténtelo de nuevo.",
}
