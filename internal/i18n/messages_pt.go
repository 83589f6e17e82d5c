package i18n

var portuguese = Table{
	// Form
	SymptomHeader:   "Descreva seus sintomas",
	SeverityInput:   "Nível de Dor (1-10)",
	DescriptionLbl:  "Detalhes",
	ResultsHeader:   "Resultados da Análise",
	AnalyzeButton:   "Analisar sintomas",
	DescPlaceholder: "Ex: Tenho uma dor de cabeça latejante no lado esquerdo...",
	LoadingText:     "Analisando correspondências semânticas...",

	// Severity
	SeverityVeryLow: "Muito baixa",
	SeverityLow:     "Baixa",
	SeverityMod:     "Moderada",
	SeverityHigh:    "Alta",
	SeverityUrgent:  "Urgente",
	SeverityUnknown: "Desconhecida",

	// Notices
	ToastSuccess:   "Análise concluída com sucesso!",
	ToastTransport: "Erro de API: serviço ocupado ou offline. Tente novamente.",
}
