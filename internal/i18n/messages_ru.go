package i18n

var russian = Table{
	// Form
	SymptomHeader:   "Опишите ваши симптомы",
	SeverityInput:   "Уровень боли (1-10)",
	DescriptionLbl:  "Подробности",
	ResultsHeader:   "Результаты анализа",
	AnalyzeButton:   "Анализировать",
	DescPlaceholder: "Например: пульсирующая головная боль с левой стороны...",
	LoadingText:     "Семантический анализ...",

	// Severity
	SeverityVeryLow: "Очень низкая",
	SeverityLow:     "Низкая",
	SeverityMod:     "Умеренная",
	SeverityHigh:    "Высокая",
	SeverityUrgent:  "Срочная",
	SeverityUnknown: "Неизвестно",

	// Notices
	ToastSuccess:   "Анализ успешно завершён!",
	ToastTransport: "Ошибка API: сервис занят или недоступен. Попробуйте ещё раз.",
}
