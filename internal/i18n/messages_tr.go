package i18n

var turkish = Table{
	// Form
	SymptomHeader:   "Belirtilerinizi tanımlayın",
	SeverityInput:   "Ağrı Seviyesi (1-10)",
	DescriptionLbl:  "Detaylar",
	ResultsHeader:   "Analiz Sonuçları",
	AnalyzeButton:   "Belirtileri Analiz Et",
	DescPlaceholder: "Örn: Sol tarafta zonklayan bir baş ağrım var...",
	LoadingText:     "Anlamsal eşleşmeler analiz ediliyor...",

	// Severity
	SeverityVeryLow: "Çok düşük",
	SeverityLow:     "Düşük",
	SeverityMod:     "Orta",
	SeverityHigh:    "Yüksek",
	SeverityUrgent:  "Acil",
	SeverityUnknown: "Bilinmiyor",

	// Notices
	ToastSuccess:   "Analiz başarıyla tamamlandı!",
	ToastTransport: "API hatası: hizmet meşgul veya çevrimdışı. Lütfen tekrar deneyin.",
}
