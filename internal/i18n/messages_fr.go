package i18n

// french is the default UI language and is kept complete.
var french = Table{
	// Page chrome
	AppTitle:      "TriageDesk",
	AppTagline:    "Assistant de pré-diagnostic médical. Ce service ne remplace pas une consultation médicale.",
	LanguageLabel: "Langue",
	ThemeToggle:   "Changer de thème",

	// Form
	SymptomHeader:     "Décrivez vos symptômes",
	SeverityInput:     "Niveau de Douleur (1-10)",
	DescriptionLbl:    "Détails",
	ResultsHeader:     "Résultats d'Analyse",
	AnalyzeButton:     "Analyser les symptômes",
	DescPlaceholder:   "Ex: J'ai un mal de tête pulsatile côté gauche...",
	LoadingText:       "Analyse sémantique en cours...",
	FormFirstName:     "Prénom",
	FormLastName:      "Nom",
	FormAge:           "Âge",
	FormGender:        "Sexe",
	FormGenderFemale:  "Femme",
	FormGenderMale:    "Homme",
	FormGenderOther:   "Autre",
	FormHeight:        "Taille (cm)",
	FormWeight:        "Poids (kg)",
	FormHistory:       "Antécédents médicaux",
	FormVitals:        "Constantes vitales",
	FormMedications:   "Traitements en cours",
	FormCharacters:    "caractères",
	FormMinimum:       "min.",
	FormOverLimit:     "La description dépasse la longueur maximale",
	NewAnalysisButton: "← Nouvelle analyse",
	ExamplesTitle:     "Exemples de descriptions",

	// Result
	ResultPrediagnosis: "Pré-diagnostic",
	ResultIncomplete:   "Analyse incomplète",
	ResultConfidence:   "Confiance de l'IA",
	ResultSpecialist:   "Spécialiste recommandé",
	ResultAdvice:       "Conseil médical",
	ResultAnalysis:     "Réponse de l'assistant",
	ResultSources:      "Sources",
	ResultSimilarity:   "Sim :",
	ResultDisclaimer:   "Avertissement :",
	ResultReportLink:   "Rapport enregistré",
	ResultEmpty:        "Remplissez le formulaire pour démarrer l'analyse.",
	DisclaimerDefault:  "Ce pré-diagnostic est fourni à titre informatif et ne constitue pas un avis médical. Consultez un professionnel de santé.",

	// Severity
	SeverityTitle:   "Gravité :",
	SeverityVeryLow: "Très faible",
	SeverityLow:     "Faible",
	SeverityMod:     "Modérée",
	SeverityHigh:    "Élevée",
	SeverityUrgent:  "Urgente",
	SeverityUnknown: "Inconnue",

	// Notices
	ToastSuccess:         "Analyse terminée avec succès !",
	ToastTransport:       "Erreur API : service occupé ou hors ligne. Veuillez réessayer.",
	ToastInFlight:        "Une analyse est déjà en cours. Veuillez patienter.",
	ToastValidation:      "Veuillez vérifier les champs signalés.",
	ValidationRequired:   "Ce champ est obligatoire.",
	ValidationTooShort:   "Veuillez décrire vos symptômes plus en détail.",
	ValidationTooLong:    "La description est trop longue.",
	ValidationNotANumber: "Veuillez saisir un nombre.",
	ValidationOutOfRange: "Cette valeur est hors limites.",
}
