package diagnosisapi

import (
	"encoding/json"
	"errors"

	"github.com/bryanwahyu/triagedesk/internal/domain/diagnosis"
)

// ==== diagnose: single-page client, POST /diagnose ====

type diagnoseSchema struct{}

type diagnoseRequest struct {
	Symptoms string `json:"symptoms"`
}

type wirePathology struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	ConfidenceScore float64 `json:"confidence_score"`
	SeverityLevel   int     `json:"severity_level"`
	Urgency         string  `json:"urgency"`
	Advice          string  `json:"advice"`
	Specialist      string  `json:"specialist"`
}

type diagnoseResponse struct {
	Success    *bool          `json:"success"`
	Matched    bool           `json:"matched"`
	Pathology  *wirePathology `json:"pathology"`
	AIResponse string         `json:"ai_response"`
	Analysis   string         `json:"analysis"`
	Disclaimer string         `json:"disclaimer"`
	Authors    []string       `json:"authors"`
}

func (diagnoseSchema) Name() string { return SchemaDiagnose }
func (diagnoseSchema) Path() string { return "/diagnose" }

func (diagnoseSchema) Policy() diagnosis.Policy {
	return diagnosis.Policy{MinDescriptionLength: 10, MaxDescriptionLength: 2000}
}

func (diagnoseSchema) Fields() []diagnosis.Field {
	return []diagnosis.Field{diagnosis.FieldDescription}
}

func (diagnoseSchema) Encode(req diagnosis.SymptomRequest) ([]byte, error) {
	return json.Marshal(diagnoseRequest{Symptoms: req.Description})
}

func (diagnoseSchema) Decode(body []byte) (*diagnosis.Response, error) {
	var w diagnoseResponse
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, decodeErr(SchemaDiagnose, err)
	}
	if w.Success != nil && !*w.Success {
		return nil, decodeErr(SchemaDiagnose, errors.New("api reported success=false"))
	}
	resp := &diagnosis.Response{
		Matched:    w.Matched,
		Analysis:   w.AIResponse,
		Disclaimer: w.Disclaimer,
		Authors:    w.Authors,
		Sources:    []diagnosis.Source{},
	}
	if resp.Analysis == "" {
		resp.Analysis = w.Analysis
	}
	if p := w.Pathology; p != nil {
		resp.Pathology = &diagnosis.Pathology{
			ID:              p.ID,
			Name:            p.Name,
			ConfidenceScore: p.ConfidenceScore,
			SeverityLevel:   p.SeverityLevel,
			Urgency:         p.Urgency,
			Advice:          p.Advice,
			Specialist:      p.Specialist,
		}
	}
	return finish(SchemaDiagnose, resp)
}

// ==== analyze: full patient form, POST /api/analyze ====

type analyzeSchema struct{}

type analyzeRequest struct {
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Age         *int    `json:"age"`
	Gender      string  `json:"gender"`
	Height      *int    `json:"height"`
	Weight      *int    `json:"weight"`
	Symptoms    string  `json:"symptoms"`
	History     *string `json:"history"`
	Vitals      *string `json:"vitals"`
	Medications *string `json:"medications"`
}

type wireSource struct {
	Disease     string  `json:"disease"`
	Score       float64 `json:"score"`
	Description string  `json:"description"`
}

type analyzeResponse struct {
	Analysis string       `json:"analysis"`
	Sources  []wireSource `json:"sources"`
}

func (analyzeSchema) Name() string { return SchemaAnalyze }
func (analyzeSchema) Path() string { return "/api/analyze" }

func (analyzeSchema) Policy() diagnosis.Policy {
	return diagnosis.Policy{
		MinDescriptionLength: 1,
		Required: []diagnosis.Field{
			diagnosis.FieldFirstName,
			diagnosis.FieldLastName,
			diagnosis.FieldHeight,
			diagnosis.FieldWeight,
		},
	}
}

func (analyzeSchema) Fields() []diagnosis.Field {
	return []diagnosis.Field{
		diagnosis.FieldFirstName, diagnosis.FieldLastName,
		diagnosis.FieldAge, diagnosis.FieldGender,
		diagnosis.FieldHeight, diagnosis.FieldWeight,
		diagnosis.FieldDescription,
		diagnosis.FieldHistory, diagnosis.FieldVitals, diagnosis.FieldMedications,
	}
}

func (analyzeSchema) Encode(req diagnosis.SymptomRequest) ([]byte, error) {
	return json.Marshal(analyzeRequest{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Age:         req.Age,
		Gender:      req.Gender,
		Height:      req.HeightCM,
		Weight:      req.WeightKG,
		Symptoms:    req.Description,
		History:     optString(req.History),
		Vitals:      optString(req.Vitals),
		Medications: optString(req.Medications),
	})
}

func (analyzeSchema) Decode(body []byte) (*diagnosis.Response, error) {
	return decodeAnalysis(SchemaAnalyze, body)
}

// shared by analyze and analyze-lite
func decodeAnalysis(schema string, body []byte) (*diagnosis.Response, error) {
	var w analyzeResponse
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, decodeErr(schema, err)
	}
	resp := &diagnosis.Response{
		Analysis: w.Analysis,
		Sources:  make([]diagnosis.Source, 0, len(w.Sources)),
	}
	for _, s := range w.Sources {
		resp.Sources = append(resp.Sources, diagnosis.Source{
			Label:           s.Disease,
			SimilarityScore: s.Score,
			Description:     s.Description,
		})
	}
	return finish(schema, resp)
}

// ==== analyze-lite: age/gender/symptoms only, POST /api/analyze ====

type analyzeLiteSchema struct{}

type analyzeLiteRequest struct {
	Age      *int   `json:"age"`
	Gender   string `json:"gender"`
	Symptoms string `json:"symptoms"`
}

func (analyzeLiteSchema) Name() string { return SchemaAnalyzeLite }
func (analyzeLiteSchema) Path() string { return "/api/analyze" }

func (analyzeLiteSchema) Policy() diagnosis.Policy {
	return diagnosis.Policy{MinDescriptionLength: 1}
}

func (analyzeLiteSchema) Fields() []diagnosis.Field {
	return []diagnosis.Field{diagnosis.FieldAge, diagnosis.FieldGender, diagnosis.FieldDescription}
}

func (analyzeLiteSchema) Encode(req diagnosis.SymptomRequest) ([]byte, error) {
	return json.Marshal(analyzeLiteRequest{Age: req.Age, Gender: req.Gender, Symptoms: req.Description})
}

func (analyzeLiteSchema) Decode(body []byte) (*diagnosis.Response, error) {
	return decodeAnalysis(SchemaAnalyzeLite, body)
}

// ==== triage: description + pain severity, POST /api/triage ====

type triageSchema struct{}

// the web slider starts at 5; requests without a severity send the same value
const defaultTriageSeverity = 5

type triageRequest struct {
	Description string `json:"description"`
	Severity    int    `json:"severity"`
	Lang        string `json:"lang,omitempty"`
}

type triageMatch struct {
	Name        string  `json:"name"`
	Score       float64 `json:"score"`
	Probability string  `json:"probability"`
}

type triageResponse struct {
	Matches []triageMatch `json:"matches"`
	Advice  string        `json:"advice"`
}

func (triageSchema) Name() string { return SchemaTriage }
func (triageSchema) Path() string { return "/api/triage" }

func (triageSchema) Policy() diagnosis.Policy {
	return diagnosis.Policy{MinDescriptionLength: 1, MaxDescriptionLength: 1000}
}

func (triageSchema) Fields() []diagnosis.Field {
	return []diagnosis.Field{diagnosis.FieldDescription, diagnosis.FieldSeverity}
}

func (triageSchema) Encode(req diagnosis.SymptomRequest) ([]byte, error) {
	sev := req.Severity
	if sev == 0 {
		sev = defaultTriageSeverity
	}
	return json.Marshal(triageRequest{Description: req.Description, Severity: sev, Lang: req.Language})
}

func (triageSchema) Decode(body []byte) (*diagnosis.Response, error) {
	var w triageResponse
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, decodeErr(SchemaTriage, err)
	}
	resp := &diagnosis.Response{
		Analysis: w.Advice,
		Sources:  make([]diagnosis.Source, 0, len(w.Matches)),
	}
	for _, m := range w.Matches {
		resp.Sources = append(resp.Sources, diagnosis.Source{
			Label:           m.Name,
			SimilarityScore: m.Score,
			Description:     m.Probability,
		})
	}
	return finish(SchemaTriage, resp)
}
