// Package diagnosisapi talks to the external diagnosis API. The four request/response
// shapes that API has been deployed with are modelled as schema adapters; one
// Client performs the single POST for whichever schema is configured.
package diagnosisapi

import (
	"fmt"
	"sort"

	"github.com/bryanwahyu/triagedesk/internal/domain/diagnosis"
)

// Schema maps the domain request/response onto one wire format.
type Schema interface {
	Name() string
	Path() string
	Policy() diagnosis.Policy
	// Fields lists the form fields this variant collects, in display order.
	Fields() []diagnosis.Field
	Encode(req diagnosis.SymptomRequest) ([]byte, error)
	Decode(body []byte) (*diagnosis.Response, error)
}

const (
	SchemaDiagnose    = "diagnose"
	SchemaAnalyze     = "analyze"
	SchemaAnalyzeLite = "analyze-lite"
	SchemaTriage      = "triage"
)

var registry = map[string]Schema{
	SchemaDiagnose:    diagnoseSchema{},
	SchemaAnalyze:     analyzeSchema{},
	SchemaAnalyzeLite: analyzeLiteSchema{},
	SchemaTriage:      triageSchema{},
}

// Lookup returns the schema registered under name.
func Lookup(name string) (Schema, error) {
	s, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown schema %q (known: %v)", name, Names())
	}
	return s, nil
}

// Names lists the registered schemas in stable order.
func Names() []string {
	out := make([]string, 0, len(registry))
	for n := range registry {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Schemas returns every registered schema sorted by name.
func Schemas() []Schema {
	names := Names()
	out := make([]Schema, 0, len(names))
	for _, n := range names {
		out = append(out, registry[n])
	}
	return out
}

// WithPolicy wraps a schema so it reports an overridden policy.
func WithPolicy(s Schema, p diagnosis.Policy) (Schema, error) {
	if err := p.Valid(); err != nil {
		return nil, fmt.Errorf("schema %s: %w", s.Name(), err)
	}
	return overridden{Schema: s, policy: p}, nil
}

type overridden struct {
	Schema
	policy diagnosis.Policy
}

func (o overridden) Policy() diagnosis.Policy { return o.policy }

func decodeErr(schema string, err error) error {
	return &diagnosis.DecodeError{Schema: schema, Err: err}
}

// finish validates the mapped response so invariant violations surface as decode errors.
func finish(schema string, resp *diagnosis.Response) (*diagnosis.Response, error) {
	if err := resp.Validate(); err != nil {
		return nil, decodeErr(schema, err)
	}
	return resp, nil
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
