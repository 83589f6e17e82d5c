package diagnosis

import (
	"fmt"
	"sort"
	"strings"
)

// Problem is a machine-readable validation failure; surfaces translate it.
type Problem string

const (
	ProblemRequired   Problem = "required"
	ProblemTooShort   Problem = "too_short"
	ProblemTooLong    Problem = "too_long"
	ProblemNotANumber Problem = "not_a_number"
	ProblemOutOfRange Problem = "out_of_range"
)

// ValidationError is raised before any network call.
type ValidationError struct {
	Problems map[Field]Problem
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Problems))
	for f := range e.Problems {
		keys = append(keys, string(f))
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Problems[Field(k)]))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Problem returns the problem recorded for a field, if any.
func (e *ValidationError) Problem(f Field) (Problem, bool) {
	p, ok := e.Problems[f]
	return p, ok
}

// TransportError covers network failures and non-2xx statuses.
type TransportError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("diagnosis api returned status %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("diagnosis api unreachable: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError means the API answered 2xx but the payload is unusable.
type DecodeError struct {
	Schema string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s response: %v", e.Schema, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
