package diagnosis

import "context"

// Diagnoser port (interface ke API diagnosis eksternal)
type Diagnoser interface {
	Diagnose(ctx context.Context, req SymptomRequest) (*Response, error)
}

// ReportStore port for archiving rendered reports. Returns the public URL.
type ReportStore interface {
	Put(ctx context.Context, key string, html []byte) (string, error)
}
