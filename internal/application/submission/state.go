package submission

import (
	"time"

	"github.com/bryanwahyu/triagedesk/internal/domain/diagnosis"
)

// State of the controller lifecycle.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateResult
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateResult:
		return "result"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// NoticeKind tells a surface which toast to show.
type NoticeKind string

const (
	NoticeNone       NoticeKind = ""
	NoticeSuccess    NoticeKind = "success"
	NoticeValidation NoticeKind = "validation"
	NoticeTransport  NoticeKind = "transport"
	NoticeInFlight   NoticeKind = "in_flight"
)

// Notice is the last user-facing message. Validation and transport notices
// are distinct kinds so surfaces never confuse the two.
type Notice struct {
	Kind NoticeKind
	Err  error
	At   time.Time
}

// Transition is delivered to observers in the order it happened.
type Transition struct {
	From State
	To   State
	At   time.Time
}

// Snapshot is a copy of the controller at one instant. Responses are never
// mutated once stored, so sharing the pointer is safe.
type Snapshot struct {
	State           State
	Request         *diagnosis.SymptomRequest
	Response        *diagnosis.Response
	Notice          Notice
	TriggerDisabled bool
}

// HasResult reports whether there is something to render.
func (s Snapshot) HasResult() bool { return s.Response != nil }
