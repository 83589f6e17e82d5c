// Package submission owns the lifecycle of one visitor's symptom submission:
// validation, the single in-flight call, and the idle/loading/result/error states.
package submission

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/bryanwahyu/triagedesk/internal/application"
	"github.com/bryanwahyu/triagedesk/internal/domain/diagnosis"
)

// ErrInFlight is returned while a previous submission is still outstanding.
var ErrInFlight = errors.New("submission: a request is already in flight")

// Controller is safe for concurrent use. One instance serves one visitor.
type Controller struct {
	diagnoser diagnosis.Diagnoser
	policy    diagnosis.Policy
	clock     application.Clock
	log       *zap.Logger

	// held for the whole Loading window, and by Reset
	slot *semaphore.Weighted

	mu        sync.Mutex
	state     State
	request   *diagnosis.SymptomRequest
	response  *diagnosis.Response
	notice    Notice
	observers []func(Transition)
}

// Option configures a Controller.
type Option func(*Controller)

func WithClock(c application.Clock) Option {
	return func(ctl *Controller) { ctl.clock = c }
}

func WithLogger(l *zap.Logger) Option {
	return func(ctl *Controller) { ctl.log = l }
}

// New validates the policy up front; a controller never runs with an invalid one.
func New(d diagnosis.Diagnoser, policy diagnosis.Policy, opts ...Option) (*Controller, error) {
	if d == nil {
		return nil, errors.New("submission: diagnoser is required")
	}
	if err := policy.Valid(); err != nil {
		return nil, fmt.Errorf("submission: %w", err)
	}
	c := &Controller{
		diagnoser: d,
		policy:    policy,
		clock:     application.SystemClock{},
		log:       zap.NewNop(),
		slot:      semaphore.NewWeighted(1),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Policy returns the validation policy in force.
func (c *Controller) Policy() diagnosis.Policy { return c.policy }

// Observe registers fn for every later transition. fn runs on the goroutine
// that caused the transition and must not block for long.
func (c *Controller) Observe(fn func(Transition)) {
	if fn == nil {
		return
	}
	c.mu.Lock()
	c.observers = append(c.observers, fn)
	c.mu.Unlock()
}

// Validate parses and checks a form without touching any state.
func (c *Controller) Validate(form diagnosis.Form, lang string) (diagnosis.SymptomRequest, error) {
	req, parseErr := form.Request(lang)
	problems := map[diagnosis.Field]diagnosis.Problem{}

	var verr *diagnosis.ValidationError
	if errors.As(parseErr, &verr) {
		for f, p := range verr.Problems {
			problems[f] = p
		}
	} else if parseErr != nil {
		return req, parseErr
	}
	if errors.As(c.policy.Check(req), &verr) {
		for f, p := range verr.Problems {
			// a parse failure is more specific than "required"
			if _, seen := problems[f]; !seen {
				problems[f] = p
			}
		}
	}
	if len(problems) > 0 {
		return req, &diagnosis.ValidationError{Problems: problems}
	}
	return req, nil
}

// Submit validates form and, if valid and nothing else is outstanding, makes
// exactly one call to the diagnoser. The caller's cancellation does not reach
// the call; only the transport timeout bounds it.
func (c *Controller) Submit(ctx context.Context, form diagnosis.Form, lang string) (*diagnosis.Response, error) {
	req, err := c.Validate(form, lang)
	if err != nil {
		c.setNotice(NoticeValidation, err)
		c.log.Debug("submission rejected by validation", zap.Error(err))
		return nil, err
	}

	if !c.slot.TryAcquire(1) {
		c.setNotice(NoticeInFlight, ErrInFlight)
		return nil, ErrInFlight
	}
	defer c.slot.Release(1)

	c.mu.Lock()
	c.request = &req
	c.mu.Unlock()
	c.transition(StateLoading)

	resp, err := c.diagnoser.Diagnose(context.WithoutCancel(ctx), req)
	if err == nil {
		err = checkResponse(resp)
	}
	if err != nil {
		// prior response stays untouched
		c.mu.Lock()
		c.notice = Notice{Kind: NoticeTransport, Err: err, At: c.clock.Now()}
		c.mu.Unlock()
		c.transition(StateError)
		c.log.Warn("diagnosis call failed", zap.Error(err))
		return nil, err
	}

	c.mu.Lock()
	c.response = resp
	c.notice = Notice{Kind: NoticeSuccess, At: c.clock.Now()}
	c.mu.Unlock()
	c.transition(StateResult)
	return resp, nil
}

func checkResponse(resp *diagnosis.Response) error {
	if resp == nil {
		return &diagnosis.DecodeError{Schema: "response", Err: errors.New("empty response")}
	}
	if err := resp.Validate(); err != nil {
		return &diagnosis.DecodeError{Schema: "response", Err: err}
	}
	return nil
}

// Reset clears request, response and notice and returns to Idle.
func (c *Controller) Reset() error {
	if !c.slot.TryAcquire(1) {
		return ErrInFlight
	}
	defer c.slot.Release(1)

	c.mu.Lock()
	c.request = nil
	c.response = nil
	c.notice = Notice{}
	c.mu.Unlock()
	c.transition(StateIdle)
	return nil
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		State:           c.state,
		Response:        c.response,
		Notice:          c.notice,
		TriggerDisabled: c.state == StateLoading,
	}
	if c.request != nil {
		req := *c.request
		s.Request = &req
	}
	return s
}

// ClearNotice drops the current notice once a surface has shown it.
func (c *Controller) ClearNotice() {
	c.mu.Lock()
	c.notice = Notice{}
	c.mu.Unlock()
}

func (c *Controller) setNotice(kind NoticeKind, err error) {
	c.mu.Lock()
	c.notice = Notice{Kind: kind, Err: err, At: c.clock.Now()}
	c.mu.Unlock()
}

// transition is only called while holding the slot, so transitions of one
// controller never interleave.
func (c *Controller) transition(to State) {
	c.mu.Lock()
	t := Transition{From: c.state, To: to, At: c.clock.Now()}
	c.state = to
	observers := make([]func(Transition), len(c.observers))
	copy(observers, c.observers)
	c.mu.Unlock()

	c.log.Debug("submission transition",
		zap.Stringer("from", t.From),
		zap.Stringer("to", t.To),
	)
	for _, fn := range observers {
		fn(t)
	}
}
