package httpserver

import (
	"errors"
	"sync"
	"time"

	"github.com/bryanwahyu/triagedesk/internal/application/submission"
	"github.com/bryanwahyu/triagedesk/internal/domain/diagnosis"
)

// Session is one visitor's controller plus the in-progress form draft.
type Session struct {
	ID         string
	Controller *submission.Controller

	mu        sync.Mutex
	draft     diagnosis.Form
	reportURL string
	lastSeen  time.Time
}

// Draft returns a copy of the draft.
func (s *Session) Draft() diagnosis.Form {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Clone()
}

func (s *Session) SetDraft(f diagnosis.Form) {
	s.mu.Lock()
	s.draft = f.Clone()
	s.mu.Unlock()
}

// ReportURL is the archived copy of the current result, if any.
func (s *Session) ReportURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reportURL
}

func (s *Session) SetReportURL(u string) {
	s.mu.Lock()
	s.reportURL = u
	s.mu.Unlock()
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idle(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

// ControllerFactory builds the controller of a new session.
type ControllerFactory func() (*submission.Controller, error)

var errSessionsClosed = errors.New("session registry closed")

// Sessions is the registry of live sessions. Idle ones are evicted by a
// janitor goroutine that Close stops.
type Sessions struct {
	mu      sync.RWMutex
	items   map[string]*Session
	ttl     time.Duration
	factory ControllerFactory
	now     func() time.Time

	closed   bool
	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewSessions(ttl time.Duration, factory ControllerFactory) *Sessions {
	s := newSessions(ttl, factory, time.Now)
	every := min(ttl/2, time.Minute)
	if every <= 0 {
		every = time.Minute
	}
	s.wg.Add(1)
	go s.janitor(every)
	return s
}

func newSessions(ttl time.Duration, factory ControllerFactory, now func() time.Time) *Sessions {
	return &Sessions{
		items:   make(map[string]*Session),
		ttl:     ttl,
		factory: factory,
		now:     now,
		stop:    make(chan struct{}),
	}
}

// GetOrCreate returns the session for id, creating it on first use.
func (s *Sessions) GetOrCreate(id string) (*Session, error) {
	now := s.now()

	s.mu.RLock()
	sess, ok := s.items[id]
	closed := s.closed
	s.mu.RUnlock()
	if closed {
		return nil, errSessionsClosed
	}
	if ok {
		sess.touch(now)
		return sess, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, errSessionsClosed
	}
	if sess, ok := s.items[id]; ok {
		sess.touch(now)
		return sess, nil
	}
	ctl, err := s.factory()
	if err != nil {
		return nil, err
	}
	sess = &Session{ID: id, Controller: ctl, draft: diagnosis.Form{}, lastSeen: now}
	s.items[id] = sess
	return sess, nil
}

// Get returns the session for id without creating it.
func (s *Sessions) Get(id string) (*Session, bool) {
	s.mu.RLock()
	sess, ok := s.items[id]
	s.mu.RUnlock()
	if ok {
		sess.touch(s.now())
	}
	return sess, ok
}

// Len is the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// evict drops sessions idle longer than the TTL. A session with a call in
// flight is kept until the call returns.
func (s *Sessions) evict() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, sess := range s.items {
		if sess.idle(now) <= s.ttl {
			continue
		}
		if sess.Controller.Snapshot().State == submission.StateLoading {
			continue
		}
		delete(s.items, id)
		n++
	}
	return n
}

func (s *Sessions) janitor(every time.Duration) {
	defer s.wg.Done()
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.evict()
		}
	}
}

// Close stops the janitor and drops every session.
func (s *Sessions) Close() {
	s.stopOnce.Do(func() {
		close(s.stop)
		s.mu.Lock()
		s.closed = true
		s.items = map[string]*Session{}
		s.mu.Unlock()
	})
	s.wg.Wait()
}
