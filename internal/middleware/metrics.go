package middleware

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"
)

// Metrics stores application metrics
type Metrics struct {
	RequestsTotal        uint64
	RequestsInProgress   uint64
	RequestsSuccess      uint64
	RequestsFailed       uint64
	SubmissionsTotal     uint64
	SubmissionsRunning   uint64
	SubmissionsFailed    uint64
	SubmissionsRejected  uint64
	SubmissionsDuplicate uint64
	ReportsArchived      uint64
	RateLimited          uint64
	StartTime            time.Time
}

func NewMetrics() *Metrics {
	return &Metrics{StartTime: time.Now()}
}

// IncrementRequests increments total request counter
func (m *Metrics) IncrementRequests() { atomic.AddUint64(&m.RequestsTotal, 1) }

func (m *Metrics) incrementInProgress() { atomic.AddUint64(&m.RequestsInProgress, 1) }
func (m *Metrics) decrementInProgress() { atomic.AddUint64(&m.RequestsInProgress, ^uint64(0)) }

// SubmissionStarted counts a call that reached the collaborator.
func (m *Metrics) SubmissionStarted() {
	atomic.AddUint64(&m.SubmissionsTotal, 1)
	atomic.AddUint64(&m.SubmissionsRunning, 1)
}

// SubmissionFinished closes a SubmissionStarted; failed marks transport/decode errors.
func (m *Metrics) SubmissionFinished(failed bool) {
	atomic.AddUint64(&m.SubmissionsRunning, ^uint64(0))
	if failed {
		atomic.AddUint64(&m.SubmissionsFailed, 1)
	}
}

// SubmissionRejected counts validation failures (no network call made).
func (m *Metrics) SubmissionRejected() { atomic.AddUint64(&m.SubmissionsRejected, 1) }

// SubmissionDuplicate counts submits refused because one was in flight.
func (m *Metrics) SubmissionDuplicate() { atomic.AddUint64(&m.SubmissionsDuplicate, 1) }

func (m *Metrics) ReportArchived() { atomic.AddUint64(&m.ReportsArchived, 1) }

func (m *Metrics) rateLimited() { atomic.AddUint64(&m.RateLimited, 1) }

// Snapshot returns current metrics
func (m *Metrics) Snapshot() map[string]interface{} {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return map[string]interface{}{
		"requests_total":        atomic.LoadUint64(&m.RequestsTotal),
		"requests_in_progress":  atomic.LoadUint64(&m.RequestsInProgress),
		"requests_success":      atomic.LoadUint64(&m.RequestsSuccess),
		"requests_failed":       atomic.LoadUint64(&m.RequestsFailed),
		"submissions_total":     atomic.LoadUint64(&m.SubmissionsTotal),
		"submissions_running":   atomic.LoadUint64(&m.SubmissionsRunning),
		"submissions_failed":    atomic.LoadUint64(&m.SubmissionsFailed),
		"submissions_rejected":  atomic.LoadUint64(&m.SubmissionsRejected),
		"submissions_duplicate": atomic.LoadUint64(&m.SubmissionsDuplicate),
		"reports_archived":      atomic.LoadUint64(&m.ReportsArchived),
		"rate_limited":          atomic.LoadUint64(&m.RateLimited),
		"uptime_seconds":        time.Since(m.StartTime).Seconds(),
		"memory": map[string]interface{}{
			"alloc_bytes":       mem.Alloc,
			"total_alloc_bytes": mem.TotalAlloc,
			"sys_bytes":         mem.Sys,
			"num_gc":            mem.NumGC,
		},
		"goroutines": runtime.NumGoroutine(),
	}
}

// Middleware tracks request metrics
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.IncrementRequests()
		m.incrementInProgress()
		defer m.decrementInProgress()

		wrapped := wrapWriter(w)
		next.ServeHTTP(wrapped, r)

		if wrapped.statusCode >= 200 && wrapped.statusCode < 400 {
			atomic.AddUint64(&m.RequestsSuccess, 1)
		} else {
			atomic.AddUint64(&m.RequestsFailed, 1)
		}
	})
}

// Handler returns metrics as JSON
func (m *Metrics) Handler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(m.Snapshot())
}
