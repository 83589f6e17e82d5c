// Package report archives rendered result pages through a ReportStore.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bryanwahyu/triagedesk/internal/application"
	"github.com/bryanwahyu/triagedesk/internal/domain/diagnosis"
)

// Archiver uploads reports. A nil *Archiver is valid and archives nothing.
type Archiver struct {
	Store   diagnosis.ReportStore
	Clock   application.Clock
	NewID   func() uuid.UUID
	Timeout time.Duration
	Log     *zap.Logger
}

// Key is <yyyy>/<mm>/<dd>/<uuid>.html, dated in UTC.
func Key(at time.Time, id uuid.UUID) string {
	return fmt.Sprintf("%s/%s.html", at.UTC().Format("2006/01/02"), id)
}

// Archive uploads html and returns the report URL. Failures are logged and
// reported as an empty URL; they never fail the submission that produced the page.
func (a *Archiver) Archive(ctx context.Context, html []byte) string {
	if a == nil || a.Store == nil {
		return ""
	}
	clock := a.Clock
	if clock == nil {
		clock = application.SystemClock{}
	}
	newID := a.NewID
	if newID == nil {
		newID = uuid.New
	}
	log := a.Log
	if log == nil {
		log = zap.NewNop()
	}
	timeout := a.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	key := Key(clock.Now(), newID())
	url, err := a.Store.Put(ctx, key, html)
	if err != nil {
		log.Warn("report archive failed", zap.String("key", key), zap.Error(err))
		return ""
	}
	log.Info("report archived", zap.String("key", key))
	return url
}
