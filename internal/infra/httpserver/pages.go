package httpserver

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bryanwahyu/triagedesk/internal/application/submission"
	"github.com/bryanwahyu/triagedesk/internal/domain/diagnosis"
	"github.com/bryanwahyu/triagedesk/internal/i18n"
	"github.com/bryanwahyu/triagedesk/internal/middleware"
	"github.com/bryanwahyu/triagedesk/internal/render"
)

const maxFormBytes = 64 << 10

var templateFuncs = template.FuncMap{
	"add": func(a, b int) int { return a + b },
	"result": func(loc i18n.Localizer, v render.View) resultData {
		return resultData{L: loc, View: v}
	},
}

// resultData pairs a view with the localizer for the shared "result" block.
type resultData struct {
	L i18n.Localizer
	render.View
}

// page builds the data for the form page from the session state. A nil
// session is a visitor who has not submitted anything yet. The controller's
// last notice becomes the toast and is cleared once shown.
func (r *Router) page(req *http.Request, sess *Session, errs map[diagnosis.Field]string) pageData {
	info := infoFrom(req.Context())
	policy := r.schema.Policy()

	var snap submission.Snapshot
	draft := diagnosis.Form{}
	reportURL := ""
	if sess != nil {
		snap = sess.Controller.Snapshot()
		sess.Controller.ClearNotice()
		draft = sess.Draft()
		reportURL = sess.ReportURL()
	}
	count, over := descriptionStats(draft, policy)

	data := pageData{
		L:                info.Loc,
		Lang:             info.Lang,
		Theme:            string(info.Pref.Theme.Normalize()),
		Languages:        r.tr.Options(info.Lang),
		ReturnTo:         "/",
		Schema:           r.schema.Name(),
		Fields:           buildForm(r.schema.Fields(), policy, draft, errs, info.Loc),
		DescriptionCount: count,
		MinLength:        policy.MinDescriptionLength,
		MaxLength:        policy.MaxDescriptionLength,
		OverLimit:        over,
		State:            snap.State.String(),
		Loading:          snap.TriggerDisabled,
		ReportURL:        reportURL,
		Toast:            toastFor(snap.Notice.Kind, info.Loc),
	}
	if snap.HasResult() {
		v := r.renderer.Render(snap.Response, info.Loc)
		data.Result = &v
	} else if count == 0 && !snap.TriggerDisabled {
		data.Examples = examples
	}
	return data
}

func (r *Router) renderPage(w http.ResponseWriter, status int, data pageData) error {
	var buf bytes.Buffer
	if err := r.pages.ExecuteTemplate(&buf, "index.html", data); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

func (r *Router) session(req *http.Request) (*Session, error) {
	return r.sessions.GetOrCreate(infoFrom(req.Context()).VisitorID)
}

// existing returns the visitor's session without creating one.
func (r *Router) existing(req *http.Request) *Session {
	sess, _ := r.sessions.Get(infoFrom(req.Context()).VisitorID)
	return sess
}

// GET /  (?example=N prefills the description)
func (r *Router) handleIndex(w http.ResponseWriter, req *http.Request) error {
	sess := r.existing(req)
	if raw := req.URL.Query().Get("example"); raw != "" {
		if i, err := strconv.Atoi(raw); err == nil && i >= 1 && i <= len(examples) {
			if sess == nil {
				if sess, err = r.session(req); err != nil {
					return err
				}
			}
			draft := sess.Draft()
			draft[diagnosis.FieldDescription] = examples[i-1]
			sess.SetDraft(draft)
		}
	}
	return r.renderPage(w, http.StatusOK, r.page(req, sess, nil))
}

// formFromRequest keeps only the fields the schema collects.
func (r *Router) formFromRequest(w http.ResponseWriter, req *http.Request) (diagnosis.Form, error) {
	req.Body = http.MaxBytesReader(w, req.Body, maxFormBytes)
	if err := req.ParseForm(); err != nil {
		return nil, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	raw := diagnosis.Form{}
	for _, f := range r.schema.Fields() {
		raw[f] = req.PostForm.Get(string(f))
	}
	return middleware.SanitizeForm(raw), nil
}

// keepDraft saves whatever form values came along with a preference change,
// so switching theme or language never loses typed text.
func (r *Router) keepDraft(w http.ResponseWriter, req *http.Request) error {
	form, err := r.formFromRequest(w, req)
	if err != nil {
		return err
	}
	posted := false
	for _, f := range r.schema.Fields() {
		if _, ok := req.PostForm[string(f)]; ok {
			posted = true
			break
		}
	}
	if !posted {
		return nil
	}
	sess, err := r.session(req)
	if err != nil {
		return err
	}
	sess.SetDraft(form)
	return nil
}

// POST /analyze
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	info := infoFrom(req.Context())
	sess, err := r.session(req)
	if err != nil {
		return err
	}
	form, err := r.formFromRequest(w, req)
	if err != nil {
		return err
	}
	sess.SetDraft(form)

	resp, err := sess.Controller.Submit(req.Context(), form, info.Lang)
	status := statusFor(err)
	r.count(err)

	if err == nil {
		sess.SetReportURL(r.archive(req, resp))
	} else if status == http.StatusInternalServerError {
		return err
	}

	return r.renderPage(w, status, r.page(req, sess, fieldErrors(err, info.Loc)))
}

func (r *Router) count(err error) {
	var verr *diagnosis.ValidationError
	switch {
	case errors.As(err, &verr):
		r.metrics.SubmissionRejected()
	case errors.Is(err, submission.ErrInFlight):
		r.metrics.SubmissionDuplicate()
	}
}

// archive renders the standalone report and uploads it; "" when disabled or failed.
func (r *Router) archive(req *http.Request, resp *diagnosis.Response) string {
	if r.archiver == nil {
		return ""
	}
	info := infoFrom(req.Context())
	view := r.renderer.Render(resp, info.Loc)
	var buf bytes.Buffer
	err := r.pages.ExecuteTemplate(&buf, "report.html", reportData{
		L:         info.Loc,
		Lang:      info.Lang,
		Result:    view,
		Generated: time.Now().UTC(),
	})
	if err != nil {
		r.log.Warn("render report failed", zap.Error(err))
		return ""
	}
	url := r.archiver.Archive(req.Context(), buf.Bytes())
	if url != "" {
		r.metrics.ReportArchived()
	}
	return url
}

type reportData struct {
	L         i18n.Localizer
	Lang      string
	Result    render.View
	Generated time.Time
}

// POST /reset
func (r *Router) handleReset(w http.ResponseWriter, req *http.Request) error {
	info := infoFrom(req.Context())
	sess := r.existing(req)
	if sess == nil {
		http.Redirect(w, req, "/", http.StatusSeeOther)
		return nil
	}
	if err := sess.Controller.Reset(); err != nil {
		if errors.Is(err, submission.ErrInFlight) {
			data := r.page(req, sess, nil)
			data.Toast = toastFor(submission.NoticeInFlight, info.Loc)
			return r.renderPage(w, http.StatusConflict, data)
		}
		return err
	}
	sess.SetDraft(diagnosis.Form{})
	sess.SetReportURL("")
	http.Redirect(w, req, "/", http.StatusSeeOther)
	return nil
}

// POST /preferences/theme
func (r *Router) handleToggleTheme(w http.ResponseWriter, req *http.Request) error {
	info := infoFrom(req.Context())
	if err := r.keepDraft(w, req); err != nil {
		return err
	}
	if _, err := r.prefs.ToggleTheme(req.Context(), info.VisitorID); err != nil {
		return err
	}
	http.Redirect(w, req, middleware.SafeRedirect(req.PostForm.Get("return_to"), "/"), http.StatusSeeOther)
	return nil
}

// POST /preferences/language
func (r *Router) handleSetLanguage(w http.ResponseWriter, req *http.Request) error {
	info := infoFrom(req.Context())
	if err := r.keepDraft(w, req); err != nil {
		return err
	}
	lang := strings.TrimSpace(req.PostForm.Get("lang"))
	if _, err := r.prefs.SetLanguage(req.Context(), info.VisitorID, lang); err != nil {
		return err
	}
	http.Redirect(w, req, middleware.SafeRedirect(req.PostForm.Get("return_to"), "/"), http.StatusSeeOther)
	return nil
}
