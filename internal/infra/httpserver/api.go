package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/bryanwahyu/triagedesk/internal/domain/diagnosis"
	"github.com/bryanwahyu/triagedesk/internal/middleware"
	"github.com/bryanwahyu/triagedesk/internal/render"
)

type apiResult struct {
	State     string       `json:"state"`
	View      *render.View `json:"view,omitempty"`
	ReportURL string       `json:"report_url,omitempty"`
}

type apiError struct {
	Error    string            `json:"error"`
	Message  string            `json:"message,omitempty"`
	Fields   map[string]string `json:"fields,omitempty"`
	Messages map[string]string `json:"messages,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// decodeForm reads a flat JSON object. Numbers are kept as typed so that
// the form parser reports the same problems as for the HTML form.
func (r *Router) decodeForm(w http.ResponseWriter, req *http.Request) (diagnosis.Form, string, error) {
	dec := json.NewDecoder(http.MaxBytesReader(w, req.Body, maxFormBytes))
	dec.UseNumber()
	var body map[string]any
	if err := dec.Decode(&body); err != nil {
		return nil, "", fmt.Errorf("%w: %v", errBadRequest, err)
	}
	form := diagnosis.Form{}
	for _, f := range r.schema.Fields() {
		switch v := body[string(f)].(type) {
		case nil:
		case string:
			form[f] = v
		case json.Number:
			form[f] = v.String()
		default:
			return nil, "", fmt.Errorf("%w: field %s must be a string or number", errBadRequest, f)
		}
	}
	lang, _ := body["lang"].(string)
	return middleware.SanitizeForm(form), strings.TrimSpace(lang), nil
}

// POST /api/v1/analyze
func (r *Router) handleAPIAnalyze(w http.ResponseWriter, req *http.Request) error {
	info := infoFrom(req.Context())
	form, lang, err := r.decodeForm(w, req)
	if err != nil {
		if errors.Is(err, errBadRequest) {
			return writeJSON(w, http.StatusBadRequest, apiError{Error: "bad_request", Message: err.Error()})
		}
		return err
	}
	loc := info.Loc
	if lang != "" {
		if !r.tr.IsSupported(lang) {
			return writeJSON(w, http.StatusBadRequest, apiError{Error: "unsupported_language", Message: lang})
		}
		lang = r.tr.Match(lang).String()
		loc = r.tr.For(lang)
	} else {
		lang = info.Lang
	}

	sess, err := r.session(req)
	if err != nil {
		return err
	}
	resp, err := sess.Controller.Submit(req.Context(), form, lang)
	r.count(err)

	status := statusFor(err)
	var verr *diagnosis.ValidationError
	switch {
	case err == nil:
		view := r.renderer.Render(resp, loc)
		url := r.archive(req, resp)
		sess.SetReportURL(url)
		return writeJSON(w, http.StatusOK, apiResult{
			State:     sess.Controller.Snapshot().State.String(),
			View:      &view,
			ReportURL: url,
		})
	case errors.As(err, &verr):
		body := apiError{Error: "validation", Fields: map[string]string{}, Messages: map[string]string{}}
		for f, p := range verr.Problems {
			body.Fields[string(f)] = string(p)
			body.Messages[string(f)] = render.ProblemMessage(p, loc)
		}
		return writeJSON(w, status, body)
	case status == http.StatusConflict:
		return writeJSON(w, status, apiError{Error: "in_flight"})
	case status == http.StatusBadGateway:
		return writeJSON(w, status, apiError{Error: "transport", Message: err.Error()})
	default:
		return err
	}
}
