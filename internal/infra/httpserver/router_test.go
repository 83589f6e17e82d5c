package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	apppref "github.com/bryanwahyu/triagedesk/internal/application/preference"
	"github.com/bryanwahyu/triagedesk/internal/application/submission"
	"github.com/bryanwahyu/triagedesk/internal/domain/diagnosis"
	"github.com/bryanwahyu/triagedesk/internal/i18n"
	"github.com/bryanwahyu/triagedesk/internal/infra/diagnosisapi"
	"github.com/bryanwahyu/triagedesk/internal/middleware"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeDiagnoser struct {
	calls atomic.Int32
	fn    func(ctx context.Context, req diagnosis.SymptomRequest) (*diagnosis.Response, error)
}

func (f *fakeDiagnoser) Diagnose(ctx context.Context, req diagnosis.SymptomRequest) (*diagnosis.Response, error) {
	f.calls.Add(1)
	return f.fn(ctx, req)
}

func matched() *diagnosis.Response {
	return &diagnosis.Response{
		Matched: true,
		Pathology: &diagnosis.Pathology{
			Name:            "Appendicite",
			ConfidenceScore: 0.87,
			SeverityLevel:   5,
			Urgency:         "Urgent",
			Specialist:      "Chirurgien",
		},
		Analysis: "**Consultez** rapidement.",
		Sources: []diagnosis.Source{
			{Label: "Appendicite aiguë", SimilarityScore: 0.87},
		},
	}
}

type fixture struct {
	router  *Router
	diag    *fakeDiagnoser
	metrics *middleware.Metrics
}

func newFixture(t *testing.T, fn func(ctx context.Context, req diagnosis.SymptomRequest) (*diagnosis.Response, error)) *fixture {
	t.Helper()
	return newFixtureWith(t, fn, nil)
}

func newFixtureWith(t *testing.T, fn func(ctx context.Context, req diagnosis.SymptomRequest) (*diagnosis.Response, error),
	tune func(*Options)) *fixture {
	t.Helper()
	schema, err := diagnosisapi.Lookup(diagnosisapi.SchemaDiagnose)
	require.NoError(t, err)
	tr, err := i18n.New("fr")
	require.NoError(t, err)

	d := &fakeDiagnoser{fn: fn}
	metrics := middleware.NewMetrics()
	opts := Options{
		Schema: schema,
		NewController: func() (*submission.Controller, error) {
			return submission.New(d, schema.Policy())
		},
		Preferences: &apppref.Service{Store: CookieStore{}, Languages: tr},
		Translator:  tr,
		Metrics:     metrics,
	}
	if tune != nil {
		tune(&opts)
	}
	r, err := NewRouter(opts)
	require.NoError(t, err)
	t.Cleanup(r.Close)
	return &fixture{router: r, diag: d, metrics: metrics}
}

// visitor is a minimal cookie jar for one browser.
type visitor struct {
	mu      sync.Mutex
	cookies map[string]string
}

func newVisitor() *visitor { return &visitor{cookies: map[string]string{}} }

func (v *visitor) do(t *testing.T, h http.Handler, method, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	v.mu.Lock()
	for name, value := range v.cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}
	v.mu.Unlock()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	v.mu.Lock()
	for _, c := range rec.Result().Cookies() {
		v.cookies[c.Name] = c.Value
	}
	v.mu.Unlock()
	return rec
}

func (v *visitor) cookie(name string) string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cookies[name]
}

func TestIndexIssuesSessionCookie(t *testing.T) {
	f := newFixture(t, nil)
	v := newVisitor()

	rec := v.do(t, f.router, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, middleware.ValidVisitorID(v.cookie(sessionCookie)))

	body := rec.Body.String()
	assert.Contains(t, body, `lang="fr"`)
	assert.Contains(t, body, `data-theme="dark"`)
	assert.Contains(t, body, "Remplissez le formulaire")
	assert.Contains(t, body, `href="/?example=1"`)

	// the same cookie is kept on the next request
	id := v.cookie(sessionCookie)
	v.do(t, f.router, http.MethodGet, "/", nil)
	assert.Equal(t, id, v.cookie(sessionCookie))
}

func TestExamplePrefillsDescription(t *testing.T) {
	f := newFixture(t, nil)
	v := newVisitor()

	rec := v.do(t, f.router, http.MethodGet, "/?example=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "je supporte plus la lumi")
	assert.NotContains(t, rec.Body.String(), `href="/?example=1"`)

	rec = v.do(t, f.router, http.MethodGet, "/?example=99", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAnalyzeValidationDoesNotCallAPI(t *testing.T) {
	f := newFixture(t, func(context.Context, diagnosis.SymptomRequest) (*diagnosis.Response, error) {
		return matched(), nil
	})
	v := newVisitor()

	rec := v.do(t, f.router, http.MethodPost, "/analyze", url.Values{"description": {"court"}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Veuillez décrire vos symptômes plus en détail.")
	assert.Contains(t, rec.Body.String(), ">court</textarea>")
	assert.Contains(t, rec.Body.String(), "toast-warning")
	assert.NotContains(t, rec.Body.String(), "toast-error")
	assert.Zero(t, f.diag.calls.Load())
	assert.EqualValues(t, 1, f.metrics.SubmissionsRejected)
}

func TestAnalyzeSuccessRendersResult(t *testing.T) {
	var got diagnosis.SymptomRequest
	f := newFixture(t, func(_ context.Context, req diagnosis.SymptomRequest) (*diagnosis.Response, error) {
		got = req
		return matched(), nil
	})
	v := newVisitor()

	rec := v.do(t, f.router, http.MethodPost, "/analyze",
		url.Values{"description": {"  douleur au ventre en bas à droite  "}, "unknown": {"x"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "douleur au ventre en bas à droite", got.Description)
	assert.Equal(t, "fr", got.Language)

	body := rec.Body.String()
	assert.Contains(t, body, "Appendicite")
	assert.Contains(t, body, "87%")
	assert.Contains(t, body, "width: 87.0%")
	assert.Contains(t, body, "severity-red")
	assert.Contains(t, body, "<strong>Consultez</strong>")
	assert.Contains(t, body, "Analyse terminée avec succès !")
	assert.Contains(t, body, `action="/reset"`)

	// a later GET still shows the result and keeps the draft; the toast was shown once
	rec = v.do(t, f.router, http.MethodGet, "/", nil)
	assert.Contains(t, rec.Body.String(), "Appendicite")
	assert.Contains(t, rec.Body.String(), "douleur au ventre")
	assert.NotContains(t, rec.Body.String(), "Analyse terminée")
	assert.EqualValues(t, 1, f.metrics.SubmissionsTotal)
}

func TestAnalyzeTransportErrorKeepsPreviousResult(t *testing.T) {
	var fail atomic.Bool
	f := newFixture(t, func(context.Context, diagnosis.SymptomRequest) (*diagnosis.Response, error) {
		if fail.Load() {
			return nil, &diagnosis.TransportError{StatusCode: http.StatusServiceUnavailable}
		}
		return matched(), nil
	})
	v := newVisitor()
	form := url.Values{"description": {"douleur au ventre en bas à droite"}}

	require.Equal(t, http.StatusOK, v.do(t, f.router, http.MethodPost, "/analyze", form).Code)

	fail.Store(true)
	rec := v.do(t, f.router, http.MethodPost, "/analyze", form)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "toast-error")
	assert.NotContains(t, rec.Body.String(), "toast-warning")
	assert.Contains(t, rec.Body.String(), "Appendicite")
	assert.Contains(t, rec.Body.String(), `data-state="error"`)
	assert.EqualValues(t, 1, f.metrics.SubmissionsFailed)
}

func TestAnalyzeSingleFlightPerVisitor(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{}, 1)
	f := newFixture(t, func(context.Context, diagnosis.SymptomRequest) (*diagnosis.Response, error) {
		entered <- struct{}{}
		<-release
		return matched(), nil
	})
	v := newVisitor()
	v.do(t, f.router, http.MethodGet, "/", nil)
	form := url.Values{"description": {"douleur au ventre en bas à droite"}}

	done := make(chan int)
	go func() {
		done <- v.do(t, f.router, http.MethodPost, "/analyze", form).Code
	}()
	<-entered

	rec := v.do(t, f.router, http.MethodPost, "/analyze", form)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "Une analyse est déjà en cours.")

	rec = v.do(t, f.router, http.MethodGet, "/", nil)
	assert.Contains(t, rec.Body.String(), `http-equiv="refresh"`)
	assert.Contains(t, rec.Body.String(), " disabled")

	rec = v.do(t, f.router, http.MethodPost, "/reset", url.Values{})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// another visitor is not blocked
	other := newVisitor()
	rec = other.do(t, f.router, http.MethodPost, "/analyze", url.Values{"description": {"x"}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	close(release)
	assert.Equal(t, http.StatusOK, <-done)
	assert.EqualValues(t, 1, f.diag.calls.Load())
	assert.EqualValues(t, 1, f.metrics.SubmissionsDuplicate)
}

func TestResetClearsResultAndDraft(t *testing.T) {
	f := newFixture(t, func(context.Context, diagnosis.SymptomRequest) (*diagnosis.Response, error) {
		return matched(), nil
	})
	v := newVisitor()
	v.do(t, f.router, http.MethodPost, "/analyze", url.Values{"description": {"douleur au ventre en bas à droite"}})

	rec := v.do(t, f.router, http.MethodPost, "/reset", url.Values{})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	rec = v.do(t, f.router, http.MethodGet, "/", nil)
	assert.NotContains(t, rec.Body.String(), "Appendicite")
	assert.NotContains(t, rec.Body.String(), "douleur au ventre")
	assert.Contains(t, rec.Body.String(), `data-state="idle"`)
}

func TestThemeToggle(t *testing.T) {
	f := newFixture(t, nil)
	v := newVisitor()

	rec := v.do(t, f.router, http.MethodPost, "/preferences/theme", url.Values{"return_to": {"/?example=1"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/?example=1", rec.Header().Get("Location"))
	assert.Equal(t, "light", v.cookie(themeCookie))

	rec = v.do(t, f.router, http.MethodGet, "/", nil)
	assert.Contains(t, rec.Body.String(), `data-theme="light"`)

	v.do(t, f.router, http.MethodPost, "/preferences/theme", url.Values{"return_to": {"https://evil.example"}})
	assert.Equal(t, "dark", v.cookie(themeCookie))
}

func TestLanguageSelection(t *testing.T) {
	f := newFixture(t, nil)
	v := newVisitor()

	rec := v.do(t, f.router, http.MethodPost, "/preferences/language", url.Values{"lang": {"en"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "en", v.cookie(languageCookie))

	rec = v.do(t, f.router, http.MethodGet, "/", nil)
	assert.Contains(t, rec.Body.String(), `lang="en"`)
	assert.Contains(t, rec.Body.String(), "Fill in the form to start the analysis.")

	rec = v.do(t, f.router, http.MethodPost, "/preferences/language", url.Values{"lang": {"xx"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "en", v.cookie(languageCookie))

	// ?lang= wins and is persisted
	rec = v.do(t, f.router, http.MethodGet, "/?lang=de", nil)
	assert.Contains(t, rec.Body.String(), `lang="de"`)
	assert.Equal(t, "de", v.cookie(languageCookie))
}

func TestPreferenceChangesKeepTypedText(t *testing.T) {
	f := newFixture(t, nil)
	v := newVisitor()
	v.do(t, f.router, http.MethodGet, "/", nil)

	typed := "douleur thoracique en cours de saisie"
	rec := v.do(t, f.router, http.MethodPost, "/preferences/language",
		url.Values{"lang": {"en"}, "description": {typed}, "return_to": {"/"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = v.do(t, f.router, http.MethodGet, "/", nil)
	assert.Contains(t, rec.Body.String(), `lang="en"`)
	assert.Contains(t, rec.Body.String(), ">"+typed+"</textarea>")

	rec = v.do(t, f.router, http.MethodPost, "/preferences/theme",
		url.Values{"lang": {"en"}, "description": {typed + " et essoufflement"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = v.do(t, f.router, http.MethodGet, "/", nil)
	assert.Contains(t, rec.Body.String(), `data-theme="light"`)
	assert.Contains(t, rec.Body.String(), typed+" et essoufflement</textarea>")

	// a bare preference post leaves the draft alone
	v.do(t, f.router, http.MethodPost, "/preferences/theme", url.Values{})
	rec = v.do(t, f.router, http.MethodGet, "/", nil)
	assert.Contains(t, rec.Body.String(), typed+" et essoufflement</textarea>")
}

func TestPreferenceControlsSubmitTheSymptomForm(t *testing.T) {
	f := newFixture(t, nil)
	rec := newVisitor().do(t, f.router, http.MethodGet, "/", nil)
	body := rec.Body.String()
	assert.Contains(t, body, `id="symptom-form"`)
	assert.Contains(t, body, `form="symptom-form" formaction="/preferences/language"`)
	assert.Contains(t, body, `form="symptom-form" formaction="/preferences/theme"`)
}

func TestCookielessClientsAreLimitedByIP(t *testing.T) {
	limiter := middleware.NewRateLimiter(2, time.Hour)
	t.Cleanup(limiter.Stop)
	f := newFixtureWith(t, func(context.Context, diagnosis.SymptomRequest) (*diagnosis.Response, error) {
		return matched(), nil
	}, func(o *Options) { o.Limiter = limiter })

	form := url.Values{"description": {"douleur au ventre en bas à droite"}}
	var statuses []int
	for range 10 {
		// no cookie jar: every request arrives without td_session
		req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.RemoteAddr = "203.0.113.7:40000"
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)
		statuses = append(statuses, rec.Code)
	}
	assert.Equal(t, []int{200, 200, 429, 429, 429, 429, 429, 429, 429, 429}, statuses)
	assert.EqualValues(t, 2, f.diag.calls.Load())
	assert.Equal(t, 2, f.router.sessions.Len())

	// a browser that keeps its cookie has its own bucket
	v := newVisitor()
	v.do(t, f.router, http.MethodGet, "/", nil)
	rec := v.do(t, f.router, http.MethodPost, "/analyze", form)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestIndexDoesNotCreateSessions(t *testing.T) {
	f := newFixture(t, nil)
	for range 5 {
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Zero(t, f.router.sessions.Len())

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/reset", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Zero(t, f.router.sessions.Len())
}

func TestVisitorKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/analyze", nil)
	req.RemoteAddr = "198.51.100.4:5555"
	assert.Equal(t, "ip:198.51.100.4", visitorKey(req))

	fresh := req.WithContext(context.WithValue(req.Context(), requestInfoKey{}, requestInfo{VisitorID: "abc", Fresh: true}))
	assert.Equal(t, "ip:198.51.100.4", visitorKey(fresh))

	known := req.WithContext(context.WithValue(req.Context(), requestInfoKey{}, requestInfo{VisitorID: "abc"}))
	assert.Equal(t, "visitor:abc", visitorKey(known))
}

func TestAcceptLanguage(t *testing.T) {
	f := newFixture(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "es-ES,es;q=0.9")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	assert.Contains(t, rec.Body.String(), `lang="es"`)
}

func TestAPIAnalyze(t *testing.T) {
	f := newFixture(t, func(_ context.Context, req diagnosis.SymptomRequest) (*diagnosis.Response, error) {
		if strings.Contains(req.Description, "panne") {
			return nil, &diagnosis.TransportError{Err: errors.New("connection refused")}
		}
		return matched(), nil
	})
	v := newVisitor()

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if id := v.cookie(sessionCookie); id != "" {
			req.AddCookie(&http.Cookie{Name: sessionCookie, Value: id})
		}
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)
		for _, c := range rec.Result().Cookies() {
			v.cookies[c.Name] = c.Value
		}
		return rec
	}

	rec := post(`{"description": "douleur au ventre en bas à droite", "lang": "en"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var ok struct {
		State string `json:"state"`
		View  struct {
			Matched   bool `json:"matched"`
			Pathology struct {
				Name            string `json:"name"`
				ConfidenceLabel string `json:"confidence_label"`
				SeverityLabel   string `json:"severity_label"`
			} `json:"pathology"`
			Disclaimer string `json:"disclaimer"`
		} `json:"view"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ok))
	assert.Equal(t, "result", ok.State)
	assert.True(t, ok.View.Matched)
	assert.Equal(t, "Appendicite", ok.View.Pathology.Name)
	assert.Equal(t, "87%", ok.View.Pathology.ConfidenceLabel)
	assert.NotEmpty(t, ok.View.Disclaimer)

	rec = post(`{"description": "court"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var verr apiError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &verr))
	assert.Equal(t, "validation", verr.Error)
	assert.Equal(t, "too_short", verr.Fields["description"])
	assert.NotEmpty(t, verr.Messages["description"])

	rec = post(`{"description": "le serveur est en panne depuis ce matin"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), `"transport"`)

	assert.Equal(t, http.StatusBadRequest, post(`{"description": ["a"]}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(`not json`).Code)
	assert.Equal(t, http.StatusBadRequest, post(`{"description": "douleur au ventre", "lang": "xx"}`).Code)
}

func TestHealthAndMetrics(t *testing.T) {
	f := newFixture(t, nil)

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "submissions_total")

	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/style.css", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStatusFor(t *testing.T) {
	cases := map[string]struct {
		err  error
		want int
	}{
		"nil":         {nil, http.StatusOK},
		"validation":  {&diagnosis.ValidationError{}, http.StatusUnprocessableEntity},
		"in flight":   {submission.ErrInFlight, http.StatusConflict},
		"transport":   {&diagnosis.TransportError{}, http.StatusBadGateway},
		"decode":      {&diagnosis.DecodeError{Schema: "x"}, http.StatusBadGateway},
		"language":    {apppref.ErrUnsupportedLanguage, http.StatusBadRequest},
		"bad request": {errBadRequest, http.StatusBadRequest},
		"other":       {errors.New("boom"), http.StatusInternalServerError},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, statusFor(tc.err))
		})
	}
}

func TestNewRouterRequiresCollaborators(t *testing.T) {
	_, err := NewRouter(Options{})
	assert.Error(t, err)
}

func TestSessionsEvictIdle(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	d := &fakeDiagnoser{fn: func(context.Context, diagnosis.SymptomRequest) (*diagnosis.Response, error) {
		return matched(), nil
	}}
	s := newSessions(time.Minute, func() (*submission.Controller, error) {
		return submission.New(d, diagnosis.Policy{MinDescriptionLength: 1})
	}, clock)

	a, err := s.GetOrCreate("a")
	require.NoError(t, err)
	again, err := s.GetOrCreate("a")
	require.NoError(t, err)
	assert.Same(t, a, again)

	_, err = s.GetOrCreate("b")
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())

	now = now.Add(45 * time.Second)
	_, _ = s.GetOrCreate("b")
	now = now.Add(30 * time.Second)
	assert.Equal(t, 1, s.evict())
	assert.Equal(t, 1, s.Len())

	s.Close()
	_, err = s.GetOrCreate("c")
	assert.ErrorIs(t, err, errSessionsClosed)
}

func TestSessionDraftIsCopied(t *testing.T) {
	sess := &Session{draft: diagnosis.Form{}}
	f := diagnosis.Form{diagnosis.FieldDescription: "a"}
	sess.SetDraft(f)
	f[diagnosis.FieldDescription] = "b"
	assert.Equal(t, "a", sess.Draft().Get(diagnosis.FieldDescription))
}
