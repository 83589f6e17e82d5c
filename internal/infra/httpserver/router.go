package httpserver

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	apppref "github.com/bryanwahyu/triagedesk/internal/application/preference"
	"github.com/bryanwahyu/triagedesk/internal/application/report"
	"github.com/bryanwahyu/triagedesk/internal/application/submission"
	"github.com/bryanwahyu/triagedesk/internal/domain/diagnosis"
	"github.com/bryanwahyu/triagedesk/internal/domain/preference"
	"github.com/bryanwahyu/triagedesk/internal/i18n"
	"github.com/bryanwahyu/triagedesk/internal/infra/diagnosisapi"
	"github.com/bryanwahyu/triagedesk/internal/middleware"
	"github.com/bryanwahyu/triagedesk/internal/render"
)

//go:embed templates/*.html static/*
var assets embed.FS

var errBadRequest = errors.New("bad request")

// Options wires the router.
type Options struct {
	Schema        diagnosisapi.Schema
	NewController ControllerFactory
	SessionTTL    time.Duration
	Preferences   *apppref.Service
	Translator    *i18n.Translator
	Renderer      *render.Renderer
	Archiver      *report.Archiver // nil disables archiving
	Metrics       *middleware.Metrics
	Limiter       *middleware.RateLimiter // nil disables rate limiting
	Health        map[string]middleware.HealthChecker
	CORSOrigins   []string
	SecureCookies bool
	Log           *zap.Logger
}

type Router struct {
	mux      chi.Router
	sessions *Sessions
	schema   diagnosisapi.Schema
	prefs    *apppref.Service
	tr       *i18n.Translator
	renderer *render.Renderer
	archiver *report.Archiver
	metrics  *middleware.Metrics
	pages    *template.Template
	secure   bool
	log      *zap.Logger
}

func NewRouter(opts Options) (*Router, error) {
	if opts.Schema == nil || opts.NewController == nil || opts.Preferences == nil || opts.Translator == nil {
		return nil, errors.New("httpserver: schema, controller factory, preferences and translator are required")
	}
	if opts.Renderer == nil {
		opts.Renderer = render.NewRenderer()
	}
	if opts.Metrics == nil {
		opts.Metrics = middleware.NewMetrics()
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 30 * time.Minute
	}

	pages, err := template.New("").Funcs(templateFuncs).ParseFS(assets, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	r := &Router{
		schema:   opts.Schema,
		prefs:    opts.Preferences,
		tr:       opts.Translator,
		renderer: opts.Renderer,
		archiver: opts.Archiver,
		metrics:  opts.Metrics,
		pages:    pages,
		secure:   opts.SecureCookies,
		log:      opts.Log,
	}
	r.sessions = NewSessions(opts.SessionTTL, r.observed(opts.NewController))

	static, err := fs.Sub(assets, "static")
	if err != nil {
		return nil, err
	}

	mux := chi.NewRouter()
	mux.Use(chimw.RequestID)
	mux.Use(chimw.RealIP)
	mux.Use(chimw.Recoverer)
	mux.Use(middleware.Logging(opts.Log))
	mux.Use(r.metrics.Middleware)

	mux.Get("/health", middleware.LivenessHandler)
	mux.Get("/health/ready", middleware.HealthHandler(opts.Health))
	mux.Get("/metrics", r.metrics.Handler)
	mux.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	limit := func(next http.Handler) http.Handler { return next }
	if opts.Limiter != nil {
		limit = middleware.RateLimit(opts.Limiter, visitorKey, r.metrics)
	}

	mux.Group(func(rt chi.Router) {
		rt.Use(r.visitor)
		rt.Get("/", r.wrap(r.handleIndex))
		rt.With(limit).Post("/analyze", r.wrap(r.handleAnalyze))
		rt.Post("/reset", r.wrap(r.handleReset))
		rt.Post("/preferences/theme", r.wrap(r.handleToggleTheme))
		rt.Post("/preferences/language", r.wrap(r.handleSetLanguage))
	})

	mux.Route("/api/v1", func(rt chi.Router) {
		// same-origin only unless origins are configured
		if len(opts.CORSOrigins) > 0 {
			rt.Use(cors.Handler(cors.Options{
				AllowedOrigins:   opts.CORSOrigins,
				AllowedMethods:   []string{http.MethodPost, http.MethodOptions},
				AllowedHeaders:   []string{"Content-Type", "Accept"},
				AllowCredentials: true,
				MaxAge:           300,
			}))
		}
		rt.Use(r.visitor)
		rt.With(limit).Post("/analyze", r.wrap(r.handleAPIAnalyze))
	})

	r.mux = mux
	return r, nil
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Close stops the session janitor.
func (r *Router) Close() {
	r.sessions.Close()
}

// observed hooks metrics into every controller the factory builds.
func (r *Router) observed(f ControllerFactory) ControllerFactory {
	return func() (*submission.Controller, error) {
		c, err := f()
		if err != nil {
			return nil, err
		}
		c.Observe(func(t submission.Transition) {
			switch {
			case t.To == submission.StateLoading:
				r.metrics.SubmissionStarted()
			case t.From == submission.StateLoading && t.To == submission.StateResult:
				r.metrics.SubmissionFinished(false)
			case t.From == submission.StateLoading && t.To == submission.StateError:
				r.metrics.SubmissionFinished(true)
			}
		})
		return c, nil
	}
}

// requestInfo is resolved once per request by the visitor middleware.
type requestInfo struct {
	VisitorID string
	Fresh     bool // id minted for this request: no session cookie was sent
	Pref      preference.Preference
	Lang      string
	Loc       i18n.Localizer
}

type requestInfoKey struct{}

func infoFrom(ctx context.Context) requestInfo {
	info, _ := ctx.Value(requestInfoKey{}).(requestInfo)
	return info
}

// visitorKey buckets known visitors by cookie. Clients that never return the
// cookie would get a new bucket per request, so they are keyed by IP.
func visitorKey(req *http.Request) string {
	info := infoFrom(req.Context())
	if info.VisitorID == "" || info.Fresh {
		return "ip:" + middleware.ClientIP(req)
	}
	return "visitor:" + info.VisitorID
}

// visitor issues the session cookie, restores preferences and resolves the language.
func (r *Router) visitor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		var id string
		fresh := false
		if c, err := req.Cookie(sessionCookie); err == nil && middleware.ValidVisitorID(c.Value) {
			id = c.Value
		} else {
			id = uuid.NewString()
			fresh = true
			setCookie(w, sessionCookie, id, r.secure)
		}

		ctx := withCookieScope(req.Context(), &cookieScope{r: req, w: w, secure: r.secure})

		pref, err := r.prefs.Load(ctx, id)
		if err != nil {
			r.log.Warn("preference load failed", zap.String("visitor", id), zap.Error(err))
		}
		tag, fromQuery := r.tr.ResolveRequest(req, pref.Language)
		lang := tag.String()
		if fromQuery && lang != pref.Language {
			if _, err := r.prefs.SetLanguage(ctx, id, lang); err != nil {
				r.log.Warn("preference save failed", zap.String("visitor", id), zap.Error(err))
			}
			pref.Language = lang
		}

		info := requestInfo{VisitorID: id, Fresh: fresh, Pref: pref, Lang: lang, Loc: r.tr.For(lang)}
		next.ServeHTTP(w, req.WithContext(context.WithValue(ctx, requestInfoKey{}, info)))
	})
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			status := statusFor(err)
			if status >= 500 {
				r.log.Error("handler failed", zap.String("path", req.URL.Path), zap.Error(err))
			}
			http.Error(w, http.StatusText(status), status)
		}
	}
}

// statusFor maps the error taxonomy onto HTTP statuses.
func statusFor(err error) int {
	var (
		verr *diagnosis.ValidationError
		terr *diagnosis.TransportError
		derr *diagnosis.DecodeError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, submission.ErrInFlight):
		return http.StatusConflict
	case errors.As(err, &terr), errors.As(err, &derr):
		return http.StatusBadGateway
	case errors.Is(err, apppref.ErrUnsupportedLanguage), errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
