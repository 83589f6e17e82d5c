package httpserver

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/bryanwahyu/triagedesk/internal/domain/preference"
)

const (
	sessionCookie  = "td_session"
	themeCookie    = "td_theme"
	languageCookie = "td_lang"

	cookieMaxAge = 365 * 24 * time.Hour
)

var prefCookies = map[string]string{
	preference.KeyTheme:    themeCookie,
	preference.KeyLanguage: languageCookie,
}

// cookieScope carries the request/response pair a CookieStore works on.
type cookieScope struct {
	r      *http.Request
	w      http.ResponseWriter
	secure bool

	mu      sync.Mutex
	written map[string]string
}

type cookieScopeKey struct{}

func withCookieScope(ctx context.Context, sc *cookieScope) context.Context {
	return context.WithValue(ctx, cookieScopeKey{}, sc)
}

func scopeFrom(ctx context.Context) *cookieScope {
	sc, _ := ctx.Value(cookieScopeKey{}).(*cookieScope)
	return sc
}

// CookieStore keeps preferences in the visitor's browser, the server-side
// analogue of local storage. It only works inside a request handled by the router.
type CookieStore struct{}

var _ preference.Store = CookieStore{}

func (CookieStore) Get(ctx context.Context, _, key string) (string, bool, error) {
	sc := scopeFrom(ctx)
	name, known := prefCookies[key]
	if sc == nil || !known {
		return "", false, nil
	}
	sc.mu.Lock()
	v, ok := sc.written[key]
	sc.mu.Unlock()
	if ok {
		return v, true, nil
	}
	c, err := sc.r.Cookie(name)
	if err != nil || c.Value == "" {
		return "", false, nil
	}
	return c.Value, true, nil
}

func (CookieStore) Set(ctx context.Context, _, key, value string) error {
	sc := scopeFrom(ctx)
	name, known := prefCookies[key]
	if sc == nil || !known {
		return nil
	}
	setCookie(sc.w, name, value, sc.secure)
	sc.mu.Lock()
	if sc.written == nil {
		sc.written = map[string]string{}
	}
	sc.written[key] = value
	sc.mu.Unlock()
	return nil
}

func setCookie(w http.ResponseWriter, name, value string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(cookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
