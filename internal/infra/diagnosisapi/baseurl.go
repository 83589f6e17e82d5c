package diagnosisapi

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// ErrNoBaseURL means no collaborator address could be resolved.
var ErrNoBaseURL = errors.New("diagnosis api base url is empty")

// ResolveBaseURL picks the collaborator address. An explicit value always wins;
// otherwise a loopback host selects dev and anything else selects prod.
func ResolveBaseURL(explicit, host, dev, prod string) (string, error) {
	chosen := strings.TrimSpace(explicit)
	if chosen == "" {
		if IsLoopback(host) {
			chosen = strings.TrimSpace(dev)
		} else {
			chosen = strings.TrimSpace(prod)
		}
	}
	if chosen == "" {
		return "", ErrNoBaseURL
	}

	u, err := url.Parse(chosen)
	if err != nil {
		return "", fmt.Errorf("diagnosis api base url %q: %w", chosen, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("diagnosis api base url %q: must be an absolute http(s) url", chosen)
	}
	return strings.TrimRight(chosen, "/"), nil
}

// IsLoopback reports whether host (optionally with a port) is localhost, 127.0.0.1 or ::1.
func IsLoopback(host string) bool {
	host = strings.TrimSpace(host)
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.Trim(host, "[]")
	switch strings.ToLower(host) {
	case "localhost", "127.0.0.1", "::1":
		return true
	}
	return false
}
