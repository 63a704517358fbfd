package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/mssola/useragent"
)

// getClientIP prefers proxy headers and falls back to RemoteAddr
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// the first entry is the original client
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// describeClient turns a User-Agent into "Browser on OS" for logs. Service
// clients usually send a bare library agent, which is returned as is.
func describeClient(userAgent string) string {
	if userAgent == "" {
		return "unknown"
	}

	ua := useragent.New(userAgent)
	if ua.Bot() {
		return "bot"
	}

	browser, _ := ua.Browser()
	platform := ua.OS()
	if browser == "" || platform == "" {
		return userAgent
	}
	return browser + " on " + platform
}
