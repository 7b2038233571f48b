package auth

import (
	"net/url"
	"strings"
)

// SafeNext returns next when it is a same-origin relative path, otherwise
// fallback. Scheme-relative ("//host") and backslash variants are rejected
// because browsers treat them as absolute URLs.
func SafeNext(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") {
		return fallback
	}
	if strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") || strings.ContainsAny(next, "\r\n") {
		return fallback
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return fallback
	}
	return next
}
