package controllers

import (
	"net/http"
	"regexp"
	"strings"
)

const defaultRedirectPath = "/dashboard"

// Only relative in-app paths may be redirect targets. Anything else, in
// particular protocol-relative "//host" values, falls back to the default.
var allowedRedirects = []*regexp.Regexp{
	regexp.MustCompile(`^/$`),
	regexp.MustCompile(`^/dashboard(/.*)?$`),
	regexp.MustCompile(`^/profile(/.*)?$`),
	regexp.MustCompile(`^/campaigns(/.*)?$`),
	regexp.MustCompile(`^/admin(/.*)?$`),
	regexp.MustCompile(`^/creator(/.*)?$`),
}

// AuthCallbackRedirect validates the redirect query parameter against the
// allow-list and issues the redirect.
func AuthCallbackRedirect() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target := sanitizeRedirect(r.URL.Query().Get("redirect"))
		http.Redirect(w, r, target, http.StatusFound)
	}
}

func sanitizeRedirect(raw string) string {
	target := strings.TrimSpace(raw)
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return defaultRedirectPath
	}
	for _, pattern := range allowedRedirects {
		if pattern.MatchString(target) {
			return target
		}
	}
	return defaultRedirectPath
}
