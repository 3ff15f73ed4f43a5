// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/muratkanik/rotabiletiket/internal/locale"
)

// ContextKeyLocale holds the content locale of the request.
const ContextKeyLocale ContextKey = "locale"

// LocaleParam is the chi URL parameter carrying a locale prefix.
const LocaleParam = "lang"

// DefaultLocale marks requests on unprefixed routes as default-locale requests.
func DefaultLocale(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithLocale(r.Context(), locale.Default)))
	})
}

// LocalePrefix reads the {lang} route parameter.
//
// A supported non-default locale is stored in the request context. The
// default locale is never prefixed, so /tr/... redirects permanently to the
// unprefixed path. Unsupported prefixes are 404s.
func LocalePrefix(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := chi.URLParam(r, LocaleParam)
		code, ok := locale.Parse(raw)
		if !ok {
			WriteAPIError(w, http.StatusNotFound, CodeUnsupportedLocale, "Unsupported locale: "+raw, nil)
			return
		}

		if code == locale.Default {
			target := stripSegment(r.URL.Path, raw)
			if r.URL.RawQuery != "" {
				target += "?" + r.URL.RawQuery
			}
			http.Redirect(w, r, target, http.StatusMovedPermanently)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithLocale(r.Context(), code)))
	})
}

// stripSegment removes the first path segment equal to seg.
func stripSegment(path, seg string) string {
	parts := strings.Split(path, "/")
	for i, p := range parts {
		if i > 0 && p == seg {
			parts = append(parts[:i], parts[i+1:]...)
			break
		}
	}
	out := strings.Join(parts, "/")
	if out == "" {
		return "/"
	}
	return out
}

// WithLocale returns a copy of ctx carrying code.
func WithLocale(ctx context.Context, code locale.Code) context.Context {
	return context.WithValue(ctx, ContextKeyLocale, code)
}

// LocaleFromContext returns the request locale, or the default locale when unset.
func LocaleFromContext(ctx context.Context) locale.Code {
	if code, ok := ctx.Value(ContextKeyLocale).(locale.Code); ok && code != "" {
		return code
	}
	return locale.Default
}
