// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/muratkanik/rotabiletiket/internal/analytics"
	"github.com/muratkanik/rotabiletiket/internal/cache"
	"github.com/muratkanik/rotabiletiket/internal/middleware"
	"github.com/muratkanik/rotabiletiket/internal/scheduler"
	"github.com/muratkanik/rotabiletiket/internal/seo"
	"github.com/muratkanik/rotabiletiket/internal/service"
	"github.com/muratkanik/rotabiletiket/internal/store"
	"github.com/muratkanik/rotabiletiket/internal/testutil"
)

const (
	testSiteURL = "https://rotabiletiket.com"
	browserUA   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	botUA       = "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"
)

var testSecret = []byte("api-test-secret-0123456789-abcdefgh")

type testEnv struct {
	router  http.Handler
	store   *store.Store
	content *service.ContentService
	token   string
	jobRuns int
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st := testutil.SeededStore(t)
	c := cache.NewSimpleMemoryCache(time.Minute)
	t.Cleanup(func() { _ = c.Close() })

	content := service.NewContentService(st, c, time.Minute)
	site := seo.SiteConfig{SiteName: "Rotabil Etiket", SiteURL: testSiteURL}
	env := &testEnv{store: st, content: content}

	jobs := scheduler.New(testutil.TestLoggerSilent())
	require.NoError(t, jobs.Add(scheduler.Job{
		Name:     "noop",
		Schedule: "@daily",
		Run: func(context.Context) error {
			env.jobRuns++
			return nil
		},
	}))

	h := NewHandler(Deps{
		Content:   content,
		Store:     st,
		Tracker:   analytics.NewTracker(st, nil, analytics.DefaultTrackerConfig("test-salt")),
		Sitemap:   seo.NewSitemapGenerator(content, testSiteURL, c, time.Minute),
		Scheduler: jobs,
		Site:      site,
	})
	env.router = h.Routes(RouterConfig{
		AdminSecret: testSecret,
		CORSOrigins: []string{"*"},
		CacheMaxAge: 60,
		AdminRate:   1000,
		AdminBurst:  1000,
	})

	token, err := middleware.IssueToken(testSecret, "tester", time.Hour, time.Now())
	require.NoError(t, err)
	env.token = token
	return env
}

func (e *testEnv) request(t *testing.T, method, target string, body any, admin bool) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("User-Agent", browserUA)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if admin {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	return e.request(t, http.MethodGet, target, nil, false)
}

func (e *testEnv) admin(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return e.request(t, method, target, body, true)
}

type envelope[T any] struct {
	Data T     `json:"data"`
	Meta *Meta `json:"meta"`
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var out envelope[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) middleware.APIErrorBody {
	t.Helper()
	var out middleware.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out.Error
}

// Minimal views of the JSON payloads.
type recordJSON struct {
	ID       int64  `json:"id"`
	Slug     string `json:"slug"`
	Title    string `json:"title"`
	IsActive bool   `json:"is_active"`
}

type itemJSON struct {
	Record     recordJSON `json:"record"`
	Locale     string     `json:"locale"`
	Slug       string     `json:"slug"`
	Translated bool       `json:"translated"`
	Path       string     `json:"path"`
}

type nodeJSON struct {
	itemJSON
	Children []nodeJSON `json:"children"`
}

type detailJSON struct {
	Content struct {
		itemJSON
		HTML       string `json:"html"`
		Alternates []struct {
			Locale string `json:"locale"`
			Path   string `json:"path"`
		} `json:"alternates"`
		Images []struct {
			URL string `json:"url"`
		} `json:"images"`
	} `json:"content"`
	SEO seo.Meta `json:"seo"`
}
