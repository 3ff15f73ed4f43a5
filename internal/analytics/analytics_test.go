// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muratkanik/rotabiletiket/internal/model"
	"github.com/muratkanik/rotabiletiket/internal/testutil"
)

const (
	chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	iphoneUA = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"
	botUA    = "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"
)

type fixedGeo map[string]string

func (g fixedGeo) Country(ip string) string { return g[ip] }

type failingWriter struct{}

func (failingWriter) CreateVisit(context.Context, *model.Visit) error {
	return errors.New("disk full")
}

func TestAnonymizeIP(t *testing.T) {
	tests := map[string]string{
		"192.168.1.100":                "192.168.1.0",
		"85.105.12.34":                 "85.105.12.0",
		"2001:db8:85a3:1234::8a2e:370": "2001:db8:85a3::",
		"garbage":                      "",
	}
	for in, want := range tests {
		assert.Equal(t, want, AnonymizeIP(in), in)
	}
}

func TestVisitorHash(t *testing.T) {
	day := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	a := VisitorHash("salt", "85.105.12.34", chromeUA, day)
	assert.Len(t, a, 16)
	assert.Equal(t, a, VisitorHash("salt", "85.105.12.99", chromeUA, day.Add(5*time.Hour)),
		"same /24 and same day must hash identically")
	assert.NotEqual(t, a, VisitorHash("salt", "85.105.12.34", chromeUA, day.AddDate(0, 0, 1)))
	assert.NotEqual(t, a, VisitorHash("pepper", "85.105.12.34", chromeUA, day))
}

func TestParseUserAgent(t *testing.T) {
	desktop := ParseUserAgent(chromeUA)
	assert.Equal(t, "Chrome", desktop.Browser)
	assert.Equal(t, "Windows", desktop.OS)
	assert.Equal(t, model.DeviceDesktop, desktop.Device)
	assert.False(t, desktop.Bot)

	phone := ParseUserAgent(iphoneUA)
	assert.Equal(t, model.DeviceMobile, phone.Device)

	assert.True(t, ParseUserAgent(botUA).Bot)
	assert.True(t, ParseUserAgent("").Bot)
}

func TestPrimaryLanguage(t *testing.T) {
	assert.Equal(t, "de", PrimaryLanguage("de-CH,de;q=0.9,en;q=0.5"))
	assert.Equal(t, "en", PrimaryLanguage("fr;q=0.4,en-US"))
	assert.Equal(t, "", PrimaryLanguage(""))
}

func TestReferrerHost(t *testing.T) {
	assert.Equal(t, "www.google.com", ReferrerHost("https://WWW.Google.com:443/search?q=etiket"))
	assert.Equal(t, "", ReferrerHost(""))
}

func TestTracker_Record(t *testing.T) {
	st := testutil.TestStore(t)
	tr := NewTracker(st, fixedGeo{"85.105.12.34": "TR"}, DefaultTrackerConfig("salt"))

	v, err := tr.Record(context.Background(), Hit{
		IP:             "85.105.12.34",
		UserAgent:      chromeUA,
		AcceptLanguage: "tr-TR,tr;q=0.9",
		Path:           "/en/categories/labels?utm_source=x",
		Referrer:       "https://www.google.com/",
	})
	require.NoError(t, err)

	assert.Equal(t, "/en/categories/labels", v.Path)
	assert.Equal(t, "en", v.Locale)
	assert.Equal(t, "TR", v.CountryCode)
	assert.Equal(t, "tr", v.Language)
	assert.Equal(t, "www.google.com", v.Referrer)
	assert.NotContains(t, v.VisitorHash, "85.105")

	totals, err := st.CountVisits(context.Background(), time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), totals.Views)
}

func TestTracker_DefaultLocaleFromPath(t *testing.T) {
	st := testutil.TestStore(t)
	tr := NewTracker(st, nil, DefaultTrackerConfig("salt"))

	v, err := tr.Record(context.Background(), Hit{IP: "1.2.3.4", UserAgent: chromeUA, Path: "/categories/etiketler"})
	require.NoError(t, err)
	assert.Equal(t, "tr", v.Locale)
	assert.Equal(t, "", v.CountryCode)
}

func TestTracker_Rejects(t *testing.T) {
	st := testutil.TestStore(t)
	tr := NewTracker(st, nil, DefaultTrackerConfig("salt"))
	ctx := context.Background()

	_, err := tr.Record(ctx, Hit{IP: "1.2.3.4", UserAgent: botUA, Path: "/"})
	assert.ErrorIs(t, err, ErrBot)

	for _, p := range []string{"", "https://evil.example/", "//evil.example/x", "/api/v1/visits", "relative"} {
		_, err := tr.Record(ctx, Hit{IP: "1.2.3.4", UserAgent: chromeUA, Path: p})
		assert.ErrorIs(t, err, ErrInvalidPath, p)
	}
}

func TestTracker_RateLimit(t *testing.T) {
	st := testutil.TestStore(t)
	tr := NewTracker(st, nil, TrackerConfig{Salt: "s", Rate: 0.001, Burst: 2})
	ctx := context.Background()
	hit := Hit{IP: "9.9.9.9", UserAgent: chromeUA, Path: "/"}

	_, err := tr.Record(ctx, hit)
	require.NoError(t, err)
	_, err = tr.Record(ctx, hit)
	require.NoError(t, err)
	_, err = tr.Record(ctx, hit)
	assert.ErrorIs(t, err, ErrRateLimited)

	other := hit
	other.IP = "8.8.4.4"
	_, err = tr.Record(ctx, other)
	assert.NoError(t, err, "limits are per address")
}

func TestTracker_PruneLimiters(t *testing.T) {
	st := testutil.TestStore(t)
	tr := NewTracker(st, nil, DefaultTrackerConfig("s"))
	_, _ = tr.Record(context.Background(), Hit{IP: "9.9.9.9", UserAgent: chromeUA, Path: "/"})

	now := time.Now()
	tr.now = func() time.Time { return now.Add(time.Hour) }
	assert.Equal(t, 1, tr.PruneLimiters(10*time.Minute))
	assert.Equal(t, 0, tr.PruneLimiters(10*time.Minute))
}

func TestTracker_StoreFailure(t *testing.T) {
	tr := NewTracker(failingWriter{}, nil, DefaultTrackerConfig("s"))
	_, err := tr.Record(context.Background(), Hit{IP: "1.2.3.4", UserAgent: chromeUA, Path: "/"})
	assert.Error(t, err)
}

func TestParseRange(t *testing.T) {
	r, err := ParseRange("")
	require.NoError(t, err)
	assert.Equal(t, 7, r.Days())

	r, err = ParseRange("90d")
	require.NoError(t, err)
	assert.Equal(t, 90, r.Days())

	_, err = ParseRange("1y")
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	st := testutil.TestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	visits := []model.Visit{
		{VisitorHash: "a", Path: "/", Locale: "tr", DeviceType: model.DeviceDesktop, CountryCode: "TR", CreatedAt: now.Add(-time.Hour)},
		{VisitorHash: "a", Path: "/products/wax-ribon", Locale: "tr", DeviceType: model.DeviceDesktop, CountryCode: "TR", CreatedAt: now.Add(-2 * time.Hour)},
		{VisitorHash: "b", Path: "/en/products/wax-ribbon", Locale: "en", DeviceType: model.DeviceMobile, CountryCode: "DE", CreatedAt: now.AddDate(0, 0, -3)},
		{VisitorHash: "c", Path: "/", Locale: "tr", DeviceType: model.DeviceMobile, CountryCode: "TR", CreatedAt: now.AddDate(0, 0, -20)},
	}
	for i := range visits {
		require.NoError(t, st.CreateVisit(ctx, &visits[i]))
	}

	rep, err := Summarize(ctx, st, Range7d, now)
	require.NoError(t, err)
	assert.Equal(t, int64(3), rep.Views)
	assert.Equal(t, int64(2), rep.Visitors)
	require.NotEmpty(t, rep.TopCountries)
	assert.Equal(t, model.Count{Label: "TR", Count: 2}, rep.TopCountries[0])
	assert.Len(t, rep.Devices, 2)

	rep, err = Summarize(ctx, st, Range30d, now)
	require.NoError(t, err)
	assert.Equal(t, int64(4), rep.Views)
	assert.Equal(t, model.Count{Label: "/", Count: 2}, rep.TopPaths[0])
}

func TestPurge(t *testing.T) {
	st := testutil.TestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, st.CreateVisit(ctx, &model.Visit{VisitorHash: "old", Path: "/", CreatedAt: now.AddDate(0, 0, -100)}))
	require.NoError(t, st.CreateVisit(ctx, &model.Visit{VisitorHash: "new", Path: "/", CreatedAt: now}))
	require.NoError(t, st.CreateEvent(ctx, &model.Event{Level: model.EventLevelWarning, Category: "system", Message: "old", CreatedAt: now.AddDate(0, 0, -100)}))

	require.NoError(t, Purge(ctx, st, 90*24*time.Hour, now))

	totals, err := st.CountVisits(ctx, now.AddDate(-1, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, int64(1), totals.Views)

	events, err := st.ListEvents(ctx, "", 10)
	require.NoError(t, err)
	assert.Empty(t, events)
}
