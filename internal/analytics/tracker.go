// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package analytics records anonymous page views and summarizes them for
// the admin API. Raw IP addresses are never stored.
package analytics

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/time/rate"

	"github.com/muratkanik/rotabiletiket/internal/model"
	"github.com/muratkanik/rotabiletiket/internal/resolver"
)

var (
	// ErrBot is returned for crawler and script traffic.
	ErrBot = errors.New("analytics: bot traffic")
	// ErrRateLimited is returned when one address sends too many beacons.
	ErrRateLimited = errors.New("analytics: rate limited")
	// ErrInvalidPath is returned for paths that are not public pages.
	ErrInvalidPath = errors.New("analytics: invalid path")
)

// VisitWriter persists visits. *store.Store implements it.
type VisitWriter interface {
	CreateVisit(ctx context.Context, v *model.Visit) error
}

// CountryLookup maps an IP to a country code. *geoip.Lookup implements it.
type CountryLookup interface {
	Country(ip string) string
}

// Hit is one page view as reported by the visit beacon.
type Hit struct {
	IP             string
	UserAgent      string
	AcceptLanguage string
	Path           string
	Referrer       string
}

// TrackerConfig configures a Tracker.
type TrackerConfig struct {
	Salt string
	// Rate and Burst bound beacons per client address.
	Rate  rate.Limit
	Burst int
}

// DefaultTrackerConfig allows one beacon per second with bursts of ten.
func DefaultTrackerConfig(salt string) TrackerConfig {
	return TrackerConfig{Salt: salt, Rate: rate.Limit(1), Burst: 10}
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Tracker turns hits into visit rows.
type Tracker struct {
	visits VisitWriter
	geo    CountryLookup
	cfg    TrackerConfig
	now    func() time.Time

	mu       sync.Mutex
	limiters map[string]*clientLimiter
}

// NewTracker creates a Tracker. geo may be nil.
func NewTracker(visits VisitWriter, geo CountryLookup, cfg TrackerConfig) *Tracker {
	if cfg.Rate == 0 {
		cfg.Rate = rate.Limit(1)
	}
	if cfg.Burst == 0 {
		cfg.Burst = 10
	}
	return &Tracker{
		visits:   visits,
		geo:      geo,
		cfg:      cfg,
		now:      time.Now,
		limiters: make(map[string]*clientLimiter),
	}
}

// Record validates a hit and stores it as a visit.
func (t *Tracker) Record(ctx context.Context, hit Hit) (*model.Visit, error) {
	path, ok := cleanPath(hit.Path)
	if !ok {
		return nil, ErrInvalidPath
	}

	agent := ParseUserAgent(hit.UserAgent)
	if agent.Bot {
		return nil, ErrBot
	}

	if !t.allow(hit.IP) {
		return nil, ErrRateLimited
	}

	now := t.now().UTC()
	code, _, _ := resolver.SplitLocalePath(path)

	v := &model.Visit{
		VisitorHash: VisitorHash(t.cfg.Salt, hit.IP, hit.UserAgent, now),
		Path:        path,
		Locale:      string(code),
		Referrer:    ReferrerHost(hit.Referrer),
		Browser:     agent.Browser,
		OS:          agent.OS,
		DeviceType:  agent.Device,
		Language:    PrimaryLanguage(hit.AcceptLanguage),
		CreatedAt:   now,
	}
	if t.geo != nil {
		v.CountryCode = t.geo.Country(hit.IP)
	}

	if err := t.visits.CreateVisit(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (t *Tracker) allow(ip string) bool {
	key := AnonymizeIP(ip)
	if key == "" {
		key = ip
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	cl, ok := t.limiters[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(t.cfg.Rate, t.cfg.Burst)}
		t.limiters[key] = cl
	}
	cl.lastSeen = t.now()
	return cl.limiter.AllowN(cl.lastSeen, 1)
}

// PruneLimiters drops rate limiters idle for longer than idle.
func (t *Tracker) PruneLimiters(idle time.Duration) int {
	cutoff := t.now().Add(-idle)

	t.mu.Lock()
	defer t.mu.Unlock()

	removed := 0
	for key, cl := range t.limiters {
		if cl.lastSeen.Before(cutoff) {
			delete(t.limiters, key)
			removed++
		}
	}
	return removed
}

// cleanPath keeps site paths only and strips query strings and fragments.
func cleanPath(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	u, err := url.Parse(raw)
	if err != nil || u.IsAbs() || u.Host != "" {
		return "", false
	}
	p := u.Path
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "/api/") || len(p) > 512 {
		return "", false
	}
	return p, true
}

// ReferrerHost returns the host of a referrer URL without its port.
func ReferrerHost(referrer string) string {
	if referrer == "" {
		return ""
	}
	u, err := url.Parse(referrer)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// PrimaryLanguage returns the base language of the highest weighted
// Accept-Language entry, e.g. "de" for "de-CH,de;q=0.9".
func PrimaryLanguage(header string) string {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return ""
	}
	base, _ := tags[0].Base()
	return base.String()
}
