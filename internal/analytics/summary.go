// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package analytics

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/muratkanik/rotabiletiket/internal/model"
	"github.com/muratkanik/rotabiletiket/internal/store"
)

// Range is a reporting window.
type Range string

// Supported ranges.
const (
	Range7d  Range = "7d"
	Range30d Range = "30d"
	Range90d Range = "90d"
)

// ParseRange accepts "7d", "30d" or "90d"; the empty string means 7d.
func ParseRange(s string) (Range, error) {
	switch Range(s) {
	case "":
		return Range7d, nil
	case Range7d, Range30d, Range90d:
		return Range(s), nil
	default:
		return "", fmt.Errorf("unsupported range %q", s)
	}
}

// Days returns the length of the range in days.
func (r Range) Days() int {
	switch r {
	case Range30d:
		return 30
	case Range90d:
		return 90
	default:
		return 7
	}
}

// Report is the admin analytics payload.
type Report struct {
	Range        Range         `json:"range"`
	Since        time.Time     `json:"since"`
	Views        int64         `json:"views"`
	Visitors     int64         `json:"visitors"`
	TopPaths     []model.Count `json:"top_paths"`
	TopCountries []model.Count `json:"top_countries"`
	TopReferrers []model.Count `json:"top_referrers"`
	Devices      []model.Count `json:"devices"`
	Locales      []model.Count `json:"locales"`
}

const topLimit = 10

// Summarize builds a Report for the range ending at now.
func Summarize(ctx context.Context, st *store.Store, r Range, now time.Time) (*Report, error) {
	since := now.UTC().AddDate(0, 0, -r.Days())
	rep := &Report{Range: r, Since: since}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		totals, err := st.CountVisits(gctx, since)
		if err != nil {
			return err
		}
		rep.Views, rep.Visitors = totals.Views, totals.Visitors
		return nil
	})

	top := func(column string, dst *[]model.Count) {
		g.Go(func() error {
			rows, err := st.TopVisits(gctx, column, since, topLimit)
			if err != nil {
				return err
			}
			*dst = rows
			return nil
		})
	}
	top("path", &rep.TopPaths)
	top("country_code", &rep.TopCountries)
	top("referrer", &rep.TopReferrers)
	top("device_type", &rep.Devices)
	top("locale", &rep.Locales)

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("summarizing visits: %w", err)
	}
	return rep, nil
}
