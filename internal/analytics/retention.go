// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package analytics

import (
	"context"
	"log/slog"
	"time"

	"github.com/muratkanik/rotabiletiket/internal/store"
)

// Purge deletes raw visits and event log entries older than retention.
func Purge(ctx context.Context, st *store.Store, retention time.Duration, now time.Time) error {
	cutoff := now.Add(-retention)

	visits, err := st.DeleteVisitsBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	events, err := st.DeleteEventsBefore(ctx, cutoff)
	if err != nil {
		return err
	}

	if visits > 0 || events > 0 {
		slog.Info("purged analytics data",
			"category", "analytics",
			"visits", visits,
			"events", events,
			"older_than", cutoff.Format(time.DateOnly))
	}
	return nil
}
