// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/muratkanik/rotabiletiket/internal/model"
)

// CreateEvent persists an event log entry.
func (s *Store) CreateEvent(ctx context.Context, e *model.Event) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	e.CreatedAt = e.CreatedAt.UTC()
	if e.Metadata == "" {
		e.Metadata = "{}"
	}
	_, err := s.db.NewInsert().Model(e).Exec(ctx)
	return err
}

// ListEvents returns the most recent events, optionally filtered by level.
func (s *Store) ListEvents(ctx context.Context, level string, limit int) ([]model.Event, error) {
	events := make([]model.Event, 0)
	q := s.db.NewSelect().Model(&events).OrderExpr("created_at DESC, id DESC")
	if level != "" {
		q = q.Where("level = ?", level)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return events, nil
}

// DeleteEventsBefore purges events older than cutoff.
func (s *Store) DeleteEventsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.NewDelete().
		Model((*model.Event)(nil)).
		Where("created_at < ?", cutoff.UTC()).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
