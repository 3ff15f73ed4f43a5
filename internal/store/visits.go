// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"github.com/muratkanik/rotabiletiket/internal/model"
)

// CreateVisit records a page view.
func (s *Store) CreateVisit(ctx context.Context, v *model.Visit) error {
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now().UTC()
	}
	v.CreatedAt = v.CreatedAt.UTC()
	_, err := s.db.NewInsert().Model(v).Exec(ctx)
	return err
}

// VisitTotals holds view and unique visitor counts for a period.
type VisitTotals struct {
	Views    int64 `bun:"views" json:"views"`
	Visitors int64 `bun:"visitors" json:"visitors"`
}

// CountVisits returns totals for visits since the given time.
func (s *Store) CountVisits(ctx context.Context, since time.Time) (VisitTotals, error) {
	var totals VisitTotals
	err := s.db.NewSelect().
		Model((*model.Visit)(nil)).
		ColumnExpr("COUNT(*) AS views").
		ColumnExpr("COUNT(DISTINCT visitor_hash) AS visitors").
		Where("created_at >= ?", since.UTC()).
		Scan(ctx, &totals)
	return totals, err
}

// TopVisits groups visits since the given time by column, largest first.
// column must be one of the visit dimension columns.
func (s *Store) TopVisits(ctx context.Context, column string, since time.Time, limit int) ([]model.Count, error) {
	rows := make([]model.Count, 0)
	err := s.db.NewSelect().
		Model((*model.Visit)(nil)).
		ColumnExpr("? AS label", visitColumn(column)).
		ColumnExpr("COUNT(*) AS count").
		Where("created_at >= ?", since.UTC()).
		GroupExpr("label").
		OrderExpr("count DESC, label ASC").
		Limit(limit).
		Scan(ctx, &rows)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// DeleteVisitsBefore purges visits older than cutoff and returns how many were removed.
func (s *Store) DeleteVisitsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.NewDelete().
		Model((*model.Visit)(nil)).
		Where("created_at < ?", cutoff.UTC()).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func visitColumn(column string) bun.Ident {
	switch column {
	case "path", "locale", "referrer", "browser", "os", "device_type", "country_code", "language":
		return bun.Ident(column)
	default:
		return bun.Ident("path")
	}
}
