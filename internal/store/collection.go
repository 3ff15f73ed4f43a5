// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"github.com/muratkanik/rotabiletiket/internal/locale"
	"github.com/muratkanik/rotabiletiket/internal/resolver"
)

// ErrConflict is returned when a write violates a unique constraint,
// typically a slug already taken in the same locale.
var ErrConflict = errors.New("store: conflict")

// ErrUnsupportedRow is returned when a row type lacks the methods a write needs.
var ErrUnsupportedRow = errors.New("store: unsupported row type")

// Options describes the columns a collection exposes to listings.
type Options struct {
	// Slugged is false for collections whose base rows have no slug column.
	Slugged bool
	// ActiveColumn is the boolean column filtered by ListOptions.ActiveOnly.
	ActiveColumn string
	// FeaturedColumn is the boolean column filtered by ListOptions.FeaturedOnly.
	FeaturedColumn string
	// ParentColumn is the column matched by ListOptions.ParentID and RootOnly.
	ParentColumn string
	// Orders maps listing orders to ORDER BY expressions.
	Orders       map[resolver.Order]string
	DefaultOrder resolver.Order
}

// Collection stores one localizable collection: a base table and its
// translation table. It implements resolver.Store.
type Collection[E resolver.Record, T resolver.Localized] struct {
	db   *bun.DB
	name string
	opts Options
}

// NewCollection returns the store of the named collection.
func NewCollection[E resolver.Record, T resolver.Localized](db *bun.DB, name string, opts Options) *Collection[E, T] {
	return &Collection[E, T]{db: db, name: name, opts: opts}
}

// Name returns the collection name.
func (c *Collection[E, T]) Name() string {
	return c.name
}

// GetBySlug returns the base record with the default-locale slug.
func (c *Collection[E, T]) GetBySlug(ctx context.Context, slug string) (E, error) {
	var rec E
	if !c.opts.Slugged {
		return rec, resolver.ErrNotFound
	}
	err := c.db.NewSelect().Model(&rec).Where("slug = ?", slug).Limit(1).Scan(ctx)
	return rec, notFound(err)
}

// GetByID returns the base record with id.
func (c *Collection[E, T]) GetByID(ctx context.Context, id int64) (E, error) {
	var rec E
	err := c.db.NewSelect().Model(&rec).Where("id = ?", id).Limit(1).Scan(ctx)
	return rec, notFound(err)
}

// GetTranslation returns the translation row of a record for a locale.
func (c *Collection[E, T]) GetTranslation(ctx context.Context, parentID int64, code locale.Code) (T, error) {
	var tr T
	err := c.db.NewSelect().Model(&tr).
		Where("parent_id = ?", parentID).
		Where("language_code = ?", code).
		Limit(1).
		Scan(ctx)
	return tr, notFound(err)
}

// GetTranslationBySlug returns the translation row whose slug matches in a locale.
func (c *Collection[E, T]) GetTranslationBySlug(ctx context.Context, slug string, code locale.Code) (T, error) {
	var tr T
	err := c.db.NewSelect().Model(&tr).
		Where("slug = ?", slug).
		Where("language_code = ?", code).
		Limit(1).
		Scan(ctx)
	return tr, notFound(err)
}

// ListTranslationsForParents returns the translations of several records in one query.
func (c *Collection[E, T]) ListTranslationsForParents(ctx context.Context, parentIDs []int64, code locale.Code) ([]T, error) {
	var rows []T
	if len(parentIDs) == 0 {
		return rows, nil
	}
	err := c.db.NewSelect().Model(&rows).
		Where("parent_id IN (?)", bun.In(parentIDs)).
		Where("language_code = ?", code).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// List returns base records filtered and ordered by opts.
func (c *Collection[E, T]) List(ctx context.Context, opts resolver.ListOptions) ([]E, error) {
	recs := make([]E, 0)
	q := c.db.NewSelect().Model(&recs)

	if opts.ActiveOnly && c.opts.ActiveColumn != "" {
		q = q.Where("? = ?", bun.Ident(c.opts.ActiveColumn), true)
	}
	if opts.FeaturedOnly && c.opts.FeaturedColumn != "" {
		q = q.Where("? = ?", bun.Ident(c.opts.FeaturedColumn), true)
	}
	if c.opts.ParentColumn != "" {
		switch {
		case opts.ParentID != nil:
			q = q.Where("? = ?", bun.Ident(c.opts.ParentColumn), *opts.ParentID)
		case opts.RootOnly:
			q = q.Where("? IS NULL", bun.Ident(c.opts.ParentColumn))
		}
	}

	q = q.OrderExpr(c.orderExpr(opts.Order)).OrderExpr("id ASC")

	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return recs, nil
}

// Count returns the number of base records matching the active filter.
func (c *Collection[E, T]) Count(ctx context.Context, activeOnly bool) (int, error) {
	q := c.db.NewSelect().Model((*E)(nil))
	if activeOnly && c.opts.ActiveColumn != "" {
		q = q.Where("? = ?", bun.Ident(c.opts.ActiveColumn), true)
	}
	return q.Count(ctx)
}

func (c *Collection[E, T]) orderExpr(o resolver.Order) string {
	if expr, ok := c.opts.Orders[o]; ok {
		return expr
	}
	if expr, ok := c.opts.Orders[c.opts.DefaultOrder]; ok {
		return expr
	}
	return "id ASC"
}

type toucher interface {
	Touch(now time.Time)
}

type translationKey interface {
	toucher
	SetKey(parentID int64, code locale.Code)
}

// Create inserts a base record and sets its id.
func (c *Collection[E, T]) Create(ctx context.Context, rec *E) error {
	if t, ok := any(rec).(toucher); ok {
		t.Touch(time.Now().UTC())
	}
	return c.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := c.checkBaseSlug(ctx, tx, *rec); err != nil {
			return err
		}
		if _, err := tx.NewInsert().Model(rec).Exec(ctx); err != nil {
			return c.writeError("create", err)
		}
		return nil
	})
}

// Update overwrites the base record with the id carried by rec.
func (c *Collection[E, T]) Update(ctx context.Context, rec *E) error {
	if t, ok := any(rec).(toucher); ok {
		t.Touch(time.Now().UTC())
	}
	return c.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := c.checkBaseSlug(ctx, tx, *rec); err != nil {
			return err
		}
		res, err := tx.NewUpdate().Model(rec).ExcludeColumn("created_at").WherePK().Exec(ctx)
		if err != nil {
			return c.writeError("update", err)
		}
		return affected(res)
	})
}

// checkBaseSlug rejects a base slug already used by a translation of another
// record. Base slugs are looked up first in every locale, so the new record
// would take over that translated URL.
func (c *Collection[E, T]) checkBaseSlug(ctx context.Context, tx bun.Tx, rec E) error {
	slug := rec.RecordSlug()
	if !c.opts.Slugged || slug == "" {
		return nil
	}
	taken, err := tx.NewSelect().Model((*T)(nil)).
		Where("slug = ?", slug).
		Where("parent_id != ?", rec.RecordID()).
		Exists(ctx)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%s slug %q: %w", c.name, slug, ErrConflict)
	}
	return nil
}

// Delete removes a base record; its translations go with it.
func (c *Collection[E, T]) Delete(ctx context.Context, id int64) error {
	res, err := c.db.NewDelete().Model((*E)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return c.writeError("delete", err)
	}
	return affected(res)
}

// ListTranslations returns every translation row of a record.
func (c *Collection[E, T]) ListTranslations(ctx context.Context, parentID int64) ([]T, error) {
	rows := make([]T, 0)
	err := c.db.NewSelect().Model(&rows).
		Where("parent_id = ?", parentID).
		OrderExpr("language_code ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// UpsertTranslation stores tr as the translation of parentID in code,
// replacing any existing row for that pair. The parent must exist.
func (c *Collection[E, T]) UpsertTranslation(ctx context.Context, parentID int64, code locale.Code, tr *T) error {
	key, ok := any(tr).(translationKey)
	if !ok {
		return fmt.Errorf("%s translation: %w", c.name, ErrUnsupportedRow)
	}
	key.SetKey(parentID, code)
	key.Touch(time.Now().UTC())

	return c.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().Model((*E)(nil)).Where("id = ?", parentID).Exists(ctx)
		if err != nil {
			return err
		}
		if !exists {
			return resolver.ErrNotFound
		}

		// A translation slug equal to another record's base slug would never
		// resolve, since base slugs are looked up first.
		if slug := (*tr).LocalizedSlug(); slug != "" && c.opts.Slugged {
			taken, err := tx.NewSelect().Model((*E)(nil)).
				Where("slug = ?", slug).
				Where("id != ?", parentID).
				Exists(ctx)
			if err != nil {
				return err
			}
			if taken {
				return fmt.Errorf("%s translation slug %q: %w", c.name, slug, ErrConflict)
			}
		}

		res, err := tx.NewUpdate().Model(tr).
			ExcludeColumn("id", "created_at").
			Where("parent_id = ?", parentID).
			Where("language_code = ?", code).
			Exec(ctx)
		if err != nil {
			return c.writeError("update translation", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			if _, err := tx.NewInsert().Model(tr).Exec(ctx); err != nil {
				return c.writeError("insert translation", err)
			}
		}

		return tx.NewSelect().Model(tr).
			Where("parent_id = ?", parentID).
			Where("language_code = ?", code).
			Limit(1).
			Scan(ctx)
	})
}

// DeleteTranslation removes the translation of parentID in code.
func (c *Collection[E, T]) DeleteTranslation(ctx context.Context, parentID int64, code locale.Code) error {
	res, err := c.db.NewDelete().Model((*T)(nil)).
		Where("parent_id = ?", parentID).
		Where("language_code = ?", code).
		Exec(ctx)
	if err != nil {
		return c.writeError("delete translation", err)
	}
	return affected(res)
}

func (c *Collection[E, T]) writeError(op string, err error) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("%s %s: %w", c.name, op, ErrConflict)
	}
	return fmt.Errorf("%s %s: %w", c.name, op, err)
}

// notFound maps an empty single-row result to resolver.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return resolver.ErrNotFound
	}
	return err
}

func affected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return resolver.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
