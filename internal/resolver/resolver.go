// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package resolver projects localizable records into a requested locale.
//
// Every localizable collection stores its default-locale content on a base
// record and optional per-locale overrides on translation rows keyed by
// (parent_id, language_code). A resolver reads both and merges the translation
// over the base one content field at a time, so a record always resolves to
// displayable content: requested locale first, default locale otherwise.
//
// Resolvers never write. Caching and retries belong to callers.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/muratkanik/rotabiletiket/internal/locale"
)

// ErrNotFound reports a definite miss: the slug or id does not resolve to any
// record. Stores return it for empty lookups and resolvers return it to callers.
var ErrNotFound = errors.New("resolver: not found")

// ErrStoreUnavailable is matched by every *StoreError.
var ErrStoreUnavailable = errors.New("resolver: store unavailable")

// StoreError wraps a failure of the record store itself. It is never used for
// misses, so callers can tell "page not found" from "database down".
type StoreError struct {
	Collection string
	Op         string
	Err        error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("resolver: %s %s: %v", e.Collection, e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrStoreUnavailable) true for any StoreError.
func (e *StoreError) Is(target error) bool {
	return target == ErrStoreUnavailable
}

// Record is a base record holding default-locale content.
type Record interface {
	RecordID() int64
	// RecordSlug returns the default-locale slug, or "" for collections
	// that are not addressable by slug.
	RecordSlug() string
}

// Localized is a translation row for one (parent, locale) pair.
type Localized interface {
	ParentRecordID() int64
	// LocalizedSlug returns the locale's slug, or "" when the row has none.
	LocalizedSlug() string
}

// Field binds one content field of a base record to the same field of its
// translation row. Base returns a pointer into the record so the merge can
// overwrite it; Translated returns the nullable translated value.
type Field[E any, T any] struct {
	Name       string
	Base       func(*E) *string
	Translated func(*T) *string
}

// Order names a listing order understood by stores.
type Order string

// Listing orders.
const (
	OrderDefault   Order = ""
	OrderPosition  Order = "position"
	OrderTitle     Order = "title"
	OrderNewest    Order = "newest"
	OrderPublished Order = "published"
)

// ListOptions filters and orders a base record listing.
type ListOptions struct {
	// ParentID restricts the listing to children of a parent record
	// (products of a category, subcategories of a category).
	ParentID *int64
	// RootOnly restricts hierarchical listings to records without a parent.
	RootOnly bool
	// ActiveOnly hides inactive or unpublished records.
	ActiveOnly bool
	// FeaturedOnly keeps only records flagged for the homepage.
	FeaturedOnly bool
	Order        Order
	Limit        int
	Offset       int
}

// ListStore is the part of the record store needed for listings.
type ListStore[E Record, T Localized] interface {
	List(ctx context.Context, opts ListOptions) ([]E, error)
	ListTranslationsForParents(ctx context.Context, parentIDs []int64, code locale.Code) ([]T, error)
}

// Store is the record store of one collection.
type Store[E Record, T Localized] interface {
	ListStore[E, T]
	GetBySlug(ctx context.Context, slug string) (E, error)
	GetByID(ctx context.Context, id int64) (E, error)
	GetTranslation(ctx context.Context, parentID int64, code locale.Code) (T, error)
	GetTranslationBySlug(ctx context.Context, slug string, code locale.Code) (T, error)
}

// View is a record projected into a locale.
type View[E any] struct {
	Record E `json:"record"`
	// Locale is the locale the view was requested in.
	Locale locale.Code `json:"locale"`
	// Slug is the canonical slug for links in Locale.
	Slug string `json:"slug"`
	// Translated is true when a translation row was merged into Record.
	Translated bool `json:"translated"`
}

// Merge returns base with every non-empty translated content field copied over it.
// Fields the translation leaves nil or blank keep the base value.
func Merge[E any, T any](base E, tr *T, fields []Field[E, T]) E {
	if tr == nil {
		return base
	}
	out := base
	for _, f := range fields {
		if v := f.Translated(tr); present(v) {
			*f.Base(&out) = *v
		}
	}
	return out
}

func present(v *string) bool {
	return v != nil && strings.TrimSpace(*v) != ""
}

// Lister resolves listings of a collection.
type Lister[E Record, T Localized] struct {
	collection    string
	store         ListStore[E, T]
	fields        []Field[E, T]
	defaultLocale locale.Code
}

// NewListResolver creates a resolver for a collection that is only ever listed.
func NewListResolver[E Record, T Localized](collection string, store ListStore[E, T], fields []Field[E, T]) *Lister[E, T] {
	return &Lister[E, T]{
		collection:    collection,
		store:         store,
		fields:        fields,
		defaultLocale: locale.Default,
	}
}

// Collection returns the collection name the resolver serves.
func (l *Lister[E, T]) Collection() string {
	return l.collection
}

// ResolveList lists base records and merges their translations for code.
// Translations are fetched in one batch for the whole page and the base
// order is preserved.
func (l *Lister[E, T]) ResolveList(ctx context.Context, code locale.Code, opts ListOptions) ([]View[E], error) {
	records, err := l.store.List(ctx, opts)
	if err != nil {
		return nil, l.storeError("list", err)
	}

	views := make([]View[E], 0, len(records))
	if code == l.defaultLocale || len(records) == 0 {
		for _, rec := range records {
			views = append(views, l.baseView(rec, code))
		}
		return views, nil
	}

	ids := make([]int64, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.RecordID())
	}

	translations, err := l.store.ListTranslationsForParents(ctx, ids, code)
	if err != nil {
		return nil, l.storeError("list translations", err)
	}

	byParent := make(map[int64]*T, len(translations))
	for i := range translations {
		byParent[translations[i].ParentRecordID()] = &translations[i]
	}

	for _, rec := range records {
		if tr, ok := byParent[rec.RecordID()]; ok {
			views = append(views, l.mergedView(rec, tr, code))
			continue
		}
		views = append(views, l.baseView(rec, code))
	}
	return views, nil
}

func (l *Lister[E, T]) baseView(rec E, code locale.Code) View[E] {
	return View[E]{Record: rec, Locale: code, Slug: rec.RecordSlug()}
}

func (l *Lister[E, T]) mergedView(rec E, tr *T, code locale.Code) View[E] {
	return View[E]{
		Record:     Merge(rec, tr, l.fields),
		Locale:     code,
		Slug:       CanonicalSlug(rec.RecordSlug(), (*tr).LocalizedSlug(), code),
		Translated: true,
	}
}

func (l *Lister[E, T]) storeError(op string, err error) error {
	return &StoreError{Collection: l.collection, Op: op, Err: err}
}

// Resolver resolves single records and listings of a slug-addressable collection.
type Resolver[E Record, T Localized] struct {
	*Lister[E, T]
	store Store[E, T]
}

// New creates a resolver for collection backed by store, merging the given fields.
func New[E Record, T Localized](collection string, store Store[E, T], fields []Field[E, T]) *Resolver[E, T] {
	return &Resolver[E, T]{
		Lister: NewListResolver[E, T](collection, store, fields),
		store:  store,
	}
}

// ResolveBySlug resolves slug in locale code.
//
// In the default locale only base slugs are consulted. In any other locale a
// base slug is tried first, then the locale's translation slug. A translation
// whose parent no longer exists resolves to ErrNotFound.
func (r *Resolver[E, T]) ResolveBySlug(ctx context.Context, slug string, code locale.Code) (View[E], error) {
	if strings.TrimSpace(slug) == "" {
		return View[E]{}, ErrNotFound
	}

	base, err := r.store.GetBySlug(ctx, slug)
	switch {
	case err == nil:
		return r.localize(ctx, base, code)
	case !errors.Is(err, ErrNotFound):
		return View[E]{}, r.storeError("get by slug", err)
	case code == r.defaultLocale:
		return View[E]{}, ErrNotFound
	}

	tr, err := r.store.GetTranslationBySlug(ctx, slug, code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return View[E]{}, ErrNotFound
		}
		return View[E]{}, r.storeError("get translation by slug", err)
	}

	base, err = r.store.GetByID(ctx, tr.ParentRecordID())
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return View[E]{}, ErrNotFound
		}
		return View[E]{}, r.storeError("get by id", err)
	}
	return r.mergedView(base, &tr, code), nil
}

// ResolveByID resolves the record with the given id in locale code.
func (r *Resolver[E, T]) ResolveByID(ctx context.Context, id int64, code locale.Code) (View[E], error) {
	base, err := r.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return View[E]{}, ErrNotFound
		}
		return View[E]{}, r.storeError("get by id", err)
	}
	return r.localize(ctx, base, code)
}

// localize merges the translation for code over base, if one exists.
func (r *Resolver[E, T]) localize(ctx context.Context, base E, code locale.Code) (View[E], error) {
	if code == r.defaultLocale {
		return r.baseView(base, code), nil
	}

	tr, err := r.store.GetTranslation(ctx, base.RecordID(), code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return r.baseView(base, code), nil
		}
		return View[E]{}, r.storeError("get translation", err)
	}
	return r.mergedView(base, &tr, code), nil
}
