// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/muratkanik/rotabiletiket/internal/handler"
	"github.com/muratkanik/rotabiletiket/internal/locale"
	"github.com/muratkanik/rotabiletiket/internal/middleware"
	"github.com/muratkanik/rotabiletiket/internal/model"
	"github.com/muratkanik/rotabiletiket/internal/resolver"
	"github.com/muratkanik/rotabiletiket/internal/store"
	"github.com/muratkanik/rotabiletiket/internal/util"
)

// validationError carries per-field messages for a 422 response.
type validationError struct {
	fields map[string]string
}

func (e validationError) Error() string {
	return "validation failed"
}

// fieldErrors turns ozzo validation errors into a validationError.
// Internal rule errors are returned unchanged.
func fieldErrors(err error) error {
	if err == nil {
		return nil
	}
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return err
	}
	if errs.Filter() == nil {
		return nil
	}
	fields := make(map[string]string, len(errs))
	for name, e := range errs {
		if e != nil {
			fields[name] = e.Error()
		}
	}
	return validationError{fields: fields}
}

func invalidField(name, message string) error {
	return validationError{fields: map[string]string{name: message}}
}

var slugRule = validation.NewStringRuleWithError(util.IsValidSlug,
	validation.NewError("validation_slug_invalid", "must contain only lowercase letters, digits and single hyphens"))

// translationLocales are the locales a translation row may be written in.
func translationLocales() []any {
	out := make([]any, 0, len(locale.Codes())-1)
	for _, c := range locale.Codes() {
		if !c.IsDefault() {
			out = append(out, c)
		}
	}
	return out
}

// parseTranslationLocale validates the {lang} parameter of translation routes.
func parseTranslationLocale(r *http.Request) (locale.Code, error) {
	code := locale.Normalize(chi.URLParam(r, middleware.LocaleParam))
	err := validation.Validate(code,
		validation.Required,
		validation.In(translationLocales()...).Error("must be a supported non-default locale"),
	)
	if err != nil {
		return "", invalidField("lang", err.Error())
	}
	return code, nil
}

type recordIDSetter interface {
	SetRecordID(id int64)
}

type slugSetter interface {
	LocalizedSlug() string
	SetSlug(slug string)
}

// collectionAdmin serves the admin CRUD routes of one collection.
type collectionAdmin[E resolver.Record, T resolver.Localized] struct {
	h    *Handler
	name string
	// label names a single record in messages.
	label string
	coll  *store.Collection[E, T]
	// prepare normalizes and validates a base record before it is written.
	// id is 0 on create.
	prepare func(ctx context.Context, rec *E, id int64) error
	// prepareTranslation normalizes and validates a translation row.
	prepareTranslation func(tr *T) error
	// extra mounts additional routes under /{id}.
	extra func(r chi.Router)
}

// recordResponse is a base record with its translation rows.
type recordResponse[E, T any] struct {
	Record       E   `json:"record"`
	Translations []T `json:"translations"`
}

func (a *collectionAdmin[E, T]) routes(r chi.Router) {
	r.Route("/"+strings.ReplaceAll(a.name, "_", "-"), func(r chi.Router) {
		r.Get("/", a.list)
		r.Post("/", a.create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", a.get)
			r.Put("/", a.update)
			r.Delete("/", a.delete)
			r.Get("/translations", a.listTranslations)
			r.Get("/translations/{"+middleware.LocaleParam+"}", a.getTranslation)
			r.Put("/translations/{"+middleware.LocaleParam+"}", a.putTranslation)
			r.Delete("/translations/{"+middleware.LocaleParam+"}", a.deleteTranslation)
			if a.extra != nil {
				a.extra(r)
			}
		})
	})
}

// mountCollection registers the admin routes of a.
func mountCollection[E resolver.Record, T resolver.Localized](r chi.Router, a *collectionAdmin[E, T]) {
	a.routes(r)
}

func (a *collectionAdmin[E, T]) requireID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := handler.ParseIDParam(r, "id")
	if err != nil {
		WriteBadRequest(w, "Invalid "+strings.ToLower(a.label)+" ID", nil)
		return 0, false
	}
	return id, true
}

func (a *collectionAdmin[E, T]) list(w http.ResponseWriter, r *http.Request) {
	page := handler.ParsePageParam(r)
	perPage := handler.ParsePerPageParam(r)

	records, err := a.coll.List(r.Context(), resolver.ListOptions{
		Limit:  perPage,
		Offset: (page - 1) * perPage,
	})
	if err != nil {
		writeError(w, r, err, a.label)
		return
	}
	total, err := a.coll.Count(r.Context(), false)
	if err != nil {
		writeError(w, r, err, a.label)
		return
	}

	WriteSuccess(w, records, &Meta{
		Total:   int64(total),
		Page:    page,
		PerPage: perPage,
		Pages:   handler.CalculateTotalPages(total, perPage),
	})
}

func (a *collectionAdmin[E, T]) get(w http.ResponseWriter, r *http.Request) {
	id, ok := a.requireID(w, r)
	if !ok {
		return
	}

	rec, err := a.coll.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err, a.label)
		return
	}
	translations, err := a.coll.ListTranslations(r.Context(), id)
	if err != nil {
		writeError(w, r, err, a.label)
		return
	}

	WriteSuccess(w, recordResponse[E, T]{Record: rec, Translations: translations}, nil)
}

func (a *collectionAdmin[E, T]) create(w http.ResponseWriter, r *http.Request) {
	var rec E
	if !decodeJSON(w, r, &rec) {
		return
	}
	if s, ok := any(&rec).(recordIDSetter); ok {
		s.SetRecordID(0)
	}
	if err := a.prepare(r.Context(), &rec, 0); err != nil {
		writeError(w, r, err, a.label)
		return
	}

	if err := a.coll.Create(r.Context(), &rec); err != nil {
		writeError(w, r, err, a.label)
		return
	}

	a.h.changed(r, "record created", a.name, rec.RecordID())
	WriteCreated(w, rec)
}

func (a *collectionAdmin[E, T]) update(w http.ResponseWriter, r *http.Request) {
	id, ok := a.requireID(w, r)
	if !ok {
		return
	}

	var rec E
	if !decodeJSON(w, r, &rec) {
		return
	}
	if s, ok := any(&rec).(recordIDSetter); ok {
		s.SetRecordID(id)
	}
	if err := a.prepare(r.Context(), &rec, id); err != nil {
		writeError(w, r, err, a.label)
		return
	}

	if err := a.coll.Update(r.Context(), &rec); err != nil {
		writeError(w, r, err, a.label)
		return
	}

	// Re-read so created_at comes back from the row.
	saved, err := a.coll.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err, a.label)
		return
	}

	a.h.changed(r, "record updated", a.name, id)
	WriteSuccess(w, saved, nil)
}

func (a *collectionAdmin[E, T]) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := a.requireID(w, r)
	if !ok {
		return
	}

	if err := a.coll.Delete(r.Context(), id); err != nil {
		writeError(w, r, err, a.label)
		return
	}

	a.h.changed(r, "record deleted", a.name, id)
	w.WriteHeader(http.StatusNoContent)
}

func (a *collectionAdmin[E, T]) listTranslations(w http.ResponseWriter, r *http.Request) {
	id, ok := a.requireID(w, r)
	if !ok {
		return
	}
	if _, err := a.coll.GetByID(r.Context(), id); err != nil {
		writeError(w, r, err, a.label)
		return
	}

	rows, err := a.coll.ListTranslations(r.Context(), id)
	if err != nil {
		writeError(w, r, err, a.label)
		return
	}
	WriteSuccess(w, rows, nil)
}

func (a *collectionAdmin[E, T]) getTranslation(w http.ResponseWriter, r *http.Request) {
	id, ok := a.requireID(w, r)
	if !ok {
		return
	}
	code, err := parseTranslationLocale(r)
	if err != nil {
		writeError(w, r, err, a.label)
		return
	}

	tr, err := a.coll.GetTranslation(r.Context(), id, code)
	if err != nil {
		writeError(w, r, err, a.label+" translation")
		return
	}
	WriteSuccess(w, tr, nil)
}

func (a *collectionAdmin[E, T]) putTranslation(w http.ResponseWriter, r *http.Request) {
	id, ok := a.requireID(w, r)
	if !ok {
		return
	}
	code, err := parseTranslationLocale(r)
	if err != nil {
		writeError(w, r, err, a.label)
		return
	}

	var tr T
	if !decodeJSON(w, r, &tr) {
		return
	}
	if err := a.prepareTranslation(&tr); err != nil {
		writeError(w, r, err, a.label)
		return
	}

	if err := a.coll.UpsertTranslation(r.Context(), id, code, &tr); err != nil {
		writeError(w, r, err, a.label)
		return
	}

	a.h.changed(r, "translation saved", a.name, id, "locale", code)
	WriteSuccess(w, tr, nil)
}

func (a *collectionAdmin[E, T]) deleteTranslation(w http.ResponseWriter, r *http.Request) {
	id, ok := a.requireID(w, r)
	if !ok {
		return
	}
	code, err := parseTranslationLocale(r)
	if err != nil {
		writeError(w, r, err, a.label)
		return
	}

	if err := a.coll.DeleteTranslation(r.Context(), id, code); err != nil {
		writeError(w, r, err, a.label+" translation")
		return
	}

	a.h.changed(r, "translation deleted", a.name, id, "locale", code)
	w.WriteHeader(http.StatusNoContent)
}

// changed logs an admin write and drops the public content cache.
func (h *Handler) changed(r *http.Request, msg, collection string, id int64, args ...any) {
	attrs := append([]any{
		"category", model.EventCategoryAdmin,
		"collection", collection,
		"id", id,
	}, args...)
	if claims := middleware.AdminFromContext(r.Context()); claims != nil {
		attrs = append(attrs, "admin", claims.Subject)
	}
	slog.Info(msg, attrs...)

	if err := h.content.Invalidate(r.Context()); err != nil {
		slog.Warn("content cache invalidation failed", "category", model.EventCategoryCache, "error", err)
	}
}

// checkTranslation normalizes the slug of tr, sanitizes its HTML fields and
// requires at least one content value.
func (h *Handler) checkTranslation(tr slugSetter, html []**string, content ...*string) error {
	slug := strings.TrimSpace(tr.LocalizedSlug())
	tr.SetSlug(slug)
	if slug != "" && !util.IsValidSlug(slug) {
		return invalidField("slug", "must contain only lowercase letters, digits and single hyphens")
	}

	for _, field := range html {
		if *field != nil {
			clean := h.content.Renderer().SanitizeHTML(**field)
			*field = &clean
		}
	}

	for _, v := range content {
		if v != nil && strings.TrimSpace(*v) != "" {
			return nil
		}
	}
	return invalidField("translation", "must set at least one content field")
}

// normalizeSlug trims slug and derives it from title when empty.
func normalizeSlug(slug *string, title string) {
	*slug = strings.TrimSpace(*slug)
	if *slug == "" {
		*slug = util.Slugify(title)
	}
}

// requireCategory checks that a referenced category exists.
func (h *Handler) requireCategory(ctx context.Context, field string, id *int64) error {
	if id == nil {
		return nil
	}
	if _, err := h.store.Categories.GetByID(ctx, *id); err != nil {
		if store.IsNotFound(err) {
			return invalidField(field, "category does not exist")
		}
		return err
	}
	return nil
}
