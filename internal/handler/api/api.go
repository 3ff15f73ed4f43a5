// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the JSON API: localized public content, the visit
// beacon, the admin collection endpoints, and the sitemap and robots files.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/muratkanik/rotabiletiket/internal/analytics"
	"github.com/muratkanik/rotabiletiket/internal/middleware"
	"github.com/muratkanik/rotabiletiket/internal/model"
	"github.com/muratkanik/rotabiletiket/internal/resolver"
	"github.com/muratkanik/rotabiletiket/internal/scheduler"
	"github.com/muratkanik/rotabiletiket/internal/seo"
	"github.com/muratkanik/rotabiletiket/internal/service"
	"github.com/muratkanik/rotabiletiket/internal/store"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// Error codes used beside the middleware ones.
const (
	CodeBadRequest       = "bad_request"
	CodeValidation       = "validation_error"
	CodeConflict         = "conflict"
	CodeStoreUnavailable = "store_unavailable"
	CodeInternal         = "internal_error"
)

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	content *service.ContentService
	store   *store.Store
	tracker *analytics.Tracker
	sitemap *seo.SitemapGenerator
	jobs    *scheduler.Scheduler
	site    seo.SiteConfig
	robots  seo.RobotsConfig
	now     func() time.Time
}

// Deps are the collaborators of a Handler. Tracker and Scheduler may be nil.
type Deps struct {
	Content   *service.ContentService
	Store     *store.Store
	Tracker   *analytics.Tracker
	Sitemap   *seo.SitemapGenerator
	Scheduler *scheduler.Scheduler
	Site      seo.SiteConfig
	// DisallowRobots serves a robots.txt that blocks every crawler.
	DisallowRobots bool
}

// NewHandler creates a new API handler.
func NewHandler(d Deps) *Handler {
	return &Handler{
		content: d.Content,
		store:   d.Store,
		tracker: d.Tracker,
		sitemap: d.Sitemap,
		jobs:    d.Scheduler,
		site:    d.Site,
		robots: seo.RobotsConfig{
			SiteURL:     d.Site.SiteURL,
			DisallowAll: d.DisallowRobots,
		},
		now: time.Now,
	}
}

// Response is the standard API response wrapper.
type Response struct {
	Data any   `json:"data"`
	Meta *Meta `json:"meta,omitempty"`
}

// Meta contains pagination and other metadata.
type Meta struct {
	Total   int64 `json:"total,omitempty"`
	Page    int   `json:"page,omitempty"`
	PerPage int   `json:"per_page,omitempty"`
	Pages   int   `json:"pages,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a successful JSON response.
func WriteSuccess(w http.ResponseWriter, data any, meta *Meta) {
	WriteJSON(w, http.StatusOK, Response{Data: data, Meta: meta})
}

// WriteCreated writes a 201 Created JSON response.
func WriteCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, Response{Data: data})
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string, details map[string]string) {
	middleware.WriteAPIError(w, http.StatusBadRequest, CodeBadRequest, message, details)
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) {
	middleware.WriteAPIError(w, http.StatusNotFound, middleware.CodeNotFound, message, nil)
}

// WriteValidationError writes a 422 Unprocessable Entity response with field errors.
func WriteValidationError(w http.ResponseWriter, fieldErrors map[string]string) {
	middleware.WriteAPIError(w, http.StatusUnprocessableEntity, CodeValidation, "Validation failed", fieldErrors)
}

// writeError maps service and store errors to responses. what names the
// requested thing in not-found messages.
func writeError(w http.ResponseWriter, r *http.Request, err error, what string) {
	var verr validationError
	switch {
	case errors.As(err, &verr):
		WriteValidationError(w, verr.fields)
	case errors.Is(err, resolver.ErrNotFound):
		WriteNotFound(w, what+" not found")
	case errors.Is(err, store.ErrConflict):
		middleware.WriteAPIError(w, http.StatusConflict, CodeConflict, "Slug already in use", nil)
	case errors.Is(err, resolver.ErrStoreUnavailable):
		slog.Error("content store unavailable",
			"category", model.EventCategoryContent,
			"path", r.URL.Path,
			"error", err)
		middleware.WriteAPIError(w, http.StatusServiceUnavailable, CodeStoreUnavailable, "Content is temporarily unavailable", nil)
	default:
		slog.Error("request failed",
			"category", model.EventCategorySystem,
			"method", r.Method,
			"path", r.URL.Path,
			"error", err)
		middleware.WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Internal server error", nil)
	}
}

// decodeJSON reads a single JSON document into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid JSON body: %v", err), nil)
		return false
	}
	return true
}
