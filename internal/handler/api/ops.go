// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/muratkanik/rotabiletiket/internal/analytics"
	"github.com/muratkanik/rotabiletiket/internal/handler"
	"github.com/muratkanik/rotabiletiket/internal/middleware"
	"github.com/muratkanik/rotabiletiket/internal/model"
	"github.com/muratkanik/rotabiletiket/internal/scheduler"
	"github.com/muratkanik/rotabiletiket/internal/seo"
	"github.com/muratkanik/rotabiletiket/internal/store"
)

// urlPattern accepts site-relative paths and http(s) URLs.
var urlPattern = regexp.MustCompile(`^(/[^/\s]|https?://)\S*$`)

// VisitRequest is the body of the visit beacon.
type VisitRequest struct {
	Path     string `json:"path"`
	Referrer string `json:"referrer"`
}

// RecordVisit handles POST /api/v1/visits.
// Bot traffic is accepted and dropped so crawlers learn nothing.
func (h *Handler) RecordVisit(w http.ResponseWriter, r *http.Request) {
	var req VisitRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if h.tracker == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	_, err := h.tracker.Record(r.Context(), analytics.Hit{
		IP:             middleware.ClientIP(r),
		UserAgent:      r.UserAgent(),
		AcceptLanguage: r.Header.Get("Accept-Language"),
		Path:           req.Path,
		Referrer:       req.Referrer,
	})
	switch {
	case err == nil, errors.Is(err, analytics.ErrBot):
		w.WriteHeader(http.StatusAccepted)
	case errors.Is(err, analytics.ErrRateLimited):
		middleware.WriteAPIError(w, http.StatusTooManyRequests, middleware.CodeRateLimited, "Too many requests", nil)
	case errors.Is(err, analytics.ErrInvalidPath):
		WriteValidationError(w, map[string]string{"path": "must be a public page path"})
	default:
		writeError(w, r, err, "Visit")
	}
}

// Analytics handles GET /api/v1/admin/analytics?range=7d|30d|90d.
func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request) {
	rng, err := analytics.ParseRange(r.URL.Query().Get("range"))
	if err != nil {
		WriteBadRequest(w, "Invalid range", map[string]string{"range": "must be one of 7d, 30d, 90d"})
		return
	}

	report, err := analytics.Summarize(r.Context(), h.store, rng, h.now().UTC())
	if err != nil {
		writeError(w, r, err, "Report")
		return
	}
	WriteSuccess(w, report, nil)
}

// Events handles GET /api/v1/admin/events?level=&limit=.
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	level := r.URL.Query().Get("level")
	err := validation.Validate(level, validation.In(model.EventLevelInfo, model.EventLevelWarning, model.EventLevelError))
	if err != nil {
		WriteBadRequest(w, "Invalid level", map[string]string{"level": err.Error()})
		return
	}
	limit := handler.ParseIntParam(r, "limit", 50, 1, 500)

	events, err := h.store.ListEvents(r.Context(), level, limit)
	if err != nil {
		writeError(w, r, err, "Event")
		return
	}
	WriteSuccess(w, events, nil)
}

// Jobs handles GET /api/v1/admin/jobs.
func (h *Handler) Jobs(w http.ResponseWriter, _ *http.Request) {
	jobs := []scheduler.JobInfo{}
	if h.jobs != nil {
		jobs = h.jobs.Jobs()
	}
	WriteSuccess(w, jobs, nil)
}

// TriggerJob handles POST /api/v1/admin/jobs/{name}.
func (h *Handler) TriggerJob(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if h.jobs == nil {
		WriteNotFound(w, "Job not found")
		return
	}

	if err := h.jobs.Trigger(r.Context(), name); err != nil {
		if errors.Is(err, scheduler.ErrJobNotFound) {
			WriteNotFound(w, "Job not found")
			return
		}
		middleware.WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Job failed: "+err.Error(), nil)
		return
	}

	slog.Info("job triggered", "category", model.EventCategoryAdmin, "job", name)
	WriteSuccess(w, map[string]string{"name": name, "status": "completed"}, nil)
}

// ClearCache handles POST /api/v1/admin/cache/clear.
func (h *Handler) ClearCache(w http.ResponseWriter, r *http.Request) {
	if err := h.content.Invalidate(r.Context()); err != nil {
		writeError(w, r, err, "Cache")
		return
	}
	slog.Info("content cache cleared", "category", model.EventCategoryCache)
	w.WriteHeader(http.StatusNoContent)
}

// ImageRequest is the body of AddProductImage.
type ImageRequest struct {
	URL      string `json:"url"`
	AltText  string `json:"alt_text"`
	Position int    `json:"position"`
}

// Validate checks the image fields.
func (req ImageRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.URL, validation.Required, validation.Match(urlPattern).Error("must be an absolute path or http(s) URL")),
		validation.Field(&req.AltText, validation.Length(0, 300)),
		validation.Field(&req.Position, validation.Min(0)),
	)
}

// ListProductImages handles GET /api/v1/admin/products/{id}/images.
func (h *Handler) ListProductImages(w http.ResponseWriter, r *http.Request) {
	id, err := handler.ParseIDParam(r, "id")
	if err != nil {
		WriteBadRequest(w, "Invalid product ID", nil)
		return
	}
	if _, err := h.store.Products.GetByID(r.Context(), id); err != nil {
		writeError(w, r, err, "Product")
		return
	}

	images, err := h.store.ListProductImages(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "Product")
		return
	}
	WriteSuccess(w, images, nil)
}

// AddProductImage handles POST /api/v1/admin/products/{id}/images.
func (h *Handler) AddProductImage(w http.ResponseWriter, r *http.Request) {
	id, err := handler.ParseIDParam(r, "id")
	if err != nil {
		WriteBadRequest(w, "Invalid product ID", nil)
		return
	}

	var req ImageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.URL = strings.TrimSpace(req.URL)
	if err := fieldErrors(req.Validate()); err != nil {
		writeError(w, r, err, "Image")
		return
	}

	img := model.ProductImage{
		ProductID: id,
		URL:       req.URL,
		AltText:   strings.TrimSpace(req.AltText),
		Position:  req.Position,
	}
	if err := h.store.AddProductImage(r.Context(), &img); err != nil {
		writeError(w, r, err, "Product")
		return
	}

	h.changed(r, "product image added", store.CollectionProducts, id, "image_id", img.ID)
	WriteCreated(w, img)
}

// DeleteProductImage handles DELETE /api/v1/admin/products/{id}/images/{imageID}.
func (h *Handler) DeleteProductImage(w http.ResponseWriter, r *http.Request) {
	id, err := handler.ParseIDParam(r, "id")
	if err != nil {
		WriteBadRequest(w, "Invalid product ID", nil)
		return
	}
	imageID, err := handler.ParseIDParam(r, "imageID")
	if err != nil {
		WriteBadRequest(w, "Invalid image ID", nil)
		return
	}

	if err := h.store.DeleteProductImage(r.Context(), id, imageID); err != nil {
		writeError(w, r, err, "Image")
		return
	}

	h.changed(r, "product image deleted", store.CollectionProducts, id, "image_id", imageID)
	w.WriteHeader(http.StatusNoContent)
}

// Sitemap handles GET /sitemap.xml.
func (h *Handler) Sitemap(w http.ResponseWriter, r *http.Request) {
	body, err := h.sitemap.Generate(r.Context())
	if err != nil {
		writeError(w, r, err, "Sitemap")
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(body)
}

// Robots handles GET /robots.txt.
func (h *Handler) Robots(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write([]byte(seo.NewRobotsBuilder(h.robots).Build()))
}
