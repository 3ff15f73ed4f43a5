// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"

	"github.com/muratkanik/rotabiletiket/internal/middleware"
)

// RouterConfig holds the HTTP policy of the API routes.
type RouterConfig struct {
	AdminSecret []byte
	CORSOrigins []string
	// CacheMaxAge is the public max-age of content responses in seconds.
	CacheMaxAge int
	// AdminRate and AdminBurst bound admin requests per client address.
	AdminRate  float64
	AdminBurst int
	// AdminLimiter, when set, replaces the limiter built from AdminRate.
	AdminLimiter *middleware.RateLimiter
}

// Routes returns the router for the sitemap, robots.txt and /api/v1.
func (h *Handler) Routes(cfg RouterConfig) chi.Router {
	limiter := cfg.AdminLimiter
	if limiter == nil {
		limiter = middleware.NewRateLimiter(cfg.AdminRate, cfg.AdminBurst)
	}

	r := chi.NewRouter()

	r.Get("/sitemap.xml", h.Sitemap)
	r.Get("/robots.txt", h.Robots)

	r.Route("/api/v1", func(r chi.Router) {
		// Mux-level so preflight requests are answered before routing.
		r.Use(cors.New(cors.Options{
			AllowedOrigins: cfg.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut, http.MethodDelete},
			AllowedHeaders: []string{"Accept", "Accept-Language", "Authorization", "Content-Type"},
			MaxAge:         300,
		}).Handler)

		r.With(middleware.NoStore).Post("/visits", h.RecordVisit)

		r.Group(func(r chi.Router) {
			r.Use(middleware.PublicCache(cfg.CacheMaxAge))
			r.Get("/locales", h.Locales)

			// Default locale content lives on unprefixed paths.
			r.Group(func(r chi.Router) {
				r.Use(middleware.DefaultLocale)
				h.contentRoutes(r)
			})
			r.Route("/{"+middleware.LocaleParam+"}", func(r chi.Router) {
				r.Use(middleware.LocalePrefix)
				h.contentRoutes(r)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.NoStore)
			r.Use(limiter.Middleware)
			r.Use(middleware.AdminAuth(cfg.AdminSecret))

			r.Get("/analytics", h.Analytics)
			r.Get("/events", h.Events)
			r.Get("/jobs", h.Jobs)
			r.Post("/jobs/{name}", h.TriggerJob)
			r.Post("/cache/clear", h.ClearCache)

			mountCollection(r, newProductAdmin(h))
			mountCollection(r, newCategoryAdmin(h))
			mountCollection(r, newSectorAdmin(h))
			mountCollection(r, newArticleAdmin(h))
			mountCollection(r, newHeroSlideAdmin(h))
			mountCollection(r, newPageAdmin(h))
		})
	})

	return r
}

// contentRoutes mounts the public read API of one locale.
func (h *Handler) contentRoutes(r chi.Router) {
	r.Get("/", h.Home)
	r.Get("/products", h.ListProducts)
	r.Get("/products/{slug}", h.GetProduct)
	r.Get("/categories", h.ListCategories)
	r.Get("/categories/{slug}", h.GetCategory)
	r.Get("/sectors", h.ListSectors)
	r.Get("/sectors/{slug}", h.GetSector)
	r.Get("/blog", h.ListArticles)
	r.Get("/blog/{slug}", h.GetArticle)
	r.Get("/pages", h.ListPages)
	r.Get("/pages/{slug}", h.GetPage)
	r.Get("/hero-slides", h.ListHeroSlides)
}
