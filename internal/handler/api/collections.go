// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"strings"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/muratkanik/rotabiletiket/internal/model"
	"github.com/muratkanik/rotabiletiket/internal/store"
)

const maxTitleLength = 200

func titleRules() []validation.Rule {
	return []validation.Rule{validation.Required, validation.Length(1, maxTitleLength)}
}

func newProductAdmin(h *Handler) *collectionAdmin[model.Product, model.ProductTranslation] {
	return &collectionAdmin[model.Product, model.ProductTranslation]{
		h:     h,
		name:  store.CollectionProducts,
		label: "Product",
		coll:  h.store.Products,
		prepare: func(ctx context.Context, p *model.Product, _ int64) error {
			p.Title = strings.TrimSpace(p.Title)
			normalizeSlug(&p.Slug, p.Title)
			p.ContentHTML = h.content.Renderer().SanitizeHTML(p.ContentHTML)

			err := fieldErrors(validation.ValidateStruct(p,
				validation.Field(&p.Title, titleRules()...),
				validation.Field(&p.Slug, validation.Required, slugRule),
				validation.Field(&p.Position, validation.Min(0)),
			))
			if err != nil {
				return err
			}
			return h.requireCategory(ctx, "category_id", p.CategoryID)
		},
		prepareTranslation: func(t *model.ProductTranslation) error {
			return h.checkTranslation(t, []**string{&t.ContentHTML},
				t.Title, t.Summary, t.Description, t.ContentHTML, t.SEOTitle, t.SEODescription, t.Keywords)
		},
		extra: func(r chi.Router) {
			r.Get("/images", h.ListProductImages)
			r.Post("/images", h.AddProductImage)
			r.Delete("/images/{imageID}", h.DeleteProductImage)
		},
	}
}

func newCategoryAdmin(h *Handler) *collectionAdmin[model.Category, model.CategoryTranslation] {
	return &collectionAdmin[model.Category, model.CategoryTranslation]{
		h:     h,
		name:  store.CollectionCategories,
		label: "Category",
		coll:  h.store.Categories,
		prepare: func(ctx context.Context, c *model.Category, id int64) error {
			c.Title = strings.TrimSpace(c.Title)
			normalizeSlug(&c.Slug, c.Title)

			err := fieldErrors(validation.ValidateStruct(c,
				validation.Field(&c.Title, titleRules()...),
				validation.Field(&c.Slug, validation.Required, slugRule),
				validation.Field(&c.Position, validation.Min(0)),
			))
			if err != nil {
				return err
			}
			if c.ParentID != nil && id != 0 {
				if err := h.checkCategoryParent(ctx, id, *c.ParentID); err != nil {
					return err
				}
			}
			return h.requireCategory(ctx, "parent_id", c.ParentID)
		},
		prepareTranslation: func(t *model.CategoryTranslation) error {
			return h.checkTranslation(t, nil, t.Title, t.Description, t.SEOTitle, t.SEODescription)
		},
	}
}

// checkCategoryParent rejects parents that would put id inside its own subtree.
func (h *Handler) checkCategoryParent(ctx context.Context, id, parentID int64) error {
	seen := map[int64]bool{}
	for cur := parentID; ; {
		if cur == id {
			return invalidField("parent_id", "category cannot be nested under itself")
		}
		if seen[cur] {
			return nil
		}
		seen[cur] = true

		parent, err := h.store.Categories.GetByID(ctx, cur)
		if err != nil {
			if store.IsNotFound(err) {
				return nil
			}
			return err
		}
		if parent.ParentID == nil {
			return nil
		}
		cur = *parent.ParentID
	}
}

func newSectorAdmin(h *Handler) *collectionAdmin[model.Sector, model.SectorTranslation] {
	return &collectionAdmin[model.Sector, model.SectorTranslation]{
		h:     h,
		name:  store.CollectionSectors,
		label: "Sector",
		coll:  h.store.Sectors,
		prepare: func(_ context.Context, s *model.Sector, _ int64) error {
			s.Title = strings.TrimSpace(s.Title)
			normalizeSlug(&s.Slug, s.Title)
			s.ContentHTML = h.content.Renderer().SanitizeHTML(s.ContentHTML)

			return fieldErrors(validation.ValidateStruct(s,
				validation.Field(&s.Title, titleRules()...),
				validation.Field(&s.Slug, validation.Required, slugRule),
				validation.Field(&s.Position, validation.Min(0)),
			))
		},
		prepareTranslation: func(t *model.SectorTranslation) error {
			return h.checkTranslation(t, []**string{&t.ContentHTML},
				t.Title, t.Summary, t.ContentHTML, t.SEOTitle, t.SEODescription)
		},
	}
}

func newArticleAdmin(h *Handler) *collectionAdmin[model.Article, model.ArticleTranslation] {
	return &collectionAdmin[model.Article, model.ArticleTranslation]{
		h:     h,
		name:  store.CollectionArticles,
		label: "Article",
		coll:  h.store.Articles,
		prepare: func(ctx context.Context, a *model.Article, id int64) error {
			a.Title = strings.TrimSpace(a.Title)
			normalizeSlug(&a.Slug, a.Title)
			a.ContentHTML = h.content.Renderer().SanitizeHTML(a.ContentHTML)
			if a.IsPublished {
				// An update without published_at keeps the stored date.
				if a.PublishedAt == nil && id != 0 {
					stored, err := h.store.Articles.GetByID(ctx, id)
					if err != nil && !store.IsNotFound(err) {
						return err
					}
					a.PublishedAt = stored.PublishedAt
				}
				a.Publish(h.now().UTC())
			}

			return fieldErrors(validation.ValidateStruct(a,
				validation.Field(&a.Title, titleRules()...),
				validation.Field(&a.Slug, validation.Required, slugRule),
			))
		},
		prepareTranslation: func(t *model.ArticleTranslation) error {
			return h.checkTranslation(t, []**string{&t.ContentHTML},
				t.Title, t.Summary, t.ContentHTML, t.SEOTitle, t.SEODescription, t.Keywords)
		},
	}
}

func newHeroSlideAdmin(h *Handler) *collectionAdmin[model.HeroSlide, model.HeroSlideTranslation] {
	return &collectionAdmin[model.HeroSlide, model.HeroSlideTranslation]{
		h:     h,
		name:  store.CollectionHeroSlides,
		label: "Hero slide",
		coll:  h.store.HeroSlides,
		prepare: func(_ context.Context, s *model.HeroSlide, _ int64) error {
			s.Title = strings.TrimSpace(s.Title)

			return fieldErrors(validation.ValidateStruct(s,
				validation.Field(&s.Title, titleRules()...),
				validation.Field(&s.ImageURL, validation.Match(urlPattern).Error("must be an absolute path or http(s) URL")),
				validation.Field(&s.LinkURL, validation.Match(urlPattern).Error("must be an absolute path or http(s) URL")),
				validation.Field(&s.Position, validation.Min(0)),
			))
		},
		prepareTranslation: func(t *model.HeroSlideTranslation) error {
			// Hero slides are not addressable, so their translations carry no slug.
			if t.LocalizedSlug() != "" {
				return invalidField("slug", "hero slides have no slug")
			}
			return h.checkTranslation(t, nil, t.Title, t.Subtitle, t.ButtonText)
		},
	}
}

func newPageAdmin(h *Handler) *collectionAdmin[model.Page, model.PageTranslation] {
	return &collectionAdmin[model.Page, model.PageTranslation]{
		h:     h,
		name:  store.CollectionPages,
		label: "Page",
		coll:  h.store.Pages,
		prepare: func(_ context.Context, p *model.Page, _ int64) error {
			p.Title = strings.TrimSpace(p.Title)
			normalizeSlug(&p.Slug, p.Title)

			// Markdown is sanitized when rendered.
			return fieldErrors(validation.ValidateStruct(p,
				validation.Field(&p.Title, titleRules()...),
				validation.Field(&p.Slug, validation.Required, slugRule),
			))
		},
		prepareTranslation: func(t *model.PageTranslation) error {
			return h.checkTranslation(t, nil, t.Title, t.ContentMD, t.SEOTitle, t.SEODescription)
		},
	}
}
