// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"time"

	"github.com/uptrace/bun"
)

// Article is a blog post.
type Article struct {
	bun.BaseModel `bun:"table:articles,alias:a"`
	RecordBase

	Slug           string `bun:"slug,notnull,unique" json:"slug"`
	Title          string `bun:"title,notnull" json:"title"`
	Summary        string `bun:"summary,notnull" json:"summary"`
	ContentHTML    string `bun:"content_html,notnull" json:"content_html"`
	SEOTitle       string `bun:"seo_title,notnull" json:"seo_title"`
	SEODescription string `bun:"seo_description,notnull" json:"seo_description"`
	Keywords       string `bun:"keywords,notnull" json:"keywords"`

	CoverImageURL string     `bun:"cover_image_url,notnull" json:"cover_image_url"`
	IsPublished   bool       `bun:"is_published,notnull" json:"is_published"`
	PublishedAt   *time.Time `bun:"published_at" json:"published_at,omitempty"`
}

// RecordSlug returns the default-locale slug.
func (a Article) RecordSlug() string { return a.Slug }

// Publish marks the article published at now unless it already has a date.
func (a *Article) Publish(now time.Time) {
	a.IsPublished = true
	if a.PublishedAt == nil {
		a.PublishedAt = &now
	}
}

// ArticleTranslation overrides article content for one locale.
type ArticleTranslation struct {
	bun.BaseModel `bun:"table:article_translations,alias:at"`
	TranslationBase

	Title          *string `bun:"title" json:"title,omitempty"`
	Summary        *string `bun:"summary" json:"summary,omitempty"`
	ContentHTML    *string `bun:"content_html" json:"content_html,omitempty"`
	SEOTitle       *string `bun:"seo_title" json:"seo_title,omitempty"`
	SEODescription *string `bun:"seo_description" json:"seo_description,omitempty"`
	Keywords       *string `bun:"keywords" json:"keywords,omitempty"`
}
