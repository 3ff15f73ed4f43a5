// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "github.com/uptrace/bun"

// Product is a catalog item. Content columns hold Turkish text.
type Product struct {
	bun.BaseModel `bun:"table:products,alias:p"`
	RecordBase

	Slug           string `bun:"slug,notnull,unique" json:"slug"`
	Title          string `bun:"title,notnull" json:"title"`
	Summary        string `bun:"summary,notnull" json:"summary"`
	Description    string `bun:"description,notnull" json:"description"`
	ContentHTML    string `bun:"content_html,notnull" json:"content_html"`
	SEOTitle       string `bun:"seo_title,notnull" json:"seo_title"`
	SEODescription string `bun:"seo_description,notnull" json:"seo_description"`
	Keywords       string `bun:"keywords,notnull" json:"keywords"`

	CategoryID *int64            `bun:"category_id" json:"category_id,omitempty"`
	ImageURL   string            `bun:"image_url,notnull" json:"image_url"`
	Specs      map[string]string `bun:"specs,type:json" json:"specs,omitempty"`
	IsActive   bool              `bun:"is_active,notnull" json:"is_active"`
	IsFeatured bool              `bun:"is_featured,notnull" json:"is_featured"`
	Position   int               `bun:"position,notnull" json:"position"`
}

// RecordSlug returns the default-locale slug.
func (p Product) RecordSlug() string { return p.Slug }

// ProductTranslation overrides product content for one locale.
type ProductTranslation struct {
	bun.BaseModel `bun:"table:product_translations,alias:pt"`
	TranslationBase

	Title          *string `bun:"title" json:"title,omitempty"`
	Summary        *string `bun:"summary" json:"summary,omitempty"`
	Description    *string `bun:"description" json:"description,omitempty"`
	ContentHTML    *string `bun:"content_html" json:"content_html,omitempty"`
	SEOTitle       *string `bun:"seo_title" json:"seo_title,omitempty"`
	SEODescription *string `bun:"seo_description" json:"seo_description,omitempty"`
	Keywords       *string `bun:"keywords" json:"keywords,omitempty"`
}

// ProductImage is an additional gallery image. Images are not localized.
type ProductImage struct {
	bun.BaseModel `bun:"table:product_images,alias:pi"`

	ID        int64  `bun:"id,pk,autoincrement" json:"id"`
	ProductID int64  `bun:"product_id,notnull" json:"product_id"`
	URL       string `bun:"url,notnull" json:"url"`
	AltText   string `bun:"alt_text,notnull" json:"alt_text"`
	Position  int    `bun:"position,notnull" json:"position"`
}
