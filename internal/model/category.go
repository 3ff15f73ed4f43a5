// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "github.com/uptrace/bun"

// Category groups products. Categories nest through ParentID.
type Category struct {
	bun.BaseModel `bun:"table:categories,alias:c"`
	RecordBase

	Slug           string `bun:"slug,notnull,unique" json:"slug"`
	Title          string `bun:"title,notnull" json:"title"`
	Description    string `bun:"description,notnull" json:"description"`
	SEOTitle       string `bun:"seo_title,notnull" json:"seo_title"`
	SEODescription string `bun:"seo_description,notnull" json:"seo_description"`

	ParentID *int64 `bun:"parent_id" json:"parent_id,omitempty"`
	ImageURL string `bun:"image_url,notnull" json:"image_url"`
	Position int    `bun:"position,notnull" json:"position"`
	IsActive bool   `bun:"is_active,notnull" json:"is_active"`
}

// RecordSlug returns the default-locale slug.
func (c Category) RecordSlug() string { return c.Slug }

// IsRoot reports whether the category has no parent.
func (c Category) IsRoot() bool { return c.ParentID == nil }

// CategoryTranslation overrides category content for one locale.
type CategoryTranslation struct {
	bun.BaseModel `bun:"table:category_translations,alias:ct"`
	TranslationBase

	Title          *string `bun:"title" json:"title,omitempty"`
	Description    *string `bun:"description" json:"description,omitempty"`
	SEOTitle       *string `bun:"seo_title" json:"seo_title,omitempty"`
	SEODescription *string `bun:"seo_description" json:"seo_description,omitempty"`
}
