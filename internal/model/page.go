// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "github.com/uptrace/bun"

// Page is static markdown content such as the privacy policy or KVKK notice.
type Page struct {
	bun.BaseModel `bun:"table:pages,alias:pg"`
	RecordBase

	Slug           string `bun:"slug,notnull,unique" json:"slug"`
	Title          string `bun:"title,notnull" json:"title"`
	ContentMD      string `bun:"content_md,notnull" json:"content_md"`
	SEOTitle       string `bun:"seo_title,notnull" json:"seo_title"`
	SEODescription string `bun:"seo_description,notnull" json:"seo_description"`

	IsActive bool `bun:"is_active,notnull" json:"is_active"`
}

func (p Page) RecordSlug() string { return p.Slug }

// PageTranslation overrides page content for one locale.
type PageTranslation struct {
	bun.BaseModel `bun:"table:page_translations,alias:pgt"`
	TranslationBase

	Title          *string `bun:"title" json:"title,omitempty"`
	ContentMD      *string `bun:"content_md" json:"content_md,omitempty"`
	SEOTitle       *string `bun:"seo_title" json:"seo_title,omitempty"`
	SEODescription *string `bun:"seo_description" json:"seo_description,omitempty"`
}
