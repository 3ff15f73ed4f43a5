// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "github.com/uptrace/bun"

// Sector is an industry the company serves.
type Sector struct {
	bun.BaseModel `bun:"table:sectors,alias:s"`
	RecordBase

	Slug           string `bun:"slug,notnull,unique" json:"slug"`
	Title          string `bun:"title,notnull" json:"title"`
	Summary        string `bun:"summary,notnull" json:"summary"`
	ContentHTML    string `bun:"content_html,notnull" json:"content_html"`
	SEOTitle       string `bun:"seo_title,notnull" json:"seo_title"`
	SEODescription string `bun:"seo_description,notnull" json:"seo_description"`

	ImageURL string `bun:"image_url,notnull" json:"image_url"`
	Icon     string `bun:"icon,notnull" json:"icon"`
	Position int    `bun:"position,notnull" json:"position"`
	IsActive bool   `bun:"is_active,notnull" json:"is_active"`
}

func (s Sector) RecordSlug() string { return s.Slug }

// SectorTranslation overrides sector content for one locale.
type SectorTranslation struct {
	bun.BaseModel `bun:"table:sector_translations,alias:st"`
	TranslationBase

	Title          *string `bun:"title" json:"title,omitempty"`
	Summary        *string `bun:"summary" json:"summary,omitempty"`
	ContentHTML    *string `bun:"content_html" json:"content_html,omitempty"`
	SEOTitle       *string `bun:"seo_title" json:"seo_title,omitempty"`
	SEODescription *string `bun:"seo_description" json:"seo_description,omitempty"`
}
