// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "github.com/uptrace/bun"

// HeroSlide is a homepage carousel slide. Slides have no public URL.
type HeroSlide struct {
	bun.BaseModel `bun:"table:hero_slides,alias:hs"`
	RecordBase

	Title      string `bun:"title,notnull" json:"title"`
	Subtitle   string `bun:"subtitle,notnull" json:"subtitle"`
	ButtonText string `bun:"button_text,notnull" json:"button_text"`

	ImageURL string `bun:"image_url,notnull" json:"image_url"`
	LinkURL  string `bun:"link_url,notnull" json:"link_url"`
	Position int    `bun:"position,notnull" json:"position"`
	IsActive bool   `bun:"is_active,notnull" json:"is_active"`
}

// RecordSlug is always empty: slides are listed, never addressed.
func (h HeroSlide) RecordSlug() string { return "" }

// HeroSlideTranslation overrides slide text for one locale.
type HeroSlideTranslation struct {
	bun.BaseModel `bun:"table:hero_slide_translations,alias:hst"`
	TranslationBase

	Title      *string `bun:"title" json:"title,omitempty"`
	Subtitle   *string `bun:"subtitle" json:"subtitle,omitempty"`
	ButtonText *string `bun:"button_text" json:"button_text,omitempty"`
}
