// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the database rows of the site.
//
// Localizable collections come in pairs: a base row holding default-locale
// content and non-localized attributes, and a translation row per
// (parent_id, language_code) whose content columns are all nullable.
package model

import (
	"time"

	"github.com/muratkanik/rotabiletiket/internal/locale"
)

// RecordBase holds the columns shared by every base row.
type RecordBase struct {
	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// RecordID returns the row id.
func (r RecordBase) RecordID() int64 {
	return r.ID
}

// SetRecordID sets the row id.
func (r *RecordBase) SetRecordID(id int64) {
	r.ID = id
}

// Touch sets UpdatedAt, and CreatedAt when unset.
func (r *RecordBase) Touch(now time.Time) {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now
}

// TranslationBase holds the key columns shared by every translation row.
type TranslationBase struct {
	ID           int64       `bun:"id,pk,autoincrement" json:"id"`
	ParentID     int64       `bun:"parent_id,notnull" json:"parent_id"`
	LanguageCode locale.Code `bun:"language_code,notnull" json:"language_code"`
	Slug         *string     `bun:"slug" json:"slug,omitempty"`
	CreatedAt    time.Time   `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt    time.Time   `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// ParentRecordID returns the id of the base row.
func (t TranslationBase) ParentRecordID() int64 {
	return t.ParentID
}

// LocalizedSlug returns the translation slug or "".
func (t TranslationBase) LocalizedSlug() string {
	if t.Slug == nil {
		return ""
	}
	return *t.Slug
}

// Language returns the translation's locale.
func (t TranslationBase) Language() locale.Code {
	return t.LanguageCode
}

// SetKey binds the row to a base record and locale.
func (t *TranslationBase) SetKey(parentID int64, code locale.Code) {
	t.ParentID = parentID
	t.LanguageCode = code
}

// SetSlug replaces the translation slug; an empty value clears it.
func (t *TranslationBase) SetSlug(slug string) {
	if slug == "" {
		t.Slug = nil
		return
	}
	t.Slug = &slug
}

// Touch sets UpdatedAt, and CreatedAt when unset.
func (t *TranslationBase) Touch(now time.Time) {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
}
