// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"time"

	"github.com/uptrace/bun"
)

// Event levels
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event categories
const (
	EventCategoryContent   = "content"
	EventCategoryAdmin     = "admin"
	EventCategoryAnalytics = "analytics"
	EventCategoryCache     = "cache"
	EventCategorySystem    = "system"
)

// Event is a persisted log entry. Metadata is a JSON object.
type Event struct {
	bun.BaseModel `bun:"table:event_logs,alias:e"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	Level     string    `bun:"level,notnull" json:"level"`
	Category  string    `bun:"category,notnull" json:"category"`
	Message   string    `bun:"message,notnull" json:"message"`
	Metadata  string    `bun:"metadata,notnull" json:"metadata"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}
