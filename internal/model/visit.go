// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"time"

	"github.com/uptrace/bun"
)

// Device types
const (
	DeviceDesktop = "desktop"
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceUnknown = "unknown"
)

// Visit is one recorded public page view. No raw IP address is stored.
type Visit struct {
	bun.BaseModel `bun:"table:visits,alias:v"`

	ID          int64     `bun:"id,pk,autoincrement" json:"id"`
	VisitorHash string    `bun:"visitor_hash,notnull" json:"visitor_hash"`
	Path        string    `bun:"path,notnull" json:"path"`
	Locale      string    `bun:"locale,notnull" json:"locale"`
	Referrer    string    `bun:"referrer,notnull" json:"referrer"`
	Browser     string    `bun:"browser,notnull" json:"browser"`
	OS          string    `bun:"os,notnull" json:"os"`
	DeviceType  string    `bun:"device_type,notnull" json:"device_type"`
	CountryCode string    `bun:"country_code,notnull" json:"country_code"`
	Language    string    `bun:"language,notnull" json:"language"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

// Count is a labelled aggregate row.
type Count struct {
	Label string `bun:"label" json:"label"`
	Count int64  `bun:"count" json:"count"`
}
