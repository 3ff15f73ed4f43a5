// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package geoip resolves visitor IPs to ISO country codes using a MaxMind
// GeoLite2-Country database. Without a database every public address
// resolves to "" and the rest of analytics keeps working.
package geoip

import (
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/oschwald/maxminddb-golang"
)

// Local is reported for private and loopback addresses.
const Local = "LOCAL"

var privateCIDRs = mustParseCIDRs(
	"10.0.0.0/8",
	"172.16.0.0/12",
	"192.168.0.0/16",
	"100.64.0.0/10", // carrier-grade NAT
	"fc00::/7",      // IPv6 unique local
	"fe80::/10",     // IPv6 link-local
)

func mustParseCIDRs(blocks ...string) []*net.IPNet {
	nets := make([]*net.IPNet, 0, len(blocks))
	for _, block := range blocks {
		_, cidr, err := net.ParseCIDR(block)
		if err != nil {
			panic(err)
		}
		nets = append(nets, cidr)
	}
	return nets
}

// Lookup is safe for concurrent use.
type Lookup struct {
	mu        sync.RWMutex
	db        *maxminddb.Reader
	dbPath    string
	dbModTime time.Time
}

type countryRecord struct {
	Country struct {
		ISOCode string `maxminddb:"iso_code"`
	} `maxminddb:"country"`
}

// NewLookup creates a disabled lookup. Call Open to load a database.
func NewLookup() *Lookup {
	return &Lookup{}
}

// Open loads the database at path. An empty path leaves lookups disabled.
func (g *Lookup) Open(path string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.dbPath = path
	if path == "" {
		return nil
	}
	return g.load()
}

// Reload reopens the database when the file changed on disk.
func (g *Lookup) Reload() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.dbPath == "" {
		return nil
	}
	return g.load()
}

// load must be called with g.mu held.
func (g *Lookup) load() error {
	info, err := os.Stat(g.dbPath)
	if err != nil {
		return fmt.Errorf("stat geoip database %s: %w", g.dbPath, err)
	}
	if g.db != nil && info.ModTime().Equal(g.dbModTime) {
		return nil
	}

	db, err := maxminddb.Open(g.dbPath)
	if err != nil {
		return fmt.Errorf("open geoip database: %w", err)
	}
	if g.db != nil {
		_ = g.db.Close()
	}
	g.db = db
	g.dbModTime = info.ModTime()
	return nil
}

// Country returns the ISO 3166 alpha-2 code for ip, Local for private
// addresses, and "" when the address is invalid or unknown.
func (g *Lookup) Country(ip string) string {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return ""
	}
	if parsed.IsLoopback() || isPrivate(parsed) {
		return Local
	}

	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.db == nil {
		return ""
	}

	var rec countryRecord
	if err := g.db.Lookup(parsed, &rec); err != nil {
		return ""
	}
	return rec.Country.ISOCode
}

// Enabled reports whether a database is loaded.
func (g *Lookup) Enabled() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.db != nil
}

// Close releases the database.
func (g *Lookup) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.db == nil {
		return nil
	}
	err := g.db.Close()
	g.db = nil
	return err
}

func isPrivate(ip net.IP) bool {
	for _, cidr := range privateCIDRs {
		if cidr.Contains(ip) {
			return true
		}
	}
	return false
}

// countryNames covers the site's main export markets.
var countryNames = map[string]string{
	Local: "Local Network",
	"TR":  "Turkey",
	"DE":  "Germany",
	"FR":  "France",
	"GB":  "United Kingdom",
	"US":  "United States",
	"NL":  "Netherlands",
	"IT":  "Italy",
	"ES":  "Spain",
	"AZ":  "Azerbaijan",
	"IQ":  "Iraq",
	"SA":  "Saudi Arabia",
	"AE":  "United Arab Emirates",
	"EG":  "Egypt",
	"DZ":  "Algeria",
	"MA":  "Morocco",
	"BG":  "Bulgaria",
	"RO":  "Romania",
	"GR":  "Greece",
	"RU":  "Russia",
}

// CountryName returns a display name for a country code.
func CountryName(code string) string {
	if name, ok := countryNames[code]; ok {
		return name
	}
	if code == "" {
		return "Unknown"
	}
	return code
}
