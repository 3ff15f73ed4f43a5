// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"strings"
	"testing"
)

func TestRobotsBuilder(t *testing.T) {
	tests := []struct {
		name     string
		config   RobotsConfig
		contains []string
		excludes []string
	}{
		{
			name:   "default",
			config: RobotsConfig{SiteURL: "https://example.com/"},
			contains: []string{
				"User-agent: *\n",
				"Disallow: /api/v1/admin\n",
				"Disallow: /api/v1/visits\n",
				"Allow: /\n",
				"Sitemap: https://example.com/sitemap.xml\n",
			},
		},
		{
			name:     "extra paths",
			config:   RobotsConfig{DisallowPaths: []string{"/search"}},
			contains: []string{"Disallow: /search\n"},
			excludes: []string{"Sitemap:"},
		},
		{
			name:     "disallow all",
			config:   RobotsConfig{SiteURL: "https://staging.example.com", DisallowAll: true},
			contains: []string{"Disallow: /\n"},
			excludes: []string{"Allow: /", "Sitemap:", "/api/v1/admin"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewRobotsBuilder(tt.config).Build()
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("robots.txt missing %q\n%s", want, got)
				}
			}
			for _, bad := range tt.excludes {
				if strings.Contains(got, bad) {
					t.Errorf("robots.txt should not contain %q\n%s", bad, got)
				}
			}
		})
	}
}

func TestRobotsBuilderDoesNotMutateDefaults(t *testing.T) {
	_ = NewRobotsBuilder(RobotsConfig{DisallowPaths: []string{"/a"}}).Build()
	got := NewRobotsBuilder(RobotsConfig{DisallowPaths: []string{"/b"}}).Build()
	if strings.Contains(got, "Disallow: /a\n") {
		t.Errorf("paths leaked between builders:\n%s", got)
	}
}
