// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple title", "Hello World", "hello-world"},
		{"with special characters", "Hello, World!", "hello-world"},
		{"with numbers", "Page 123", "page-123"},
		{"with accents", "Café résumé", "cafe-resume"},
		{"turkish letters", "Şeffaf Etiket Çeşitleri", "seffaf-etiket-cesitleri"},
		{"turkish dotless i", "Işıklı Ürünler", "isikli-urunler"},
		{"turkish dotted capital", "İstanbul Gıda", "istanbul-gida"},
		{"german eszett", "Größe", "grosse"},
		{"underscores and slashes", "wax_resin/ribon", "wax-resin-ribon"},
		{"with multiple spaces", "Hello   World", "hello-world"},
		{"with hyphens", "Hello - World", "hello-world"},
		{"with leading/trailing spaces", "  Hello World  ", "hello-world"},
		{"all special characters", "!@#$%^&*()", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.expected {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSlugify_NonLatinProducesValidSlug(t *testing.T) {
	got := Slugify("ملصقات حرارية")
	if got == "" || !IsValidSlug(got) {
		t.Errorf("Slugify(arabic) = %q, want a non-empty valid slug", got)
	}
}

func TestSlugify_Length(t *testing.T) {
	got := Slugify(strings.Repeat("etiket ", 40))
	if len(got) > MaxSlugLength {
		t.Errorf("len = %d, want <= %d", len(got), MaxSlugLength)
	}
	if !IsValidSlug(got) {
		t.Errorf("truncated slug %q is not valid", got)
	}
}

func TestIsValidSlug(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"etiketler", true},
		{"termal-etiket-100x150", true},
		{"", false},
		{"Etiketler", false},
		{"-start", false},
		{"end-", false},
		{"double--hyphen", false},
		{"şeffaf", false},
		{"with space", false},
	}

	for _, tt := range tests {
		if got := IsValidSlug(tt.input); got != tt.want {
			t.Errorf("IsValidSlug(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
