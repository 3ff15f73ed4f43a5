// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package resolver

import (
	"strings"

	"github.com/muratkanik/rotabiletiket/internal/locale"
)

// Section is the first path segment of a public route.
type Section string

// Public sections.
const (
	SectionHome       Section = ""
	SectionProducts   Section = "products"
	SectionCategories Section = "categories"
	SectionSectors    Section = "sectors"
	SectionArticles   Section = "blog"
	SectionPages      Section = "pages"
)

// CanonicalSlug picks the slug to link to in code: the base slug in the
// default locale, the translation slug elsewhere, the base slug when the
// translation has none.
func CanonicalSlug(baseSlug, translationSlug string, code locale.Code) string {
	if code == locale.Default {
		return baseSlug
	}
	if s := strings.TrimSpace(translationSlug); s != "" {
		return s
	}
	return baseSlug
}

// Path builds the public path of a record. The default locale is unprefixed.
func Path(section Section, code locale.Code, slug string) string {
	var sb strings.Builder
	if code != locale.Default && code != "" {
		sb.WriteString("/")
		sb.WriteString(string(code))
	}
	if section != SectionHome {
		sb.WriteString("/")
		sb.WriteString(string(section))
		if slug != "" {
			sb.WriteString("/")
			sb.WriteString(slug)
		}
	}
	if sb.Len() == 0 {
		return "/"
	}
	return sb.String()
}

// ViewPath builds the public path of a resolved view.
func ViewPath[E any](section Section, v View[E]) string {
	return Path(section, v.Locale, v.Slug)
}

// SplitLocalePath separates a leading supported locale prefix from path.
// Paths without a prefix belong to the default locale. The boolean reports
// whether a prefix was present.
func SplitLocalePath(path string) (locale.Code, string, bool) {
	trimmed := strings.TrimPrefix(path, "/")
	first, rest, _ := strings.Cut(trimmed, "/")
	if code, ok := locale.Parse(first); ok && first == string(code) {
		return code, "/" + rest, true
	}
	return locale.Default, "/" + trimmed, false
}
