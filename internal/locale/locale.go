// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package locale defines the closed set of content locales served by the site
// and helpers for parsing and matching them.
package locale

import (
	"strings"

	"golang.org/x/text/language"
)

// Code is a two-letter content locale code.
type Code string

// Supported locales.
const (
	TR Code = "tr"
	EN Code = "en"
	DE Code = "de"
	FR Code = "fr"
	AR Code = "ar"
)

// Default is the locale whose content lives directly on base records.
const Default = TR

// Text directions
const (
	DirectionLTR = "ltr"
	DirectionRTL = "rtl"
)

// Info describes a supported locale for language switchers and hreflang output.
type Info struct {
	Code       Code   `json:"code"`
	Name       string `json:"name"`
	NativeName string `json:"native_name"`
	Direction  string `json:"direction"`
}

// all is ordered the way the language switcher shows locales.
var all = []Info{
	{TR, "Turkish", "Türkçe", DirectionLTR},
	{EN, "English", "English", DirectionLTR},
	{DE, "German", "Deutsch", DirectionLTR},
	{FR, "French", "Français", DirectionLTR},
	{AR, "Arabic", "العربية", DirectionRTL},
}

var matcher = newMatcher()

func newMatcher() language.Matcher {
	tags := make([]language.Tag, 0, len(all))
	for _, l := range all {
		tags = append(tags, language.MustParse(string(l.Code)))
	}
	return language.NewMatcher(tags)
}

// All returns every supported locale, default first.
func All() []Info {
	out := make([]Info, len(all))
	copy(out, all)
	return out
}

// Codes returns the codes of every supported locale, default first.
func Codes() []Code {
	codes := make([]Code, 0, len(all))
	for _, l := range all {
		codes = append(codes, l.Code)
	}
	return codes
}

// IsSupported reports whether code is one of the supported locales.
func IsSupported(code Code) bool {
	_, ok := Lookup(code)
	return ok
}

// Lookup returns the locale info for code.
func Lookup(code Code) (Info, bool) {
	for _, l := range all {
		if l.Code == code {
			return l, true
		}
	}
	return Info{}, false
}

// Normalize lowercases and trims a raw locale string without validating it.
// Unknown codes are kept as-is so callers can still fall back to default content.
func Normalize(raw string) Code {
	return Code(strings.ToLower(strings.TrimSpace(raw)))
}

// Parse normalizes raw and reports whether it is a supported locale.
func Parse(raw string) (Code, bool) {
	code := Normalize(raw)
	return code, IsSupported(code)
}

// IsDefault reports whether code is the default locale.
func (c Code) IsDefault() bool {
	return c == Default
}

// Direction returns the text direction for c; unknown codes are left-to-right.
func (c Code) Direction() string {
	if info, ok := Lookup(c); ok {
		return info.Direction
	}
	return DirectionLTR
}

// String implements fmt.Stringer.
func (c Code) String() string {
	return string(c)
}

// MatchAcceptLanguage picks the best supported locale for an Accept-Language
// header, returning the default locale when nothing matches.
func MatchAcceptLanguage(header string) Code {
	if strings.TrimSpace(header) == "" {
		return Default
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return Default
	}
	_, idx, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return Default
	}
	return all[idx].Code
}
