// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/muratkanik/rotabiletiket/internal/locale"
	"github.com/muratkanik/rotabiletiket/internal/model"
	"github.com/muratkanik/rotabiletiket/internal/resolver"
	"github.com/muratkanik/rotabiletiket/internal/service"
)

// descriptionLimit is the longest description emitted before truncation.
const descriptionLimit = 160

// Meta holds the head tags of one localized page.
type Meta struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Keywords    string          `json:"keywords,omitempty"`
	Canonical   string          `json:"canonical"`
	Lang        locale.Code     `json:"lang"`
	Dir         string          `json:"dir"`
	OGType      string          `json:"og_type"`
	OGImage     string          `json:"og_image,omitempty"`
	OGSiteName  string          `json:"og_site_name"`
	Alternates  []AlternateLink `json:"alternates,omitempty"`
	JSONLD      json.RawMessage `json:"json_ld,omitempty"`
}

// PageData is the record-independent input of BuildMeta.
type PageData struct {
	Title          string
	SEOTitle       string
	Summary        string
	SEODescription string
	Keywords       string
	Image          string
	Path           string
	Locale         locale.Code
	OGType         string
	Alternates     []service.Alternate
}

// SiteConfig contains site-wide settings for SEO.
type SiteConfig struct {
	SiteName        string
	SiteURL         string
	SiteDescription string
	DefaultOGImage  string
}

// BuildMeta creates the meta tags of a page. The title falls back from the
// SEO title to the title, the description from the SEO description to the
// summary and then to the site description.
func BuildMeta(page PageData, site SiteConfig) *Meta {
	meta := &Meta{
		Title:      firstNonBlank(page.SEOTitle, page.Title, site.SiteName),
		Keywords:   strings.TrimSpace(page.Keywords),
		Canonical:  site.SiteURL + page.Path,
		Lang:       page.Locale,
		Dir:        page.Locale.Direction(),
		OGType:     page.OGType,
		OGSiteName: site.SiteName,
	}
	if meta.OGType == "" {
		meta.OGType = "website"
	}

	desc := firstNonBlank(page.SEODescription, page.Summary)
	if desc == "" {
		desc = site.SiteDescription
	}
	meta.Description = truncateText(stripHTML(desc), descriptionLimit)

	if img := firstNonBlank(page.Image, site.DefaultOGImage); img != "" {
		meta.OGImage = makeAbsoluteURL(img, site.SiteURL)
	}

	for _, a := range page.Alternates {
		meta.Alternates = append(meta.Alternates, AlternateLink{Rel: "alternate", Hreflang: string(a.Locale), Href: site.SiteURL + a.Path})
		if a.Locale == locale.Default {
			meta.Alternates = append(meta.Alternates, AlternateLink{Rel: "alternate", Hreflang: XDefault, Href: site.SiteURL + a.Path})
		}
	}

	return meta
}

// ProductMeta builds meta tags and Product structured data for a product.
func ProductMeta(p *service.ProductDetail, site SiteConfig) *Meta {
	r := p.Record
	meta := BuildMeta(PageData{
		Title:          r.Title,
		SEOTitle:       r.SEOTitle,
		Summary:        r.Summary,
		SEODescription: r.SEODescription,
		Keywords:       r.Keywords,
		Image:          r.ImageURL,
		Path:           p.Path,
		Locale:         p.Locale,
		OGType:         "product",
		Alternates:     p.Alternates,
	}, site)

	schema := ProductSchema{
		Context:     schemaContext,
		Type:        "Product",
		Name:        r.Title,
		Description: meta.Description,
		URL:         meta.Canonical,
		Brand:       &OrgSchema{Type: "Brand", Name: site.SiteName},
	}
	if meta.OGImage != "" {
		schema.Image = []string{meta.OGImage}
	}
	for _, img := range p.Images {
		schema.Image = append(schema.Image, makeAbsoluteURL(img.URL, site.SiteURL))
	}
	if p.Category != nil {
		schema.Category = p.Category.Record.Title
	}
	meta.JSONLD = marshalJSONLD(schema)
	return meta
}

// CategoryMeta builds meta tags and BreadcrumbList structured data for a category.
func CategoryMeta(c *service.CategoryDetail, site SiteConfig) *Meta {
	r := c.Record
	meta := BuildMeta(PageData{
		Title:          r.Title,
		SEOTitle:       r.SEOTitle,
		Summary:        r.Description,
		SEODescription: r.SEODescription,
		Image:          r.ImageURL,
		Path:           c.Path,
		Locale:         c.Locale,
		Alternates:     c.Alternates,
	}, site)

	crumbs := BreadcrumbSchema{Context: schemaContext, Type: "BreadcrumbList"}
	crumbs.add("", site.SiteURL+resolver.Path(resolver.SectionHome, c.Locale, ""), site.SiteName)
	for _, b := range c.Breadcrumbs {
		crumbs.add(b.Record.Title, site.SiteURL+b.Path, "")
	}
	crumbs.add(r.Title, meta.Canonical, "")
	meta.JSONLD = marshalJSONLD(crumbs)
	return meta
}

// SectorMeta builds meta tags for a sector page.
func SectorMeta(s *service.Detail[model.Sector], site SiteConfig) *Meta {
	r := s.Record
	return BuildMeta(PageData{
		Title:          r.Title,
		SEOTitle:       r.SEOTitle,
		Summary:        r.Summary,
		SEODescription: r.SEODescription,
		Image:          r.ImageURL,
		Path:           s.Path,
		Locale:         s.Locale,
		Alternates:     s.Alternates,
	}, site)
}

// ArticleMeta builds meta tags and Article structured data for a blog post.
func ArticleMeta(a *service.Detail[model.Article], site SiteConfig) *Meta {
	r := a.Record
	meta := BuildMeta(PageData{
		Title:          r.Title,
		SEOTitle:       r.SEOTitle,
		Summary:        r.Summary,
		SEODescription: r.SEODescription,
		Keywords:       r.Keywords,
		Image:          r.CoverImageURL,
		Path:           a.Path,
		Locale:         a.Locale,
		OGType:         "article",
		Alternates:     a.Alternates,
	}, site)

	article := ArticleSchema{
		Context:          schemaContext,
		Type:             "Article",
		Headline:         r.Title,
		Description:      meta.Description,
		Image:            meta.OGImage,
		InLanguage:       string(a.Locale),
		MainEntityOfPage: meta.Canonical,
		Publisher:        &OrgSchema{Type: "Organization", Name: site.SiteName},
	}
	if r.PublishedAt != nil {
		article.DatePublished = r.PublishedAt.UTC().Format(time.RFC3339)
	}
	if !r.UpdatedAt.IsZero() {
		article.DateModified = r.UpdatedAt.UTC().Format(time.RFC3339)
	}
	meta.JSONLD = marshalJSONLD(article)
	return meta
}

// PageMeta builds meta tags for a static page. The summary falls back to the
// rendered body.
func PageMeta(p *service.PageDetail, site SiteConfig) *Meta {
	r := p.Record
	return BuildMeta(PageData{
		Title:          r.Title,
		SEOTitle:       r.SEOTitle,
		Summary:        p.HTML,
		SEODescription: r.SEODescription,
		Path:           p.Path,
		Locale:         p.Locale,
		Alternates:     p.Alternates,
	}, site)
}

// HomeMeta builds meta tags and WebSite structured data for the homepage.
func HomeMeta(code locale.Code, site SiteConfig) *Meta {
	alts := make([]service.Alternate, 0, len(locale.Codes()))
	for _, c := range locale.Codes() {
		alts = append(alts, service.Alternate{Locale: c, Path: resolver.Path(resolver.SectionHome, c, "")})
	}
	meta := BuildMeta(PageData{
		Path:       resolver.Path(resolver.SectionHome, code, ""),
		Locale:     code,
		Alternates: alts,
	}, site)
	meta.JSONLD = marshalJSONLD(WebSiteSchema{
		Context:    schemaContext,
		Type:       "WebSite",
		Name:       site.SiteName,
		URL:        site.SiteURL,
		InLanguage: string(code),
	})
	return meta
}

const schemaContext = "https://schema.org"

// ArticleSchema represents JSON-LD Article structured data.
type ArticleSchema struct {
	Context          string     `json:"@context"`
	Type             string     `json:"@type"`
	Headline         string     `json:"headline"`
	Description      string     `json:"description,omitempty"`
	Image            string     `json:"image,omitempty"`
	InLanguage       string     `json:"inLanguage,omitempty"`
	DatePublished    string     `json:"datePublished,omitempty"`
	DateModified     string     `json:"dateModified,omitempty"`
	Publisher        *OrgSchema `json:"publisher,omitempty"`
	MainEntityOfPage string     `json:"mainEntityOfPage,omitempty"`
}

// ProductSchema represents JSON-LD Product structured data.
type ProductSchema struct {
	Context     string     `json:"@context"`
	Type        string     `json:"@type"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Image       []string   `json:"image,omitempty"`
	URL         string     `json:"url"`
	Category    string     `json:"category,omitempty"`
	Brand       *OrgSchema `json:"brand,omitempty"`
}

// OrgSchema represents JSON-LD Organization or Brand structured data.
type OrgSchema struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

// BreadcrumbSchema represents JSON-LD BreadcrumbList structured data.
type BreadcrumbSchema struct {
	Context  string           `json:"@context"`
	Type     string           `json:"@type"`
	ItemList []BreadcrumbItem `json:"itemListElement"`
}

func (b *BreadcrumbSchema) add(name, url, fallback string) {
	if name == "" {
		name = fallback
	}
	b.ItemList = append(b.ItemList, BreadcrumbItem{
		Type:     "ListItem",
		Position: len(b.ItemList) + 1,
		Name:     name,
		Item:     url,
	})
}

// BreadcrumbItem represents a single breadcrumb item.
type BreadcrumbItem struct {
	Type     string `json:"@type"`
	Position int    `json:"position"`
	Name     string `json:"name"`
	Item     string `json:"item,omitempty"`
}

// WebSiteSchema represents JSON-LD WebSite structured data for homepage.
type WebSiteSchema struct {
	Context    string `json:"@context"`
	Type       string `json:"@type"`
	Name       string `json:"name"`
	URL        string `json:"url"`
	InLanguage string `json:"inLanguage,omitempty"`
}

func marshalJSONLD(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return data
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

// stripHTML removes HTML tags from a string.
func stripHTML(html string) string {
	var result strings.Builder
	inTag := false
	for _, r := range html {
		if r == '<' {
			inTag = true
			continue
		}
		if r == '>' {
			inTag = false
			result.WriteRune(' ')
			continue
		}
		if !inTag {
			result.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(result.String()), " ")
}

// truncateText truncates text to maxLen runes at a word boundary.
func truncateText(text string, maxLen int) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}

	truncated := string(runes[:maxLen])
	if lastSpace := strings.LastIndex(truncated, " "); lastSpace > len(truncated)/2 {
		truncated = truncated[:lastSpace]
	}

	return strings.TrimSpace(truncated) + "..."
}

// makeAbsoluteURL ensures a URL is absolute by prepending site URL if needed.
func makeAbsoluteURL(url, siteURL string) string {
	if url == "" {
		return ""
	}
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return url
	}
	siteURL = strings.TrimSuffix(siteURL, "/")
	if !strings.HasPrefix(url, "/") {
		url = "/" + url
	}
	return siteURL + url
}
