// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/muratkanik/rotabiletiket/internal/locale"
	"github.com/muratkanik/rotabiletiket/internal/model"
)

//go:embed seed/content.yaml
var defaultSeed []byte

// DefaultSeed returns the built-in fixture document.
func DefaultSeed() []byte {
	return defaultSeed
}

// texts holds the translated content fields of one locale, keyed by column name.
type texts map[string]string

func (t texts) get(key string) *string {
	v, ok := t[key]
	if !ok {
		return nil
	}
	return &v
}

type translations map[locale.Code]texts

type seedCategory struct {
	Slug           string       `yaml:"slug"`
	Parent         string       `yaml:"parent"`
	Title          string       `yaml:"title"`
	Description    string       `yaml:"description"`
	SEOTitle       string       `yaml:"seo_title"`
	SEODescription string       `yaml:"seo_description"`
	ImageURL       string       `yaml:"image_url"`
	Position       int          `yaml:"position"`
	Translations   translations `yaml:"translations"`
}

type seedProduct struct {
	Slug           string            `yaml:"slug"`
	Category       string            `yaml:"category"`
	Title          string            `yaml:"title"`
	Summary        string            `yaml:"summary"`
	Description    string            `yaml:"description"`
	ContentHTML    string            `yaml:"content_html"`
	SEOTitle       string            `yaml:"seo_title"`
	SEODescription string            `yaml:"seo_description"`
	Keywords       string            `yaml:"keywords"`
	ImageURL       string            `yaml:"image_url"`
	Specs          map[string]string `yaml:"specs"`
	Featured       bool              `yaml:"featured"`
	Position       int               `yaml:"position"`
	Images         []struct {
		URL string `yaml:"url"`
		Alt string `yaml:"alt"`
	} `yaml:"images"`
	Translations translations `yaml:"translations"`
}

type seedSector struct {
	Slug         string       `yaml:"slug"`
	Title        string       `yaml:"title"`
	Summary      string       `yaml:"summary"`
	ContentHTML  string       `yaml:"content_html"`
	ImageURL     string       `yaml:"image_url"`
	Icon         string       `yaml:"icon"`
	Position     int          `yaml:"position"`
	Translations translations `yaml:"translations"`
}

type seedArticle struct {
	Slug          string       `yaml:"slug"`
	Title         string       `yaml:"title"`
	Summary       string       `yaml:"summary"`
	ContentHTML   string       `yaml:"content_html"`
	Keywords      string       `yaml:"keywords"`
	CoverImageURL string       `yaml:"cover_image_url"`
	PublishedAt   time.Time    `yaml:"published_at"`
	Translations  translations `yaml:"translations"`
}

type seedSlide struct {
	Title        string       `yaml:"title"`
	Subtitle     string       `yaml:"subtitle"`
	ButtonText   string       `yaml:"button_text"`
	ImageURL     string       `yaml:"image_url"`
	LinkURL      string       `yaml:"link_url"`
	Position     int          `yaml:"position"`
	Translations translations `yaml:"translations"`
}

type seedPage struct {
	Slug         string       `yaml:"slug"`
	Title        string       `yaml:"title"`
	ContentMD    string       `yaml:"content_md"`
	Translations translations `yaml:"translations"`
}

// SeedData is the fixture document loaded by Seed.
type SeedData struct {
	Categories []seedCategory `yaml:"categories"`
	Products   []seedProduct  `yaml:"products"`
	Sectors    []seedSector   `yaml:"sectors"`
	Articles   []seedArticle  `yaml:"articles"`
	HeroSlides []seedSlide    `yaml:"hero_slides"`
	Pages      []seedPage     `yaml:"pages"`
}

// ParseSeed decodes a YAML fixture document and checks its locale keys.
func ParseSeed(data []byte) (*SeedData, error) {
	var sd SeedData
	if err := yaml.Unmarshal(data, &sd); err != nil {
		return nil, fmt.Errorf("parsing seed: %w", err)
	}
	check := func(what string, trs translations) error {
		for code := range trs {
			if !locale.IsSupported(code) || code == locale.Default {
				return fmt.Errorf("seed %s: unsupported translation locale %q", what, code)
			}
		}
		return nil
	}
	for _, c := range sd.Categories {
		if err := check(c.Slug, c.Translations); err != nil {
			return nil, err
		}
	}
	for _, p := range sd.Products {
		if err := check(p.Slug, p.Translations); err != nil {
			return nil, err
		}
	}
	for _, s := range sd.Sectors {
		if err := check(s.Slug, s.Translations); err != nil {
			return nil, err
		}
	}
	for _, a := range sd.Articles {
		if err := check(a.Slug, a.Translations); err != nil {
			return nil, err
		}
	}
	for _, h := range sd.HeroSlides {
		if err := check(h.Title, h.Translations); err != nil {
			return nil, err
		}
	}
	for _, p := range sd.Pages {
		if err := check(p.Slug, p.Translations); err != nil {
			return nil, err
		}
	}
	return &sd, nil
}

// Seed loads fixture content into an empty database. It does nothing when
// any category already exists.
func Seed(ctx context.Context, st *Store, data []byte) error {
	n, err := st.Categories.Count(ctx, false)
	if err != nil {
		return fmt.Errorf("checking for content: %w", err)
	}
	if n > 0 {
		slog.Info("content already exists, skipping seed")
		return nil
	}

	sd, err := ParseSeed(data)
	if err != nil {
		return err
	}

	categoryIDs := make(map[string]int64, len(sd.Categories))
	for _, sc := range sd.Categories {
		c := model.Category{
			Slug:           sc.Slug,
			Title:          sc.Title,
			Description:    sc.Description,
			SEOTitle:       sc.SEOTitle,
			SEODescription: sc.SEODescription,
			ImageURL:       sc.ImageURL,
			Position:       sc.Position,
			IsActive:       true,
		}
		if sc.Parent != "" {
			id, ok := categoryIDs[sc.Parent]
			if !ok {
				return fmt.Errorf("seed category %s: parent %q must be listed first", sc.Slug, sc.Parent)
			}
			c.ParentID = &id
		}
		if err := st.Categories.Create(ctx, &c); err != nil {
			return fmt.Errorf("seeding category %s: %w", sc.Slug, err)
		}
		categoryIDs[sc.Slug] = c.ID
		for code, tx := range sc.Translations {
			tr := model.CategoryTranslation{
				Title:          tx.get("title"),
				Description:    tx.get("description"),
				SEOTitle:       tx.get("seo_title"),
				SEODescription: tx.get("seo_description"),
			}
			tr.SetSlug(strings.TrimSpace(tx["slug"]))
			if err := st.Categories.UpsertTranslation(ctx, c.ID, code, &tr); err != nil {
				return fmt.Errorf("seeding category %s/%s: %w", sc.Slug, code, err)
			}
		}
	}

	for _, sp := range sd.Products {
		p := model.Product{
			Slug:           sp.Slug,
			Title:          sp.Title,
			Summary:        sp.Summary,
			Description:    sp.Description,
			ContentHTML:    sp.ContentHTML,
			SEOTitle:       sp.SEOTitle,
			SEODescription: sp.SEODescription,
			Keywords:       sp.Keywords,
			ImageURL:       sp.ImageURL,
			Specs:          sp.Specs,
			IsActive:       true,
			IsFeatured:     sp.Featured,
			Position:       sp.Position,
		}
		if sp.Category != "" {
			id, ok := categoryIDs[sp.Category]
			if !ok {
				return fmt.Errorf("seed product %s: unknown category %q", sp.Slug, sp.Category)
			}
			p.CategoryID = &id
		}
		if err := st.Products.Create(ctx, &p); err != nil {
			return fmt.Errorf("seeding product %s: %w", sp.Slug, err)
		}
		for i, img := range sp.Images {
			pi := model.ProductImage{ProductID: p.ID, URL: img.URL, AltText: img.Alt, Position: i}
			if err := st.AddProductImage(ctx, &pi); err != nil {
				return fmt.Errorf("seeding product %s image: %w", sp.Slug, err)
			}
		}
		for code, tx := range sp.Translations {
			tr := model.ProductTranslation{
				Title:          tx.get("title"),
				Summary:        tx.get("summary"),
				Description:    tx.get("description"),
				ContentHTML:    tx.get("content_html"),
				SEOTitle:       tx.get("seo_title"),
				SEODescription: tx.get("seo_description"),
				Keywords:       tx.get("keywords"),
			}
			tr.SetSlug(strings.TrimSpace(tx["slug"]))
			if err := st.Products.UpsertTranslation(ctx, p.ID, code, &tr); err != nil {
				return fmt.Errorf("seeding product %s/%s: %w", sp.Slug, code, err)
			}
		}
	}

	for _, ss := range sd.Sectors {
		s := model.Sector{
			Slug:        ss.Slug,
			Title:       ss.Title,
			Summary:     ss.Summary,
			ContentHTML: ss.ContentHTML,
			ImageURL:    ss.ImageURL,
			Icon:        ss.Icon,
			Position:    ss.Position,
			IsActive:    true,
		}
		if err := st.Sectors.Create(ctx, &s); err != nil {
			return fmt.Errorf("seeding sector %s: %w", ss.Slug, err)
		}
		for code, tx := range ss.Translations {
			tr := model.SectorTranslation{
				Title:       tx.get("title"),
				Summary:     tx.get("summary"),
				ContentHTML: tx.get("content_html"),
			}
			tr.SetSlug(strings.TrimSpace(tx["slug"]))
			if err := st.Sectors.UpsertTranslation(ctx, s.ID, code, &tr); err != nil {
				return fmt.Errorf("seeding sector %s/%s: %w", ss.Slug, code, err)
			}
		}
	}

	for _, sa := range sd.Articles {
		a := model.Article{
			Slug:          sa.Slug,
			Title:         sa.Title,
			Summary:       sa.Summary,
			ContentHTML:   sa.ContentHTML,
			Keywords:      sa.Keywords,
			CoverImageURL: sa.CoverImageURL,
		}
		a.Publish(sa.PublishedAt.UTC())
		if err := st.Articles.Create(ctx, &a); err != nil {
			return fmt.Errorf("seeding article %s: %w", sa.Slug, err)
		}
		for code, tx := range sa.Translations {
			tr := model.ArticleTranslation{
				Title:       tx.get("title"),
				Summary:     tx.get("summary"),
				ContentHTML: tx.get("content_html"),
				Keywords:    tx.get("keywords"),
			}
			tr.SetSlug(strings.TrimSpace(tx["slug"]))
			if err := st.Articles.UpsertTranslation(ctx, a.ID, code, &tr); err != nil {
				return fmt.Errorf("seeding article %s/%s: %w", sa.Slug, code, err)
			}
		}
	}

	for _, sh := range sd.HeroSlides {
		h := model.HeroSlide{
			Title:      sh.Title,
			Subtitle:   sh.Subtitle,
			ButtonText: sh.ButtonText,
			ImageURL:   sh.ImageURL,
			LinkURL:    sh.LinkURL,
			Position:   sh.Position,
			IsActive:   true,
		}
		if err := st.HeroSlides.Create(ctx, &h); err != nil {
			return fmt.Errorf("seeding hero slide %q: %w", sh.Title, err)
		}
		for code, tx := range sh.Translations {
			tr := model.HeroSlideTranslation{
				Title:      tx.get("title"),
				Subtitle:   tx.get("subtitle"),
				ButtonText: tx.get("button_text"),
			}
			if err := st.HeroSlides.UpsertTranslation(ctx, h.ID, code, &tr); err != nil {
				return fmt.Errorf("seeding hero slide %q/%s: %w", sh.Title, code, err)
			}
		}
	}

	for _, spg := range sd.Pages {
		pg := model.Page{
			Slug:      spg.Slug,
			Title:     spg.Title,
			ContentMD: spg.ContentMD,
			IsActive:  true,
		}
		if err := st.Pages.Create(ctx, &pg); err != nil {
			return fmt.Errorf("seeding page %s: %w", spg.Slug, err)
		}
		for code, tx := range spg.Translations {
			tr := model.PageTranslation{
				Title:     tx.get("title"),
				ContentMD: tx.get("content_md"),
			}
			tr.SetSlug(strings.TrimSpace(tx["slug"]))
			if err := st.Pages.UpsertTranslation(ctx, pg.ID, code, &tr); err != nil {
				return fmt.Errorf("seeding page %s/%s: %w", spg.Slug, code, err)
			}
		}
	}

	slog.Info("seeded content",
		"categories", len(sd.Categories),
		"products", len(sd.Products),
		"sectors", len(sd.Sectors),
		"articles", len(sd.Articles),
		"hero_slides", len(sd.HeroSlides),
		"pages", len(sd.Pages),
	)
	return nil
}
