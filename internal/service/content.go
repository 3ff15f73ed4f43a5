// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service composes resolvers into the read models served by the
// public API: detail pages with their links in every locale, listings,
// the category tree and the homepage.
package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/muratkanik/rotabiletiket/internal/cache"
	"github.com/muratkanik/rotabiletiket/internal/locale"
	"github.com/muratkanik/rotabiletiket/internal/model"
	"github.com/muratkanik/rotabiletiket/internal/resolver"
	"github.com/muratkanik/rotabiletiket/internal/store"
)

// CacheNamespace holds every cached read model. Content writes drop it whole.
const CacheNamespace cache.Namespace = "content"

// maxCategoryDepth bounds breadcrumb walks over parent_id.
const maxCategoryDepth = 16

// Home page listing sizes.
const (
	homeFeaturedLimit = 8
	homeArticleLimit  = 3
)

// Item is a resolved record with its public path.
type Item[E any] struct {
	resolver.View[E]
	Path string `json:"path"`
}

// Alternate is the path of a record in one locale.
type Alternate struct {
	Locale locale.Code `json:"locale"`
	Path   string      `json:"path"`
}

// Detail is a resolved record with its paths in every supported locale.
type Detail[E any] struct {
	Item[E]
	Alternates []Alternate `json:"alternates"`
}

// ProductDetail adds the product's gallery and category.
type ProductDetail struct {
	Detail[model.Product]
	Images   []model.ProductImage  `json:"images"`
	Category *Item[model.Category] `json:"category,omitempty"`
}

// CategoryDetail adds the category's position in the tree and its products.
type CategoryDetail struct {
	Detail[model.Category]
	// Breadcrumbs runs from the root down to the category's parent.
	Breadcrumbs []Item[model.Category] `json:"breadcrumbs"`
	Children    []Item[model.Category] `json:"children"`
	Products    []Item[model.Product]  `json:"products"`
}

// PageDetail adds the rendered page body.
type PageDetail struct {
	Detail[model.Page]
	HTML string `json:"html"`
}

// CategoryNode is one node of the category tree.
type CategoryNode struct {
	Item[model.Category]
	Children []CategoryNode `json:"children"`
}

// Home is the homepage read model.
type Home struct {
	Locale     locale.Code                     `json:"locale"`
	Slides     []resolver.View[model.HeroSlide] `json:"slides"`
	Featured   []Item[model.Product]           `json:"featured"`
	Categories []Item[model.Category]          `json:"categories"`
	Sectors    []Item[model.Sector]            `json:"sectors"`
	Articles   []Item[model.Article]           `json:"articles"`
}

// ProductQuery filters product listings.
type ProductQuery struct {
	// Category is a category slug in the requested locale.
	Category     string
	FeaturedOnly bool
	Limit        int
	Offset       int
}

// ContentService serves localized content. It is safe for concurrent use.
type ContentService struct {
	st       *store.Store
	renderer *Renderer
	cache    cache.Cacher
	ttl      time.Duration

	products   *resolver.Resolver[model.Product, model.ProductTranslation]
	categories *resolver.Resolver[model.Category, model.CategoryTranslation]
	sectors    *resolver.Resolver[model.Sector, model.SectorTranslation]
	articles   *resolver.Resolver[model.Article, model.ArticleTranslation]
	pages      *resolver.Resolver[model.Page, model.PageTranslation]
	slides     *resolver.Lister[model.HeroSlide, model.HeroSlideTranslation]
}

// NewContentService creates the service. c may be nil to disable caching.
func NewContentService(st *store.Store, c cache.Cacher, ttl time.Duration) *ContentService {
	return &ContentService{
		st:         st,
		renderer:   NewRenderer(),
		cache:      c,
		ttl:        ttl,
		products:   resolver.New(store.CollectionProducts, st.Products, productFields),
		categories: resolver.New(store.CollectionCategories, st.Categories, categoryFields),
		sectors:    resolver.New(store.CollectionSectors, st.Sectors, sectorFields),
		articles:   resolver.New(store.CollectionArticles, st.Articles, articleFields),
		pages:      resolver.New(store.CollectionPages, st.Pages, pageFields),
		slides:     resolver.NewListResolver(store.CollectionHeroSlides, st.HeroSlides, heroSlideFields),
	}
}

// Invalidate drops every cached read model.
func (s *ContentService) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.DeleteNamespace(ctx, CacheNamespace)
}

// load serves key from the cache or computes and stores it. Errors are never cached.
func load[T any](ctx context.Context, s *ContentService, key string, fn func() (*T, error)) (*T, error) {
	if s.cache == nil {
		return fn()
	}
	return cache.NewTypedCache[T](s.cache, CacheNamespace, s.ttl).GetOrSet(ctx, key, fn)
}

func loadList[T any](ctx context.Context, s *ContentService, key string, fn func() ([]T, error)) ([]T, error) {
	out, err := load(ctx, s, key, func() (*[]T, error) {
		list, err := fn()
		if err != nil {
			return nil, err
		}
		return &list, nil
	})
	if err != nil {
		return nil, err
	}
	return *out, nil
}

func itemOf[E any](section resolver.Section, v resolver.View[E]) Item[E] {
	return Item[E]{View: v, Path: resolver.ViewPath(section, v)}
}

func itemsOf[E any](section resolver.Section, views []resolver.View[E]) []Item[E] {
	out := make([]Item[E], 0, len(views))
	for _, v := range views {
		out = append(out, itemOf(section, v))
	}
	return out
}

type translationLister[T any] interface {
	ListTranslations(ctx context.Context, parentID int64) ([]T, error)
}

type localizedRow interface {
	resolver.Localized
	Language() locale.Code
}

// alternates returns the record's path in every supported locale.
func alternates[E resolver.Record, T localizedRow](ctx context.Context, src translationLister[T], section resolver.Section, rec E) ([]Alternate, error) {
	rows, err := src.ListTranslations(ctx, rec.RecordID())
	if err != nil {
		return nil, err
	}
	slugs := make(map[locale.Code]string, len(rows))
	for _, row := range rows {
		slugs[row.Language()] = row.LocalizedSlug()
	}

	out := make([]Alternate, 0, len(locale.Codes()))
	for _, code := range locale.Codes() {
		slug := resolver.CanonicalSlug(rec.RecordSlug(), slugs[code], code)
		out = append(out, Alternate{Locale: code, Path: resolver.Path(section, code, slug)})
	}
	return out, nil
}

// Product resolves an active product with its images and category.
func (s *ContentService) Product(ctx context.Context, slug string, code locale.Code) (*ProductDetail, error) {
	return load(ctx, s, cache.Key("product", code, slug), func() (*ProductDetail, error) {
		view, err := s.products.ResolveBySlug(ctx, slug, code)
		if err != nil {
			return nil, err
		}
		if !view.Record.IsActive {
			return nil, resolver.ErrNotFound
		}

		detail := &ProductDetail{}
		detail.Item = itemOf(resolver.SectionProducts, view)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			images, err := s.st.ListProductImages(gctx, view.Record.ID)
			detail.Images = images
			return err
		})
		g.Go(func() error {
			alts, err := alternates[model.Product, model.ProductTranslation](gctx, s.st.Products, resolver.SectionProducts, view.Record)
			detail.Alternates = alts
			return err
		})
		if id := view.Record.CategoryID; id != nil {
			g.Go(func() error {
				cat, err := s.categories.ResolveByID(gctx, *id, code)
				if errors.Is(err, resolver.ErrNotFound) {
					return nil
				}
				if err != nil {
					return err
				}
				if cat.Record.IsActive {
					item := itemOf(resolver.SectionCategories, cat)
					detail.Category = &item
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return detail, nil
	})
}

// Products lists active products, optionally within a category.
func (s *ContentService) Products(ctx context.Context, code locale.Code, q ProductQuery) ([]Item[model.Product], error) {
	key := cache.Key("products", code, q.Category, q.FeaturedOnly, q.Limit, q.Offset)
	return loadList(ctx, s, key, func() ([]Item[model.Product], error) {
		opts := resolver.ListOptions{
			ActiveOnly:   true,
			FeaturedOnly: q.FeaturedOnly,
			Limit:        q.Limit,
			Offset:       q.Offset,
		}
		if q.Category != "" {
			cat, err := s.categories.ResolveBySlug(ctx, q.Category, code)
			if err != nil {
				return nil, err
			}
			if !cat.Record.IsActive {
				return nil, resolver.ErrNotFound
			}
			opts.ParentID = &cat.Record.ID
		}

		views, err := s.products.ResolveList(ctx, code, opts)
		if err != nil {
			return nil, err
		}
		return itemsOf(resolver.SectionProducts, views), nil
	})
}

// Category resolves an active category with breadcrumbs, subcategories and products.
func (s *ContentService) Category(ctx context.Context, slug string, code locale.Code) (*CategoryDetail, error) {
	return load(ctx, s, cache.Key("category", code, slug), func() (*CategoryDetail, error) {
		view, err := s.categories.ResolveBySlug(ctx, slug, code)
		if err != nil {
			return nil, err
		}
		if !view.Record.IsActive {
			return nil, resolver.ErrNotFound
		}

		detail := &CategoryDetail{}
		detail.Item = itemOf(resolver.SectionCategories, view)
		id := view.Record.ID

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			crumbs, err := s.breadcrumbs(gctx, view.Record, code)
			detail.Breadcrumbs = crumbs
			return err
		})
		g.Go(func() error {
			children, err := s.categories.ResolveList(gctx, code, resolver.ListOptions{ParentID: &id, ActiveOnly: true})
			detail.Children = itemsOf(resolver.SectionCategories, children)
			return err
		})
		g.Go(func() error {
			products, err := s.products.ResolveList(gctx, code, resolver.ListOptions{ParentID: &id, ActiveOnly: true})
			detail.Products = itemsOf(resolver.SectionProducts, products)
			return err
		})
		g.Go(func() error {
			alts, err := alternates[model.Category, model.CategoryTranslation](gctx, s.st.Categories, resolver.SectionCategories, view.Record)
			detail.Alternates = alts
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return detail, nil
	})
}

// breadcrumbs walks parent_id up from cat and returns the chain root first.
// A cycle or a missing parent ends the walk.
func (s *ContentService) breadcrumbs(ctx context.Context, cat model.Category, code locale.Code) ([]Item[model.Category], error) {
	chain := make([]Item[model.Category], 0, 2)
	seen := map[int64]bool{cat.ID: true}

	parent := cat.ParentID
	for depth := 0; parent != nil && depth < maxCategoryDepth; depth++ {
		if seen[*parent] {
			break
		}
		seen[*parent] = true

		view, err := s.categories.ResolveByID(ctx, *parent, code)
		if errors.Is(err, resolver.ErrNotFound) {
			break
		}
		if err != nil {
			return nil, err
		}
		chain = append(chain, itemOf(resolver.SectionCategories, view))
		parent = view.Record.ParentID
	}

	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

// Categories lists active root categories.
func (s *ContentService) Categories(ctx context.Context, code locale.Code) ([]Item[model.Category], error) {
	return loadList(ctx, s, cache.Key("categories", code), func() ([]Item[model.Category], error) {
		views, err := s.categories.ResolveList(ctx, code, resolver.ListOptions{RootOnly: true, ActiveOnly: true})
		if err != nil {
			return nil, err
		}
		return itemsOf(resolver.SectionCategories, views), nil
	})
}

// CategoryTree returns every active category nested under its parent.
// Categories below an inactive parent are not reachable and are left out.
func (s *ContentService) CategoryTree(ctx context.Context, code locale.Code) ([]CategoryNode, error) {
	return loadList(ctx, s, cache.Key("category-tree", code), func() ([]CategoryNode, error) {
		views, err := s.categories.ResolveList(ctx, code, resolver.ListOptions{ActiveOnly: true})
		if err != nil {
			return nil, err
		}
		return buildCategoryTree(itemsOf(resolver.SectionCategories, views)), nil
	})
}

// buildCategoryTree keeps the input order among siblings.
func buildCategoryTree(items []Item[model.Category]) []CategoryNode {
	children := make(map[int64][]Item[model.Category])
	var roots []Item[model.Category]
	for _, it := range items {
		if p := it.Record.ParentID; p != nil {
			children[*p] = append(children[*p], it)
			continue
		}
		roots = append(roots, it)
	}

	var build func(it Item[model.Category], depth int) CategoryNode
	build = func(it Item[model.Category], depth int) CategoryNode {
		node := CategoryNode{Item: it, Children: []CategoryNode{}}
		if depth >= maxCategoryDepth {
			return node
		}
		for _, child := range children[it.Record.ID] {
			node.Children = append(node.Children, build(child, depth+1))
		}
		return node
	}

	tree := make([]CategoryNode, 0, len(roots))
	for _, r := range roots {
		tree = append(tree, build(r, 0))
	}
	return tree
}

// Sector resolves an active sector.
func (s *ContentService) Sector(ctx context.Context, slug string, code locale.Code) (*Detail[model.Sector], error) {
	return load(ctx, s, cache.Key("sector", code, slug), func() (*Detail[model.Sector], error) {
		view, err := s.sectors.ResolveBySlug(ctx, slug, code)
		if err != nil {
			return nil, err
		}
		if !view.Record.IsActive {
			return nil, resolver.ErrNotFound
		}
		alts, err := alternates[model.Sector, model.SectorTranslation](ctx, s.st.Sectors, resolver.SectionSectors, view.Record)
		if err != nil {
			return nil, err
		}
		return &Detail[model.Sector]{Item: itemOf(resolver.SectionSectors, view), Alternates: alts}, nil
	})
}

// Sectors lists active sectors.
func (s *ContentService) Sectors(ctx context.Context, code locale.Code) ([]Item[model.Sector], error) {
	return loadList(ctx, s, cache.Key("sectors", code), func() ([]Item[model.Sector], error) {
		views, err := s.sectors.ResolveList(ctx, code, resolver.ListOptions{ActiveOnly: true})
		if err != nil {
			return nil, err
		}
		return itemsOf(resolver.SectionSectors, views), nil
	})
}

// Article resolves a published article.
func (s *ContentService) Article(ctx context.Context, slug string, code locale.Code) (*Detail[model.Article], error) {
	return load(ctx, s, cache.Key("article", code, slug), func() (*Detail[model.Article], error) {
		view, err := s.articles.ResolveBySlug(ctx, slug, code)
		if err != nil {
			return nil, err
		}
		if !view.Record.IsPublished {
			return nil, resolver.ErrNotFound
		}
		alts, err := alternates[model.Article, model.ArticleTranslation](ctx, s.st.Articles, resolver.SectionArticles, view.Record)
		if err != nil {
			return nil, err
		}
		return &Detail[model.Article]{Item: itemOf(resolver.SectionArticles, view), Alternates: alts}, nil
	})
}

// Articles lists published articles, newest first.
func (s *ContentService) Articles(ctx context.Context, code locale.Code, limit, offset int) ([]Item[model.Article], error) {
	return loadList(ctx, s, cache.Key("articles", code, limit, offset), func() ([]Item[model.Article], error) {
		views, err := s.articles.ResolveList(ctx, code, resolver.ListOptions{ActiveOnly: true, Limit: limit, Offset: offset})
		if err != nil {
			return nil, err
		}
		return itemsOf(resolver.SectionArticles, views), nil
	})
}

// HeroSlides lists active homepage slides.
func (s *ContentService) HeroSlides(ctx context.Context, code locale.Code) ([]resolver.View[model.HeroSlide], error) {
	return loadList(ctx, s, cache.Key("slides", code), func() ([]resolver.View[model.HeroSlide], error) {
		return s.slides.ResolveList(ctx, code, resolver.ListOptions{ActiveOnly: true})
	})
}

// Page resolves an active page and renders its markdown.
func (s *ContentService) Page(ctx context.Context, slug string, code locale.Code) (*PageDetail, error) {
	return load(ctx, s, cache.Key("page", code, slug), func() (*PageDetail, error) {
		view, err := s.pages.ResolveBySlug(ctx, slug, code)
		if err != nil {
			return nil, err
		}
		if !view.Record.IsActive {
			return nil, resolver.ErrNotFound
		}
		html, err := s.renderer.Render(view.Record.ContentMD)
		if err != nil {
			return nil, err
		}
		alts, err := alternates[model.Page, model.PageTranslation](ctx, s.st.Pages, resolver.SectionPages, view.Record)
		if err != nil {
			return nil, err
		}
		detail := &PageDetail{HTML: html}
		detail.Item = itemOf(resolver.SectionPages, view)
		detail.Alternates = alts
		return detail, nil
	})
}

// Pages lists active pages.
func (s *ContentService) Pages(ctx context.Context, code locale.Code) ([]Item[model.Page], error) {
	return loadList(ctx, s, cache.Key("pages", code), func() ([]Item[model.Page], error) {
		views, err := s.pages.ResolveList(ctx, code, resolver.ListOptions{ActiveOnly: true})
		if err != nil {
			return nil, err
		}
		return itemsOf(resolver.SectionPages, views), nil
	})
}

// Home assembles the homepage from independent listings.
func (s *ContentService) Home(ctx context.Context, code locale.Code) (*Home, error) {
	home := &Home{Locale: code}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		home.Slides, err = s.HeroSlides(gctx, code)
		return err
	})
	g.Go(func() (err error) {
		home.Featured, err = s.Products(gctx, code, ProductQuery{FeaturedOnly: true, Limit: homeFeaturedLimit})
		return err
	})
	g.Go(func() (err error) {
		home.Categories, err = s.Categories(gctx, code)
		return err
	})
	g.Go(func() (err error) {
		home.Sectors, err = s.Sectors(gctx, code)
		return err
	})
	g.Go(func() (err error) {
		home.Articles, err = s.Articles(gctx, code, homeArticleLimit, 0)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return home, nil
}

// Renderer exposes the markdown renderer used for pages.
func (s *ContentService) Renderer() *Renderer {
	return s.renderer
}
