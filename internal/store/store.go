// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"errors"

	"github.com/uptrace/bun"

	"github.com/muratkanik/rotabiletiket/internal/model"
	"github.com/muratkanik/rotabiletiket/internal/resolver"
)

// Collection names, also used as admin route segments and cache key parts.
const (
	CollectionProducts   = "products"
	CollectionCategories = "categories"
	CollectionSectors    = "sectors"
	CollectionArticles   = "articles"
	CollectionHeroSlides = "hero_slides"
	CollectionPages      = "pages"
)

var byPosition = map[resolver.Order]string{
	resolver.OrderPosition: "position ASC",
	resolver.OrderTitle:    "title COLLATE NOCASE ASC",
	resolver.OrderNewest:   "created_at DESC",
}

// Store groups the collection stores and the auxiliary tables.
type Store struct {
	db *bun.DB

	Products   *Collection[model.Product, model.ProductTranslation]
	Categories *Collection[model.Category, model.CategoryTranslation]
	Sectors    *Collection[model.Sector, model.SectorTranslation]
	Articles   *Collection[model.Article, model.ArticleTranslation]
	HeroSlides *Collection[model.HeroSlide, model.HeroSlideTranslation]
	Pages      *Collection[model.Page, model.PageTranslation]
}

// New creates a Store over db.
func New(db *bun.DB) *Store {
	return &Store{
		db: db,
		Products: NewCollection[model.Product, model.ProductTranslation](db, CollectionProducts, Options{
			Slugged:        true,
			ActiveColumn:   "is_active",
			FeaturedColumn: "is_featured",
			ParentColumn:   "category_id",
			Orders:         byPosition,
			DefaultOrder:   resolver.OrderPosition,
		}),
		Categories: NewCollection[model.Category, model.CategoryTranslation](db, CollectionCategories, Options{
			Slugged:      true,
			ActiveColumn: "is_active",
			ParentColumn: "parent_id",
			Orders:       byPosition,
			DefaultOrder: resolver.OrderPosition,
		}),
		Sectors: NewCollection[model.Sector, model.SectorTranslation](db, CollectionSectors, Options{
			Slugged:      true,
			ActiveColumn: "is_active",
			Orders:       byPosition,
			DefaultOrder: resolver.OrderPosition,
		}),
		Articles: NewCollection[model.Article, model.ArticleTranslation](db, CollectionArticles, Options{
			Slugged:      true,
			ActiveColumn: "is_published",
			Orders: map[resolver.Order]string{
				resolver.OrderPublished: "published_at DESC",
				resolver.OrderNewest:    "created_at DESC",
				resolver.OrderTitle:     "title COLLATE NOCASE ASC",
			},
			DefaultOrder: resolver.OrderPublished,
		}),
		HeroSlides: NewCollection[model.HeroSlide, model.HeroSlideTranslation](db, CollectionHeroSlides, Options{
			ActiveColumn: "is_active",
			Orders:       byPosition,
			DefaultOrder: resolver.OrderPosition,
		}),
		Pages: NewCollection[model.Page, model.PageTranslation](db, CollectionPages, Options{
			Slugged:      true,
			ActiveColumn: "is_active",
			Orders:       map[resolver.Order]string{resolver.OrderTitle: "title COLLATE NOCASE ASC"},
			DefaultOrder: resolver.OrderTitle,
		}),
	}
}

// DB returns the underlying bun database.
func (s *Store) DB() *bun.DB {
	return s.db
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// ListProductImages returns the gallery of a product in display order.
func (s *Store) ListProductImages(ctx context.Context, productID int64) ([]model.ProductImage, error) {
	images := make([]model.ProductImage, 0)
	err := s.db.NewSelect().Model(&images).
		Where("product_id = ?", productID).
		OrderExpr("position ASC, id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return images, nil
}

// AddProductImage appends an image to a product gallery.
func (s *Store) AddProductImage(ctx context.Context, img *model.ProductImage) error {
	exists, err := s.db.NewSelect().Model((*model.Product)(nil)).Where("id = ?", img.ProductID).Exists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		return resolver.ErrNotFound
	}
	_, err = s.db.NewInsert().Model(img).Exec(ctx)
	return err
}

// DeleteProductImage removes one image from a product gallery.
func (s *Store) DeleteProductImage(ctx context.Context, productID, imageID int64) error {
	res, err := s.db.NewDelete().Model((*model.ProductImage)(nil)).
		Where("id = ?", imageID).
		Where("product_id = ?", productID).
		Exec(ctx)
	if err != nil {
		return err
	}
	return affected(res)
}

// IsNotFound reports whether err is a store miss.
func IsNotFound(err error) bool {
	return errors.Is(err, resolver.ErrNotFound)
}
