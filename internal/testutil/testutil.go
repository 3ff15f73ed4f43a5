// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers.
package testutil

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/uptrace/bun"

	"github.com/muratkanik/rotabiletiket/internal/store"
)

// TestLogger creates a silent test logger that only outputs warnings and errors.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// TestLoggerSilent creates a completely silent test logger (error level only).
func TestLoggerSilent() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// TestDB creates a temporary database with migrations applied.
// It is closed when the test ends.
func TestDB(t *testing.T) *bun.DB {
	t.Helper()

	db, err := store.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := store.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db
}

// TestStore returns a Store over a fresh migrated database.
func TestStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(TestDB(t))
}

// SeededStore returns a Store loaded with the built-in fixtures.
func SeededStore(t *testing.T) *store.Store {
	t.Helper()

	st := TestStore(t)
	if err := store.Seed(context.Background(), st, store.DefaultSeed()); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	return st
}
