// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/muratkanik/rotabiletiket/internal/analytics"
	"github.com/muratkanik/rotabiletiket/internal/cache"
	"github.com/muratkanik/rotabiletiket/internal/config"
	"github.com/muratkanik/rotabiletiket/internal/geoip"
	"github.com/muratkanik/rotabiletiket/internal/handler"
	"github.com/muratkanik/rotabiletiket/internal/handler/api"
	"github.com/muratkanik/rotabiletiket/internal/logging"
	"github.com/muratkanik/rotabiletiket/internal/middleware"
	"github.com/muratkanik/rotabiletiket/internal/model"
	"github.com/muratkanik/rotabiletiket/internal/scheduler"
	"github.com/muratkanik/rotabiletiket/internal/seo"
	"github.com/muratkanik/rotabiletiket/internal/service"
	"github.com/muratkanik/rotabiletiket/internal/store"
	"github.com/muratkanik/rotabiletiket/internal/version"
)

const (
	requestTimeout  = 30 * time.Second
	shutdownTimeout = 30 * time.Second
	limiterIdle     = time.Hour
	// Admin requests per second and burst, per client address.
	adminRate  = 5
	adminBurst = 20
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")
	issueToken := flag.String("issue-token", "", "Print an admin API token for the given subject and exit")
	tokenTTL := flag.Duration("token-ttl", 24*time.Hour, "Lifetime of tokens printed by -issue-token")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Rotabil Etiket - multilingual corporate site content service\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ROTA_ADMIN_SECRET      Admin token signing key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ROTA_DB_PATH           SQLite database path (default: ./data/rotabiletiket.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ROTA_SERVER_PORT       Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ROTA_ENV               Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ROTA_SITE_URL          Public site URL used in canonical links and the sitemap\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ROTA_REDIS_URL         Redis URL for shared caching (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ROTA_GEOIP_DB_PATH     GeoLite2-Country database for visit countries (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ROTA_DO_SEED           Load fixture content into an empty database\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Println(version.Get())
		os.Exit(0)
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	if *issueToken != "" {
		token, err := middleware.IssueToken([]byte(cfg.AdminSecret), *issueToken, *tokenTTL, time.Now())
		if err != nil {
			slog.Error("issuing token", "error", err)
			os.Exit(1)
		}
		_, _ = fmt.Println(token)
		return
	}

	if err := run(cfg); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})
	slog.SetDefault(slog.New(textHandler))

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}()

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	st := store.New(db)

	// WARN and ERROR records also go to the event log table.
	logger := slog.New(logging.NewEventLogHandler(textHandler, st))
	slog.SetDefault(logger)
	slog.Info("database ready", "category", model.EventCategorySystem)

	ctx := context.Background()
	if cfg.DoSeed {
		if err := seed(ctx, st, cfg.SeedFile); err != nil {
			return err
		}
	}

	cacheResult, err := cache.NewCache(cache.CacheConfig{
		RedisURL:         cfg.RedisURL,
		Prefix:           cfg.CachePrefix,
		FallbackToMemory: true,
		DefaultTTL:       cfg.CacheTTLDuration(),
		MaxSize:          cfg.CacheMaxSize,
		CleanupInterval:  time.Minute,
	})
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	defer func() { _ = cacheResult.Cache.Close() }()
	slog.Info("cache initialized", "backend", cacheResult.BackendType, "fallback", cacheResult.IsFallback)

	geo := geoip.NewLookup()
	if err := geo.Open(cfg.GeoIPDBPath); err != nil {
		slog.Warn("geoip database unavailable, visit countries disabled", "category", model.EventCategorySystem, "error", err)
	}
	defer func() { _ = geo.Close() }()

	var countries analytics.CountryLookup
	if geo.Enabled() {
		countries = geo
	}

	content := service.NewContentService(st, cacheResult.Cache, cfg.CacheTTLDuration())
	tracker := analytics.NewTracker(st, countries, analytics.DefaultTrackerConfig(cfg.AnalyticsSalt))
	sitemap := seo.NewSitemapGenerator(content, cfg.SiteURL, cacheResult.Cache, cfg.CacheTTLDuration())
	adminLimiter := middleware.NewRateLimiter(adminRate, adminBurst)

	sched := scheduler.New(logger)
	if err := addJobs(sched, cfg, st, geo, tracker, adminLimiter); err != nil {
		return fmt.Errorf("registering jobs: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	apiHandler := api.NewHandler(api.Deps{
		Content:   content,
		Store:     st,
		Tracker:   tracker,
		Sitemap:   sitemap,
		Scheduler: sched,
		Site: seo.SiteConfig{
			SiteName:        cfg.SiteName,
			SiteURL:         cfg.SiteURL,
			SiteDescription: cfg.SiteDescription,
			DefaultOGImage:  cfg.DefaultOGImage,
		},
		DisallowRobots: cfg.DisallowRobots,
	})
	healthHandler := handler.NewHealthHandler(st, cacheResult.Cache, []byte(cfg.AdminSecret), version.Get().Version)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.StripTrailingSlash)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(middleware.Timeout(requestTimeout))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		middleware.WriteAPIError(w, http.StatusNotFound, middleware.CodeNotFound, "Not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		middleware.WriteAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed", nil)
	})

	r.Get("/health", healthHandler.Health)
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	r.Mount("/", apiHandler.Routes(api.RouterConfig{
		AdminSecret:  []byte(cfg.AdminSecret),
		CORSOrigins:  cfg.CORSOrigins,
		CacheMaxAge:  cfg.CacheTTL,
		AdminLimiter: adminLimiter,
	}))

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", version.Get().Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// seed loads fixtures from path, or the embedded fixtures when path is empty.
func seed(ctx context.Context, st *store.Store, path string) error {
	data := store.DefaultSeed()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading seed file: %w", err)
		}
		data = b
	}
	if err := store.Seed(ctx, st, data); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}
	return nil
}

func addJobs(sched *scheduler.Scheduler, cfg *config.Config, st *store.Store, geo *geoip.Lookup,
	tracker *analytics.Tracker, adminLimiter *middleware.RateLimiter) error {
	jobs := []scheduler.Job{
		{
			Name:        "analytics-purge",
			Description: "Delete visits and events older than the retention period",
			Schedule:    "@daily",
			Timeout:     5 * time.Minute,
			Run: func(ctx context.Context) error {
				return analytics.Purge(ctx, st, cfg.Retention(), time.Now().UTC())
			},
		},
		{
			Name:        "limiter-prune",
			Description: "Drop rate limiter state of idle clients",
			Schedule:    "@every 10m",
			Run: func(context.Context) error {
				n := tracker.PruneLimiters(limiterIdle) + adminLimiter.Prune(limiterIdle)
				if n > 0 {
					slog.Debug("pruned rate limiters", "count", n)
				}
				return nil
			},
		},
	}
	if cfg.GeoIPEnabled() {
		jobs = append(jobs, scheduler.Job{
			Name:        "geoip-reload",
			Description: "Reopen the GeoIP database when the file changed",
			Schedule:    "@daily",
			Run: func(context.Context) error {
				return geo.Reload()
			},
		})
	}

	for _, job := range jobs {
		if err := sched.Add(job); err != nil {
			return err
		}
	}
	return nil
}
