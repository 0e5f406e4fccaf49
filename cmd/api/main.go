package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"micropage/api/internal/analytics"
	"micropage/api/internal/app"
	"micropage/api/internal/config"
	"micropage/api/internal/draft"
	"micropage/api/internal/media"
	"micropage/api/internal/recovery"
	"micropage/api/internal/search"
	"micropage/api/internal/snapshot"
	"micropage/api/internal/store"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	db, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	if err := store.ApplyMigrations(ctx, db); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}

	dataStore := store.NewPostgresStore(db)

	var recoveryCache draft.RecoveryCache
	if strings.TrimSpace(cfg.RedisURL) != "" {
		log.Printf("Using Redis for draft recovery")
		redisStore, err := recovery.NewRedisStore(cfg.RedisURL)
		if err != nil {
			log.Fatalf("redis connection failed: %v", err)
		}
		defer redisStore.Close()
		recoveryCache = redisStore
	} else {
		log.Printf("Using in-memory draft recovery; unsaved drafts will not survive a restart")
		recoveryCache = recovery.NewMemoryStore()
	}

	var meiliClient *search.Meili
	if strings.TrimSpace(cfg.MeiliURL) != "" {
		meiliClient = search.NewMeili(cfg.MeiliURL, cfg.MeiliMasterKey)
		defer meiliClient.Close()
	}
	searchService := search.NewService(meiliClient, storeFallback{store: dataStore})

	var sink analytics.Sink = analytics.Noop{}
	if strings.TrimSpace(cfg.AnalyticsURL) != "" {
		sink = analytics.NewHTTPSink(cfg.AnalyticsURL)
	}

	var service *app.Service
	if strings.TrimSpace(cfg.MinioEndpoint) != "" {
		mediaService, err := media.New(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey,
			cfg.MinioBucket, cfg.MinioPublicURL, cfg.MinioUseSSL)
		if err != nil {
			log.Fatalf("minio connection failed: %v", err)
		}
		if err := mediaService.EnsureBucket(ctx); err != nil {
			log.Fatalf("minio bucket setup failed: %v", err)
		}
		snapshots := snapshot.New(mediaService, cfg.PublicBaseURL)
		service, err = app.New(cfg, dataStore, recoveryCache, searchService, mediaService, snapshots, sink)
		if err != nil {
			log.Fatalf("service init failed: %v", err)
		}
	} else {
		log.Printf("MinIO not configured; uploads and page snapshots are disabled")
		service, err = app.New(cfg, dataStore, recoveryCache, searchService, nil, nil, sink)
		if err != nil {
			log.Fatalf("service init failed: %v", err)
		}
	}

	httpServer := app.NewHTTPServer(service, cfg.CORSOrigin)
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Micropage API listening on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

// storeFallback lets the search facade fall through to Postgres full-text
// search when Meilisearch is down or not configured.
type storeFallback struct {
	store *store.PostgresStore
}

func (f storeFallback) SearchSites(ctx context.Context, text string, limit int) ([]search.Result, error) {
	summaries, err := f.store.SearchMicrosites(ctx, text, limit)
	if err != nil {
		return nil, err
	}
	results := make([]search.Result, 0, len(summaries))
	for _, s := range summaries {
		results = append(results, search.Result{
			ID:           s.ID,
			BusinessName: s.BusinessName,
			SEOTitle:     s.SEOTitle,
		})
	}
	return results, nil
}
