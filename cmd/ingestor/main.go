package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"listing_console/internal/adapters/listingapi"
	"listing_console/internal/adapters/observability"
	redisad "listing_console/internal/adapters/redis"
	"listing_console/internal/app"
	"listing_console/internal/domain"
	"listing_console/internal/shared"
	mysqlrepo "listing_console/internal/storage/mysql"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, "listing-ingestor", cfg.LogLevel)

	log.Info().
		Str("base", cfg.ListingBase).
		Int("workers", cfg.Workers).
		Int("kinds", len(cfg.IngestKinds)).
		Msg("ingestor starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)

	client, err := listingapi.New(cfg.ListingBase, cfg.ListingKey, cfg.ListingRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize listing API client")
	}
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.RedisPrefix)
	defer cache.Close()
	if err := cache.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("redis unreachable; cache eviction will be skipped")
	}

	ing := app.NewIngestionService(client, repo, cache)
	sem := semaphore.NewWeighted(int64(max(cfg.Workers, 1)))
	var (
		wg     sync.WaitGroup
		failed atomic.Int32
	)

	for _, kind := range cfg.IngestKinds {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Error().Err(err).Msg("ingestion interrupted")
			break
		}

		wg.Add(1)
		go func(kind domain.MasterKind) {
			defer wg.Done()
			defer sem.Release(1)

			n, err := ing.SyncKind(ctx, kind)
			if err != nil {
				failed.Add(1)
				log.Warn().Str("kind", string(kind)).Err(err).Msg("sync failed")
				return
			}
			log.Info().Str("kind", string(kind)).Int("rows", n).Msg("sync ok")
		}(kind)
	}

	wg.Wait()
	if n := failed.Load(); n > 0 {
		log.Error().Int32("failed", n).Msg("ingestion completed with failures")
		os.Exit(1)
	}
	log.Info().Msg("ingestion completed")
}
