package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "listing_console/internal/adapters/http_server"
	"listing_console/internal/adapters/listingapi"
	"listing_console/internal/adapters/observability"
	redisad "listing_console/internal/adapters/redis"
	"listing_console/internal/adapters/uploader"
	"listing_console/internal/app"
	"listing_console/internal/shared"
	mysqlrepo "listing_console/internal/storage/mysql"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, "listing-api", cfg.LogLevel)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// deps
	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.RedisPrefix)
	if err := cache.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("redis unreachable; master data will be read from MySQL")
	}
	master := app.NewMasterDataService(repo, cache, cfg.CacheTTL)

	listings, err := listingapi.New(cfg.ListingBase, cfg.ListingKey, cfg.ListingRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize listing API client")
	}
	up := uploader.New(cfg.UploadBase, cfg.UploadTimeout)
	loader := app.NewWizardLoader(listings, up, master, app.WizardOptions{
		UploadConcurrency: cfg.UploadConcurrency,
	})

	sessions := server.NewSessions(cfg.SessionIdle)
	go sessions.Run(ctx, time.Minute)

	// http
	srv := server.New(cfg.UploadTimeout + 5*time.Second)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Master: master, Wizards: loader, Sessions: sessions})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutCtx); err != nil {
			log.Error().Err(err).Msg("http shutdown failed")
		}
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
	_ = cache.Close()
	_ = db.Close()
	log.Info().Msg("API stopped")
}
