package main

import (
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"github.com/mohamine831/cupid-nuitee/internal/adapters/cupid"
	server "github.com/mohamine831/cupid-nuitee/internal/adapters/http_server"
	"github.com/mohamine831/cupid-nuitee/internal/adapters/memory"
	"github.com/mohamine831/cupid-nuitee/internal/adapters/observability"
	redisad "github.com/mohamine831/cupid-nuitee/internal/adapters/redis"
	"github.com/mohamine831/cupid-nuitee/internal/app"
	"github.com/mohamine831/cupid-nuitee/internal/domain"
	"github.com/mohamine831/cupid-nuitee/internal/shared"
	mysqlrepo "github.com/mohamine831/cupid-nuitee/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	repo := mysqlrepo.New(db)

	var store domain.CacheStore
	if cfg.CacheBackend == "redis" {
		store = redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	} else {
		store = memory.New()
	}
	cache := app.NewCache(store)

	client, err := cupid.New(cfg.CupidBase, cfg.CupidKey, cfg.CupidRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize content client")
	}

	q := app.NewQueryService(repo, cache)
	ing := app.NewIngestionService(client, repo, cache, cfg.Langs)

	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Q:           q,
		Ing:         ing,
		Cache:       cache,
		ReviewCount: cfg.ReviewCount,
		Workers:     cfg.Workers,
	})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
