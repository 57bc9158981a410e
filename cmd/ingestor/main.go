package main

import (
	"context"
	"database/sql"
	"os"
	"strconv"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"github.com/mohamine831/cupid-nuitee/internal/adapters/cupid"
	"github.com/mohamine831/cupid-nuitee/internal/adapters/memory"
	"github.com/mohamine831/cupid-nuitee/internal/adapters/observability"
	redisad "github.com/mohamine831/cupid-nuitee/internal/adapters/redis"
	"github.com/mohamine831/cupid-nuitee/internal/app"
	"github.com/mohamine831/cupid-nuitee/internal/domain"
	"github.com/mohamine831/cupid-nuitee/internal/shared"
	mysqlrepo "github.com/mohamine831/cupid-nuitee/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	ids := hotelIDs()
	if len(ids) == 0 {
		log.Fatal().Msg("no hotel ids: pass them as arguments or set INGEST_IDS")
	}

	log.Info().
		Str("base", cfg.CupidBase).
		Int("hotels", len(ids)).
		Int("workers", cfg.Workers).
		Int("reviews", cfg.ReviewCount).
		Strs("langs", cfg.Langs).
		Msg("ingestor starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)

	client, err := cupid.New(cfg.CupidBase, cfg.CupidKey, cfg.CupidRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize content client")
	}
	if err := client.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("content API probe failed, continuing anyway")
	}

	var store domain.CacheStore
	if cfg.CacheBackend == "redis" {
		store = redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	} else {
		store = memory.New()
	}
	cache := app.NewCache(store)

	ing := app.NewIngestionService(client, repo, cache, cfg.Langs)
	res := ing.ImportAll(ctx, ids, cfg.ReviewCount, cfg.Workers)

	log.Info().Msg(res.String())
	if res.Failed > 0 && res.Imported == 0 {
		os.Exit(1)
	}
}

// hotelIDs reads ids from argv, falling back to the INGEST_IDS env var (CSV).
func hotelIDs() []int64 {
	raw := os.Args[1:]
	if len(raw) == 0 {
		raw = strings.Split(os.Getenv("INGEST_IDS"), ",")
	}
	var out []int64
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			log.Warn().Str("arg", s).Msg("skipping non-numeric hotel id")
			continue
		}
		out = append(out, id)
	}
	return out
}
