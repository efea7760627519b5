package main

import (
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/wurdsmyth/go-server/internal/config"
	"github.com/wurdsmyth/go-server/internal/httpserver"
	"github.com/wurdsmyth/go-server/internal/progress"
	"github.com/wurdsmyth/go-server/internal/registry"
	"github.com/wurdsmyth/go-server/internal/words"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	if err := words.Init(); err != nil {
		log.Fatal().Err(err).Msg("failed to load word catalog")
	}

	db, err := openDB(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()
	if err := migrate(db); err != nil {
		log.Fatal().Err(err).Msg("apply migrations")
	}

	var sessions registry.Registry
	if cfg.RedisURL != "" {
		r, err := registry.NewRedis(cfg.RedisURL, cfg.SessionTTL)
		if err != nil {
			log.Fatal().Err(err).Msg("connect session registry")
		}
		defer r.Close()
		sessions = r
		log.Info().Msg("session registry: redis")
	} else {
		m := registry.NewMemory(cfg.SessionTTL)
		defer m.Close()
		sessions = m
		log.Info().Msg("session registry: memory")
	}

	srv := httpserver.New(cfg, sessions, db, progress.NewRepo(db))
	log.Info().Str("port", cfg.Port).Msg("starting wurdsmyth-go")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
