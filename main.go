package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"task-tracker/internal/cache"
	"task-tracker/internal/config"
	"task-tracker/internal/database"
	"task-tracker/internal/logger"
	"task-tracker/internal/router"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger.Init(cfg.Log.Level, cfg.Log.Pretty)

	pool, err := database.NewDatabasePool(database.PoolConfigFrom(cfg))
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("failed to open database")
	}
	if err := pool.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	userCache := cache.NewUserCache(cfg)
	if cfg.Redis.Enabled {
		if err := userCache.Health(context.Background()); err != nil {
			log.Warn().Err(err).Str("addr", cfg.GetRedisAddr()).Msg("redis unavailable, user lookups fall back to the database")
		}
	}

	srv := &http.Server{
		Addr:         cfg.GetServerAddr(),
		Handler:      router.Build(cfg, pool, userCache),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("environment", cfg.Server.Environment).Msg("task tracker listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// cache and pool close after the server has drained
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.Server.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"http-server": func(ctx context.Context) error {
				log.Info().Msg("shutting down http server")
				err := srv.Shutdown(ctx)
				if cerr := userCache.Close(); cerr != nil {
					log.Error().Err(cerr).Msg("failed to close user cache")
				}
				if cerr := pool.Close(); cerr != nil {
					log.Error().Err(cerr).Msg("failed to close database pool")
				}
				return err
			},
		},
	)

	exitCode := <-wait
	log.Info().Int("exit_code", exitCode).Msg("task tracker stopped")
	os.Exit(exitCode)
}
