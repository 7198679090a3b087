package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"tokomini/internal/config"
	"tokomini/internal/db"
	"tokomini/internal/fakestore"
	router "tokomini/internal/http"
	"tokomini/internal/http/handlers"
	rl "tokomini/internal/http/rate_limiter"
	"tokomini/internal/repo"
	"tokomini/internal/session"
	"tokomini/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("could not load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	go rl.StartVisitorCleanupLoop()

	catalog := fakestore.New(cfg.Upstream.BaseURL, &http.Client{Timeout: cfg.Upstream.Timeout})
	handlers.SetCatalog(catalog)

	// carts: redis when configured, otherwise in-memory
	if cfg.Redis.Addr != "" {
		rdb, err := db.ConnectRedis(cfg.Redis.Addr)
		if err != nil {
			log.Fatal().Err(err).Msg("could not connect to redis")
		}
		defer rdb.Close()
		handlers.SetCartRepo(repo.NewRedisCartRepository(rdb, cfg.Session.TTL))
		log.Info().Str("addr", cfg.Redis.Addr).Msg("carts stored in redis")
	} else {
		handlers.SetCartRepo(repo.NewInMemoryCartRepository())
		log.Info().Msg("carts stored in memory")
	}

	// orders: postgres when configured, otherwise in-memory
	if cfg.Database.URL != "" {
		database, err := db.Connect(cfg.Database.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("could not connect to database")
		}
		defer database.Close()
		handlers.SetOrderRepo(repo.NewPostgresOrderRepository(database))
		log.Info().Msg("orders stored in postgres")
	} else {
		handlers.SetOrderRepo(repo.NewInMemoryOrderRepository())
		log.Info().Msg("orders stored in memory")
	}

	renderer, err := web.NewRenderer()
	if err != nil {
		log.Fatal().Err(err).Msg("could not parse templates")
	}
	handlers.SetRenderer(renderer)

	sessions := session.NewManager(cfg.Session.Secret, cfg.Session.TTL)
	handlers.SetSessionManager(sessions)
	handlers.SetStoreOptions(cfg.Store.ExchangeRate, cfg.Store.PaymentExpiry)

	srv := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router.NewRouter(sessions),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("upstream", cfg.Upstream.BaseURL).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server stopped")
}
