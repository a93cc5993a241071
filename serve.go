package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"HospitalCare/cache"
	"HospitalCare/config"
	"HospitalCare/db"
	"HospitalCare/logger"
	"HospitalCare/migrations"
	"HospitalCare/store"
)

// loadEnv reads .env when present, then the config and logger from the
// environment.
func loadEnv() (*config.Config, *zap.Logger, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log.With(zap.String("app", cfg.App.Name), zap.String("env", cfg.App.Environment)), nil
}

func serveCmd() *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and the scheduled jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadEnv()
			if err != nil {
				return err
			}
			defer log.Sync()
			return runServer(cmd.Context(), cfg, log, migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", true, "apply pending migrations before serving")
	return cmd
}

// openCache connects to redis when configured. Without it the app runs
// uncached and login lockout is off.
func openCache(ctx context.Context, cfg config.RedisConfig, log *zap.Logger) (cache.Store, *redis.Client) {
	if !cfg.Enabled() {
		log.Info("redis not configured, caching disabled")
		return cache.Noop{}, nil
	}
	client := cache.NewRedisClient(cfg)
	kv := cache.NewRedis(client, cfg.KeyPrefix)
	if err := kv.Ping(ctx); err != nil {
		log.Warn("redis unreachable, caching disabled", zap.String("addr", cfg.Addr), zap.Error(err))
		_ = client.Close()
		return cache.Noop{}, nil
	}
	return kv, client
}

/*
* Connect mongo and optionally migrate
* Open redis and wire the application
* Serve until SIGINT or SIGTERM, then drain requests, jobs and notifications
 */
func runServer(ctx context.Context, cfg *config.Config, log *zap.Logger, migrate bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mongo, err := db.Connect(ctx, cfg.Mongo)
	if err != nil {
		return err
	}
	defer func() {
		if err := mongo.Disconnect(context.Background()); err != nil {
			log.Warn("disconnecting mongo failed", zap.Error(err))
		}
	}()

	if migrate {
		n, err := migrations.Run(ctx, mongo, log)
		if err != nil {
			return err
		}
		log.Info("migrations applied", zap.Int("count", n))
	}

	kv, redisClient := openCache(ctx, cfg.Redis, log)
	if redisClient != nil {
		defer redisClient.Close()
	}

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	app, err := newApplication(cfg, mongoRepositories(store.New(mongo)), kv, mongo, log)
	if err != nil {
		return err
	}
	if cfg.Jobs.Enabled {
		if err := app.scheduler.Register(cfg.Jobs); err != nil {
			return err
		}
		app.scheduler.Start()
	}

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      app.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
	}
	app.shutdown(shutdownCtx)
	return nil
}
