// Package main is the entry point for the canteen API server.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Raghu0511/canteen-backend/internal/config"
	"github.com/Raghu0511/canteen-backend/internal/handlers"
	applog "github.com/Raghu0511/canteen-backend/internal/logger"
	"github.com/Raghu0511/canteen-backend/internal/notify"
	"github.com/Raghu0511/canteen-backend/internal/repositories"
	"github.com/Raghu0511/canteen-backend/internal/repositories/cache"
	"github.com/Raghu0511/canteen-backend/internal/routes"
	"github.com/Raghu0511/canteen-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	config.LoadEnv()
	cfg := config.Load()
	log := applog.New("canteen-api", cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repositories.OpenDB(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := repositories.CloseDB(db); err != nil {
			log.Warn("close database", slog.Any("error", err))
		}
	}()
	log.Info("connected to database", slog.String("host", cfg.Database.Host), slog.String("name", cfg.Database.Name))

	if err := repositories.Migrate(db); err != nil {
		return err
	}

	cacheService := cache.NewCacheService(cache.NewRedisClient(&cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}), cfg.Redis.TTL)
	defer cacheService.Close()
	if err := cacheService.HealthCheck(ctx); err != nil {
		// Reads fall through to Postgres while Redis is away.
		log.Warn("redis unavailable, serving without cache", slog.Any("error", err))
	} else if err := cacheService.FlushAll(ctx); err != nil {
		log.Warn("flush redis cache", slog.Any("error", err))
	}

	var events notify.Publisher = notify.NoopPublisher{}
	probes := map[string]handlers.Probe{
		"database": func(ctx context.Context) error { return repositories.PingDB(ctx, db) },
		"redis":    cacheService.HealthCheck,
	}
	if cfg.AMQP.URL != "" {
		amqpPublisher, err := notify.DialAMQP(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			log.Warn("amqp unavailable, events disabled", slog.Any("error", err))
		} else {
			events = amqpPublisher
			probes["broker"] = func(context.Context) error { return amqpPublisher.Ping() }
		}
	}
	defer events.Close()

	svc := routes.NewServices(db, cacheService, events, cfg, log)

	created, err := svc.Tokens.EnsurePool(ctx, cfg.TokenPoolSize)
	if err != nil {
		return err
	}
	if created > 0 {
		log.Info("token pool extended", slog.Int("created", created), slog.Int("size", cfg.TokenPoolSize))
	}

	app := newApp(cfg, log)
	routes.SetupRoutes(app, svc, handlers.NewHealthHandler(probes, "database"), cfg, log)

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", slog.String("port", cfg.Port), slog.String("env", cfg.Env))
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func newApp(cfg *config.Config, log *slog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "canteen-api",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return utils.Respond(c, fe.Code, fiber.Map{"error": fe.Message})
			}
			log.Error("unhandled request error", slog.String("path", c.Path()), slog.Any("error", err))
			return utils.Error(c, err)
		},
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,HEAD,OPTIONS",
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Use("/api/order", limiter.New(limiter.Config{
		Max:        20,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
			})
		},
	}))

	return app
}
