// Package bootstrap wires runtime dependencies shared by the commands.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"campusgram/internal/config"
	"campusgram/internal/database"
	"campusgram/internal/middleware"
	"campusgram/internal/models"
	"campusgram/internal/redisstore"
	"campusgram/internal/seed"
	"campusgram/internal/storage"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedDemoIfEmpty fills an empty development database with demo data.
	SeedDemoIfEmpty bool
}

// Runtime holds the initialized dependencies.
type Runtime struct {
	DB    *gorm.DB
	Redis *redis.Client
	Store storage.Store
}

// InitRuntime connects to the database, Redis and the image store. Redis may be nil.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*Runtime, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	store, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	rt := &Runtime{
		DB:    db,
		Redis: redisstore.Connect(cfg.RedisURL),
		Store: store,
	}

	if opts.SeedDemoIfEmpty && cfg.Env == "development" {
		if err := seedIfEmpty(ctx, rt); err != nil {
			return nil, fmt.Errorf("demo seeding failed: %w", err)
		}
	}

	return rt, nil
}

func seedIfEmpty(ctx context.Context, rt *Runtime) error {
	var users int64
	if err := rt.DB.WithContext(ctx).Model(&models.User{}).Count(&users).Error; err != nil {
		return err
	}
	if users > 0 {
		return nil
	}

	middleware.Logger.Info("Empty development database, seeding demo data")
	res, err := seed.NewSeeder(rt.DB, rt.Store).Run(ctx, seed.DefaultOptions())
	if err != nil {
		return err
	}
	middleware.Logger.Info("Demo data ready",
		slog.Int("users", len(res.Users)),
		slog.String("password", seed.DefaultPassword),
	)
	return nil
}
