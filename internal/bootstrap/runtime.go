// Package bootstrap wires the runtime dependencies shared by the binaries.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tingle/internal/cache"
	"tingle/internal/config"
	"tingle/internal/database"
	"tingle/internal/events"
	"tingle/internal/middleware"
	"tingle/internal/repository"
	"tingle/internal/service"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	ApplySchema bool
}

// InitRuntime connects to the database and Redis, applies the schema policy
// when asked to, and ensures the development credential account.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	if opts.ApplySchema {
		if err := database.ApplySchema(ctx, db, cfg); err != nil {
			return nil, nil, fmt.Errorf("apply schema: %w", err)
		}
	}

	// Redis is optional; a nil client disables caching, locks and revocation.
	r := cache.InitRedis(cfg.RedisURL)

	if err := ensureDevCredentialAccount(ctx, cfg, db); err != nil {
		return nil, nil, fmt.Errorf("failed to bootstrap development login: %w", err)
	}

	return db, r, nil
}

// InitEvents connects the domain event publisher. An unreachable broker
// degrades to the no-op publisher.
func InitEvents(cfg *config.Config) events.Publisher {
	publisher, err := events.Connect(events.Config{
		URL:           cfg.NATSURL,
		Name:          "tingle-api",
		MaxReconnects: -1,
		ReconnectWait: 2 * time.Second,
	})
	if err != nil {
		middleware.Logger.Warn("event publisher unavailable",
			slog.String("url", cfg.NATSURL), slog.String("error", err.Error()))
		return events.Nop{}
	}
	return publisher
}

func ensureDevCredentialAccount(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	if cfg == nil || db == nil || !cfg.DevLoginEnabled() {
		return nil
	}

	identity := service.NewIdentityService(repository.NewUserRepository(db), repository.NewAccountRepository(db))
	user, err := identity.EnsureCredentialAccount(ctx, cfg.DevLoginEmail, cfg.DevLoginPassword)
	if err != nil {
		return err
	}

	middleware.Logger.InfoContext(ctx, "development login ensured",
		slog.Uint64("user_id", uint64(user.ID)),
		slog.String("username", user.Username),
	)
	return nil
}
