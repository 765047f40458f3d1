// cmd/server/app.go
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/codr1/bagelshop/internal/api/auth"
	"github.com/codr1/bagelshop/internal/availability"
	"github.com/codr1/bagelshop/internal/cache"
	"github.com/codr1/bagelshop/internal/config"
	"github.com/codr1/bagelshop/internal/db"
	"github.com/codr1/bagelshop/internal/menu"
	"github.com/codr1/bagelshop/internal/metrics"
	"github.com/codr1/bagelshop/internal/ratelimit"
	"github.com/codr1/bagelshop/internal/scheduler"
	"github.com/codr1/bagelshop/internal/storage"
)

// app holds the long-lived dependencies shared by the routes and jobs.
type app struct {
	db           *db.DB
	redis        *redis.Client
	availability *availability.Service
	menu         *menu.Service
	admins       *db.AdminStore
	scheduler    *scheduler.Service
	limiter      *ratelimit.Limiter
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	database, err := db.NewFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	a := &app{
		db:     database,
		admins: db.NewAdminStore(database),
		limiter: ratelimit.New(&ratelimit.Config{
			Limit:  cfg.RateLimit.PublicRequestsPerMinute,
			Window: time.Minute,
		}),
	}

	auth.InitClerk(cfg.Clerk.SecretKey)
	if cfg.Features.EnableMetrics {
		metrics.Register()
	}

	availabilityOpts := []availability.Option{
		availability.WithLocation(cfg.Location()),
		availability.WithLogger(log.Logger),
	}
	if cfg.Redis.Address != "" {
		a.redis = cache.NewClient(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
		if err := a.redis.Ping(ctx).Err(); err != nil {
			// The cache is optional; the service falls back to the database.
			log.Warn().Err(err).Str("address", cfg.Redis.Address).Msg("Redis unreachable at startup")
		}
		availabilityOpts = append(availabilityOpts, availability.WithCache(cache.NewHoursCache(a.redis, cfg.CacheTTL())))
	}
	a.availability = availability.NewService(db.NewAvailabilityStore(database), availabilityOpts...)

	menuOpts := []menu.Option{menu.WithLogger(log.Logger)}
	if cfg.Storage.Bucket != "" {
		images, err := storage.NewS3Images(ctx, cfg.Storage)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("init image storage: %w", err)
		}
		menuOpts = append(menuOpts, menu.WithImages(images))
	} else {
		log.Info().Msg("Image storage not configured; product images disabled")
	}
	a.menu = menu.NewService(db.NewMenuStore(database), menuOpts...)

	a.scheduler, err = scheduler.New(cfg.Location(), log.Logger)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("init scheduler: %w", err)
	}
	if _, err := scheduler.RegisterPruneJob(a.scheduler, a.availability, cfg.Scheduler.PruneCron, cfg.Scheduler.OverrideRetentionDays); err != nil {
		a.close()
		return nil, fmt.Errorf("register prune job: %w", err)
	}

	return a, nil
}

func (a *app) close() {
	if a.limiter != nil {
		a.limiter.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close redis client")
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close database")
		}
	}
}
