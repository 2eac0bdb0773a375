// Package server assembles the gin engine from configuration. It is shared
// by the standalone binary and the serverless entry point.
package server

import (
	"context"
	"time"

	"github.com/arnavshah/shiftdock-api/pkg/auth"
	"github.com/arnavshah/shiftdock-api/pkg/config"
	"github.com/arnavshah/shiftdock-api/pkg/database"
	"github.com/arnavshah/shiftdock-api/pkg/handlers"
	"github.com/arnavshah/shiftdock-api/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const sweepInterval = time.Minute

// App is a ready engine plus the resources to release on shutdown
type App struct {
	Engine *gin.Engine
	redis  *redis.Client
	cancel context.CancelFunc
}

// New connects to the database and redis (when configured) and registers the routes
func New(cfg *config.Config, log *logrus.Logger, reg *prometheus.Registry) (*App, error) {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	} else if cfg.Environment != config.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Open(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "connect database")
	}
	if err := database.Migrate(db); err != nil {
		return nil, errors.Wrap(err, "migrate database")
	}

	ctx, cancel := context.WithCancel(context.Background())
	app := &App{cancel: cancel}

	var codes auth.OTPStore
	if cfg.RedisURL != "" {
		app.redis, err = auth.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			if cfg.OTPStore == "redis" {
				cancel()
				return nil, err
			}
			log.WithError(err).Warn("redis unavailable, using in-memory stores")
		}
	}
	if cfg.OTPStore == "redis" {
		codes = auth.NewRedisOTPStore(app.redis)
	} else {
		mem := auth.NewMemoryOTPStore()
		go mem.RunSweeper(ctx, sweepInterval)
		codes = mem
	}

	limits, err := handlers.NewLimiterStore(app.redis)
	if err != nil {
		app.Close()
		return nil, err
	}
	otpLimit, err := handlers.RateLimit(cfg.OTPRateLimit, limits)
	if err != nil {
		app.Close()
		return nil, err
	}

	h := handlers.New(handlers.Deps{
		DB:       db,
		Config:   cfg,
		OTPStore: codes,
		Metrics:  metrics.New(reg),
		Log:      log,
	})

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	h.Register(r, handlers.RouteOptions{
		OTPLimit:    otpLimit,
		MetricsPath: cfg.MetricsPath,
		Gatherer:    reg,
	})
	app.Engine = r

	log.WithFields(logrus.Fields{
		"environment": cfg.Environment,
		"otp_store":   cfg.OTPStore,
		"postgres":    cfg.DatabaseURL != "",
	}).Info("application ready")
	return app, nil
}

// Close stops background work and disconnects redis
func (a *App) Close() {
	a.cancel()
	if a.redis != nil {
		_ = a.redis.Close()
	}
}
