package app

import (
	"context"
	"database/sql"
	"errors"

	"go-erp/internal/config"
	"go-erp/internal/metrics"
	"go-erp/internal/middleware"
	"go-erp/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App owns the infrastructure handles of the API process.
type App struct {
	Config  *config.Config
	Logger  *zap.Logger
	GormDB  *gorm.DB
	DB      *sql.DB
	Redis   *redis.Client
	Metrics *metrics.Service
	Router  *gin.Engine
}

func BuildApp(cfg *config.Config, logger *zap.Logger) (*App, error) {
	log := logger.Named("app")

	gormDB, err := connectDatabase(cfg)
	if err != nil {
		return nil, err
	}
	log.Info("database connection established")

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}

	if err := Migrate(gormDB); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	rdb, err := connection.ConnectRedisWithRetry(cfg.Redis.Addr, cfg.Database.MaxRetries)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	log.Info("redis connection established")

	middleware.SetJWTSecret(cfg.JWT.Secret)

	a := &App{
		Config:  cfg,
		Logger:  logger,
		GormDB:  gormDB,
		DB:      sqlDB,
		Redis:   rdb,
		Metrics: metrics.NewService(),
	}
	a.Router = newRouter(cfg, a.Metrics, healthChecks{
		"database": sqlDB.PingContext,
		"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	})

	if err := registerModules(a); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) Close() error {
	var errs []error
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}

func connectDatabase(cfg *config.Config) (*gorm.DB, error) {
	return connection.ConnectGORMWithRetry(
		cfg.Database.Host,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		cfg.Database.Port,
		cfg.Database.SSLMode,
		cfg.Database.MaxRetries,
	)
}
