package main

import (
	"time"

	"go-erp/internal/app"
	"go-erp/internal/bootstrap"
	"go-erp/internal/config"
	"go-erp/internal/shared/apperror"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := bootstrap.NewLogger(cfg.Env, cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	apperror.Init()

	a, err := app.BuildApp(cfg, logger)
	if err != nil {
		logger.Fatal("build app failed", zap.Error(err))
	}

	err = bootstrap.StartHTTPServer(
		a.Router,
		bootstrap.ServerConfig{
			Port:         cfg.Port,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		bootstrap.NewZapAuditLogger(logger),
		func() {
			if err := a.Close(); err != nil {
				logger.Warn("close app resources failed", zap.Error(err))
			}
		},
	)
	if err != nil {
		logger.Fatal("http server failed", zap.Error(err))
	}
}
