package app

import (
	"context"
	"net/http"
	"sort"
	"time"

	"go-erp/internal/config"
	"go-erp/internal/metrics"
	"go-erp/internal/middleware"
	"go-erp/internal/shared/response"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type healthChecks map[string]func(ctx context.Context) error

func newRouter(cfg *config.Config, m *metrics.Service, checks healthChecks) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Metrics(m))
	if cfg.RateLimit.RPS > 0 {
		r.Use(middleware.RateLimitByIP(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst))
	}

	r.GET("/metrics", gin.WrapH(m.Handler()))
	r.GET("/health", healthHandler(checks))

	return r
}

func healthHandler(checks healthChecks) gin.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := make(map[string]string, len(checks))
		healthy := true
		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				status[name] = err.Error()
				healthy = false
				continue
			}
			status[name] = "ok"
		}

		if !healthy {
			response.Error(c, http.StatusServiceUnavailable, "UNHEALTHY", "one or more dependencies are unavailable", status)
			return
		}
		response.Success(c, http.StatusOK, status, nil)
	}
}
