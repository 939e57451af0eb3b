package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/sitecms/sitecms-backend/api/responses"
	"github.com/sitecms/sitecms-backend/pkg/config"
	"github.com/sitecms/sitecms-backend/pkg/logger"
	"github.com/sitecms/sitecms-backend/pkg/types"
)

const readinessTimeout = 3 * time.Second

// Pinger is a dependency checked by the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cfg != nil {
			w.Header().Set("X-SiteCMS-Env", cfg.App.Env)
		}
		responses.WriteSuccess(w, types.HealthStatus{Status: "live"})
	}
}

// HealthReady pings every dependency and answers 503 when any of them fails.
func HealthReady(cfg *config.Config, deps map[string]Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cfg != nil {
			w.Header().Set("X-SiteCMS-Env", cfg.App.Env)
		}
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		status := types.HealthStatus{Status: "ready", Checks: map[string]string{}}
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				status.Status = "unavailable"
				status.Checks[name] = "down"
				if logg != nil {
					logg.Error(logg.WithField(ctx, "dependency", name), "health.dependency_down", err)
				}
				continue
			}
			status.Checks[name] = "ok"
		}

		if status.Status != "ready" {
			responses.WriteSuccessStatus(w, http.StatusServiceUnavailable, status)
			return
		}
		responses.WriteSuccess(w, status)
	}
}
