package controllers

import (
	"fmt"
	"net/http"

	"go.uber.org/multierr"

	"github.com/pkock/brewhub-backend/api/responses"
	"github.com/pkock/brewhub-backend/pkg/config"
	"github.com/pkock/brewhub-backend/pkg/db"
	pkgerrors "github.com/pkock/brewhub-backend/pkg/errors"
	"github.com/pkock/brewhub-backend/pkg/logger"
	"github.com/pkock/brewhub-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-BrewHub-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady verifies the backing stores before reporting ready.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-BrewHub-Env", cfg.App.Env)

		var errs []error
		if dbP != nil {
			if err := dbP.Ping(r.Context()); err != nil {
				errs = append(errs, fmt.Errorf("database: %w", err))
			}
		}
		if redisP != nil {
			if err := redisP.Ping(r.Context()); err != nil {
				errs = append(errs, fmt.Errorf("redis: %w", err))
			}
		}
		if combined := multierr.Combine(errs...); combined != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, combined, "backing stores unavailable"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
