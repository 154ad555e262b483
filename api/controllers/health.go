package controllers

import (
	"context"
	"net/http"

	"github.com/oakline/shopcart-backend/api/responses"
	"github.com/oakline/shopcart-backend/pkg/config"
	pkgerrors "github.com/oakline/shopcart-backend/pkg/errors"
	"github.com/oakline/shopcart-backend/pkg/logger"
)

type readinessPinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-ShopCart-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when the active cart persistence backend
// answers a ping.
func HealthReady(cfg *config.Config, store readinessPinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-ShopCart-Env", cfg.App.Env)

		if store != nil {
			if err := store.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cart storage unavailable"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
