package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type HealthHandler struct {
	DB  *sql.DB
	Log *zap.Logger
}

// Check reports process liveness plus database reachability.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, h.Log, http.MethodGet) {
		return
	}

	status := "ok"
	code := http.StatusOK
	if h.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.DB.PingContext(ctx); err != nil {
			h.Log.Warn("health ping failed", zap.Error(err))
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
	}

	writeJSON(w, r, h.Log, code, map[string]string{"status": status})
}
