package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/nadezdatsygankova/my-english-trainer/internal/api/shared"
	"github.com/nadezdatsygankova/my-english-trainer/internal/redact"
)

// Pinger checks that a dependency is reachable. *sqlx.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

const healthPingTimeout = 2 * time.Second

// HealthHandler returns the handler for GET /health. It reports 503 when the
// database cannot be reached.
func HealthHandler(db Pinger, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			logger.Warn("health check failed", slog.String("error", redact.Error(err)))
			shared.RespondWithJSON(w, r, http.StatusServiceUnavailable, HealthResponse{
				Status:   "unavailable",
				Database: "unreachable",
			})
			return
		}
		shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{Status: "ok", Database: "ok"})
	}
}
