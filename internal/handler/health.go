package handler

import (
	"context"
	"encoding/json"
	"net/http"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// Health returns a health check handler that verifies database connectivity.
// A nil db means the service runs without a database.
func Health(db pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		code := http.StatusOK
		database := "disabled"

		if db != nil {
			database = "ok"
			if err := db.Ping(r.Context()); err != nil {
				status = "degraded"
				database = "unreachable"
				code = http.StatusServiceUnavailable
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": status, "database": database})
	}
}
