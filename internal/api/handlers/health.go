package handlers

import (
	"net/http"
	"time"

	"github.com/arpankumarde/neevtrace/internal/api/dto"
)

// Health is a liveness check. It never touches a dependency.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	})
}

func Version(service, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, dto.VersionResponse{Service: service, Version: version})
	}
}
