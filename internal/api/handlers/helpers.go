package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/arpankumarde/neevtrace/internal/api/dto"
	"github.com/arpankumarde/neevtrace/internal/services"
)

const maxBodyBytes = 1 << 20

const (
	msgInvalidQuery = "Invalid input, 'query' is required"
	msgTimeout      = "agent did not answer in time"
	msgInternal     = "internal server error"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("encode failed")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// decodeBody reads a single JSON object of at most maxBodyBytes into dst.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()

	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("body must contain only one JSON object")
	}
	return nil
}

// decodeQuery returns the query of a {"query": "..."} body. ok is false when
// the body is not an object with a string query; a 400 has then been written.
func decodeQuery(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req dto.QueryRequest
	if err := decodeBody(w, r, &req); err != nil || req.Query == nil {
		writeError(w, r, http.StatusBadRequest, msgInvalidQuery)
		return "", false
	}
	return *req.Query, true
}

// writeServiceError maps a service failure to a status. Details stay in the
// log; the client only sees a fixed message.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	ev := log.Error()
	status, msg := http.StatusInternalServerError, msgInternal

	switch {
	case errors.Is(err, services.ErrEmptyQuery):
		status, msg = http.StatusBadRequest, msgInvalidQuery
		ev = log.Info()
	case errors.Is(err, services.ErrNoDocuments):
		status, msg = http.StatusBadRequest, "urls is required"
		ev = log.Info()
	case errors.Is(err, context.DeadlineExceeded):
		status, msg = http.StatusGatewayTimeout, msgTimeout
		ev = log.Warn()
	case errors.Is(err, context.Canceled):
		ev = log.Info()
	}

	ev.Err(err).
		Str("op", op).
		Str("req_id", middleware.GetReqID(r.Context())).
		Int("status", status).
		Msg("request failed")
	writeError(w, r, status, msg)
}
