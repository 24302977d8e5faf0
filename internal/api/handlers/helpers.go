package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"freight-marketplace-service/internal/auth"
	"freight-marketplace-service/internal/domain"
)

// All endpoints answer with a {"data": ...} or {"error": "..."} envelope.

func writeJSON(w http.ResponseWriter, r *http.Request, log *zap.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn("encode failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
}

func writeData(w http.ResponseWriter, r *http.Request, log *zap.Logger, status int, v any) {
	writeJSON(w, r, log, status, map[string]any{"data": v})
}

func writeError(w http.ResponseWriter, r *http.Request, log *zap.Logger, status int, msg string) {
	writeJSON(w, r, log, status, map[string]string{"error": msg})
}

// writeDomainError maps service errors onto the response taxonomy. Anything
// unrecognized is a 500 with the detail kept out of the response body.
func writeDomainError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	switch {
	case domain.IsValidation(err):
		writeError(w, r, log, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, r, log, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, r, log, http.StatusForbidden, "forbidden")
	case errors.Is(err, domain.ErrConflict):
		writeError(w, r, log, http.StatusConflict, err.Error())
	default:
		log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeError(w, r, log, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON enforces a single, strictly-shaped JSON object body.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("body must contain only one JSON object")
	}
	return nil
}

// requireMethod answers 405 itself and reports whether to continue.
func requireMethod(w http.ResponseWriter, r *http.Request, log *zap.Logger, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	for _, m := range methods {
		w.Header().Add("Allow", m)
	}
	writeError(w, r, log, http.StatusMethodNotAllowed, "method not allowed")
	return false
}

// identity pulls the authenticated caller out of the request context; the
// auth middleware guarantees it is present on protected routes.
func identity(w http.ResponseWriter, r *http.Request, log *zap.Logger) (auth.Identity, bool) {
	id, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, r, log, http.StatusUnauthorized, "authentication required")
		return auth.Identity{}, false
	}
	return id, true
}

// allow answers 403 itself when the caller's role may not perform the action.
func allow(w http.ResponseWriter, r *http.Request, log *zap.Logger, id auth.Identity, action auth.Action) bool {
	if auth.Allowed(id.Role, action) {
		return true
	}
	writeError(w, r, log, http.StatusForbidden, "forbidden")
	return false
}
