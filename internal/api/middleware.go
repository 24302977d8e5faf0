package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"freight-marketplace-service/internal/auth"
	"freight-marketplace-service/internal/platform/obs"
)

// statusWriter captures the final HTTP status code and number of bytes written.
// This helps distinguish "handler returned 200" from "client received a response".
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Record implicit 200 responses when handlers write without calling WriteHeader.
func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}

	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// loggingMiddleware assigns a request id and logs end-to-end request
// duration and response size.
func loggingMiddleware(log *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := uuid.NewString()
		ctx := obs.WithRequestID(r.Context(), reqID)

		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r.WithContext(ctx))

		log.Info("request",
			zap.String("req_id", reqID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.RequestURI()),
			zap.Int("status", sw.status),
			zap.Int("bytes", sw.bytes),
			zap.Int64("dur_ms", time.Since(start).Milliseconds()),
		)
	})
}

// authMiddleware validates the bearer token and stores the caller identity.
// The health endpoint stays open for probes.
func authMiddleware(secret string, log *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			unauthorized(w)
			return
		}

		id, err := auth.VerifyToken(secret, strings.TrimSpace(token))
		if err != nil {
			log.Debug("token rejected", zap.Error(err))
			unauthorized(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
	})
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"authentication required"}`))
}
