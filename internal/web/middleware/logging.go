// Package middleware provides HTTP middleware for the web server.
package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/orderlist/internal/core"
	"github.com/JonMunkholm/orderlist/internal/logging"
)

type annotationKey struct{}

// annotation collects values that handlers learn after Logger has run,
// such as the list session id.
type annotation struct {
	mu        sync.Mutex
	sessionID string
}

// AnnotateSession records the list session id for the request log entry.
// It is a no-op outside Logger.
func AnnotateSession(ctx context.Context, sessionID string) {
	a, ok := ctx.Value(annotationKey{}).(*annotation)
	if !ok {
		return
	}
	a.mu.Lock()
	a.sessionID = sessionID
	a.mu.Unlock()
}

// Logger is an HTTP middleware that logs one structured entry per request.
//
// Log fields:
//   - method, path: request line
//   - status, bytes: response status code and body size
//   - duration_ms: request processing time in milliseconds
//   - ip: client IP after TrustedRealIP
//   - request_id: chi request id
//   - session_id: list session, when a handler resolved one
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		a := &annotation{}

		next.ServeHTTP(ww, r.WithContext(context.WithValue(r.Context(), annotationKey{}, a)))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		logger := logging.FromContext(r.Context())
		a.mu.Lock()
		if a.sessionID != "" {
			logger = logger.With("session_id", a.sessionID)
		}
		a.mu.Unlock()

		ip := core.IPAddressFromContext(r.Context())
		if ip == "" {
			ip = r.RemoteAddr
		}

		log := logger.Info
		if status >= http.StatusInternalServerError {
			log = logger.Error
		}
		log("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds(),
			"ip", ip,
			"user_agent", r.UserAgent(),
		)
	})
}
