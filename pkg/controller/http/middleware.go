package http

import (
	"net/http"
	"time"

	"github.com/commguard/cerberus/pkg/utils/logging"
	"github.com/go-chi/chi/v5/middleware"
)

// accessLogger logs one line per request with status and latency
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		logging.From(r.Context()).Info("http access",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).String(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
