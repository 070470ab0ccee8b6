package middleware

import (
	"log"
	"net/http"
	"strings"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

var logSanitizer = strings.NewReplacer("\n", "", "\r", "")

// Logger logs method, path, status, response size and duration of every request,
// prefixed with the request ID when chi's RequestID middleware runs first.
// The request ID is also echoed in the X-Request-Id response header.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := chimiddleware.GetReqID(r.Context())
		if id != "" {
			w.Header().Set("X-Request-Id", id)
		}
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		prefix := ""
		if id != "" {
			prefix = "[" + id + "] "
		}
		// Method and path are user-supplied; CR/LF are stripped to prevent log injection.
		//nolint:gosec // G706: values sanitized above.
		log.Printf(
			"%s%s %s %d %dB %s",
			prefix,
			logSanitizer.Replace(r.Method),
			logSanitizer.Replace(r.URL.Path),
			status,
			ww.BytesWritten(),
			time.Since(start),
		)
	})
}
