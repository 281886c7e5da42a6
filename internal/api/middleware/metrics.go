package middleware

import (
	"net/http"
	"strconv"
	"time"

	"loan-ledger/internal/infrastructure/monitoring"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const unmatchedRoute = "unmatched"

// MetricsMiddleware records request count and latency labelled by the chi
// route pattern, so /api/customer/{accountNo} is one series regardless of id.
func MetricsMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				routePattern := unmatchedRoute
				if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
					routePattern = rctx.RoutePattern()
				}
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				monitoring.RecordHTTPRequest(r.Method, routePattern, strconv.Itoa(status), time.Since(start))
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
