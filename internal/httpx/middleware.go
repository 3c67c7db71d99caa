package httpx

import (
	"net/http"
	"strings"
	"time"

	"github.com/ariefcatur/barbershop-dashboard/internal/apperr"
	"github.com/ariefcatur/barbershop-dashboard/internal/auth"
	"github.com/ariefcatur/barbershop-dashboard/internal/feed"
	"github.com/ariefcatur/barbershop-dashboard/internal/obs"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// TokenParser is satisfied by *auth.Tokens.
type TokenParser interface {
	Parse(raw string) (auth.User, error)
}

// Authenticate requires a bearer token and stores its user in the context.
func Authenticate(tp TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || raw == "" {
				writeError(w, r, apperr.ErrUnauthorized)
				return
			}
			u, err := tp.Parse(strings.TrimSpace(raw))
			if err != nil {
				writeError(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), u)))
		})
	}
}

func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := auth.FromContext(r.Context())
		if !ok {
			writeError(w, r, apperr.ErrUnauthorized)
			return
		}
		if !u.IsAdmin() {
			writeError(w, r, apperr.ErrForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RateLimit limits requests per client IP. rate uses the limiter format,
// e.g. "300-M".
func RateLimit(rate string) (func(http.Handler) http.Handler, error) {
	rt, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, err
	}
	mw := stdlib.NewMiddleware(limiter.New(memory.NewStore(), rt))
	return mw.Handler, nil
}

// RequestLog logs one line per request and tags published change events
// with the request id.
func RequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		reqID := middleware.GetReqID(r.Context())
		next.ServeHTTP(ww, r.WithContext(feed.WithTrace(r.Context(), reqID)))

		obs.Logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", reqID,
		)
	})
}
