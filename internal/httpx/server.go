package httpx

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// API holds the handlers mounted under /api.
type API struct {
	Members *MembersHandler
	Catalog *CatalogHandler
	Barbers *BarbersHandler
	Sales   *SalesHandler
	Reports *ReportsHandler
}

type Options struct {
	Tokens    TokenParser
	RateLimit func(http.Handler) http.Handler
	Timeout   time.Duration
}

func NewRouter(api API, opt Options) *chi.Mux {
	if opt.Timeout <= 0 {
		opt.Timeout = 15 * time.Second
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, RequestLog, middleware.Recoverer)
	r.Use(middleware.Timeout(opt.Timeout))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		if opt.RateLimit != nil {
			r.Use(opt.RateLimit)
		}
		r.Use(Authenticate(opt.Tokens))
		if api.Members != nil {
			api.Members.Register(r)
		}
		if api.Catalog != nil {
			api.Catalog.Register(r)
		}
		if api.Barbers != nil {
			api.Barbers.Register(r)
		}
		if api.Sales != nil {
			api.Sales.Register(r)
		}
		if api.Reports != nil {
			api.Reports.Register(r)
		}
	})
	return r
}
