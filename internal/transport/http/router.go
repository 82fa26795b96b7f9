// Package httptransport is the thin HTTP layer. Handlers decode,
// delegate to domain services, and encode; business rules live below.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"medilabel/internal/platform/middleware"
	"medilabel/internal/session"
	"medilabel/pkg/platform/httputil"
)

// Deps carries everything the router wires together.
type Deps struct {
	Logger   *slog.Logger
	Session  *session.Context
	Catalog  *CatalogHandler
	Patients *PatientHandler
	Auth     *AuthHandler
	Basket   *BasketHandler
	Print    *PrintHandler
	Audit    *AuditHandler
}

// NewRouter assembles the full route table.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Logger(deps.Logger))

	r.Get("/api/health", handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	deps.Catalog.Register(r)
	deps.Patients.Register(r)
	deps.Auth.Register(r)
	deps.Basket.Register(r)
	deps.Print.Register(r)
	deps.Audit.Register(r, middleware.RequireOperator(deps.Session, deps.Logger))

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
