package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/haulbooks/haulbooks/internal/billing"
	"github.com/haulbooks/haulbooks/internal/contractors"
	"github.com/haulbooks/haulbooks/internal/dashboard"
	"github.com/haulbooks/haulbooks/internal/fleet"
	"github.com/haulbooks/haulbooks/internal/fuel"
	"github.com/haulbooks/haulbooks/internal/observability"
	"github.com/haulbooks/haulbooks/internal/rates"
	"github.com/haulbooks/haulbooks/internal/statements"
	"github.com/haulbooks/haulbooks/internal/trips"
	"github.com/haulbooks/haulbooks/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger             *slog.Logger
	Config             *Config
	FleetHandler       *fleet.Handler
	ContractorsHandler *contractors.Handler
	DashboardHandler   *dashboard.Handler
	TripsHandler       *trips.Handler
	RatesHandler       *rates.Handler
	BillingHandler     *billing.Handler
	StatementsHandler  *statements.Handler
	FuelHandler        *fuel.Handler
	JobHandler         *jobs.Handler
	Metrics            *observability.Metrics
}

// NewRouter constructs the chi.Router with Haulbooks defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Handle("/metrics", params.Metrics.Handler())
	}

	r.Route("/dashboard", params.DashboardHandler.MountRoutes)
	r.Route("/fleet", params.FleetHandler.MountRoutes)
	r.Route("/contractors", params.ContractorsHandler.MountRoutes)
	r.Route("/trips", params.TripsHandler.MountRoutes)
	r.Route("/rates", params.RatesHandler.MountRoutes)
	r.Route("/billing", params.BillingHandler.MountRoutes)
	r.Route("/statements", params.StatementsHandler.MountRoutes)
	r.Route("/fuel", params.FuelHandler.MountRoutes)
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}

	return r
}
