package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/fmc-saas/fleet/internal/accounting/accounts"
	"github.com/fmc-saas/fleet/internal/accounting/journals"
	"github.com/fmc-saas/fleet/internal/customers"
	"github.com/fmc-saas/fleet/internal/fleet/maintenance"
	"github.com/fmc-saas/fleet/internal/fleet/rentals"
	"github.com/fmc-saas/fleet/internal/fleet/vehicles"
	"github.com/fmc-saas/fleet/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger             *slog.Logger
	Config             *Config
	AccountsHandler    *accounts.Handler
	JournalsHandler    *journals.Handler
	CustomersHandler   *customers.Handler
	VehiclesHandler    *vehicles.Handler
	MaintenanceHandler *maintenance.Handler
	RentalsHandler     *rentals.Handler
	JobHandler         *jobs.Handler
}

// NewRouter constructs the chi.Router with fleet defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.AccountsHandler != nil {
		r.Route("/accounting/accounts", params.AccountsHandler.MountRoutes)
	}
	if params.JournalsHandler != nil {
		r.Route("/accounting/journals", params.JournalsHandler.MountRoutes)
	}
	if params.CustomersHandler != nil {
		r.Route("/customers", params.CustomersHandler.MountRoutes)
	}
	if params.VehiclesHandler != nil {
		r.Route("/fleet/vehicles", func(r chi.Router) {
			params.VehiclesHandler.MountRoutes(r)
			if params.MaintenanceHandler != nil {
				r.Get("/{id}/maintenance", params.MaintenanceHandler.ListForVehicle)
			}
		})
	}
	if params.MaintenanceHandler != nil {
		r.Route("/fleet/maintenance", params.MaintenanceHandler.MountRoutes)
	}
	if params.RentalsHandler != nil {
		r.Route("/fleet/rentals", params.RentalsHandler.MountRoutes)
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}

	return r
}
