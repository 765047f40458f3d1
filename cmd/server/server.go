// cmd/server/server.go
package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/codr1/bagelshop/internal/api"
	"github.com/codr1/bagelshop/internal/api/admins"
	"github.com/codr1/bagelshop/internal/api/auth"
	"github.com/codr1/bagelshop/internal/api/export"
	"github.com/codr1/bagelshop/internal/api/hours"
	"github.com/codr1/bagelshop/internal/api/products"
	"github.com/codr1/bagelshop/internal/api/storefront"
	"github.com/codr1/bagelshop/internal/config"
	"github.com/codr1/bagelshop/internal/metrics"
)

func newServer(cfg *config.Config, a *app) *http.Server {
	router := http.NewServeMux()

	// Setup middleware chain
	handler := api.ChainMiddleware(
		router,
		api.WithAdmin(a.admins),
		auth.WithClerkSession,
		api.WithLogging,
		api.WithRecovery,
		api.WithRequestID,
	)

	hours.InitHandlers(a.availability)
	export.InitHandlers(a.availability)
	storefront.InitHandlers(a.availability, cfg.App.Name)
	products.InitHandlers(a.menu)
	admins.InitHandlers(a.admins, cfg.Features.AllowAdminSetup)

	// Register routes
	registerRoutes(router, cfg, a.limiter.Middleware(cfg.RateLimit.TrustProxy))

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func adminOnly(h http.HandlerFunc) http.Handler {
	return api.RequireAdmin(h)
}

func registerRoutes(mux *http.ServeMux, cfg *config.Config, throttle api.Middleware) {
	public := func(h http.HandlerFunc) http.Handler {
		return throttle(h)
	}

	// Public page
	mux.HandleFunc("GET /", storefront.HandleHomePage)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	if cfg.Features.EnableMetrics {
		mux.Handle("GET /metrics", metrics.Handler())
	}

	// Public hours
	mux.Handle("GET /api/v1/hours", public(hours.HandleBusinessHours))
	mux.Handle("GET /api/v1/hours/open", public(hours.HandleOpenStatus))
	mux.Handle("GET /api/v1/hours/calendar.ics", public(hours.HandleCalendarFeed))

	// Public menu
	mux.Handle("GET /api/v1/menu", public(products.HandlePublicMenu))
	mux.Handle("GET /api/v1/menu/batch-options", public(products.HandleBatchOptions))

	// Session
	mux.HandleFunc("GET /api/v1/me", admins.HandleCurrentUser)
	mux.Handle("POST /api/v1/setup/admin", public(admins.HandleSetupAdmin))

	// Schedule admin
	mux.Handle("GET /api/v1/admin/schedules", adminOnly(hours.HandleListSchedules))
	mux.Handle("POST /api/v1/admin/schedules", adminOnly(hours.HandleCreateSchedule))
	mux.Handle("PATCH /api/v1/admin/schedules/{id}", adminOnly(hours.HandleUpdateSchedule))
	mux.Handle("DELETE /api/v1/admin/schedules/{id}", adminOnly(hours.HandleDeleteSchedule))
	mux.Handle("PUT /api/v1/admin/schedules/{id}/active", adminOnly(hours.HandleSetScheduleActive))

	// Override admin
	mux.Handle("GET /api/v1/admin/overrides", adminOnly(hours.HandleListOverrides))
	mux.Handle("POST /api/v1/admin/overrides", adminOnly(hours.HandleCreateOverride))
	mux.Handle("PATCH /api/v1/admin/overrides/{id}", adminOnly(hours.HandleUpdateOverride))
	mux.Handle("DELETE /api/v1/admin/overrides/{id}", adminOnly(hours.HandleDeleteOverride))
	mux.Handle("GET /api/v1/admin/export.xlsx", adminOnly(export.HandleExportWorkbook))

	// Product admin
	mux.Handle("GET /api/v1/admin/products", adminOnly(products.HandleListProducts))
	mux.Handle("POST /api/v1/admin/products", adminOnly(products.HandleCreateProduct))
	mux.Handle("GET /api/v1/admin/products/categories", adminOnly(products.HandleCategories))
	mux.Handle("GET /api/v1/admin/products/statuses", adminOnly(products.HandleStatusOptions))
	mux.Handle("POST /api/v1/admin/products/bulk-delete", adminOnly(products.HandleBulkDelete))
	mux.Handle("POST /api/v1/admin/products/upload-url", adminOnly(products.HandleUploadURL))
	mux.Handle("PATCH /api/v1/admin/products/{id}", adminOnly(products.HandleUpdateProduct))
	mux.Handle("DELETE /api/v1/admin/products/{id}", adminOnly(products.HandleDeleteProduct))
	mux.Handle("PUT /api/v1/admin/products/{id}/availability", adminOnly(products.HandleSetAvailability))

	// Admin management
	mux.Handle("GET /api/v1/admin/me", adminOnly(admins.HandleAdminMe))
	mux.Handle("GET /api/v1/admin/admins", adminOnly(admins.HandleListAdmins))
	mux.Handle("DELETE /api/v1/admin/admins/{userId}", adminOnly(admins.HandleRemoveAdmin))
}
