// cmd/server/server.go
package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/courtside/courtside/internal/api"
	availabilityapi "github.com/courtside/courtside/internal/api/availability"
	"github.com/courtside/courtside/internal/api/bookings"
	"github.com/courtside/courtside/internal/api/changefeed"
	"github.com/courtside/courtside/internal/api/clubs"
	occupancyapi "github.com/courtside/courtside/internal/api/occupancy"
	"github.com/courtside/courtside/internal/config"
	"github.com/courtside/courtside/internal/db"
	"github.com/courtside/courtside/internal/feed"
	"github.com/courtside/courtside/internal/ledger"
	"github.com/courtside/courtside/internal/occupancy"
	"github.com/courtside/courtside/internal/ratelimit"

	availabilitysvc "github.com/courtside/courtside/internal/availability"
)

type serverDeps struct {
	db       *db.DB
	hub      *feed.Hub
	ledger   *ledger.Service
	resolver *availabilitysvc.Service
	reporter *occupancy.Service
	limiter  *ratelimit.Limiter
}

func newServer(cfg *config.Config, deps serverDeps) *http.Server {
	router := http.NewServeMux()

	// Setup middleware chain
	handler := api.ChainMiddleware(
		router,
		api.WithActor,
		api.WithLogging,
		api.WithRecovery,
		api.WithRequestID,
		api.WithContentType,
	)

	bookings.InitHandlers(deps.ledger, deps.limiter)
	availabilityapi.InitHandlers(deps.resolver, deps.db)
	changefeed.InitHandlers(deps.hub)
	occupancyapi.InitHandlers(deps.reporter, deps.db)
	clubs.InitHandlers(deps.db.Queries)

	registerRoutes(router)

	return &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.App.Port),
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		// No write timeout: the event stream holds its response open
		// indefinitely.
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}
}

func registerRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Booking ledger
	mux.HandleFunc("POST /api/v1/bookings", bookings.HandleBookingCreate)
	mux.HandleFunc("GET /api/v1/bookings/{id}", bookings.HandleBookingGet)
	mux.HandleFunc("DELETE /api/v1/bookings/{id}", bookings.HandleBookingCancel)

	// Availability, change feed, occupancy
	mux.HandleFunc("GET /api/v1/clubs/{id}/availability", availabilityapi.HandleAvailability)
	mux.HandleFunc("GET /api/v1/clubs/{id}/events", changefeed.HandleEvents)
	mux.HandleFunc("GET /api/v1/clubs/{id}/occupancy", occupancyapi.HandleOccupancy)

	// Master data; mutations are staff-only
	mux.HandleFunc("GET /api/v1/clubs", clubs.HandleClubList)
	mux.Handle("POST /api/v1/clubs", api.WithStaffAuth(http.HandlerFunc(clubs.HandleClubCreate)))
	mux.HandleFunc("GET /api/v1/clubs/{id}/courts", clubs.HandleCourtList)
	mux.Handle("POST /api/v1/courts", api.WithStaffAuth(http.HandlerFunc(clubs.HandleCourtCreate)))
	mux.HandleFunc("GET /api/v1/clubs/{id}/hours", clubs.HandleOpeningHoursList)
	mux.Handle("PUT /api/v1/clubs/{id}/hours/{day_of_week}", api.WithStaffAuth(http.HandlerFunc(clubs.HandleOpeningHoursUpdate)))
}
