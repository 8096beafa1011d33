// internal/api/bookings/handlers.go
package bookings

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/courtside/courtside/internal/api/apiutil"
	"github.com/courtside/courtside/internal/api/authz"
	dbgen "github.com/courtside/courtside/internal/db/generated"
	"github.com/courtside/courtside/internal/ledger"
	"github.com/courtside/courtside/internal/ratelimit"
)

var (
	service     *ledger.Service
	limiter     *ratelimit.Limiter
	serviceOnce sync.Once
)

const bookingQueryTimeout = 5 * time.Second

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(ledgerService *ledger.Service, rateLimiter *ratelimit.Limiter) {
	if ledgerService == nil {
		return
	}
	serviceOnce.Do(func() {
		service = ledgerService
		limiter = rateLimiter
	})
}

type createBookingRequest struct {
	CourtID        int64  `json:"court_id"`
	SlotStart      string `json:"slot_start"`
	SlotEnd        string `json:"slot_end"`
	IdempotencyKey string `json:"idempotency_key,omitempty"`
}

type bookingResponse struct {
	ID             int64      `json:"id"`
	ClubID         int64      `json:"club_id"`
	CourtID        int64      `json:"court_id"`
	SlotStart      time.Time  `json:"slot_start"`
	SlotEnd        time.Time  `json:"slot_end"`
	Status         string     `json:"status"`
	CreatedBy      int64      `json:"created_by"`
	CreatedAt      time.Time  `json:"created_at"`
	CancelledAt    *time.Time `json:"cancelled_at,omitempty"`
	IdempotencyKey string     `json:"idempotency_key,omitempty"`
}

// POST /api/v1/bookings
func HandleBookingCreate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	svc := loadService()
	if svc == nil {
		logger.Error().Msg("Booking service not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	actor, err := authz.RequireActor(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req createBookingRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.CourtID <= 0 {
		http.Error(w, "court_id must be greater than 0", http.StatusBadRequest)
		return
	}

	slotStart, err := apiutil.ParseRFC3339Field(req.SlotStart, "slot_start")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	slotEnd, err := apiutil.ParseRFC3339Field(req.SlotEnd, "slot_end")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !slotEnd.After(slotStart) {
		http.Error(w, "slot_end must be after slot_start", http.StatusBadRequest)
		return
	}

	idempotencyKey := strings.TrimSpace(req.IdempotencyKey)
	if headerKey := strings.TrimSpace(r.Header.Get("Idempotency-Key")); headerKey != "" {
		idempotencyKey = headerKey
	}

	if lim := loadLimiter(); lim != nil {
		ip := ratelimit.GetClientIP(r, false)
		if result := lim.CheckBookingCreate(actor.ID, ip); !result.Allowed {
			ratelimit.LogRateLimitExceeded("booking_create", actor.ID, ip, result.Reason)
			w.Header().Set("Retry-After", result.RetryAfterHeader())
			http.Error(w, "Too many booking attempts", http.StatusTooManyRequests)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), bookingQueryTimeout)
	defer cancel()

	booking, err := svc.Create(ctx, ledger.CreateParams{
		CourtID:        req.CourtID,
		SlotStart:      slotStart,
		SlotEnd:        slotEnd,
		Actor:          *actor,
		IdempotencyKey: idempotencyKey,
	})
	if err != nil {
		writeLedgerError(w, r, err, "Failed to create booking")
		return
	}

	if lim := loadLimiter(); lim != nil {
		lim.RecordBookingCreate(actor.ID, ratelimit.GetClientIP(r, false))
	}

	logger.Info().
		Int64("booking_id", booking.ID).
		Int64("court_id", booking.CourtID).
		Time("slot_start", booking.SlotStart).
		Msg("Booking created")

	if err := apiutil.WriteJSON(w, http.StatusCreated, toBookingResponse(booking)); err != nil {
		logger.Error().Err(err).Msg("Failed to write booking response")
	}
}

// DELETE /api/v1/bookings/{id}
func HandleBookingCancel(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	svc := loadService()
	if svc == nil {
		logger.Error().Msg("Booking service not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	actor, err := authz.RequireActor(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	bookingID, err := apiutil.PathID(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), bookingQueryTimeout)
	defer cancel()

	booking, err := svc.Cancel(ctx, bookingID, *actor)
	if err != nil {
		writeLedgerError(w, r, err, "Failed to cancel booking")
		return
	}

	logger.Info().
		Int64("booking_id", booking.ID).
		Int64("actor_id", actor.ID).
		Msg("Booking cancelled")

	if err := apiutil.WriteJSON(w, http.StatusOK, toBookingResponse(booking)); err != nil {
		logger.Error().Err(err).Msg("Failed to write booking response")
	}
}

// GET /api/v1/bookings/{id}
func HandleBookingGet(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	svc := loadService()
	if svc == nil {
		logger.Error().Msg("Booking service not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	bookingID, err := apiutil.PathID(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), bookingQueryTimeout)
	defer cancel()

	booking, err := svc.Get(ctx, bookingID)
	if err != nil {
		writeLedgerError(w, r, err, "Failed to fetch booking")
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, toBookingResponse(booking)); err != nil {
		logger.Error().Err(err).Msg("Failed to write booking response")
	}
}

func writeLedgerError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusNotFound, Message: "Booking or court not found", Err: err})
	case errors.Is(err, ledger.ErrConflict):
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusConflict, Message: "Slot is already booked", Err: err})
	case errors.Is(err, ledger.ErrPastSlot):
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusConflict, Message: "Slot start has already elapsed", Err: err})
	case errors.Is(err, ledger.ErrNotOpen):
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusUnprocessableEntity, Message: "Slot does not match the club's bookable calendar", Err: err})
	case errors.Is(err, ledger.ErrForbidden):
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusForbidden, Message: "Forbidden", Err: err})
	default:
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusInternalServerError, Message: fallback, Err: err})
	}
}

func toBookingResponse(booking dbgen.Booking) bookingResponse {
	resp := bookingResponse{
		ID:        booking.ID,
		ClubID:    booking.ClubID,
		CourtID:   booking.CourtID,
		SlotStart: booking.SlotStart.UTC(),
		SlotEnd:   booking.SlotEnd.UTC(),
		Status:    booking.Status,
		CreatedBy: booking.CreatedBy,
		CreatedAt: booking.CreatedAt.UTC(),
	}
	if booking.CancelledAt.Valid {
		cancelledAt := booking.CancelledAt.Time.UTC()
		resp.CancelledAt = &cancelledAt
	}
	if booking.IdempotencyKey.Valid {
		resp.IdempotencyKey = booking.IdempotencyKey.String
	}
	return resp
}

func loadService() *ledger.Service {
	return service
}

func loadLimiter() *ratelimit.Limiter {
	return limiter
}
