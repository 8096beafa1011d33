// internal/ledger/ledger.go

// Package ledger is the authoritative record of court bookings. It is the
// only component that mutates booking rows; availability and occupancy are
// derived reads. The no-double-booking invariant is enforced by a partial
// unique index on (court_id, slot_start) for confirmed rows, so the
// check-and-insert is atomic at the database rather than guarded by an
// application-side read.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	appdb "github.com/courtside/courtside/internal/db"
	dbgen "github.com/courtside/courtside/internal/db/generated"
	"github.com/courtside/courtside/internal/feed"
	"github.com/courtside/courtside/internal/schedule"
)

// Actor identifies who is performing a mutation. Identity itself is owned
// by an external collaborator; the ledger only consumes id and role.
type Actor struct {
	ID         int64
	IsStaff    bool
	HomeClubID *int64
}

// CanManage reports whether the actor may cancel a booking it did not
// create. Staff without a home club may act across clubs.
func (a Actor) CanManage(clubID int64) bool {
	if !a.IsStaff {
		return false
	}
	if a.HomeClubID == nil {
		return true
	}
	return *a.HomeClubID == clubID
}

// Service owns booking mutations and publishes every committed change on
// the club's feed topic exactly once.
type Service struct {
	db    *appdb.DB
	hub   *feed.Hub
	clock clockwork.Clock
}

func NewService(database *appdb.DB, hub *feed.Hub, clock clockwork.Clock) *Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Service{db: database, hub: hub, clock: clock}
}

type CreateParams struct {
	CourtID        int64
	SlotStart      time.Time
	SlotEnd        time.Time
	Actor          Actor
	IdempotencyKey string
}

// Create books a slot. The slot must lie on the club's quantization grid
// under its current opening schedule; later schedule changes do not touch
// existing bookings. Retries carrying the same idempotency key get the
// originally created booking back instead of a conflict.
func (s *Service) Create(ctx context.Context, params CreateParams) (dbgen.Booking, error) {
	q := s.db.Queries

	court, err := q.GetCourtByID(ctx, params.CourtID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dbgen.Booking{}, fmt.Errorf("court %d: %w", params.CourtID, ErrNotFound)
		}
		return dbgen.Booking{}, fmt.Errorf("load court: %w", err)
	}
	if !court.Active {
		return dbgen.Booking{}, fmt.Errorf("court %d inactive: %w", court.ID, ErrNotOpen)
	}

	club, err := q.GetClubByID(ctx, court.ClubID)
	if err != nil {
		return dbgen.Booking{}, fmt.Errorf("load club: %w", err)
	}

	if err := s.ensureOnGrid(ctx, club, params.SlotStart, params.SlotEnd); err != nil {
		return dbgen.Booking{}, err
	}

	if params.IdempotencyKey != "" {
		existing, err := q.GetBookingByIdempotencyKey(ctx, toNullString(params.IdempotencyKey))
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return dbgen.Booking{}, fmt.Errorf("idempotency lookup: %w", err)
		}
	}

	created, err := q.CreateBooking(ctx, dbgen.CreateBookingParams{
		ClubID:         club.ID,
		CourtID:        court.ID,
		SlotStart:      params.SlotStart.UTC(),
		SlotEnd:        params.SlotEnd.UTC(),
		CreatedBy:      params.Actor.ID,
		CreatedAt:      s.clock.Now().UTC(),
		IdempotencyKey: toNullString(params.IdempotencyKey),
	})
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			if strings.Contains(sqliteErr.Error(), "idempotency_key") {
				// A concurrent retry with the same key won the insert.
				existing, lookupErr := q.GetBookingByIdempotencyKey(ctx, toNullString(params.IdempotencyKey))
				if lookupErr == nil {
					return existing, nil
				}
			}
			return dbgen.Booking{}, fmt.Errorf("court %d at %s: %w", court.ID, params.SlotStart.Format(time.RFC3339), ErrConflict)
		}
		return dbgen.Booking{}, fmt.Errorf("insert booking: %w", err)
	}

	log.Ctx(ctx).Info().
		Int64("booking_id", created.ID).
		Int64("court_id", created.CourtID).
		Time("slot_start", created.SlotStart).
		Int64("actor_id", params.Actor.ID).
		Msg("Booking created")
	s.publish(feed.Event{Type: feed.EventCreated, Booking: created})
	return created, nil
}

// Cancel transitions a confirmed booking to cancelled. Cancelled is
// terminal; cancelling an already-cancelled booking is an idempotent
// success so racing double-cancels never report spurious failure.
func (s *Service) Cancel(ctx context.Context, bookingID int64, actor Actor) (dbgen.Booking, error) {
	q := s.db.Queries

	booking, err := q.GetBookingByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dbgen.Booking{}, fmt.Errorf("booking %d: %w", bookingID, ErrNotFound)
		}
		return dbgen.Booking{}, fmt.Errorf("load booking: %w", err)
	}

	if booking.Status == StatusCancelled {
		return booking, nil
	}

	if booking.CreatedBy != actor.ID && !actor.CanManage(booking.ClubID) {
		return dbgen.Booking{}, fmt.Errorf("booking %d: %w", bookingID, ErrForbidden)
	}

	now := s.clock.Now()
	if !booking.SlotStart.After(now) {
		return dbgen.Booking{}, fmt.Errorf("booking %d started %s: %w", bookingID, booking.SlotStart.Format(time.RFC3339), ErrPastSlot)
	}

	cancelled, err := q.CancelBooking(ctx, dbgen.CancelBookingParams{
		CancelledAt: sql.NullTime{Time: now.UTC(), Valid: true},
		ID:          bookingID,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Lost the compare-and-swap to a concurrent cancel.
			current, readErr := q.GetBookingByID(ctx, bookingID)
			if readErr == nil && current.Status == StatusCancelled {
				return current, nil
			}
			return dbgen.Booking{}, fmt.Errorf("booking %d changed concurrently: %w", bookingID, err)
		}
		return dbgen.Booking{}, fmt.Errorf("cancel booking: %w", err)
	}

	log.Ctx(ctx).Info().
		Int64("booking_id", cancelled.ID).
		Int64("court_id", cancelled.CourtID).
		Int64("actor_id", actor.ID).
		Msg("Booking cancelled")
	s.publish(feed.Event{Type: feed.EventUpdated, Booking: cancelled})
	return cancelled, nil
}

// Get returns the booking or ErrNotFound.
func (s *Service) Get(ctx context.Context, bookingID int64) (dbgen.Booking, error) {
	booking, err := s.db.Queries.GetBookingByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dbgen.Booking{}, fmt.Errorf("booking %d: %w", bookingID, ErrNotFound)
		}
		return dbgen.Booking{}, fmt.Errorf("load booking: %w", err)
	}
	return booking, nil
}

const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

func (s *Service) ensureOnGrid(ctx context.Context, club dbgen.Club, slotStart, slotEnd time.Time) error {
	week, err := WeekScheduleFor(ctx, s.db.Queries, club.ID)
	if err != nil {
		return err
	}

	loc, err := time.LoadLocation(club.Timezone)
	if err != nil {
		return fmt.Errorf("club %d timezone %q: %w", club.ID, club.Timezone, err)
	}

	duration := time.Duration(club.SlotDurationMinutes) * time.Minute
	if !schedule.Aligned(week, duration, slotStart.In(loc), slotEnd.In(loc)) {
		return fmt.Errorf("court slot %s: %w", slotStart.Format(time.RFC3339), ErrNotOpen)
	}
	return nil
}

// WeekScheduleFor loads a club's opening hours as a WeekSchedule. Shared
// with the availability resolver and occupancy metrics.
func WeekScheduleFor(ctx context.Context, q dbgen.Querier, clubID int64) (schedule.WeekSchedule, error) {
	rows, err := q.ListOpeningHours(ctx, clubID)
	if err != nil {
		return nil, fmt.Errorf("load opening hours: %w", err)
	}
	week := make(schedule.WeekSchedule, len(rows))
	for _, row := range rows {
		week[time.Weekday(row.DayOfWeek)] = schedule.DayHours{
			Open:  schedule.TimeOfDay(row.OpenMinutes),
			Close: schedule.TimeOfDay(row.CloseMinutes),
		}
	}
	return week, nil
}

func (s *Service) publish(event feed.Event) {
	if s.hub == nil {
		return
	}
	s.hub.Publish(event.Booking.ClubID, event)
}

func toNullString(value string) sql.NullString {
	if value == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}
