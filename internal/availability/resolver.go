// internal/availability/resolver.go

// Package availability answers "which slots are free" for a club's courts.
// It is a pure read over the slot calendar and the booking ledger; nothing
// here is cached or stored, so the view cannot drift from the ledger.
package availability

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	appdb "github.com/courtside/courtside/internal/db"
	dbgen "github.com/courtside/courtside/internal/db/generated"
	"github.com/courtside/courtside/internal/ledger"
	"github.com/courtside/courtside/internal/schedule"
)

type Service struct {
	db    *appdb.DB
	clock clockwork.Clock
}

func NewService(database *appdb.DB, clock clockwork.Clock) *Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Service{db: database, clock: clock}
}

// Now reports the service clock's current time, so callers defaulting a
// date range see the same time the elapsed-slot filter uses.
func (s *Service) Now() time.Time {
	return s.clock.Now()
}

type ResolveParams struct {
	ClubID int64
	From   time.Time
	To     time.Time
	// CourtIDs restricts the result to the listed courts; empty means all
	// active courts.
	CourtIDs []int64
	// IncludePast keeps slots whose start has already elapsed. Player
	// views leave this false; staff audit views set it.
	IncludePast bool
}

type CourtSlot struct {
	CourtID   int64         `json:"court_id"`
	CourtName string        `json:"court_name"`
	Slot      schedule.Slot `json:"slot"`
	Available bool          `json:"available"`
}

// Resolve generates the slot calendar for each matching court across the
// date range and marks a slot taken iff a confirmed booking occupies its
// (court, start) pair.
func (s *Service) Resolve(ctx context.Context, params ResolveParams) ([]CourtSlot, error) {
	q := s.db.Queries

	club, err := q.GetClubByID(ctx, params.ClubID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("club %d: %w", params.ClubID, ledger.ErrNotFound)
		}
		return nil, fmt.Errorf("load club: %w", err)
	}

	loc, err := time.LoadLocation(club.Timezone)
	if err != nil {
		return nil, fmt.Errorf("club %d timezone %q: %w", club.ID, club.Timezone, err)
	}

	week, err := ledger.WeekScheduleFor(ctx, q, club.ID)
	if err != nil {
		return nil, err
	}

	courts, err := q.ListActiveCourts(ctx, club.ID)
	if err != nil {
		return nil, fmt.Errorf("load courts: %w", err)
	}
	if len(params.CourtIDs) > 0 {
		wanted := make(map[int64]struct{}, len(params.CourtIDs))
		for _, id := range params.CourtIDs {
			wanted[id] = struct{}{}
		}
		filtered := courts[:0]
		for _, court := range courts {
			if _, ok := wanted[court.ID]; ok {
				filtered = append(filtered, court)
			}
		}
		courts = filtered
	}

	taken, err := s.confirmedSlots(ctx, club.ID, params.From, params.To, loc)
	if err != nil {
		return nil, err
	}

	duration := time.Duration(club.SlotDurationMinutes) * time.Minute
	now := s.clock.Now()

	var result []CourtSlot
	for _, court := range courts {
		slots, err := schedule.Generate(court.ID, week, duration, params.From.In(loc), params.To.In(loc))
		if err != nil {
			return nil, fmt.Errorf("generate slots for court %d: %w", court.ID, err)
		}
		for _, slot := range slots {
			if !params.IncludePast && !slot.Start.After(now) {
				continue
			}
			_, booked := taken[slotKey{court.ID, slot.Start.Unix()}]
			result = append(result, CourtSlot{
				CourtID:   court.ID,
				CourtName: court.Name,
				Slot:      slot,
				Available: !booked,
			})
		}
	}
	return result, nil
}

type slotKey struct {
	courtID   int64
	startUnix int64
}

func (s *Service) confirmedSlots(ctx context.Context, clubID int64, from, to time.Time, loc *time.Location) (map[slotKey]struct{}, error) {
	from = from.In(loc)
	windowStart := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, loc)
	to = to.In(loc)
	// Overnight opening windows place slots up to a day past the last
	// calendar date, so the query window extends accordingly.
	windowEnd := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 2)

	bookings, err := s.db.Queries.ListConfirmedBookings(ctx, dbgen.ListConfirmedBookingsParams{
		ClubID:      clubID,
		SlotStart:   windowStart.UTC(),
		SlotStart_2: windowEnd.UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("load confirmed bookings: %w", err)
	}

	taken := make(map[slotKey]struct{}, len(bookings))
	for _, booking := range bookings {
		taken[slotKey{booking.CourtID, booking.SlotStart.Unix()}] = struct{}{}
	}
	return taken, nil
}
