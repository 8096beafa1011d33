// internal/occupancy/occupancy.go

// Package occupancy reports confirmed bookings as a share of theoretical
// slot capacity. The figure is recomputed on demand from the schedule and
// the ledger; it is a reporting number, not a control input, so nothing is
// incrementally maintained.
package occupancy

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
// date range see the same time the elapsed-slot rules use.
func (s *Service) Now() time.Time {
	return s.clock.Now()
}

// Report carries the occupancy rate plus the terms it was derived from.
type Report struct {
	ClubID    int64     `json:"club_id"`
	From      time.Time `json:"from"`
	To        time.Time `json:"to"`
	Confirmed int64     `json:"confirmed"`
	Capacity  int64     `json:"capacity"`
	Rate      float64   `json:"rate"`
}

// Rate computes confirmed bookings over theoretical capacity for the
// club's active courts across the inclusive date range. A club with no
// capacity in the period reports zero.
func (s *Service) Rate(ctx context.Context, clubID int64, from, to time.Time) (Report, error) {
	q := s.db.Queries

	club, err := q.GetClubByID(ctx, clubID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Report{}, fmt.Errorf("club %d: %w", clubID, ledger.ErrNotFound)
		}
		return Report{}, fmt.Errorf("load club: %w", err)
	}

	loc, err := time.LoadLocation(club.Timezone)
	if err != nil {
		return Report{}, fmt.Errorf("club %d timezone %q: %w", club.ID, club.Timezone, err)
	}

	week, err := ledger.WeekScheduleFor(ctx, q, club.ID)
	if err != nil {
		return Report{}, err
	}

	courts, err := q.ListActiveCourts(ctx, club.ID)
	if err != nil {
		return Report{}, fmt.Errorf("load courts: %w", err)
	}

	type slotKey struct {
		courtID int64
		start   int64
	}

	duration := time.Duration(club.SlotDurationMinutes) * time.Minute
	var capacity int64
	grid := make(map[slotKey]struct{})
	for _, court := range courts {
		slots, err := schedule.Generate(court.ID, week, duration, from.In(loc), to.In(loc))
		if err != nil {
			return Report{}, fmt.Errorf("capacity for court %d: %w", court.ID, err)
		}
		capacity += int64(len(slots))
		for _, slot := range slots {
			grid[slotKey{courtID: court.ID, start: slot.Start.Unix()}] = struct{}{}
		}
	}

	// The query window extends past the last date because overnight hours
	// put that date's trailing slots after midnight. Only bookings that
	// land on the period's grid count.
	fromDay := from.In(loc)
	windowStart := time.Date(fromDay.Year(), fromDay.Month(), fromDay.Day(), 0, 0, 0, 0, loc)
	toDay := to.In(loc)
	windowEnd := time.Date(toDay.Year(), toDay.Month(), toDay.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 2)

	bookings, err := q.ListConfirmedBookings(ctx, dbgen.ListConfirmedBookingsParams{
		ClubID:      club.ID,
		SlotStart:   windowStart.UTC(),
		SlotStart_2: windowEnd.UTC(),
	})
	if err != nil {
		return Report{}, fmt.Errorf("count bookings: %w", err)
	}
	var confirmed int64
	for _, booking := range bookings {
		if _, ok := grid[slotKey{courtID: booking.CourtID, start: booking.SlotStart.Unix()}]; ok {
			confirmed++
		}
	}

	report := Report{
		ClubID:    club.ID,
		From:      from,
		To:        to,
		Confirmed: confirmed,
		Capacity:  capacity,
	}
	if capacity > 0 {
		report.Rate = float64(confirmed) / float64(capacity)
	}
	return report, nil
}
