package occupancy

// NOTE: Tests cannot use t.Parallel() due to shared package state.

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	dbgen "github.com/courtside/courtside/internal/db/generated"
	"github.com/courtside/courtside/internal/feed"
	"github.com/courtside/courtside/internal/ledger"
	occupancysvc "github.com/courtside/courtside/internal/occupancy"
	"github.com/courtside/courtside/internal/testutil"
)

func setupOccupancyTest(t *testing.T) (dbgen.Club, dbgen.Court, *ledger.Service) {
	t.Helper()

	database := testutil.NewTestDB(t)
	ctx := context.Background()

	club, err := database.Queries.CreateClub(ctx, dbgen.CreateClubParams{
		Name:                "Hilltop Padel",
		Slug:                "hilltop",
		Timezone:            "UTC",
		SlotDurationMinutes: 60,
	})
	if err != nil {
		t.Fatalf("seed club: %v", err)
	}
	court, err := database.Queries.CreateCourt(ctx, dbgen.CreateCourtParams{
		ClubID: club.ID,
		Name:   "Court 1",
		Active: true,
	})
	if err != nil {
		t.Fatalf("seed court: %v", err)
	}
	// Monday 10:00-14:00 gives four 60-minute slots.
	if _, err := database.Queries.UpsertOpeningHours(ctx, dbgen.UpsertOpeningHoursParams{
		ClubID:       club.ID,
		DayOfWeek:    int64(time.Monday),
		OpenMinutes:  10 * 60,
		CloseMinutes: 14 * 60,
	}); err != nil {
		t.Fatalf("seed hours: %v", err)
	}

	clock := clockwork.NewFakeClockAt(time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC))
	ledgerService := ledger.NewService(database, feed.NewHub(16), clock)

	service = nil
	queries = nil
	serviceOnce = sync.Once{}
	InitHandlers(occupancysvc.NewService(database, clock), database)

	t.Cleanup(func() {
		service = nil
		queries = nil
		serviceOnce = sync.Once{}
	})

	return club, court, ledgerService
}

func occupancyRequest(clubID int64, query string) *http.Request {
	req := httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/api/v1/clubs/%d/occupancy?%s", clubID, query), nil)
	req.SetPathValue("id", fmt.Sprint(clubID))
	return req
}

func TestHandleOccupancy(t *testing.T) {
	club, court, ledgerService := setupOccupancyTest(t)

	slotStart := time.Date(2025, 1, 20, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 2; i++ {
		start := slotStart.Add(time.Duration(i) * time.Hour)
		if _, err := ledgerService.Create(context.Background(), ledger.CreateParams{
			CourtID:   court.ID,
			SlotStart: start,
			SlotEnd:   start.Add(time.Hour),
			Actor:     ledger.Actor{ID: 42},
		}); err != nil {
			t.Fatalf("create booking %d: %v", i, err)
		}
	}

	rec := httptest.NewRecorder()
	HandleOccupancy(rec, occupancyRequest(club.ID, "from=2025-01-20&to=2025-01-20"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var report occupancysvc.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if report.Capacity != 4 || report.Confirmed != 2 {
		t.Fatalf("report: %+v", report)
	}
	if report.Rate != 0.5 {
		t.Errorf("rate = %v", report.Rate)
	}
}

func TestHandleOccupancy_DefaultRangeUsesServiceClock(t *testing.T) {
	club, _, _ := setupOccupancyTest(t)

	// No from/to: the range defaults to "today" by the service clock, not
	// the wall clock.
	rec := httptest.NewRecorder()
	HandleOccupancy(rec, occupancyRequest(club.ID, ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var report occupancysvc.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	wantDay := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	if !report.From.Equal(wantDay) || !report.To.Equal(wantDay) {
		t.Fatalf("report range %v..%v, want %v", report.From, report.To, wantDay)
	}
}

func TestHandleOccupancy_UnknownClub(t *testing.T) {
	setupOccupancyTest(t)

	rec := httptest.NewRecorder()
	HandleOccupancy(rec, occupancyRequest(9999, "from=2025-01-20"))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestHandleOccupancy_BadRange(t *testing.T) {
	club, _, _ := setupOccupancyTest(t)

	rec := httptest.NewRecorder()
	HandleOccupancy(rec, occupancyRequest(club.ID, "from=2025-01-21&to=2025-01-20"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}
