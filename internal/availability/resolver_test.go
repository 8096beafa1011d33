package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	appdb "github.com/courtside/courtside/internal/db"
	dbgen "github.com/courtside/courtside/internal/db/generated"
	"github.com/courtside/courtside/internal/feed"
	"github.com/courtside/courtside/internal/ledger"
	"github.com/courtside/courtside/internal/testutil"
)

var (
	testNow   = time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	monday    = time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)
	slotStart = monday.Add(18 * time.Hour)
)

type fixture struct {
	db       *appdb.DB
	resolver *Service
	booker   *ledger.Service
	clock    clockwork.FakeClock
	club     dbgen.Club
	courts   []dbgen.Court
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	database := testutil.NewTestDB(t)
	ctx := context.Background()

	club, err := database.Queries.CreateClub(ctx, dbgen.CreateClubParams{
		Name:                "Northside Tennis",
		Slug:                "northside",
		Timezone:            "UTC",
		SlotDurationMinutes: 90,
	})
	if err != nil {
		t.Fatalf("seed club: %v", err)
	}

	var courts []dbgen.Court
	for _, name := range []string{"Court 1", "Court 2"} {
		court, err := database.Queries.CreateCourt(ctx, dbgen.CreateCourtParams{
			ClubID: club.ID,
			Name:   name,
			Active: true,
		})
		if err != nil {
			t.Fatalf("seed court: %v", err)
		}
		courts = append(courts, court)
	}

	if _, err := database.Queries.UpsertOpeningHours(ctx, dbgen.UpsertOpeningHoursParams{
		ClubID:       club.ID,
		DayOfWeek:    int64(time.Monday),
		OpenMinutes:  9 * 60,
		CloseMinutes: 22*60 + 30,
	}); err != nil {
		t.Fatalf("seed hours: %v", err)
	}

	clock := clockwork.NewFakeClockAt(testNow)
	return &fixture{
		db:       database,
		resolver: NewService(database, clock),
		booker:   ledger.NewService(database, feed.NewHub(16), clock),
		clock:    clock,
		club:     club,
		courts:   courts,
	}
}

func countBySlotStart(slots []CourtSlot, courtID int64, start time.Time) (found, available bool) {
	for _, cs := range slots {
		if cs.CourtID == courtID && cs.Slot.Start.Equal(start) {
			return true, cs.Available
		}
	}
	return false, false
}

func TestResolveAllFreeWhenUnbooked(t *testing.T) {
	f := newFixture(t)

	slots, err := f.resolver.Resolve(context.Background(), ResolveParams{
		ClubID: f.club.ID,
		From:   monday,
		To:     monday,
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	// 09:00-22:30 with 90 minute slots is nine per court.
	if len(slots) != 18 {
		t.Fatalf("slot count: %d", len(slots))
	}
	for _, cs := range slots {
		if !cs.Available {
			t.Fatalf("unbooked slot marked taken: %+v", cs)
		}
	}
}

func TestResolveReflectsBookingAndCancellation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	booking, err := f.booker.Create(ctx, ledger.CreateParams{
		CourtID:   f.courts[0].ID,
		SlotStart: slotStart,
		SlotEnd:   slotStart.Add(90 * time.Minute),
		Actor:     ledger.Actor{ID: 42},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	slots, err := f.resolver.Resolve(ctx, ResolveParams{ClubID: f.club.ID, From: monday, To: monday})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	found, available := countBySlotStart(slots, f.courts[0].ID, slotStart)
	if !found || available {
		t.Fatalf("booked slot: found=%v available=%v", found, available)
	}
	// The sibling court is unaffected.
	found, available = countBySlotStart(slots, f.courts[1].ID, slotStart)
	if !found || !available {
		t.Fatalf("sibling court slot: found=%v available=%v", found, available)
	}

	if _, err := f.booker.Cancel(ctx, booking.ID, ledger.Actor{ID: 42}); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	slots, err = f.resolver.Resolve(ctx, ResolveParams{ClubID: f.club.ID, From: monday, To: monday})
	if err != nil {
		t.Fatalf("resolve after cancel: %v", err)
	}
	found, available = countBySlotStart(slots, f.courts[0].ID, slotStart)
	if !found || !available {
		t.Fatalf("freed slot should reappear: found=%v available=%v", found, available)
	}
}

func TestResolveFiltersElapsedSlotsForPlayers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Midday Monday: the morning slots have elapsed.
	f.clock.Advance(monday.Add(13 * time.Hour).Sub(testNow))

	playerView, err := f.resolver.Resolve(ctx, ResolveParams{ClubID: f.club.ID, From: monday, To: monday})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	for _, cs := range playerView {
		if !cs.Slot.Start.After(f.clock.Now()) {
			t.Fatalf("player view contains elapsed slot %v", cs.Slot.Start)
		}
	}

	staffView, err := f.resolver.Resolve(ctx, ResolveParams{
		ClubID:      f.club.ID,
		From:        monday,
		To:          monday,
		IncludePast: true,
	})
	if err != nil {
		t.Fatalf("resolve staff: %v", err)
	}
	if len(staffView) != 18 {
		t.Fatalf("staff view slot count: %d", len(staffView))
	}
	if len(playerView) >= len(staffView) {
		t.Fatalf("player view (%d) should be smaller than staff view (%d)", len(playerView), len(staffView))
	}
}

func TestResolveCourtFilter(t *testing.T) {
	f := newFixture(t)

	slots, err := f.resolver.Resolve(context.Background(), ResolveParams{
		ClubID:   f.club.ID,
		From:     monday,
		To:       monday,
		CourtIDs: []int64{f.courts[1].ID},
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(slots) != 9 {
		t.Fatalf("slot count: %d", len(slots))
	}
	for _, cs := range slots {
		if cs.CourtID != f.courts[1].ID {
			t.Fatalf("unexpected court %d in filtered result", cs.CourtID)
		}
	}
}

func TestResolveSkipsInactiveCourts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.db.Queries.SetCourtActive(ctx, dbgen.SetCourtActiveParams{
		Active: false,
		ID:     f.courts[0].ID,
	}); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	slots, err := f.resolver.Resolve(ctx, ResolveParams{ClubID: f.club.ID, From: monday, To: monday})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	for _, cs := range slots {
		if cs.CourtID == f.courts[0].ID {
			t.Fatal("inactive court present in availability")
		}
	}
}

func TestResolveUnknownClub(t *testing.T) {
	f := newFixture(t)

	_, err := f.resolver.Resolve(context.Background(), ResolveParams{ClubID: 999, From: monday, To: monday})
	if !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
