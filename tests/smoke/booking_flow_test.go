//go:build smoke

package smoke

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"
)

const (
	staffID  = "1"
	playerID = "42"
)

func doJSON(t *testing.T, method, url string, payload any, actorID, actorRole string) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if actorID != "" {
		req.Header.Set("X-Actor-ID", actorID)
	}
	if actorRole != "" {
		req.Header.Set("X-Actor-Role", actorRole)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	return resp, raw
}

// TestBookingFlow drives the whole reservation surface end to end: staff
// provision a club, court, and hours; a player books a slot, sees it held
// in availability, and cancels it.
func TestBookingFlow(t *testing.T) {
	baseURL := startServer(t)

	// Staff create master data.
	resp, raw := doJSON(t, http.MethodPost, baseURL+"/api/v1/clubs", map[string]any{
		"name":                  "Smoke Test Club",
		"slug":                  "smoke",
		"timezone":              "UTC",
		"slot_duration_minutes": 60,
	}, staffID, "staff")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create club: %d %s", resp.StatusCode, raw)
	}
	var club struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(raw, &club); err != nil {
		t.Fatalf("decode club: %v", err)
	}

	resp, raw = doJSON(t, http.MethodPost, baseURL+"/api/v1/courts", map[string]any{
		"club_id": club.ID,
		"name":    "Court 1",
	}, staffID, "staff")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create court: %d %s", resp.StatusCode, raw)
	}
	var court struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(raw, &court); err != nil {
		t.Fatalf("decode court: %v", err)
	}

	// Open every day so the test is independent of the current weekday.
	for day := 0; day <= 6; day++ {
		resp, raw = doJSON(t, http.MethodPut,
			fmt.Sprintf("%s/api/v1/clubs/%d/hours/%d", baseURL, club.ID, day),
			map[string]any{"opens_at": "00:00", "closes_at": "24:00"},
			staffID, "staff")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("set hours day %d: %d %s", day, resp.StatusCode, raw)
		}
	}

	// A player may not create clubs.
	resp, _ = doJSON(t, http.MethodPost, baseURL+"/api/v1/clubs", map[string]any{
		"name": "X", "slug": "x", "timezone": "UTC", "slot_duration_minutes": 60,
	}, playerID, "player")
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("player club create: %d", resp.StatusCode)
	}

	// Book tomorrow's noon slot.
	slotStart := time.Now().UTC().AddDate(0, 0, 1).Truncate(24 * time.Hour).Add(12 * time.Hour)
	resp, raw = doJSON(t, http.MethodPost, baseURL+"/api/v1/bookings", map[string]any{
		"court_id":   court.ID,
		"slot_start": slotStart.Format(time.RFC3339),
		"slot_end":   slotStart.Add(time.Hour).Format(time.RFC3339),
	}, playerID, "player")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create booking: %d %s", resp.StatusCode, raw)
	}
	var booking struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(raw, &booking); err != nil {
		t.Fatalf("decode booking: %v", err)
	}
	if booking.Status != "confirmed" {
		t.Fatalf("booking status = %q", booking.Status)
	}

	// A second attempt on the same slot conflicts.
	resp, _ = doJSON(t, http.MethodPost, baseURL+"/api/v1/bookings", map[string]any{
		"court_id":   court.ID,
		"slot_start": slotStart.Format(time.RFC3339),
		"slot_end":   slotStart.Add(time.Hour).Format(time.RFC3339),
	}, "43", "player")
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate booking: %d", resp.StatusCode)
	}

	// The booked slot shows as taken.
	day := slotStart.Format("2006-01-02")
	resp, raw = doJSON(t, http.MethodGet,
		fmt.Sprintf("%s/api/v1/clubs/%d/availability?from=%s&to=%s", baseURL, club.ID, day, day),
		nil, playerID, "player")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("availability: %d %s", resp.StatusCode, raw)
	}
	var availability struct {
		Slots []struct {
			Available bool `json:"available"`
			Slot      struct {
				Start time.Time `json:"start"`
			} `json:"slot"`
		} `json:"slots"`
	}
	if err := json.Unmarshal(raw, &availability); err != nil {
		t.Fatalf("decode availability: %v", err)
	}
	found := false
	for _, slot := range availability.Slots {
		if slot.Slot.Start.Equal(slotStart) {
			found = true
			if slot.Available {
				t.Fatal("booked slot still shows available")
			}
		}
	}
	if !found {
		t.Fatalf("booked slot missing from availability (%d slots)", len(availability.Slots))
	}

	// Cancel and verify occupancy sees no confirmed bookings.
	resp, raw = doJSON(t, http.MethodDelete,
		fmt.Sprintf("%s/api/v1/bookings/%d", baseURL, booking.ID), nil, playerID, "player")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("cancel booking: %d %s", resp.StatusCode, raw)
	}

	resp, raw = doJSON(t, http.MethodGet,
		fmt.Sprintf("%s/api/v1/clubs/%d/occupancy?from=%s&to=%s", baseURL, club.ID, day, day),
		nil, playerID, "player")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("occupancy: %d %s", resp.StatusCode, raw)
	}
	var report struct {
		Confirmed int64 `json:"confirmed"`
		Capacity  int64 `json:"capacity"`
	}
	if err := json.Unmarshal(raw, &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.Confirmed != 0 {
		t.Fatalf("confirmed after cancel = %d", report.Confirmed)
	}
	if report.Capacity == 0 {
		t.Fatal("capacity should be nonzero for an open day")
	}
}
