// internal/schedule/schedule.go

// Package schedule derives bookable court slots from a club's weekly
// opening hours. Generation is a pure function of its inputs: nothing is
// stored, and regenerating for the same inputs yields the same slots.
package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const minutesPerDay = 1440

var (
	ErrInvalidTimeOfDay = errors.New("invalid time of day")
	ErrInvalidDayHours  = errors.New("open time must be before close time")
)

// TimeOfDay is minutes since midnight. Values of 1440 and above are
// permitted for closing times only and mean the hours spill past midnight
// into the following day: 1440 renders as "24:00", 1530 as "25:30".
type TimeOfDay int

// ParseTimeOfDay parses "HH:MM". Hours up to 47 are accepted so overnight
// closing times can be written explicitly ("24:00", "26:30").
func ParseTimeOfDay(raw string) (TimeOfDay, error) {
	raw = strings.TrimSpace(raw)
	parts := strings.SplitN(raw, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, raw)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 47 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, raw)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || len(parts[1]) != 2 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, raw)
	}
	return TimeOfDay(hours*60 + minutes), nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// At anchors the time of day onto a calendar date. Values past 1440 land
// on the following day.
func (t TimeOfDay) At(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, int(t), 0, 0, date.Location())
}

// DayHours is one weekday's opening window.
type DayHours struct {
	Open  TimeOfDay
	Close TimeOfDay
}

func (h DayHours) Validate() error {
	if h.Open < 0 || h.Open >= minutesPerDay {
		return fmt.Errorf("%w: open %s", ErrInvalidTimeOfDay, h.Open)
	}
	if h.Close > 2*minutesPerDay {
		return fmt.Errorf("%w: close %s", ErrInvalidTimeOfDay, h.Close)
	}
	if h.Open >= h.Close {
		return ErrInvalidDayHours
	}
	return nil
}

// WeekSchedule maps time.Weekday to that day's hours. Days with no entry
// are closed and yield zero slots.
type WeekSchedule map[time.Weekday]DayHours

// Slot is a derived bookable interval for one court. Slots are never
// persisted; the booking ledger stores only the intervals actually booked.
type Slot struct {
	CourtID int64     `json:"court_id"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
}

// Generate emits the ordered, non-overlapping slots for a court between
// from and to (inclusive dates), walking each day's opening window in
// slotDuration steps. A slot whose end would pass the closing time is not
// emitted, so no trailing partial slot is ever produced.
func Generate(courtID int64, week WeekSchedule, slotDuration time.Duration, from, to time.Time) ([]Slot, error) {
	if slotDuration <= 0 {
		return nil, errors.New("slot duration must be positive")
	}
	from = truncateDate(from)
	to = truncateDate(to)
	if to.Before(from) {
		return nil, errors.New("from date must be on or before to date")
	}

	var slots []Slot
	for date := from; !date.After(to); date = date.AddDate(0, 0, 1) {
		hours, ok := week[date.Weekday()]
		if !ok {
			continue
		}
		if err := hours.Validate(); err != nil {
			return nil, fmt.Errorf("hours for %s: %w", date.Weekday(), err)
		}
		dayOpen := hours.Open.At(date)
		dayClose := hours.Close.At(date)
		for start := dayOpen; !start.Add(slotDuration).After(dayClose); start = start.Add(slotDuration) {
			slots = append(slots, Slot{CourtID: courtID, Start: start, End: start.Add(slotDuration)})
		}
	}
	return slots, nil
}

// Aligned reports whether the (start, end) pair is exactly one of the
// slots Generate would produce for start's date. Bookings that are not
// aligned to the grid are rejected by the ledger.
func Aligned(week WeekSchedule, slotDuration time.Duration, start, end time.Time) bool {
	if slotDuration <= 0 || !end.Equal(start.Add(slotDuration)) {
		return false
	}
	// An overnight window can place grid slots after midnight, so the
	// previous day's schedule has to be consulted as well.
	for _, date := range []time.Time{truncateDate(start), truncateDate(start).AddDate(0, 0, -1)} {
		hours, ok := week[date.Weekday()]
		if !ok || hours.Validate() != nil {
			continue
		}
		dayOpen := hours.Open.At(date)
		dayClose := hours.Close.At(date)
		if start.Before(dayOpen) || end.After(dayClose) {
			continue
		}
		offset := start.Sub(dayOpen)
		if offset%slotDuration == 0 {
			return true
		}
	}
	return false
}

func truncateDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
