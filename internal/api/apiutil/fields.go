package apiutil

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

func ParseNonNegativeInt64Field(raw string, field string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%s is required", field)
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value < 0 {
		return 0, fmt.Errorf("%s must be 0 or greater", field)
	}
	return value, nil
}

func ParsePositiveInt64Field(raw string, field string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%s is required", field)
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", field)
	}
	return value, nil
}

func PathID(r *http.Request, name string) (int64, error) {
	return ParsePositiveInt64Field(r.PathValue(name), name)
}

// ParseRFC3339Field parses a timestamp the client sends in a JSON body or
// query string. The value is normalized to UTC.
func ParseRFC3339Field(raw string, field string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("%s is required", field)
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be an RFC 3339 timestamp", field)
	}
	return parsed.UTC(), nil
}

// DateRangeFromQuery reads the from/to query parameters as calendar dates
// in loc. A missing from defaults to today; a missing to defaults to
// from. The returned range is inclusive of both dates.
func DateRangeFromQuery(r *http.Request, loc *time.Location, now time.Time) (time.Time, time.Time, error) {
	from, err := dateOrDefault(r.URL.Query().Get("from"), "from", loc, now.In(loc))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := dateOrDefault(r.URL.Query().Get("to"), "to", loc, from)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("to must not be before from")
	}
	return from, to, nil
}

func dateOrDefault(raw string, field string, loc *time.Location, fallback time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		year, month, day := fallback.Date()
		return time.Date(year, month, day, 0, 0, 0, 0, loc), nil
	}
	parsed, err := time.ParseInLocation(dateLayout, raw, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be a date in YYYY-MM-DD form", field)
	}
	return parsed, nil
}
