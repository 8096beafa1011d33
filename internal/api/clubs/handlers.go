// internal/api/clubs/handlers.go
package clubs

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/courtside/courtside/internal/api/apiutil"
	dbgen "github.com/courtside/courtside/internal/db/generated"
	"github.com/courtside/courtside/internal/schedule"
)

const clubQueryTimeout = 5 * time.Second

var (
	queries     *dbgen.Queries
	queriesOnce sync.Once
)

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(q *dbgen.Queries) {
	if q == nil {
		return
	}
	queriesOnce.Do(func() {
		queries = q
	})
}

func loadQueries() *dbgen.Queries {
	return queries
}

type createClubRequest struct {
	Name                string `json:"name"`
	Slug                string `json:"slug"`
	Timezone            string `json:"timezone"`
	SlotDurationMinutes int64  `json:"slot_duration_minutes"`
}

type createCourtRequest struct {
	ClubID int64  `json:"club_id"`
	Name   string `json:"name"`
}

type openingHoursRequest struct {
	OpensAt  string `json:"opens_at"`
	ClosesAt string `json:"closes_at"`
	IsClosed bool   `json:"is_closed"`
}

type openingHoursResponse struct {
	DayOfWeek int64  `json:"day_of_week"`
	OpensAt   string `json:"opens_at"`
	ClosesAt  string `json:"closes_at"`
}

// POST /api/v1/clubs
func HandleClubCreate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var req createClubRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := validateClubRequest(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), clubQueryTimeout)
	defer cancel()

	club, err := q.CreateClub(ctx, dbgen.CreateClubParams{
		Name:                strings.TrimSpace(req.Name),
		Slug:                strings.TrimSpace(req.Slug),
		Timezone:            req.Timezone,
		SlotDurationMinutes: req.SlotDurationMinutes,
	})
	if err != nil {
		if apiutil.IsSQLiteUniqueViolation(err) {
			http.Error(w, "A club with this slug already exists", http.StatusConflict)
			return
		}
		logger.Error().Err(err).Msg("Failed to create club")
		http.Error(w, "Failed to create club", http.StatusInternalServerError)
		return
	}

	logger.Info().Int64("club_id", club.ID).Str("slug", club.Slug).Msg("Club created")

	if err := apiutil.WriteJSON(w, http.StatusCreated, club); err != nil {
		logger.Error().Err(err).Msg("Failed to write club response")
	}
}

// GET /api/v1/clubs
func HandleClubList(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), clubQueryTimeout)
	defer cancel()

	clubs, err := q.ListClubs(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list clubs")
		http.Error(w, "Failed to list clubs", http.StatusInternalServerError)
		return
	}
	if clubs == nil {
		clubs = []dbgen.Club{}
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, clubs); err != nil {
		logger.Error().Err(err).Msg("Failed to write clubs response")
	}
}

// GET /api/v1/clubs/{id}/courts
func HandleCourtList(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	clubID, err := apiutil.PathID(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), clubQueryTimeout)
	defer cancel()

	if ok, err := clubExists(ctx, q, clubID); err != nil {
		logger.Error().Err(err).Int64("club_id", clubID).Msg("Failed to validate club")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	} else if !ok {
		http.Error(w, "Club not found", http.StatusNotFound)
		return
	}

	courts, err := q.ListCourts(ctx, clubID)
	if err != nil {
		logger.Error().Err(err).Int64("club_id", clubID).Msg("Failed to list courts")
		http.Error(w, "Failed to list courts", http.StatusInternalServerError)
		return
	}
	if courts == nil {
		courts = []dbgen.Court{}
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, courts); err != nil {
		logger.Error().Err(err).Msg("Failed to write courts response")
	}
}

// POST /api/v1/courts
func HandleCourtCreate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var req createCourtRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.ClubID <= 0 {
		http.Error(w, "club_id must be greater than 0", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), clubQueryTimeout)
	defer cancel()

	if ok, err := clubExists(ctx, q, req.ClubID); err != nil {
		logger.Error().Err(err).Int64("club_id", req.ClubID).Msg("Failed to validate club")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	} else if !ok {
		http.Error(w, "Club not found", http.StatusNotFound)
		return
	}

	court, err := q.CreateCourt(ctx, dbgen.CreateCourtParams{
		ClubID: req.ClubID,
		Name:   strings.TrimSpace(req.Name),
		Active: true,
	})
	if err != nil {
		logger.Error().Err(err).Int64("club_id", req.ClubID).Msg("Failed to create court")
		http.Error(w, "Failed to create court", http.StatusInternalServerError)
		return
	}

	logger.Info().Int64("court_id", court.ID).Int64("club_id", court.ClubID).Msg("Court created")

	if err := apiutil.WriteJSON(w, http.StatusCreated, court); err != nil {
		logger.Error().Err(err).Msg("Failed to write court response")
	}
}

// GET /api/v1/clubs/{id}/hours
func HandleOpeningHoursList(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	clubID, err := apiutil.PathID(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), clubQueryTimeout)
	defer cancel()

	if ok, err := clubExists(ctx, q, clubID); err != nil {
		logger.Error().Err(err).Int64("club_id", clubID).Msg("Failed to validate club")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	} else if !ok {
		http.Error(w, "Club not found", http.StatusNotFound)
		return
	}

	hours, err := q.ListOpeningHours(ctx, clubID)
	if err != nil {
		logger.Error().Err(err).Int64("club_id", clubID).Msg("Failed to fetch opening hours")
		http.Error(w, "Failed to load opening hours", http.StatusInternalServerError)
		return
	}

	resp := make([]openingHoursResponse, 0, len(hours))
	for _, h := range hours {
		resp = append(resp, openingHoursResponse{
			DayOfWeek: h.DayOfWeek,
			OpensAt:   schedule.TimeOfDay(h.OpenMinutes).String(),
			ClosesAt:  schedule.TimeOfDay(h.CloseMinutes).String(),
		})
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, resp); err != nil {
		logger.Error().Err(err).Msg("Failed to write opening hours response")
	}
}

// PUT /api/v1/clubs/{id}/hours/{day_of_week}
func HandleOpeningHoursUpdate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	clubID, err := apiutil.PathID(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	dayOfWeek, err := apiutil.ParseNonNegativeInt64Field(r.PathValue("day_of_week"), "day_of_week")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if dayOfWeek > 6 {
		http.Error(w, "day_of_week must be between 0 and 6", http.StatusBadRequest)
		return
	}

	var req openingHoursRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), clubQueryTimeout)
	defer cancel()

	if ok, err := clubExists(ctx, q, clubID); err != nil {
		logger.Error().Err(err).Int64("club_id", clubID).Msg("Failed to validate club")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	} else if !ok {
		http.Error(w, "Club not found", http.StatusNotFound)
		return
	}

	// Marking a day closed removes its row; slot generation treats a
	// missing day as closed.
	if req.IsClosed {
		if _, err := q.DeleteOpeningHours(ctx, dbgen.DeleteOpeningHoursParams{
			ClubID:    clubID,
			DayOfWeek: dayOfWeek,
		}); err != nil {
			logger.Error().Err(err).Int64("club_id", clubID).Msg("Failed to close day")
			http.Error(w, "Failed to update opening hours", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}

	hours, err := parseDayHours(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := q.UpsertOpeningHours(ctx, dbgen.UpsertOpeningHoursParams{
		ClubID:       clubID,
		DayOfWeek:    dayOfWeek,
		OpenMinutes:  int64(hours.Open),
		CloseMinutes: int64(hours.Close),
	})
	if err != nil {
		logger.Error().Err(err).Int64("club_id", clubID).Msg("Failed to update opening hours")
		http.Error(w, "Failed to update opening hours", http.StatusInternalServerError)
		return
	}

	logger.Info().
		Int64("club_id", clubID).
		Int64("day_of_week", dayOfWeek).
		Str("opens_at", schedule.TimeOfDay(updated.OpenMinutes).String()).
		Str("closes_at", schedule.TimeOfDay(updated.CloseMinutes).String()).
		Msg("Opening hours updated")

	if err := apiutil.WriteJSON(w, http.StatusOK, openingHoursResponse{
		DayOfWeek: updated.DayOfWeek,
		OpensAt:   schedule.TimeOfDay(updated.OpenMinutes).String(),
		ClosesAt:  schedule.TimeOfDay(updated.CloseMinutes).String(),
	}); err != nil {
		logger.Error().Err(err).Msg("Failed to write opening hours response")
	}
}

func parseDayHours(req openingHoursRequest) (schedule.DayHours, error) {
	opensAt, err := schedule.ParseTimeOfDay(req.OpensAt)
	if err != nil {
		return schedule.DayHours{}, apiutil.FieldError{Field: "opens_at", Reason: err.Error()}
	}
	closesAt, err := schedule.ParseTimeOfDay(req.ClosesAt)
	if err != nil {
		return schedule.DayHours{}, apiutil.FieldError{Field: "closes_at", Reason: err.Error()}
	}
	hours := schedule.DayHours{Open: opensAt, Close: closesAt}
	if err := hours.Validate(); err != nil {
		return schedule.DayHours{}, err
	}
	return hours, nil
}

func clubExists(ctx context.Context, q *dbgen.Queries, clubID int64) (bool, error) {
	if _, err := q.ClubExists(ctx, clubID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func validateClubRequest(req createClubRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return apiutil.FieldError{Field: "name", Reason: "is required"}
	}
	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		return apiutil.FieldError{Field: "slug", Reason: "is required"}
	}
	if strings.ContainsAny(slug, " /") {
		return apiutil.FieldError{Field: "slug", Reason: "must not contain spaces or slashes"}
	}
	if req.SlotDurationMinutes <= 0 {
		return apiutil.FieldError{Field: "slot_duration_minutes", Reason: "must be greater than 0"}
	}
	if _, err := time.LoadLocation(req.Timezone); err != nil || req.Timezone == "" {
		return apiutil.FieldError{Field: "timezone", Reason: "must be a valid IANA timezone"}
	}
	return nil
}
