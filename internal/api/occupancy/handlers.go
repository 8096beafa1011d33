// internal/api/occupancy/handlers.go
package occupancy

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/courtside/courtside/internal/api/apiutil"
	appdb "github.com/courtside/courtside/internal/db"
	dbgen "github.com/courtside/courtside/internal/db/generated"
	"github.com/courtside/courtside/internal/ledger"
	occupancysvc "github.com/courtside/courtside/internal/occupancy"
)

var (
	service     *occupancysvc.Service
	queries     *dbgen.Queries
	serviceOnce sync.Once
)

const occupancyQueryTimeout = 5 * time.Second

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(reporter *occupancysvc.Service, database *appdb.DB) {
	if reporter == nil || database == nil {
		return
	}
	serviceOnce.Do(func() {
		service = reporter
		queries = database.Queries
	})
}

// GET /api/v1/clubs/{id}/occupancy
func HandleOccupancy(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if service == nil || queries == nil {
		logger.Error().Msg("Occupancy service not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	clubID, err := apiutil.PathID(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), occupancyQueryTimeout)
	defer cancel()

	club, err := queries.GetClubByID(ctx, clubID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Club not found", http.StatusNotFound)
			return
		}
		logger.Error().Err(err).Int64("club_id", clubID).Msg("Failed to load club")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	loc, err := time.LoadLocation(club.Timezone)
	if err != nil {
		logger.Error().Err(err).Str("timezone", club.Timezone).Msg("Invalid club timezone")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	from, to, err := apiutil.DateRangeFromQuery(r, loc, service.Now())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	report, err := service.Rate(ctx, clubID, from, to)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			http.Error(w, "Club not found", http.StatusNotFound)
			return
		}
		logger.Error().Err(err).Int64("club_id", clubID).Msg("Failed to compute occupancy")
		http.Error(w, "Failed to compute occupancy", http.StatusInternalServerError)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, report); err != nil {
		logger.Error().Err(err).Msg("Failed to write occupancy response")
	}
}
