// internal/api/availability/handlers.go
package availability

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
	"github.com/courtside/courtside/internal/api/authz"
	availabilitysvc "github.com/courtside/courtside/internal/availability"
	appdb "github.com/courtside/courtside/internal/db"
	dbgen "github.com/courtside/courtside/internal/db/generated"
	"github.com/courtside/courtside/internal/ledger"
)

var (
	service     *availabilitysvc.Service
	queries     *dbgen.Queries
	serviceOnce sync.Once
)

const availabilityQueryTimeout = 5 * time.Second

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(resolver *availabilitysvc.Service, database *appdb.DB) {
	if resolver == nil || database == nil {
		return
	}
	serviceOnce.Do(func() {
		service = resolver
		queries = database.Queries
	})
}

type availabilityResponse struct {
	ClubID int64                       `json:"club_id"`
	From   string                      `json:"from"`
	To     string                      `json:"to"`
	Slots  []availabilitysvc.CourtSlot `json:"slots"`
}

// GET /api/v1/clubs/{id}/availability
func HandleAvailability(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if service == nil || queries == nil {
		logger.Error().Msg("Availability service not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	clubID, err := apiutil.PathID(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), availabilityQueryTimeout)
	defer cancel()

	club, err := queries.GetClubByID(ctx, clubID)
	if err != nil {
		writeResolveError(w, r, err)
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

	courtIDs, err := courtFilterFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Elapsed slots are an audit concern; only staff may request them.
	includePast := false
	if r.URL.Query().Get("include_past") == "true" {
		actor := authz.ActorFromContext(r.Context())
		if actor == nil || !actor.IsStaff {
			http.Error(w, "include_past requires staff access", http.StatusForbidden)
			return
		}
		includePast = true
	}

	slots, err := service.Resolve(ctx, availabilitysvc.ResolveParams{
		ClubID:      clubID,
		From:        from,
		To:          to,
		CourtIDs:    courtIDs,
		IncludePast: includePast,
	})
	if err != nil {
		writeResolveError(w, r, err)
		return
	}

	resp := availabilityResponse{
		ClubID: clubID,
		From:   from.Format("2006-01-02"),
		To:     to.Format("2006-01-02"),
		Slots:  slots,
	}
	if resp.Slots == nil {
		resp.Slots = []availabilitysvc.CourtSlot{}
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, resp); err != nil {
		logger.Error().Err(err).Msg("Failed to write availability response")
	}
}

func courtFilterFromQuery(r *http.Request) ([]int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("court_ids"))
	if raw == "" {
		return nil, nil
	}
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		id, err := apiutil.ParsePositiveInt64Field(part, "court_ids")
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func writeResolveError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ledger.ErrNotFound) || errors.Is(err, sql.ErrNoRows) {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusNotFound, Message: "Club not found", Err: err})
		return
	}
	apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusInternalServerError, Message: "Failed to resolve availability", Err: err})
}
