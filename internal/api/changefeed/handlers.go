// internal/api/changefeed/handlers.go
package changefeed

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/courtside/courtside/internal/api/apiutil"
	"github.com/courtside/courtside/internal/feed"
)

var (
	hub     *feed.Hub
	hubOnce sync.Once
)

// heartbeatInterval keeps idle connections alive through proxies.
const heartbeatInterval = 15 * time.Second

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(feedHub *feed.Hub) {
	if feedHub == nil {
		return
	}
	hubOnce.Do(func() {
		hub = feedHub
	})
}

// GET /api/v1/clubs/{id}/events
//
// Streams booking changes for the club as server-sent events. The event id
// doubles as the consumer's dedup key; a reconnecting consumer may see a
// change twice and must treat redelivery as a no-op.
func HandleEvents(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if hub == nil {
		logger.Error().Msg("Feed hub not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	clubID, err := apiutil.PathID(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		logger.Error().Msg("Response writer does not support streaming")
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	sub := hub.Subscribe(clubID)
	defer sub.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	logger.Debug().Int64("club_id", clubID).Msg("Feed subscriber connected")

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			logger.Debug().Int64("club_id", clubID).Msg("Feed subscriber disconnected")
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": keepalive\n\n")
			flusher.Flush()
		case event, ok := <-sub.Events():
			if !ok {
				return
			}
			if err := writeEvent(w, event); err != nil {
				logger.Warn().Err(err).Msg("Failed to write feed event")
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, event feed.Event) error {
	payload, err := json.Marshal(event.Booking)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "id: %s\nevent: %s\ndata: %s\n\n", event.DedupKey(), event.Type, payload)
	return err
}
