// internal/feed/hub.go

// Package feed distributes booking mutation events to subscribers, one
// topic per club. Delivery is at-least-once to live subscribers; consumers
// dedupe on (booking id, status) and must re-resolve availability after a
// reconnect before trusting incremental events again.
package feed

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	dbgen "github.com/courtside/courtside/internal/db/generated"
)

type EventType string

const (
	EventCreated EventType = "created"
	EventUpdated EventType = "updated"
	EventDeleted EventType = "deleted"
)

// Event is ephemeral: it carries a snapshot of the booking as of the
// mutation and is never persisted.
type Event struct {
	Type    EventType     `json:"type"`
	Booking dbgen.Booking `json:"booking"`
}

// DedupKey identifies an event for redelivery-safe consumption.
func (e Event) DedupKey() string {
	return fmt.Sprintf("%d:%s", e.Booking.ID, e.Booking.Status)
}

const DefaultBufferSize = 64

// Hub fans events out to per-club subscribers. Publish never blocks: a
// subscriber that stops draining loses its oldest buffered events, so one
// stalled consumer cannot hold up ledger mutations or its peers.
type Hub struct {
	mu     sync.Mutex
	subs   map[int64]map[*Subscription]struct{}
	buffer int
}

func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = DefaultBufferSize
	}
	return &Hub{
		subs:   make(map[int64]map[*Subscription]struct{}),
		buffer: buffer,
	}
}

type Subscription struct {
	ID     string
	clubID int64

	hub       *Hub
	ch        chan Event
	closeOnce sync.Once
}

// Events returns the subscription's event channel. The channel is closed
// by Close.
func (s *Subscription) Events() <-chan Event {
	return s.ch
}

// Close detaches the subscription from the hub and closes its channel.
// Safe to call more than once.
func (s *Subscription) Close() {
	s.closeOnce.Do(func() {
		s.hub.mu.Lock()
		if subs, ok := s.hub.subs[s.clubID]; ok {
			delete(subs, s)
			if len(subs) == 0 {
				delete(s.hub.subs, s.clubID)
			}
		}
		s.hub.mu.Unlock()
		close(s.ch)
	})
}

// Subscribe registers a new subscriber on the club's topic.
func (h *Hub) Subscribe(clubID int64) *Subscription {
	sub := &Subscription{
		ID:     uuid.New().String(),
		clubID: clubID,
		hub:    h,
		ch:     make(chan Event, h.buffer),
	}

	h.mu.Lock()
	if h.subs[clubID] == nil {
		h.subs[clubID] = make(map[*Subscription]struct{})
	}
	h.subs[clubID][sub] = struct{}{}
	h.mu.Unlock()

	log.Debug().
		Str("subscription_id", sub.ID).
		Int64("club_id", clubID).
		Msg("Change feed subscriber attached")
	return sub
}

// Publish delivers the event to every live subscriber on the club's topic.
// Events published while holding the hub lock arrive in publish order; per
// booking that is commit order because the ledger publishes after commit.
func (h *Hub) Publish(clubID int64, event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subs[clubID] {
		select {
		case sub.ch <- event:
			continue
		default:
		}
		// Buffer full: drop the oldest event to make room. The consumer
		// reconciles via the availability resolver on reconnect, so a gap
		// is recoverable.
		select {
		case dropped := <-sub.ch:
			log.Warn().
				Str("subscription_id", sub.ID).
				Int64("club_id", clubID).
				Str("dropped", dropped.DedupKey()).
				Msg("Change feed subscriber lagging, dropped oldest event")
		default:
		}
		select {
		case sub.ch <- event:
		default:
		}
	}
}

// SubscriberCount reports the number of live subscribers for a club.
func (h *Hub) SubscriberCount(clubID int64) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[clubID])
}
