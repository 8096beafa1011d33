package feed

import (
	"testing"
	"time"

	dbgen "github.com/courtside/courtside/internal/db/generated"
)

func bookingEvent(t EventType, id int64, status string) Event {
	return Event{Type: t, Booking: dbgen.Booking{ID: id, Status: status, ClubID: 1}}
}

func TestPublishReachesAllSubscribers(t *testing.T) {
	hub := NewHub(8)
	first := hub.Subscribe(1)
	defer first.Close()
	second := hub.Subscribe(1)
	defer second.Close()
	other := hub.Subscribe(2)
	defer other.Close()

	hub.Publish(1, bookingEvent(EventCreated, 10, "confirmed"))

	for name, sub := range map[string]*Subscription{"first": first, "second": second} {
		select {
		case got := <-sub.Events():
			if got.Booking.ID != 10 || got.Type != EventCreated {
				t.Errorf("%s: unexpected event %+v", name, got)
			}
		case <-time.After(time.Second):
			t.Fatalf("%s: no event received", name)
		}
	}

	select {
	case got := <-other.Events():
		t.Fatalf("subscriber on another club received %+v", got)
	default:
	}
}

func TestPerBookingOrder(t *testing.T) {
	hub := NewHub(8)
	sub := hub.Subscribe(1)
	defer sub.Close()

	hub.Publish(1, bookingEvent(EventCreated, 5, "confirmed"))
	hub.Publish(1, bookingEvent(EventUpdated, 5, "cancelled"))

	first := <-sub.Events()
	second := <-sub.Events()
	if first.DedupKey() != "5:confirmed" || second.DedupKey() != "5:cancelled" {
		t.Fatalf("out of order: %s then %s", first.DedupKey(), second.DedupKey())
	}
}

func TestSlowSubscriberDropsOldest(t *testing.T) {
	hub := NewHub(2)
	slow := hub.Subscribe(1)
	defer slow.Close()

	for id := int64(1); id <= 5; id++ {
		hub.Publish(1, bookingEvent(EventCreated, id, "confirmed"))
	}

	// Publishing never blocked; the buffer holds the newest two events.
	first := <-slow.Events()
	second := <-slow.Events()
	if first.Booking.ID != 4 || second.Booking.ID != 5 {
		t.Fatalf("expected events 4 and 5, got %d and %d", first.Booking.ID, second.Booking.ID)
	}
	select {
	case extra := <-slow.Events():
		t.Fatalf("unexpected extra event %+v", extra)
	default:
	}
}

func TestCloseDetachesSubscriber(t *testing.T) {
	hub := NewHub(4)
	sub := hub.Subscribe(1)

	if got := hub.SubscriberCount(1); got != 1 {
		t.Fatalf("subscriber count: %d", got)
	}
	sub.Close()
	sub.Close() // idempotent
	if got := hub.SubscriberCount(1); got != 0 {
		t.Fatalf("subscriber count after close: %d", got)
	}

	// Publishing to a closed subscription must not panic.
	hub.Publish(1, bookingEvent(EventCreated, 1, "confirmed"))

	if _, ok := <-sub.Events(); ok {
		t.Fatal("channel should be closed")
	}
}
