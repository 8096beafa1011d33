package ratelimit

import (
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

type mockClock struct {
	mu  sync.Mutex
	now time.Time
}

func newMockClock() *mockClock {
	return &mockClock{now: time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)}
}

func (c *mockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *mockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestCheckBookingCreate_Cooldown(t *testing.T) {
	clock := newMockClock()
	limiter := New(&Config{
		CreateCooldown:     2 * time.Second,
		CreateMaxPerHour:   30,
		CreateMaxIPPerHour: 120,
		Clock:              clock,
	})
	defer limiter.Close()

	result := limiter.CheckBookingCreate(7, "203.0.113.5")
	if !result.Allowed {
		t.Fatalf("first attempt should be allowed: %+v", result)
	}
	limiter.RecordBookingCreate(7, "203.0.113.5")

	result = limiter.CheckBookingCreate(7, "203.0.113.5")
	if result.Allowed {
		t.Fatal("attempt inside cooldown should be denied")
	}
	if result.Reason != "cooldown" {
		t.Fatalf("reason = %q, want cooldown", result.Reason)
	}
	if result.RetryAfter <= 0 || result.RetryAfter > 2*time.Second {
		t.Fatalf("retry after = %v", result.RetryAfter)
	}

	clock.Advance(2 * time.Second)
	if result := limiter.CheckBookingCreate(7, "203.0.113.5"); !result.Allowed {
		t.Fatalf("attempt after cooldown should be allowed: %+v", result)
	}
}

func TestCheckBookingCreate_HourlyLimit(t *testing.T) {
	clock := newMockClock()
	limiter := New(&Config{
		CreateCooldown:     time.Second,
		CreateMaxPerHour:   3,
		CreateMaxIPPerHour: 120,
		Clock:              clock,
	})
	defer limiter.Close()

	for i := 0; i < 3; i++ {
		if result := limiter.CheckBookingCreate(7, "203.0.113.5"); !result.Allowed {
			t.Fatalf("attempt %d should be allowed: %+v", i, result)
		}
		limiter.RecordBookingCreate(7, "203.0.113.5")
		clock.Advance(time.Second)
	}

	result := limiter.CheckBookingCreate(7, "203.0.113.5")
	if result.Allowed {
		t.Fatal("fourth attempt within the hour should be denied")
	}
	if result.Reason != "hourly_limit" {
		t.Fatalf("reason = %q, want hourly_limit", result.Reason)
	}

	// A different actor is unaffected.
	if result := limiter.CheckBookingCreate(8, "198.51.100.9"); !result.Allowed {
		t.Fatalf("other actor should be allowed: %+v", result)
	}

	clock.Advance(time.Hour)
	if result := limiter.CheckBookingCreate(7, "203.0.113.5"); !result.Allowed {
		t.Fatalf("attempt after window rollover should be allowed: %+v", result)
	}
}

func TestCheckBookingCreate_IPLimit(t *testing.T) {
	clock := newMockClock()
	limiter := New(&Config{
		CreateCooldown:     time.Millisecond,
		CreateMaxPerHour:   100,
		CreateMaxIPPerHour: 2,
		Clock:              clock,
	})
	defer limiter.Close()

	for actorID := int64(1); actorID <= 2; actorID++ {
		if result := limiter.CheckBookingCreate(actorID, "203.0.113.5"); !result.Allowed {
			t.Fatalf("actor %d should be allowed: %+v", actorID, result)
		}
		limiter.RecordBookingCreate(actorID, "203.0.113.5")
		clock.Advance(time.Second)
	}

	result := limiter.CheckBookingCreate(3, "203.0.113.5")
	if result.Allowed {
		t.Fatal("third actor from same IP should be denied")
	}
	if result.Reason != "ip_hourly_limit" {
		t.Fatalf("reason = %q, want ip_hourly_limit", result.Reason)
	}

	if result := limiter.CheckBookingCreate(3, "198.51.100.9"); !result.Allowed {
		t.Fatalf("same actor from fresh IP should be allowed: %+v", result)
	}
}

func TestRetryAfterHeader(t *testing.T) {
	cases := []struct {
		retryAfter time.Duration
		want       string
	}{
		{500 * time.Millisecond, "1"},
		{time.Second, "1"},
		{1500 * time.Millisecond, "2"},
		{time.Minute, "60"},
		{0, "1"},
	}
	for _, tc := range cases {
		result := LimitResult{RetryAfter: tc.retryAfter}
		if got := result.RetryAfterHeader(); got != tc.want {
			t.Errorf("RetryAfterHeader(%v) = %q, want %q", tc.retryAfter, got, tc.want)
		}
	}
}

func TestGetClientIP_TrustProxy(t *testing.T) {
	req := httptest.NewRequest("POST", "/", nil)
	req.RemoteAddr = "10.0.0.2:4312"
	req.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1")

	if got := GetClientIP(req, true); got != "203.0.113.5" {
		t.Fatalf("trusted proxy ip = %q", got)
	}
	if got := GetClientIP(req, false); got != "10.0.0.2" {
		t.Fatalf("untrusted ip = %q", got)
	}
}

func TestGetClientIP_SpoofingPrevention(t *testing.T) {
	req := httptest.NewRequest("POST", "/", nil)
	req.RemoteAddr = "198.51.100.9:9000"
	req.Header.Set("X-Forwarded-For", "1.2.3.4")

	if got := GetClientIP(req, false); got != "198.51.100.9" {
		t.Fatalf("spoofed header should be ignored, got %q", got)
	}
}

func TestNew_NilConfig(t *testing.T) {
	limiter := New(nil)
	defer limiter.Close()

	if limiter.config.CreateCooldown != DefaultConfig().CreateCooldown {
		t.Fatal("nil config should fall back to defaults")
	}
	if result := limiter.CheckBookingCreate(1, "203.0.113.5"); !result.Allowed {
		t.Fatalf("fresh limiter should allow: %+v", result)
	}
}

func TestConcurrentAccess(t *testing.T) {
	limiter := New(&Config{
		CreateCooldown:     0,
		CreateMaxPerHour:   1000,
		CreateMaxIPPerHour: 100000,
		Clock:              newMockClock(),
	})
	defer limiter.Close()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(actorID int64) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				limiter.CheckBookingCreate(actorID, "203.0.113.5")
				limiter.RecordBookingCreate(actorID, "203.0.113.5")
			}
		}(int64(i))
	}
	wg.Wait()
}

func TestIsPrivateIP(t *testing.T) {
	cases := map[string]bool{
		"10.1.2.3":           true,
		"172.16.5.5":         true,
		"192.168.1.1":        true,
		"127.0.0.1":          true,
		"::1":                true,
		"::ffff:192.168.1.1": true,
		"203.0.113.5":        false,
		"2001:db8::1":        false,
		"not-an-ip":          false,
	}
	for ip, want := range cases {
		if got := isPrivateIP(ip); got != want {
			t.Errorf("isPrivateIP(%q) = %v, want %v", ip, got, want)
		}
	}
}
