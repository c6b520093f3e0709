package security

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiterAllowsUpToRate(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !rl.Allow("1.2.3.4") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.Allow("1.2.3.4") {
		t.Error("request over the limit should be denied")
	}
}

func TestRateLimiterTracksIPsSeparately(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)

	if !rl.Allow("1.1.1.1") {
		t.Error("first IP should be allowed")
	}
	if !rl.Allow("2.2.2.2") {
		t.Error("second IP should have its own bucket")
	}
	if rl.Allow("1.1.1.1") {
		t.Error("first IP should now be limited")
	}
}

func TestRateLimiterRefillsAfterWindow(t *testing.T) {
	rl := NewRateLimiter(1, 10*time.Millisecond)

	if !rl.Allow("1.2.3.4") {
		t.Fatal("first request should be allowed")
	}
	if rl.Allow("1.2.3.4") {
		t.Fatal("second request should be denied")
	}

	time.Sleep(15 * time.Millisecond)

	if !rl.Allow("1.2.3.4") {
		t.Error("request after the window should be allowed again")
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		forwarded  string
		realIP     string
		remoteAddr string
		want       string
	}{
		{"forwarded single", "10.0.0.1", "", "127.0.0.1:1234", "10.0.0.1"},
		{"forwarded chain", "10.0.0.1, 10.0.0.2", "", "127.0.0.1:1234", "10.0.0.1"},
		{"real ip", "", "10.0.0.3", "127.0.0.1:1234", "10.0.0.3"},
		{"remote addr fallback", "", "", "127.0.0.1:1234", "127.0.0.1:1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if tt.realIP != "" {
				r.Header.Set("X-Real-IP", tt.realIP)
			}
			if got := GetClientIP(r); got != tt.want {
				t.Errorf("GetClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
