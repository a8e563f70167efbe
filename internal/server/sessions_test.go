package server

import (
	"errors"
	"net/http"
	"testing"

	"github.com/lawnchairsociety/cavemesh/internal/config"
)

func mustAcquire(t *testing.T, l *SessionLimiter, ip string) func() {
	t.Helper()
	release, err := l.Acquire(ip)
	if err != nil {
		t.Fatalf("Acquire(%q) error = %v", ip, err)
	}
	return release
}

func TestSessionLimiter_PerClient(t *testing.T) {
	l := NewSessionLimiter(config.ConnectionsConfig{MaxPerIP: 2, MaxTotal: 100})

	first := mustAcquire(t, l, "192.168.1.1")
	mustAcquire(t, l, "192.168.1.1")
	if _, err := l.Acquire("192.168.1.1"); !errors.Is(err, ErrClientSessions) {
		t.Errorf("third session error = %v, want ErrClientSessions", err)
	}
	mustAcquire(t, l, "192.168.1.2")

	first()
	mustAcquire(t, l, "192.168.1.1")
}

func TestSessionLimiter_Total(t *testing.T) {
	l := NewSessionLimiter(config.ConnectionsConfig{MaxPerIP: 10, MaxTotal: 2})

	mustAcquire(t, l, "10.0.0.1")
	mustAcquire(t, l, "10.0.0.2")
	if _, err := l.Acquire("10.0.0.3"); !errors.Is(err, ErrServerFull) {
		t.Errorf("error = %v, want ErrServerFull", err)
	}
	if sessions, clients := l.Active(); sessions != 2 || clients != 2 {
		t.Errorf("Active() = %d, %d, want 2, 2", sessions, clients)
	}
}

func TestSessionLimiter_Unlimited(t *testing.T) {
	l := NewSessionLimiter(config.ConnectionsConfig{})
	for i := 0; i < 50; i++ {
		mustAcquire(t, l, "10.0.0.1")
	}
}

func TestSessionLimiter_ReleaseTwice(t *testing.T) {
	l := NewSessionLimiter(config.ConnectionsConfig{MaxPerIP: 1})

	release := mustAcquire(t, l, "10.0.0.9")
	other := mustAcquire(t, l, "10.0.0.8")
	release()
	release()

	if sessions, clients := l.Active(); sessions != 1 || clients != 1 {
		t.Errorf("Active() = %d, %d after double release, want 1, 1", sessions, clients)
	}
	other()
	if sessions, clients := l.Active(); sessions != 0 || clients != 0 {
		t.Errorf("Active() = %d, %d, want 0, 0", sessions, clients)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		xff        string
		xri        string
		remoteAddr string
		want       string
	}{
		{"forwarded single", "203.0.113.50", "", "10.0.0.1:12345", "203.0.113.50"},
		{"forwarded chain", "203.0.113.50, 70.41.3.18", "", "10.0.0.1:12345", "203.0.113.50"},
		{"real ip", "", "203.0.113.50", "10.0.0.1:12345", "203.0.113.50"},
		{"forwarded over real ip", "203.0.113.50", "198.51.100.25", "10.0.0.1:12345", "203.0.113.50"},
		{"socket ipv4", "", "", "192.168.1.100:54321", "192.168.1.100"},
		{"socket ipv6", "", "", "[::1]:8080", "::1"},
		{"socket without port", "", "", "192.168.1.1", "192.168.1.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &http.Request{RemoteAddr: tt.remoteAddr, Header: make(http.Header)}
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}
			if got := clientIP(req); got != tt.want {
				t.Errorf("clientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
