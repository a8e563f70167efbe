package server

import (
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/lawnchairsociety/cavemesh/internal/config"
)

// Reasons a session is refused before the upgrade.
var (
	ErrClientSessions = errors.New("server: too many sessions from this client")
	ErrServerFull     = errors.New("server: session limit reached")
)

// SessionLimiter caps concurrent WebSocket sessions per client IP and in
// total. A zero limit is unlimited.
type SessionLimiter struct {
	mu        sync.Mutex
	perClient map[string]int
	active    int
	maxPerIP  int
	maxTotal  int
}

func NewSessionLimiter(cfg config.ConnectionsConfig) *SessionLimiter {
	return &SessionLimiter{
		perClient: make(map[string]int),
		maxPerIP:  cfg.MaxPerIP,
		maxTotal:  cfg.MaxTotal,
	}
}

// Acquire reserves a session slot for ip. The returned release func frees
// it and is safe to call more than once.
func (l *SessionLimiter) Acquire(ip string) (release func(), err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.maxTotal > 0 && l.active >= l.maxTotal {
		return nil, ErrServerFull
	}
	if l.maxPerIP > 0 && l.perClient[ip] >= l.maxPerIP {
		return nil, ErrClientSessions
	}

	l.perClient[ip]++
	l.active++

	var once sync.Once
	return func() { once.Do(func() { l.release(ip) }) }, nil
}

func (l *SessionLimiter) release(ip string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if n := l.perClient[ip] - 1; n > 0 {
		l.perClient[ip] = n
	} else {
		delete(l.perClient, ip)
	}
	l.active--
}

// Active returns the number of open sessions and distinct clients.
func (l *SessionLimiter) Active() (sessions, clients int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active, len(l.perClient)
}

// clientIP returns the address a request is attributed to for limiting. The
// first X-Forwarded-For hop wins, then X-Real-IP, then the socket address
// without its port.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
