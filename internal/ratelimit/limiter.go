package ratelimit

import (
	"net/http"
	"strings"
	"sync"
	"time"
)

// Category is the rate-limit bucket a request path falls into.
type Category string

const (
	CategoryAuth    Category = "auth"
	CategoryContact Category = "contact"
	CategoryAPI     Category = "api"
)

// UnknownClient is the shared bucket for requests whose origin cannot be
// determined from forwarding headers. All such clients share one budget.
const UnknownClient = "unknown"

// Limiter enforces a per-client, per-category request budget over a sliding
// window. It is a best-effort, single-process limiter: state does not survive
// a restart and is not shared across instances. Running multiple instances
// would need an external counter store (e.g. redis) behind the same interface.
type Limiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	budgets  map[Category]int
	window   time.Duration
	now      func() time.Time
}

// NewLimiter creates a limiter with the given per-category budgets and window.
func NewLimiter(budgets map[Category]int, window time.Duration) *Limiter {
	return &Limiter{
		requests: make(map[string][]time.Time),
		budgets:  budgets,
		window:   window,
		now:      time.Now,
	}
}

// Admit checks and records a request from clientID in the given category.
// Rejected attempts are not recorded. Prune, count and append happen under
// one lock so two concurrent requests cannot both take the last slot.
func (l *Limiter) Admit(clientID string, cat Category) bool {
	budget, limited := l.budgets[cat]
	if !limited {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	windowStart := now.Add(-l.window)
	key := clientID + ":" + string(cat)

	times := l.requests[key]
	// drop timestamps that fell out of the window
	pruned := times[:0]
	for _, t := range times {
		if t.After(windowStart) {
			pruned = append(pruned, t)
		}
	}
	if len(pruned) == 0 {
		// keep the map from accumulating idle clients
		delete(l.requests, key)
	} else {
		l.requests[key] = pruned
	}

	if len(pruned) >= budget {
		return false
	}
	l.requests[key] = append(pruned, now)
	return true
}

// Classify maps a request path to its rate-limit category. Auth paths take
// precedence over the contact endpoint, which takes precedence over the
// generic API prefix. Everything else is never rate-limited.
func Classify(path string) (Category, bool) {
	switch {
	case strings.HasPrefix(path, "/login"),
		strings.HasPrefix(path, "/signup"),
		strings.HasPrefix(path, "/reset-password"):
		return CategoryAuth, true
	case strings.HasPrefix(path, "/api/contact"):
		return CategoryContact, true
	case strings.HasPrefix(path, "/api/"):
		return CategoryAPI, true
	}
	return "", false
}

// ClientIdentifier extracts a best-effort client IP from forwarding headers.
// Falls back to UnknownClient, so unidentified clients share one budget.
func ClientIdentifier(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first := strings.SplitN(fwd, ",", 2)[0]
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return UnknownClient
}
