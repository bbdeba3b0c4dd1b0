package middleware

import (
	"net/http"
	"sync"
	"time"

	"fintrack-server/src/util"

	"golang.org/x/time/rate"
)

// UserQuota admits burst calls per user in a fixed window that opens with the user's
// first call and resets window later.
type UserQuota struct {
	mu      sync.Mutex
	windows map[string]*quotaWindow
	burst   int
	window  time.Duration
}

type quotaWindow struct {
	limiter *rate.Limiter
	resetAt time.Time
}

func NewUserQuota(burst int, window time.Duration) *UserQuota {
	return &UserQuota{
		windows: make(map[string]*quotaWindow),
		burst:   burst,
		window:  window,
	}
}

// Allow consumes one call from the user's quota.
func (q *UserQuota) Allow(userID string, now time.Time) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	w, ok := q.windows[userID]
	if !ok || !now.Before(w.resetAt) {
		// A zero-rate limiter never refills, so it admits exactly burst calls.
		w = &quotaWindow{limiter: rate.NewLimiter(0, q.burst), resetAt: now.Add(q.window)}
		q.windows[userID] = w
	}
	return w.limiter.AllowN(now, 1)
}

// Limit rejects authenticated requests once the user's quota is exhausted.
func (q *UserQuota) Limit(msg string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := UserID(r.Context())
			if !ok {
				util.WriteError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			if !q.Allow(userID, time.Now()) {
				util.WriteError(w, http.StatusTooManyRequests, msg)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
