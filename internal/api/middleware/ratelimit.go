package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/m04kA/SMC-ClubBookingService/internal/api/handlers"
)

const (
	cleanupThreshold = 10000
	staleAfter       = 10 * time.Minute
	msgTooManyReqs   = "слишком много запросов"
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter ограничивает частоту запросов по ключу (пользователь или IP)
type RateLimiter struct {
	mu      sync.Mutex
	entries map[string]*limiterEntry
	r       rate.Limit
	b       int
}

// NewRateLimiter rps запросов в секунду с запасом burst на каждый ключ
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		entries: make(map[string]*limiterEntry),
		r:       rate.Limit(rps),
		b:       burst,
	}
}

// Allow расходует токен ключа
func (l *RateLimiter) Allow(key string) bool {
	return l.get(key).Allow()
}

func (l *RateLimiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if len(l.entries) > cleanupThreshold {
		for k, e := range l.entries {
			if now.Sub(e.lastSeen) > staleAfter {
				delete(l.entries, k)
			}
		}
	}

	e, ok := l.entries[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(l.r, l.b)}
		l.entries[key] = e
	}
	e.lastSeen = now
	return e.limiter
}

// RateLimit ограничивает запросы по пользователю из X-User-ID, а без него - по IP
func RateLimit(limiter *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(UserIDHeader)
			if key == "" {
				ip, _, err := net.SplitHostPort(r.RemoteAddr)
				if err != nil {
					ip = r.RemoteAddr
				}
				key = ip
			}

			if !limiter.Allow(key) {
				handlers.RespondError(w, http.StatusTooManyRequests, msgTooManyReqs)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
