package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"github.com/shelfspace/shelfspace/internal/platform/httpx"
)

// Tighter windows than the generic per-route limiter.
const (
	registerLimit = 3
	loginLimit    = 5
	throttleWin   = time.Minute
)

// Throttler rate-limits authentication attempts keyed by client address plus
// the claimed identifier, so attempts against nonexistent accounts are still
// counted. Counters are process-scoped and reset per window; losing them on
// restart is acceptable for a best-effort anti-brute-force measure.
type Throttler struct {
	register *httprate.RateLimiter
	login    *httprate.RateLimiter
}

// NewThrottler constructs the login/register throttler with in-memory counters.
func NewThrottler() *Throttler {
	limitHandler := httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
		httpx.RespondError(w, httpx.ErrTooManyRequests)
	})
	return &Throttler{
		register: httprate.NewRateLimiter(registerLimit, throttleWin, limitHandler),
		login:    httprate.NewRateLimiter(loginLimit, throttleWin, limitHandler),
	}
}

func throttleKey(r *http.Request, identifier string) string {
	ip, err := httprate.KeyByIP(r)
	if err != nil {
		ip = r.RemoteAddr
	}
	return ip + "|" + identifier
}

// LimitRegister counts a registration attempt. It writes the 429 response
// and returns true when the key is over its window budget.
func (t *Throttler) LimitRegister(w http.ResponseWriter, r *http.Request, identifier string) bool {
	return t.register.RespondOnLimit(w, r, throttleKey(r, identifier))
}

// LimitLogin counts a login attempt, same contract as LimitRegister.
func (t *Throttler) LimitLogin(w http.ResponseWriter, r *http.Request, identifier string) bool {
	return t.login.RespondOnLimit(w, r, throttleKey(r, identifier))
}
