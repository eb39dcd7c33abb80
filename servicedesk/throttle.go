package servicedesk

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// ErrRateLimit is returned when waiting for a rate limit token fails
var ErrRateLimit = errors.New("rate limit wait failed")

// throttle is an http.RoundTripper that waits on a token bucket before
// handing the request to next.
type throttle struct {
	limiter *rate.Limiter
	next    http.RoundTripper
	logger  zerolog.Logger
}

func newThrottle(rps float64, burst int, logger zerolog.Logger, next http.RoundTripper) (*throttle, error) {
	if rps <= 0 || burst <= 0 {
		return nil, fmt.Errorf("%w: rate limit rps[%g] and burst[%d] must be greater than zero", ErrInvalidConfig, rps, burst)
	}

	return &throttle{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		next:    next,
		logger:  logger,
	}, nil
}

func (t *throttle) RoundTrip(r *http.Request) (*http.Response, error) {
	start := time.Now()
	if err := t.limiter.Wait(r.Context()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRateLimit, err)
	}

	if waited := time.Since(start); waited > time.Millisecond {
		t.logger.Debug().
			Dur("waited", waited).
			Str("path", r.URL.Path).
			Msg("Throttled service desk request")
	}

	return t.next.RoundTrip(r)
}

// userAgent sets a fixed User-Agent header on every outgoing request.
type userAgent struct {
	value string
	next  http.RoundTripper
}

func (ua userAgent) RoundTrip(r *http.Request) (*http.Response, error) {
	cpy := r.Clone(r.Context())
	cpy.Header.Set("User-Agent", ua.value)
	return ua.next.RoundTrip(cpy)
}
