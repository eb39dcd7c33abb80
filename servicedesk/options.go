package servicedesk

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTimeout applies when neither WithTimeout nor WithHTTPClient is used
const DefaultTimeout = 30 * time.Second

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	host       string
	username   string
	password   string
	httpClient *http.Client
	timeout    *time.Duration
	logger     *zerolog.Logger
	userAgent  string
	rateLimit  *rateLimit
}

type rateLimit struct {
	rps   float64
	burst int
}

// WithHost sets the base URL of the service desk instance.
func WithHost(host string) Option {
	return func(o *clientOptions) {
		o.host = host
	}
}

// WithCredentials sets the Basic auth username and password.
func WithCredentials(username, password string) Option {
	return func(o *clientOptions) {
		o.username = username
		o.password = password
	}
}

// WithHTTPClient replaces the underlying HTTP client. Its Transport is
// still wrapped when WithRateLimit or WithUserAgent are used.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = hc
	}
}

// WithTimeout sets the HTTP client timeout. Combined with WithHTTPClient it
// replaces the timeout of the copied client.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = &timeout
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *clientOptions) {
		o.logger = &logger
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) {
		o.userAgent = userAgent
	}
}

// WithRateLimit spaces outbound requests with a token bucket of rps
// requests per second and the given burst.
func WithRateLimit(rps float64, burst int) Option {
	return func(o *clientOptions) {
		o.rateLimit = &rateLimit{rps: rps, burst: burst}
	}
}
