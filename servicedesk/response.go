package servicedesk

import (
	"net/http"
)

// Response is the unmodified result of a dispatched request. The body is
// read fully and kept as raw bytes; interpreting it is up to the caller.
type Response struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte
}

// IsSuccess reports a 2xx status
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsUnauthorized checks if the service rejected the credentials
func (r *Response) IsUnauthorized() bool {
	return r.StatusCode == http.StatusUnauthorized || r.StatusCode == http.StatusForbidden
}

// IsNotFound checks if the resource does not exist
func (r *Response) IsNotFound() bool {
	return r.StatusCode == http.StatusNotFound
}

// GetHeader returns the first value of the named response header
func (r *Response) GetHeader(name string) string {
	return r.Header.Get(name)
}

// String returns the raw body as text
func (r *Response) String() string {
	return string(r.Body)
}
