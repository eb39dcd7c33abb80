package servicedesk

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// APIPrefix is the route segment every resource path lives under.
const APIPrefix = "rest/servicedeskapi/"

// Headers set on endpoints the service still marks as provisional.
const (
	ExperimentalHeader = "X-ExperimentalApi"
	ExperimentalValue  = "opt-in"

	// XSRF check bypass required by multipart endpoints
	TokenHeader  = "X-Atlassian-Token"
	TokenNoCheck = "no-check"
)

// Method is an HTTP verb accepted by the API
type Method string

const (
	MethodGet    Method = "GET"
	MethodPost   Method = "POST"
	MethodPut    Method = "PUT"
	MethodDelete Method = "DELETE"
)

// Valid reports whether m is one of the supported verbs
func (m Method) Valid() bool {
	switch m {
	case MethodGet, MethodPost, MethodPut, MethodDelete:
		return true
	default:
		return false
	}
}

func (m Method) String() string {
	return string(m)
}

// ParseMethod converts a case-insensitive verb into a Method
func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToUpper(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidMethod, s)
	}
	return m, nil
}

// Query is an insertion-ordered set of query parameters. Each key appears
// at most once; setting an existing key replaces its value in place.
type Query struct {
	keys   []string
	values map[string]string
}

// NewQuery creates an empty Query
func NewQuery() *Query {
	return &Query{values: make(map[string]string)}
}

// Set adds or replaces a parameter
func (q *Query) Set(key, value string) *Query {
	if q.values == nil {
		q.values = make(map[string]string)
	}
	if _, ok := q.values[key]; !ok {
		q.keys = append(q.keys, key)
	}
	q.values[key] = value
	return q
}

// SetString sets key only when value is non-empty
func (q *Query) SetString(key, value string) *Query {
	if value == "" {
		return q
	}
	return q.Set(key, value)
}

// SetInt always sets key
func (q *Query) SetInt(key string, value int) *Query {
	return q.Set(key, strconv.Itoa(value))
}

// SetBool sets key=true when value is true and omits it otherwise
func (q *Query) SetBool(key string, value bool) *Query {
	if !value {
		return q
	}
	return q.Set(key, "true")
}

// SetBoolPtr omits key when value is nil and sends the explicit value otherwise
func (q *Query) SetBoolPtr(key string, value *bool) *Query {
	if value == nil {
		return q
	}
	return q.Set(key, strconv.FormatBool(*value))
}

// Get returns the value stored under key
func (q *Query) Get(key string) (string, bool) {
	if q == nil {
		return "", false
	}
	v, ok := q.values[key]
	return v, ok
}

// Len returns the number of parameters
func (q *Query) Len() int {
	if q == nil {
		return 0
	}
	return len(q.keys)
}

// Encode serializes the parameters as key=value&key=value in insertion order
func (q *Query) Encode() string {
	if q.Len() == 0 {
		return ""
	}

	var b strings.Builder
	for i, k := range q.keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(q.values[k]))
	}
	return b.String()
}

// Part is one named section of a multipart/form-data body. A non-empty
// Filename makes it a file part.
type Part struct {
	Name     string
	Filename string
	Content  io.Reader
}

// PendingRequest describes a single API call. It is built fresh for every
// call and never shared between calls.
type PendingRequest struct {
	method       Method
	path         string
	query        *Query
	body         any
	headers      map[string]string
	parts        []Part
	experimental bool
}

// NewRequest creates a PendingRequest for path relative to APIPrefix.
func NewRequest(method Method, path string) (*PendingRequest, error) {
	r := &PendingRequest{
		method:  method,
		path:    path,
		headers: make(map[string]string),
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate checks that the request can be dispatched
func (r *PendingRequest) Validate() error {
	if r == nil || r.method == "" {
		return ErrMissingMethod
	}
	if !r.method.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidMethod, string(r.method))
	}
	if r.path == "" {
		return ErrMissingPath
	}
	return nil
}

// WithQuery attaches query parameters
func (r *PendingRequest) WithQuery(q *Query) *PendingRequest {
	r.query = q
	return r
}

// WithBody attaches a payload that is sent JSON-encoded
func (r *PendingRequest) WithBody(body any) *PendingRequest {
	r.body = body
	return r
}

// WithHeaders merges headers into the request. Keys are canonicalized, so
// names differing only in case replace each other.
func (r *PendingRequest) WithHeaders(headers map[string]string) *PendingRequest {
	if r.headers == nil {
		r.headers = make(map[string]string, len(headers))
	}
	for k, v := range headers {
		r.headers[http.CanonicalHeaderKey(k)] = v
	}
	return r
}

// WithMultipart replaces the body with multipart form data built from parts
func (r *PendingRequest) WithMultipart(parts ...Part) *PendingRequest {
	r.parts = append(r.parts, parts...)
	return r
}

// Experimental opts in to a provisional endpoint
func (r *PendingRequest) Experimental() *PendingRequest {
	r.experimental = true
	return r
}

// Method returns the HTTP verb
func (r *PendingRequest) Method() Method {
	return r.method
}

// Path returns the resource path relative to APIPrefix
func (r *PendingRequest) Path() string {
	return r.path
}

// IsMultipart reports whether the body is sent as multipart form data
func (r *PendingRequest) IsMultipart() bool {
	return len(r.parts) > 0
}

// URL resolves the full request URL. host is used verbatim and must already
// end with a slash.
func (r *PendingRequest) URL(host string) string {
	u := host + APIPrefix + r.path
	if encoded := r.query.Encode(); encoded != "" {
		u += "?" + encoded
	}
	return u
}

// Headers returns the headers to send. The experimental opt-in replaces any
// caller value for the same header, whatever its case.
func (r *PendingRequest) Headers() map[string]string {
	out := make(map[string]string, len(r.headers)+1)
	for k, v := range r.headers {
		if r.experimental && strings.EqualFold(k, ExperimentalHeader) {
			continue
		}
		out[k] = v
	}
	if r.experimental {
		out[ExperimentalHeader] = ExperimentalValue
	}
	return out
}
