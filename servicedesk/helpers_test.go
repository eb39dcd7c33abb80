package servicedesk

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const testHost = "https://jira.example.com/"

// recordingTransport captures every request and answers with a canned response
type recordingTransport struct {
	calls    int
	requests []*http.Request
	bodies   [][]byte
	status   int
	respBody string
	err      error
}

func (rt *recordingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	rt.calls++

	var body []byte
	if r.Body != nil {
		body, _ = io.ReadAll(r.Body)
		r.Body.Close()
	}
	rt.requests = append(rt.requests, r)
	rt.bodies = append(rt.bodies, body)

	if rt.err != nil {
		return nil, rt.err
	}

	status := rt.status
	if status == 0 {
		status = http.StatusOK
	}

	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Header:     http.Header{"Content-Type": {"application/json"}},
		Body:       io.NopCloser(strings.NewReader(rt.respBody)),
		Request:    r,
	}, nil
}

func (rt *recordingTransport) last(t *testing.T) (*http.Request, []byte) {
	t.Helper()
	require.NotEmpty(t, rt.requests, "no request was sent")
	i := len(rt.requests) - 1
	return rt.requests[i], rt.bodies[i]
}

func newTestClient(t *testing.T, rt http.RoundTripper, opts ...Option) *Client {
	t.Helper()

	base := []Option{
		WithHost(testHost),
		WithCredentials("agent", "secret"),
		WithHTTPClient(&http.Client{Transport: rt}),
	}
	client, err := New(append(base, opts...)...)
	require.NoError(t, err)
	return client
}

func compactJSON(t *testing.T, raw []byte) string {
	t.Helper()
	return string(bytes.TrimSpace(raw))
}
