package servicedesk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Doer executes HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Service dispatches PendingRequests against the host and credentials in
// a shared Config. It keeps no per-call state.
type Service struct {
	config     *Config
	httpClient Doer
	logger     zerolog.Logger
}

// NewService creates a dispatcher bound to config.
func NewService(config *Config, httpClient Doer, logger zerolog.Logger) *Service {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Service{
		config:     config,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Do performs exactly one HTTP call for req. Any HTTP status, including
// 4xx and 5xx, is returned as a *Response with a nil error. Only failures
// that prevent a response from arriving are returned as errors, and those
// match ErrConnection.
func (s *Service) Do(ctx context.Context, req *PendingRequest) (*Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	creds := s.config.Snapshot()
	requestURL := req.URL(creds.Host)

	body, contentType, err := encodeBody(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s %s body: %w", req.method, req.path, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, string(req.method), requestURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.SetBasicAuth(creds.Username, creds.Password)
	httpReq.Header.Set("Accept", "application/json")
	for k, v := range req.Headers() {
		httpReq.Header.Set(k, v)
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		s.logger.Debug().
			Err(err).
			Str("method", string(req.method)).
			Str("path", req.path).
			Msg("Service desk request failed")
		return nil, &TransportError{Method: string(req.method), URL: requestURL, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Method: string(req.method), URL: requestURL, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	s.logger.Debug().
		Str("method", string(req.method)).
		Str("path", req.path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Service desk request completed")

	return &Response{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Header:     resp.Header,
		Body:       raw,
	}, nil
}

// encodeBody builds the request body. Multipart parts take precedence over a
// structured payload.
func encodeBody(req *PendingRequest) (io.Reader, string, error) {
	if req.IsMultipart() {
		return encodeMultipart(req.parts)
	}

	if req.body == nil {
		return nil, "", nil
	}

	if raw, ok := req.body.([]byte); ok {
		return bytes.NewReader(raw), "application/json", nil
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(req.body); err != nil {
		return nil, "", err
	}
	return &buf, "application/json", nil
}

func encodeMultipart(parts []Part) (io.Reader, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for _, p := range parts {
		if p.Name == "" {
			return nil, "", fmt.Errorf("multipart part name is required")
		}

		var (
			w   io.Writer
			err error
		)
		if p.Filename != "" {
			w, err = writer.CreateFormFile(p.Name, p.Filename)
		} else {
			w, err = writer.CreateFormField(p.Name)
		}
		if err != nil {
			return nil, "", err
		}

		if p.Content != nil {
			if _, err := io.Copy(w, p.Content); err != nil {
				return nil, "", fmt.Errorf("failed to copy part %q: %w", p.Name, err)
			}
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}

	return &buf, writer.FormDataContentType(), nil
}
