package servicedesk

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		client, err := New()
		require.NoError(t, err)
		assert.Equal(t, Credentials{}, client.Config().Snapshot())
		assert.NotNil(t, client.Info())
		assert.NotNil(t, client.Requests())
		assert.NotNil(t, client.ServiceDesks())
	})

	t.Run("with host and credentials", func(t *testing.T) {
		client, err := New(WithHost(testHost), WithCredentials("agent", "secret"))
		require.NoError(t, err)
		assert.Equal(t, Credentials{Host: testHost, Username: "agent", Password: "secret"}, client.Config().Snapshot())
	})

	t.Run("with timeout", func(t *testing.T) {
		client, err := New(WithTimeout(5 * time.Second))
		require.NoError(t, err)
		hc, ok := client.Service().httpClient.(*http.Client)
		require.True(t, ok)
		assert.Equal(t, 5*time.Second, hc.Timeout)
	})

	t.Run("does not modify caller http client", func(t *testing.T) {
		custom := &http.Client{Timeout: 10 * time.Second}
		_, err := New(WithHTTPClient(custom), WithUserAgent("jsd/test"))
		require.NoError(t, err)
		assert.Nil(t, custom.Transport)
	})

	t.Run("timeout applies to copied http client", func(t *testing.T) {
		custom := &http.Client{}
		client, err := New(WithHTTPClient(custom), WithTimeout(7*time.Second))
		require.NoError(t, err)

		hc, ok := client.Service().httpClient.(*http.Client)
		require.True(t, ok)
		assert.Equal(t, 7*time.Second, hc.Timeout)
		assert.Zero(t, custom.Timeout)
	})

	t.Run("caller http client keeps its timeout", func(t *testing.T) {
		client, err := New(WithHTTPClient(&http.Client{Timeout: 10 * time.Second}))
		require.NoError(t, err)

		hc, ok := client.Service().httpClient.(*http.Client)
		require.True(t, ok)
		assert.Equal(t, 10*time.Second, hc.Timeout)
	})

	t.Run("rejects invalid rate limit", func(t *testing.T) {
		for _, tc := range []struct {
			rps   float64
			burst int
		}{{0, 1}, {1, 0}, {-1, 5}} {
			_, err := New(WithRateLimit(tc.rps, tc.burst))
			require.ErrorIs(t, err, ErrInvalidConfig)
		}
	})
}

func TestFacadesShareConfig(t *testing.T) {
	client, err := New()
	require.NoError(t, err)

	assert.Same(t, client.Service(), client.Info().service)
	assert.Same(t, client.Service(), client.Requests().service)
	assert.Same(t, client.Service(), client.ServiceDesks().service)
	assert.Same(t, client.Config(), client.Service().config)
}

func TestUserAgent(t *testing.T) {
	rt := &recordingTransport{}
	client := newTestClient(t, rt, WithUserAgent("jsd/1.0"))

	_, err := client.Info().Get(context.Background())
	require.NoError(t, err)

	sent, _ := rt.last(t)
	assert.Equal(t, "jsd/1.0", sent.Header.Get("User-Agent"))
}

func TestRateLimit(t *testing.T) {
	t.Run("passes requests through", func(t *testing.T) {
		rt := &recordingTransport{}
		client := newTestClient(t, rt, WithRateLimit(100, 2))

		for range 3 {
			_, err := client.Info().Get(context.Background())
			require.NoError(t, err)
		}
		assert.Equal(t, 3, rt.calls)
	})

	t.Run("cancelled context never reaches the transport", func(t *testing.T) {
		rt := &recordingTransport{}
		client := newTestClient(t, rt, WithRateLimit(1, 1))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		resp, err := client.Info().Get(ctx)
		require.Error(t, err)
		assert.Nil(t, resp)
		assert.True(t, errors.Is(err, ErrConnection))
		assert.Zero(t, rt.calls)
	})
}
