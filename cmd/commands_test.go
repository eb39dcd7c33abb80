package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/servicedesk/servicedesk"
)

func TestParseFields(t *testing.T) {
	fields, err := parseFields([]string{
		"summary=Printer on fire",
		"description=a=b",
		`components=[{"name":"Hardware"}]`,
		"customfield_10010={broken",
	})
	require.NoError(t, err)

	assert.Equal(t, "Printer on fire", fields["summary"])
	assert.Equal(t, "a=b", fields["description"])
	assert.Equal(t, json.RawMessage(`[{"name":"Hardware"}]`), fields["components"])
	assert.Equal(t, "{broken", fields["customfield_10010"])

	encoded, err := json.Marshal(fields)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), `"components":[{"name":"Hardware"}]`)

	for _, bad := range []string{"summary", "=value"} {
		_, err := parseFields([]string{bad})
		assert.Error(t, err, bad)
	}
}

func TestParseIDs(t *testing.T) {
	ids, err := parseIDs([]string{"10", "25"}, "service desk id", "request type id")
	require.NoError(t, err)
	assert.Equal(t, []int{10, 25}, ids)

	_, err = parseIDs([]string{"10", "abc"}, "service desk id", "request type id")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request type id")
}

func TestServerVersion(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{"full version", `{"version":"3.9.1","platformVersion":"7.13.0"}`, "3.9.1", false},
		{"short version", `{"version":"4.5"}`, "4.5.0", false},
		{"missing", `{"platformVersion":"7.13.0"}`, "", true},
		{"garbage", `{"version":"next"}`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := serverVersion([]byte(tt.body))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.String())
		})
	}

	old, err := serverVersion([]byte(`{"version":"2.5.9"}`))
	require.NoError(t, err)
	assert.True(t, old.LT(minimumServerVersion))
}

func TestUploadFiles(t *testing.T) {
	var calls, inFlight, peak atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)

		assert.Equal(t, "/rest/servicedeskapi/servicedesk/7/attachTemporaryFile", r.URL.Path)
		assert.Equal(t, "no-check", r.Header.Get("X-Atlassian-Token"))
		assert.Equal(t, "opt-in", r.Header.Get("X-ExperimentalApi"))

		f, header, err := r.FormFile("file")
		if assert.NoError(t, err) {
			content, _ := io.ReadAll(f)
			f.Close()
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"temporaryAttachments": []map[string]string{{
					"temporaryAttachmentId": "temp-" + header.Filename,
					"fileName":              string(content),
				}},
			})
		}
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"a.txt", "b.txt", "c.txt", "d.txt"} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(name), 0o600))
		paths = append(paths, p)
	}

	c, err := servicedesk.New(
		servicedesk.WithHost(srv.URL+"/"),
		servicedesk.WithCredentials("agent", "secret"),
		servicedesk.WithLogger(zerolog.Nop()),
	)
	require.NoError(t, err)

	results := uploadFiles(context.Background(), c.ServiceDesks(), 7, paths, 2)
	require.Len(t, results, len(paths))

	assert.Equal(t, int32(len(paths)), calls.Load())
	assert.LessOrEqual(t, peak.Load(), int32(2))
	for i, result := range results {
		require.NoError(t, result.Err)
		require.True(t, result.Response.IsSuccess())
		assert.Contains(t, string(result.Response.Body), "temp-"+filepath.Base(paths[i]))
	}
}

func TestUploadFilesKeepsSuccessfulResults(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		io.WriteString(w, `{"temporaryAttachments":[{"temporaryAttachmentId":"temp-1"}]}`)
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	good := filepath.Join(dir, "good.txt")
	require.NoError(t, os.WriteFile(good, []byte("good"), 0o600))
	missing := filepath.Join(dir, "missing.txt")

	c, err := servicedesk.New(servicedesk.WithHost(srv.URL + "/"))
	require.NoError(t, err)

	for _, paths := range [][]string{{good, missing}, {missing, good}} {
		results := uploadFiles(context.Background(), c.ServiceDesks(), 7, paths, 1)
		require.Len(t, results, 2)

		for i, path := range paths {
			if path == missing {
				require.Error(t, results[i].Err)
				assert.Contains(t, results[i].Err.Error(), "missing.txt")
				assert.Nil(t, results[i].Response)
				continue
			}
			require.NoError(t, results[i].Err)
			assert.Contains(t, string(results[i].Response.Body), "temp-1")
		}
	}
	assert.Equal(t, int32(2), calls.Load())
}

func TestExecuteRequestGet(t *testing.T) {
	t.Chdir(t.TempDir())

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "agent", user)
		assert.Equal(t, "secret", pass)
		assert.Equal(t, "jsd/"+version, r.UserAgent())

		switch r.URL.Path {
		case "/rest/servicedeskapi/request/SD-1/participant":
			io.WriteString(w, `{"issueKey":"SD-1"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `{"errorMessage":"not found"}`)
		}
	}))
	t.Cleanup(srv.Close)

	run := func(args ...string) (string, error) {
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetErr(io.Discard)
		rootCmd.SetArgs(append([]string{
			"--host", srv.URL,
			"--username", "agent",
			"--password", "secret",
			"--raw",
		}, args...))
		err := rootCmd.Execute()
		return out.String(), err
	}

	out, err := run("request", "get", "SD-1", "--expand", "participant")
	require.NoError(t, err)
	assert.Equal(t, "{\"issueKey\":\"SD-1\"}\n", out)

	out, err = run("request", "get", "SD-404", "--expand", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, errRequestFailed)
	assert.Contains(t, out, "not found")

	assert.Equal(t, int32(2), hits.Load())
}
