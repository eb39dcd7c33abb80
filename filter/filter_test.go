package filter

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw string) []any {
	t.Helper()
	var items []any
	require.NoError(t, json.Unmarshal([]byte(raw), &items))
	return items
}

func TestCompile(t *testing.T) {
	tests := []struct {
		name        string
		expression  string
		wantErr     bool
		errContains string
	}{
		{
			name:       "valid expression",
			expression: `issueKey == "SD-1"`,
		},
		{
			name:        "empty expression",
			expression:  "   ",
			wantErr:     true,
			errContains: "empty expression",
		},
		{
			name:       "invalid syntax",
			expression: `contains(issueKey, "unclosed`,
			wantErr:    true,
		},
		{
			name:       "non boolean result",
			expression: `1 + 2`,
			wantErr:    true,
		},
		{
			name:       "helpers and nested fields",
			expression: `contains(currentStatus.status, "waiting") and daysSince(createdDate) > 7`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Compile(tt.expression)
			if tt.wantErr {
				require.Error(t, err)
				var compErr *CompilationError
				assert.ErrorAs(t, err, &compErr)
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expression, f.String())
		})
	}
}

func TestCompileReusesCachedFilter(t *testing.T) {
	first, err := Compile(`public == true`)
	require.NoError(t, err)
	second, err := Compile(`  public == true `)
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestApply(t *testing.T) {
	old := time.Now().AddDate(0, 0, -30).UnixMilli()
	recent := time.Now().AddDate(0, 0, -1).UnixMilli()

	raw := `[
		{"issueKey": "SD-1", "currentStatus": {"status": "Waiting for support"}, "createdDate": {"epochMillis": ` + jsonInt(old) + `}},
		{"issueKey": "SD-2", "currentStatus": {"status": "Resolved"}, "createdDate": {"epochMillis": ` + jsonInt(old) + `}},
		{"issueKey": "SD-3", "currentStatus": {"status": "Waiting for support"}, "createdDate": {"epochMillis": ` + jsonInt(recent) + `}}
	]`

	tests := []struct {
		name       string
		expression string
		want       []string
	}{
		{
			name:       "field equality",
			expression: `issueKey == "SD-2"`,
			want:       []string{"SD-2"},
		},
		{
			name:       "case insensitive contains",
			expression: `contains(currentStatus.status, "WAITING")`,
			want:       []string{"SD-1", "SD-3"},
		},
		{
			name:       "age of request",
			expression: `daysSince(createdDate) > 7`,
			want:       []string{"SD-1", "SD-2"},
		},
		{
			name:       "combined",
			expression: `startsWith(currentStatus.status, "waiting") and daysSince(createdDate) > 7`,
			want:       []string{"SD-1"},
		},
		{
			name:       "whole item",
			expression: `Item.issueKey == "SD-3"`,
			want:       []string{"SD-3"},
		},
		{
			name:       "undefined field matches nothing",
			expression: `missing == "x"`,
			want:       []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Compile(tt.expression)
			require.NoError(t, err)

			got, err := f.Apply(decode(t, raw))
			require.NoError(t, err)

			keys := make([]string, 0, len(got))
			for _, item := range got {
				keys = append(keys, item.(map[string]any)["issueKey"].(string))
			}
			assert.Equal(t, tt.want, keys)
		})
	}
}

func TestApplyEvaluationError(t *testing.T) {
	f, err := Compile(`lower(issueKey) == "sd-1"`)
	require.NoError(t, err)

	_, err = f.Apply([]any{
		map[string]any{"issueKey": "SD-1"},
		map[string]any{"issueKey": 42.0},
	})
	require.Error(t, err)

	var evalErr *EvaluationError
	require.ErrorAs(t, err, &evalErr)
	assert.Equal(t, 1, evalErr.Index)
	assert.NotNil(t, evalErr.Unwrap())
}

func TestMatchNonObjectItem(t *testing.T) {
	f, err := Compile(`Item == "SD-1"`)
	require.NoError(t, err)

	ok, err := f.Match("SD-1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestReservedFieldNamesReachableThroughItem(t *testing.T) {
	f, err := Compile(`Item.lower == "x" and lower("ABC") == "abc"`)
	require.NoError(t, err)

	ok, err := f.Match(map[string]any{"lower": "x"})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestToTime(t *testing.T) {
	ref := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input any
		want  time.Time
	}{
		{"date object millis", map[string]any{"epochMillis": float64(ref.UnixMilli())}, ref},
		{"date object iso", map[string]any{"iso8601": "2024-03-01T12:00:00+0000"}, ref},
		{"rfc3339", "2024-03-01T12:00:00Z", ref},
		{"date only", "2024-03-01", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"millis", float64(ref.UnixMilli()), ref},
		{"unknown", true, time.Time{}},
		{"garbage", "yesterday", time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(toTime(tt.input)), "got %v", toTime(tt.input))
		})
	}
}

func TestFilterCacheEviction(t *testing.T) {
	c := newFilterCache(2)
	a := &Filter{expression: "a"}
	b := &Filter{expression: "b"}
	d := &Filter{expression: "d"}

	c.Put(a)
	c.Put(b)
	_, ok := c.Get("a")
	require.True(t, ok)

	c.Put(d)
	assert.Equal(t, 2, c.Len())

	_, ok = c.Get("b")
	assert.False(t, ok, "least recently used entry should be evicted")
	got, ok := c.Get("a")
	assert.True(t, ok)
	assert.Same(t, a, got)
}

func jsonInt(v int64) string {
	b, _ := json.Marshal(v)
	return string(b)
}
