package utils

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUserTime(t *testing.T) {
	got, err := ParseUserTime("2025-07-17T21:20:48Z", false)
	require.NoError(t, err)
	assert.Equal(t, 2025, got.Year())

	got, err = ParseUserTime("2025-07-17", true)
	require.NoError(t, err)
	assert.Equal(t, 23, got.Hour())
	assert.Equal(t, 59, got.Minute())

	_, err = ParseUserTime("17/07/2025", false)
	assert.Error(t, err)
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2025, 7, 17, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time {
		v := now.Add(-d)
		return &v
	}

	tests := []struct {
		name string
		in   *time.Time
		want string
	}{
		{"never", nil, "never"},
		{"just now", at(20 * time.Second), "just now"},
		{"one minute", at(90 * time.Second), "1 min ago"},
		{"minutes", at(12 * time.Minute), "12 mins ago"},
		{"hours", at(3 * time.Hour), "more than an hour ago"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeTime(tt.in, now))
		})
	}
}

func TestIsValidJSON(t *testing.T) {
	assert.True(t, IsValidJSON(`{"enabled":true}`))
	assert.True(t, IsValidJSON(`[1,2,3]`))
	assert.True(t, IsValidJSON(`"just a string"`))
	assert.False(t, IsValidJSON(`{"enabled":true`))
	assert.False(t, IsValidJSON(`{enabled:true}`))
	assert.False(t, IsValidJSON(``))
}

func TestFormatJSON(t *testing.T) {
	assert.Equal(t, "{\n  \"a\": 1\n}", FormatJSON([]byte(`{"a":1}`)))
	assert.Equal(t, "{bad", FormatJSON([]byte(`{bad`)))
}

func TestEmptyObjectIfBlank(t *testing.T) {
	assert.Equal(t, json.RawMessage(`{}`), EmptyObjectIfBlank(nil))
	assert.Equal(t, json.RawMessage(`{}`), EmptyObjectIfBlank(json.RawMessage("null")))
	assert.Equal(t, json.RawMessage(`{"a":1}`), EmptyObjectIfBlank(json.RawMessage(`{"a":1}`)))
}
