package timestamp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFromText_Formats(t *testing.T) {
	t.Parallel()
	p := NewParser()

	tests := []struct {
		name   string
		input  string
		format string
	}{
		{"space separated", "2024-01-15 10:30:45 some log message", "space"},
		{"iso", "2024-01-15T10:30:45 some log message", "iso"},
		{"iso with zone suffix", "2024-01-15T10:30:45Z some log message", "iso"},
		{"fractional seconds", "2024-01-15 10:30:45.123 some log message", "space"},
		{"not at line start", "[worker-3] 2024-01-15 10:30:45 done", "space"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := p.ParseFromText(tt.input)
			require.True(t, result.Found, "ParseFromText(%q) did not find timestamp", tt.input)
			assert.Equal(t, tt.format, result.Format)
			assert.Equal(t, time.Date(2024, 1, 15, 10, 30, 45, 0, time.UTC), result.Timestamp)
		})
	}
}

func TestParseFromText_SpaceFormatTriedFirst(t *testing.T) {
	t.Parallel()
	p := NewParser()

	// The ISO timestamp is leftmost, but the space form is always preferred.
	result := p.ParseFromText("2024-03-01T00:00:00 replayed from 2024-02-01 12:00:00")
	require.True(t, result.Found)
	assert.Equal(t, "space", result.Format)
	assert.Equal(t, time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC), result.Timestamp)
}

func TestParseFromText_InvalidCalendarFallsThrough(t *testing.T) {
	t.Parallel()
	p := NewParser()

	result := p.ParseFromText("2024-13-01 10:00:00 bad month")
	assert.False(t, result.Found)
	assert.Equal(t, "2024-13-01 10:00:00 bad month", result.Remaining)

	// An invalid space match does not hide a valid ISO one.
	result = p.ParseFromText("2024-02-30 10:00:00 then 2024-02-28T10:00:00")
	require.True(t, result.Found)
	assert.Equal(t, "iso", result.Format)
	assert.Equal(t, 28, result.Timestamp.Day())
}

func TestParseFromText_YearZeroRejected(t *testing.T) {
	t.Parallel()
	p := NewParser()

	result := p.ParseFromText("0000-01-01 00:00:00 boot")
	assert.False(t, result.Found)

	result = p.ParseFromText("0000-01-01 00:00:00 boot 0001-01-01T00:00:00")
	require.True(t, result.Found)
	assert.Equal(t, "iso", result.Format)
	assert.Equal(t, 1, result.Timestamp.Year())
}

func TestParseFromText_OnlyLeftmostPerFormat(t *testing.T) {
	t.Parallel()
	p := NewParser()

	// The leftmost space match is invalid; a later valid space match is not consulted.
	result := p.ParseFromText("2024-00-01 10:00:00 and 2024-01-01 10:00:00")
	assert.False(t, result.Found)
}

func TestParseFromText_NotZeroPadded(t *testing.T) {
	t.Parallel()
	p := NewParser()

	assert.False(t, p.ParseFromText("2024-1-5 10:30:45 short date").Found)
	assert.False(t, p.ParseFromText("2024-01-05 9:30:45 short hour").Found)
}

func TestParseFromText_NoTimestamp(t *testing.T) {
	t.Parallel()
	p := NewParser()

	result := p.ParseFromText("just a regular log message")
	assert.False(t, result.Found)
	assert.Equal(t, -1, result.Start)
	assert.Equal(t, "just a regular log message", result.Remaining)
}

func TestParseFromText_Span(t *testing.T) {
	t.Parallel()
	p := NewParser()

	line := "at 2024-01-15 10:30:45 boom"
	result := p.ParseFromText(line)
	require.True(t, result.Found)
	assert.Equal(t, "2024-01-15 10:30:45", line[result.Start:result.End])
	assert.Equal(t, "at  boom", result.Remaining)
}

func TestFormat(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "2024-01-02T03:04:05", Format(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)))
}
