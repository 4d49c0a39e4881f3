package model

import (
	"strings"
	"time"
)

// Level is the severity class assigned to a log line.
type Level int

const (
	LevelUnknown Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelCritical
)

// Levels lists every level from most to least severe, UNKNOWN last.
// Renderers iterate it so output order never depends on map order.
var Levels = []Level{
	LevelCritical,
	LevelError,
	LevelWarn,
	LevelInfo,
	LevelDebug,
	LevelUnknown,
}

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a level name back into a Level. Unknown names map to LevelUnknown.
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug
	case "INFO":
		return LevelInfo
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	case "CRITICAL":
		return LevelCritical
	default:
		return LevelUnknown
	}
}

// LogRecord is one classified line. It lives only until the aggregator has folded it in.
type LogRecord struct {
	Level             Level
	Timestamp         time.Time // meaningful only when TimestampFound
	TimestampFound    bool
	Source            string    // empty = no service/app/module tag
	RawMessage        string
	NormalizedMessage string
}

// HasTimestamp reports whether a timestamp was detected on the line.
func (r LogRecord) HasTimestamp() bool {
	return r.TimestampFound
}

// HasSource reports whether a source tag was detected on the line.
func (r LogRecord) HasSource() bool {
	return r.Source != ""
}

// TimeWindow is the earliest and latest timestamp seen.
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

// MessageCount pairs a normalized message with how often it occurred.
type MessageCount struct {
	Message string
	Count   int
}

// Summary is the finished aggregation result. Callers must treat it as read-only.
type Summary struct {
	TotalLines   int
	LevelCounts  map[Level]int
	TimeWindow   *TimeWindow // nil when no record carried a timestamp
	SourceCounts map[string]int
	TopMessages  []MessageCount
}
