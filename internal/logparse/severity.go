package logparse

import (
	"regexp"
	"strings"

	"github.com/tinytelemetry/loglens/internal/model"
)

// severityMatcher pairs a level with the whole-word pattern that detects it.
type severityMatcher struct {
	level model.Level
	re    *regexp.Regexp
}

// severityPriority is tried top to bottom; the first matcher that hits decides the level.
var severityPriority = []severityMatcher{
	{model.LevelCritical, regexp.MustCompile(`(?i)\bCRITICAL\b`)},
	{model.LevelError, regexp.MustCompile(`(?i)\bERROR\b`)},
	{model.LevelWarn, regexp.MustCompile(`(?i)\bWARN(?:ING)?\b`)},
	{model.LevelInfo, regexp.MustCompile(`(?i)\bINFO\b`)},
	{model.LevelDebug, regexp.MustCompile(`(?i)\bDEBUG\b`)},
}

// anySeverity matches any recognised level token; lines without one skip the table.
var anySeverity = regexp.MustCompile(`(?i)\b(CRITICAL|ERROR|WARNING|WARN|INFO|DEBUG)\b`)

// Severity is the result of scanning a line for a level token.
type Severity struct {
	Level model.Level
	// Start and End delimit the leftmost occurrence of the winning token.
	// Both are -1 when no token was found.
	Start, End int
}

// Found reports whether a level token was present.
func (s Severity) Found() bool {
	return s.Start >= 0
}

// DetectSeverity returns the highest-priority level token found anywhere in line.
// A line carrying both "info" and "error" is ERROR regardless of token order.
func DetectSeverity(line string) Severity {
	if !anySeverity.MatchString(line) {
		return Severity{Level: model.LevelUnknown, Start: -1, End: -1}
	}
	for _, m := range severityPriority {
		if loc := m.re.FindStringIndex(line); loc != nil {
			return Severity{Level: m.level, Start: loc[0], End: loc[1]}
		}
	}
	return Severity{Level: model.LevelUnknown, Start: -1, End: -1}
}

// NormalizeSeverity converts common level spellings to one of the canonical level names.
func NormalizeSeverity(severity string) string {
	normalized := strings.ToUpper(strings.TrimSpace(severity))

	switch normalized {
	case "DEBUG", "DEBU", "DBG", "DEB", "TRACE", "TRC":
		return "DEBUG"
	case "INFO", "INFORMATION", "INF":
		return "INFO"
	case "WARN", "WARNING", "WRNG", "WRN":
		return "WARN"
	case "ERROR", "ERR", "ERRO":
		return "ERROR"
	case "CRITICAL", "CRIT", "CRT", "FATAL", "FATL", "FTL", "PANIC":
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}
