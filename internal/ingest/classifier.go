package ingest

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/tinytelemetry/loglens/internal/logparse"
	"github.com/tinytelemetry/loglens/internal/model"
	"github.com/tinytelemetry/loglens/internal/timestamp"
)

// sourceTokenRegex matches a whole whitespace-delimited source tag token.
var sourceTokenRegex = regexp.MustCompile(`^(?:service|app|module)=(\S+)$`)

var timestampParser = timestamp.NewParser()

// span is a half-open byte range [start, end) inside the trimmed line.
type span struct {
	start, end int
}

// Classify turns one raw line into a LogRecord. It never fails: anything it
// cannot detect is left at its zero value (UNKNOWN level, no timestamp, no source).
func Classify(line string) model.LogRecord {
	raw := strings.TrimSpace(line)
	record := model.LogRecord{
		Level:      model.LevelUnknown,
		RawMessage: raw,
	}
	if raw == "" {
		return record
	}

	var strip []span

	sev := logparse.DetectSeverity(raw)
	record.Level = sev.Level
	if sev.Found() {
		strip = append(strip, span{sev.Start, sev.End})
	}

	if ts := timestampParser.ParseFromText(raw); ts.Found {
		record.Timestamp = ts.Timestamp
		record.TimestampFound = true
		strip = append(strip, span{ts.Start, ts.End})
	}

	if source, loc, ok := extractSource(raw); ok {
		record.Source = source
		strip = append(strip, loc)
	}

	record.NormalizedMessage = normalize(raw, strip)
	return record
}

// extractSource returns the value of the first service=, app= or module= token,
// scanning whitespace-separated tokens left to right.
func extractSource(line string) (string, span, bool) {
	for _, tok := range fieldSpans(line) {
		m := sourceTokenRegex.FindStringSubmatch(line[tok.start:tok.end])
		if m != nil {
			return m[1], tok, true
		}
	}
	return "", span{-1, -1}, false
}

// normalize removes the given spans from raw, collapses whitespace and lowercases.
// Removed spans are replaced by a space so neighbouring words never fuse.
func normalize(raw string, strip []span) string {
	sort.Slice(strip, func(i, j int) bool { return strip[i].start < strip[j].start })

	var b strings.Builder
	b.Grow(len(raw))
	pos := 0
	for _, s := range strip {
		if s.end <= pos {
			continue // fully covered by an earlier span
		}
		if s.start > pos {
			b.WriteString(raw[pos:s.start])
		}
		b.WriteByte(' ')
		pos = s.end
	}
	b.WriteString(raw[pos:])

	msg := strings.ToLower(strings.Join(strings.Fields(b.String()), " "))
	if msg == "" {
		return strings.ToLower(raw)
	}
	return msg
}

// fieldSpans returns the byte ranges of the whitespace-separated fields of s,
// using the same definition of whitespace as strings.Fields.
func fieldSpans(s string) []span {
	var spans []span
	start := -1
	for i, r := range s {
		if unicode.IsSpace(r) {
			if start >= 0 {
				spans = append(spans, span{start, i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		spans = append(spans, span{start, len(s)})
	}
	return spans
}
