package timestamp

import (
	"regexp"
	"time"
)

// format is one recognised timestamp shape: a fixed-width pattern to locate it
// and a layout to validate it as a calendar time.
type format struct {
	name   string
	re     *regexp.Regexp
	layout string
}

// formats are tried in order. The space-separated form always wins over the
// ISO form when both occur on a line, regardless of position.
var formats = []format{
	{
		name:   "space",
		re:     regexp.MustCompile(`\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}`),
		layout: "2006-01-02 15:04:05",
	},
	{
		name:   "iso",
		re:     regexp.MustCompile(`\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}`),
		layout: "2006-01-02T15:04:05",
	},
}

// Layout is the canonical rendering layout for detected timestamps.
const Layout = "2006-01-02T15:04:05"

// ParseResult describes a timestamp found in free text.
type ParseResult struct {
	Timestamp time.Time
	Found     bool
	Format    string
	// Start and End delimit the matched substring; -1 when not found.
	Start, End int
	Remaining  string
}

// Parser locates timestamps in log text.
type Parser struct {
	loc *time.Location
}

// NewParser returns a Parser that interprets timestamps as UTC.
func NewParser() *Parser {
	return &Parser{loc: time.UTC}
}

// ParseFromText finds the first timestamp in text. For each format only the
// leftmost match is considered; if that match is not a valid calendar time the
// next format is tried. Nothing found yields Found=false and Remaining=text.
func (p *Parser) ParseFromText(text string) ParseResult {
	for _, f := range formats {
		loc := f.re.FindStringIndex(text)
		if loc == nil {
			continue
		}
		ts, err := time.ParseInLocation(f.layout, text[loc[0]:loc[1]], p.loc)
		if err != nil || ts.Year() < 1 {
			// year 0000 parses but is not a calendar year
			continue
		}
		return ParseResult{
			Timestamp: ts,
			Found:     true,
			Format:    f.name,
			Start:     loc[0],
			End:       loc[1],
			Remaining: text[:loc[0]] + text[loc[1]:],
		}
	}
	return ParseResult{Start: -1, End: -1, Remaining: text}
}

// Format renders t in the canonical layout.
func Format(t time.Time) string {
	return t.Format(Layout)
}
