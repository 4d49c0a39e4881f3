package render

import (
	"sort"

	"github.com/tinytelemetry/loglens/internal/model"
	"github.com/tinytelemetry/loglens/internal/timestamp"
)

// Report is the serialisable shape of a Summary shared by the JSON, YAML and HTTP outputs.
type Report struct {
	TotalLines   int            `json:"total_lines" yaml:"total_lines"`
	LevelCounts  map[string]int `json:"level_counts" yaml:"level_counts"`
	TimeWindow   *Window        `json:"time_window" yaml:"time_window"`
	SourceCounts map[string]int `json:"source_counts" yaml:"source_counts"`
	TopMessages  []Message      `json:"top_messages" yaml:"top_messages"`
}

// Window is a time window with timestamps rendered as YYYY-MM-DDTHH:MM:SS.
type Window struct {
	Start string `json:"start" yaml:"start"`
	End   string `json:"end" yaml:"end"`
}

// Message is one ranked message.
type Message struct {
	Message string `json:"message" yaml:"message"`
	Count   int    `json:"count" yaml:"count"`
}

// NewReport converts a Summary. Every level is present and collections are never nil.
func NewReport(s model.Summary) Report {
	r := Report{
		TotalLines:   s.TotalLines,
		LevelCounts:  make(map[string]int, len(model.Levels)),
		SourceCounts: make(map[string]int, len(s.SourceCounts)),
		TopMessages:  make([]Message, 0, len(s.TopMessages)),
	}
	for _, l := range model.Levels {
		r.LevelCounts[l.String()] = s.LevelCounts[l]
	}
	for k, v := range s.SourceCounts {
		r.SourceCounts[k] = v
	}
	if s.TimeWindow != nil {
		r.TimeWindow = &Window{
			Start: timestamp.Format(s.TimeWindow.Start),
			End:   timestamp.Format(s.TimeWindow.End),
		}
	}
	for _, m := range s.TopMessages {
		r.TopMessages = append(r.TopMessages, Message{Message: m.Message, Count: m.Count})
	}
	return r
}

// SourceCount is one row of a ranked source table.
type SourceCount struct {
	Source string
	Count  int
}

// RankSources orders sources by count desc, then name asc.
func RankSources(counts map[string]int) []SourceCount {
	out := make([]SourceCount, 0, len(counts))
	for k, v := range counts {
		out = append(out, SourceCount{Source: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Source < out[j].Source
	})
	return out
}
