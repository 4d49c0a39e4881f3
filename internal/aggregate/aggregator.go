package aggregate

import (
	"sort"
	"sync"
	"time"

	"github.com/tinytelemetry/loglens/internal/model"
)

// messageStat is one row of the frequency table.
type messageStat struct {
	count int
	seq   uint64 // first-seen order, breaks count ties
}

// Aggregator folds classified records into running statistics.
// Update is meant for a single writer; Finalize may be called at any time and
// from several goroutines once writing has stopped.
type Aggregator struct {
	mu sync.RWMutex

	total    int
	levels   map[model.Level]int
	hasTime  bool
	earliest time.Time
	latest   time.Time
	sources  map[string]int
	messages map[string]*messageStat
	nextSeq  uint64
}

// New creates an empty Aggregator.
func New() *Aggregator {
	return &Aggregator{
		levels:   make(map[model.Level]int, len(model.Levels)),
		sources:  make(map[string]int),
		messages: make(map[string]*messageStat),
	}
}

// Update folds one record into the running state.
func (a *Aggregator) Update(record model.LogRecord) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.total++
	a.levels[record.Level]++

	if record.HasTimestamp() {
		a.widen(record.Timestamp, record.Timestamp)
	}
	if record.HasSource() {
		a.sources[record.Source]++
	}
	a.countMessage(record.NormalizedMessage, 1)
}

// TotalLines returns the number of records folded in so far.
func (a *Aggregator) TotalLines() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.total
}

// Finalize produces a Summary with at most topN ranked messages. It does not
// modify the accumulated state, so repeated calls with the same topN agree.
// topN < 1 yields an empty ranking.
func (a *Aggregator) Finalize(topN int) model.Summary {
	a.mu.RLock()
	defer a.mu.RUnlock()

	levels := make(map[model.Level]int, len(model.Levels))
	for _, l := range model.Levels {
		levels[l] = a.levels[l]
	}

	sources := make(map[string]int, len(a.sources))
	for k, v := range a.sources {
		sources[k] = v
	}

	var window *model.TimeWindow
	if a.hasTime {
		window = &model.TimeWindow{Start: a.earliest, End: a.latest}
	}

	return model.Summary{
		TotalLines:   a.total,
		LevelCounts:  levels,
		TimeWindow:   window,
		SourceCounts: sources,
		TopMessages:  a.rank(topN),
	}
}

// Merge folds the state of other into a. Counts add up and the time window
// widens. Messages first seen in other are ranked after every message already
// known to a, in other's own first-seen order; merging per-file partials in
// argument order therefore ranks exactly like one pass over the concatenation.
func (a *Aggregator) Merge(other *Aggregator) {
	if other == nil || other == a {
		return
	}
	other.mu.RLock()
	defer other.mu.RUnlock()
	a.mu.Lock()
	defer a.mu.Unlock()

	a.total += other.total
	for l, n := range other.levels {
		a.levels[l] += n
	}
	for s, n := range other.sources {
		a.sources[s] += n
	}
	if other.hasTime {
		a.widen(other.earliest, other.latest)
	}
	for _, e := range other.entriesBySeq() {
		a.countMessage(e.message, e.count)
	}
}

type rankedEntry struct {
	message string
	count   int
	seq     uint64
}

func (a *Aggregator) snapshot() []rankedEntry {
	out := make([]rankedEntry, 0, len(a.messages))
	for msg, st := range a.messages {
		out = append(out, rankedEntry{message: msg, count: st.count, seq: st.seq})
	}
	return out
}

// entriesBySeq returns the frequency table in first-seen order.
func (a *Aggregator) entriesBySeq() []rankedEntry {
	out := a.snapshot()
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}

// entries returns the frequency table sorted by count desc, then first-seen asc.
func (a *Aggregator) entries() []rankedEntry {
	out := a.snapshot()
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].seq < out[j].seq
	})
	return out
}

func (a *Aggregator) rank(topN int) []model.MessageCount {
	if topN < 1 {
		return []model.MessageCount{}
	}
	sorted := a.entries()
	if len(sorted) > topN {
		sorted = sorted[:topN]
	}
	out := make([]model.MessageCount, len(sorted))
	for i, e := range sorted {
		out[i] = model.MessageCount{Message: e.message, Count: e.count}
	}
	return out
}

func (a *Aggregator) countMessage(msg string, n int) {
	st, ok := a.messages[msg]
	if !ok {
		st = &messageStat{seq: a.nextSeq}
		a.nextSeq++
		a.messages[msg] = st
	}
	st.count += n
}

func (a *Aggregator) widen(start, end time.Time) {
	if !a.hasTime {
		a.earliest, a.latest, a.hasTime = start, end, true
		return
	}
	if start.Before(a.earliest) {
		a.earliest = start
	}
	if end.After(a.latest) {
		a.latest = end
	}
}
