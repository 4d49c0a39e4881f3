package ingest

import (
	"github.com/tinytelemetry/loglens/internal/model"
)

// Processor classifies lines and routes the records to a sink (normally the aggregator).
// It is not safe for concurrent use; exactly one goroutine should drive it.
type Processor struct {
	sink model.RecordSink

	// lines seen per input name, in first-seen input order
	inputs     []string
	inputLines map[string]int
}

// NewProcessor creates a new line processor. A nil sink only classifies.
func NewProcessor(sink model.RecordSink) *Processor {
	return &Processor{
		sink:       sink,
		inputLines: make(map[string]int),
	}
}

// ProcessResult holds the result of processing a line.
type ProcessResult struct {
	Input  string
	Record model.LogRecord
}

// ProcessEnvelope classifies one line and hands the record to the sink.
func (p *Processor) ProcessEnvelope(env model.IngestEnvelope) *ProcessResult {
	record := Classify(env.Line)

	if _, seen := p.inputLines[env.Source]; !seen {
		p.inputs = append(p.inputs, env.Source)
	}
	p.inputLines[env.Source]++

	if p.sink != nil {
		p.sink.Update(record)
	}

	return &ProcessResult{
		Input:  env.Source,
		Record: record,
	}
}

// InputCount pairs an input name with the number of lines read from it.
type InputCount struct {
	Input string
	Lines int
}

// InputCounts returns the number of processed lines per input, in first-seen order.
func (p *Processor) InputCounts() []InputCount {
	out := make([]InputCount, 0, len(p.inputs))
	for _, name := range p.inputs {
		out = append(out, InputCount{Input: name, Lines: p.inputLines[name]})
	}
	return out
}
