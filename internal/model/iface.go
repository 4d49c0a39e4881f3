package model

// SummaryReader exposes a finished aggregation to read surfaces (HTTP API, renderers).
// Finalize must be safe to call repeatedly.
type SummaryReader interface {
	Finalize(topN int) Summary
	TotalLines() int
}

// RecordSink receives classified records.
type RecordSink interface {
	Update(record LogRecord)
}
