package ingest

import "github.com/tinytelemetry/loglens/internal/model"

// EnvelopeProcessor consumes source-tagged lines and forwards classified records.
type EnvelopeProcessor interface {
	ProcessEnvelope(model.IngestEnvelope) *ProcessResult
}

var _ EnvelopeProcessor = (*Processor)(nil)
