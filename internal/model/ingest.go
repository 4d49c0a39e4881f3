package model

// IngestEnvelope carries one raw log line with the name of the input it came from.
// It is the transport contract between line sources and the classifier.
type IngestEnvelope struct {
	Source string // file path, or "stdin"
	Line   string
}
