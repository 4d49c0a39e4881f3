package logsource

import (
	"context"
	"io"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/tinytelemetry/loglens/internal/model"
)

// StdinSource reads log lines from stdin, or from any reader.
type StdinSource struct {
	name   string
	ch     chan model.IngestEnvelope
	cancel context.CancelFunc
	errs   errState
}

// NewStdinSource creates a StdinSource that reads from stdin in a background goroutine.
func NewStdinSource(ctx context.Context, conf ...Config) *StdinSource {
	return NewReaderSource(ctx, "stdin", os.Stdin, conf...)
}

// NewReaderSource creates a source reading lines from r, tagged with name.
func NewReaderSource(ctx context.Context, name string, r io.Reader, conf ...Config) *StdinSource {
	cfg := resolveConfig(conf)
	ctx, cancel := context.WithCancel(ctx)
	s := &StdinSource{
		name:   name,
		ch:     make(chan model.IngestEnvelope, cfg.BufferSize),
		cancel: cancel,
	}
	go s.read(ctx, r, cfg)
	return s
}

func (s *StdinSource) read(ctx context.Context, r io.Reader, cfg Config) {
	defer close(s.ch)

	scanner := newScanner(r, cfg.MaxLineSize)

	// A blocking Scan cannot observe ctx, so scanning runs on its own goroutine
	// and this loop stops forwarding as soon as ctx is done.
	results := make(chan string)
	go func() {
		defer close(results)
		for scanner.Scan() {
			line, ok := cleanLine(scanner.Text(), cfg.KeepBlank)
			if !ok {
				continue
			}
			select {
			case results <- line:
			case <-ctx.Done():
				s.errs.stop()
				return
			}
		}
		if err := scanner.Err(); err != nil {
			s.errs.set(scanError(s.name, cfg.MaxLineSize, err))
			log.WithError(err).WithField("input", s.name).Error("logsource: scanner stopped")
		}
	}()

	count := 0
	defer func() {
		log.WithFields(log.Fields{"input": s.name, "lines": count}).Debug("logsource: input finished")
	}()

	for {
		select {
		case <-ctx.Done():
			select {
			case _, ok := <-results:
				if !ok {
					return // input was already exhausted
				}
			default:
			}
			s.errs.stop()
			return
		case line, ok := <-results:
			if !ok {
				return
			}
			select {
			case s.ch <- model.IngestEnvelope{Source: s.name, Line: line}:
				count++
			case <-ctx.Done():
				s.errs.stop()
				return
			}
		}
	}
}

func (s *StdinSource) Lines() <-chan model.IngestEnvelope { return s.ch }
func (s *StdinSource) Stop()                              { s.cancel() }
func (s *StdinSource) Name() string                       { return s.name }
func (s *StdinSource) Err() error                         { return s.errs.get() }
func (s *StdinSource) Stopped() bool                      { return s.errs.wasStopped() }
