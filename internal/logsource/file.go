package logsource

import (
	"context"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/tinytelemetry/loglens/internal/model"
)

// FileSource reads files one after another, in the order given, as one stream.
type FileSource struct {
	paths  []string
	ch     chan model.IngestEnvelope
	cancel context.CancelFunc
	errs   errState
}

// NewFileSource checks that every path is a readable regular file and starts
// reading them in order. Problems found up front are returned immediately.
func NewFileSource(ctx context.Context, paths []string, conf ...Config) (*FileSource, error) {
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("open input: %s is a directory", p)
		}
	}

	cfg := resolveConfig(conf)
	ctx, cancel := context.WithCancel(ctx)
	s := &FileSource{
		paths:  append([]string(nil), paths...),
		ch:     make(chan model.IngestEnvelope, cfg.BufferSize),
		cancel: cancel,
	}
	go s.read(ctx, cfg)
	return s, nil
}

func (s *FileSource) read(ctx context.Context, cfg Config) {
	defer close(s.ch)

	for i, p := range s.paths {
		if err := s.readFile(ctx, p, cfg); err != nil {
			s.errs.set(err)
			log.WithError(err).WithField("input", p).Error("logsource: reading file failed")
			return
		}
		if s.errs.wasStopped() {
			return
		}
		if ctx.Err() != nil && i < len(s.paths)-1 {
			s.errs.stop()
			return
		}
	}
}

func (s *FileSource) readFile(ctx context.Context, path string, cfg Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	log.WithField("input", path).Debug("logsource: reading file")

	scanner := newScanner(f, cfg.MaxLineSize)
	count := 0
	for scanner.Scan() {
		line, ok := cleanLine(scanner.Text(), cfg.KeepBlank)
		if !ok {
			continue
		}
		select {
		case s.ch <- model.IngestEnvelope{Source: path, Line: line}:
			count++
		case <-ctx.Done():
			s.errs.stop()
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return scanError(path, cfg.MaxLineSize, err)
	}

	log.WithFields(log.Fields{"input": path, "lines": count}).Debug("logsource: input finished")
	return nil
}

// Paths returns the files this source reads, in reading order.
func (s *FileSource) Paths() []string { return append([]string(nil), s.paths...) }

func (s *FileSource) Lines() <-chan model.IngestEnvelope { return s.ch }
func (s *FileSource) Stop()                              { s.cancel() }
func (s *FileSource) Name() string                       { return "file" }
func (s *FileSource) Err() error                         { return s.errs.get() }
func (s *FileSource) Stopped() bool                      { return s.errs.wasStopped() }
