package logsource

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/tinytelemetry/loglens/internal/model"
)

// LogSource is a unified interface for log line inputs (files, stdin).
type LogSource interface {
	Lines() <-chan model.IngestEnvelope // closed when the input is exhausted or stopped
	Stop()                              // stop reading early; Lines still closes
	Name() string                       // "file", "stdin"
	Err() error                         // read error, valid once Lines is closed
	Stopped() bool                      // input left unread because of Stop or ctx; valid once Lines is closed
}

const (
	// DefaultBufferSize is the default channel buffer size for source lines.
	DefaultBufferSize = model.DefaultLineBuffer

	// DefaultMaxLineSize is the default maximum size (in bytes) of a single line.
	DefaultMaxLineSize = model.DefaultMaxLineSize
)

// Config holds tunable parameters shared by all sources.
type Config struct {
	BufferSize  int
	MaxLineSize int
	// KeepBlank forwards lines that are empty after trimming. By default they are dropped.
	KeepBlank bool
}

func resolveConfig(conf []Config) Config {
	cfg := Config{BufferSize: DefaultBufferSize, MaxLineSize: DefaultMaxLineSize}
	if len(conf) > 0 {
		if conf[0].BufferSize > 0 {
			cfg.BufferSize = conf[0].BufferSize
		}
		if conf[0].MaxLineSize > 0 {
			cfg.MaxLineSize = conf[0].MaxLineSize
		}
		cfg.KeepBlank = conf[0].KeepBlank
	}
	return cfg
}

// Open returns a file source over paths, or a stdin source when paths is empty.
func Open(ctx context.Context, paths []string, conf ...Config) (LogSource, error) {
	if len(paths) == 0 {
		return NewStdinSource(ctx, conf...), nil
	}
	return NewFileSource(ctx, paths, conf...)
}

// errState records the first error a source hit and whether it quit early.
type errState struct {
	mu      sync.Mutex
	err     error
	stopped bool
}

func (e *errState) stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopped = true
}

func (e *errState) wasStopped() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stopped
}

func (e *errState) set(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err == nil {
		e.err = err
	}
}

func (e *errState) get() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

func newScanner(r io.Reader, maxLineSize int) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	initial := 64 * 1024
	if initial > maxLineSize {
		initial = maxLineSize
	}
	scanner.Buffer(make([]byte, initial), maxLineSize)
	return scanner
}

// cleanLine replaces invalid UTF-8 with U+FFFD and reports whether the line should be forwarded.
func cleanLine(line string, keepBlank bool) (string, bool) {
	line = strings.ToValidUTF8(line, "\uFFFD")
	if !keepBlank && strings.TrimSpace(line) == "" {
		return "", false
	}
	return line, true
}

// scanError wraps scanner failures with the input name.
func scanError(name string, maxLineSize int, err error) error {
	if errors.Is(err, bufio.ErrTooLong) {
		return fmt.Errorf("%s: line exceeds max size of %d bytes: %w", name, maxLineSize, err)
	}
	return fmt.Errorf("%s: read: %w", name, err)
}
