package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinytelemetry/loglens/internal/ingest"
	"github.com/tinytelemetry/loglens/internal/logsource"
	"github.com/tinytelemetry/loglens/internal/model"
)

func writeLog(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

func TestAnalyzeFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := writeLog(t, dir, "a.log",
		"2024-01-02 10:00:00 ERROR service=orders payment failed",
		"",
		"2024-01-02 10:05:00 INFO service=orders payment ok",
	)
	b := writeLog(t, dir, "b.log",
		"2024-01-01T08:00:00 WARN app=api retry",
		"2024-01-03T08:00:00 ERROR service=orders payment failed",
	)

	res, err := Analyze(context.Background(), []string{a, b}, Options{})
	require.NoError(t, err)
	assert.False(t, res.Interrupted)
	assert.Equal(t, []ingest.InputCount{{Input: a, Lines: 2}, {Input: b, Lines: 2}}, res.Inputs)

	s := res.Aggregator.Finalize(1)
	assert.Equal(t, 4, s.TotalLines)
	assert.Equal(t, 2, s.LevelCounts[model.LevelError])
	assert.Equal(t, []model.MessageCount{{Message: "payment failed", Count: 2}}, s.TopMessages)
	require.NotNil(t, s.TimeWindow)
	assert.Equal(t, 1, s.TimeWindow.Start.Day())
	assert.Equal(t, 3, s.TimeWindow.End.Day())
}

func TestAnalyzeParallelMatchesSequential(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var paths []string
	for i := 0; i < 5; i++ {
		var lines []string
		for j := 0; j < 50; j++ {
			lines = append(lines, fmt.Sprintf("2024-01-%02d 00:00:%02d INFO service=s%d msg %d", i+1, j, j%3, (i*j)%7))
		}
		paths = append(paths, writeLog(t, dir, fmt.Sprintf("%d.log", i), lines...))
	}

	seq, err := Analyze(context.Background(), paths, Options{})
	require.NoError(t, err)
	par, err := Analyze(context.Background(), paths, Options{Parallel: true, Workers: 2})
	require.NoError(t, err)

	assert.Equal(t, seq.Aggregator.Finalize(10), par.Aggregator.Finalize(10))
	assert.Equal(t, seq.Inputs, par.Inputs)
}

func TestAnalyzeMissingFile(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "nope.log")

	_, err := Analyze(context.Background(), []string{missing}, Options{})
	assert.ErrorIs(t, err, os.ErrNotExist)

	ok := writeLog(t, t.TempDir(), "ok.log", "x")
	_, err = Analyze(context.Background(), []string{ok, missing}, Options{Parallel: true})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestAnalyzeLineTooLong(t *testing.T) {
	t.Parallel()

	path := writeLog(t, t.TempDir(), "long.log", strings.Repeat("y", 100))
	_, err := Analyze(context.Background(), []string{path}, Options{Source: logsource.Config{MaxLineSize: 10}})
	require.Error(t, err)
}

func TestRunCancelledIsPartial(t *testing.T) {
	t.Parallel()

	// the writer never closes, so the input cannot be exhausted
	pr, pw := io.Pipe()
	t.Cleanup(func() { pw.Close() })
	go pw.Write([]byte("a\n"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := logsource.NewReaderSource(context.Background(), "stdin", pr)
	interrupted, err := Run(ctx, src, ingest.NewProcessor(nil))
	require.NoError(t, err)
	assert.True(t, interrupted)
}

// closedSource has already delivered its whole input.
type closedSource struct {
	ch      chan model.IngestEnvelope
	stopped bool
}

func newClosedSource(lines ...string) *closedSource {
	ch := make(chan model.IngestEnvelope, len(lines))
	for _, l := range lines {
		ch <- model.IngestEnvelope{Source: "stdin", Line: l}
	}
	close(ch)
	return &closedSource{ch: ch}
}

func (s *closedSource) Lines() <-chan model.IngestEnvelope { return s.ch }
func (s *closedSource) Stop()                              {}
func (s *closedSource) Name() string                       { return "stdin" }
func (s *closedSource) Err() error                         { return nil }
func (s *closedSource) Stopped() bool                      { return s.stopped }

func TestRunCancelAfterExhaustionIsComplete(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := ingest.NewProcessor(nil)
	interrupted, err := Run(ctx, newClosedSource("INFO a", "ERROR b", "WARN c"), p)
	require.NoError(t, err)
	assert.False(t, interrupted)
	assert.Equal(t, []ingest.InputCount{{Input: "stdin", Lines: 3}}, p.InputCounts())
}

func TestRunReportsStoppedSource(t *testing.T) {
	t.Parallel()

	src := newClosedSource("INFO a")
	src.stopped = true

	interrupted, err := Run(context.Background(), src, ingest.NewProcessor(nil))
	require.NoError(t, err)
	assert.True(t, interrupted)
}

func TestRunExhaustsSource(t *testing.T) {
	t.Parallel()

	src := logsource.NewReaderSource(context.Background(), "stdin", strings.NewReader("INFO a\nERROR b\n"))
	p := ingest.NewProcessor(nil)

	interrupted, err := Run(context.Background(), src, p)
	require.NoError(t, err)
	assert.False(t, interrupted)
	assert.Equal(t, []ingest.InputCount{{Input: "stdin", Lines: 2}}, p.InputCounts())
}

func TestAnalyzeStdinReader(t *testing.T) {
	t.Parallel()

	in := strings.NewReader("ERROR boom\n\n   \nINFO ok\nERROR boom\n")
	res, err := Analyze(context.Background(), nil, Options{Stdin: in})
	require.NoError(t, err)

	s := res.Aggregator.Finalize(1)
	assert.Equal(t, 3, s.TotalLines)
	assert.Equal(t, []model.MessageCount{{Message: "boom", Count: 2}}, s.TopMessages)
	assert.Equal(t, []ingest.InputCount{{Input: "stdin", Lines: 3}}, res.Inputs)
}

func TestAnalyzeStdinKeepBlank(t *testing.T) {
	t.Parallel()

	in := strings.NewReader("ERROR boom\n\nINFO ok\n")
	res, err := Analyze(context.Background(), nil, Options{
		Stdin:  in,
		Source: logsource.Config{KeepBlank: true},
	})
	require.NoError(t, err)

	s := res.Aggregator.Finalize(5)
	assert.Equal(t, 3, s.TotalLines)
	assert.Equal(t, 1, s.LevelCounts[model.LevelUnknown])
}
