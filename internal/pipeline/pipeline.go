package pipeline

import (
	"context"
	"io"
	"runtime"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/tinytelemetry/loglens/internal/aggregate"
	"github.com/tinytelemetry/loglens/internal/ingest"
	"github.com/tinytelemetry/loglens/internal/logsource"
)

// Options controls how inputs are read.
type Options struct {
	Source logsource.Config
	// Parallel aggregates each file on its own goroutine and merges the partials.
	// It has no effect on stdin or a single file.
	Parallel bool
	// Workers caps concurrent partitions in parallel mode; <= 0 means GOMAXPROCS.
	Workers int
	// Stdin replaces os.Stdin when no paths are given.
	Stdin io.Reader
}

// Result is the outcome of one analysis run.
type Result struct {
	Aggregator *aggregate.Aggregator
	Inputs     []ingest.InputCount
	// Interrupted is set when ctx was cancelled before the input was exhausted.
	// The aggregator then holds a valid partial result.
	Interrupted bool
}

// Analyze reads every input in paths (stdin when empty) through the classifier
// into a fresh aggregator.
func Analyze(ctx context.Context, paths []string, opts Options) (*Result, error) {
	if opts.Parallel && len(paths) > 1 {
		return analyzeParallel(ctx, paths, opts)
	}

	src, err := openSource(ctx, paths, opts)
	if err != nil {
		return nil, err
	}
	agg := aggregate.New()
	processor := ingest.NewProcessor(agg)

	g, gctx := errgroup.WithContext(ctx)
	interrupted := false
	g.Go(func() error {
		var err error
		interrupted, err = Run(gctx, src, processor)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Result{
		Aggregator:  agg,
		Inputs:      processor.InputCounts(),
		Interrupted: interrupted,
	}, nil
}

func openSource(ctx context.Context, paths []string, opts Options) (logsource.LogSource, error) {
	if len(paths) == 0 && opts.Stdin != nil {
		return logsource.NewReaderSource(ctx, "stdin", opts.Stdin, opts.Source), nil
	}
	return logsource.Open(ctx, paths, opts.Source)
}

// Run drives processor from src until the source is closed. When ctx is done
// the source is stopped and lines it had already queued are still processed.
// It reports whether input was left unread.
func Run(ctx context.Context, src logsource.LogSource, processor ingest.EnvelopeProcessor) (bool, error) {
	lines := src.Lines()
	done := ctx.Done()
	for {
		select {
		case <-done:
			src.Stop()
			done = nil
		case env, ok := <-lines:
			if !ok {
				if err := src.Err(); err != nil {
					return false, err
				}
				if src.Stopped() {
					log.WithField("source", src.Name()).Warn("pipeline: input aborted, summary is partial")
					return true, nil
				}
				return false, nil
			}
			processor.ProcessEnvelope(env)
		}
	}
}

type partition struct {
	agg         *aggregate.Aggregator
	processor   *ingest.Processor
	interrupted bool
}

// analyzeParallel treats every file as a partition and merges the partial
// aggregators in argument order, which keeps first-seen ranking identical to
// a sequential pass.
func analyzeParallel(ctx context.Context, paths []string, opts Options) (*Result, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	parts := make([]partition, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			src, err := logsource.NewFileSource(gctx, []string{path}, opts.Source)
			if err != nil {
				return err
			}
			agg := aggregate.New()
			processor := ingest.NewProcessor(agg)
			interrupted, err := Run(gctx, src, processor)
			if err != nil {
				return err
			}
			parts[i] = partition{agg: agg, processor: processor, interrupted: interrupted}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{Aggregator: aggregate.New()}
	for _, p := range parts {
		result.Aggregator.Merge(p.agg)
		result.Inputs = append(result.Inputs, p.processor.InputCounts()...)
		result.Interrupted = result.Interrupted || p.interrupted
	}

	log.WithFields(log.Fields{"partitions": len(parts), "workers": workers}).Debug("pipeline: merged partitions")
	return result, nil
}
