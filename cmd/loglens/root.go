package main

import (
	"context"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tinytelemetry/loglens/internal/config"
	"github.com/tinytelemetry/loglens/internal/logger"
	"github.com/tinytelemetry/loglens/internal/logsource"
	"github.com/tinytelemetry/loglens/internal/model"
	"github.com/tinytelemetry/loglens/internal/pipeline"
	"github.com/tinytelemetry/loglens/internal/render"
)

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "loglens [files...]",
		Short: "Summarise log files by level, time window, source and frequent messages",
		Long: `loglens classifies every log line by severity, extracts timestamps and
service/app/module tags, and prints a summary of the input.

Files are read in argument order; with no files, standard input is read.

Examples:
  loglens app.log
  loglens --format json --top 10 app.log worker.log
  kubectl logs deploy/api | loglens`,
		Version:       versionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, configPath)
			if err != nil {
				return err
			}
			return runReport(cmd.Context(), cfg, args, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	root.SetVersionTemplate("loglens {{.Version}}\n")

	pf := root.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "config file (default is $HOME/.config/loglens/config.yml)")
	pf.StringP("format", "f", model.DefaultFormat, "output format: text, json, yaml")
	pf.IntP("top", "n", model.DefaultTopN, "number of most frequent messages to show")
	pf.String("log-level", logger.DefaultLevel, "diagnostic log level (debug, info, warn, error)")
	pf.Bool("skip-blank", true, "ignore lines that are empty after trimming")
	pf.Bool("parallel", false, "aggregate each file on its own goroutine and merge the results")
	pf.Int("max-line-size", model.DefaultMaxLineSize, "maximum accepted line length in bytes")
	pf.Int("buffer-size", model.DefaultLineBuffer, "lines buffered between reader and classifier")
	pf.String("color", "auto", "text colour: auto, always, never")

	root.AddCommand(newServeCmd(&configPath))
	return root
}

func versionString() string {
	v, c := GetVersionInfo()
	return fmt.Sprintf("%s (%s)", v, c)
}

// loadConfig resolves settings for cmd and configures logging from them.
func loadConfig(cmd *cobra.Command, configPath string) (config.Config, error) {
	cfg, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		return cfg, err
	}
	logger.Setup(cfg.LogLevel)
	if cfg.ConfigPath != "" {
		log.WithField("path", cfg.ConfigPath).Debug("config: loaded file")
	}
	return cfg, nil
}

func pipelineOptions(cfg config.Config, stdin io.Reader) pipeline.Options {
	return pipeline.Options{
		Source: logsource.Config{
			BufferSize:  cfg.BufferSize,
			MaxLineSize: cfg.MaxLineSize,
			KeepBlank:   !cfg.SkipBlank,
		},
		Parallel: cfg.Parallel,
		Stdin:    stdin,
	}
}

// analyze runs the pipeline and logs what was read.
func analyze(ctx context.Context, cfg config.Config, paths []string, stdin io.Reader) (*pipeline.Result, error) {
	res, err := pipeline.Analyze(ctx, paths, pipelineOptions(cfg, stdin))
	if err != nil {
		return nil, err
	}
	for _, in := range res.Inputs {
		log.WithFields(log.Fields{"input": in.Input, "lines": in.Lines}).Info("analysed input")
	}
	if res.Interrupted {
		log.Warn("interrupted, reporting lines read so far")
	}
	return res, nil
}

func runReport(ctx context.Context, cfg config.Config, paths []string, stdin io.Reader, stdout io.Writer) error {
	renderer, err := render.New(cfg.Format, stdout, render.Options{TopN: cfg.Top, Color: cfg.Color})
	if err != nil {
		return err
	}

	res, err := analyze(ctx, cfg, paths, stdin)
	if err != nil {
		return err
	}

	if err := renderer.Render(res.Aggregator.Finalize(cfg.Top)); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
