package build

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/yngtodd/tok/internal/stage"
)

var (
	cfgPath         string
	flagRoot        string
	flagOut         string
	flagFormat      string
	flagWorkers     int
	flagNoGitignore bool
	flagWatch       bool
	flagProgress    bool
	flagReport      string
	flagPretty      bool
)

// Cmd represents the `tok build` command.
var Cmd = &cobra.Command{
	Use:           "build",
	Short:         "Build a vocabulary from a corpus",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfgPath == "" {
			return fmt.Errorf("missing required flag: --config")
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if flagWatch {
			return runWatch(ctx, runOnce)
		}
		env, err := runOnce(ctx)
		if err != nil {
			return err
		}
		return evaluateBuildExit(env)
	},
}

// runOnce executes the full build pipeline for the current flags and config.
func runOnce(ctx context.Context) (stage.Envelope, error) {
	in := stage.Envelope{Records: []stage.Record{}, Meta: &stage.Meta{ConfigPath: cfgPath}}
	env, err := stage.Run(ctx, "validate-config", in, stage.Deps{})
	if err != nil {
		return stage.Envelope{}, err
	}
	applyFlagOverrides(env.Meta)
	return executePipeline(ctx, env)
}

// applyFlagOverrides lets command-line flags win over config values.
func applyFlagOverrides(meta *stage.Meta) {
	if flagRoot != "" {
		if meta.Corpus == nil {
			meta.Corpus = &stage.CorpusMeta{}
		}
		meta.Corpus.Root = flagRoot
	}
	if flagNoGitignore {
		if meta.Corpus == nil {
			meta.Corpus = &stage.CorpusMeta{}
		}
		meta.Corpus.NoGitignore = true
	}
	if flagOut != "" || flagFormat != "" || flagPretty {
		if meta.Output == nil {
			meta.Output = &stage.OutputMeta{}
		}
		if flagOut != "" {
			meta.Output.Out = flagOut
		}
		if flagFormat != "" {
			meta.Output.Format = flagFormat
		}
		if flagPretty {
			meta.Output.Pretty = true
		}
	}
	if flagReport != "" {
		if meta.Report == nil {
			meta.Report = &stage.ReportMeta{}
		}
		meta.Report.Enabled = true
		meta.Report.Out = flagReport
	}
	if flagWorkers > 0 {
		meta.Workers = flagWorkers
	}
	if flagProgress {
		if meta.UI == nil {
			meta.UI = &stage.UIMeta{}
		}
		meta.UI.Progress = true
	}
}

func init() {
	Cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to config file (.cue)")
	Cmd.Flags().StringVar(&flagRoot, "root", "", "Corpus root (overrides config)")
	Cmd.Flags().StringVarP(&flagOut, "out", "o", "", "Vocabulary output path, - for stdout (overrides config)")
	Cmd.Flags().StringVar(&flagFormat, "format", "", "Vocabulary format: tsv|yaml (overrides config)")
	Cmd.Flags().IntVar(&flagWorkers, "workers", 0, "Worker count for per-file stages")
	Cmd.Flags().BoolVar(&flagNoGitignore, "no-gitignore", false, "Do not honor .gitignore during discovery")
	Cmd.Flags().BoolVar(&flagWatch, "watch", false, "Rebuild when corpus files change")
	Cmd.Flags().BoolVar(&flagProgress, "progress", false, "Report per-stage progress on stderr")
	Cmd.Flags().StringVar(&flagReport, "report", "", "Write a JSON build report to the given path, - for stdout")
	Cmd.Flags().BoolVar(&flagPretty, "pretty", false, "Pretty output where applicable")
}
