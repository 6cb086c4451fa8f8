package diagnose

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yngtodd/tok/internal/stage"
)

var (
	flagStage   string
	flagIn      string
	flagDumpIn  string
	flagDumpOut string
	flagPrepare bool
	flagConfig  string
	flagRoot    string
	flagNoGit   bool
	flagOut     string
	flagPretty  bool
)

// Cmd implements `tok diagnose`: run a single pipeline stage against an
// envelope and print the resulting envelope as one-line JSON.
var Cmd = &cobra.Command{
	Use:           "diagnose",
	Short:         "Run a single pipeline stage for debugging",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagStage == "" {
			return errors.New("missing required flag: --stage")
		}
		if flagIn != "" {
			return runDiagnoseWithIn(cmd.Context())
		}
		if flagPrepare {
			return runDiagnoseWithPrepare(cmd.Context())
		}
		return runDiagnoseDefault(cmd.Context())
	},
}

func init() {
	Cmd.Flags().StringVar(&flagStage, "stage", "", "Stage name (required)")
	Cmd.Flags().StringVar(&flagIn, "in", "", "Path to input envelope JSON")
	Cmd.Flags().StringVar(&flagDumpIn, "dump-in", "", "Path to write resolved input envelope JSON")
	Cmd.Flags().StringVar(&flagDumpOut, "dump-out", "", "Path to write output envelope JSON")
	Cmd.Flags().BoolVar(&flagPrepare, "prepare", false, "Prepare input via corpus discovery")
	Cmd.Flags().StringVar(&flagConfig, "config", "", "Config path used when --in omitted")
	Cmd.Flags().StringVar(&flagRoot, "root", ".", "Corpus root (prepare mode)")
	Cmd.Flags().BoolVar(&flagNoGit, "no-gitignore", false, "Disable .gitignore (prepare mode)")
	Cmd.Flags().StringVar(&flagOut, "out", "-", "Output path for write-vocab")
	Cmd.Flags().BoolVar(&flagPretty, "pretty", false, "Pretty JSON for write-report")
}

func runDiagnoseWithIn(ctx context.Context) error {
	b, err := os.ReadFile(flagIn)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	var env stage.Envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return fmt.Errorf("invalid input JSON: %v", err)
	}
	if err := maybeDumpIn(env); err != nil {
		return err
	}
	return runStageAndRender(ctx, env)
}

func runDiagnoseWithPrepare(ctx context.Context) error {
	env, err := baseEnvelope(ctx)
	if err != nil {
		return err
	}
	prepared, err := stage.Run(ctx, "discover-corpus-files", env, stage.Deps{})
	if err != nil {
		return err
	}
	if err := maybeDumpIn(prepared); err != nil {
		return err
	}
	return runStageAndRender(ctx, prepared)
}

func runDiagnoseDefault(ctx context.Context) error {
	env, err := baseEnvelope(ctx)
	if err != nil {
		return err
	}
	if err := maybeDumpIn(env); err != nil {
		return err
	}
	return runStageAndRender(ctx, env)
}

// baseEnvelope builds the input envelope from flags. When --config is set the
// config is validated first so the stage under test sees a populated meta.
func baseEnvelope(ctx context.Context) (stage.Envelope, error) {
	env := stage.Envelope{Records: []stage.Record{}}
	if flagConfig != "" {
		env.Meta = &stage.Meta{ConfigPath: flagConfig}
		validated, err := stage.Run(ctx, "validate-config", env, stage.Deps{})
		if err != nil {
			return stage.Envelope{}, err
		}
		env = validated
	}
	if env.Meta == nil {
		env.Meta = &stage.Meta{}
	}
	if env.Meta.Corpus == nil {
		env.Meta.Corpus = &stage.CorpusMeta{}
	}
	if flagRoot != "" {
		env.Meta.Corpus.Root = relativizeRoot(flagRoot)
	}
	if flagNoGit {
		env.Meta.Corpus.NoGitignore = true
	}
	if flagOut != "-" || flagPretty {
		if env.Meta.Output == nil {
			env.Meta.Output = &stage.OutputMeta{}
		}
		env.Meta.Output.Out = flagOut
		env.Meta.Output.Pretty = flagPretty
	}
	return env, nil
}

func runStageAndRender(ctx context.Context, in stage.Envelope) error {
	out, err := stage.Run(ctx, flagStage, in, stage.Deps{})
	if err != nil {
		var unknown stage.ErrUnknown
		if errors.As(err, &unknown) {
			names := stage.Names()
			sort.Strings(names)
			return fmt.Errorf("%v (registered stages: %s)", err, strings.Join(names, ", "))
		}
		return err
	}
	if out.Meta == nil {
		out.Meta = &stage.Meta{}
	}
	out.Meta.ContractVersion = "1"
	if err := maybeDumpOut(out); err != nil {
		return err
	}
	return printEnvelopeOneLine(os.Stdout, out)
}

func maybeDumpIn(env stage.Envelope) error {
	if flagDumpIn == "" {
		return nil
	}
	return writeJSONFile(flagDumpIn, env)
}

func maybeDumpOut(env stage.Envelope) error {
	if flagDumpOut == "" {
		return nil
	}
	return writeJSONFile(flagDumpOut, env)
}

func writeJSONFile(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create dump dir: %w", err)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func printEnvelopeOneLine(w io.Writer, env stage.Envelope) error {
	stage.SortEnvelopeErrors(&env)
	b, err := json.Marshal(env)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

// relativizeRoot converts an absolute root under the current working directory
// to a relative path for deterministic output; otherwise returns the input.
func relativizeRoot(root string) string {
	if root == "" || root == "." {
		return root
	}
	if !filepath.IsAbs(root) {
		return filepath.ToSlash(root)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return root
	}
	rel, err := filepath.Rel(cwd, root)
	if err != nil {
		return root
	}
	if rel == "" || rel == "." || rel == root || strings.HasPrefix(rel, "..") {
		return root
	}
	return filepath.ToSlash(rel)
}
