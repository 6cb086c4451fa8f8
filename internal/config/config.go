package config

import (
	"fmt"

	"cuelang.org/go/cue"
)

// Build holds the validated build configuration for `tok build`.
type Build struct {
	ConfigVersion string
	Corpus        Corpus
	Tokenizer     Tokenizer
	LuaSandbox    LuaSandbox
	Errors        Errors
	Output        Output
	Report        Report
	Provenance    Provenance
	Workers       int
	HasWorkers    bool
}

// Corpus holds optional corpus discovery config and presence flags.
type Corpus struct {
	Root           string
	Extensions     []string
	NoGitignore    bool
	HasRoot        bool
	HasExtensions  bool
	HasNoGitignore bool
}

// Tokenizer holds optional tokenization config.
type Tokenizer struct {
	KeepCase        bool
	MinLength       int
	FilterInline    string
	MapInline       string
	HasKeepCase     bool
	HasMinLength    bool
	HasFilterInline bool
	HasMapInline    bool
}

// LuaSandbox holds optional Lua sandbox limits. Negative values mean unset.
type LuaSandbox struct {
	TimeoutMs        int
	InstructionLimit int
	MemoryLimitBytes int
	Has              bool
}

// Errors holds optional error-mode config.
type Errors struct {
	Mode        string
	EmbedErrors bool
	HasMode     bool
	HasEmbed    bool
}

// Output holds optional vocabulary output config.
type Output struct {
	Out       string
	Format    string
	Pretty    bool
	HasOut    bool
	HasFormat bool
	HasPretty bool
}

// Report holds optional build report config.
type Report struct {
	Enabled    bool
	Out        string
	Pretty     bool
	HasEnabled bool
	HasOut     bool
	HasPretty  bool
}

// Provenance holds optional provenance config.
type Provenance struct {
	Git    bool
	HasGit bool
}

// ParseBuild validates and extracts the build configuration from a CUE file.
// Required fields:
//   - configVersion: string
func ParseBuild(path string) (Build, error) {
	v, err := compileCUE(path)
	if err != nil {
		return Build{}, err
	}
	if err := validateRequired(v); err != nil {
		return Build{}, err
	}
	var b Build
	if err := v.LookupPath(cue.ParsePath("configVersion")).Decode(&b.ConfigVersion); err != nil {
		return Build{}, fmt.Errorf("invalid value for configVersion: %v", err)
	}
	if b.ConfigVersion != "1" {
		return Build{}, fmt.Errorf("unsupported configVersion: %s", b.ConfigVersion)
	}
	parseCorpus(v, &b)
	parseTokenizer(v, &b)
	parseLuaSandbox(v, &b)
	parseErrors(v, &b)
	parseOutput(v, &b)
	parseReport(v, &b)
	parseProvenance(v, &b)
	if wv := v.LookupPath(cue.ParsePath("workers")); wv.Exists() && wv.Kind() == cue.IntKind {
		var n int64
		if err := wv.Decode(&n); err == nil {
			b.Workers = int(n)
			b.HasWorkers = true
		}
	}
	if err := validateValues(b); err != nil {
		return Build{}, err
	}
	return b, nil
}

func validateRequired(v cue.Value) error {
	return requireStringField(v, "configVersion")
}

func requireStringField(v cue.Value, name string) error {
	f := v.LookupPath(cue.ParsePath(name))
	if !f.Exists() {
		return fmt.Errorf("missing required field: %s", name)
	}
	if f.Kind() != cue.StringKind {
		return fmt.Errorf("invalid type for field: %s (expected string)", name)
	}
	return nil
}

func validateValues(b Build) error {
	if b.Errors.HasMode && b.Errors.Mode != "fail-fast" && b.Errors.Mode != "keep-going" {
		return fmt.Errorf("invalid errors.mode: %s (expected fail-fast or keep-going)", b.Errors.Mode)
	}
	if b.Output.HasFormat && b.Output.Format != "tsv" && b.Output.Format != "yaml" {
		return fmt.Errorf("invalid output.format: %s (expected tsv or yaml)", b.Output.Format)
	}
	if b.HasWorkers && b.Workers < 1 {
		return fmt.Errorf("invalid workers: %d (expected >= 1)", b.Workers)
	}
	if b.Tokenizer.HasMinLength && b.Tokenizer.MinLength < 0 {
		return fmt.Errorf("invalid tokenizer.minLength: %d", b.Tokenizer.MinLength)
	}
	return nil
}
