package stage

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeStageCUE(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tok.cue")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestValidateConfig_RequiresConfigPath(t *testing.T) {
	_, err := ValidateConfig(context.Background(), Envelope{}, Deps{})
	if _, ok := err.(ErrMissingConfigPath); !ok {
		t.Fatalf("expected ErrMissingConfigPath, got %v", err)
	}
}

func TestValidateConfig_PopulatesMeta(t *testing.T) {
	path := writeStageCUE(t, `
configVersion: "1"
corpus: {
	root:       "corpus"
	extensions: [".txt"]
}
tokenizer: filterInline: "token ~= 'a'"
errors: mode: "keep-going"
output: {
	out:    "vocab.tsv"
	format: "tsv"
}
workers: 2
`)
	in := Envelope{Meta: &Meta{ConfigPath: path}}
	out, err := ValidateConfig(context.Background(), in, Deps{})
	if err != nil {
		t.Fatalf("validate-config: %v", err)
	}
	if out.Meta.ConfigPath != "" {
		t.Fatal("configPath should not persist in output")
	}
	if out.Meta.Config == nil || out.Meta.Config.ConfigVersion != "1" {
		t.Fatalf("config = %+v", out.Meta.Config)
	}
	if out.Meta.Corpus == nil || out.Meta.Corpus.Root != "corpus" {
		t.Fatalf("corpus = %+v", out.Meta.Corpus)
	}
	if !reflect.DeepEqual(out.Meta.Corpus.Extensions, []string{".txt"}) {
		t.Fatalf("extensions = %v", out.Meta.Corpus.Extensions)
	}
	if out.Meta.Lua == nil || out.Meta.Lua.FilterInline != "token ~= 'a'" {
		t.Fatalf("lua = %+v", out.Meta.Lua)
	}
	if out.Meta.Errors == nil || out.Meta.Errors.Mode != "keep-going" {
		t.Fatalf("errors = %+v", out.Meta.Errors)
	}
	if out.Meta.Output == nil || out.Meta.Output.Out != "vocab.tsv" {
		t.Fatalf("output = %+v", out.Meta.Output)
	}
	if out.Meta.Workers != 2 {
		t.Fatalf("workers = %d", out.Meta.Workers)
	}
}

func TestNames_IncludesPipelineStages(t *testing.T) {
	have := map[string]bool{}
	for _, n := range Names() {
		have[n] = true
	}
	for _, want := range []string{
		"validate-config", "discover-corpus-files", "read-text", "tokenize",
		"lua-filter-tokens", "lua-map-tokens", "build-vocab",
		"enrich-provenance", "write-vocab", "write-report",
	} {
		if !have[want] {
			t.Fatalf("registered stages missing %q: %v", want, Names())
		}
	}
}

func TestRun_UnknownStage(t *testing.T) {
	_, err := Run(context.Background(), "no-such-stage", Envelope{}, Deps{})
	if _, ok := err.(ErrUnknown); !ok {
		t.Fatalf("expected ErrUnknown, got %v", err)
	}
}

func TestSortEnvelopeErrors_Deterministic(t *testing.T) {
	env := Envelope{Errors: []Error{
		{Stage: "tokenize", Locator: "b", Message: "m"},
		{Stage: "read-text", Locator: "z", Message: "m"},
		{Stage: "read-text", Locator: "a", Message: "m"},
	}}
	SortEnvelopeErrors(&env)
	want := []Error{
		{Stage: "read-text", Locator: "a", Message: "m"},
		{Stage: "read-text", Locator: "z", Message: "m"},
		{Stage: "tokenize", Locator: "b", Message: "m"},
	}
	if !reflect.DeepEqual(env.Errors, want) {
		t.Fatalf("errors = %+v", env.Errors)
	}
}
