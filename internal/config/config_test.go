package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeCUE(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tok.cue")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestParseBuild_RequiresConfigVersion(t *testing.T) {
	path := writeCUE(t, `corpus: root: "."`)
	_, err := ParseBuild(path)
	if err == nil || !strings.Contains(err.Error(), "missing required field: configVersion") {
		t.Fatalf("expected missing field error, got %v", err)
	}
}

func TestParseBuild_RejectsNonCUE(t *testing.T) {
	_, err := ParseBuild("tok.yaml")
	if err == nil || !strings.Contains(err.Error(), "expected .cue") {
		t.Fatalf("expected format error, got %v", err)
	}
}

func TestParseBuild_RejectsWrongType(t *testing.T) {
	path := writeCUE(t, `configVersion: 1`)
	_, err := ParseBuild(path)
	if err == nil || !strings.Contains(err.Error(), "invalid type for field: configVersion") {
		t.Fatalf("expected type error, got %v", err)
	}
}

func TestParseBuild_Minimal(t *testing.T) {
	path := writeCUE(t, `configVersion: "1"`)
	b, err := ParseBuild(path)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if b.ConfigVersion != "1" {
		t.Fatalf("configVersion = %q", b.ConfigVersion)
	}
	if b.Corpus.HasRoot || b.Tokenizer.HasFilterInline || b.HasWorkers {
		t.Fatalf("unexpected presence flags: %+v", b)
	}
}

func TestParseBuild_UnsupportedVersion(t *testing.T) {
	path := writeCUE(t, `configVersion: "2"`)
	_, err := ParseBuild(path)
	if err == nil || !strings.Contains(err.Error(), "unsupported configVersion") {
		t.Fatalf("expected version error, got %v", err)
	}
}

func TestParseBuild_Full(t *testing.T) {
	path := writeCUE(t, `
configVersion: "1"
corpus: {
	root:        "corpus"
	extensions:  [".txt", ".md"]
	noGitignore: true
}
tokenizer: {
	keepCase:     false
	minLength:    2
	filterInline: "token ~= 'the'"
	mapInline:    "return token"
}
luaSandbox: {
	timeoutMs:        250
	instructionLimit: 10000
}
errors: {
	mode:        "keep-going"
	embedErrors: true
}
output: {
	out:    "vocab.yaml"
	format: "yaml"
}
report: {
	enabled: true
	out:     "-"
	pretty:  true
}
provenance: git: true
workers: 4
`)
	b, err := ParseBuild(path)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !b.Corpus.HasRoot || b.Corpus.Root != "corpus" {
		t.Fatalf("corpus.root = %+v", b.Corpus)
	}
	if !reflect.DeepEqual(b.Corpus.Extensions, []string{".txt", ".md"}) {
		t.Fatalf("extensions = %v", b.Corpus.Extensions)
	}
	if !b.Corpus.NoGitignore {
		t.Fatal("noGitignore not parsed")
	}
	if b.Tokenizer.MinLength != 2 || !b.Tokenizer.HasMinLength {
		t.Fatalf("tokenizer = %+v", b.Tokenizer)
	}
	if b.Tokenizer.FilterInline != "token ~= 'the'" || b.Tokenizer.MapInline != "return token" {
		t.Fatalf("lua inlines = %+v", b.Tokenizer)
	}
	if !b.LuaSandbox.Has || b.LuaSandbox.TimeoutMs != 250 || b.LuaSandbox.InstructionLimit != 10000 {
		t.Fatalf("luaSandbox = %+v", b.LuaSandbox)
	}
	if b.LuaSandbox.MemoryLimitBytes != -1 {
		t.Fatalf("memoryLimitBytes should stay unset, got %d", b.LuaSandbox.MemoryLimitBytes)
	}
	if b.Errors.Mode != "keep-going" || !b.Errors.EmbedErrors {
		t.Fatalf("errors = %+v", b.Errors)
	}
	if b.Output.Out != "vocab.yaml" || b.Output.Format != "yaml" {
		t.Fatalf("output = %+v", b.Output)
	}
	if !b.Report.Enabled || b.Report.Out != "-" || !b.Report.Pretty {
		t.Fatalf("report = %+v", b.Report)
	}
	if !b.Provenance.Git {
		t.Fatal("provenance.git not parsed")
	}
	if b.Workers != 4 || !b.HasWorkers {
		t.Fatalf("workers = %d", b.Workers)
	}
}

func TestParseBuild_InvalidValues(t *testing.T) {
	cases := []struct {
		name string
		cue  string
		want string
	}{
		{"bad mode", `configVersion: "1"
errors: mode: "sometimes"`, "invalid errors.mode"},
		{"bad format", `configVersion: "1"
output: format: "csv"`, "invalid output.format"},
		{"bad workers", `configVersion: "1"
workers: 0`, "invalid workers"},
		{"bad minLength", `configVersion: "1"
tokenizer: minLength: -3`, "invalid tokenizer.minLength"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseBuild(writeCUE(t, tc.cue))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q error, got %v", tc.want, err)
			}
		})
	}
}
