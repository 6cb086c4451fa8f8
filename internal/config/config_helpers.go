package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// compileCUE loads and compiles a CUE file at the given path.
func compileCUE(path string) (cue.Value, error) {
	if filepath.Ext(path) != ".cue" {
		return cue.Value{}, errors.New("unsupported config format: expected .cue")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cue.Value{}, fmt.Errorf("failed to read config: %w", err)
	}
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data)
	if err := v.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("invalid config: %v", err)
	}
	return v, nil
}

func lookupString(v cue.Value, path string, dst *string) bool {
	f := v.LookupPath(cue.ParsePath(path))
	if !f.Exists() || f.Kind() != cue.StringKind {
		return false
	}
	return f.Decode(dst) == nil
}

func lookupBool(v cue.Value, path string, dst *bool) bool {
	f := v.LookupPath(cue.ParsePath(path))
	if !f.Exists() || f.Kind() != cue.BoolKind {
		return false
	}
	return f.Decode(dst) == nil
}

func lookupInt(v cue.Value, path string, dst *int) bool {
	f := v.LookupPath(cue.ParsePath(path))
	if !f.Exists() || f.Kind() != cue.IntKind {
		return false
	}
	var n int64
	if f.Decode(&n) != nil {
		return false
	}
	*dst = int(n)
	return true
}

func lookupStringList(v cue.Value, path string, dst *[]string) bool {
	f := v.LookupPath(cue.ParsePath(path))
	if !f.Exists() || f.Kind() != cue.ListKind {
		return false
	}
	return f.Decode(dst) == nil
}

func parseCorpus(v cue.Value, b *Build) {
	cv := v.LookupPath(cue.ParsePath("corpus"))
	if !cv.Exists() {
		return
	}
	b.Corpus.HasRoot = lookupString(cv, "root", &b.Corpus.Root)
	b.Corpus.HasExtensions = lookupStringList(cv, "extensions", &b.Corpus.Extensions)
	b.Corpus.HasNoGitignore = lookupBool(cv, "noGitignore", &b.Corpus.NoGitignore)
}

func parseTokenizer(v cue.Value, b *Build) {
	tv := v.LookupPath(cue.ParsePath("tokenizer"))
	if !tv.Exists() {
		return
	}
	b.Tokenizer.HasKeepCase = lookupBool(tv, "keepCase", &b.Tokenizer.KeepCase)
	b.Tokenizer.HasMinLength = lookupInt(tv, "minLength", &b.Tokenizer.MinLength)
	b.Tokenizer.HasFilterInline = lookupString(tv, "filterInline", &b.Tokenizer.FilterInline)
	b.Tokenizer.HasMapInline = lookupString(tv, "mapInline", &b.Tokenizer.MapInline)
}

func parseLuaSandbox(v cue.Value, b *Build) {
	b.LuaSandbox = LuaSandbox{TimeoutMs: -1, InstructionLimit: -1, MemoryLimitBytes: -1}
	sv := v.LookupPath(cue.ParsePath("luaSandbox"))
	if !sv.Exists() {
		return
	}
	b.LuaSandbox.Has = true
	lookupInt(sv, "timeoutMs", &b.LuaSandbox.TimeoutMs)
	lookupInt(sv, "instructionLimit", &b.LuaSandbox.InstructionLimit)
	lookupInt(sv, "memoryLimitBytes", &b.LuaSandbox.MemoryLimitBytes)
}

func parseErrors(v cue.Value, b *Build) {
	ev := v.LookupPath(cue.ParsePath("errors"))
	if !ev.Exists() {
		return
	}
	b.Errors.HasMode = lookupString(ev, "mode", &b.Errors.Mode)
	b.Errors.HasEmbed = lookupBool(ev, "embedErrors", &b.Errors.EmbedErrors)
}

func parseOutput(v cue.Value, b *Build) {
	ov := v.LookupPath(cue.ParsePath("output"))
	if !ov.Exists() {
		return
	}
	b.Output.HasOut = lookupString(ov, "out", &b.Output.Out)
	b.Output.HasFormat = lookupString(ov, "format", &b.Output.Format)
	b.Output.HasPretty = lookupBool(ov, "pretty", &b.Output.Pretty)
}

func parseReport(v cue.Value, b *Build) {
	rv := v.LookupPath(cue.ParsePath("report"))
	if !rv.Exists() {
		return
	}
	b.Report.HasEnabled = lookupBool(rv, "enabled", &b.Report.Enabled)
	b.Report.HasOut = lookupString(rv, "out", &b.Report.Out)
	b.Report.HasPretty = lookupBool(rv, "pretty", &b.Report.Pretty)
}

func parseProvenance(v cue.Value, b *Build) {
	pv := v.LookupPath(cue.ParsePath("provenance"))
	if !pv.Exists() {
		return
	}
	b.Provenance.HasGit = lookupBool(pv, "git", &b.Provenance.Git)
}
