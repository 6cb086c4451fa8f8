package stage

import "github.com/yngtodd/tok/internal/config"

func applyCorpus(out *Envelope, b config.Build) {
	if !b.Corpus.HasRoot && !b.Corpus.HasExtensions && !b.Corpus.HasNoGitignore {
		return
	}
	if out.Meta.Corpus == nil {
		out.Meta.Corpus = &CorpusMeta{}
	}
	if b.Corpus.HasRoot {
		out.Meta.Corpus.Root = b.Corpus.Root
	}
	if b.Corpus.HasExtensions {
		out.Meta.Corpus.Extensions = append([]string(nil), b.Corpus.Extensions...)
	}
	if b.Corpus.HasNoGitignore {
		out.Meta.Corpus.NoGitignore = b.Corpus.NoGitignore
	}
}

func applyTokenizer(out *Envelope, b config.Build) {
	if b.Tokenizer.HasKeepCase || b.Tokenizer.HasMinLength {
		if out.Meta.Tokenizer == nil {
			out.Meta.Tokenizer = &TokenizerMeta{}
		}
		if b.Tokenizer.HasKeepCase {
			out.Meta.Tokenizer.KeepCase = b.Tokenizer.KeepCase
		}
		if b.Tokenizer.HasMinLength {
			out.Meta.Tokenizer.MinLength = b.Tokenizer.MinLength
		}
	}
}

func applyLua(out *Envelope, b config.Build) {
	if b.Tokenizer.HasFilterInline || b.Tokenizer.HasMapInline {
		if out.Meta.Lua == nil {
			out.Meta.Lua = &LuaMeta{}
		}
		if b.Tokenizer.HasFilterInline {
			out.Meta.Lua.FilterInline = b.Tokenizer.FilterInline
		}
		if b.Tokenizer.HasMapInline {
			out.Meta.Lua.MapInline = b.Tokenizer.MapInline
		}
	}
	if b.LuaSandbox.Has {
		out.Meta.LuaSandbox = &LuaSandboxMeta{
			TimeoutMs:        b.LuaSandbox.TimeoutMs,
			InstructionLimit: b.LuaSandbox.InstructionLimit,
			MemoryLimitBytes: b.LuaSandbox.MemoryLimitBytes,
		}
	}
}

func applyErrorsOutput(out *Envelope, b config.Build) {
	if b.Errors.HasMode || b.Errors.HasEmbed {
		if out.Meta.Errors == nil {
			out.Meta.Errors = &ErrorsMeta{}
		}
		if b.Errors.HasMode {
			out.Meta.Errors.Mode = b.Errors.Mode
		}
		if b.Errors.HasEmbed {
			out.Meta.Errors.EmbedErrors = b.Errors.EmbedErrors
		}
	}
	if b.Output.HasOut || b.Output.HasFormat || b.Output.HasPretty {
		if out.Meta.Output == nil {
			out.Meta.Output = &OutputMeta{}
		}
		if b.Output.HasOut {
			out.Meta.Output.Out = b.Output.Out
		}
		if b.Output.HasFormat {
			out.Meta.Output.Format = b.Output.Format
		}
		if b.Output.HasPretty {
			out.Meta.Output.Pretty = b.Output.Pretty
		}
	}
}

func applyReportProvenance(out *Envelope, b config.Build) {
	if b.Report.HasEnabled || b.Report.HasOut || b.Report.HasPretty {
		if out.Meta.Report == nil {
			out.Meta.Report = &ReportMeta{}
		}
		if b.Report.HasEnabled {
			out.Meta.Report.Enabled = b.Report.Enabled
		}
		if b.Report.HasOut {
			out.Meta.Report.Out = b.Report.Out
		}
		if b.Report.HasPretty {
			out.Meta.Report.Pretty = b.Report.Pretty
		}
	}
	if b.Provenance.HasGit {
		if out.Meta.Provenance == nil {
			out.Meta.Provenance = &ProvenanceMeta{}
		}
		out.Meta.Provenance.Git = b.Provenance.Git
	}
}
