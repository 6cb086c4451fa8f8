package stage

import "github.com/yngtodd/tok/internal/vocab"

// Error represents a stage-level error.
type Error struct {
	Stage   string `json:"stage"`
	Locator string `json:"locator,omitempty"`
	Message string `json:"message"`
}

// ConfigMeta holds validated config essentials.
type ConfigMeta struct {
	ConfigVersion string `json:"configVersion"`
}

// CorpusMeta holds corpus discovery options.
type CorpusMeta struct {
	Root        string   `json:"root,omitempty"`
	Extensions  []string `json:"extensions,omitempty"`
	NoGitignore bool     `json:"noGitignore,omitempty"`
}

// TokenizerMeta holds tokenization options.
type TokenizerMeta struct {
	KeepCase  bool `json:"keepCase,omitempty"`
	MinLength int  `json:"minLength,omitempty"`
}

// LuaMeta holds inline Lua hooks applied per token.
type LuaMeta struct {
	FilterInline string `json:"filterInline,omitempty"`
	MapInline    string `json:"mapInline,omitempty"`
}

// LuaSandboxMeta holds Lua sandbox limits. Negative values select defaults.
type LuaSandboxMeta struct {
	TimeoutMs        int `json:"timeoutMs,omitempty"`
	InstructionLimit int `json:"instructionLimit,omitempty"`
	MemoryLimitBytes int `json:"memoryLimitBytes,omitempty"`
}

// ErrorsMeta selects the error handling mode.
type ErrorsMeta struct {
	Mode        string `json:"mode,omitempty"`
	EmbedErrors bool   `json:"embedErrors,omitempty"`
}

// OutputMeta holds vocabulary output settings.
type OutputMeta struct {
	Out    string `json:"out,omitempty"`
	Format string `json:"format,omitempty"`
	Pretty bool   `json:"pretty,omitempty"`
}

// ReportMeta holds build report settings.
type ReportMeta struct {
	Enabled bool   `json:"enabled,omitempty"`
	Out     string `json:"out,omitempty"`
	Pretty  bool   `json:"pretty,omitempty"`
}

// ProvenanceMeta holds corpus provenance settings and results.
type ProvenanceMeta struct {
	Git    bool   `json:"git,omitempty"`
	Commit string `json:"commit,omitempty"`
	Branch string `json:"branch,omitempty"`
}

// VocabMeta carries the built vocabulary between stages.
type VocabMeta struct {
	Size    int           `json:"size"`
	Entries []vocab.Entry `json:"entries,omitempty"`
}

// UIMeta holds progress reporting options.
type UIMeta struct {
	Progress           bool `json:"progress,omitempty"`
	ProgressIntervalMs int  `json:"progressIntervalMs,omitempty"`
}

// Meta holds optional metadata with deterministic JSON field order.
type Meta struct {
	Stage           string          `json:"stage,omitempty"`
	ContractVersion string          `json:"contractVersion,omitempty"`
	ConfigPath      string          `json:"configPath,omitempty"`
	Config          *ConfigMeta     `json:"config,omitempty"`
	Corpus          *CorpusMeta     `json:"corpus,omitempty"`
	Tokenizer       *TokenizerMeta  `json:"tokenizer,omitempty"`
	Lua             *LuaMeta        `json:"lua,omitempty"`
	LuaSandbox      *LuaSandboxMeta `json:"luaSandbox,omitempty"`
	Errors          *ErrorsMeta     `json:"errors,omitempty"`
	Output          *OutputMeta     `json:"output,omitempty"`
	Report          *ReportMeta     `json:"report,omitempty"`
	Provenance      *ProvenanceMeta `json:"provenance,omitempty"`
	Vocab           *VocabMeta      `json:"vocab,omitempty"`
	Workers         int             `json:"workers,omitempty"`
	UI              *UIMeta         `json:"ui,omitempty"`
}

// Envelope is the JSON-serializable contract between stages.
// Field order is stable to keep JSON deterministic in tests.
type Envelope struct {
	Records []Record `json:"records"`
	Meta    *Meta    `json:"meta,omitempty"`
	Errors  []Error  `json:"errors,omitempty"`
}
