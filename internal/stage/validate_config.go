package stage

import (
	"context"

	"github.com/yngtodd/tok/internal/config"
)

// ValidateConfig is the stage implementation for "validate-config".
func ValidateConfig(ctx context.Context, in Envelope, deps Deps) (Envelope, error) {
	// Extract configPath from meta
	if in.Meta == nil || in.Meta.ConfigPath == "" {
		return Envelope{}, ErrMissingConfigPath{}
	}
	b, err := config.ParseBuild(in.Meta.ConfigPath)
	if err != nil {
		return Envelope{}, err
	}
	out := in
	if out.Meta == nil {
		out.Meta = &Meta{}
	}
	out.Meta.Config = &ConfigMeta{ConfigVersion: b.ConfigVersion}
	// Do not persist configPath in output
	out.Meta.ConfigPath = ""
	applyCorpus(&out, b)
	applyTokenizer(&out, b)
	applyLua(&out, b)
	applyErrorsOutput(&out, b)
	applyReportProvenance(&out, b)
	if b.HasWorkers {
		out.Meta.Workers = b.Workers
	}
	return out, nil
}

type ErrMissingConfigPath struct{}

func (ErrMissingConfigPath) Error() string { return "missing required meta.configPath" }

func init() { Register("validate-config", ValidateConfig) }
