package build

import (
	"context"
	"os"

	"github.com/yngtodd/tok/internal/stage"
)

// preparedStages returns the deterministic stage order for a build. Optional
// stages are included only when configured so the progress output names
// exactly what runs.
func preparedStages(meta *stage.Meta) []string {
	stages := []string{
		"discover-corpus-files",
		"read-text",
		"tokenize",
	}
	if meta != nil && meta.Lua != nil && meta.Lua.FilterInline != "" {
		stages = append(stages, "lua-filter-tokens")
	}
	if meta != nil && meta.Lua != nil && meta.Lua.MapInline != "" {
		stages = append(stages, "lua-map-tokens")
	}
	stages = append(stages, "build-vocab")
	if meta != nil && meta.Provenance != nil && meta.Provenance.Git {
		stages = append(stages, "enrich-provenance")
	}
	stages = append(stages, "write-vocab")
	if meta != nil && meta.Report != nil && meta.Report.Enabled {
		stages = append(stages, "write-report")
	}
	return stages
}

// executePipeline runs the prepared stages in order over the envelope.
func executePipeline(ctx context.Context, in stage.Envelope) (stage.Envelope, error) {
	reporter := newProgressReporter(in.Meta, os.Stderr)
	env := in
	var err error
	for _, name := range preparedStages(in.Meta) {
		env, err = reporter.runStage(ctx, name, env, stage.Deps{})
		if err != nil {
			return stage.Envelope{}, err
		}
		if ctx.Err() != nil {
			return stage.Envelope{}, ctx.Err()
		}
	}
	return env, nil
}
