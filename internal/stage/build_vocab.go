package stage

import (
	"context"
	"fmt"

	"github.com/yngtodd/tok/internal/vocab"
)

const buildVocabStage = "build-vocab"

// build-vocab: merge per-record token streams into one vocabulary, assigning
// ids first-seen. Records are consumed in locator order (discovery sorts
// them), so the result is deterministic for a given corpus and config.
func buildVocabRunner(_ context.Context, in Envelope, _ Deps) (Envelope, error) {
	mode, _ := errorMode(in.Meta)
	v := vocab.New()
	successes := 0
	for _, r := range in.Records {
		if r.Error != nil {
			if mode != "keep-going" {
				return Envelope{}, fmt.Errorf("%s: %s: %s", buildVocabStage, r.Locator, r.Error.Message)
			}
			continue
		}
		for _, tok := range r.Tokens {
			v.Add(tok)
		}
		successes++
	}
	out := in
	if out.Meta == nil {
		out.Meta = &Meta{}
	}
	out.Meta.Vocab = &VocabMeta{Size: v.Size(), Entries: v.Entries()}
	if mode == "keep-going" && successes == 0 && len(in.Records) > 0 {
		appendEnvelopeError(&out, buildVocabStage, "", "no successful records")
	}
	return out, nil
}

func init() { Register(buildVocabStage, buildVocabRunner) }
