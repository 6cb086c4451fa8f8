package stage

import (
	"context"

	"github.com/yngtodd/tok/internal/tokenizer"
)

const tokenizeStage = "tokenize"

type tokenizeRes struct {
	idx int
	rec Record
}

func tokenizerOptions(meta *Meta) tokenizer.Options {
	var opts tokenizer.Options
	if meta != nil && meta.Tokenizer != nil {
		opts.KeepCase = meta.Tokenizer.KeepCase
		opts.MinLength = meta.Tokenizer.MinLength
	}
	return opts
}

// tokenize: split each record's text into tokens. Text is dropped from the
// record afterwards so downstream envelopes stay small.
func tokenizeRunner(_ context.Context, in Envelope, _ Deps) (Envelope, error) {
	opts := tokenizerOptions(in.Meta)
	out := in
	out.Records = make([]Record, len(in.Records))

	n := len(in.Records)
	workers := getWorkers(in.Meta)
	results := runIndexedParallel(n, workers, func(idx int) tokenizeRes {
		rec := in.Records[idx]
		if rec.Error != nil {
			return tokenizeRes{idx: idx, rec: rec}
		}
		rec.Tokens = tokenizer.SplitWith(rec.Text, opts)
		rec.Text = ""
		return tokenizeRes{idx: idx, rec: rec}
	})
	for _, rr := range results {
		out.Records[rr.idx] = rr.rec
	}
	return out, nil
}

func init() { Register(tokenizeStage, tokenizeRunner) }
