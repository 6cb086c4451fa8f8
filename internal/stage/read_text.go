package stage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"
)

const readTextStage = "read-text"

type readTextRes struct {
	idx   int
	rec   Record
	envE  *Error
	fatal error
}

func processReadTextRecord(rec Record, root, mode string, embed bool) (Record, *Error, error) {
	if rec.Error != nil {
		return rec, nil, nil
	}
	abs := filepath.Join(root, filepath.FromSlash(rec.Locator))
	b, err := os.ReadFile(abs)
	if err != nil {
		msg := sanitizeErrorMessage(err.Error())
		if mode == "keep-going" {
			out := rec
			if embed {
				out.Error = &RecError{Stage: readTextStage, Message: msg}
			}
			return out, &Error{Stage: readTextStage, Locator: rec.Locator, Message: msg}, nil
		}
		return Record{}, nil, fmt.Errorf("%s: %s: %s", readTextStage, rec.Locator, msg)
	}
	if !utf8.Valid(b) {
		msg := "not valid utf-8"
		if mode == "keep-going" {
			out := rec
			if embed {
				out.Error = &RecError{Stage: readTextStage, Message: msg}
			}
			return out, &Error{Stage: readTextStage, Locator: rec.Locator, Message: msg}, nil
		}
		return Record{}, nil, fmt.Errorf("%s: %s: %s", readTextStage, rec.Locator, msg)
	}
	out := rec
	out.Text = string(b)
	return out, nil, nil
}

func readTextRunner(_ context.Context, in Envelope, _ Deps) (Envelope, error) {
	root := determineRoot(in)
	mode, embed := errorMode(in.Meta)
	out := in
	out.Records = make([]Record, len(in.Records))

	n := len(in.Records)
	workers := getWorkers(in.Meta)
	var envErrs []Error
	var firstErr error
	results := runIndexedParallel(n, workers, func(idx int) readTextRes {
		rec, envE, fatal := processReadTextRecord(in.Records[idx], root, mode, embed)
		return readTextRes{idx: idx, rec: rec, envE: envE, fatal: fatal}
	})
	for _, rr := range results {
		accumulateStageError(&envErrs, &firstErr, rr.envE, rr.fatal)
		out.Records[rr.idx] = rr.rec
	}
	if firstErr != nil {
		return Envelope{}, firstErr
	}
	appendSanitizedErrors(&out, envErrs)
	return out, nil
}

func init() { Register(readTextStage, readTextRunner) }
