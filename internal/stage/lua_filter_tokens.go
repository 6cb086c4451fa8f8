package stage

import (
	"context"
	"fmt"
)

const luaFilterStage = "lua-filter-tokens"

type luaFilterRes struct {
	idx   int
	rec   Record
	envE  *Error
	fatal error
}

// buildLuaPredicate returns the predicate code, wrapping expressions without
// an explicit return.
func buildLuaPredicate(in Envelope) string {
	if in.Meta == nil || in.Meta.Lua == nil || in.Meta.Lua.FilterInline == "" {
		return ""
	}
	code := in.Meta.Lua.FilterInline
	if !containsReturn(code) {
		code = "return (" + code + ")"
	}
	return code
}

// processLuaFilterRecord keeps only the tokens for which the predicate is
// truthy. The predicate runs per token in one sandboxed state per record.
func processLuaFilterRecord(rec Record, pred, mode string, metaCfg *Meta) (Record, *Error, error) {
	if rec.Error != nil {
		return rec, nil, nil
	}
	hook, violation, err := newTokenHook(luaFilterStage, rec.Locator, metaCfg, pred)
	if err != nil {
		return luaFilterFailure(rec, mode, err.Error())
	}
	if violation != "" {
		return luaFilterViolation(rec, mode, violation)
	}
	defer hook.close()

	kept := make([]string, 0, len(rec.Tokens))
	for i, tok := range rec.Tokens {
		ret, violation, err := hook.call(tok, i+1)
		if err != nil {
			return luaFilterFailure(rec, mode, err.Error())
		}
		if violation != "" {
			return luaFilterViolation(rec, mode, violation)
		}
		if keep, _ := ret.(bool); keep || (ret != nil && ret != false) {
			kept = append(kept, tok)
		}
	}
	out := rec
	out.Tokens = kept
	return out, nil, nil
}

func luaFilterFailure(rec Record, mode, msg string) (Record, *Error, error) {
	if mode == "keep-going" {
		rec.Error = &RecError{Stage: luaFilterStage, Message: msg}
		return rec, &Error{Stage: luaFilterStage, Locator: rec.Locator, Message: msg}, nil
	}
	return Record{}, nil, fmt.Errorf("%s: %s", luaFilterStage, msg)
}

func luaFilterViolation(rec Record, mode, violation string) (Record, *Error, error) {
	if mode == "keep-going" {
		rec.Error = &RecError{Stage: luaFilterStage, Message: violation}
		return rec, &Error{Stage: luaFilterStage, Locator: rec.Locator, Message: violation}, nil
	}
	return Record{}, nil, luaViolationFailFast(luaFilterStage, violation)
}

func luaFilterTokensRunner(ctx context.Context, in Envelope, deps Deps) (Envelope, error) {
	pred := buildLuaPredicate(in)
	if pred == "" {
		return in, nil
	}

	out := in
	out.Records = make([]Record, len(in.Records))

	mode, _ := errorMode(in.Meta)
	n := len(in.Records)
	workers := getWorkers(in.Meta)
	var envErrs []Error
	var firstErr error
	results := runIndexedParallel(n, workers, func(idx int) luaFilterRes {
		rec, envE, fatal := processLuaFilterRecord(in.Records[idx], pred, mode, in.Meta)
		return luaFilterRes{idx: idx, rec: rec, envE: envE, fatal: fatal}
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

func init() { Register(luaFilterStage, luaFilterTokensRunner) }
