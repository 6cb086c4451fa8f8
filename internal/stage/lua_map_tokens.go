package stage

import (
	"context"
	"fmt"
)

const luaMapStage = "lua-map-tokens"

type luaMapRes struct {
	idx   int
	rec   Record
	envE  *Error
	fatal error
}

// buildLuaMapCode returns the Lua mapping code, wrapping expressions without
// explicit return.
func buildLuaMapCode(in Envelope) string {
	if in.Meta == nil || in.Meta.Lua == nil || in.Meta.Lua.MapInline == "" {
		return ""
	}
	code := in.Meta.Lua.MapInline
	if !containsReturn(code) {
		code = "return (" + code + ")"
	}
	return code
}

// processLuaMapRecord rewrites each token through the mapping code. A string
// result replaces the token, nil or false drops it, anything else is an error.
func processLuaMapRecord(rec Record, code, mode string, metaCfg *Meta) (Record, *Error, error) {
	if rec.Error != nil {
		return rec, nil, nil
	}
	hook, violation, err := newTokenHook(luaMapStage, rec.Locator, metaCfg, code)
	if err != nil {
		return luaMapFailure(rec, mode, err.Error())
	}
	if violation != "" {
		return luaMapViolation(rec, mode, violation)
	}
	defer hook.close()

	mapped := make([]string, 0, len(rec.Tokens))
	for i, tok := range rec.Tokens {
		ret, violation, err := hook.call(tok, i+1)
		if err != nil {
			return luaMapFailure(rec, mode, err.Error())
		}
		if violation != "" {
			return luaMapViolation(rec, mode, violation)
		}
		switch x := ret.(type) {
		case nil:
			// dropped
		case bool:
			if x {
				mapped = append(mapped, tok)
			}
		case string:
			if x != "" {
				mapped = append(mapped, x)
			}
		default:
			return luaMapFailure(rec, mode, fmt.Sprintf("map must return a string or nil, got %T", ret))
		}
	}
	out := rec
	out.Tokens = mapped
	return out, nil, nil
}

func luaMapFailure(rec Record, mode, msg string) (Record, *Error, error) {
	if mode == "keep-going" {
		rec.Error = &RecError{Stage: luaMapStage, Message: msg}
		return rec, &Error{Stage: luaMapStage, Locator: rec.Locator, Message: msg}, nil
	}
	return Record{}, nil, fmt.Errorf("%s: %s", luaMapStage, msg)
}

func luaMapViolation(rec Record, mode, violation string) (Record, *Error, error) {
	if mode == "keep-going" {
		rec.Error = &RecError{Stage: luaMapStage, Message: violation}
		return rec, &Error{Stage: luaMapStage, Locator: rec.Locator, Message: violation}, nil
	}
	return Record{}, nil, luaViolationFailFast(luaMapStage, violation)
}

func luaMapTokensRunner(ctx context.Context, in Envelope, deps Deps) (Envelope, error) {
	code := buildLuaMapCode(in)
	if code == "" {
		return in, nil
	}

	out := in
	out.Records = make([]Record, len(in.Records))

	mode, _ := errorMode(in.Meta)
	n := len(in.Records)
	workers := getWorkers(in.Meta)
	var envErrs []Error
	var firstErr error
	results := runIndexedParallel(n, workers, func(idx int) luaMapRes {
		rec, envE, fatal := processLuaMapRecord(in.Records[idx], code, mode, in.Meta)
		return luaMapRes{idx: idx, rec: rec, envE: envE, fatal: fatal}
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

func init() { Register(luaMapStage, luaMapTokensRunner) }
