package stage

import (
	"sort"
	"strings"
)

func errorMode(meta *Meta) (mode string, embed bool) {
	mode = "fail-fast"
	if meta != nil && meta.Errors != nil {
		if meta.Errors.Mode != "" {
			mode = meta.Errors.Mode
		}
		embed = meta.Errors.EmbedErrors
	}
	return
}

func sanitizeErrorMessage(msg string) string {
	s := strings.Join(strings.Fields(msg), " ")
	if s == "" {
		return "error"
	}
	return s
}

func sanitizedError(e Error) Error {
	e.Message = sanitizeErrorMessage(e.Message)
	return e
}

func appendEnvelopeError(out *Envelope, stageName, locator, msg string) {
	out.Errors = append(out.Errors, sanitizedError(Error{Stage: stageName, Locator: locator, Message: msg}))
	SortEnvelopeErrors(out)
}

func appendSanitizedErrors(out *Envelope, envErrs []Error) {
	if len(envErrs) == 0 {
		return
	}
	for _, e := range envErrs {
		out.Errors = append(out.Errors, sanitizedError(e))
	}
	SortEnvelopeErrors(out)
}

func accumulateStageError(envErrs *[]Error, firstErr *error, envE *Error, fatal error) {
	if envE != nil {
		*envErrs = append(*envErrs, *envE)
	}
	if fatal != nil && *firstErr == nil {
		*firstErr = fatal
	}
}

// SortEnvelopeErrors sorts errors by (stage, locator, message) deterministically.
func SortEnvelopeErrors(env *Envelope) {
	if env == nil || len(env.Errors) == 0 {
		return
	}
	sort.Slice(env.Errors, func(i, j int) bool {
		ei, ej := env.Errors[i], env.Errors[j]
		if ei.Stage != ej.Stage {
			return ei.Stage < ej.Stage
		}
		if ei.Locator != ej.Locator {
			return ei.Locator < ej.Locator
		}
		return ei.Message < ej.Message
	})
}
