package build

import "github.com/yngtodd/tok/internal/stage"

const (
	exitCodeSuccess = 0
	exitCodeExecErr = 1
)

type buildExitError struct {
	code int
	msg  string
}

func (e buildExitError) Error() string { return e.msg }
func (e buildExitError) ExitCode() int { return e.code }

func keepGoingMode(meta *stage.Meta) bool {
	return meta != nil && meta.Errors != nil && meta.Errors.Mode == "keep-going"
}

// countRecordResults classifies records as failed when they carry an embedded
// error or when an envelope error names their locator. Envelope errors are
// consulted so exit accounting does not depend on errors.embedErrors, which
// only controls whether failures show up inside the records themselves.
func countRecordResults(env stage.Envelope) (successes int, failures int) {
	failed := make(map[string]bool, len(env.Errors))
	for _, e := range env.Errors {
		if e.Locator != "" {
			failed[e.Locator] = true
		}
	}
	for _, r := range env.Records {
		if r.Error != nil || failed[r.Locator] {
			failures++
		} else {
			successes++
		}
	}
	return
}

// evaluateBuildExit maps the final envelope onto an exit decision. In
// fail-fast mode errors already aborted the pipeline; in keep-going mode a
// build with no surviving records is a failure.
func evaluateBuildExit(env stage.Envelope) error {
	if !keepGoingMode(env.Meta) {
		return nil
	}
	successes, failures := countRecordResults(env)
	if failures == 0 && len(env.Errors) == 0 {
		return nil
	}
	if successes > 0 {
		return nil
	}
	return buildExitError{code: exitCodeExecErr, msg: "keep-going: no successful records"}
}
