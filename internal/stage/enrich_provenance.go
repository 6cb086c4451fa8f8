package stage

import (
	"context"
	"errors"
	"fmt"

	git "github.com/go-git/go-git/v5"
)

const enrichProvenanceStage = "enrich-provenance"

var (
	errGitRepoNotFound   = errors.New("git repo not found")
	errGitHeadUnresolved = errors.New("git head unresolved")
)

// lookupHead opens the repository containing root and resolves HEAD.
func lookupHead(root string) (commit string, branch string, err error) {
	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", "", errGitRepoNotFound
	}
	head, err := repo.Head()
	if err != nil {
		return "", "", errGitHeadUnresolved
	}
	commit = head.Hash().String()
	if head.Name().IsBranch() {
		branch = head.Name().Short()
	}
	return commit, branch, nil
}

func enrichProvenanceError(err error) string {
	switch {
	case errors.Is(err, errGitRepoNotFound):
		return "git repo not found"
	case errors.Is(err, errGitHeadUnresolved):
		return "git head unresolved"
	default:
		return "git error"
	}
}

// enrich-provenance: record the corpus HEAD commit in the envelope so build
// reports can tie a vocabulary to the exact corpus state.
func enrichProvenanceRunner(_ context.Context, in Envelope, _ Deps) (Envelope, error) {
	if in.Meta == nil || in.Meta.Provenance == nil || !in.Meta.Provenance.Git {
		return in, nil
	}
	mode, _ := errorMode(in.Meta)
	root := determineRoot(in)
	commit, branch, err := lookupHead(root)
	if err != nil {
		msg := sanitizeErrorMessage(enrichProvenanceError(err))
		if mode == "keep-going" {
			out := in
			appendEnvelopeError(&out, enrichProvenanceStage, "", msg)
			return out, nil
		}
		return Envelope{}, fmt.Errorf("%s: %s", enrichProvenanceStage, msg)
	}
	out := in
	prov := *in.Meta.Provenance
	prov.Commit = commit
	prov.Branch = branch
	out.Meta.Provenance = &prov
	return out, nil
}

func init() { Register(enrichProvenanceStage, enrichProvenanceRunner) }
