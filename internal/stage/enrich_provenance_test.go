package stage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func initGitRepo(t *testing.T, dir string) string {
	t.Helper()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hello"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	if _, err := wt.Add("a.txt"); err != nil {
		t.Fatalf("add: %v", err)
	}
	hash, err := wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Unix(0, 0)},
	})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	return hash.String()
}

func TestEnrichProvenance_DisabledPassthrough(t *testing.T) {
	in := Envelope{Records: []Record{{Locator: "a.txt"}}}
	out, err := enrichProvenanceRunner(context.Background(), in, Deps{})
	if err != nil {
		t.Fatalf("enrich-provenance: %v", err)
	}
	if out.Meta != nil && out.Meta.Provenance != nil && out.Meta.Provenance.Commit != "" {
		t.Fatal("disabled stage should not fill provenance")
	}
}

func TestEnrichProvenance_ResolvesHead(t *testing.T) {
	dir := t.TempDir()
	want := initGitRepo(t, dir)
	in := Envelope{Meta: &Meta{
		Corpus:     &CorpusMeta{Root: dir},
		Provenance: &ProvenanceMeta{Git: true},
	}}
	out, err := enrichProvenanceRunner(context.Background(), in, Deps{})
	if err != nil {
		t.Fatalf("enrich-provenance: %v", err)
	}
	if out.Meta.Provenance.Commit != want {
		t.Fatalf("commit = %q, want %q", out.Meta.Provenance.Commit, want)
	}
	if out.Meta.Provenance.Branch == "" {
		t.Fatal("expected a branch name")
	}
}

func TestEnrichProvenance_NoRepoFailFast(t *testing.T) {
	in := Envelope{Meta: &Meta{
		Corpus:     &CorpusMeta{Root: t.TempDir()},
		Provenance: &ProvenanceMeta{Git: true},
	}}
	if _, err := enrichProvenanceRunner(context.Background(), in, Deps{}); err == nil {
		t.Fatal("expected error without a git repo")
	}
}

func TestEnrichProvenance_NoRepoKeepGoing(t *testing.T) {
	in := Envelope{Meta: &Meta{
		Corpus:     &CorpusMeta{Root: t.TempDir()},
		Provenance: &ProvenanceMeta{Git: true},
		Errors:     &ErrorsMeta{Mode: "keep-going"},
	}}
	out, err := enrichProvenanceRunner(context.Background(), in, Deps{})
	if err != nil {
		t.Fatalf("enrich-provenance: %v", err)
	}
	if len(out.Errors) != 1 || out.Errors[0].Stage != enrichProvenanceStage {
		t.Fatalf("errors = %+v", out.Errors)
	}
}
