package stage

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

const discoverCorpusStage = "discover-corpus-files"

// defaultExtensions are scanned when the config does not list any.
var defaultExtensions = []string{".txt", ".md"}

// discover-corpus-files: find corpus files under root (gitignore respected),
// filtered by extension, as sorted deterministic locators.
func discoverCorpusFilesRunner(ctx context.Context, in Envelope, deps Deps) (Envelope, error) {
	root := determineRoot(in)
	noGitignore := false
	extensions := defaultExtensions
	if in.Meta != nil && in.Meta.Corpus != nil {
		noGitignore = in.Meta.Corpus.NoGitignore
		if len(in.Meta.Corpus.Extensions) > 0 {
			extensions = in.Meta.Corpus.Extensions
		}
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return Envelope{}, err
	}
	var locators []string
	err = filepath.WalkDir(absRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == absRoot {
			return nil
		}
		rel, err := filepath.Rel(absRoot, p)
		if err != nil {
			return err
		}
		isDir := d.IsDir()
		if !noGitignore {
			if matchIgnore(absRoot, rel, isDir) {
				if isDir {
					return fs.SkipDir
				}
				return nil
			}
		}
		if isDir {
			return nil
		}
		if d.Name() == ".gitignore" {
			return nil
		}
		if !matchesExtension(d.Name(), extensions) {
			return nil
		}
		locators = append(locators, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return Envelope{}, err
	}
	sort.Strings(locators)
	out := in
	out.Records = make([]Record, 0, len(locators))
	for _, l := range locators {
		out.Records = append(out.Records, Record{Locator: l})
	}
	return out, nil
}

func matchesExtension(name string, extensions []string) bool {
	for _, ext := range extensions {
		if ext == "*" {
			return true
		}
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// determineRoot resolves the corpus root from envelope meta, defaulting to ".".
func determineRoot(in Envelope) string {
	if in.Meta != nil && in.Meta.Corpus != nil && in.Meta.Corpus.Root != "" {
		return in.Meta.Corpus.Root
	}
	return "."
}

func init() { Register(discoverCorpusStage, discoverCorpusFilesRunner) }
