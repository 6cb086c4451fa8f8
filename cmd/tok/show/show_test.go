package show

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeVocabTSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vocab.tsv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func runShow(t *testing.T, args []string) (string, error) {
	t.Helper()
	oldFormat, oldTerm, oldJSON := flagFormat, flagTerm, flagJSON
	defer func() { flagFormat, flagTerm, flagJSON = oldFormat, oldTerm, oldJSON }()
	flagFormat, flagTerm, flagJSON = "auto", "", false
	if err := Cmd.Flags().Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	rest := Cmd.Flags().Args()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	oldStdout := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = oldStdout }()

	runErr := Cmd.RunE(Cmd, rest)
	_ = w.Close()
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return string(got), runErr
}

func TestShow_PrintsEntriesInIDOrder(t *testing.T) {
	path := writeVocabTSV(t, "world\t1\nhello\t0\n")
	got, err := runShow(t, []string{path})
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	want := "  KEY: hello, VALUE: 0\n  KEY: world, VALUE: 1\n"
	if got != want {
		t.Fatalf("unexpected output\nwant:\n%s\ngot:\n%s", want, got)
	}
}

func TestShow_TermLookup(t *testing.T) {
	path := writeVocabTSV(t, "hello\t0\nworld\t1\n")
	got, err := runShow(t, []string{"--term", "world", path})
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if got != "1\n" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestShow_TermNotFound(t *testing.T) {
	path := writeVocabTSV(t, "hello\t0\n")
	_, err := runShow(t, []string{"--term", "absent", path})
	if err == nil || !strings.Contains(err.Error(), "term not found") {
		t.Fatalf("expected lookup error, got %v", err)
	}
}

func TestShow_JSONEntries(t *testing.T) {
	path := writeVocabTSV(t, "hello\t0\n")
	got, err := runShow(t, []string{"--json", path})
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(got, `"term": "hello"`) || !strings.Contains(got, `"id": 0`) {
		t.Fatalf("unexpected json: %q", got)
	}
}

func TestShow_MissingFile(t *testing.T) {
	_, err := runShow(t, []string{filepath.Join(t.TempDir(), "absent.tsv")})
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
