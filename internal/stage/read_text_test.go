package stage

import (
	"context"
	"strings"
	"testing"
)

func TestReadTextRunner_ReadsFiles(t *testing.T) {
	root := t.TempDir()
	writeCorpusFile(t, root, "a.txt", "hello there")
	in := Envelope{
		Records: []Record{{Locator: "a.txt"}},
		Meta:    &Meta{Corpus: &CorpusMeta{Root: root}},
	}
	out, err := readTextRunner(context.Background(), in, Deps{})
	if err != nil {
		t.Fatalf("read-text: %v", err)
	}
	if out.Records[0].Text != "hello there" {
		t.Fatalf("text = %q", out.Records[0].Text)
	}
}

func TestReadTextRunner_MissingFileFailFast(t *testing.T) {
	in := Envelope{
		Records: []Record{{Locator: "missing.txt"}},
		Meta:    &Meta{Corpus: &CorpusMeta{Root: t.TempDir()}},
	}
	_, err := readTextRunner(context.Background(), in, Deps{})
	if err == nil || !strings.Contains(err.Error(), readTextStage) {
		t.Fatalf("expected fail-fast error, got %v", err)
	}
}

func TestReadTextRunner_MissingFileKeepGoing(t *testing.T) {
	root := t.TempDir()
	writeCorpusFile(t, root, "ok.txt", "fine")
	in := Envelope{
		Records: []Record{{Locator: "missing.txt"}, {Locator: "ok.txt"}},
		Meta: &Meta{
			Corpus: &CorpusMeta{Root: root},
			Errors: &ErrorsMeta{Mode: "keep-going", EmbedErrors: true},
		},
	}
	out, err := readTextRunner(context.Background(), in, Deps{})
	if err != nil {
		t.Fatalf("read-text: %v", err)
	}
	if out.Records[0].Error == nil {
		t.Fatal("expected embedded error on missing file")
	}
	if out.Records[1].Text != "fine" {
		t.Fatalf("text = %q", out.Records[1].Text)
	}
	if len(out.Errors) != 1 || out.Errors[0].Locator != "missing.txt" {
		t.Fatalf("errors = %+v", out.Errors)
	}
}

func TestReadTextRunner_RejectsInvalidUTF8(t *testing.T) {
	root := t.TempDir()
	writeCorpusFile(t, root, "bin.txt", string([]byte{0xff, 0xfe, 0x00}))
	in := Envelope{
		Records: []Record{{Locator: "bin.txt"}},
		Meta:    &Meta{Corpus: &CorpusMeta{Root: root}},
	}
	_, err := readTextRunner(context.Background(), in, Deps{})
	if err == nil || !strings.Contains(err.Error(), "utf-8") {
		t.Fatalf("expected utf-8 error, got %v", err)
	}
}
