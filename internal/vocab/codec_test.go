package vocab

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestEncodeTSV_Canonical(t *testing.T) {
	v := Build([]string{"hello", "world", "hello"})
	got := string(EncodeTSV(v))
	want := "hello\t0\nworld\t1\n"
	if got != want {
		t.Fatalf("unexpected tsv\nwant:\n%s\ngot:\n%s", want, got)
	}
}

func TestDecodeTSV_RoundTripAndShuffledOrder(t *testing.T) {
	in := "sat\t2\nthe\t0\ncat\t1\n"
	v, err := DecodeTSV([]byte(in))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []string{"the", "cat", "sat"}
	if got := v.Terms(); !reflect.DeepEqual(got, want) {
		t.Fatalf("terms = %v, want %v", got, want)
	}
	if got := string(EncodeTSV(v)); got != "the\t0\ncat\t1\nsat\t2\n" {
		t.Fatalf("re-encode not canonical: %q", got)
	}
}

func TestDecodeTSV_Errors(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"missing id", "term\n", "missing token id"},
		{"missing term", "\t3\n", "missing term"},
		{"bad id", "term\tx\n", "invalid token id"},
		{"duplicate term", "a\t0\na\t1\n", "duplicate term"},
		{"sparse ids", "a\t0\nb\t5\n", "out of range"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeTSV([]byte(tc.in))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestEncodeYAML_CanonicalSortedKeys(t *testing.T) {
	v := Build([]string{"zebra", "apple", "mango"})
	b, err := EncodeYAML(v)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := "size: 3\nterms:\n  apple: 1\n  mango: 2\n  zebra: 0\n"
	if string(b) != want {
		t.Fatalf("unexpected canonical yaml\nwant:\n%s\ngot:\n%s", want, string(b))
	}
}

func TestDecodeYAML_RoundTrip(t *testing.T) {
	v := Build([]string{"one", "two", "three"})
	b, err := EncodeYAML(v)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	back, err := DecodeYAML(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(back.Terms(), v.Terms()) {
		t.Fatalf("terms = %v, want %v", back.Terms(), v.Terms())
	}
}

func TestDecodeYAML_SizeMismatch(t *testing.T) {
	_, err := DecodeYAML([]byte("size: 2\nterms:\n  only: 0\n"))
	if err == nil || !strings.Contains(err.Error(), "does not match") {
		t.Fatalf("expected size mismatch error, got %v", err)
	}
}

func TestLoadFile_DetectsFormat(t *testing.T) {
	dir := t.TempDir()
	v := Build([]string{"a", "b"})

	tsvPath := filepath.Join(dir, "vocab.tsv")
	if err := WriteFile(tsvPath, EncodeTSV(v)); err != nil {
		t.Fatalf("write tsv: %v", err)
	}
	yb, err := EncodeYAML(v)
	if err != nil {
		t.Fatalf("encode yaml: %v", err)
	}
	yamlPath := filepath.Join(dir, "vocab.yaml")
	if err := WriteFile(yamlPath, yb); err != nil {
		t.Fatalf("write yaml: %v", err)
	}

	for _, path := range []string{tsvPath, yamlPath} {
		got, err := LoadFile(path, "auto")
		if err != nil {
			t.Fatalf("load %s: %v", path, err)
		}
		if got.Size() != 2 {
			t.Fatalf("load %s: size = %d, want 2", path, got.Size())
		}
	}
}

func TestWriteFile_CreatesParentDirs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "deep", "vocab.tsv")
	if err := WriteFile(path, []byte("a\t0\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("stat: %v", err)
	}
}
