package vocab

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// EncodeTSV returns the vocabulary as one "term<TAB>id" line per entry, in id
// order. Output is deterministic for a given vocabulary.
func EncodeTSV(v *Vocab) []byte {
	var buf bytes.Buffer
	for i, term := range v.terms {
		buf.WriteString(term)
		buf.WriteByte('\t')
		buf.WriteString(strconv.Itoa(i))
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// DecodeTSV parses a TSV vocabulary. Lines may appear in any id order; blank
// lines are ignored.
func DecodeTSV(data []byte) (*Vocab, error) {
	lines := strings.Split(string(data), "\n")
	var entries []Entry
	for n, line := range lines {
		if line == "" {
			continue
		}
		term, idStr, ok := strings.Cut(line, "\t")
		if !ok {
			return nil, fmt.Errorf("line %d: missing token id", n+1)
		}
		if term == "" {
			return nil, fmt.Errorf("line %d: missing term", n+1)
		}
		id, err := strconv.Atoi(strings.TrimSpace(idStr))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid token id: %q", n+1, idStr)
		}
		entries = append(entries, Entry{Term: term, ID: id})
	}
	v, err := FromEntries(entries)
	if err != nil {
		return nil, fmt.Errorf("invalid vocabulary: %w", err)
	}
	return v, nil
}

// WriteFile writes encoded vocabulary bytes to path, creating parent directories.
func WriteFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadFile reads a vocabulary from path, detecting the format from the
// extension unless format is "tsv" or "yaml" explicitly.
func LoadFile(path, format string) (*Vocab, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vocabulary: %w", err)
	}
	switch format {
	case "tsv":
		return DecodeTSV(data)
	case "yaml":
		return DecodeYAML(data)
	case "", "auto":
		switch filepath.Ext(path) {
		case ".yaml", ".yml":
			return DecodeYAML(data)
		default:
			return DecodeTSV(data)
		}
	default:
		return nil, fmt.Errorf("unsupported vocabulary format: %s", format)
	}
}
