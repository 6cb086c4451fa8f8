package stage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yngtodd/tok/internal/vocab"
)

const writeVocabStage = "write-vocab"

func getVocabOutputSettings(meta *Meta) (outPath, format string) {
	outPath = "-"
	format = "tsv"
	if meta != nil && meta.Output != nil {
		if meta.Output.Out != "" {
			outPath = meta.Output.Out
		}
		if meta.Output.Format != "" {
			format = meta.Output.Format
		}
	}
	return
}

func writeTo(outPath string, data []byte) error {
	if outPath == "" || outPath == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if dir := filepath.Dir(outPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%s: %v", writeVocabStage, err)
		}
	}
	return os.WriteFile(outPath, data, 0o644)
}

// write-vocab: encode the built vocabulary (TSV or canonical YAML) and write
// it to the configured destination.
func writeVocabRunner(_ context.Context, in Envelope, _ Deps) (Envelope, error) {
	if in.Meta == nil || in.Meta.Vocab == nil {
		return Envelope{}, fmt.Errorf("%s: no vocabulary built", writeVocabStage)
	}
	v, err := vocab.FromEntries(in.Meta.Vocab.Entries)
	if err != nil {
		return Envelope{}, fmt.Errorf("%s: %v", writeVocabStage, err)
	}
	outPath, format := getVocabOutputSettings(in.Meta)
	var data []byte
	switch format {
	case "tsv":
		data = vocab.EncodeTSV(v)
	case "yaml":
		data, err = vocab.EncodeYAML(v)
		if err != nil {
			return Envelope{}, fmt.Errorf("%s: %v", writeVocabStage, err)
		}
	default:
		return Envelope{}, fmt.Errorf("%s: unsupported format: %s", writeVocabStage, format)
	}
	if err := writeTo(outPath, data); err != nil {
		return Envelope{}, err
	}
	return in, nil
}

func init() { Register(writeVocabStage, writeVocabRunner) }
