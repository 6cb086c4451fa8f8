package stage

import (
	"bytes"
	"context"
	"encoding/json"
)

const writeReportStage = "write-report"

// reportFile is a per-file summary with deterministic JSON field order.
type reportFile struct {
	Locator string    `json:"locator"`
	Tokens  int       `json:"tokens"`
	Error   *RecError `json:"error,omitempty"`
}

// report is the aggregate build report.
type report struct {
	ContractVersion string          `json:"contractVersion"`
	Files           []reportFile    `json:"files"`
	VocabSize       int             `json:"vocabSize"`
	Provenance      *ProvenanceMeta `json:"provenance,omitempty"`
	Errors          []Error         `json:"errors,omitempty"`
}

func getReportSettings(meta *Meta) (enabled bool, outPath string, pretty bool) {
	outPath = "-"
	if meta != nil && meta.Report != nil {
		enabled = meta.Report.Enabled
		if meta.Report.Out != "" {
			outPath = meta.Report.Out
		}
		pretty = meta.Report.Pretty
	}
	return
}

func encodeJSONCompact(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeJSONPretty(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, b, "", "  "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

func buildReport(in Envelope) report {
	rep := report{ContractVersion: "1", Files: make([]reportFile, 0, len(in.Records))}
	for _, r := range in.Records {
		rep.Files = append(rep.Files, reportFile{Locator: r.Locator, Tokens: len(r.Tokens), Error: r.Error})
	}
	if in.Meta != nil {
		if in.Meta.Vocab != nil {
			rep.VocabSize = in.Meta.Vocab.Size
		}
		if in.Meta.Provenance != nil && in.Meta.Provenance.Git {
			rep.Provenance = in.Meta.Provenance
		}
	}
	rep.Errors = in.Errors
	return rep
}

// write-report: emit a JSON build summary, one object per run.
func writeReportRunner(_ context.Context, in Envelope, _ Deps) (Envelope, error) {
	enabled, outPath, pretty := getReportSettings(in.Meta)
	if !enabled {
		return in, nil
	}
	env := in
	SortEnvelopeErrors(&env)
	rep := buildReport(env)

	var data []byte
	var err error
	if pretty {
		data, err = encodeJSONPretty(rep)
	} else {
		data, err = encodeJSONCompact(rep)
	}
	if err != nil {
		return Envelope{}, err
	}
	if err := writeTo(outPath, data); err != nil {
		return Envelope{}, err
	}
	return in, nil
}

func init() { Register(writeReportStage, writeReportRunner) }
