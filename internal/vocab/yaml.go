package vocab

import (
	"bytes"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// EncodeYAML returns canonical YAML bytes for a vocabulary: a top-level
// mapping with "size" followed by "terms", a mapping from term to id with
// keys sorted lexicographically. Canonical node construction keeps the
// output byte-stable across runs.
func EncodeYAML(v *Vocab) ([]byte, error) {
	top := &yaml.Node{Kind: yaml.MappingNode}
	top.Content = append(top.Content, scalarNode("size"), intNode(v.Size()))
	top.Content = append(top.Content, scalarNode("terms"), termsNode(v))

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(top); err != nil {
		_ = enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	out := bytes.TrimRight(buf.Bytes(), "\n")
	out = append(out, '\n')
	return out, nil
}

// DecodeYAML parses a YAML vocabulary produced by EncodeYAML.
func DecodeYAML(data []byte) (*Vocab, error) {
	var doc struct {
		Size  int            `yaml:"size"`
		Terms map[string]int `yaml:"terms"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid vocabulary yaml: %w", err)
	}
	if doc.Size != len(doc.Terms) {
		return nil, fmt.Errorf("invalid vocabulary yaml: size %d does not match %d terms", doc.Size, len(doc.Terms))
	}
	entries := make([]Entry, 0, len(doc.Terms))
	for term, id := range doc.Terms {
		entries = append(entries, Entry{Term: term, ID: id})
	}
	v, err := FromEntries(entries)
	if err != nil {
		return nil, fmt.Errorf("invalid vocabulary yaml: %w", err)
	}
	return v, nil
}

func termsNode(v *Vocab) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode}
	terms := v.Terms()
	sort.Strings(terms)
	for _, t := range terms {
		id, _ := v.ID(t)
		n.Content = append(n.Content, scalarNode(t), intNode(id))
	}
	return n
}

func scalarNode(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

func intNode(v int) *yaml.Node {
	n := &yaml.Node{}
	_ = n.Encode(v)
	return n
}
