package vocab

import "fmt"

// Vocab is an ordered mapping from vocabulary terms to integer ids. Ids are
// dense and assigned in first-seen order starting at zero, so a vocabulary
// built twice from the same token stream is identical.
type Vocab struct {
	ids   map[string]int
	terms []string
}

// Entry is a single term/id pair with deterministic JSON field order.
type Entry struct {
	Term string `json:"term"`
	ID   int    `json:"id"`
}

// New returns an empty vocabulary.
func New() *Vocab {
	return &Vocab{ids: map[string]int{}}
}

// Build constructs a vocabulary from a token stream, assigning ids first-seen.
func Build(tokens []string) *Vocab {
	v := New()
	for _, tok := range tokens {
		v.Add(tok)
	}
	return v
}

// Add inserts a term and returns its id. Adding a known term is a no-op
// returning the existing id. Empty terms are rejected with id -1.
func (v *Vocab) Add(term string) int {
	if term == "" {
		return -1
	}
	if id, ok := v.ids[term]; ok {
		return id
	}
	id := len(v.terms)
	v.ids[term] = id
	v.terms = append(v.terms, term)
	return id
}

// ID returns the id for a term.
func (v *Vocab) ID(term string) (int, bool) {
	id, ok := v.ids[term]
	return id, ok
}

// Term returns the term for an id.
func (v *Vocab) Term(id int) (string, bool) {
	if id < 0 || id >= len(v.terms) {
		return "", false
	}
	return v.terms[id], true
}

// Size returns the number of vocabulary terms.
func (v *Vocab) Size() int {
	return len(v.terms)
}

// Terms returns all terms in id order. The returned slice is a copy.
func (v *Vocab) Terms() []string {
	out := make([]string, len(v.terms))
	copy(out, v.terms)
	return out
}

// Entries returns all entries in id order.
func (v *Vocab) Entries() []Entry {
	out := make([]Entry, len(v.terms))
	for i, t := range v.terms {
		out[i] = Entry{Term: t, ID: i}
	}
	return out
}

// FromEntries rebuilds a vocabulary from entries in any order. Ids must form
// the dense range 0..len-1 and terms must be unique and non-empty.
func FromEntries(entries []Entry) (*Vocab, error) {
	terms := make([]string, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if e.Term == "" {
			return nil, fmt.Errorf("empty term for id %d", e.ID)
		}
		if e.ID < 0 || e.ID >= len(entries) {
			return nil, fmt.Errorf("id %d out of range for %d entries", e.ID, len(entries))
		}
		if terms[e.ID] != "" {
			return nil, fmt.Errorf("duplicate id %d", e.ID)
		}
		if _, dup := seen[e.Term]; dup {
			return nil, fmt.Errorf("duplicate term: %s", e.Term)
		}
		seen[e.Term] = struct{}{}
		terms[e.ID] = e.Term
	}
	v := &Vocab{ids: make(map[string]int, len(terms)), terms: terms}
	for i, t := range terms {
		v.ids[t] = i
	}
	return v, nil
}
