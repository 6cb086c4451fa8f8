package tokenizer

import (
	"strings"
	"unicode"
)

// Options controls how raw text is split into tokens.
type Options struct {
	// KeepCase disables the default lowercasing of tokens.
	KeepCase bool
	// MinLength drops tokens shorter than this many runes. Zero means no minimum.
	MinLength int
}

// Split tokenizes raw text: the text is split on every rune that is neither a
// letter, a digit, nor an apostrophe, empty pieces are dropped, and tokens are
// lowercased. Apostrophes are kept so contractions survive as single tokens
// ("don't" stays "don't").
func Split(text string) []string {
	return SplitWith(text, Options{})
}

// SplitWith tokenizes raw text using the given options.
func SplitWith(text string, opts Options) []string {
	pieces := strings.FieldsFunc(text, func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'')
	})
	tokens := make([]string, 0, len(pieces))
	for _, p := range pieces {
		if opts.MinLength > 0 && runeLen(p) < opts.MinLength {
			continue
		}
		if !opts.KeepCase {
			p = strings.ToLower(p)
		}
		tokens = append(tokens, p)
	}
	return tokens
}

func runeLen(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}
