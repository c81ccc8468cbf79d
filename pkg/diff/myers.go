package diff

import (
	"time"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// maxInterned is the number of distinct tokens that fit in the rune space
// once the surrogate range is skipped.
const maxInterned = utf8.MaxRune + 1 - surrogateSpan

const (
	surrogateMin  = 0xD800
	surrogateSpan = 0x800
)

// Myers aligns tokens with the diff-match-patch implementation of Myers'
// O(ND) algorithm. Each distinct token is interned as a single rune so that
// the character differ operates on whole tokens.
type Myers struct {
	// Timeout bounds the search; zero means no limit.
	Timeout time.Duration
}

// Name returns AlgorithmMyers.
func (Myers) Name() string { return AlgorithmMyers }

// Align implements Aligner. Inputs with more distinct tokens than fit in the
// rune space fall back to the lookahead aligner.
func (m Myers) Align(old, new []Token) Alignment {
	oldRunes, newRunes, ok := intern(old, new)
	if !ok {
		return Lookahead{}.Align(old, new)
	}

	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = m.Timeout
	diffs := dmp.DiffMainRunes(oldRunes, newRunes, false)

	var b builder
	i, j := 0, 0
	for _, d := range diffs {
		n := utf8.RuneCountInString(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			b.add(Unchanged, old[i:i+n]...)
			i += n
			j += n
		case diffmatchpatch.DiffDelete:
			b.add(Removed, old[i:i+n]...)
			i += n
		case diffmatchpatch.DiffInsert:
			b.add(Inserted, new[j:j+n]...)
			j += n
		}
	}
	return b.finish()
}

// intern maps each distinct token to a unique rune, skipping surrogates so
// every rune survives the string round trip inside diffmatchpatch.
func intern(old, new []Token) ([]rune, []rune, bool) {
	ids := make(map[Token]rune)
	encode := func(tokens []Token) ([]rune, bool) {
		out := make([]rune, len(tokens))
		for i, t := range tokens {
			r, seen := ids[t]
			if !seen {
				n := len(ids)
				if n >= maxInterned {
					return nil, false
				}
				r = rune(n)
				if r >= surrogateMin {
					r += surrogateSpan
				}
				ids[t] = r
			}
			out[i] = r
		}
		return out, true
	}
	oldRunes, ok := encode(old)
	if !ok {
		return nil, nil, false
	}
	newRunes, ok := encode(new)
	if !ok {
		return nil, nil, false
	}
	return oldRunes, newRunes, true
}
