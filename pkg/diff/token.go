package diff

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/clipperhouse/uax29/v2/graphemes"

	apperrors "github.com/matzehuels/sidediff/pkg/errors"
)

// Granularity selects the unit of comparison.
type Granularity string

const (
	// Character compares user-perceived characters (grapheme clusters).
	Character Granularity = "character"

	// Word compares maximal runs of word characters and the separator runs
	// between them.
	Word Granularity = "word"
)

// DefaultGranularity is used when no granularity is configured.
const DefaultGranularity = Character

// Granularities lists the canonical granularity names.
var Granularities = []string{string(Character), string(Word)}

// ParseGranularity converts a name ("character", "char", "word") to a Granularity.
func ParseGranularity(s string) (Granularity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "character", "char", "chars":
		return Character, nil
	case "word", "words":
		return Word, nil
	}
	return "", apperrors.ValidateGranularity(s, Granularities)
}

// Token is the smallest unit compared by an Aligner.
type Token string

// Tokenize splits text into tokens at granularity g. The tokens cover text
// with no gaps or overlaps, so concatenating them reproduces text exactly.
// An empty text yields no tokens.
func Tokenize(text string, g Granularity) []Token {
	if text == "" {
		return nil
	}
	if g == Word {
		return tokenizeWords(text)
	}
	return tokenizeCharacters(text)
}

func tokenizeCharacters(text string) []Token {
	tokens := make([]Token, 0, utf8.RuneCountInString(text))
	iter := graphemes.FromString(text)
	for iter.Next() {
		tokens = append(tokens, Token(iter.Value()))
	}
	return tokens
}

func tokenizeWords(text string) []Token {
	var tokens []Token
	start := 0
	inWord := false
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		w := isWordRune(r, size)
		if i > start && w != inWord {
			tokens = append(tokens, Token(text[start:i]))
			start = i
		}
		inWord = w
		i += size
	}
	return append(tokens, Token(text[start:]))
}

// isWordRune reports whether r is word-constituent. Invalid UTF-8 bytes
// decode as RuneError with size 1 and count as separators.
func isWordRune(r rune, size int) bool {
	if r == utf8.RuneError && size <= 1 {
		return false
	}
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

// Join concatenates tokens back into text.
func Join(tokens []Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(string(t))
	}
	return b.String()
}
