package diff

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Classification describes how a token relates the two texts.
type Classification int

const (
	// Unchanged tokens appear in both texts.
	Unchanged Classification = iota
	// Removed tokens appear only in the old text.
	Removed
	// Inserted tokens appear only in the new text.
	Inserted
)

var classNames = [...]string{
	Unchanged: "unchanged",
	Removed:   "removed",
	Inserted:  "inserted",
}

func (c Classification) String() string {
	if c < 0 || int(c) >= len(classNames) {
		return fmt.Sprintf("Classification(%d)", int(c))
	}
	return classNames[c]
}

// MarshalText encodes c by name.
func (c Classification) MarshalText() ([]byte, error) {
	if c < 0 || int(c) >= len(classNames) {
		return nil, fmt.Errorf("invalid classification %d", int(c))
	}
	return []byte(classNames[c]), nil
}

// UnmarshalText decodes a classification name.
func (c *Classification) UnmarshalText(b []byte) error {
	for i, name := range classNames {
		if string(b) == name {
			*c = Classification(i)
			return nil
		}
	}
	return fmt.Errorf("unknown classification %q", b)
}

// Entry is a run of consecutive tokens sharing one classification.
type Entry struct {
	Class  Classification
	Tokens []Token
}

// Value returns the entry's text.
func (e Entry) Value() string {
	return Join(e.Tokens)
}

type jsonEntry struct {
	Class  Classification `json:"class"`
	Value  string         `json:"value"`
	Tokens []Token        `json:"tokens"`
}

// MarshalJSON includes the concatenated value alongside the tokens.
func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonEntry{Class: e.Class, Value: e.Value(), Tokens: e.Tokens})
}

// UnmarshalJSON restores an entry written by MarshalJSON.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var je jsonEntry
	if err := json.Unmarshal(data, &je); err != nil {
		return err
	}
	e.Class = je.Class
	e.Tokens = je.Tokens
	return nil
}

// Alignment is the ordered classification of all tokens from both texts.
type Alignment []Entry

// Old reconstructs the old text from Unchanged and Removed entries.
func (a Alignment) Old() string {
	return a.side(Removed)
}

// New reconstructs the new text from Unchanged and Inserted entries.
func (a Alignment) New() string {
	return a.side(Inserted)
}

func (a Alignment) side(changed Classification) string {
	var b strings.Builder
	for _, e := range a {
		if e.Class == Unchanged || e.Class == changed {
			for _, t := range e.Tokens {
				b.WriteString(string(t))
			}
		}
	}
	return b.String()
}

// Invert swaps Removed and Inserted, describing the comparison in the
// opposite direction. Within each change run removals still lead.
func (a Alignment) Invert() Alignment {
	var b builder
	for _, e := range a {
		switch e.Class {
		case Removed:
			b.add(Inserted, e.Tokens...)
		case Inserted:
			b.add(Removed, e.Tokens...)
		default:
			b.add(Unchanged, e.Tokens...)
		}
	}
	return b.finish()
}

// Identical reports whether the alignment contains no changes.
func (a Alignment) Identical() bool {
	for _, e := range a {
		if e.Class != Unchanged {
			return false
		}
	}
	return true
}

// builder accumulates classified tokens into an Alignment. Consecutive
// tokens of one class are grouped, and within a run of changes all removed
// tokens are emitted before all inserted tokens.
type builder struct {
	out       Alignment
	unchanged []Token
	removed   []Token
	inserted  []Token
}

func (b *builder) add(c Classification, tokens ...Token) {
	if len(tokens) == 0 {
		return
	}
	switch c {
	case Unchanged:
		b.flushChanges()
		b.unchanged = append(b.unchanged, tokens...)
	case Removed:
		b.flushUnchanged()
		b.removed = append(b.removed, tokens...)
	case Inserted:
		b.flushUnchanged()
		b.inserted = append(b.inserted, tokens...)
	}
}

func (b *builder) flushUnchanged() {
	if len(b.unchanged) > 0 {
		b.out = append(b.out, Entry{Class: Unchanged, Tokens: b.unchanged})
		b.unchanged = nil
	}
}

func (b *builder) flushChanges() {
	if len(b.removed) > 0 {
		b.out = append(b.out, Entry{Class: Removed, Tokens: b.removed})
		b.removed = nil
	}
	if len(b.inserted) > 0 {
		b.out = append(b.out, Entry{Class: Inserted, Tokens: b.inserted})
		b.inserted = nil
	}
}

func (b *builder) finish() Alignment {
	b.flushUnchanged()
	b.flushChanges()
	return b.out
}
