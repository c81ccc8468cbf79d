package diff

import (
	"fmt"
	"strings"
)

// Stats counts changed tokens in an alignment.
type Stats struct {
	Removals  int `json:"removals"`
	Additions int `json:"additions"`
}

// Reduce counts Removed and Inserted tokens in a.
func Reduce(a Alignment) Stats {
	var s Stats
	for _, e := range a {
		switch e.Class {
		case Removed:
			s.Removals += len(e.Tokens)
		case Inserted:
			s.Additions += len(e.Tokens)
		}
	}
	return s
}

// Identical reports whether no tokens changed.
func (s Stats) Identical() bool {
	return s.Removals == 0 && s.Additions == 0
}

// Summary formats the stats for display, e.g. "− 2 removals  + 1 addition".
func (s Stats) Summary() string {
	if s.Identical() {
		return "No differences found"
	}
	var parts []string
	if s.Removals > 0 {
		parts = append(parts, fmt.Sprintf("− %d %s", s.Removals, plural(s.Removals, "removal")))
	}
	if s.Additions > 0 {
		parts = append(parts, fmt.Sprintf("+ %d %s", s.Additions, plural(s.Additions, "addition")))
	}
	return strings.Join(parts, "  ")
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
