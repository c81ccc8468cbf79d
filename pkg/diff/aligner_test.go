package diff

import (
	"reflect"
	"strconv"
	"strings"
	"testing"
)

var aligners = []Aligner{
	Lookahead{},
	Lookahead{Window: 2},
	Myers{},
}

var alignPairs = []struct{ old, new string }{
	{"", ""},
	{"", "abc"},
	{"abc", ""},
	{"same", "same"},
	{"kitten", "sitting"},
	{"the quick fox", "the slow fox"},
	{"abcdef", "azcdxf"},
	{"hello world", "goodbye moon"},
	{"aaaa", "aa"},
	{"ab", "ba"},
	{"line one\nline two\n", "line one\nline 2\nline three\n"},
	{strings.Repeat("x", 30) + "y", "y" + strings.Repeat("x", 30)},
}

func TestAlignReconstructs(t *testing.T) {
	for _, a := range aligners {
		for _, g := range []Granularity{Character, Word} {
			for _, p := range alignPairs {
				al := a.Align(Tokenize(p.old, g), Tokenize(p.new, g))
				if got := al.Old(); got != p.old {
					t.Errorf("%s/%s: Old() = %q, want %q", a.Name(), g, got, p.old)
				}
				if got := al.New(); got != p.new {
					t.Errorf("%s/%s: New() = %q, want %q", a.Name(), g, got, p.new)
				}
			}
		}
	}
}

func TestAlignPairsOnlyEqualTokens(t *testing.T) {
	// Unchanged entries must be common to both sides in order: walking the
	// alignment and consuming old/new tokens must never disagree.
	for _, a := range aligners {
		for _, p := range alignPairs {
			old, new := Tokenize(p.old, Character), Tokenize(p.new, Character)
			i, j := 0, 0
			for _, e := range a.Align(old, new) {
				for _, tok := range e.Tokens {
					switch e.Class {
					case Unchanged:
						if old[i] != tok || new[j] != tok {
							t.Fatalf("%s %q->%q: unchanged %q pairs %q with %q", a.Name(), p.old, p.new, tok, old[i], new[j])
						}
						i++
						j++
					case Removed:
						if old[i] != tok {
							t.Fatalf("%s: removed %q, old has %q", a.Name(), tok, old[i])
						}
						i++
					case Inserted:
						if new[j] != tok {
							t.Fatalf("%s: inserted %q, new has %q", a.Name(), tok, new[j])
						}
						j++
					}
				}
			}
			if i != len(old) || j != len(new) {
				t.Errorf("%s %q->%q: consumed %d/%d old, %d/%d new", a.Name(), p.old, p.new, i, len(old), j, len(new))
			}
		}
	}
}

func TestAlignIdentity(t *testing.T) {
	for _, a := range aligners {
		text := "the quick brown fox"
		tokens := Tokenize(text, Word)
		al := a.Align(tokens, tokens)
		if len(al) != 1 || al[0].Class != Unchanged {
			t.Fatalf("%s: Align(x, x) = %v, want a single unchanged entry", a.Name(), al)
		}
		if !reflect.DeepEqual(al[0].Tokens, tokens) {
			t.Errorf("%s: unchanged tokens = %q, want %q", a.Name(), al[0].Tokens, tokens)
		}
	}
}

func TestAlignEmptySides(t *testing.T) {
	for _, a := range aligners {
		if al := a.Align(nil, nil); len(al) != 0 {
			t.Errorf("%s: Align(nil, nil) = %v, want empty", a.Name(), al)
		}

		al := a.Align(nil, Tokenize("abc", Character))
		if len(al) != 1 || al[0].Class != Inserted || al[0].Value() != "abc" {
			t.Errorf("%s: Align(\"\", abc) = %v, want single inserted entry", a.Name(), al)
		}

		al = a.Align(Tokenize("abc", Character), nil)
		if len(al) != 1 || al[0].Class != Removed || al[0].Value() != "abc" {
			t.Errorf("%s: Align(abc, \"\") = %v, want single removed entry", a.Name(), al)
		}
	}
}

func TestLookaheadKitten(t *testing.T) {
	al := Lookahead{}.Align(Tokenize("kitten", Character), Tokenize("sitting", Character))

	want := Alignment{
		{Class: Removed, Tokens: []Token{"k"}},
		{Class: Inserted, Tokens: []Token{"s"}},
		{Class: Unchanged, Tokens: []Token{"i", "t", "t"}},
		{Class: Removed, Tokens: []Token{"e"}},
		{Class: Inserted, Tokens: []Token{"i"}},
		{Class: Unchanged, Tokens: []Token{"n"}},
		{Class: Inserted, Tokens: []Token{"g"}},
	}
	if !reflect.DeepEqual(al, want) {
		t.Errorf("Align(kitten, sitting) =\n%v\nwant\n%v", al, want)
	}
}

func TestLookaheadResyncPrefersNearestMatch(t *testing.T) {
	// "xy" was inserted before "abc": the new side resynchronizes at k=2.
	al := Lookahead{}.Align(Tokenize("abc", Character), Tokenize("xyabc", Character))
	want := Alignment{
		{Class: Inserted, Tokens: []Token{"x", "y"}},
		{Class: Unchanged, Tokens: []Token{"a", "b", "c"}},
	}
	if !reflect.DeepEqual(al, want) {
		t.Errorf("Align(abc, xyabc) = %v, want %v", al, want)
	}

	// Equal distance on both sides: the lower current token is skipped.
	al = Lookahead{}.Align(Tokenize("ab", Character), Tokenize("ba", Character))
	want = Alignment{
		{Class: Removed, Tokens: []Token{"a"}},
		{Class: Unchanged, Tokens: []Token{"b"}},
		{Class: Inserted, Tokens: []Token{"a"}},
	}
	if !reflect.DeepEqual(al, want) {
		t.Errorf("Align(ab, ba) = %v, want %v", al, want)
	}
	al = Lookahead{}.Align(Tokenize("ba", Character), Tokenize("ab", Character))
	want = Alignment{
		{Class: Inserted, Tokens: []Token{"a"}},
		{Class: Unchanged, Tokens: []Token{"b"}},
		{Class: Removed, Tokens: []Token{"a"}},
	}
	if !reflect.DeepEqual(al, want) {
		t.Errorf("Align(ba, ab) = %v, want %v", al, want)
	}
}

func TestLookaheadWindowBound(t *testing.T) {
	old := Tokenize(strings.Repeat("x", 5)+"abc", Character)
	new := Tokenize("abc", Character)

	// Within the window the skipped run is removed and "abc" realigns.
	al := Lookahead{Window: 5}.Align(old, new)
	if s := Reduce(al); s.Removals != 5 || s.Additions != 0 {
		t.Errorf("window 5: stats = %+v, want {5 0}", s)
	}

	// A window too small to see "a" degrades to substitutions.
	al = Lookahead{Window: 2}.Align(old, new)
	if s := Reduce(al); s.Additions == 0 {
		t.Errorf("window 2: stats = %+v, want substitutions", s)
	}
	if al.Old() != Join(old) || al.New() != Join(new) {
		t.Error("window 2: reconstruction failed")
	}
}

func TestMyersMinimal(t *testing.T) {
	al := Myers{}.Align(Tokenize("abcdef", Character), Tokenize("abxdef", Character))
	want := Alignment{
		{Class: Unchanged, Tokens: []Token{"a", "b"}},
		{Class: Removed, Tokens: []Token{"c"}},
		{Class: Inserted, Tokens: []Token{"x"}},
		{Class: Unchanged, Tokens: []Token{"d", "e", "f"}},
	}
	if !reflect.DeepEqual(al, want) {
		t.Errorf("Myers.Align = %v, want %v", al, want)
	}
}

func TestMyersWords(t *testing.T) {
	old := Tokenize("one two three four", Word)
	new := Tokenize("one three four five", Word)
	al := Myers{}.Align(old, new)

	s := Reduce(al)
	if s.Removals != 2 || s.Additions != 2 {
		t.Errorf("stats = %+v, want {2 2} (\"two \" removed, \" five\" inserted)", s)
	}
}

func TestInternSkipsSurrogates(t *testing.T) {
	tokens := make([]Token, 0, surrogateMin+10)
	for i := 0; i < surrogateMin+10; i++ {
		tokens = append(tokens, Token(strconv.Itoa(i)))
	}
	runes, _, ok := intern(tokens, nil)
	if !ok {
		t.Fatal("intern failed")
	}
	for i, r := range runes {
		if r >= surrogateMin && r < surrogateMin+surrogateSpan {
			t.Fatalf("token %d interned as surrogate %U", i, r)
		}
	}
}

func TestNewAligner(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"", AlgorithmLookahead, false},
		{"lookahead", AlgorithmLookahead, false},
		{"MYERS", AlgorithmMyers, false},
		{"patience", "", true},
	}

	for _, tt := range tests {
		a, err := NewAligner(tt.name, 0)
		if (err != nil) != tt.wantErr {
			t.Errorf("NewAligner(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			continue
		}
		if err == nil && a.Name() != tt.want {
			t.Errorf("NewAligner(%q).Name() = %q, want %q", tt.name, a.Name(), tt.want)
		}
	}
}
