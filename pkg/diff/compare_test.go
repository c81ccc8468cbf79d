package diff

import (
	"math/rand"
	"reflect"
	"testing"
)

func TestCompareReconstructsViews(t *testing.T) {
	for _, g := range []Granularity{Character, Word} {
		for _, p := range alignPairs {
			res := Compare(p.old, p.new, WithGranularity(g))
			if got := res.Views.Text(SideOld); got != p.old {
				t.Errorf("%s: old view = %q, want %q", g, got, p.old)
			}
			if got := res.Views.Text(SideNew); got != p.new {
				t.Errorf("%s: new view = %q, want %q", g, got, p.new)
			}
		}
	}
}

func TestCompareIdentity(t *testing.T) {
	text := "identical input, twice"
	for _, g := range []Granularity{Character, Word} {
		res := Compare(text, text, WithGranularity(g))
		if !res.Stats.Identical() {
			t.Errorf("%s: stats = %+v, want zero", g, res.Stats)
		}
		if !res.Alignment.Identical() {
			t.Errorf("%s: alignment has changes: %v", g, res.Alignment)
		}
		if !reflect.DeepEqual(res.Alignment[0].Tokens, Tokenize(text, g)) {
			t.Errorf("%s: unchanged tokens differ from Tokenize", g)
		}
	}
}

func TestCompareSymmetry(t *testing.T) {
	pairs := []struct{ old, new string }{
		{"", "abc"},
		{"kitten", "sitting"},
		{"the quick fox", "the slow fox"},
		{"abc", "xyabc"},
		{"ab", "ba"},
		{"abcd", "badc"},
		{"one two", "two one"},
	}
	for _, p := range pairs {
		for _, g := range []Granularity{Character, Word} {
			checkSymmetric(t, p.old, p.new, g)
		}
	}
}

func TestCompareSymmetryRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	alphabet := []rune("ab c.")
	random := func() string {
		r := make([]rune, rng.Intn(12))
		for i := range r {
			r[i] = alphabet[rng.Intn(len(alphabet))]
		}
		return string(r)
	}
	for n := 0; n < 500; n++ {
		old, new := random(), random()
		for _, g := range []Granularity{Character, Word} {
			checkSymmetric(t, old, new, g)
		}
	}
}

func checkSymmetric(t *testing.T, old, new string, g Granularity) {
	t.Helper()
	forward := Compare(old, new, WithGranularity(g))
	backward := Compare(new, old, WithGranularity(g))

	if got := backward.Alignment.Invert(); !reflect.DeepEqual(got, forward.Alignment) {
		t.Errorf("%s %q/%q: inverted backward alignment = %v, want %v", g, old, new, got, forward.Alignment)
	}
	if forward.Stats.Removals != backward.Stats.Additions || forward.Stats.Additions != backward.Stats.Removals {
		t.Errorf("%s %q/%q: stats %+v and %+v are not swapped", g, old, new, forward.Stats, backward.Stats)
	}
}

func TestCompareEmptyOld(t *testing.T) {
	res := Compare("", "abc", WithGranularity(Character))
	if res.Stats != (Stats{Removals: 0, Additions: 3}) {
		t.Errorf("stats = %+v, want {0 3}", res.Stats)
	}
	if len(res.Alignment) != 1 || res.Alignment[0].Class != Inserted || res.Alignment[0].Value() != "abc" {
		t.Errorf("alignment = %v, want all of abc inserted", res.Alignment)
	}
	if len(res.Views.Old) != 0 {
		t.Errorf("old view = %v, want empty", res.Views.Old)
	}
}

func TestCompareEmptyBoth(t *testing.T) {
	res := Compare("", "")
	if len(res.Alignment) != 0 {
		t.Errorf("alignment = %v, want empty", res.Alignment)
	}
	if res.Stats != (Stats{}) {
		t.Errorf("stats = %+v, want zero", res.Stats)
	}
}

func TestCompareKittenSitting(t *testing.T) {
	for _, a := range aligners {
		res := Compare("kitten", "sitting", WithAligner(a))
		if res.Stats.Removals < 1 || res.Stats.Additions < 1 {
			t.Errorf("%s: stats = %+v, want at least one removal and addition", a.Name(), res.Stats)
		}
		if res.Alignment.Old() != "kitten" || res.Alignment.New() != "sitting" {
			t.Errorf("%s: reconstruction failed", a.Name())
		}
	}
}

func TestCompareWordScenario(t *testing.T) {
	for _, a := range aligners {
		res := Compare("the quick fox", "the slow fox", WithGranularity(Word), WithAligner(a))

		var removed, inserted, unchanged []string
		for _, e := range res.Alignment {
			switch e.Class {
			case Removed:
				removed = append(removed, e.Value())
			case Inserted:
				inserted = append(inserted, e.Value())
			case Unchanged:
				unchanged = append(unchanged, e.Value())
			}
		}
		if !reflect.DeepEqual(removed, []string{"quick"}) {
			t.Errorf("%s: removed = %q, want [quick]", a.Name(), removed)
		}
		if !reflect.DeepEqual(inserted, []string{"slow"}) {
			t.Errorf("%s: inserted = %q, want [slow]", a.Name(), inserted)
		}
		if !reflect.DeepEqual(unchanged, []string{"the ", " fox"}) {
			t.Errorf("%s: unchanged = %q, want [\"the \" \" fox\"]", a.Name(), unchanged)
		}
	}
}

func TestCompareMaxTokens(t *testing.T) {
	res := Compare("abcdef", "abcxyz", WithMaxTokens(4))
	if !res.Truncated {
		t.Fatal("Truncated = false, want true")
	}
	if res.Stats != (Stats{Removals: 6, Additions: 6}) {
		t.Errorf("stats = %+v, want {6 6}", res.Stats)
	}
	if res.Alignment.Old() != "abcdef" || res.Alignment.New() != "abcxyz" {
		t.Error("truncated alignment does not reconstruct inputs")
	}

	res = Compare("abcdef", "abcdef", WithMaxTokens(4))
	if !res.Truncated || !res.Stats.Identical() {
		t.Errorf("identical oversized input: truncated=%v stats=%+v", res.Truncated, res.Stats)
	}

	res = Compare("abcdef", "abcxyz", WithMaxTokens(0))
	if res.Truncated {
		t.Error("WithMaxTokens(0) should disable the cap")
	}
}

func TestCompareRecordsOptions(t *testing.T) {
	res := Compare("a", "b", WithGranularity(Word), WithAligner(Myers{}))
	if res.Granularity != Word {
		t.Errorf("Granularity = %q, want word", res.Granularity)
	}
	if res.Algorithm != AlgorithmMyers {
		t.Errorf("Algorithm = %q, want myers", res.Algorithm)
	}

	res = Compare("a", "b", WithAligner(nil))
	if res.Algorithm != AlgorithmLookahead {
		t.Errorf("nil aligner: Algorithm = %q, want lookahead", res.Algorithm)
	}
}
