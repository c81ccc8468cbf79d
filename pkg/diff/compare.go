package diff

// DefaultMaxTokens caps the tokens per side that Compare aligns.
const DefaultMaxTokens = 200_000

// Result is a complete comparison.
type Result struct {
	Granularity Granularity `json:"granularity"`
	Algorithm   string      `json:"algorithm"`
	Alignment   Alignment   `json:"alignment"`
	Views       Views       `json:"views"`
	Stats       Stats       `json:"stats"`

	// Truncated is set when an input exceeded the token cap and the texts
	// were compared as whole units.
	Truncated bool `json:"truncated,omitempty"`
}

// Option configures Compare.
type Option func(*config)

type config struct {
	granularity Granularity
	aligner     Aligner
	maxTokens   int
}

// WithGranularity sets the tokenization mode.
func WithGranularity(g Granularity) Option {
	return func(c *config) { c.granularity = g }
}

// WithAligner sets the alignment strategy.
func WithAligner(a Aligner) Option {
	return func(c *config) { c.aligner = a }
}

// WithMaxTokens caps the number of tokens per side. Zero or negative
// disables the cap.
func WithMaxTokens(n int) Option {
	return func(c *config) { c.maxTokens = n }
}

// Compare tokenizes, aligns, renders and reduces old against new.
//
// When either side has more tokens than the configured cap, the alignment
// degrades to whole-text classification: identical texts are Unchanged,
// otherwise old is Removed and new is Inserted. The invariants hold either
// way.
func Compare(old, new string, opts ...Option) Result {
	c := config{
		granularity: DefaultGranularity,
		aligner:     Lookahead{},
		maxTokens:   DefaultMaxTokens,
	}
	for _, opt := range opts {
		opt(&c)
	}
	if c.aligner == nil {
		c.aligner = Lookahead{}
	}

	oldTokens := Tokenize(old, c.granularity)
	newTokens := Tokenize(new, c.granularity)

	res := Result{Granularity: c.granularity, Algorithm: c.aligner.Name()}
	if c.maxTokens > 0 && (len(oldTokens) > c.maxTokens || len(newTokens) > c.maxTokens) {
		res.Alignment = wholeText(old, new, oldTokens, newTokens)
		res.Truncated = true
	} else {
		res.Alignment = c.aligner.Align(oldTokens, newTokens)
	}
	res.Views = Render(res.Alignment)
	res.Stats = Reduce(res.Alignment)
	return res
}

func wholeText(old, new string, oldTokens, newTokens []Token) Alignment {
	var b builder
	if old == new {
		b.add(Unchanged, oldTokens...)
		return b.finish()
	}
	b.add(Removed, oldTokens...)
	b.add(Inserted, newTokens...)
	return b.finish()
}
