package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/sidediff/pkg/diff"
	"github.com/matzehuels/sidediff/pkg/observability"
)

// Compare runs the comparison stage without caching. Options must have been
// validated.
func Compare(ctx context.Context, opts Options) diff.Result {
	old, new := opts.Inputs()
	hooks := observability.Pipeline()
	hooks.OnCompareStart(ctx, opts.Granularity, opts.Algorithm, len(old), len(new))

	start := time.Now()
	res := diff.Compare(old, new,
		diff.WithGranularity(diff.Granularity(opts.Granularity)),
		diff.WithAligner(observedAligner{ctx: ctx, inner: opts.Aligner()}),
		diff.WithMaxTokens(opts.MaxTokens),
	)

	if res.Truncated {
		opts.Logger.Warn("input exceeds token limit, comparing whole texts", "max_tokens", opts.MaxTokens)
	}
	hooks.OnCompareComplete(ctx, res.Stats.Removals, res.Stats.Additions, res.Truncated, time.Since(start))
	return res
}

// observedAligner reports alignment timing to the pipeline hooks.
type observedAligner struct {
	ctx   context.Context
	inner diff.Aligner
}

func (a observedAligner) Name() string { return a.inner.Name() }

func (a observedAligner) Align(old, new []diff.Token) diff.Alignment {
	start := time.Now()
	al := a.inner.Align(old, new)
	observability.Pipeline().OnAlign(a.ctx, a.inner.Name(), len(old), len(new), len(al), time.Since(start))
	return al
}
