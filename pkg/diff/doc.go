// Package diff computes side-by-side text comparisons.
//
// # Overview
//
// A comparison runs in four stages, each a pure function over explicit inputs:
//
//  1. [Tokenize] splits each text into [Token] values at a [Granularity]
//     (single characters or alternating word/separator runs).
//  2. An [Aligner] classifies every token as [Unchanged], [Removed] or
//     [Inserted], producing an [Alignment].
//  3. [Render] projects the alignment into two [Views]: the old side
//     (unchanged + removed) and the new side (unchanged + inserted).
//  4. [Reduce] counts removed and inserted tokens into [Stats].
//
// [Compare] wires the stages together:
//
//	res := diff.Compare("the quick fox", "the slow fox",
//	    diff.WithGranularity(diff.Word))
//	fmt.Println(res.Stats.Summary()) // − 1 removal  + 1 addition
//
// # Invariants
//
// For every pair of inputs:
//
//   - concat(Unchanged + Removed entries) == old
//   - concat(Unchanged + Inserted entries) == new
//   - identical inputs yield only Unchanged entries and zero [Stats]
//
// # Aligners
//
// [Lookahead] is the default: a locally greedy scan that resynchronizes after
// a mismatch by searching a small window ahead on each side. It is fast and
// predictable but not guaranteed minimal. [Myers] delegates to
// github.com/sergi/go-diff and produces shorter edit scripts on heavily
// rearranged input. Both satisfy the invariants above and never fail.
//
// # Selection
//
// Rendered units can be selected through [Views.Select]. Selection only
// reports what was picked; merging selected text back into the other side is
// not implemented.
package diff
