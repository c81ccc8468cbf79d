// Package pkg provides the libraries behind sidediff, a side-by-side text
// comparison tool.
//
// # Overview
//
// Sidediff tokenizes two texts, aligns the token sequences into an edit
// script and shows the result as two panes: removals highlighted on the old
// side, insertions on the new side. The pkg directory is organized into
// three areas:
//
//  1. [diff] - Domain logic (tokenizing, aligning, pane views, stats)
//  2. [render/sink] - Output formats (terminal, JSON, HTML)
//  3. [pipeline] - Orchestration (compare → render) with caching
//
// Supporting packages provide caching backends ([cache]), structured errors
// ([errors]), instrumentation hooks ([observability]), HTTP helpers
// ([httputil]), clipboard access ([clipboard]) and build metadata
// ([buildinfo]).
//
// # Architecture
//
// The typical data flow:
//
//	old text, new text
//	         ↓
//	    [diff] Tokenize (character or word granularity)
//	         ↓
//	    [diff] Aligner (lookahead or Myers)
//	         ↓
//	    [diff] Render + Reduce (pane views, stats)
//	         ↓
//	    [render/sink] terminal / JSON / HTML output
//
// # Quick Start
//
//	res := diff.Compare("the quick fox", "the slow fox",
//	    diff.WithGranularity(diff.Word))
//	fmt.Println(res.Stats.Summary()) // − 1 removal  + 1 addition
//
//	page := sink.RenderHTML(res, sink.WithHTMLTitle("Review"))
//
// For cached, validated runs shared by the CLI and the HTTP API, use
// [pipeline.Runner].
//
// [diff]: github.com/matzehuels/sidediff/pkg/diff
// [render/sink]: github.com/matzehuels/sidediff/pkg/render/sink
// [pipeline]: github.com/matzehuels/sidediff/pkg/pipeline
// [pipeline.Runner]: github.com/matzehuels/sidediff/pkg/pipeline#Runner
// [cache]: github.com/matzehuels/sidediff/pkg/cache
// [errors]: github.com/matzehuels/sidediff/pkg/errors
// [observability]: github.com/matzehuels/sidediff/pkg/observability
// [httputil]: github.com/matzehuels/sidediff/pkg/httputil
// [clipboard]: github.com/matzehuels/sidediff/pkg/clipboard
// [buildinfo]: github.com/matzehuels/sidediff/pkg/buildinfo
package pkg
