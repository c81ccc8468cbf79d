package sink

import (
	"bytes"
	"fmt"
	"html"

	"github.com/matzehuels/sidediff/pkg/diff"
)

// Tooltips shown on highlighted units.
const (
	TooltipOld = "Keep this text (merge from old)"
	TooltipNew = "Keep this text (merge from new)"
)

// SelectEvent is the DOM event dispatched when a highlighted unit is clicked.
const SelectEvent = "sidediff:select"

const (
	htmlCSS = `
    body { font-family: system-ui, sans-serif; margin: 2rem; color: #111827; background: #fff; }
    h1 { font-size: 1.25rem; margin: 0 0 1rem; }
    .summary { display: flex; gap: 1.5rem; padding: .75rem 1rem; border: 1px solid #e5e7eb; background: #f9fafb; border-radius: .5rem; margin-bottom: 1rem; font-size: .875rem; }
    .summary .removals { color: #dc2626; font-weight: 500; }
    .summary .additions { color: #16a34a; font-weight: 500; }
    .note { color: #6b7280; font-size: .875rem; margin-bottom: 1rem; }
    .panes { display: grid; grid-template-columns: 1fr 1fr; gap: 1rem; }
    .pane h2 { font-size: .875rem; font-weight: 500; color: #374151; margin: 0 0 .5rem; }
    .pane pre { border: 1px solid #e5e7eb; padding: 1rem; margin: 0; font-size: .875rem; white-space: pre-wrap; word-break: break-word; min-height: 3rem; }
    .removed { background: #fee2e2; color: #991b1b; cursor: pointer; }
    .inserted { background: #dcfce7; color: #166534; cursor: pointer; }
    .selected { outline: 2px solid #2563eb; }`

	htmlJS = `
    document.querySelectorAll('[data-highlight]').forEach(el => {
      el.addEventListener('click', () => {
        document.querySelectorAll('.selected').forEach(s => s.classList.remove('selected'));
        el.classList.add('selected');
        const detail = { class: el.dataset.class, side: el.dataset.side, index: Number(el.dataset.index), value: el.textContent };
        console.log('selected', detail);
        document.dispatchEvent(new CustomEvent('` + SelectEvent + `', { detail }));
      });
    });`
)

// HTMLOption configures HTML rendering via [RenderHTML].
type HTMLOption func(*htmlRenderer)

type htmlRenderer struct {
	title    string
	oldLabel string
	newLabel string
	script   bool
}

// WithHTMLTitle sets the page title.
func WithHTMLTitle(title string) HTMLOption { return func(r *htmlRenderer) { r.title = title } }

// WithHTMLLabels sets the pane headings.
func WithHTMLLabels(old, new string) HTMLOption {
	return func(r *htmlRenderer) { r.oldLabel, r.newLabel = old, new }
}

// WithoutHTMLScript omits the click handler.
func WithoutHTMLScript() HTMLOption { return func(r *htmlRenderer) { r.script = false } }

// RenderHTML writes a standalone page with both panes. Highlighted units are
// spans carrying data-class, data-side and data-index attributes plus a
// merge tooltip. Clicking one marks it selected and dispatches a
// SelectEvent; the page never edits either text.
func RenderHTML(res diff.Result, opts ...HTMLOption) []byte {
	r := htmlRenderer{
		title:    "Text comparison",
		oldLabel: LabelOld,
		newLabel: LabelNew,
		script:   true,
	}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	buf.WriteString("  <meta charset=\"utf-8\">\n")
	fmt.Fprintf(&buf, "  <title>%s</title>\n", html.EscapeString(r.title))
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", htmlCSS)
	buf.WriteString("</head>\n<body>\n")
	fmt.Fprintf(&buf, "  <h1>%s</h1>\n", html.EscapeString(r.title))

	renderHTMLSummary(&buf, res)

	buf.WriteString("  <div class=\"panes\">\n")
	renderHTMLPane(&buf, r.oldLabel, diff.SideOld, res.Views.Old)
	renderHTMLPane(&buf, r.newLabel, diff.SideNew, res.Views.New)
	buf.WriteString("  </div>\n")

	if r.script {
		fmt.Fprintf(&buf, "  <script>%s\n  </script>\n", htmlJS)
	}
	buf.WriteString("</body>\n</html>\n")
	return buf.Bytes()
}

func renderHTMLSummary(buf *bytes.Buffer, res diff.Result) {
	buf.WriteString("  <div class=\"summary\">")
	if res.Stats.Identical() {
		fmt.Fprintf(buf, "<span>%s</span>", html.EscapeString(res.Stats.Summary()))
	} else {
		if n := res.Stats.Removals; n > 0 {
			fmt.Fprintf(buf, `<span class="removals">%s</span>`, diff.Stats{Removals: n}.Summary())
		}
		if n := res.Stats.Additions; n > 0 {
			fmt.Fprintf(buf, `<span class="additions">%s</span>`, diff.Stats{Additions: n}.Summary())
		}
	}
	buf.WriteString("</div>\n")
	if res.Truncated {
		buf.WriteString("  <p class=\"note\">Inputs exceeded the token limit and were compared as whole texts.</p>\n")
	}
}

func renderHTMLPane(buf *bytes.Buffer, label string, side diff.Side, units []diff.Unit) {
	fmt.Fprintf(buf, "    <section class=\"pane\" data-side=\"%s\">\n", side)
	fmt.Fprintf(buf, "      <h2>%s</h2>\n", html.EscapeString(label))
	buf.WriteString("      <pre>")
	for i, u := range units {
		text := html.EscapeString(u.Value)
		if !u.Highlighted() {
			buf.WriteString(text)
			continue
		}
		tooltip := TooltipOld
		if side == diff.SideNew {
			tooltip = TooltipNew
		}
		fmt.Fprintf(buf, `<span class="%s" data-highlight data-class="%s" data-side="%s" data-index="%d" title="%s">%s</span>`,
			u.Class, u.Class, side, i, tooltip, text)
	}
	buf.WriteString("</pre>\n    </section>\n")
}
