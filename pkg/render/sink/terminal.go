package sink

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/matzehuels/sidediff/pkg/diff"
)

// Terminal layout defaults.
const (
	DefaultTerminalWidth = 100
	MinTerminalWidth     = 20

	tabWidth  = 4
	separator = " │ "
)

var (
	styleRemoved   = lipgloss.NewStyle().Background(lipgloss.Color("52")).Foreground(lipgloss.Color("217"))
	styleInserted  = lipgloss.NewStyle().Background(lipgloss.Color("22")).Foreground(lipgloss.Color("157"))
	styleRemovals  = lipgloss.NewStyle().Foreground(lipgloss.Color("167"))
	styleAdditions = lipgloss.NewStyle().Foreground(lipgloss.Color("35"))
	styleLabel     = lipgloss.NewStyle().Bold(true)
	styleMuted     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// TerminalOption configures terminal rendering via [RenderTerminal].
type TerminalOption func(*terminalRenderer)

type terminalRenderer struct {
	width  int
	color  bool
	header bool
	cond   *runewidth.Condition
}

// WithTerminalWidth sets the total output width in columns. Values below
// MinTerminalWidth are raised to it.
func WithTerminalWidth(w int) TerminalOption { return func(r *terminalRenderer) { r.width = w } }

// WithTerminalColor enables or disables ANSI styling. Without color,
// removals are marked [-like this-] and insertions {+like this+}.
func WithTerminalColor(on bool) TerminalOption { return func(r *terminalRenderer) { r.color = on } }

// WithoutTerminalHeader omits the stats line and pane labels.
func WithoutTerminalHeader() TerminalOption { return func(r *terminalRenderer) { r.header = false } }

// RenderTerminal lays out both panes side by side, wrapping each to half
// the configured width. Column widths account for wide and zero-width
// characters.
func RenderTerminal(res diff.Result, opts ...TerminalOption) []byte {
	r := terminalRenderer{
		width:  DefaultTerminalWidth,
		color:  true,
		header: true,
		cond:   runewidth.NewCondition(),
	}
	for _, opt := range opts {
		opt(&r)
	}
	if r.width < MinTerminalWidth {
		r.width = MinTerminalWidth
	}
	paneWidth := (r.width - runewidth.StringWidth(separator)) / 2

	left := r.layoutPane(res.Views.Old, paneWidth)
	right := r.layoutPane(res.Views.New, paneWidth)

	var b strings.Builder
	if r.header {
		b.WriteString(r.summary(res))
		b.WriteByte('\n')
		if res.Truncated {
			b.WriteString(r.muted("inputs exceeded the token limit and were compared as whole texts"))
			b.WriteByte('\n')
		}
		b.WriteString(r.padded(r.label(LabelOld), runewidth.StringWidth(LabelOld), paneWidth))
		b.WriteString(separator)
		b.WriteString(r.label(LabelNew))
		b.WriteByte('\n')
		rule := strings.Repeat("─", paneWidth)
		b.WriteString(r.muted(rule + "─┼─" + rule))
		b.WriteByte('\n')
	}

	rows := max(len(left.lines), len(right.lines))
	for i := 0; i < rows; i++ {
		var lt, rt string
		var lw int
		if i < len(left.lines) {
			lt, lw = left.lines[i], left.widths[i]
		}
		if i < len(right.lines) {
			rt = right.lines[i]
		}
		b.WriteString(r.padded(lt, lw, paneWidth))
		b.WriteString(separator)
		b.WriteString(strings.TrimRight(rt, " "))
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

func (r *terminalRenderer) summary(res diff.Result) string {
	s := res.Stats
	if s.Identical() || !r.color {
		return s.Summary()
	}
	var parts []string
	if s.Removals > 0 {
		parts = append(parts, styleRemovals.Render((diff.Stats{Removals: s.Removals}).Summary()))
	}
	if s.Additions > 0 {
		parts = append(parts, styleAdditions.Render((diff.Stats{Additions: s.Additions}).Summary()))
	}
	return strings.Join(parts, "  ")
}

func (r *terminalRenderer) label(s string) string {
	if !r.color {
		return s
	}
	return styleLabel.Render(s)
}

func (r *terminalRenderer) muted(s string) string {
	if !r.color {
		return s
	}
	return styleMuted.Render(s)
}

func (r *terminalRenderer) padded(s string, width, target int) string {
	if width >= target {
		return s
	}
	return s + strings.Repeat(" ", target-width)
}

// paneLines is a wrapped pane: styled lines and their visible widths.
type paneLines struct {
	lines  []string
	widths []int
}

type paneWriter struct {
	r     *terminalRenderer
	width int
	out   paneLines
	cur   strings.Builder
	col   int
}

func (r *terminalRenderer) layoutPane(units []diff.Unit, width int) paneLines {
	w := paneWriter{r: r, width: width}
	for _, u := range units {
		w.write(u)
	}
	if w.col > 0 || len(w.out.lines) == 0 {
		w.newline()
	}
	return w.out
}

func (w *paneWriter) write(u diff.Unit) {
	hl := u.Highlighted()
	markers := 0
	if hl && !w.r.color {
		markers = 4
	}

	var piece strings.Builder
	pieceWidth := 0
	flush := func() {
		if piece.Len() == 0 {
			return
		}
		w.cur.WriteString(w.style(piece.String(), hl, u.Class))
		w.col += pieceWidth + markers
		piece.Reset()
		pieceWidth = 0
	}

	for _, c := range u.Value {
		switch c {
		case '\n':
			flush()
			w.newline()
			continue
		case '\r':
			continue
		case '\t':
			n := tabWidth - (w.col+pieceWidth)%tabWidth
			for i := 0; i < n; i++ {
				w.appendRune(&piece, &pieceWidth, ' ', 1, markers, flush)
			}
			continue
		}
		w.appendRune(&piece, &pieceWidth, c, w.r.cond.RuneWidth(c), markers, flush)
	}
	flush()
}

// appendRune adds c to the current piece, wrapping first when it would
// overflow the pane. A character wider than the pane is placed on a line of
// its own.
func (w *paneWriter) appendRune(piece *strings.Builder, pieceWidth *int, c rune, cw, markers int, flush func()) {
	if w.col+markers+*pieceWidth+cw > w.width && (*pieceWidth > 0 || w.col > 0) {
		flush()
		w.newline()
	}
	piece.WriteRune(c)
	*pieceWidth += cw
}

func (w *paneWriter) newline() {
	w.out.lines = append(w.out.lines, w.cur.String())
	w.out.widths = append(w.out.widths, w.col)
	w.cur.Reset()
	w.col = 0
}

func (w *paneWriter) style(s string, hl bool, class diff.Classification) string {
	if !hl {
		return s
	}
	if !w.r.color {
		if class == diff.Removed {
			return "[-" + s + "-]"
		}
		return "{+" + s + "+}"
	}
	if class == diff.Removed {
		return styleRemoved.Render(s)
	}
	return styleInserted.Render(s)
}
