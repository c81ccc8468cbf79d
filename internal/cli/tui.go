package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/sidediff/pkg/clipboard"
	"github.com/matzehuels/sidediff/pkg/diff"
	apperrors "github.com/matzehuels/sidediff/pkg/errors"
	"github.com/matzehuels/sidediff/pkg/render/sink"
)

// Viewer styles
var (
	viewRemovedStyle  = lipgloss.NewStyle().Foreground(colorRed).Underline(true)
	viewInsertedStyle = lipgloss.NewStyle().Foreground(colorGreen).Underline(true)
	viewSelectedStyle = lipgloss.NewStyle().Reverse(true).Bold(true)
	viewHeaderStyle   = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	viewFocusStyle    = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	viewHelpStyle     = lipgloss.NewStyle().Foreground(colorDim)
)

const viewHelp = "tab side  ←/→ move  ⏎ select  c copy  n new  q quit"

// =============================================================================
// ViewModel - Interactive side-by-side viewer
// =============================================================================

// ViewModel is the bubbletea model for browsing a comparison. The cursor of
// each side walks that side's highlighted units.
type ViewModel struct {
	Result   diff.Result
	Old, New string

	Focus     diff.Side
	CursorOld int
	CursorNew int
	Selected  *diff.Selection
	Status    string
	Width     int

	ctx    context.Context
	copier clipboard.Writer
	logger *log.Logger
}

// NewViewModel creates a viewer for res, the comparison of oldText and newText.
func NewViewModel(ctx context.Context, res diff.Result, oldText, newText string, copier clipboard.Writer, logger *log.Logger) ViewModel {
	return ViewModel{
		Result: res,
		Old:    oldText,
		New:    newText,
		Focus:  diff.SideOld,
		Status: res.Stats.Summary(),
		Width:  sink.DefaultTerminalWidth,
		ctx:    ctx,
		copier: copier,
		logger: logger,
	}
}

func (m ViewModel) Init() tea.Cmd {
	return nil
}

func (m ViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "shift+tab":
			if m.Focus == diff.SideOld {
				m.Focus = diff.SideNew
			} else {
				m.Focus = diff.SideOld
			}
			m.Status = "Focused " + sideLabel(m.Focus)
		case "left", "h":
			m.move(-1)
		case "right", "l":
			m.move(1)
		case "enter":
			m.selectCurrent()
		case "c":
			m.copyFocused()
		case "n":
			m.reset()
		}
	case tea.WindowSizeMsg:
		m.Width = max(msg.Width, sink.MinTerminalWidth)
	}
	return m, nil
}

// cursor returns the focused side's cursor.
func (m *ViewModel) cursor() *int {
	return m.cursorFor(m.Focus)
}

func (m *ViewModel) move(delta int) {
	highlights := m.Result.Views.Highlights(m.Focus)
	if len(highlights) == 0 {
		m.Status = "No changes in " + sideLabel(m.Focus)
		return
	}
	c := m.cursor()
	*c = min(max(*c+delta, 0), len(highlights)-1)
	m.Status = fmt.Sprintf("%s change %d/%d", sideLabel(m.Focus), *c+1, len(highlights))
}

// selectCurrent reports the unit under the cursor. Selecting changes
// nothing else.
func (m *ViewModel) selectCurrent() {
	highlights := m.Result.Views.Highlights(m.Focus)
	if len(highlights) == 0 {
		m.Status = "Nothing to select in " + sideLabel(m.Focus)
		return
	}
	m.Result.Views.Select(m.Focus, highlights[*m.cursor()], func(s diff.Selection) {
		m.Selected = &s
		m.logger.Info("selected", "side", s.Side, "class", s.Class, "value", s.Value)
		m.Status = fmt.Sprintf("Selected %s %q in %s", s.Class, s.Value, sideLabel(s.Side))
	})
}

func (m *ViewModel) copyFocused() {
	text := m.Old
	if m.Focus == diff.SideNew {
		text = m.New
	}
	if err := clipboard.Copy(m.ctx, m.copier, text); err != nil {
		m.logger.Warn("copy failed", "error", err)
		m.Status = "Copy failed: " + apperrors.UserMessage(err)
		return
	}
	m.Status = "Copied " + sideLabel(m.Focus)
}

// reset clears the comparison, as when starting a new one.
func (m *ViewModel) reset() {
	m.Result = diff.Result{}
	m.Old, m.New = "", ""
	m.CursorOld, m.CursorNew = 0, 0
	m.Selected = nil
	m.Focus = diff.SideOld
	m.Status = "Cleared. Run sidediff again to start a new comparison."
}

func (m ViewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(appName))
	b.WriteString("  ")
	b.WriteString(viewHelpStyle.Render(viewHelp))
	b.WriteString("\n")

	paneWidth := max((m.Width-7)/2, 1)
	headers := []string{sink.LabelOld, sink.LabelNew}
	for i, side := range []diff.Side{diff.SideOld, diff.SideNew} {
		if side == m.Focus {
			headers[i] = "▸ " + headers[i]
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Row(m.pane(diff.SideOld), m.pane(diff.SideNew)).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().Width(paneWidth)
			if row == -1 {
				if (col == 0) == (m.Focus == diff.SideOld) {
					return style.Inherit(viewFocusStyle)
				}
				return style.Inherit(viewHeaderStyle)
			}
			return style
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(m.Result.Stats.Summary()))
	b.WriteString("\n")
	b.WriteString(m.Status)
	return b.String()
}

// pane renders one side, marking the unit under the cursor when focused.
func (m ViewModel) pane(side diff.Side) string {
	units := m.Result.Views.Pane(side)
	selected := -1
	if side == m.Focus {
		if hl := m.Result.Views.Highlights(side); len(hl) > 0 {
			selected = hl[min(*m.cursorFor(side), len(hl)-1)]
		}
	}

	var b strings.Builder
	for i, u := range units {
		switch {
		case i == selected:
			b.WriteString(viewSelectedStyle.Render(u.Value))
		case u.Class == diff.Removed:
			b.WriteString(viewRemovedStyle.Render(u.Value))
		case u.Class == diff.Inserted:
			b.WriteString(viewInsertedStyle.Render(u.Value))
		default:
			b.WriteString(u.Value)
		}
	}
	return b.String()
}

func (m *ViewModel) cursorFor(side diff.Side) *int {
	if side == diff.SideNew {
		return &m.CursorNew
	}
	return &m.CursorOld
}
