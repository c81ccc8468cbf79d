package sink

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"github.com/matzehuels/sidediff/pkg/diff"
)

func wordResult() diff.Result {
	return diff.Compare("the quick fox", "the slow fox", diff.WithGranularity(diff.Word))
}

func TestRenderTerminalPlain(t *testing.T) {
	out := string(RenderTerminal(wordResult(), WithTerminalWidth(40), WithTerminalColor(false)))

	rule := strings.Repeat("─", 18)
	want := strings.Join([]string{
		"− 1 removal  + 1 addition",
		"Old Text" + strings.Repeat(" ", 10) + " │ New Text",
		rule + "─┼─" + rule,
		"the [-quick-] fox  │ the {+slow+} fox",
		"",
	}, "\n")
	if out != want {
		t.Errorf("RenderTerminal =\n%s\nwant\n%s", out, want)
	}
}

func TestRenderTerminalWraps(t *testing.T) {
	tests := []struct {
		name string
		old  string
		new  string
	}{
		{"ascii", strings.Repeat("abcdefghij", 5), strings.Repeat("abcdefghiX", 5)},
		{"wide", "日本語のテキストを比較します", "日本語のテキストを表示します"},
		{"tabs and newlines", "a\tb\nc\td", "a\tb\nc\te"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := diff.Compare(tt.old, tt.new)
			out := string(RenderTerminal(res, WithTerminalWidth(24), WithTerminalColor(false), WithoutTerminalHeader()))
			for _, line := range strings.Split(strings.TrimSuffix(out, "\n"), "\n") {
				left, _, ok := strings.Cut(line, separator)
				if !ok {
					t.Fatalf("line without separator: %q", line)
				}
				if w := runewidth.StringWidth(left); w != (24-3)/2 {
					t.Errorf("left pane width = %d, want %d: %q", w, (24-3)/2, line)
				}
			}
		})
	}
}

func TestRenderTerminalIdentical(t *testing.T) {
	res := diff.Compare("same", "same")
	out := string(RenderTerminal(res, WithTerminalColor(false)))
	if !strings.HasPrefix(out, "No differences found\n") {
		t.Errorf("output should start with the no-differences summary:\n%s", out)
	}
	if strings.Contains(out, "[-") || strings.Contains(out, "{+") {
		t.Errorf("identical inputs should have no highlights:\n%s", out)
	}
}

func TestRenderTerminalEmpty(t *testing.T) {
	res := diff.Compare("", "")
	out := string(RenderTerminal(res, WithTerminalColor(false), WithoutTerminalHeader()))
	if strings.Count(out, "\n") != 1 {
		t.Errorf("empty comparison should render one blank row, got %q", out)
	}
}

func TestRenderTerminalTruncatedNote(t *testing.T) {
	res := diff.Compare("abcdef", "abcxyz", diff.WithMaxTokens(2))
	out := string(RenderTerminal(res, WithTerminalColor(false)))
	if !strings.Contains(out, "compared as whole texts") {
		t.Errorf("truncated result should carry a note:\n%s", out)
	}
}

func TestRenderJSON(t *testing.T) {
	data, err := RenderJSON(wordResult())
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}

	var got struct {
		Summary   string     `json:"summary"`
		Stats     diff.Stats `json:"stats"`
		Alignment []struct {
			Class string `json:"class"`
			Value string `json:"value"`
		} `json:"alignment"`
		Views struct {
			Old []diff.Unit `json:"old"`
			New []diff.Unit `json:"new"`
		} `json:"views"`
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.Summary != "− 1 removal  + 1 addition" {
		t.Errorf("summary = %q", got.Summary)
	}
	if got.Stats != (diff.Stats{Removals: 1, Additions: 1}) {
		t.Errorf("stats = %+v", got.Stats)
	}
	if len(got.Alignment) != 4 || got.Alignment[1].Class != "removed" || got.Alignment[1].Value != "quick" {
		t.Errorf("alignment = %+v", got.Alignment)
	}
	if len(got.Views.Old) != 3 || got.Views.Old[1].Side != diff.SideOld {
		t.Errorf("old view = %+v", got.Views.Old)
	}
	if !strings.Contains(string(data), "\n  ") {
		t.Error("default output should be indented")
	}
}

func TestRenderJSONEmpty(t *testing.T) {
	data, err := RenderJSON(diff.Compare("", ""), WithJSONCompact())
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	for _, want := range []string{`"alignment":[]`, `"old":[]`, `"new":[]`} {
		if !strings.Contains(s, want) {
			t.Errorf("output missing %s: %s", want, s)
		}
	}
	if strings.Contains(s, "\n") {
		t.Error("compact output should be a single line")
	}
}

func TestRenderHTML(t *testing.T) {
	res := diff.Compare("a <b> & c", "a <i> & c", diff.WithGranularity(diff.Word))
	page := string(RenderHTML(res, WithHTMLTitle("Draft vs final")))

	for _, want := range []string{
		"<!DOCTYPE html>",
		"<title>Draft vs final</title>",
		`data-class="removed" data-side="left"`,
		`data-class="inserted" data-side="right"`,
		`title="` + TooltipOld + `"`,
		`title="` + TooltipNew + `"`,
		"&lt;",
		"&amp;",
		SelectEvent,
		LabelOld,
		LabelNew,
	} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if strings.Contains(page, "<b>") {
		t.Error("input text must be escaped")
	}
}

func TestRenderHTMLSummaryOmitsZeroCounts(t *testing.T) {
	page := string(RenderHTML(diff.Compare("abc", "abcdef")))
	if !strings.Contains(page, `<span class="additions">+ 3 additions</span>`) {
		t.Error("additions summary missing")
	}
	if strings.Contains(page, `class="removals"`) || strings.Contains(page, "− 0") {
		t.Error("zero removals should not be shown")
	}
}

func TestRenderHTMLWithoutScript(t *testing.T) {
	page := string(RenderHTML(wordResult(), WithoutHTMLScript(), WithHTMLLabels("Before", "After")))
	if strings.Contains(page, "<script>") {
		t.Error("script should be omitted")
	}
	if !strings.Contains(page, "<h2>Before</h2>") || !strings.Contains(page, "<h2>After</h2>") {
		t.Error("custom labels missing")
	}
}

func TestFormats(t *testing.T) {
	for _, f := range Formats {
		if !IsFormat(f) {
			t.Errorf("IsFormat(%q) = false", f)
		}
	}
	if IsFormat("svg") {
		t.Error("IsFormat(svg) = true")
	}
	if Extension(FormatHTML) != ".html" || Extension(FormatJSON) != ".json" || Extension(FormatTerminal) != ".txt" {
		t.Error("unexpected extensions")
	}
}
