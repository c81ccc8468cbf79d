package sink

import (
	"encoding/json"

	"github.com/matzehuels/sidediff/pkg/diff"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	compact bool
}

// WithJSONCompact disables indentation.
func WithJSONCompact() JSONOption { return func(r *jsonRenderer) { r.compact = true } }

type jsonOutput struct {
	Granularity diff.Granularity `json:"granularity"`
	Algorithm   string           `json:"algorithm"`
	Stats       diff.Stats       `json:"stats"`
	Summary     string           `json:"summary"`
	Truncated   bool             `json:"truncated,omitempty"`
	Alignment   diff.Alignment   `json:"alignment"`
	Views       diff.Views       `json:"views"`
}

// RenderJSON encodes the comparison with its summary line. Empty alignments
// and panes are written as empty arrays rather than null.
func RenderJSON(res diff.Result, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Granularity: res.Granularity,
		Algorithm:   res.Algorithm,
		Stats:       res.Stats,
		Summary:     res.Stats.Summary(),
		Truncated:   res.Truncated,
		Alignment:   res.Alignment,
		Views:       res.Views,
	}
	if out.Alignment == nil {
		out.Alignment = diff.Alignment{}
	}
	if out.Views.Old == nil {
		out.Views.Old = []diff.Unit{}
	}
	if out.Views.New == nil {
		out.Views.New = []diff.Unit{}
	}

	if r.compact {
		return json.Marshal(out)
	}
	return json.MarshalIndent(out, "", "  ")
}
