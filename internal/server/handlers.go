package server

import (
	"net/http"

	"github.com/matzehuels/sidediff/pkg/diff"
	"github.com/matzehuels/sidediff/pkg/httputil"
	"github.com/matzehuels/sidediff/pkg/pipeline"
	"github.com/matzehuels/sidediff/pkg/render/sink"
)

// DiffRequest is the body of POST /api/v1/diff. Zero values select the
// server defaults.
type DiffRequest struct {
	Old         string   `json:"old"`
	New         string   `json:"new"`
	Reverse     bool     `json:"reverse,omitempty"`
	Granularity string   `json:"granularity,omitempty"`
	Algorithm   string   `json:"algorithm,omitempty"`
	Window      int      `json:"window,omitempty"`
	MaxTokens   int      `json:"max_tokens,omitempty"`
	Formats     []string `json:"formats,omitempty"`
	Width       int      `json:"width,omitempty"`
	Title       string   `json:"title,omitempty"`
}

// DiffResponse is the body returned by POST /api/v1/diff.
type DiffResponse struct {
	ID          string            `json:"id"`
	Granularity diff.Granularity  `json:"granularity"`
	Algorithm   string            `json:"algorithm"`
	Stats       diff.Stats        `json:"stats"`
	Summary     string            `json:"summary"`
	Truncated   bool              `json:"truncated"`
	Cached      bool              `json:"cached"`
	Alignment   diff.Alignment    `json:"alignment"`
	Views       diff.Views        `json:"views"`
	Artifacts   map[string]string `json:"artifacts,omitempty"`
}

// OptionsResponse is the body returned by GET /api/v1/options.
type OptionsResponse struct {
	Granularities []string `json:"granularities"`
	Algorithms    []string `json:"algorithms"`
	Formats       []string `json:"formats"`
	Defaults      struct {
		Granularity string `json:"granularity"`
		Algorithm   string `json:"algorithm"`
		Window      int    `json:"window"`
	} `json:"defaults"`
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	defaults := s.opts.Defaults
	defaults.SetCompareDefaults()

	var resp OptionsResponse
	resp.Granularities = diff.Granularities
	resp.Algorithms = diff.Algorithms
	resp.Formats = sink.Formats
	resp.Defaults.Granularity = defaults.Granularity
	resp.Defaults.Algorithm = defaults.Algorithm
	resp.Defaults.Window = defaults.Window
	_ = httputil.WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDiff(w http.ResponseWriter, r *http.Request) {
	var req DiffRequest
	if err := httputil.DecodeJSON(w, r, s.opts.MaxBodyBytes, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	opts := s.requestOptions(req)
	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	_ = httputil.WriteJSON(w, http.StatusOK, newDiffResponse(result))
}

// requestOptions layers the request over the configured defaults.
func (s *Server) requestOptions(req DiffRequest) pipeline.Options {
	opts := s.opts.Defaults
	opts.Old = req.Old
	opts.New = req.New
	opts.Reverse = req.Reverse
	opts.Formats = req.Formats
	opts.Color = false
	opts.Logger = s.logger
	if req.Granularity != "" {
		opts.Granularity = req.Granularity
	}
	if req.Algorithm != "" {
		opts.Algorithm = req.Algorithm
	}
	if req.Window != 0 {
		opts.Window = req.Window
	}
	if req.MaxTokens != 0 {
		opts.MaxTokens = req.MaxTokens
	}
	if req.Width != 0 {
		opts.Width = req.Width
	}
	if req.Title != "" {
		opts.Title = req.Title
	}
	return opts
}

func newDiffResponse(result *pipeline.Result) DiffResponse {
	res := result.Comparison
	resp := DiffResponse{
		ID:          result.ID,
		Granularity: res.Granularity,
		Algorithm:   res.Algorithm,
		Stats:       res.Stats,
		Summary:     res.Stats.Summary(),
		Truncated:   res.Truncated,
		Cached:      result.CacheInfo.CompareHit,
		Alignment:   res.Alignment,
		Views:       res.Views,
	}
	if resp.Alignment == nil {
		resp.Alignment = diff.Alignment{}
	}
	if resp.Views.Old == nil {
		resp.Views.Old = []diff.Unit{}
	}
	if resp.Views.New == nil {
		resp.Views.New = []diff.Unit{}
	}
	if len(result.Artifacts) > 0 {
		resp.Artifacts = make(map[string]string, len(result.Artifacts))
		for format, data := range result.Artifacts {
			resp.Artifacts[format] = string(data)
		}
	}
	return resp
}
