package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/sidediff/pkg/cache"
	"github.com/matzehuels/sidediff/pkg/diff"
	"github.com/matzehuels/sidediff/pkg/httputil"
	"github.com/matzehuels/sidediff/pkg/observability"
	"github.com/matzehuels/sidediff/pkg/pipeline"
)

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
	srv := httptest.NewServer(New(runner, nil, opts).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+"/api/v1/diff", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if resp.Header.Get(httputil.HeaderRequestID) == "" {
		t.Error("missing X-Request-ID")
	}
}

func TestDiff(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp := post(t, srv, `{"old":"the quick fox","new":"the slow fox","granularity":"word"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	got := decode[DiffResponse](t, resp)
	if got.ID == "" {
		t.Error("response has no id")
	}
	if got.Granularity != diff.Word || got.Algorithm != diff.AlgorithmLookahead {
		t.Errorf("granularity/algorithm = %s/%s", got.Granularity, got.Algorithm)
	}
	if got.Stats != (diff.Stats{Removals: 1, Additions: 1}) {
		t.Errorf("stats = %+v, want {1 1}", got.Stats)
	}
	if got.Summary != "− 1 removal  + 1 addition" {
		t.Errorf("summary = %q", got.Summary)
	}
	if got.Views.Text(diff.SideOld) != "the quick fox" || got.Views.Text(diff.SideNew) != "the slow fox" {
		t.Errorf("views do not reconstruct inputs: %+v", got.Views)
	}
	if got.Artifacts != nil {
		t.Errorf("artifacts = %v, want none", got.Artifacts)
	}
}

func TestDiffEmptyInputs(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp := post(t, srv, `{"old":"","new":""}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		t.Fatal(err)
	}
	if string(raw["alignment"]) != "[]" {
		t.Errorf("alignment = %s, want []", raw["alignment"])
	}
}

func TestDiffArtifacts(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp := post(t, srv, `{"old":"a<b","new":"a>b","formats":["html","terminal"],"width":40}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	got := decode[DiffResponse](t, resp)
	page, ok := got.Artifacts["html"]
	if !ok {
		t.Fatalf("artifacts = %v, want html", got.Artifacts)
	}
	if !strings.Contains(page, "&lt;") {
		t.Error("html artifact is not escaped")
	}
	if _, ok := got.Artifacts["terminal"]; !ok {
		t.Error("missing terminal artifact")
	}
}

func TestDiffErrors(t *testing.T) {
	tests := []struct {
		name       string
		opts       Options
		body       string
		wantStatus int
		wantCode   string
	}{
		{"malformed", Options{}, `{"old":`, http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown field", Options{}, `{"old":"a","nope":true}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"granularity", Options{}, `{"old":"a","new":"b","granularity":"line"}`, http.StatusBadRequest, "INVALID_GRANULARITY"},
		{"algorithm", Options{}, `{"old":"a","new":"b","algorithm":"patience"}`, http.StatusBadRequest, "INVALID_ALGORITHM"},
		{"format", Options{}, `{"old":"a","new":"b","formats":["pdf"]}`, http.StatusBadRequest, "INVALID_FORMAT"},
		{"negative window", Options{}, `{"old":"a","new":"b","window":-1}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"body too large", Options{MaxBodyBytes: 32}, `{"old":"` + strings.Repeat("x", 64) + `","new":""}`, http.StatusRequestEntityTooLarge, "INPUT_TOO_LARGE"},
		{
			"input too large",
			Options{Defaults: pipeline.Options{MaxInputBytes: 4}},
			`{"old":"0123456789","new":""}`,
			http.StatusRequestEntityTooLarge, "INPUT_TOO_LARGE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.opts)
			resp := post(t, srv, tt.body)

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			body := decode[httputil.ErrorBody](t, resp)
			if string(body.Code) != tt.wantCode {
				t.Errorf("code = %q, want %q (%s)", body.Code, tt.wantCode, body.Message)
			}
			if body.Message == "" {
				t.Error("empty error message")
			}
		})
	}
}

func TestDefaultsApply(t *testing.T) {
	srv := newTestServer(t, Options{Defaults: pipeline.Options{Granularity: "word", Algorithm: "myers"}})

	got := decode[DiffResponse](t, post(t, srv, `{"old":"a b","new":"a c"}`))
	if got.Granularity != diff.Word || got.Algorithm != diff.AlgorithmMyers {
		t.Errorf("granularity/algorithm = %s/%s, want word/myers", got.Granularity, got.Algorithm)
	}

	got = decode[DiffResponse](t, post(t, srv, `{"old":"a b","new":"a c","granularity":"character"}`))
	if got.Granularity != diff.Character {
		t.Errorf("request granularity ignored: %s", got.Granularity)
	}
}

func TestOptionsEndpoint(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp, err := http.Get(srv.URL + "/api/v1/options")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	got := decode[OptionsResponse](t, resp)
	if len(got.Granularities) != 2 || len(got.Algorithms) != 2 || len(got.Formats) != 3 {
		t.Errorf("options = %+v", got)
	}
	if got.Defaults.Granularity != pipeline.DefaultGranularity || got.Defaults.Window != pipeline.DefaultWindow {
		t.Errorf("defaults = %+v", got.Defaults)
	}
}

func TestNotFound(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp, err := http.Get(srv.URL + "/nope")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestRequestIDEchoed(t *testing.T) {
	srv := newTestServer(t, Options{})

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	req.Header.Set(httputil.HeaderRequestID, "req-42")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get(httputil.HeaderRequestID); got != "req-42" {
		t.Errorf("X-Request-ID = %q, want req-42", got)
	}
}

type recordingHTTPHooks struct {
	observability.NoopHTTPHooks
	mu       sync.Mutex
	statuses []int
	errors   int
}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.statuses = append(h.statuses, status)
}

func (h *recordingHTTPHooks) OnError(context.Context, string, string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errors++
}

func TestHTTPHooks(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	handler := New(nil, nil, Options{}).Handler()

	for _, body := range []string{`{"old":"a","new":"b"}`, `{"old":`} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/diff", strings.NewReader(body)))
	}

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if len(hooks.statuses) != 2 || hooks.statuses[0] != http.StatusOK || hooks.statuses[1] != http.StatusBadRequest {
		t.Errorf("statuses = %v, want [200 400]", hooks.statuses)
	}
	if hooks.errors != 1 {
		t.Errorf("errors = %d, want 1", hooks.errors)
	}
}

func TestOptionsSetDefaults(t *testing.T) {
	var o Options
	o.SetDefaults()
	if o.Addr != DefaultAddr || o.MaxBodyBytes != DefaultMaxBodyBytes ||
		o.ReadTimeout != DefaultReadTimeout || o.WriteTimeout != DefaultWriteTimeout {
		t.Errorf("SetDefaults = %+v", o)
	}
}
