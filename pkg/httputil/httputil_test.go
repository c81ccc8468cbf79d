package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "github.com/matzehuels/sidediff/pkg/errors"
)

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	tests := []struct {
		name    string
		inbound string
		reuse   bool
	}{
		{"generated", "", false},
		{"reused", "abc-123", true},
		{"whitespace rejected", "has space", false},
		{"too long rejected", strings.Repeat("x", maxRequestIDLen+1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.inbound != "" {
				req.Header.Set(HeaderRequestID, tt.inbound)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			got := rec.Header().Get(HeaderRequestID)
			if got == "" {
				t.Fatal("response has no request ID")
			}
			if got != seen {
				t.Errorf("context ID %q != header ID %q", seen, got)
			}
			if tt.reuse && got != tt.inbound {
				t.Errorf("ID = %q, want inbound %q", got, tt.inbound)
			}
			if !tt.reuse && got == tt.inbound {
				t.Errorf("invalid inbound ID %q was reused", tt.inbound)
			}
		})
	}
}

func TestRequestIDFromContextEmpty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if id := RequestIDFromContext(req.Context()); id != "" {
		t.Errorf("RequestIDFromContext = %q, want empty", id)
	}
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Old string `json:"old"`
	}

	tests := []struct {
		name     string
		body     string
		maxBytes int64
		wantCode apperrors.Code
	}{
		{"valid", `{"old":"a"}`, 1024, ""},
		{"no limit", `{"old":"a"}`, 0, ""},
		{"too large", `{"old":"` + strings.Repeat("a", 100) + `"}`, 16, apperrors.ErrCodeInputTooLarge},
		{"empty", ``, 1024, apperrors.ErrCodeInvalidInput},
		{"malformed", `{"old":`, 1024, apperrors.ErrCodeInvalidInput},
		{"unknown field", `{"old":"a","extra":1}`, 1024, apperrors.ErrCodeInvalidInput},
		{"trailing data", `{"old":"a"}{"old":"b"}`, 1024, apperrors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			var p payload
			err := DecodeJSON(rec, req, tt.maxBytes, &p)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("DecodeJSON: %v", err)
				}
				if p.Old != "a" {
					t.Errorf("Old = %q, want a", p.Old)
				}
				return
			}
			if got := apperrors.GetCode(err); got != tt.wantCode {
				t.Errorf("code = %q, want %q (err: %v)", got, tt.wantCode, err)
			}
		})
	}
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   apperrors.Code
		wantMsg    string
	}{
		{
			name:       "coded",
			err:        apperrors.New(apperrors.ErrCodeInvalidGranularity, "invalid granularity: line"),
			wantStatus: http.StatusBadRequest,
			wantCode:   apperrors.ErrCodeInvalidGranularity,
			wantMsg:    "invalid granularity: line",
		},
		{
			name:       "too large",
			err:        apperrors.New(apperrors.ErrCodeInputTooLarge, "too big"),
			wantStatus: http.StatusRequestEntityTooLarge,
			wantCode:   apperrors.ErrCodeInputTooLarge,
			wantMsg:    "too big",
		},
		{
			name:       "plain error hidden",
			err:        errors.New("db password leaked"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   apperrors.ErrCodeInternal,
			wantMsg:    "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			if status := WriteError(rec, tt.err); status != tt.wantStatus {
				t.Errorf("WriteError returned %d, want %d", status, tt.wantStatus)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
				t.Errorf("Content-Type = %q", ct)
			}

			var body ErrorBody
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Code != tt.wantCode || body.Message != tt.wantMsg {
				t.Errorf("body = %+v, want {%s %s}", body, tt.wantCode, tt.wantMsg)
			}
		})
	}
}
