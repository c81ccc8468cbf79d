package errors

import (
	"strings"
	"testing"
)

func TestValidateGranularity(t *testing.T) {
	accepted := []string{"character", "word"}
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"character", "character", false},
		{"word", "word", false},
		{"upper case", "WORD", false},
		{"padded", "  word ", false},

		{"empty", "", true},
		{"unknown", "line", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGranularity(tt.input, accepted)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateGranularity(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidGranularity) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidGranularity)
			}
		})
	}
}

func TestValidateAlgorithmMessage(t *testing.T) {
	err := ValidateAlgorithm("patience", []string{"lookahead", "myers"})
	if !Is(err, ErrCodeInvalidAlgorithm) {
		t.Fatalf("code = %v, want %v", GetCode(err), ErrCodeInvalidAlgorithm)
	}
	if msg := UserMessage(err); !strings.Contains(msg, "lookahead or myers") {
		t.Errorf("UserMessage() = %q, want it to list the choices", msg)
	}
}

func TestValidateFormat(t *testing.T) {
	accepted := []string{"terminal", "json", "html"}
	if err := ValidateFormat("html", accepted); err != nil {
		t.Errorf("ValidateFormat(html) = %v", err)
	}
	err := ValidateFormat("svg", accepted)
	if !Is(err, ErrCodeInvalidFormat) {
		t.Errorf("ValidateFormat(svg) = %v, want %v", err, ErrCodeInvalidFormat)
	}
	if msg := UserMessage(err); !strings.Contains(msg, "terminal, json or html") {
		t.Errorf("UserMessage() = %q", msg)
	}
}

func TestValidateInputSize(t *testing.T) {
	tests := []struct {
		name    string
		size    int64
		max     int64
		wantErr bool
	}{
		{"under", 10, 100, false},
		{"exact", 100, 100, false},
		{"over", 101, 100, true},
		{"unlimited", 1 << 40, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInputSize("old", tt.size, tt.max)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateInputSize(%d, %d) error = %v, wantErr %v", tt.size, tt.max, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInputTooLarge) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInputTooLarge)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "notes/old.txt", false},
		{"absolute", "/tmp/new.txt", false},
		{"parent", "../draft.md", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 5000), true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
