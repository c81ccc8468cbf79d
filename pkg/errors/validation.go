package errors

import (
	"slices"
	"strings"
	"unicode"
)

// ValidateGranularity checks name against the accepted granularity names.
// Matching is case-insensitive and ignores surrounding whitespace.
func ValidateGranularity(name string, accepted []string) error {
	return validateChoice(ErrCodeInvalidGranularity, "granularity", name, accepted)
}

// ValidateAlgorithm checks name against the accepted alignment algorithms.
func ValidateAlgorithm(name string, accepted []string) error {
	return validateChoice(ErrCodeInvalidAlgorithm, "algorithm", name, accepted)
}

// ValidateFormat checks an output format name.
func ValidateFormat(name string, accepted []string) error {
	return validateChoice(ErrCodeInvalidFormat, "format", name, accepted)
}

func validateChoice(code Code, kind, name string, accepted []string) error {
	if slices.Contains(accepted, strings.ToLower(strings.TrimSpace(name))) {
		return nil
	}
	if name == "" {
		return New(code, "%s cannot be empty (must be %s)", kind, orList(accepted))
	}
	return New(code, "unknown %s %q (must be %s)", kind, name, orList(accepted))
}

func orList(items []string) string {
	switch len(items) {
	case 0:
		return "nothing"
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], ", ") + " or " + items[len(items)-1]
}

// ValidateInputSize rejects inputs larger than max bytes. A max of zero or
// less disables the check.
func ValidateInputSize(name string, size, max int64) error {
	if max > 0 && size > max {
		return New(ErrCodeInputTooLarge, "%s is %d bytes (max %d)", name, size, max)
	}
	return nil
}

// ValidatePath validates a user-supplied input or output path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}
