// Package clipboard copies text to the system clipboard.
//
// The system clipboard is reached through github.com/atotto/clipboard,
// which shells out to pbcopy, xclip, xsel, wl-copy or the Windows API
// depending on the platform. Callers depend on the [Writer] interface so
// tests never touch the real clipboard.
package clipboard

import (
	"context"
	"errors"

	"github.com/atotto/clipboard"

	apperrors "github.com/matzehuels/sidediff/pkg/errors"
)

// ErrUnavailable reports that no clipboard integration exists on this system.
var ErrUnavailable = errors.New("clipboard unavailable")

// Writer places text on a clipboard.
type Writer interface {
	WriteText(text string) error
}

// WriterFunc adapts a function to a Writer.
type WriterFunc func(text string) error

// WriteText calls f.
func (f WriterFunc) WriteText(text string) error { return f(text) }

// System is the platform clipboard.
type System struct{}

// WriteText implements Writer.
func (System) WriteText(text string) error {
	if clipboard.Unsupported {
		return ErrUnavailable
	}
	return clipboard.WriteAll(text)
}

// Available reports whether the platform clipboard can be used.
func Available() bool {
	return !clipboard.Unsupported
}

// Copy writes text with w, giving up when ctx is done. Failures are
// returned as CLIPBOARD_UNAVAILABLE errors; nothing else is affected.
func Copy(ctx context.Context, w Writer, text string) error {
	if w == nil {
		return apperrors.New(apperrors.ErrCodeClipboardUnavailable, "no clipboard configured")
	}

	done := make(chan error, 1)
	go func() { done <- w.WriteText(text) }()

	select {
	case err := <-done:
		if err != nil {
			return apperrors.Wrap(apperrors.ErrCodeClipboardUnavailable, err, "copy to clipboard")
		}
		return nil
	case <-ctx.Done():
		return apperrors.Wrap(apperrors.ErrCodeClipboardUnavailable, ctx.Err(), "copy to clipboard")
	}
}
