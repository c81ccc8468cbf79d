package cli

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func TestSpinnerStop(t *testing.T) {
	s := newSpinner(context.Background(), "Comparing...")
	s.Start()
	time.Sleep(20 * time.Millisecond)
	s.Stop()
	s.Stop()
}

func TestSpinnerContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinner(ctx, "Comparing...")
	s.Start()
	cancel()

	deadline := time.After(time.Second)
	for !s.Cancelled() {
		select {
		case <-deadline:
			t.Fatal("spinner did not stop after context cancellation")
		case <-time.After(5 * time.Millisecond):
		}
	}
	s.Stop()
}

func TestSpinnerDrawsWhenVisible(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(context.Background(), "Comparing...")
	s.w = &buf
	s.visible = true
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !bytes.Contains(buf.Bytes(), []byte("Comparing...")) {
		t.Errorf("spinner output %q missing message", buf.String())
	}
}
