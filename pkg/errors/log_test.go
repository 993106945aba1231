package errors

import (
	"bytes"
	"os"
	"testing"

	"golang.org/x/time/rate"
)

// captureStderr redirects os.Stderr for the duration of fn and returns what
// was written to it.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	old := os.Stderr
	os.Stderr = w
	defer func() { os.Stderr = old }()

	fn()

	w.Close()
	var buf bytes.Buffer
	buf.ReadFrom(r)
	return buf.String()
}

func TestLogHandlerWithoutLimiterLogsEveryCall(t *testing.T) {
	h := &LogHandler{}
	out := captureStderr(t, func() {
		for i := 0; i < 5; i++ {
			h.HandlePanic(&PanicError{Op: "loop", Value: "boom"})
		}
	})
	count := bytes.Count([]byte(out), []byte("boom"))
	if count != 5 {
		t.Errorf("expected 5 log lines, got %d: %q", count, out)
	}
}

func TestLogHandlerLimiterThrottlesBurst(t *testing.T) {
	h := &LogHandler{Limiter: rate.NewLimiter(0, 1)}
	out := captureStderr(t, func() {
		for i := 0; i < 5; i++ {
			h.HandlePanic(&PanicError{Op: "loop", Value: "boom"})
		}
	})
	count := bytes.Count([]byte(out), []byte("boom"))
	if count != 1 {
		t.Errorf("expected the limiter to allow exactly 1 of 5 calls, got %d: %q", count, out)
	}
}
