package errors

import (
	"fmt"
	"os"

	"golang.org/x/time/rate"
)

// LogHandler is an ErrorHandler that logs errors to stderr. A nil Limiter
// logs every call; a configured one drops calls once its rate is exceeded,
// for a component panicking every frame.
type LogHandler struct {
	// Verbose enables detailed output including stack traces.
	Verbose bool
	// Limiter, if set, throttles how often this handler writes to stderr.
	Limiter *rate.Limiter
}

func (h *LogHandler) allowed() bool {
	return h.Limiter == nil || h.Limiter.Allow()
}

// HandleError logs a RuntimeError to stderr.
func (h *LogHandler) HandleError(err *RuntimeError) {
	if err == nil || !h.allowed() {
		return
	}
	if h.Verbose {
		fmt.Fprintf(os.Stderr, "[runtime error] %s [%s]", err.Op, err.Kind)
		if err.Channel != "" {
			fmt.Fprintf(os.Stderr, " channel=%s", err.Channel)
		}
		fmt.Fprintf(os.Stderr, ": %v\n", err.Err)
		if err.StackTrace != "" {
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", err.StackTrace)
		}
	} else {
		fmt.Fprintf(os.Stderr, "[runtime error] %s: %v\n", err.Op, err.Err)
	}
}

// HandlePanic logs a PanicError to stderr.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil || !h.allowed() {
		return
	}
	if err.Op != "" {
		fmt.Fprintf(os.Stderr, "[runtime panic] %s: %v\n", err.Op, err.Value)
	} else {
		fmt.Fprintf(os.Stderr, "[runtime panic] %v\n", err.Value)
	}
	if h.Verbose && err.StackTrace != "" {
		fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", err.StackTrace)
	}
}

// HandleBoundaryError logs a BoundaryError to stderr.
func (h *LogHandler) HandleBoundaryError(err *BoundaryError) {
	if err == nil || !h.allowed() {
		return
	}
	fmt.Fprintf(os.Stderr, "[boundary error] %s\n", err.Error())
	if h.Verbose && err.StackTrace != "" {
		fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", err.StackTrace)
	}
}
