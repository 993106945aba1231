package errors

import (
	"time"

	"github.com/getsentry/sentry-go"
)

// SentryHandler is an ErrorHandler that forwards reports to Sentry, for a
// host application that wants build/layout/paint panics surfaced alongside
// its own crash reporting rather than just logged locally.
type SentryHandler struct {
	// Hub defaults to sentry.CurrentHub() when nil.
	Hub *sentry.Hub
}

func (h *SentryHandler) hub() *sentry.Hub {
	if h.Hub != nil {
		return h.Hub
	}
	return sentry.CurrentHub()
}

// HandleError reports a RuntimeError as a Sentry exception.
func (h *SentryHandler) HandleError(err *RuntimeError) {
	if err == nil {
		return
	}
	h.hub().WithScope(func(scope *sentry.Scope) {
		scope.SetTag("kind", err.Kind.String())
		scope.SetTag("op", err.Op)
		if err.Channel != "" {
			scope.SetTag("channel", err.Channel)
		}
		h.hub().CaptureException(err)
	})
}

// HandlePanic reports a recovered panic as a Sentry exception.
func (h *SentryHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	h.hub().WithScope(func(scope *sentry.Scope) {
		scope.SetTag("op", err.Op)
		scope.SetExtra("recovered_value", err.Value)
		h.hub().CaptureException(err)
	})
}

// HandleBoundaryError reports a phase-boundary error as a Sentry exception.
func (h *SentryHandler) HandleBoundaryError(err *BoundaryError) {
	if err == nil {
		return
	}
	h.hub().WithScope(func(scope *sentry.Scope) {
		scope.SetTag("phase", err.Phase)
		if err.Widget != "" {
			scope.SetTag("widget", err.Widget)
		}
		if err.RenderObject != "" {
			scope.SetTag("render_object", err.RenderObject)
		}
		h.hub().CaptureException(err)
	})
}

// Flush blocks until queued Sentry events are sent or timeout elapses,
// mirroring sentry.Flush for callers that don't hold the hub directly.
func (h *SentryHandler) Flush(timeout time.Duration) bool {
	return h.hub().Flush(timeout)
}
