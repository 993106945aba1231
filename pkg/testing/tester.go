package testing

import (
	"errors"
	"testing"
	"time"

	"github.com/loomui/loom/pkg/core"
	"github.com/loomui/loom/pkg/layout"
	"github.com/loomui/loom/pkg/pipeline"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultTestWidth is the default logical width for the test surface.
	DefaultTestWidth = 800
	// DefaultTestHeight is the default logical height for the test surface.
	DefaultTestHeight = 600
)

// ErrSettleTimeout is returned when PumpAndSettle exceeds its timeout.
var ErrSettleTimeout = errors.New("PumpAndSettle timed out: pipeline did not settle")

// Tester drives a pipeline.Owner in isolation from any platform or GPU
// backend, using a fake clock instead of a real one so tests stay
// deterministic.
type Tester struct {
	Owner *pipeline.Owner
	clock *FakeClock
	size  layout.Size
}

// NewTester creates a tester with a default-sized surface and no mounted
// root. Call SetRoot (via PumpView) before the first Pump.
func NewTester() *Tester {
	return &Tester{
		Owner: pipeline.NewOwner(),
		clock: NewFakeClock(),
		size:  layout.Size{Width: DefaultTestWidth, Height: DefaultTestHeight},
	}
}

// NewTesterWithT creates a tester; there is no teardown to register since,
// unlike the donor framework's WidgetTester, this Tester touches no
// process-global state (no platform dispatch registry, no global animation
// clock) — everything it owns is local to the *pipeline.Owner it wraps.
func NewTesterWithT(t *testing.T) *Tester {
	t.Helper()
	return NewTester()
}

// Clock returns the fake clock used by PumpAndSettle.
func (t *Tester) Clock() *FakeClock {
	return t.clock
}

// SetSize sets the logical surface size for subsequent frames.
func (t *Tester) SetSize(size layout.Size) {
	t.size = size
}

// PumpView installs view as the root, resizes to the tester's current
// surface size, and runs one frame.
func (t *Tester) PumpView(view core.View) (pipeline.FrameOutput, error) {
	t.Owner.SetRoot(view)
	t.Owner.Resize(t.size)
	return t.Owner.RunFrame()
}

// Pump runs one more frame against the already-installed root.
func (t *Tester) Pump() (pipeline.FrameOutput, error) {
	return t.Owner.RunFrame()
}

// PumpAndSettle runs frames, advancing the fake clock by 16ms between each,
// until a frame rebuilds nothing and reports no change, or timeout elapses.
// Unlike the donor framework's PumpAndSettle (which also waits out tickers
// and scroll ballistics), this implementation carries no animation
// controllers (explicit non-goal), so settling reduces to "nothing left to
// rebuild or repaint".
func (t *Tester) PumpAndSettle(timeout time.Duration) error {
	const step = 16 * time.Millisecond
	var elapsed time.Duration
	for elapsed < timeout {
		out, err := t.Pump()
		if err != nil {
			return err
		}
		if out.ComponentsRebuilt == 0 && !out.Changed {
			return nil
		}
		t.clock.Advance(step)
		elapsed += step
	}
	return ErrSettleTimeout
}

// DriveConcurrently runs each writer on its own goroutine and waits for all
// of them to finish, simulating the off-driver-goroutine signal writes §5
// describes (background tasks, async completions, input producers) before
// the caller pumps a frame to observe the resulting dirty set drained.
func DriveConcurrently(writers ...func() error) error {
	var g errgroup.Group
	for _, w := range writers {
		g.Go(w)
	}
	return g.Wait()
}
