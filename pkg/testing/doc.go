// Package testing drives a pipeline.Owner the way the embedder's driver
// goroutine would, without a platform or GPU backend: mount a view, run
// frames, and inspect the resulting FrameOutput.
//
// # Quick Start
//
//	func TestCounter(t *testing.T) {
//	    tester := loomtest.NewTesterWithT(t)
//	    out, err := tester.PumpView(MyCounter{Initial: 0})
//	    ...
//	}
//
// # Driving signals concurrently
//
// DriveConcurrently runs a set of writers on their own goroutines and waits
// for them to finish, exercising the off-driver-goroutine signal writes
// §5 describes before the next Pump drains the resulting dirty set.
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import loomtest "github.com/loomui/loom/pkg/testing"
package testing
