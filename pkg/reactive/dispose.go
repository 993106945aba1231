package reactive

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// DisposeAll disposes every store concurrently and returns the first panic
// recovered from any one of them, wrapped as an error. It exists for the
// case a large subtree unmounts in one reconciliation pass (§4.4 "a removed
// subtree disposes every hook store it contained"): the stores are
// independent of each other by construction (a well-behaved effect cleanup
// only touches its own component's resources), so disposing them in
// parallel shortens teardown of a wide tree without changing observable
// behavior.
func DisposeAll(ctx context.Context, stores []*HookStore) error {
	g, _ := errgroup.WithContext(ctx)
	for _, store := range stores {
		store := store
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = panicErr{recovered: r}
				}
			}()
			store.Dispose()
			return nil
		})
	}
	return g.Wait()
}

type panicErr struct {
	recovered any
}

func (p panicErr) Error() string {
	return "reactive: panic during hook store disposal"
}

func (p panicErr) Unwrap() error {
	if err, ok := p.recovered.(error); ok {
		return err
	}
	return nil
}
