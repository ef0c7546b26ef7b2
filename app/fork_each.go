package app

import (
	"context"

	"seedrand/domain/core"
	"seedrand/ports"

	"golang.org/x/sync/errgroup"
)

// ForkEach gives each of workers goroutines its own child of root and runs
// fn on it. Children are forked up front in worker order, so worker i
// always sees the same sequence for the same root seed and history.
// The first error cancels ctx for the remaining workers.
func ForkEach(ctx context.Context, root ports.Random, workers int, fn func(ctx context.Context, worker int, r ports.Random) error) error {
	if workers <= 0 {
		return core.NewInvalidArgumentError("ForkEach", "workers %d must be > 0", workers)
	}

	children := make([]ports.Random, workers)
	for i := range children {
		child, err := root.Fork()
		if err != nil {
			return err
		}
		children[i] = child
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, child := range children {
		g.Go(func() error {
			return fn(gctx, i, child)
		})
	}
	return g.Wait()
}
