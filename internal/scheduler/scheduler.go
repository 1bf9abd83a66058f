// Package scheduler runs per-item actions serially or with bounded
// parallelism, stopping at the first failure.
package scheduler

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Each calls fn for every item. With limit <= 1 items run one at a time in
// slice order; otherwise at most limit calls are in flight. After the first
// error no further items are started and that error is returned. Calls
// already running are allowed to finish.
func Each[T any](ctx context.Context, items []T, limit int, fn func(context.Context, T) error) error {
	if limit <= 1 {
		return serial(ctx, items, fn)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, item := range items {
		// Go blocks while the group is full, so a failure observed here
		// stops the remaining items from being scheduled.
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			return fn(gctx, item)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func serial[T any](ctx context.Context, items []T, fn func(context.Context, T) error) error {
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(ctx, item); err != nil {
			return err
		}
	}
	return nil
}
