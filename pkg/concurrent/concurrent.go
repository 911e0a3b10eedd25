package concurrent

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Concurrent runs action for each element in its own goroutine and waits for
// all of them. It returns the first error encountered.
func Concurrent[T any](items []T, action func(T) error) error {
	errGroup := errgroup.Group{}
	for _, value := range items {
		errGroup.Go(func() error {
			return action(value)
		})
	}
	return errGroup.Wait()
}

// ParallelMust runs action for each element in its own goroutine and waits
// for all of them.
func ParallelMust[T any](items []T, action func(T)) {
	wg := sync.WaitGroup{}
	for _, value := range items {
		wg.Add(1)
		go func(value T) {
			defer wg.Done()
			action(value)
		}(value)
	}
	wg.Wait()
}

// Map applies mapFn to every element with at most workers goroutines and
// returns the results in input order. A non-positive workers count means
// GOMAXPROCS. The first error cancels ctx for the remaining calls and is
// returned; results are nil in that case.
func Map[T any, R any](ctx context.Context, items []T, workers int, mapFn func(context.Context, T) (R, error)) ([]R, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	out := make([]R, len(items))
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(workers)

	for idx, value := range items {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := mapFn(ctx, value)
			if err != nil {
				return err
			}
			out[idx] = res
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// ParallelMap applies mapFn to every element with at most workers
// goroutines, preserving order.
func ParallelMap[T any, R any](items []T, workers int, mapFn func(T) R) []R {
	out, _ := Map(context.Background(), items, workers, func(_ context.Context, v T) (R, error) {
		return mapFn(v), nil
	})
	return out
}

// ParallelFilter keeps the elements accepted by filterFn, evaluated with at
// most concurrency goroutines. Order is preserved.
func ParallelFilter[T any](items []T, concurrency int, filterFn func(T) bool) []T {
	keep := ParallelMap(items, concurrency, filterFn)
	out := make([]T, 0, len(items))
	for idx, ok := range keep {
		if ok {
			out = append(out, items[idx])
		}
	}
	return out
}

// Merge merges multiple channels of T into a single output channel.
func Merge[T any](chs ...<-chan T) <-chan T {
	out := make(chan T)
	var wg sync.WaitGroup
	wg.Add(len(chs))
	for _, ch := range chs {
		go func(c <-chan T) {
			defer wg.Done()
			for v := range c {
				out <- v
			}
		}(ch)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}
