package site

import (
	"context"
	"sync"
)

type orderedResult[T any] struct {
	Value T
	Err   error
}

// runOrdered calls fn for every item on at most concurrency goroutines and
// returns the results in input order. Items not yet started when ctx is
// done get ctx.Err() and fn is not called for them.
func runOrdered[T any, R any](ctx context.Context, items []T, concurrency int, fn func(context.Context, T) (R, error)) []orderedResult[R] {
	if len(items) == 0 {
		return nil
	}
	if concurrency < 1 {
		concurrency = 1
	}
	if concurrency > len(items) {
		concurrency = len(items)
	}

	sem := make(chan struct{}, concurrency)
	results := make([]orderedResult[R], len(items))

	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		go func(i int, item T) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				results[i] = orderedResult[R]{Err: ctx.Err()}
				return
			}
			defer func() { <-sem }()
			if err := ctx.Err(); err != nil {
				results[i] = orderedResult[R]{Err: err}
				return
			}
			v, err := fn(ctx, item)
			results[i] = orderedResult[R]{Value: v, Err: err}
		}(i, item)
	}
	wg.Wait()
	return results
}
