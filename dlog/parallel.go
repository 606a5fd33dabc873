package dlog

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/f3rmion/secagg/group"
)

var errFound = errors.New("found")

// parallel splits [0, limit) into one contiguous slice per worker. The first
// worker to find the target stores the result and cancels its siblings.
func (s *Solver) parallel(ctx context.Context, target group.Point) (*Result, error) {
	workers := uint64(s.cfg.Workers)
	if workers > s.limit {
		workers = s.limit
	}
	if workers <= 1 {
		return s.walk(ctx, target, 0, s.limit)
	}

	var (
		mu    sync.Mutex
		found *Result
	)
	chunk := s.limit / workers
	eg, egCtx := errgroup.WithContext(ctx)
	for w := uint64(0); w < workers; w++ {
		from := w * chunk
		to := from + chunk
		if w == workers-1 {
			to = s.limit
		}
		eg.Go(func() error {
			res, err := s.walk(egCtx, target, from, to)
			if err != nil {
				return err
			}
			if res == nil {
				return nil
			}
			mu.Lock()
			if found == nil {
				found = res
			}
			mu.Unlock()
			return errFound
		})
	}

	err := eg.Wait()
	if found != nil {
		return found, nil
	}
	if err != nil && !errors.Is(err, errFound) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}
	return nil, nil
}
