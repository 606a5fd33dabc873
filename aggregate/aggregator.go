package aggregate

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/f3rmion/secagg/group"
)

var (
	// ErrFinalized is returned when adding to a finalized Aggregator.
	ErrFinalized = errors.New("aggregator already finalized")

	// ErrNilCommitment is returned for a nil commitment or one missing a point.
	ErrNilCommitment = errors.New("nil commitment")
)

// State is the result of folding commitments: the sums of all R_i and C_i.
// A State is immutable.
type State struct {
	AggR  group.Point
	AggC  group.Point
	Count int
}

// NetSecretPoint returns AggC - AggR, which equals (sum s_i)*G.
func (s *State) NetSecretPoint(g group.Group) group.Point {
	return g.NewPoint().Sub(s.AggC, s.AggR)
}

// Equal reports whether both states hold the same sums.
func (s *State) Equal(other *State) bool {
	return s.AggR.Equal(other.AggR) && s.AggC.Equal(other.AggC)
}

// Aggregator folds commitments into running sums.
//
// An Aggregator is not safe for concurrent use; use [ParallelSum] to fold on
// several goroutines.
type Aggregator struct {
	group     group.Group
	aggR      group.Point
	aggC      group.Point
	count     int
	finalized bool
}

// NewAggregator returns an Aggregator with both sums at the identity.
func NewAggregator(g group.Group) *Aggregator {
	return &Aggregator{
		group: g,
		aggR:  g.NewPoint(),
		aggC:  g.NewPoint(),
	}
}

// Add folds a commitment into the running sums.
func (a *Aggregator) Add(c *Commitment) error {
	if a.finalized {
		return ErrFinalized
	}
	if c == nil || c.R == nil || c.C == nil {
		return ErrNilCommitment
	}
	a.aggR = a.group.NewPoint().Add(a.aggR, c.R)
	a.aggC = a.group.NewPoint().Add(a.aggC, c.C)
	a.count++
	return nil
}

// Count returns the number of commitments folded so far.
func (a *Aggregator) Count() int {
	return a.count
}

// Finalize seals the aggregator and returns the final state. Later calls
// return the same sums.
func (a *Aggregator) Finalize() *State {
	a.finalized = true
	return &State{
		AggR:  a.group.NewPoint().Set(a.aggR),
		AggC:  a.group.NewPoint().Set(a.aggC),
		Count: a.count,
	}
}

// Sum folds commitments sequentially.
func Sum(g group.Group, commitments []*Commitment) (*State, error) {
	agg := NewAggregator(g)
	for _, c := range commitments {
		if err := agg.Add(c); err != nil {
			return nil, err
		}
	}
	return agg.Finalize(), nil
}

// ParallelSum splits commitments into at most workers contiguous chunks,
// folds each chunk on its own goroutine and adds the partial sums. The
// result equals Sum for any worker count.
func ParallelSum(ctx context.Context, g group.Group, commitments []*Commitment, workers int) (*State, error) {
	if workers < 1 {
		return nil, fmt.Errorf("aggregate: workers must be positive, got %d", workers)
	}
	if workers > len(commitments) {
		workers = len(commitments)
	}
	if workers <= 1 {
		return Sum(g, commitments)
	}

	partials := make([]*State, workers)
	chunk := (len(commitments) + workers - 1) / workers

	eg, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		lo := w * chunk
		if lo >= len(commitments) {
			break
		}
		hi := min(lo+chunk, len(commitments))
		eg.Go(func() error {
			agg := NewAggregator(g)
			for _, c := range commitments[lo:hi] {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := agg.Add(c); err != nil {
					return err
				}
			}
			partials[w] = agg.Finalize()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	total := NewAggregator(g)
	for _, p := range partials {
		if p == nil {
			continue
		}
		total.aggR = g.NewPoint().Add(total.aggR, p.AggR)
		total.aggC = g.NewPoint().Add(total.aggC, p.AggC)
		total.count += p.Count
	}
	return total.Finalize(), nil
}
