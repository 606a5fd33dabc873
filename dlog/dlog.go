package dlog

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/f3rmion/secagg/group"
)

// ErrNotFound is returned when no scalar in the searched range maps to the
// target. The outcome is deterministic and must not be retried.
var ErrNotFound = errors.New("discrete logarithm not found")

// Strategy selects the search algorithm.
type Strategy string

const (
	Linear            Strategy = "linear"
	Parallel          Strategy = "parallel"
	BabyStepGiantStep Strategy = "bsgs"
)

const (
	// checkEvery is how many steps a walk takes between context checks.
	checkEvery = 1 << 12

	// MaxBabySteps caps the baby-step table of BabyStepGiantStep.
	MaxBabySteps = 1 << 24
)

// Config controls a Solver.
type Config struct {
	// Strategy defaults to Linear.
	Strategy Strategy `yaml:"strategy"`

	// MaxIterations bounds the searched range to [0, MaxIterations).
	// Zero means the whole subgroup.
	MaxIterations uint64 `yaml:"max_iterations"`

	// Workers is the goroutine count for Parallel. Defaults to 1.
	Workers int `yaml:"workers"`
}

// Result is a successful recovery.
type Result struct {
	// Scalar is the unique k in [0, order) with k*B == target.
	Scalar *big.Int
	// Iterations counts the group operations spent comparing candidates.
	Iterations uint64
}

// Solver searches discrete logarithms with respect to a fixed base point.
// A Solver is safe for concurrent use.
type Solver struct {
	group group.Group
	base  group.Point
	cfg   Config
	limit uint64
}

// NewSolver returns a Solver for base in g. A nil base selects the group
// generator.
func NewSolver(g group.Group, base group.Point, cfg Config) (*Solver, error) {
	if base == nil {
		base = g.Generator()
	}
	if base.IsIdentity() {
		return nil, fmt.Errorf("%w: identity base point", group.ErrInvalidPoint)
	}
	switch cfg.Strategy {
	case "":
		cfg.Strategy = Linear
	case Linear, Parallel, BabyStepGiantStep:
	default:
		return nil, fmt.Errorf("dlog: unknown strategy %q", cfg.Strategy)
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}

	limit := uint64(math.MaxUint64)
	if order := g.Order(); order.IsUint64() {
		limit = order.Uint64()
	}
	if cfg.MaxIterations > 0 && cfg.MaxIterations < limit {
		limit = cfg.MaxIterations
	}

	if cfg.Strategy == BabyStepGiantStep && isqrtCeil(limit) > MaxBabySteps {
		return nil, fmt.Errorf("dlog: range of %d scalars needs more than %d baby steps; set MaxIterations", limit, MaxBabySteps)
	}

	return &Solver{
		group: g,
		base:  g.NewPoint().Set(base),
		cfg:   cfg,
		limit: limit,
	}, nil
}

// Limit returns the exclusive upper bound of the searched range.
func (s *Solver) Limit() uint64 {
	return s.limit
}

// Strategy returns the configured strategy.
func (s *Solver) Strategy() Strategy {
	return s.cfg.Strategy
}

// Solve returns k in [0, Limit()) with k*B == target. It fails with
// ErrNotFound if there is none, and with ctx.Err() if ctx is cancelled
// first.
func (s *Solver) Solve(ctx context.Context, target group.Point) (*Result, error) {
	if target == nil {
		return nil, fmt.Errorf("%w: nil target", group.ErrInvalidPoint)
	}

	var (
		res *Result
		err error
	)
	switch s.cfg.Strategy {
	case Parallel:
		res, err = s.parallel(ctx, target)
	case BabyStepGiantStep:
		res, err = s.bsgs(ctx, target)
	default:
		res, err = s.walk(ctx, target, 0, s.limit)
	}
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, fmt.Errorf("%w: no scalar in [0, %d)", ErrNotFound, s.limit)
	}
	return res, nil
}

// walk scans k in [from, to) and returns nil without error when the range
// holds no match.
func (s *Solver) walk(ctx context.Context, target group.Point, from, to uint64) (*Result, error) {
	cur := s.group.NewPoint().ScalarMult(new(big.Int).SetUint64(from), s.base)
	var steps uint64
	for k := from; k < to; k++ {
		if steps%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		steps++
		if cur.Equal(target) {
			return &Result{Scalar: new(big.Int).SetUint64(k), Iterations: steps}, nil
		}
		cur = s.group.NewPoint().Add(cur, s.base)
	}
	return nil, nil
}
