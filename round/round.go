package round

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"github.com/f3rmion/secagg/aggregate"
	"github.com/f3rmion/secagg/dlog"
	"github.com/f3rmion/secagg/group"
	"github.com/f3rmion/secagg/metrics"
	"github.com/f3rmion/secagg/noise"
	"github.com/f3rmion/secagg/rng"
)

// ErrConsumed is returned by Run on a round that already ran.
var ErrConsumed = errors.New("round already consumed")

// Config describes one round.
type Config struct {
	// Secrets holds one secret per participant.
	Secrets []*big.Int

	// Sensitivity and Epsilon parameterize the Laplace release.
	Sensitivity float64
	Epsilon     float64

	// DLog configures scalar recovery.
	DLog dlog.Config

	// AggregateWorkers > 1 folds commitments on that many goroutines.
	AggregateWorkers int
}

// Outcome is the result of a successful round.
type Outcome struct {
	Participants int
	AggR         group.Point
	AggC         group.Point
	NetSecret    group.Point

	// Recovered is the exact aggregate. It must not be published; Noisy is
	// the value to release.
	Recovered  *big.Int
	Noisy      float64
	Iterations uint64
	Elapsed    time.Duration
}

// Option customizes a Round.
type Option func(*Round)

// WithRand sets the source of blinding scalars. Defaults to rng.System().
func WithRand(r io.Reader) Option {
	return func(rd *Round) { rd.rand = r }
}

// WithNoiseSource sets the source seeding the Laplace mechanism. Defaults to
// rng.System().
func WithNoiseSource(r io.Reader) Option {
	return func(rd *Round) { rd.noiseSrc = r }
}

// WithLogger sets the structured logger. Defaults to a discarding logger.
func WithLogger(l *slog.Logger) Option {
	return func(rd *Round) { rd.log = l }
}

// WithMetrics records round outcomes to m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(rd *Round) { rd.metrics = m }
}

// WithClock overrides time.Now for elapsed time measurement.
func WithClock(now func() time.Time) Option {
	return func(rd *Round) { rd.now = now }
}

// Round is a single-use aggregation round.
type Round struct {
	mu       sync.Mutex
	group    group.Group
	secrets  []*big.Int
	solver   *dlog.Solver
	laplace  *noise.Laplace
	workers  int
	rand     io.Reader
	noiseSrc io.Reader
	log      *slog.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
	consumed bool
}

// New validates cfg and prepares a round over g. Parameter errors surface
// here, before any randomness is drawn.
func New(g group.Group, cfg Config, opts ...Option) (*Round, error) {
	r := &Round{
		group:    g,
		workers:  cfg.AggregateWorkers,
		rand:     rng.System(),
		noiseSrc: rng.System(),
		log:      slog.New(slog.DiscardHandler),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}

	for i, s := range cfg.Secrets {
		if s == nil || s.Sign() < 0 {
			return nil, fmt.Errorf("participant %d: %w", i+1, aggregate.ErrInvalidSecret)
		}
	}
	r.secrets = make([]*big.Int, len(cfg.Secrets))
	for i, s := range cfg.Secrets {
		r.secrets[i] = new(big.Int).Set(s)
	}

	solver, err := dlog.NewSolver(g, nil, cfg.DLog)
	if err != nil {
		return nil, err
	}
	r.solver = solver

	laplace, err := noise.NewLaplace(cfg.Sensitivity, cfg.Epsilon, r.noiseSrc)
	if err != nil {
		return nil, err
	}
	r.laplace = laplace

	return r, nil
}

// Run executes the round. It consumes the round even when it fails.
func (r *Round) Run(ctx context.Context) (*Outcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.consumed {
		return nil, ErrConsumed
	}
	r.consumed = true

	log := r.log.With("curve", r.group.Name(), "participants", len(r.secrets))
	r.metrics.RoundStarted(len(r.secrets))

	out, err := r.run(ctx, log)
	if err != nil {
		log.Error("round aborted", "err", err)
		r.metrics.RoundFinished(statusOf(err), 0, 0, r.laplace.Scale())
		return nil, err
	}
	r.metrics.RoundFinished(metrics.StatusOK, out.Elapsed, out.Iterations, r.laplace.Scale())
	log.Info("round complete",
		"noisy_result", out.Noisy,
		"dlog_iterations", out.Iterations,
		"elapsed", out.Elapsed)
	return out, nil
}

func (r *Round) run(ctx context.Context, log *slog.Logger) (*Outcome, error) {
	gen := aggregate.NewGenerator(r.group, r.rand)
	contributions, err := gen.Generate(r.secrets)
	if err != nil {
		return nil, fmt.Errorf("generate contributions: %w", err)
	}
	defer aggregate.EraseAll(contributions)

	commitments := aggregate.Commitments(contributions)
	if log.Enabled(ctx, slog.LevelDebug) {
		for _, c := range commitments {
			log.Debug("commitment", "id", c.ID, "R", group.Hex(c.R), "C", group.Hex(c.C))
		}
	}

	start := r.now()

	var state *aggregate.State
	if r.workers > 1 {
		state, err = aggregate.ParallelSum(ctx, r.group, commitments, r.workers)
	} else {
		state, err = aggregate.Sum(r.group, commitments)
	}
	if err != nil {
		return nil, fmt.Errorf("aggregate: %w", err)
	}

	net := state.NetSecretPoint(r.group)
	log.Debug("aggregated",
		"aggR", group.Hex(state.AggR),
		"aggC", group.Hex(state.AggC),
		"net", group.Hex(net))

	res, err := r.solver.Solve(ctx, net)
	if err != nil {
		return nil, fmt.Errorf("recover aggregate: %w", err)
	}

	noisy, err := r.laplace.ApplyScalar(res.Scalar)
	if err != nil {
		return nil, fmt.Errorf("release: %w", err)
	}
	elapsed := r.now().Sub(start)

	return &Outcome{
		Participants: state.Count,
		AggR:         state.AggR,
		AggC:         state.AggC,
		NetSecret:    net,
		Recovered:    res.Scalar,
		Noisy:        noisy,
		Iterations:   res.Iterations,
		Elapsed:      elapsed,
	}, nil
}

func statusOf(err error) string {
	switch {
	case errors.Is(err, dlog.ErrNotFound):
		return metrics.StatusNotFound
	case errors.Is(err, group.ErrInsufficientEntropy):
		return metrics.StatusEntropy
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return metrics.StatusCancelled
	case errors.Is(err, aggregate.ErrNilCommitment), errors.Is(err, group.ErrInvalidPoint):
		return metrics.StatusInvalid
	default:
		return metrics.StatusOtherFailed
	}
}
