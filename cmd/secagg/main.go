// Command secagg runs one blinded aggregation round and prints the
// differentially private total.
//
// Each participant commits to its secret as C_i = r_i*G + s_i*G next to its
// blinding commitment R_i = r_i*G. The commitments are summed, the blinding
// is removed, the total is recovered with a bounded discrete log search and
// Laplace noise is added before release.
//
// # Configuration File
//
//	curve: "secp256k1"
//	participants: 10
//	secret: 99
//	sensitivity: 1.0
//	epsilon: 0.1
//	dlog:
//	  strategy: "linear"
//	  max_iterations: 1048576
//	seed: ""          # hex key, empty draws from crypto/rand
//	metrics_file: ""
//	log:
//	  level: "info"
//	  format: "text"
//
// See package config for the full list of keys.
//
// # Usage
//
//	go run ./cmd/secagg
//	go run ./cmd/secagg --config=run.yaml
//	go run ./cmd/secagg --curve=toy10007 --participants=50 --secret=7 --strategy=parallel --workers=4
package main

import (
	"context"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/crypto/blake2b"

	"github.com/f3rmion/secagg/config"
	"github.com/f3rmion/secagg/curves"
	"github.com/f3rmion/secagg/dlog"
	"github.com/f3rmion/secagg/metrics"
	"github.com/f3rmion/secagg/rng"
	"github.com/f3rmion/secagg/round"
)

type flags struct {
	configPath       string
	curve            string
	participants     int
	secret           int64
	sensitivity      float64
	epsilon          float64
	strategy         string
	maxIterations    uint64
	workers          int
	aggregateWorkers int
	seed             string
	logLevel         string
	logFormat        string
	metricsFile      string
}

func main() {
	var f flags
	fs := flag.CommandLine
	fs.StringVar(&f.configPath, "config", "", "Path to YAML config file")
	fs.StringVar(&f.curve, "curve", "", "Curve: "+strings.Join(curves.Supported(), ", "))
	fs.IntVar(&f.participants, "participants", 0, "Number of participants sharing --secret")
	fs.Int64Var(&f.secret, "secret", 0, "Secret held by every participant")
	fs.Float64Var(&f.sensitivity, "sensitivity", 0, "Laplace sensitivity")
	fs.Float64Var(&f.epsilon, "epsilon", 0, "Privacy budget")
	fs.StringVar(&f.strategy, "strategy", "", "Discrete log strategy: linear, parallel or bsgs")
	fs.Uint64Var(&f.maxIterations, "max-iterations", 0, "Discrete log search bound, 0 for the whole subgroup")
	fs.IntVar(&f.workers, "workers", 0, "Discrete log workers")
	fs.IntVar(&f.aggregateWorkers, "aggregate-workers", 0, "Goroutines summing commitments")
	fs.StringVar(&f.seed, "seed", "", "Hex key for a reproducible run")
	fs.StringVar(&f.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	fs.StringVar(&f.logFormat, "log-format", "", "Log format: text or json")
	fs.StringVar(&f.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		cancel()
	}()

	cfg, err := config.Load(f.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	applyFlagOverrides(cfg, &f, visited(fs))

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	if err := run(ctx, cfg, os.Stdout, os.Stderr); err != nil {
		if ctx.Err() != nil {
			fmt.Fprintln(os.Stderr, "Interrupted")
		}
		os.Exit(1)
	}
}

func visited(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

// applyFlagOverrides copies every explicitly set flag over the loaded config.
func applyFlagOverrides(cfg *config.Config, f *flags, set map[string]bool) {
	if set["curve"] {
		cfg.Curve = f.curve
	}
	if set["participants"] {
		cfg.Participants = f.participants
		cfg.Secrets = nil
	}
	if set["secret"] {
		cfg.Secret = f.secret
		cfg.Secrets = nil
	}
	if set["sensitivity"] {
		cfg.Sensitivity = f.sensitivity
	}
	if set["epsilon"] {
		cfg.Epsilon = f.epsilon
	}
	if set["strategy"] {
		cfg.DLog.Strategy = dlog.Strategy(f.strategy)
	}
	if set["max-iterations"] {
		cfg.DLog.MaxIterations = f.maxIterations
	}
	if set["workers"] {
		cfg.DLog.Workers = f.workers
	}
	if set["aggregate-workers"] {
		cfg.AggregateWorkers = f.aggregateWorkers
	}
	if set["seed"] {
		cfg.Seed = f.seed
	}
	if set["log-level"] {
		cfg.Log.Level = f.logLevel
	}
	if set["log-format"] {
		cfg.Log.Format = f.logFormat
	}
	if set["metrics-file"] {
		cfg.MetricsFile = f.metricsFile
	}
}

func newLogger(cfg config.LogConfig, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// randomness returns the blinding and noise sources. A seed yields two
// independent keyed streams so that a replay reproduces both.
func randomness(seed string) (blind, noise io.Reader, err error) {
	if seed == "" {
		return rng.System(), rng.System(), nil
	}
	key, err := hex.DecodeString(seed)
	if err != nil {
		return nil, nil, fmt.Errorf("seed: %w", err)
	}
	blindKey := blake2b.Sum256(append([]byte("blind:"), key...))
	noiseKey := blake2b.Sum256(append([]byte("noise:"), key...))
	b, err := rng.NewKeyedPRNG(blindKey[:])
	if err != nil {
		return nil, nil, err
	}
	n, err := rng.NewKeyedPRNG(noiseKey[:])
	if err != nil {
		return nil, nil, err
	}
	return b, n, nil
}

// run executes one round. The exact total never reaches out; only the noisy
// value is printed.
func run(ctx context.Context, cfg *config.Config, out, logOut io.Writer) error {
	log, err := newLogger(cfg.Log, logOut)
	if err != nil {
		return err
	}

	g, err := curves.FromName(cfg.Curve)
	if err != nil {
		log.Error("unknown curve", "err", err)
		return err
	}

	blind, noiseSrc, err := randomness(cfg.Seed)
	if err != nil {
		log.Error("invalid seed", "err", err)
		return err
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	r, err := round.New(g, round.Config{
		Secrets:          cfg.SecretValues(),
		Sensitivity:      cfg.Sensitivity,
		Epsilon:          cfg.Epsilon,
		DLog:             cfg.DLog,
		AggregateWorkers: cfg.AggregateWorkers,
	},
		round.WithRand(blind),
		round.WithNoiseSource(noiseSrc),
		round.WithLogger(log),
		round.WithMetrics(m),
	)
	if err != nil {
		log.Error("invalid round configuration", "err", err)
		return err
	}

	outcome, runErr := r.Run(ctx)

	if cfg.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(cfg.MetricsFile, reg); err != nil {
			log.Warn("writing metrics", "path", cfg.MetricsFile, "err", err)
		}
	}

	if runErr != nil {
		if errors.Is(runErr, dlog.ErrNotFound) {
			log.Error("aggregate outside the search range", "max_iterations", cfg.DLog.MaxIterations)
		}
		return runErr
	}

	fmt.Fprintf(out, "Noisy aggregate: %.4f\n", outcome.Noisy)
	fmt.Fprintf(out, "Participants:    %d\n", outcome.Participants)
	fmt.Fprintf(out, "Elapsed:         %s\n", outcome.Elapsed)
	return nil
}
