package round

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"math/big"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/f3rmion/secagg/dlog"
	"github.com/f3rmion/secagg/group"
	"github.com/f3rmion/secagg/metrics"
	"github.com/f3rmion/secagg/noise"
	"github.com/f3rmion/secagg/rng"
	"github.com/f3rmion/secagg/secp256k1"
	"github.com/f3rmion/secagg/weierstrass"
)

func bigs(vals ...int64) []*big.Int {
	out := make([]*big.Int, len(vals))
	for i, v := range vals {
		out[i] = big.NewInt(v)
	}
	return out
}

func TestEndToEnd(t *testing.T) {
	g := weierstrass.MustNew(weierstrass.Toy101)
	r, err := New(g, Config{
		Secrets:     bigs(5, 7, 3),
		Sensitivity: 1.0,
		Epsilon:     0.1,
	})
	require.NoError(t, err)

	out, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, out.Participants)
	require.Equal(t, int64(15), out.Recovered.Int64())
	require.InDelta(t, 15, out.Noisy, 50)
	require.True(t, out.NetSecret.Equal(group.BaseMult(g, big.NewInt(15))))
	require.True(t, out.NetSecret.Equal(g.NewPoint().Sub(out.AggC, out.AggR)))
}

func TestStrategiesAgree(t *testing.T) {
	g := weierstrass.MustNew(weierstrass.Toy10007)
	secrets := bigs(1200, 3400, 77, 9000, 12)
	want := int64(1200+3400+77+9000+12) % 10007

	for _, cfg := range []dlog.Config{
		{Strategy: dlog.Linear},
		{Strategy: dlog.Parallel, Workers: 4},
		{Strategy: dlog.BabyStepGiantStep},
	} {
		t.Run(string(cfg.Strategy), func(t *testing.T) {
			r, err := New(g, Config{
				Secrets:          secrets,
				Sensitivity:      1,
				Epsilon:          1,
				DLog:             cfg,
				AggregateWorkers: 3,
			})
			require.NoError(t, err)
			out, err := r.Run(context.Background())
			require.NoError(t, err)
			require.Equal(t, want, out.Recovered.Int64())
		})
	}
}

func TestNoParticipants(t *testing.T) {
	g := weierstrass.MustNew(weierstrass.Toy101)
	r, err := New(g, Config{Sensitivity: 1, Epsilon: 0.1})
	require.NoError(t, err)

	out, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Zero(t, out.Participants)
	require.Zero(t, out.Recovered.Sign())
	require.True(t, out.NetSecret.IsIdentity())
}

func TestSecp256k1Demo(t *testing.T) {
	secrets := make([]*big.Int, 9)
	for i := range secrets {
		secrets[i] = big.NewInt(99)
	}
	r, err := New(secp256k1.New(), Config{
		Secrets:     secrets,
		Sensitivity: 1,
		Epsilon:     0.1,
		DLog:        dlog.Config{MaxIterations: 1 << 12},
	})
	require.NoError(t, err)

	out, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(891), out.Recovered.Int64())
	require.Equal(t, uint64(892), out.Iterations)
}

func TestSingleUse(t *testing.T) {
	g := weierstrass.MustNew(weierstrass.Toy101)
	r, err := New(g, Config{Secrets: bigs(1), Sensitivity: 1, Epsilon: 1})
	require.NoError(t, err)

	_, err = r.Run(context.Background())
	require.NoError(t, err)
	_, err = r.Run(context.Background())
	require.ErrorIs(t, err, ErrConsumed)
}

func TestAbortReleasesNothing(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	g := weierstrass.MustNew(weierstrass.Toy10007)

	r, err := New(g, Config{
		Secrets:     bigs(600, 600),
		Sensitivity: 1,
		Epsilon:     0.1,
		DLog:        dlog.Config{MaxIterations: 1000},
	}, WithMetrics(m))
	require.NoError(t, err)

	out, err := r.Run(context.Background())
	require.ErrorIs(t, err, dlog.ErrNotFound)
	require.Nil(t, out)
	require.Equal(t, 1.0, testutil.ToFloat64(m.RoundsTotal.WithLabelValues(metrics.StatusNotFound)))
	require.Zero(t, testutil.ToFloat64(m.RoundsTotal.WithLabelValues(metrics.StatusOK)))
}

func TestEntropyFailureAborts(t *testing.T) {
	g := weierstrass.MustNew(weierstrass.Toy101)
	r, err := New(g, Config{Secrets: bigs(1, 2), Sensitivity: 1, Epsilon: 1},
		WithRand(bytes.NewReader([]byte{1})))
	require.NoError(t, err)

	out, err := r.Run(context.Background())
	require.ErrorIs(t, err, group.ErrInsufficientEntropy)
	require.Nil(t, out)
}

func TestInvalidConfig(t *testing.T) {
	g := weierstrass.MustNew(weierstrass.Toy101)

	_, err := New(g, Config{Secrets: bigs(1), Sensitivity: 0, Epsilon: 1})
	require.ErrorIs(t, err, noise.ErrInvalidParameter)

	_, err = New(g, Config{Secrets: bigs(1), Sensitivity: 1, Epsilon: -1})
	require.ErrorIs(t, err, noise.ErrInvalidParameter)

	_, err = New(g, Config{Secrets: []*big.Int{big.NewInt(-3)}, Sensitivity: 1, Epsilon: 1})
	require.Error(t, err)

	_, err = New(g, Config{Sensitivity: 1, Epsilon: 1, DLog: dlog.Config{Strategy: "rho"}})
	require.Error(t, err)
}

func TestDeterministicReplay(t *testing.T) {
	g := weierstrass.MustNew(weierstrass.Toy10007)
	run := func() *Outcome {
		blind, err := rng.NewKeyedPRNG([]byte("blinding"))
		require.NoError(t, err)
		src, err := rng.NewKeyedPRNG([]byte("noise"))
		require.NoError(t, err)
		r, err := New(g, Config{Secrets: bigs(10, 20, 30), Sensitivity: 1, Epsilon: 0.5},
			WithRand(blind), WithNoiseSource(src))
		require.NoError(t, err)
		out, err := r.Run(context.Background())
		require.NoError(t, err)
		return out
	}

	a, b := run(), run()
	require.True(t, a.AggR.Equal(b.AggR))
	require.True(t, a.AggC.Equal(b.AggC))
	require.Equal(t, a.Noisy, b.Noisy)
	require.False(t, math.IsNaN(a.Noisy))
}

func TestLoggingAndClock(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ticks := []time.Time{time.Unix(0, 0), time.Unix(0, int64(250*time.Microsecond))}
	clock := func() time.Time {
		now := ticks[0]
		if len(ticks) > 1 {
			ticks = ticks[1:]
		}
		return now
	}

	g := weierstrass.MustNew(weierstrass.Toy101)
	r, err := New(g, Config{Secrets: bigs(4, 4), Sensitivity: 1, Epsilon: 1},
		WithLogger(logger), WithClock(clock))
	require.NoError(t, err)

	out, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 250*time.Microsecond, out.Elapsed)

	var last map[string]any
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.GreaterOrEqual(t, len(lines), 4) // two commitments, aggregate, completion
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &last))
	require.Equal(t, "round complete", last["msg"])
	require.Equal(t, "toy101", last["curve"])
}
