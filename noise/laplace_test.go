package noise

import (
	"bytes"
	"crypto/rand"
	"math"
	"math/big"
	"testing"

	"github.com/montanaflynn/stats"
	"github.com/stretchr/testify/require"

	"github.com/f3rmion/secagg/rng"
)

func TestNewLaplace(t *testing.T) {
	bad := []struct {
		name                 string
		sensitivity, epsilon float64
	}{
		{"ZeroSensitivity", 0, 0.1},
		{"NegativeSensitivity", -1, 0.1},
		{"ZeroEpsilon", 1, 0},
		{"NegativeEpsilon", 1, -0.5},
		{"NaNEpsilon", 1, math.NaN()},
		{"InfSensitivity", math.Inf(1), 0.1},
	}
	for _, tc := range bad {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewLaplace(tc.sensitivity, tc.epsilon, rand.Reader)
			require.ErrorIs(t, err, ErrInvalidParameter)
		})
	}

	t.Run("NilSource", func(t *testing.T) {
		_, err := NewLaplace(1, 0.1, nil)
		require.ErrorIs(t, err, ErrInvalidParameter)
	})

	t.Run("Scale", func(t *testing.T) {
		l, err := NewLaplace(1, 0.1, rand.Reader)
		require.NoError(t, err)
		require.InDelta(t, 10.0, l.Scale(), 1e-12)
		require.InDelta(t, 200.0, l.Variance(), 1e-9)
	})
}

func TestDistribution(t *testing.T) {
	const trials = 200000

	for _, tc := range []struct {
		sensitivity, epsilon float64
	}{
		{1.0, 0.1},
		{2.0, 1.0},
		{0.5, 2.0},
	} {
		prng, err := rng.NewKeyedPRNG([]byte("laplace-distribution"))
		require.NoError(t, err)
		l, err := NewLaplace(tc.sensitivity, tc.epsilon, prng)
		require.NoError(t, err)

		const v = 15.0
		samples := make([]float64, trials)
		positive := 0
		for i := range samples {
			out, err := l.Apply(v)
			require.NoError(t, err)
			samples[i] = out - v
			if samples[i] > 0 {
				positive++
			}
		}

		b := l.Scale()
		mean, err := stats.Mean(samples)
		require.NoError(t, err)
		variance, err := stats.PopulationVariance(samples)
		require.NoError(t, err)
		median, err := stats.Median(samples)
		require.NoError(t, err)

		// standard error of the mean is sqrt(2)*b/sqrt(trials)
		require.InDelta(t, 0, mean, 6*math.Sqrt2*b/math.Sqrt(trials), "mean")
		require.InEpsilon(t, l.Variance(), variance, 0.05, "variance")
		require.InDelta(t, 0, median, 0.05*b, "median")
		require.InDelta(t, 0.5, float64(positive)/trials, 0.01, "sign balance")
	}
}

func TestIndependentSamples(t *testing.T) {
	prng, err := rng.NewKeyedPRNG([]byte("independent"))
	require.NoError(t, err)
	l, err := NewLaplace(1, 0.1, prng)
	require.NoError(t, err)

	a, err := l.Sample()
	require.NoError(t, err)
	b, err := l.Sample()
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestReproducibleWithKeyedSource(t *testing.T) {
	draw := func() []float64 {
		prng, err := rng.NewKeyedPRNG([]byte("replay"))
		require.NoError(t, err)
		l, err := NewLaplace(1, 0.1, prng)
		require.NoError(t, err)
		out := make([]float64, 8)
		for i := range out {
			out[i], err = l.Sample()
			require.NoError(t, err)
		}
		return out
	}
	require.Equal(t, draw(), draw())
}

func TestApplyScalar(t *testing.T) {
	l, err := NewLaplace(1, 0.1, rand.Reader)
	require.NoError(t, err)

	t.Run("TailBound", func(t *testing.T) {
		// P(|X| > 50) = exp(-5) for b = 10; allow a handful of misses
		misses := 0
		for i := 0; i < 1000; i++ {
			out, err := l.ApplyScalar(big.NewInt(15))
			require.NoError(t, err)
			if math.Abs(out-15) > 50 {
				misses++
			}
		}
		require.Less(t, misses, 25)
	})

	t.Run("TooLarge", func(t *testing.T) {
		_, err := l.ApplyScalar(new(big.Int).Lsh(big.NewInt(1), 60))
		require.Error(t, err)
	})
}

func TestSourceFailure(t *testing.T) {
	l, err := NewLaplace(1, 0.1, bytes.NewReader(make([]byte, 40)))
	require.NoError(t, err)

	_, err = l.Sample()
	require.NoError(t, err)
	_, err = l.Sample()
	require.Error(t, err)
}
