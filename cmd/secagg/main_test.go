package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/f3rmion/secagg/config"
	"github.com/f3rmion/secagg/dlog"
)

func TestApplyFlagOverrides(t *testing.T) {
	cfg := config.Default()
	cfg.Secrets = []int64{1, 2, 3}

	f := &flags{
		curve:         "toy101",
		participants:  4,
		epsilon:       0.7,
		strategy:      "bsgs",
		maxIterations: 50,
		secret:        123, // not marked as set
	}
	applyFlagOverrides(cfg, f, map[string]bool{
		"curve":          true,
		"participants":   true,
		"epsilon":        true,
		"strategy":       true,
		"max-iterations": true,
	})

	require.Equal(t, "toy101", cfg.Curve)
	require.Nil(t, cfg.Secrets)
	require.Equal(t, 4, cfg.Participants)
	require.Equal(t, int64(99), cfg.Secret)
	require.Equal(t, 0.7, cfg.Epsilon)
	require.Equal(t, 1.0, cfg.Sensitivity)
	require.Equal(t, dlog.BabyStepGiantStep, cfg.DLog.Strategy)
	require.Equal(t, uint64(50), cfg.DLog.MaxIterations)
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Curve = "toy101"
	cfg.Participants = 3
	cfg.Secret = 4
	cfg.Seed = "00112233"
	cfg.MetricsFile = filepath.Join(dir, "secagg.prom")
	require.NoError(t, cfg.Validate())

	var out, logs bytes.Buffer
	require.NoError(t, run(context.Background(), cfg, &out, &logs))
	require.Contains(t, out.String(), "Noisy aggregate:")
	require.Contains(t, out.String(), "Participants:    3")
	require.Contains(t, logs.String(), "round complete")

	prom, err := os.ReadFile(cfg.MetricsFile)
	require.NoError(t, err)
	require.Contains(t, string(prom), `secagg_rounds_total{status="ok"} 1`)

	// Same seed, same noisy release.
	var again bytes.Buffer
	require.NoError(t, run(context.Background(), cfg, &again, &bytes.Buffer{}))
	require.Equal(t, firstLine(out.String()), firstLine(again.String()))
}

func TestRunNotFoundPrintsNothing(t *testing.T) {
	cfg := config.Default()
	cfg.Curve = "toy10007"
	cfg.Participants = 10
	cfg.Secret = 50
	cfg.DLog.MaxIterations = 100

	var out, logs bytes.Buffer
	err := run(context.Background(), cfg, &out, &logs)
	require.ErrorIs(t, err, dlog.ErrNotFound)
	require.Empty(t, out.String())
	require.Contains(t, logs.String(), "round aborted")
}

func TestRandomness(t *testing.T) {
	b, n, err := randomness("abcd")
	require.NoError(t, err)

	bb := make([]byte, 16)
	nb := make([]byte, 16)
	_, err = b.Read(bb)
	require.NoError(t, err)
	_, err = n.Read(nb)
	require.NoError(t, err)
	require.NotEqual(t, bb, nb)

	_, _, err = randomness("xyz")
	require.Error(t, err)
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
