// Package noise implements the Laplace mechanism used to release the
// recovered aggregate under epsilon-differential privacy.
//
// A release adds X ~ Laplace(0, b) with scale b = sensitivity/epsilon to the
// true value. X is drawn as a symmetric two-sided exponential: the sign comes
// from u ~ U(-0.5, 0.5) and the magnitude from E ~ Exp(epsilon/sensitivity).
//
// Every sample seeds its own generator from the source handed to
// [NewLaplace]; nothing is shared between calls.
package noise

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"

	"github.com/f3rmion/secagg/rng"
)

// ErrInvalidParameter is returned for a non-positive or non-finite
// sensitivity or epsilon, and for a missing random source.
var ErrInvalidParameter = errors.New("invalid noise parameter")

// maxExactFloat is 2^53, the largest integer range float64 holds exactly.
var maxExactFloat = new(big.Int).Lsh(big.NewInt(1), 53)

// Laplace is a Laplace mechanism with fixed sensitivity and privacy budget.
type Laplace struct {
	sensitivity float64
	epsilon     float64
	src         io.Reader
}

// NewLaplace validates the parameters and returns the mechanism. src seeds
// the generator of every sample.
func NewLaplace(sensitivity, epsilon float64, src io.Reader) (*Laplace, error) {
	if !validParam(sensitivity) {
		return nil, fmt.Errorf("%w: sensitivity %v must be positive and finite", ErrInvalidParameter, sensitivity)
	}
	if !validParam(epsilon) {
		return nil, fmt.Errorf("%w: epsilon %v must be positive and finite", ErrInvalidParameter, epsilon)
	}
	if src == nil {
		return nil, fmt.Errorf("%w: nil random source", ErrInvalidParameter)
	}
	return &Laplace{sensitivity: sensitivity, epsilon: epsilon, src: src}, nil
}

func validParam(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// Sensitivity returns the query sensitivity.
func (l *Laplace) Sensitivity() float64 { return l.sensitivity }

// Epsilon returns the privacy budget.
func (l *Laplace) Epsilon() float64 { return l.epsilon }

// Scale returns b = sensitivity/epsilon.
func (l *Laplace) Scale() float64 {
	return l.sensitivity / l.epsilon
}

// Variance returns 2*b^2, the variance of the added noise.
func (l *Laplace) Variance() float64 {
	b := l.Scale()
	return 2 * b * b
}

// Sample draws one noise value.
func (l *Laplace) Sample() (float64, error) {
	r, err := rng.NewRand(l.src)
	if err != nil {
		return 0, err
	}

	// u in (-0.5, 0.5); Float64 is in [0, 1) so only -0.5 needs rejecting
	u := r.Float64() - 0.5
	for u == -0.5 {
		u = r.Float64() - 0.5
	}
	e := r.ExpFloat64() / (l.epsilon / l.sensitivity)

	if u < 0 {
		return -e, nil
	}
	return e, nil
}

// Apply returns v plus one noise sample.
func (l *Laplace) Apply(v float64) (float64, error) {
	x, err := l.Sample()
	if err != nil {
		return 0, err
	}
	return v + x, nil
}

// ApplyScalar releases a recovered scalar. It fails for scalars that a
// float64 cannot hold exactly.
func (l *Laplace) ApplyScalar(k *big.Int) (float64, error) {
	if k.CmpAbs(maxExactFloat) > 0 {
		return 0, fmt.Errorf("noise: scalar %s exceeds the exact float64 range", k)
	}
	return l.Apply(float64(k.Int64()))
}
