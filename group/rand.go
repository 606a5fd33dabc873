package group

import (
	"fmt"
	"io"
	"math/big"
)

// MaxDraws bounds the rejection sampling loop in RandomScalarInRange.
// With a masked candidate every draw succeeds with probability > 1/2, so
// running out of draws means the source is broken.
const MaxDraws = 128

var one = big.NewInt(1)

// RandomScalarInRange returns a uniformly random integer in [low, high]
// read from r.
func RandomScalarInRange(r io.Reader, low, high *big.Int) (*big.Int, error) {
	if low.Cmp(high) > 0 {
		return nil, fmt.Errorf("empty range [%s, %s]", low, high)
	}
	width := new(big.Int).Sub(high, low)
	width.Add(width, one)

	max := new(big.Int).Sub(width, one)
	bitLen := max.BitLen()
	if bitLen == 0 {
		return new(big.Int).Set(low), nil
	}
	buf := make([]byte, (bitLen+7)/8)
	// mask the unused top bits of the first byte
	topMask := byte(0xff >> (uint(len(buf)*8 - bitLen)))

	candidate := new(big.Int)
	for i := 0; i < MaxDraws; i++ {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInsufficientEntropy, err)
		}
		buf[0] &= topMask
		candidate.SetBytes(buf)
		if candidate.Cmp(width) < 0 {
			return candidate.Add(candidate, low), nil
		}
	}
	return nil, fmt.Errorf("%w: no value in range after %d draws", ErrInsufficientEntropy, MaxDraws)
}

// RandomScalar returns a uniformly random scalar in [1, order-1].
func RandomScalar(r io.Reader, g Group) (*big.Int, error) {
	high := g.Order()
	high.Sub(high, one)
	return RandomScalarInRange(r, one, high)
}
