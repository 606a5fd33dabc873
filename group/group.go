package group

import (
	"encoding/hex"
	"errors"
	"math/big"
)

var (
	// ErrInvalidPoint is returned for encodings that do not describe a point
	// of the prime-order subgroup, and for groups built on such a generator.
	ErrInvalidPoint = errors.New("invalid point")

	// ErrInsufficientEntropy is returned when a random source fails or cannot
	// produce a value in range after MaxDraws attempts.
	ErrInsufficientEntropy = errors.New("insufficient entropy")
)

// Point represents an element of a prime-order elliptic-curve group.
//
// All arithmetic methods use a mutable receiver pattern: they set the
// receiver to the result and return it.
//
// The identity element (point at infinity) is the additive identity:
// P + Identity = P for all points P.
type Point interface {
	// Add sets the receiver to a+b and returns it.
	Add(a, b Point) Point
	// Sub sets the receiver to a-b and returns it.
	Sub(a, b Point) Point
	// Negate sets the receiver to -a and returns it.
	Negate(a Point) Point
	// ScalarMult sets the receiver to k*p and returns it.
	// k is reduced modulo the group order and may be negative.
	ScalarMult(k *big.Int, p Point) Point
	// Set sets the receiver to a and returns it.
	Set(a Point) Point
	// Bytes returns the canonical byte representation of the point.
	Bytes() []byte
	// SetBytes sets the receiver from a byte slice and returns it.
	// Returns an error wrapping ErrInvalidPoint if the data is malformed,
	// not on the curve, or outside the prime-order subgroup.
	SetBytes(data []byte) (Point, error)
	// Equal reports whether the receiver equals b.
	Equal(b Point) bool
	// IsIdentity reports whether the receiver is the identity element.
	IsIdentity() bool
}

// Group is a cyclic group of prime order generated by a fixed base point.
// Its parameters never change after construction and it is safe for
// concurrent use.
type Group interface {
	// Name returns the curve identifier, e.g. "secp256k1".
	Name() string
	// NewPoint returns a new identity point.
	NewPoint() Point
	// Generator returns a new copy of the group's base point.
	Generator() Point
	// Order returns a copy of the prime order of the generated subgroup.
	Order() *big.Int
}

// BaseMult returns k*G as a new point.
func BaseMult(g Group, k *big.Int) Point {
	return g.NewPoint().ScalarMult(k, g.Generator())
}

// Sum returns the sum of points as a new point. An empty sum is the identity.
func Sum(g Group, points ...Point) Point {
	acc := g.NewPoint()
	for _, p := range points {
		acc = g.NewPoint().Add(acc, p)
	}
	return acc
}

// Reduce returns k mod order in [0, order).
func Reduce(k, order *big.Int) *big.Int {
	return new(big.Int).Mod(k, order)
}

// Hex returns the hex encoding of the canonical point bytes.
func Hex(p Point) string {
	return hex.EncodeToString(p.Bytes())
}
