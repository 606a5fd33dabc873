// Package group defines the elliptic-curve group abstraction used by the
// secure aggregation pipeline.
//
// A [Group] exposes the fixed parameters of a prime-order (sub)group: its
// generator, its order and a factory for [Point] values. Scalars are plain
// *big.Int values; every operation that consumes a scalar interprets it
// modulo the group order.
//
// # Design Philosophy
//
// Points use a mutable receiver pattern. Operations like Add, Sub and
// ScalarMult set the receiver to the result and return it, so the usual way
// to compute a fresh value is to start from a new identity point:
//
//	// Compute C = r*G + s*G
//	rG := g.NewPoint().ScalarMult(r, g.Generator())
//	sG := g.NewPoint().ScalarMult(s, g.Generator())
//	C := g.NewPoint().Add(rG, sG)
//
// Used this way inputs are never modified, and points can be shared between
// goroutines as read-only values.
//
// # Implementing a Group
//
// Backends live in their own packages:
//
//   - secp256k1: the Bitcoin curve, backed by btcec
//   - bjj: Baby Jubjub, backed by gnark-crypto
//   - weierstrass: tiny short-Weierstrass curves for tests and demos
//
// Implementations must reject points that are not on the curve, or that lie
// outside the prime-order subgroup, in SetBytes with [ErrInvalidPoint].
package group
