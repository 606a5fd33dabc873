// Package aggregate implements blinded contributions and their homomorphic
// aggregation over an elliptic-curve group.
//
// Each participant i holds a secret s_i. It draws a blinding scalar r_i
// uniformly from [1, n-1] and publishes two points:
//
//	R_i = r_i*G
//	C_i = r_i*G + s_i*G
//
// The aggregator sums all R_i and all C_i. Point addition is commutative and
// associative, so the order in which commitments arrive does not matter, and
// the blinding cancels exactly:
//
//	sum(C_i) - sum(R_i) = (sum s_i)*G
//
// The net point is then handed to the dlog package to recover sum(s_i).
//
// # Security Considerations
//
// The same generator G encodes both the blinding and the secret, so for a
// single participant C_i - R_i = s_i*G. Anyone holding one participant's
// commitment can therefore brute-force that participant's secret when the
// secret space is small. The construction is kept this way for
// compatibility; a hiding variant would encode s_i with a second generator H
// whose discrete log with respect to G is unknown.
//
// Blinding scalars never leave a [Contribution]: only the [Commitment]
// returned by [Contribution.Public] is meant to be shared, and
// [Contribution.Erase] clears the private values once the round is over.
package aggregate
