// Package weierstrass implements [group.Group] for small short-Weierstrass
// curves y^2 = x^3 + a*x + b over a prime field, with math/big arithmetic.
//
// The curves in this package are deliberately tiny. Their subgroups have a
// few hundred or a few thousand elements, which is what makes the
// brute-force discrete log in the dlog package finish instantly. They have
// no cryptographic strength whatsoever.
//
// # Named Curves
//
//	Toy101    p=89,   a=1, b=9,  n=101,   G=(0, 3)
//	Toy10007  p=9907, a=4, b=14, n=10007, G=(0, 1953)
//	Toy97C2   p=173,  a=2, b=17, #E=194 = 2*97, G=(117, 149)
//
// Toy97C2 has cofactor 2: on-curve points of order 2 or 194 exist outside the
// subgroup generated by G. SetBytes rejects them; [Curve.PointUnchecked]
// builds them anyway so callers can exercise search failures.
package weierstrass
