package weierstrass

import (
	"fmt"
	"math/big"

	"github.com/f3rmion/secagg/group"
)

// Params describes a short-Weierstrass curve and a prime-order subgroup.
type Params struct {
	Name   string
	P      *big.Int // field prime
	A, B   *big.Int // curve coefficients
	N      *big.Int // subgroup order (prime)
	Gx, Gy *big.Int // subgroup generator
}

// Toy101 is a curve whose full group has prime order 101.
var Toy101 = Params{
	Name: "toy101",
	P:    big.NewInt(89),
	A:    big.NewInt(1),
	B:    big.NewInt(9),
	N:    big.NewInt(101),
	Gx:   big.NewInt(0),
	Gy:   big.NewInt(3),
}

// Toy10007 is a curve whose full group has prime order 10007.
var Toy10007 = Params{
	Name: "toy10007",
	P:    big.NewInt(9907),
	A:    big.NewInt(4),
	B:    big.NewInt(14),
	N:    big.NewInt(10007),
	Gx:   big.NewInt(0),
	Gy:   big.NewInt(1953),
}

// Toy97C2 is a curve of order 194 with a generator of the subgroup of order 97.
var Toy97C2 = Params{
	Name: "toy97c2",
	P:    big.NewInt(173),
	A:    big.NewInt(2),
	B:    big.NewInt(17),
	N:    big.NewInt(97),
	Gx:   big.NewInt(117),
	Gy:   big.NewInt(149),
}

// Curve implements [group.Group] for a validated set of Params.
type Curve struct {
	p, a, b, n *big.Int
	gx, gy     *big.Int
	name       string
	byteLen    int
}

// New validates params and returns the curve. The generator must lie on the
// curve, differ from the identity and have order exactly N.
func New(params Params) (*Curve, error) {
	if params.P == nil || params.A == nil || params.B == nil || params.N == nil ||
		params.Gx == nil || params.Gy == nil {
		return nil, fmt.Errorf("weierstrass: incomplete parameters for %q", params.Name)
	}
	if !params.P.ProbablyPrime(20) || !params.N.ProbablyPrime(20) {
		return nil, fmt.Errorf("weierstrass: %q: field and subgroup order must be prime", params.Name)
	}

	c := &Curve{
		p:       new(big.Int).Set(params.P),
		a:       new(big.Int).Mod(params.A, params.P),
		b:       new(big.Int).Mod(params.B, params.P),
		n:       new(big.Int).Set(params.N),
		gx:      new(big.Int).Set(params.Gx),
		gy:      new(big.Int).Set(params.Gy),
		name:    params.Name,
		byteLen: (params.P.BitLen() + 7) / 8,
	}

	// 4a^3 + 27b^2 != 0 mod p
	disc := new(big.Int).Exp(c.a, big.NewInt(3), c.p)
	disc.Mul(disc, big.NewInt(4))
	b2 := new(big.Int).Mul(c.b, c.b)
	b2.Mul(b2, big.NewInt(27))
	disc.Add(disc, b2)
	if disc.Mod(disc, c.p).Sign() == 0 {
		return nil, fmt.Errorf("weierstrass: %q: singular curve", params.Name)
	}

	gen, err := c.PointUnchecked(c.gx, c.gy)
	if err != nil {
		return nil, fmt.Errorf("generator of %q: %w", params.Name, err)
	}
	if !c.inSubgroup(gen) {
		return nil, fmt.Errorf("%w: generator of %q does not have order %s", group.ErrInvalidPoint, params.Name, c.n)
	}
	return c, nil
}

// MustNew is like New but panics on invalid parameters. It is meant for the
// package-level named curves.
func MustNew(params Params) *Curve {
	c, err := New(params)
	if err != nil {
		panic(err)
	}
	return c
}

// Name returns the curve identifier.
func (c *Curve) Name() string {
	return c.name
}

// NewPoint returns a new identity point.
func (c *Curve) NewPoint() group.Point {
	return &Point{curve: c, x: new(big.Int), y: new(big.Int), inf: true}
}

// Generator returns the subgroup generator.
func (c *Curve) Generator() group.Point {
	return &Point{curve: c, x: new(big.Int).Set(c.gx), y: new(big.Int).Set(c.gy)}
}

// Order returns the prime order of the generated subgroup.
func (c *Curve) Order() *big.Int {
	return new(big.Int).Set(c.n)
}

// FieldPrime returns the prime of the base field.
func (c *Curve) FieldPrime() *big.Int {
	return new(big.Int).Set(c.p)
}

// NewAffinePoint returns the point (x, y). It fails with ErrInvalidPoint if
// the point is not on the curve or not in the prime-order subgroup.
func (c *Curve) NewAffinePoint(x, y *big.Int) (*Point, error) {
	pt, err := c.PointUnchecked(x, y)
	if err != nil {
		return nil, err
	}
	if !c.inSubgroup(pt) {
		return nil, fmt.Errorf("%w: (%s, %s) is outside the subgroup of order %s", group.ErrInvalidPoint, x, y, c.n)
	}
	return pt, nil
}

// PointUnchecked returns the point (x, y) after checking only the curve
// equation. The result may lie outside the prime-order subgroup when the
// curve has a cofactor.
func (c *Curve) PointUnchecked(x, y *big.Int) (*Point, error) {
	if x.Sign() < 0 || y.Sign() < 0 || x.Cmp(c.p) >= 0 || y.Cmp(c.p) >= 0 {
		return nil, fmt.Errorf("%w: coordinates out of field range", group.ErrInvalidPoint)
	}
	if !c.isOnCurve(x, y) {
		return nil, fmt.Errorf("%w: (%s, %s) is not on curve %s", group.ErrInvalidPoint, x, y, c.name)
	}
	return &Point{curve: c, x: new(big.Int).Set(x), y: new(big.Int).Set(y)}, nil
}

func (c *Curve) isOnCurve(x, y *big.Int) bool {
	lhs := new(big.Int).Mul(y, y)
	lhs.Mod(lhs, c.p)

	rhs := new(big.Int).Mul(x, x)
	rhs.Mul(rhs, x)
	ax := new(big.Int).Mul(c.a, x)
	rhs.Add(rhs, ax)
	rhs.Add(rhs, c.b)
	rhs.Mod(rhs, c.p)

	return lhs.Cmp(rhs) == 0
}

func (c *Curve) inSubgroup(p *Point) bool {
	if p.inf {
		return true
	}
	q := c.NewPoint().(*Point)
	q.mul(c.n, p)
	return q.inf
}
