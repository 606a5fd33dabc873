package weierstrass

import (
	"fmt"
	"math/big"

	"github.com/f3rmion/secagg/group"
)

var (
	two   = big.NewInt(2)
	three = big.NewInt(3)
)

// Point is an affine point on a [Curve], or the point at infinity.
// It implements [group.Point].
type Point struct {
	curve *Curve
	x, y  *big.Int
	inf   bool
}

// X returns a copy of the affine x coordinate. It is zero for the identity.
func (p *Point) X() *big.Int {
	return new(big.Int).Set(p.x)
}

// Y returns a copy of the affine y coordinate. It is zero for the identity.
func (p *Point) Y() *big.Int {
	return new(big.Int).Set(p.y)
}

func (p *Point) setInfinity() {
	p.x.SetInt64(0)
	p.y.SetInt64(0)
	p.inf = true
}

// add computes a+b into p. p may alias a or b.
func (p *Point) add(a, b *Point) {
	c := p.curve
	switch {
	case a.inf:
		p.copyFrom(b)
		return
	case b.inf:
		p.copyFrom(a)
		return
	}

	lambda := new(big.Int)
	if a.x.Cmp(b.x) == 0 {
		ySum := new(big.Int).Add(a.y, b.y)
		if ySum.Mod(ySum, c.p).Sign() == 0 {
			p.setInfinity()
			return
		}
		// tangent: (3x^2 + a) / 2y
		num := new(big.Int).Mul(a.x, a.x)
		num.Mul(num, three)
		num.Add(num, c.a)
		den := new(big.Int).Mul(a.y, two)
		den.ModInverse(den, c.p)
		lambda.Mul(num, den)
	} else {
		// chord: (y2 - y1) / (x2 - x1)
		num := new(big.Int).Sub(b.y, a.y)
		den := new(big.Int).Sub(b.x, a.x)
		den.Mod(den, c.p)
		den.ModInverse(den, c.p)
		lambda.Mul(num, den)
	}
	lambda.Mod(lambda, c.p)

	x3 := new(big.Int).Mul(lambda, lambda)
	x3.Sub(x3, a.x)
	x3.Sub(x3, b.x)
	x3.Mod(x3, c.p)

	y3 := new(big.Int).Sub(a.x, x3)
	y3.Mul(y3, lambda)
	y3.Sub(y3, a.y)
	y3.Mod(y3, c.p)

	p.x.Set(x3)
	p.y.Set(y3)
	p.inf = false
}

func (p *Point) neg(a *Point) {
	if a.inf {
		p.setInfinity()
		return
	}
	p.x.Set(a.x)
	p.y.Neg(a.y)
	p.y.Mod(p.y, p.curve.p)
	p.inf = false
}

// mul computes k*a into p with double-and-add. k must be non-negative.
func (p *Point) mul(k *big.Int, a *Point) {
	base := &Point{curve: p.curve, x: new(big.Int), y: new(big.Int)}
	base.copyFrom(a)
	acc := p.curve.NewPoint().(*Point)
	for i := k.BitLen() - 1; i >= 0; i-- {
		acc.add(acc, acc)
		if k.Bit(i) == 1 {
			acc.add(acc, base)
		}
	}
	p.copyFrom(acc)
}

func (p *Point) copyFrom(a *Point) {
	p.x.Set(a.x)
	p.y.Set(a.y)
	p.inf = a.inf
}

func (p *Point) other(q group.Point) *Point {
	o := q.(*Point)
	if o.curve != p.curve {
		panic(fmt.Sprintf("weierstrass: mixing points of %s and %s", p.curve.name, o.curve.name))
	}
	return o
}

// Add sets p to a + b and returns p.
func (p *Point) Add(a, b group.Point) group.Point {
	p.add(p.other(a), p.other(b))
	return p
}

// Sub sets p to a - b and returns p.
func (p *Point) Sub(a, b group.Point) group.Point {
	negB := p.curve.NewPoint().(*Point)
	negB.neg(p.other(b))
	p.add(p.other(a), negB)
	return p
}

// Negate sets p to -a and returns p.
func (p *Point) Negate(a group.Point) group.Point {
	p.neg(p.other(a))
	return p
}

// ScalarMult sets p to k * q and returns p. k is reduced modulo the
// subgroup order.
func (p *Point) ScalarMult(k *big.Int, q group.Point) group.Point {
	p.mul(group.Reduce(k, p.curve.n), p.other(q))
	return p
}

// Set copies the value of a into p and returns p.
func (p *Point) Set(a group.Point) group.Point {
	p.copyFrom(p.other(a))
	return p
}

// Bytes returns the SEC1 uncompressed encoding 0x04 || x || y, or the single
// byte 0x00 for the identity.
func (p *Point) Bytes() []byte {
	if p.inf {
		return []byte{0x00}
	}
	n := p.curve.byteLen
	out := make([]byte, 1+2*n)
	out[0] = 0x04
	p.x.FillBytes(out[1 : 1+n])
	p.y.FillBytes(out[1+n:])
	return out
}

// SetBytes decodes an encoding produced by Bytes and returns p.
// Returns an error wrapping group.ErrInvalidPoint for malformed data, points
// off the curve and points outside the prime-order subgroup.
func (p *Point) SetBytes(data []byte) (group.Point, error) {
	if len(data) == 1 && data[0] == 0x00 {
		p.setInfinity()
		return p, nil
	}
	n := p.curve.byteLen
	if len(data) != 1+2*n || data[0] != 0x04 {
		return nil, fmt.Errorf("%w: bad encoding length %d for %s", group.ErrInvalidPoint, len(data), p.curve.name)
	}
	x := new(big.Int).SetBytes(data[1 : 1+n])
	y := new(big.Int).SetBytes(data[1+n:])
	pt, err := p.curve.NewAffinePoint(x, y)
	if err != nil {
		return nil, err
	}
	p.copyFrom(pt)
	return p, nil
}

// Equal reports whether p and b represent the same curve point.
func (p *Point) Equal(b group.Point) bool {
	o, ok := b.(*Point)
	if !ok || o.curve != p.curve {
		return false
	}
	if p.inf || o.inf {
		return p.inf == o.inf
	}
	return p.x.Cmp(o.x) == 0 && p.y.Cmp(o.y) == 0
}

// IsIdentity reports whether p is the point at infinity.
func (p *Point) IsIdentity() bool {
	return p.inf
}

// String formats the point as (x, y) or "infinity".
func (p *Point) String() string {
	if p.inf {
		return "infinity"
	}
	return fmt.Sprintf("(%s, %s)", p.x, p.y)
}
