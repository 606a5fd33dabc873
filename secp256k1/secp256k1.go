package secp256k1

import (
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"

	"github.com/f3rmion/secagg/group"
)

// Name is the curve identifier.
const Name = "secp256k1"

// Point is a point on secp256k1. It implements [group.Point].
//
// The inner Jacobian point is kept normalized: either affine (Z = 1) or the
// point at infinity with all coordinates zero.
type Point struct {
	inner btcec.JacobianPoint
}

func (p *Point) normalize() {
	if p.inner.Z.IsZero() || (p.inner.X.IsZero() && p.inner.Y.IsZero()) {
		p.setInfinity()
		return
	}
	p.inner.ToAffine()
}

func (p *Point) setInfinity() {
	p.inner.X.SetInt(0)
	p.inner.Y.SetInt(0)
	p.inner.Z.SetInt(0)
}

// Add sets p to a + b and returns p.
func (p *Point) Add(a, b group.Point) group.Point {
	aPoint := a.(*Point)
	bPoint := b.(*Point)
	var result btcec.JacobianPoint
	btcec.AddNonConst(&aPoint.inner, &bPoint.inner, &result)
	p.inner.Set(&result)
	p.normalize()
	return p
}

// Sub sets p to a - b and returns p.
func (p *Point) Sub(a, b group.Point) group.Point {
	var negB Point
	negB.Negate(b)
	return p.Add(a, &negB)
}

// Negate sets p to -a and returns p.
func (p *Point) Negate(a group.Point) group.Point {
	aPoint := a.(*Point)
	p.inner.Set(&aPoint.inner)
	if p.IsIdentity() {
		return p
	}
	p.inner.Y.Negate(1).Normalize()
	return p
}

// ScalarMult sets p to k * q and returns p. k is reduced modulo the group
// order.
func (p *Point) ScalarMult(k *big.Int, q group.Point) group.Point {
	qPoint := q.(*Point)
	reduced := group.Reduce(k, btcec.S256().N)
	if reduced.Sign() == 0 || qPoint.IsIdentity() {
		p.setInfinity()
		return p
	}

	var scalar btcec.ModNScalar
	scalar.SetByteSlice(reduced.FillBytes(make([]byte, 32)))

	var result btcec.JacobianPoint
	btcec.ScalarMultNonConst(&scalar, &qPoint.inner, &result)
	p.inner.Set(&result)
	p.normalize()
	return p
}

// Set copies the value of a into p and returns p.
func (p *Point) Set(a group.Point) group.Point {
	aPoint := a.(*Point)
	p.inner.Set(&aPoint.inner)
	return p
}

// Bytes returns the 33-byte SEC1 compressed encoding, or 0x00 for the
// identity.
func (p *Point) Bytes() []byte {
	if p.IsIdentity() {
		return []byte{0x00}
	}
	x, y := p.inner.X, p.inner.Y
	return btcec.NewPublicKey(&x, &y).SerializeCompressed()
}

// SetBytes decodes a SEC1 encoding (compressed or uncompressed) or the
// identity byte 0x00 and returns p.
func (p *Point) SetBytes(data []byte) (group.Point, error) {
	if len(data) == 1 && data[0] == 0x00 {
		p.setInfinity()
		return p, nil
	}
	pubKey, err := btcec.ParsePubKey(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", group.ErrInvalidPoint, err)
	}
	pubKey.AsJacobian(&p.inner)
	p.normalize()
	return p, nil
}

// Equal reports whether p and b represent the same curve point.
func (p *Point) Equal(b group.Point) bool {
	bPoint, ok := b.(*Point)
	if !ok {
		return false
	}
	if p.IsIdentity() || bPoint.IsIdentity() {
		return p.IsIdentity() == bPoint.IsIdentity()
	}
	return p.inner.X.Equals(&bPoint.inner.X) && p.inner.Y.Equals(&bPoint.inner.Y)
}

// IsIdentity reports whether p is the point at infinity.
func (p *Point) IsIdentity() bool {
	return p.inner.Z.IsZero() || (p.inner.X.IsZero() && p.inner.Y.IsZero())
}

// Curve implements [group.Group] for secp256k1.
//
// Curve is a zero-sized type; create an instance with &Curve{} or New.
type Curve struct{}

// New returns the secp256k1 group.
func New() *Curve {
	return &Curve{}
}

// Name returns "secp256k1".
func (c *Curve) Name() string {
	return Name
}

// NewPoint returns a new point initialized to the identity.
func (c *Curve) NewPoint() group.Point {
	var p Point
	p.setInfinity()
	return &p
}

// Generator returns the standard base point G.
func (c *Curve) Generator() group.Point {
	params := btcec.S256().Params()
	var p Point
	p.inner.X.SetByteSlice(params.Gx.Bytes())
	p.inner.Y.SetByteSlice(params.Gy.Bytes())
	p.inner.Z.SetInt(1)
	return &p
}

// Order returns the group order n.
func (c *Curve) Order() *big.Int {
	return new(big.Int).Set(btcec.S256().N)
}
