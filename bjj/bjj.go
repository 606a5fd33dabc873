package bjj

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/twistededwards"

	"github.com/f3rmion/secagg/group"
)

// Name is the curve identifier.
const Name = "babyjubjub"

// curveOrder is the Baby Jubjub subgroup order.
// This is distinct from the BN254 scalar field order (Fr).
var curveOrder *big.Int

func init() {
	curve := twistededwards.GetEdwardsCurve()
	curveOrder = new(big.Int).Set(&curve.Order)
}

// Point represents a point on the Baby Jubjub curve.
// It implements [group.Point] by wrapping gnark-crypto's PointAffine.
//
// Points are represented in affine coordinates (x, y) on the twisted
// Edwards curve. The identity element is (0, 1).
type Point struct {
	inner twistededwards.PointAffine
}

// Add sets p to a + b and returns p.
func (p *Point) Add(a, b group.Point) group.Point {
	aPoint := a.(*Point)
	bPoint := b.(*Point)
	p.inner.Add(&aPoint.inner, &bPoint.inner)
	return p
}

// Sub sets p to a - b and returns p.
func (p *Point) Sub(a, b group.Point) group.Point {
	aPoint := a.(*Point)
	bPoint := b.(*Point)
	var negB twistededwards.PointAffine
	negB.Neg(&bPoint.inner)
	p.inner.Add(&aPoint.inner, &negB)
	return p
}

// Negate sets p to -a and returns p.
func (p *Point) Negate(a group.Point) group.Point {
	aPoint := a.(*Point)
	p.inner.Neg(&aPoint.inner)
	return p
}

// ScalarMult sets p to k * q and returns p.
// k is reduced modulo the subgroup order first.
func (p *Point) ScalarMult(k *big.Int, q group.Point) group.Point {
	qPoint := q.(*Point)
	p.inner.ScalarMultiplication(&qPoint.inner, group.Reduce(k, curveOrder))
	return p
}

// Set copies the value of a into p and returns p.
func (p *Point) Set(a group.Point) group.Point {
	aPoint := a.(*Point)
	p.inner.Set(&aPoint.inner)
	return p
}

// Bytes returns the compressed point encoding as a byte slice.
func (p *Point) Bytes() []byte {
	bytes := p.inner.Bytes()
	return bytes[:]
}

// SetBytes sets p from a compressed point encoding and returns p.
// Returns an error if the data does not represent a point of the
// prime-order subgroup.
func (p *Point) SetBytes(data []byte) (group.Point, error) {
	var decoded twistededwards.PointAffine
	if err := decoded.Unmarshal(data); err != nil {
		return nil, fmt.Errorf("%w: %v", group.ErrInvalidPoint, err)
	}
	if !decoded.IsOnCurve() {
		return nil, fmt.Errorf("%w: not on Baby Jubjub", group.ErrInvalidPoint)
	}
	// the curve has cofactor 8; reject points of small or mixed order
	var check twistededwards.PointAffine
	check.ScalarMultiplication(&decoded, curveOrder)
	if !check.IsZero() {
		return nil, fmt.Errorf("%w: outside the prime-order subgroup", group.ErrInvalidPoint)
	}
	p.inner.Set(&decoded)
	return p, nil
}

// Equal reports whether p and b represent the same curve point.
func (p *Point) Equal(b group.Point) bool {
	bPoint, ok := b.(*Point)
	if !ok {
		return false
	}
	return p.inner.Equal(&bPoint.inner)
}

// IsIdentity reports whether p is the identity element (0, 1).
func (p *Point) IsIdentity() bool {
	return p.inner.IsZero()
}

// BJJ implements [group.Group] for the Baby Jubjub curve.
//
// BJJ is a zero-sized type that provides access to Baby Jubjub curve
// operations. Create an instance with &BJJ{} or new(BJJ).
type BJJ struct{}

// Name returns "babyjubjub".
func (g *BJJ) Name() string {
	return Name
}

// NewPoint returns a new point initialized to the identity element (0, 1).
func (g *BJJ) NewPoint() group.Point {
	var p Point
	p.inner.X.SetZero()
	p.inner.Y.SetOne()
	return &p
}

// Generator returns the standard base point for the Baby Jubjub curve.
func (g *BJJ) Generator() group.Point {
	var p Point
	p.inner = twistededwards.GetEdwardsCurve().Base
	return &p
}

// Order returns the order of the Baby Jubjub curve's prime-order subgroup.
func (g *BJJ) Order() *big.Int {
	return new(big.Int).Set(curveOrder)
}
