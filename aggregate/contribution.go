package aggregate

import (
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/f3rmion/secagg/group"
)

// ErrInvalidSecret is returned for negative or missing secrets.
var ErrInvalidSecret = errors.New("invalid secret")

// Commitment is the public part of a contribution.
type Commitment struct {
	ID int         // participant identifier
	R  group.Point // blinding commitment r*G
	C  group.Point // blinded secret r*G + s*G
}

// Contribution holds one participant's data for a single aggregation round.
type Contribution struct {
	ID     int
	Secret *big.Int // reduced modulo the group order
	R      group.Point
	C      group.Point

	blinding *big.Int
}

// Public returns the commitment to send to the aggregator.
func (c *Contribution) Public() *Commitment {
	return &Commitment{ID: c.ID, R: c.R, C: c.C}
}

// Erase zeroes the blinding scalar and the secret. The commitment points are
// kept.
func (c *Contribution) Erase() {
	if c.blinding != nil {
		c.blinding.SetInt64(0)
		c.blinding = nil
	}
	if c.Secret != nil {
		c.Secret.SetInt64(0)
		c.Secret = nil
	}
}

// Generator produces contributions for a group from an explicit random source.
type Generator struct {
	group group.Group
	rng   io.Reader
}

// NewGenerator returns a Generator drawing blinding scalars from r.
func NewGenerator(g group.Group, r io.Reader) *Generator {
	return &Generator{group: g, rng: r}
}

// Contribute creates the contribution of participant id holding secret.
func (gen *Generator) Contribute(id int, secret *big.Int) (*Contribution, error) {
	if secret == nil || secret.Sign() < 0 {
		return nil, fmt.Errorf("participant %d: %w", id, ErrInvalidSecret)
	}

	r, err := group.RandomScalar(gen.rng, gen.group)
	if err != nil {
		return nil, fmt.Errorf("participant %d: blinding scalar: %w", id, err)
	}

	s := group.Reduce(secret, gen.group.Order())
	rG := group.BaseMult(gen.group, r)
	sG := group.BaseMult(gen.group, s)

	return &Contribution{
		ID:       id,
		Secret:   s,
		R:        rG,
		C:        gen.group.NewPoint().Add(rG, sG),
		blinding: r,
	}, nil
}

// Generate creates one contribution per secret. Participants are numbered
// from 1 in slice order. An empty slice yields no contributions.
func (gen *Generator) Generate(secrets []*big.Int) ([]*Contribution, error) {
	out := make([]*Contribution, 0, len(secrets))
	for i, s := range secrets {
		c, err := gen.Contribute(i+1, s)
		if err != nil {
			for _, done := range out {
				done.Erase()
			}
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Commitments returns the public commitments of contributions.
func Commitments(contributions []*Contribution) []*Commitment {
	out := make([]*Commitment, len(contributions))
	for i, c := range contributions {
		out[i] = c.Public()
	}
	return out
}

// EraseAll erases every contribution.
func EraseAll(contributions []*Contribution) {
	for _, c := range contributions {
		c.Erase()
	}
}

// SumSecrets returns the sum of the contributions' secrets modulo order.
func SumSecrets(contributions []*Contribution, order *big.Int) *big.Int {
	sum := new(big.Int)
	for _, c := range contributions {
		sum.Add(sum, c.Secret)
	}
	return sum.Mod(sum, order)
}
