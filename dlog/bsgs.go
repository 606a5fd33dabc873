package dlog

import (
	"context"
	"math/big"

	"github.com/f3rmion/secagg/group"
)

// bsgs looks for k = i*m + j with 0 <= i, j < m and m = ceil(sqrt(limit)).
// Baby steps store j*B; giant steps compare target - i*m*B against them.
// Matches beyond the limit are ignored so the found-value semantics are
// identical to walk.
func (s *Solver) bsgs(ctx context.Context, target group.Point) (*Result, error) {
	m := isqrtCeil(s.limit)
	if m == 0 {
		return nil, nil
	}

	baby := make(map[string]uint64, m)
	cur := s.group.NewPoint()
	var steps uint64
	for j := uint64(0); j < m; j++ {
		if j%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		key := string(cur.Bytes())
		if _, seen := baby[key]; !seen {
			baby[key] = j
		}
		cur = s.group.NewPoint().Add(cur, s.base)
		steps++
	}

	// giant = -(m*B)
	giant := s.group.NewPoint().ScalarMult(new(big.Int).SetUint64(m), s.base)
	giant = s.group.NewPoint().Negate(giant)

	gamma := s.group.NewPoint().Set(target)
	for i := uint64(0); i < m; i++ {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		steps++
		if j, ok := baby[string(gamma.Bytes())]; ok {
			k := i*m + j
			if k < s.limit {
				return &Result{Scalar: new(big.Int).SetUint64(k), Iterations: steps}, nil
			}
			return nil, nil
		}
		gamma = s.group.NewPoint().Add(gamma, giant)
	}
	return nil, nil
}

// isqrtCeil returns the smallest m with m*m >= n.
func isqrtCeil(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	r := new(big.Int).Sqrt(new(big.Int).SetUint64(n)).Uint64()
	if r*r < n {
		r++
	}
	return r
}
