package secp256k1

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/f3rmion/secagg/group"
)

func TestPoint(t *testing.T) {
	g := New()

	t.Run("GeneratorEncoding", func(t *testing.T) {
		require.Equal(t,
			"0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798",
			hex.EncodeToString(g.Generator().Bytes()))
	})

	t.Run("AddSub", func(t *testing.T) {
		a, err := group.RandomScalar(rand.Reader, g)
		require.NoError(t, err)
		b, err := group.RandomScalar(rand.Reader, g)
		require.NoError(t, err)

		P := group.BaseMult(g, a)
		Q := group.BaseMult(g, b)
		diff := g.NewPoint().Sub(g.NewPoint().Add(P, Q), Q)
		require.True(t, diff.Equal(P))
	})

	t.Run("DoublingMatchesScalarMult", func(t *testing.T) {
		G := g.Generator()
		require.True(t, g.NewPoint().Add(G, G).Equal(group.BaseMult(g, big.NewInt(2))))
	})

	t.Run("IdentityLaws", func(t *testing.T) {
		G := g.Generator()
		id := g.NewPoint()
		require.True(t, id.IsIdentity())
		require.True(t, g.NewPoint().Add(G, id).Equal(G))
		require.True(t, g.NewPoint().Add(id, G).Equal(G))
		require.True(t, g.NewPoint().Sub(G, G).IsIdentity())
		require.True(t, group.BaseMult(g, big.NewInt(0)).IsIdentity())
		require.True(t, group.BaseMult(g, g.Order()).IsIdentity())
	})

	t.Run("SmallMultiplesByRepeatedAddition", func(t *testing.T) {
		acc := g.NewPoint()
		for k := int64(0); k < 32; k++ {
			require.True(t, acc.Equal(group.BaseMult(g, big.NewInt(k))), "k=%d", k)
			acc = g.NewPoint().Add(acc, g.Generator())
		}
	})

	t.Run("BytesRoundtrip", func(t *testing.T) {
		P := group.BaseMult(g, big.NewInt(891))
		restored, err := g.NewPoint().SetBytes(P.Bytes())
		require.NoError(t, err)
		require.True(t, restored.Equal(P))

		id, err := g.NewPoint().SetBytes(g.NewPoint().Bytes())
		require.NoError(t, err)
		require.True(t, id.IsIdentity())
	})

	t.Run("RejectsOffCurve", func(t *testing.T) {
		enc := make([]byte, 33)
		enc[0] = 0x02
		enc[32] = 0x05 // x = 5 has no square root of x^3+7
		_, err := g.NewPoint().SetBytes(enc)
		require.ErrorIs(t, err, group.ErrInvalidPoint)
	})
}
