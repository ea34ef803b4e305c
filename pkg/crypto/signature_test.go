package crypto

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suffix-labs/echo-signer/pkg/fault"
)

func TestHalfCurveOrder(t *testing.T) {
	n, ok := new(big.Int).SetString("fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141", 16)
	require.True(t, ok)
	assert.Equal(t, 0, n.Cmp(CurveOrder))
	assert.Equal(t, 0, new(big.Int).Rsh(n, 1).Cmp(HalfCurveOrder))
}

func TestToCanonicalised(t *testing.T) {
	key := testKey(t, 20, true)
	digest := HashTwice([]byte("canonical"))

	sig, err := key.Sign(digest)
	require.NoError(t, err)
	require.True(t, sig.IsCanonical())
	assert.Same(t, sig, sig.ToCanonicalised())

	high, err := NewSignature(sig.R(), new(big.Int).Sub(CurveOrder, sig.S()))
	require.NoError(t, err)
	assert.False(t, high.IsCanonical())
	assert.False(t, high.Equal(sig))

	low := high.ToCanonicalised()
	assert.True(t, low.IsCanonical())
	assert.True(t, low.Equal(sig))
	assert.False(t, high.IsCanonical(), "receiver must not change")
}

func TestCanonicalBoundary(t *testing.T) {
	r := big.NewInt(12345)

	atHalf, err := NewSignature(r, HalfCurveOrder)
	require.NoError(t, err)
	assert.True(t, atHalf.IsCanonical())

	aboveHalf, err := NewSignature(r, new(big.Int).Add(HalfCurveOrder, big.NewInt(1)))
	require.NoError(t, err)
	assert.False(t, aboveHalf.IsCanonical())
	assert.Equal(t, 0, aboveHalf.ToCanonicalised().S().Cmp(HalfCurveOrder))
}

func TestNewSignatureRange(t *testing.T) {
	for _, tt := range []struct{ r, s *big.Int }{
		{big.NewInt(0), big.NewInt(1)},
		{big.NewInt(1), big.NewInt(0)},
		{CurveOrder, big.NewInt(1)},
		{big.NewInt(-1), big.NewInt(1)},
		{nil, big.NewInt(1)},
	} {
		_, err := NewSignature(tt.r, tt.s)
		assert.True(t, fault.IsFormat(err))
	}
}

func TestCompactRoundTrip(t *testing.T) {
	key := testKey(t, 21, true)
	digest := HashTwice([]byte("compact"))
	sig, err := key.Sign(digest)
	require.NoError(t, err)

	id, err := key.FindRecoveryID(digest, sig)
	require.NoError(t, err)

	compact := sig.Compact(id, true)
	require.Len(t, compact, CompactSignatureLength)
	assert.Equal(t, byte(27+4+id), compact[0])

	parsed, parsedID, compressed, err := ParseCompact(compact)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(sig))
	assert.Equal(t, id, parsedID)
	assert.True(t, compressed)

	_, _, _, err = ParseCompact(compact[:64])
	assert.True(t, fault.IsFormat(err))

	bad := append([]byte{}, compact...)
	bad[0] = 26
	_, _, _, err = ParseCompact(bad)
	assert.True(t, fault.IsFormat(err))
}

func TestSignatureEqualityIsValueBased(t *testing.T) {
	a, err := NewSignature(big.NewInt(7), big.NewInt(9))
	require.NoError(t, err)
	b, err := NewSignature(big.NewInt(7), big.NewInt(9))
	require.NoError(t, err)
	c, err := NewSignature(big.NewInt(7), big.NewInt(10))
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.Equal(t, a.Serialize(), b.Serialize())
}
