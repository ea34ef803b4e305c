package crypto

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suffix-labs/echo-signer/pkg/fault"
)

// testKey derives a deterministic key from an index.
func testKey(t *testing.T, i int, compressed bool) *Key {
	t.Helper()
	seed := Hash([]byte(fmt.Sprintf("echo test key %d", i)))
	key, err := KeyFromPrivate(seed[:], compressed)
	require.NoError(t, err)
	return key
}

func TestKnownPublicKeys(t *testing.T) {
	tests := []struct {
		scalar int64
		pub    string
	}{
		{2, "02c6047f9441ed7d6d3045406e95c07cd85c778e4b8cef3ca7abac09b95c709ee5"},
		{3, "02f9308a019258c31049344f85f89d5229b531c845836f99b08601f113bce036f9"},
	}

	for _, tt := range tests {
		key, err := KeyFromPrivateInt(big.NewInt(tt.scalar), true)
		require.NoError(t, err)
		assert.Equal(t, tt.pub, hex.EncodeToString(key.PublicKeyBytes()))
		assert.True(t, key.HasPrivateKey())
		assert.True(t, key.IsCompressed())
	}
}

func TestKeyFromPrivateRejectsOutOfRange(t *testing.T) {
	tooWide := new(big.Int).Lsh(big.NewInt(1), 256)

	tests := []struct {
		name  string
		value *big.Int
		code  string
	}{
		{"zero", big.NewInt(0), fault.ErrScalarOutOfRange},
		{"one", big.NewInt(1), fault.ErrScalarOutOfRange},
		{"negative", big.NewInt(-5), fault.ErrScalarOutOfRange},
		{"order", new(big.Int).Set(CurveOrder), fault.ErrScalarOutOfRange},
		{"above order", new(big.Int).Add(CurveOrder, big.NewInt(1)), fault.ErrScalarOutOfRange},
		{"257 bits", tooWide, fault.ErrScalarTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := KeyFromPrivateInt(tt.value, true)
			assert.Nil(t, key)

			var keyErr *fault.InvalidKeyError
			require.ErrorAs(t, err, &keyErr)
			assert.Equal(t, tt.code, keyErr.Code)
		})
	}

	_, err := KeyFromPrivate(append([]byte{1}, make([]byte, 32)...), true)
	assert.True(t, fault.IsInvalidKey(err))
}

func TestKeyFromPublicRejectsBadEncoding(t *testing.T) {
	for _, encoded := range [][]byte{
		nil,
		make([]byte, 32),
		append([]byte{0x04}, make([]byte, 32)...),
		append([]byte{0x02}, make([]byte, 64)...),
		append([]byte{0x05}, make([]byte, 32)...),
		// x = 5 has no point on the curve
		append(append([]byte{0x02}, make([]byte, 31)...), 0x05),
		// x >= p
		append([]byte{0x03}, bytes.Repeat([]byte{0xff}, 32)...),
	} {
		_, err := KeyFromPublic(encoded)
		assert.True(t, fault.IsInvalidKey(err), "encoding %x", encoded)
	}
}

func TestSignIsDeterministic(t *testing.T) {
	key := testKey(t, 1, true)
	digest := HashTwice([]byte("deterministic"))

	first, err := key.Sign(digest)
	require.NoError(t, err)
	second, err := key.Sign(digest)
	require.NoError(t, err)

	assert.True(t, first.Equal(second))
	assert.Equal(t, first.Serialize(), second.Serialize())
}

func TestSignaturesAreCanonicalAndRecoverable(t *testing.T) {
	for i := 0; i < 24; i++ {
		compressed := i%3 != 0
		key := testKey(t, i, compressed)
		digest := HashTwice([]byte(fmt.Sprintf("message %d", i)))

		sig, err := key.Sign(digest)
		require.NoError(t, err)

		assert.True(t, sig.IsCanonical(), "key %d", i)
		assert.True(t, sig.S().Cmp(HalfCurveOrder) <= 0, "key %d", i)
		assert.True(t, key.Verify(digest, sig), "key %d", i)

		matches := 0
		for id := 0; id < 4; id++ {
			recovered, ok := RecoverPublicKey(id, sig, digest, compressed)
			if ok && bytes.Equal(recovered.PublicKeyBytes(), key.PublicKeyBytes()) {
				matches++
			}
		}
		assert.Equal(t, 1, matches, "key %d", i)

		id, err := key.FindRecoveryID(digest, sig)
		require.NoError(t, err)
		recovered, ok := RecoverPublicKey(id, sig, digest, compressed)
		require.True(t, ok)
		assert.True(t, recovered.PublicPoint().Equal(key.PublicPoint()))
	}
}

func TestFindRecoveryIDMismatch(t *testing.T) {
	key := testKey(t, 7, true)
	sig, err := key.Sign(HashTwice([]byte("signed")))
	require.NoError(t, err)

	_, err = key.FindRecoveryID(HashTwice([]byte("other")), sig)
	assert.True(t, fault.IsRecovery(err))

	_, err = testKey(t, 8, true).FindRecoveryID(HashTwice([]byte("signed")), sig)
	assert.True(t, fault.IsRecovery(err))
}

func TestRecoverPublicKeyBadID(t *testing.T) {
	key := testKey(t, 2, true)
	digest := HashTwice([]byte("ids"))
	sig, err := key.Sign(digest)
	require.NoError(t, err)

	_, ok := RecoverPublicKey(4, sig, digest, true)
	assert.False(t, ok)
	_, ok = RecoverPublicKey(-1, sig, digest, true)
	assert.False(t, ok)
}

func TestPublicOnlyKeyCannotSign(t *testing.T) {
	signer := testKey(t, 3, true)
	key, err := KeyFromPublic(signer.PublicKeyBytes())
	require.NoError(t, err)
	assert.False(t, key.HasPrivateKey())

	_, err = key.Sign(HashTwice([]byte("x")))
	assert.True(t, fault.IsMissingPrivateKey(err))

	_, err = key.PrivateKeyBytes()
	assert.True(t, fault.IsMissingPrivateKey(err))

	digest := HashTwice([]byte("x"))
	sig, err := signer.Sign(digest)
	require.NoError(t, err)
	assert.True(t, key.Verify(digest, sig))
}

func TestCompressionRoundTrip(t *testing.T) {
	for _, compressed := range []bool{true, false} {
		key := testKey(t, 4, compressed)

		c, err := key.Compress()
		require.NoError(t, err)
		assert.True(t, c.IsCompressed())
		assert.Len(t, c.PublicKeyBytes(), CompressedPointLength)

		d, err := c.Decompress()
		require.NoError(t, err)
		assert.False(t, d.IsCompressed())
		assert.Len(t, d.PublicKeyBytes(), UncompressedPointLength)

		again, err := d.Compress()
		require.NoError(t, err)

		assert.True(t, key.PublicPoint().Equal(c.PublicPoint()))
		assert.True(t, key.PublicPoint().Equal(d.PublicPoint()))
		assert.Equal(t, c.PublicKeyBytes(), again.PublicKeyBytes())
		assert.True(t, key.Equal(c), "private scalar must be shared")

		priv, err := d.PrivateKeyBytes()
		require.NoError(t, err)
		orig, err := key.PrivateKeyBytes()
		require.NoError(t, err)
		assert.Equal(t, orig, priv)
	}
}

func TestPublicOnlyCompression(t *testing.T) {
	uncompressed, err := testKey(t, 5, false).Compress()
	require.NoError(t, err)

	key, err := KeyFromPublic(testKey(t, 5, false).PublicKeyBytes())
	require.NoError(t, err)

	c, err := key.Compress()
	require.NoError(t, err)
	assert.Equal(t, uncompressed.PublicKeyBytes(), c.PublicKeyBytes())
	assert.False(t, c.HasPrivateKey())
}

func TestGenerateKeyUsesContextRandom(t *testing.T) {
	seed := bytes.Repeat([]byte{0x11}, 32)

	a, err := NewContext(WithRandom(bytes.NewReader(seed))).GenerateKey()
	require.NoError(t, err)
	b, err := NewContext(WithRandom(bytes.NewReader(seed))).GenerateKey()
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.True(t, a.IsCompressed())

	priv, err := a.PrivateKeyBytes()
	require.NoError(t, err)
	assert.Equal(t, seed, priv)

	_, err = NewContext(WithRandom(bytes.NewReader(nil))).GenerateKey()
	assert.Error(t, err)

	fresh, err := NewContext().GenerateKey()
	require.NoError(t, err)
	assert.Len(t, fresh.PublicKeyBytes(), CompressedPointLength)
}

func TestWIF(t *testing.T) {
	key, err := KeyFromWIF("5HueCGU8rMjxEXxiPuD5BDku4MkFqeZyd4dZ1jvhTVqvbTLvyTJ")
	require.NoError(t, err)
	assert.False(t, key.IsCompressed())

	priv, err := key.PrivateKeyBytes()
	require.NoError(t, err)
	assert.Equal(t, "0c28fca386c7a227600b2fe50b7cae11ec86d3bf1fbe471be89827e19d72aa1d", hex.EncodeToString(priv))

	wif, err := key.WIF(WIFVersionMainnet)
	require.NoError(t, err)
	assert.Equal(t, "5HueCGU8rMjxEXxiPuD5BDku4MkFqeZyd4dZ1jvhTVqvbTLvyTJ", wif)

	compressed, err := key.Compress()
	require.NoError(t, err)
	wif, err = compressed.WIF(WIFVersionTestnet)
	require.NoError(t, err)

	_, err = compressed.WIF(0x00)
	assert.True(t, fault.IsInvalidKey(err))

	parsed, err := KeyFromWIF(wif)
	require.NoError(t, err)
	assert.True(t, parsed.IsCompressed())
	assert.True(t, parsed.Equal(compressed))

	_, err = KeyFromWIF("5HueCGU8rMjxEXxiPuD5BDku4MkFqeZyd4dZ1jvhTVqvbTLvyTK")
	assert.True(t, fault.IsFormat(err))
}

func TestPublicKeyText(t *testing.T) {
	key := testKey(t, 6, false)
	text := key.PublicKeyText(DefaultKeyPrefix)
	assert.Contains(t, text, DefaultKeyPrefix)

	parsed, err := KeyFromPublicKeyText(text, DefaultKeyPrefix)
	require.NoError(t, err)
	assert.True(t, parsed.PublicPoint().Equal(key.PublicPoint()))
	assert.True(t, parsed.IsCompressed())

	_, err = KeyFromPublicKeyText("GPH"+text[len(DefaultKeyPrefix):], DefaultKeyPrefix)
	assert.True(t, fault.IsInvalidKey(err))

	corrupted := []byte(text)
	last := len(corrupted) - 1
	if corrupted[last] == 'z' {
		corrupted[last] = 'y'
	} else {
		corrupted[last] = 'z'
	}
	_, err = KeyFromPublicKeyText(string(corrupted), DefaultKeyPrefix)
	assert.True(t, fault.IsFormat(err))
}
