package crypto

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"github.com/suffix-labs/echo-signer/pkg/fault"
)

// PrivateKeyLength is the size of a serialized private scalar.
const PrivateKeyLength = 32

var bigOne = big.NewInt(1)

// Key is a secp256k1 key pair. The private scalar is optional; the public
// point is always present. A Key never changes after construction.
type Key struct {
	priv *secp256k1.PrivateKey
	pub  *LazyPoint
}

// KeyFromPrivate derives a key from a big-endian private scalar.
func KeyFromPrivate(scalar []byte, compressed bool) (*Key, error) {
	return KeyFromPrivateInt(new(big.Int).SetBytes(scalar), compressed)
}

// KeyFromPrivateInt derives a key from a private scalar.
//
// The scalar must be wider than 1, at most 256 bits and below the curve
// order; 0 and 1 are rejected as sentinel values.
func KeyFromPrivateInt(d *big.Int, compressed bool) (*Key, error) {
	if err := checkScalar(d); err != nil {
		return nil, err
	}
	var buffer [PrivateKeyLength]byte
	d.FillBytes(buffer[:])
	return keyFromSecp(secp256k1.PrivKeyFromBytes(buffer[:]), compressed)
}

// KeyFromPublic creates a verify-only key from a SEC1 encoded point.
//
// Returns an InvalidKeyError if the encoding is malformed or the point is
// not on the curve.
func KeyFromPublic(encoded []byte) (*Key, error) {
	pub, err := NewLazyPoint(encoded)
	if err != nil {
		return nil, err
	}
	if _, err := pub.Decode(); err != nil {
		return nil, err
	}
	return &Key{pub: pub}, nil
}

// KeyFromPublicHex is KeyFromPublic for hex text.
func KeyFromPublicHex(s string) (*Key, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, &fault.InvalidKeyError{Code: fault.ErrInvalidPublicKey, Message: "public key hex", Cause: err}
	}
	return KeyFromPublic(b)
}

func keyFromSecp(priv *secp256k1.PrivateKey, compressed bool) (*Key, error) {
	serialized := priv.Serialize()
	if err := checkScalar(new(big.Int).SetBytes(serialized)); err != nil {
		return nil, err
	}
	return &Key{
		priv: priv,
		pub:  LazyPointFromPublicKey(priv.PubKey(), compressed),
	}, nil
}

func checkScalar(d *big.Int) error {
	switch {
	case d == nil || d.Sign() < 0:
		return &fault.InvalidKeyError{Code: fault.ErrScalarOutOfRange, Message: "private scalar is negative"}
	case d.BitLen() > 256:
		return &fault.InvalidKeyError{
			Code:    fault.ErrScalarTooLarge,
			Message: fmt.Sprintf("private scalar has %d bits", d.BitLen()),
		}
	case d.Cmp(bigOne) <= 0:
		return &fault.InvalidKeyError{Code: fault.ErrScalarOutOfRange, Message: "private scalar must not be 0 or 1"}
	case d.Cmp(CurveOrder) >= 0:
		return &fault.InvalidKeyError{Code: fault.ErrScalarOutOfRange, Message: "private scalar not below curve order"}
	}
	return nil
}

// HasPrivateKey reports whether the key can sign.
func (k *Key) HasPrivateKey() bool {
	return k.priv != nil
}

// IsCompressed reports the encoding of the public point.
func (k *Key) IsCompressed() bool {
	return k.pub.IsCompressed()
}

// PublicPoint returns the lazily decoded public point wrapper.
func (k *Key) PublicPoint() *LazyPoint {
	return k.pub
}

// PublicKeyBytes returns the SEC1 encoding in the key's compression.
func (k *Key) PublicKeyBytes() []byte {
	b, _ := k.pub.Encoded(k.IsCompressed())
	return b
}

// PrivateKeyBytes returns the 32 byte big-endian private scalar.
func (k *Key) PrivateKeyBytes() ([]byte, error) {
	if k.priv == nil {
		return nil, &fault.MissingPrivateKeyError{Operation: "export private bytes"}
	}
	return k.priv.Serialize(), nil
}

// PrivateKeyInt returns the private scalar as an integer.
func (k *Key) PrivateKeyInt() (*big.Int, error) {
	b, err := k.PrivateKeyBytes()
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(b), nil
}

// Sign produces a canonical (low-S) signature over digest.
//
// Nonces follow RFC6979 with HMAC-SHA256, so the same key and digest always
// give the same signature.
func (k *Key) Sign(digest Digest) (*Signature, error) {
	if k.priv == nil {
		return nil, &fault.MissingPrivateKeyError{Operation: "sign"}
	}
	compact := ecdsa.SignCompact(k.priv, digest[:], k.IsCompressed())
	sig, _, _, err := ParseCompact(compact)
	if err != nil {
		return nil, fmt.Errorf("failed to sign: %w", err)
	}
	return sig.ToCanonicalised(), nil
}

// Verify checks sig against digest and this key's public point.
func (k *Key) Verify(digest Digest, sig *Signature) bool {
	pub, err := k.pub.Decode()
	if err != nil {
		return false
	}
	return sig.toECDSA().Verify(digest[:], pub)
}

// FindRecoveryID returns the recovery id under which sig over digest
// recovers to this key.
func (k *Key) FindRecoveryID(digest Digest, sig *Signature) (int, error) {
	for id := 0; id < 4; id++ {
		candidate, ok := RecoverPublicKey(id, sig, digest, k.IsCompressed())
		if ok && candidate.pub.Equal(k.pub) {
			return id, nil
		}
	}
	return -1, &fault.RecoveryError{
		Message: fmt.Sprintf("no recovery id reproduces key %x for digest %s", k.pub.Canonical(), digest),
	}
}

// RecoverPublicKey reconstructs the signer's public key per SEC1 4.1.6.
//
// It reports false when recoveryID does not yield a point; callers that do
// not know the id must try all four and compare against an expected key.
func RecoverPublicKey(recoveryID int, sig *Signature, digest Digest, compressed bool) (*Key, bool) {
	if recoveryID < 0 || recoveryID > 3 || sig == nil {
		return nil, false
	}
	pub, _, err := ecdsa.RecoverCompact(sig.Compact(recoveryID, compressed), digest[:])
	if err != nil {
		return nil, false
	}
	return &Key{pub: LazyPointFromPublicKey(pub, compressed)}, true
}

// Compress returns a key with the same scalar and a compressed public point.
func (k *Key) Compress() (*Key, error) {
	return k.withCompression(true)
}

// Decompress returns a key with the same scalar and an uncompressed public
// point.
func (k *Key) Decompress() (*Key, error) {
	return k.withCompression(false)
}

func (k *Key) withCompression(compressed bool) (*Key, error) {
	if compressed == k.IsCompressed() {
		return k, nil
	}
	encoded, err := k.pub.Encoded(compressed)
	if err != nil {
		return nil, err
	}
	pub, err := NewLazyPoint(encoded)
	if err != nil {
		return nil, err
	}
	return &Key{priv: k.priv, pub: pub}, nil
}

// Equal compares public points and, when both hold one, private scalars.
func (k *Key) Equal(other *Key) bool {
	if k == nil || other == nil {
		return k == other
	}
	if !k.pub.Equal(other.pub) || k.HasPrivateKey() != other.HasPrivateKey() {
		return false
	}
	if k.priv == nil {
		return true
	}
	return bytes.Equal(k.priv.Serialize(), other.priv.Serialize())
}

// String returns the public key as hex.
func (k *Key) String() string {
	return hex.EncodeToString(k.PublicKeyBytes())
}
