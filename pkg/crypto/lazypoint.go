package crypto

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash"
	"sync"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	blake2b "github.com/minio/blake2b-simd"

	"github.com/suffix-labs/echo-signer/pkg/fault"
)

// SEC1 point encodings.
const (
	CompressedPointLength   = secp256k1.PubKeyBytesLenCompressed
	UncompressedPointLength = secp256k1.PubKeyBytesLenUncompressed

	prefixEven         = secp256k1.PubKeyFormatCompressedEven
	prefixOdd          = secp256k1.PubKeyFormatCompressedOdd
	prefixUncompressed = secp256k1.PubKeyFormatUncompressed
)

// LazyPoint defers decoding of an encoded curve point until it is needed.
//
// It starts as either encoded bytes or a decoded point. The first Decode
// fixes the point; later calls return the cached value.
type LazyPoint struct {
	encoded []byte

	once  sync.Once
	point *secp256k1.PublicKey
	err   error
}

// NewLazyPoint wraps an encoded point without decoding it. Only the length
// and prefix byte are checked here.
func NewLazyPoint(encoded []byte) (*LazyPoint, error) {
	if err := checkEncoding(encoded); err != nil {
		return nil, err
	}
	return &LazyPoint{encoded: append([]byte{}, encoded...)}, nil
}

// LazyPointFromPublicKey wraps an already decoded point.
func LazyPointFromPublicKey(point *secp256k1.PublicKey, compressed bool) *LazyPoint {
	lp := &LazyPoint{point: point}
	if compressed {
		lp.encoded = point.SerializeCompressed()
	} else {
		lp.encoded = point.SerializeUncompressed()
	}
	lp.once.Do(func() {})
	return lp
}

// Decode returns the curve point, decoding it on first use.
func (lp *LazyPoint) Decode() (*secp256k1.PublicKey, error) {
	lp.once.Do(func() {
		point, err := secp256k1.ParsePubKey(lp.encoded)
		if err != nil {
			lp.err = &fault.InvalidKeyError{
				Code:    fault.ErrInvalidPublicKey,
				Message: "point is not on the curve",
				Cause:   err,
			}
			return
		}
		lp.point = point
	})
	return lp.point, lp.err
}

// IsCompressed reports the compression of the stored encoding without
// decoding it.
func (lp *LazyPoint) IsCompressed() bool {
	return len(lp.encoded) == CompressedPointLength
}

// Encoded returns the point in the requested SEC1 form. When the requested
// form matches the stored bytes a copy is returned without decoding.
func (lp *LazyPoint) Encoded(compressed bool) ([]byte, error) {
	if compressed == lp.IsCompressed() {
		return append([]byte{}, lp.encoded...), nil
	}
	point, err := lp.Decode()
	if err != nil {
		return nil, err
	}
	if compressed {
		return point.SerializeCompressed(), nil
	}
	return point.SerializeUncompressed(), nil
}

// Canonical returns the compressed encoding; nil if the point is invalid.
func (lp *LazyPoint) Canonical() []byte {
	point, err := lp.Decode()
	if err != nil {
		return nil
	}
	return point.SerializeCompressed()
}

// Equal compares canonical encodings, so the same point stored compressed
// and uncompressed is equal. Points that do not decode equal nothing.
func (lp *LazyPoint) Equal(other *LazyPoint) bool {
	if lp == nil || other == nil {
		return lp == other
	}
	a, b := lp.Canonical(), other.Canonical()
	return a != nil && bytes.Equal(a, b)
}

// pointHashPersonalization separates point hash codes from other BLAKE2b uses.
const pointHashPersonalization = "EchoPointHash"

// blake2bNew64 creates an 8 byte BLAKE2b hash with the given personalization.
func blake2bNew64(personalization []byte) (hash.Hash, error) {
	return blake2b.New(&blake2b.Config{
		Size:   8,
		Person: personalization,
	})
}

// Hash is consistent with Equal: a 64 bit BLAKE2b code of the compressed
// encoding. Invalid points all hash the same.
func (lp *LazyPoint) Hash() uint64 {
	h, err := blake2bNew64([]byte(pointHashPersonalization))
	if err != nil {
		return 0
	}
	h.Write(lp.Canonical())
	return binary.LittleEndian.Uint64(h.Sum(nil))
}

func checkEncoding(encoded []byte) error {
	switch len(encoded) {
	case CompressedPointLength:
		if encoded[0] != prefixEven && encoded[0] != prefixOdd {
			return &fault.InvalidKeyError{
				Code:    fault.ErrInvalidPublicKey,
				Message: fmt.Sprintf("compressed point prefix 0x%02x", encoded[0]),
			}
		}
	case UncompressedPointLength:
		if encoded[0] != prefixUncompressed {
			return &fault.InvalidKeyError{
				Code:    fault.ErrInvalidPublicKey,
				Message: fmt.Sprintf("uncompressed point prefix 0x%02x", encoded[0]),
			}
		}
	default:
		return &fault.InvalidKeyError{
			Code:    fault.ErrInvalidPublicKey,
			Message: fmt.Sprintf("point must be %d or %d bytes, got %d", CompressedPointLength, UncompressedPointLength, len(encoded)),
		}
	}
	return nil
}
