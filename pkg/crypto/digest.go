package crypto

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/suffix-labs/echo-signer/pkg/fault"
)

// DigestLength is the number of bytes in a Digest.
const DigestLength = 32

// Digest is a SHA-256 output.
//
// Stored in hash output order. Ordering treats the array as little endian:
// Compare starts at the last byte, matching how block ids are ranked on the
// network.
type Digest [DigestLength]byte

// Hash returns SHA256(input).
func Hash(input []byte) Digest {
	var d Digest
	copy(d[:], chainhash.HashB(input))
	return d
}

// HashRange returns SHA256 over input[offset:offset+length].
func HashRange(input []byte, offset, length int) (Digest, error) {
	if offset < 0 || length < 0 || offset+length > len(input) {
		return Digest{}, &fault.FormatError{
			Code:     fault.ErrInvalidLength,
			Message:  fmt.Sprintf("range %d+%d outside %d byte input", offset, length, len(input)),
			Position: -1,
		}
	}
	return Hash(input[offset : offset+length]), nil
}

// HashTwice returns SHA256(SHA256(parts[0] || parts[1] || ...)).
//
// This is the network's canonical hash, used for the signing digest,
// transaction ids and Base58Check checksums.
func HashTwice(parts ...[]byte) Digest {
	var d Digest
	copy(d[:], chainhash.DoubleHashB(concat(parts)))
	return d
}

// DigestFromBytes validates and copies a 32 byte slice.
func DigestFromBytes(b []byte) (Digest, error) {
	var d Digest
	if len(b) != DigestLength {
		return d, &fault.FormatError{
			Code:     fault.ErrInvalidLength,
			Message:  fmt.Sprintf("digest must be %d bytes, got %d", DigestLength, len(b)),
			Position: -1,
		}
	}
	copy(d[:], b)
	return d, nil
}

// DigestFromHex parses 64 hex characters in stored order.
func DigestFromHex(s string) (Digest, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Digest{}, &fault.FormatError{Code: fault.ErrInvalidHex, Message: "digest hex", Position: -1, Cause: err}
	}
	return DigestFromBytes(b)
}

// Bytes returns a copy of the digest bytes.
func (d Digest) Bytes() []byte {
	b := make([]byte, DigestLength)
	copy(b, d[:])
	return b
}

// Compare returns -1, 0 or +1, comparing from index 31 down to 0 as
// unsigned bytes.
func (d Digest) Compare(other Digest) int {
	for i := DigestLength - 1; i >= 0; i-- {
		switch {
		case d[i] < other[i]:
			return -1
		case d[i] > other[i]:
			return 1
		}
	}
	return 0
}

// Equal reports byte equality.
func (d Digest) Equal(other Digest) bool {
	return d == other
}

// Reversed returns a copy with the byte order reversed.
func (d Digest) Reversed() Digest {
	var r Digest
	for i := 0; i < DigestLength; i++ {
		r[i] = d[DigestLength-1-i]
	}
	return r
}

// String returns hex in stored order.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// GoString is used by %#v.
func (d Digest) GoString() string {
	return "<SHA256:" + hex.EncodeToString(d[:]) + ">"
}

// MarshalText encodes the digest as hex text.
func (d Digest) MarshalText() ([]byte, error) {
	buffer := make([]byte, hex.EncodedLen(DigestLength))
	hex.Encode(buffer, d[:])
	return buffer, nil
}

// UnmarshalText decodes hex text produced by MarshalText.
func (d *Digest) UnmarshalText(s []byte) error {
	parsed, err := DigestFromHex(string(s))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func concat(parts [][]byte) []byte {
	if len(parts) == 1 {
		return parts[0]
	}
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	buffer := make([]byte, 0, n)
	for _, p := range parts {
		buffer = append(buffer, p...)
	}
	return buffer
}
