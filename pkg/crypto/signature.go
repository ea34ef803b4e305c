package crypto

import (
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"github.com/suffix-labs/echo-signer/pkg/fault"
)

// compact signature layout: recovery byte || 32 byte R || 32 byte S
const (
	CompactSignatureLength = 65

	compactMagicOffset = 27
	compactCompressed  = 4
)

var (
	// CurveOrder is n, the order of the secp256k1 group.
	CurveOrder = new(big.Int).Set(secp256k1.S256().Params().N)

	// HalfCurveOrder is n >> 1; canonical signatures have s <= HalfCurveOrder.
	HalfCurveOrder = new(big.Int).Rsh(CurveOrder, 1)
)

// Signature is an ECDSA (r, s) pair. Values are immutable.
type Signature struct {
	r secp256k1.ModNScalar
	s secp256k1.ModNScalar
}

// NewSignature builds a signature from big integers. Both components must be
// in [1, n-1].
func NewSignature(r, s *big.Int) (*Signature, error) {
	sig := &Signature{}
	if err := setScalar(&sig.r, r, "r"); err != nil {
		return nil, err
	}
	if err := setScalar(&sig.s, s, "s"); err != nil {
		return nil, err
	}
	return sig, nil
}

// ParseCompact parses the 65 byte compact form and returns the signature
// together with the recovery id and compression flag it carries.
func ParseCompact(b []byte) (*Signature, int, bool, error) {
	if len(b) != CompactSignatureLength {
		return nil, 0, false, &fault.FormatError{
			Code:     fault.ErrInvalidSignature,
			Message:  fmt.Sprintf("compact signature must be %d bytes, got %d", CompactSignatureLength, len(b)),
			Position: -1,
		}
	}
	code := int(b[0]) - compactMagicOffset
	if code < 0 || code > compactCompressed+3 {
		return nil, 0, false, &fault.FormatError{
			Code:     fault.ErrInvalidSignature,
			Message:  fmt.Sprintf("recovery byte %d out of range", b[0]),
			Position: 0,
		}
	}
	sig, err := NewSignature(new(big.Int).SetBytes(b[1:33]), new(big.Int).SetBytes(b[33:]))
	if err != nil {
		return nil, 0, false, err
	}
	return sig, code & 3, code&compactCompressed != 0, nil
}

// ParseCompactHex parses a hex encoded compact signature.
func ParseCompactHex(s string) (*Signature, int, bool, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, 0, false, &fault.FormatError{Code: fault.ErrInvalidHex, Message: "signature hex", Position: -1, Cause: err}
	}
	return ParseCompact(b)
}

// R returns a copy of r.
func (sig *Signature) R() *big.Int {
	b := sig.r.Bytes()
	return new(big.Int).SetBytes(b[:])
}

// S returns a copy of s.
func (sig *Signature) S() *big.Int {
	b := sig.s.Bytes()
	return new(big.Int).SetBytes(b[:])
}

// IsCanonical reports s <= HalfCurveOrder.
func (sig *Signature) IsCanonical() bool {
	return !sig.s.IsOverHalfOrder()
}

// ToCanonicalised returns (r, n - s) when s is in the upper half of the
// order, otherwise the receiver itself. The network rejects high-S
// signatures, so this must run before a signature is attached.
func (sig *Signature) ToCanonicalised() *Signature {
	if sig.IsCanonical() {
		return sig
	}
	canonical := &Signature{r: sig.r, s: sig.s}
	canonical.s.Negate()
	return canonical
}

// Equal compares (r, s) values.
func (sig *Signature) Equal(other *Signature) bool {
	if sig == nil || other == nil {
		return sig == other
	}
	return sig.r.Equals(&other.r) && sig.s.Equals(&other.s)
}

// Compact serializes to recovery byte || r || s. The recovery byte is
// 27 + recoveryID, plus 4 when the signing key is compressed.
func (sig *Signature) Compact(recoveryID int, compressed bool) []byte {
	b := make([]byte, CompactSignatureLength)
	b[0] = byte(compactMagicOffset + (recoveryID & 3))
	if compressed {
		b[0] += compactCompressed
	}
	r, s := sig.r.Bytes(), sig.s.Bytes()
	copy(b[1:33], r[:])
	copy(b[33:], s[:])
	return b
}

// Serialize returns the DER encoding (always with low S).
func (sig *Signature) Serialize() []byte {
	return sig.toECDSA().Serialize()
}

// String prints r and s as hex.
func (sig *Signature) String() string {
	r, s := sig.r.Bytes(), sig.s.Bytes()
	return fmt.Sprintf("(%x, %x)", r[:], s[:])
}

func (sig *Signature) toECDSA() *ecdsa.Signature {
	return ecdsa.NewSignature(&sig.r, &sig.s)
}

func setScalar(dst *secp256k1.ModNScalar, v *big.Int, name string) error {
	if v == nil || v.Sign() <= 0 || v.Cmp(CurveOrder) >= 0 {
		return &fault.FormatError{
			Code:     fault.ErrInvalidSignature,
			Message:  fmt.Sprintf("signature %s must be in [1, n-1]", name),
			Position: -1,
		}
	}
	dst.SetByteSlice(v.Bytes())
	return nil
}
