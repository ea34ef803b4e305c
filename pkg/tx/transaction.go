// Package tx holds the transaction container that moves through the signing
// roles, together with its wire encoding, signing digest and JSON form.
//
// Unsigned wire form:
//
//	u16le ref_block_num || u32le ref_block_prefix || u32le expiration ||
//	varint(len ops) || ops... || varint(0) extensions
//
// The signed form appends varint(len signatures) followed by each 65 byte
// compact signature. The chain id is never serialized; it is only mixed into
// the signing digest.
package tx

import (
	"encoding/hex"
	"fmt"
	"math"
	"time"

	"github.com/suffix-labs/echo-signer/pkg/chain"
	"github.com/suffix-labs/echo-signer/pkg/crypto"
	"github.com/suffix-labs/echo-signer/pkg/fault"
	"github.com/suffix-labs/echo-signer/pkg/ops"
)

// Modification flags.
const (
	FlagOperationsModifiable uint8 = 1 << 0 // Bit 0: operations may be appended
	FlagHeaderModifiable     uint8 = 1 << 1 // Bit 1: reference block and expiration may change
)

// IDLength is the byte length of a transaction id.
const IDLength = 20

// CheckExpiration fails unless expiration fits the unsigned 32 bit epoch
// seconds of the wire header.
func CheckExpiration(expiration time.Time) error {
	if sec := expiration.Unix(); sec < 0 || sec > math.MaxUint32 {
		return &fault.FormatError{
			Code:     fault.ErrInvalidExpiry,
			Message:  fmt.Sprintf("expiration %s outside the 32 bit epoch range", expiration.UTC().Format(time.RFC3339)),
			Position: -1,
		}
	}
	return nil
}

// Transaction is a transaction under construction or ready to broadcast.
type Transaction struct {
	ChainID        [chain.ChainIDLength]byte
	RefBlockNum    uint16
	RefBlockPrefix uint32
	Expiration     time.Time
	Operations     []ops.Operation
	Signatures     [][]byte // compact 65 byte signatures

	TxModifiable uint8
}

// IsModifiable reports whether any of flags are still set.
func (t *Transaction) IsModifiable(flags uint8) bool {
	return t.TxModifiable&flags != 0
}

// IsLocked reports whether the body is final and may be signed.
func (t *Transaction) IsLocked() bool {
	return t.TxModifiable == 0
}

// Serialize returns the unsigned wire form.
func (t *Transaction) Serialize() []byte {
	w := &chain.Writer{}
	t.writeBody(w)
	return w.Result()
}

// SerializeSigned returns the wire form including signatures.
func (t *Transaction) SerializeSigned() []byte {
	w := &chain.Writer{}
	t.writeBody(w)
	w.Varint(uint64(len(t.Signatures)))
	for _, sig := range t.Signatures {
		w.Raw(sig)
	}
	return w.Result()
}

func (t *Transaction) writeBody(w *chain.Writer) {
	w.Uint16(t.RefBlockNum).
		Uint32(t.RefBlockPrefix).
		Uint32(uint32(t.Expiration.Unix())).
		Varint(uint64(len(t.Operations)))
	for _, op := range t.Operations {
		ops.Write(w, op)
	}
	w.EmptyExtensions()
}

// SigningDigest is HashTwice(chain id || unsigned wire form).
func (t *Transaction) SigningDigest() crypto.Digest {
	return crypto.HashTwice(t.ChainID[:], t.Serialize())
}

// ID returns the hex transaction id: the first 20 bytes of HashTwice over
// the unsigned wire form.
func (t *Transaction) ID() string {
	digest := crypto.HashTwice(t.Serialize())
	return hex.EncodeToString(digest[:IDLength])
}

// HasSignature reports whether sig is already attached.
func (t *Transaction) HasSignature(sig []byte) bool {
	for _, s := range t.Signatures {
		if string(s) == string(sig) {
			return true
		}
	}
	return false
}

// Clone returns a copy whose slices can be changed independently.
// Operations are shared; they are treated as immutable once added.
func (t *Transaction) Clone() *Transaction {
	c := *t
	c.Operations = append([]ops.Operation(nil), t.Operations...)
	c.Signatures = make([][]byte, len(t.Signatures))
	for i, sig := range t.Signatures {
		c.Signatures[i] = append([]byte(nil), sig...)
	}
	return &c
}
