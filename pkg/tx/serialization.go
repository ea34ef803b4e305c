package tx

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/suffix-labs/echo-signer/pkg/chain"
	"github.com/suffix-labs/echo-signer/pkg/crypto"
	"github.com/suffix-labs/echo-signer/pkg/fault"
	"github.com/suffix-labs/echo-signer/pkg/ops"
)

// maxOperations bounds the operation count read from untrusted input.
const maxOperations = 1 << 16

// Parse decodes the unsigned wire form. The result is locked.
func Parse(data []byte, chainID [chain.ChainIDLength]byte) (*Transaction, error) {
	return parse(data, chainID, false)
}

// ParseSigned decodes the signed wire form. The result is locked.
func ParseSigned(data []byte, chainID [chain.ChainIDLength]byte) (*Transaction, error) {
	return parse(data, chainID, true)
}

func parse(data []byte, chainID [chain.ChainIDLength]byte, signed bool) (*Transaction, error) {
	r := chain.NewReader(data)

	t := &Transaction{ChainID: chainID}
	t.RefBlockNum = r.Uint16()
	t.RefBlockPrefix = r.Uint32()
	t.Expiration = time.Unix(int64(r.Uint32()), 0).UTC()

	count := r.Varint()
	if err := r.Err(); err != nil {
		return nil, err
	}
	if count > maxOperations {
		return nil, &fault.ParseError{Message: fmt.Sprintf("operation count %d too large", count), Offset: r.Offset()}
	}

	for i := uint64(0); i < count; i++ {
		op, err := ops.Read(r)
		if err != nil {
			return nil, &fault.ParseError{Message: fmt.Sprintf("operation %d", i), Offset: r.Offset(), Cause: err}
		}
		t.Operations = append(t.Operations, op)
	}
	r.EmptyExtensions()

	if signed {
		n := r.Varint()
		if r.Err() == nil && n > uint64(r.Remaining()/crypto.CompactSignatureLength) {
			return nil, &fault.ParseError{Message: fmt.Sprintf("signature count %d exceeds data", n), Offset: r.Offset()}
		}
		for i := uint64(0); i < n && r.Err() == nil; i++ {
			t.Signatures = append(t.Signatures, r.Raw(crypto.CompactSignatureLength))
		}
	}

	if err := r.Err(); err != nil {
		return nil, err
	}
	if r.Remaining() != 0 {
		return nil, &fault.ParseError{Message: fmt.Sprintf("%d trailing bytes", r.Remaining()), Offset: r.Offset()}
	}

	return t, nil
}

type transactionJSON struct {
	RefBlockNum    uint16         `json:"ref_block_num"`
	RefBlockPrefix uint32         `json:"ref_block_prefix"`
	Expiration     string         `json:"expiration"`
	Operations     []ops.Envelope `json:"operations"`
	Extensions     []interface{}  `json:"extensions"`
	Signatures     []string       `json:"signatures"`
}

// MarshalJSON renders the broadcast form with hex signatures.
func (t *Transaction) MarshalJSON() ([]byte, error) {
	body := transactionJSON{
		RefBlockNum:    t.RefBlockNum,
		RefBlockPrefix: t.RefBlockPrefix,
		Expiration:     t.Expiration.UTC().Format(chain.ExpirationTimeFormat),
		Operations:     make([]ops.Envelope, len(t.Operations)),
		Extensions:     []interface{}{},
		Signatures:     make([]string, len(t.Signatures)),
	}
	for i, op := range t.Operations {
		body.Operations[i] = ops.Envelope{Operation: op}
	}
	for i, sig := range t.Signatures {
		body.Signatures[i] = hex.EncodeToString(sig)
	}
	return json.Marshal(body)
}
