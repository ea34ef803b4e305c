// Package ops defines the operations a transaction carries.
//
// Each operation knows its type id, its fee and its wire and JSON forms.
// On the wire an operation is varint(type) || body; in JSON it is the
// two element array [type, body].
package ops

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/suffix-labs/echo-signer/pkg/chain"
	"github.com/suffix-labs/echo-signer/pkg/fault"
)

// OperationType is the numeric tag of an operation on the wire.
type OperationType uint64

const (
	TransferOperationType     OperationType = 0
	ContractCallOperationType OperationType = 47
)

func (t OperationType) String() string {
	switch t {
	case TransferOperationType:
		return "transfer"
	case ContractCallOperationType:
		return "contract_call"
	default:
		return fmt.Sprintf("operation_%d", uint64(t))
	}
}

// Operation is a single action inside a transaction.
type Operation interface {
	Type() OperationType
	Fee() chain.AssetAmount
	// Bytes returns the body without the type tag.
	Bytes() []byte
	json.Marshaler
}

// decoder reads one operation body.
type decoder func(r *chain.Reader) Operation

var decoders = map[OperationType]decoder{
	TransferOperationType:     readTransfer,
	ContractCallOperationType: readContractCall,
}

// Registered returns the operation types Parse understands, in order.
func Registered() []OperationType {
	types := make([]OperationType, 0, len(decoders))
	for t := range decoders {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// Write appends the tagged wire form of op to w.
func Write(w *chain.Writer, op Operation) {
	w.Varint(uint64(op.Type())).Raw(op.Bytes())
}

// Read decodes one tagged operation from r.
func Read(r *chain.Reader) (Operation, error) {
	offset := r.Offset()
	t := OperationType(r.Varint())
	if err := r.Err(); err != nil {
		return nil, err
	}

	decode, ok := decoders[t]
	if !ok {
		return nil, &fault.ParseError{
			Message: fmt.Sprintf("%s: type %d, registered %v", fault.ErrUnknownOperation, uint64(t), Registered()),
			Offset:  offset,
		}
	}

	op := decode(r)
	if err := r.Err(); err != nil {
		return nil, err
	}
	return op, nil
}

// Parse decodes a single tagged operation that fills data exactly.
func Parse(data []byte) (Operation, error) {
	r := chain.NewReader(data)
	op, err := Read(r)
	if err != nil {
		return nil, err
	}
	if r.Remaining() != 0 {
		return nil, &fault.ParseError{
			Message: fmt.Sprintf("%d trailing bytes after operation", r.Remaining()),
			Offset:  r.Offset(),
		}
	}
	return op, nil
}

// Envelope renders an operation as [type, body].
type Envelope struct {
	Operation Operation
}

// MarshalJSON implements json.Marshaler.
func (e Envelope) MarshalJSON() ([]byte, error) {
	body, err := e.Operation.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return json.Marshal([]interface{}{uint64(e.Operation.Type()), json.RawMessage(body)})
}
