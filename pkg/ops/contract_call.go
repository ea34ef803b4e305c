package ops

import (
	"encoding/hex"
	"encoding/json"

	"github.com/suffix-labs/echo-signer/pkg/chain"
)

// ContractCall invokes a deployed contract with ABI encoded input.
type ContractCall struct {
	FeeAmount chain.AssetAmount
	Registrar chain.ObjectID
	Value     chain.AssetAmount
	Code      []byte
	Callee    chain.ObjectID
}

type contractCallJSON struct {
	Fee        chain.AssetAmount `json:"fee"`
	Registrar  chain.ObjectID    `json:"registrar"`
	Value      chain.AssetAmount `json:"value"`
	Code       string            `json:"code"`
	Callee     chain.ObjectID    `json:"callee"`
	Extensions []interface{}     `json:"extensions"`
}

// Type implements Operation.
func (c *ContractCall) Type() OperationType { return ContractCallOperationType }

// Fee implements Operation.
func (c *ContractCall) Fee() chain.AssetAmount { return c.FeeAmount }

// Bytes implements Operation: fee, registrar, value, code, callee, extensions.
func (c *ContractCall) Bytes() []byte {
	w := &chain.Writer{}
	c.FeeAmount.WriteTo(w)
	w.ObjectID(c.Registrar)
	c.Value.WriteTo(w)
	w.Bytes(c.Code).ObjectID(c.Callee).EmptyExtensions()
	return w.Result()
}

// MarshalJSON implements json.Marshaler.
func (c *ContractCall) MarshalJSON() ([]byte, error) {
	return json.Marshal(contractCallJSON{
		Fee:        c.FeeAmount,
		Registrar:  c.Registrar,
		Value:      c.Value,
		Code:       hex.EncodeToString(c.Code),
		Callee:     c.Callee,
		Extensions: []interface{}{},
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *ContractCall) UnmarshalJSON(data []byte) error {
	var body contractCallJSON
	if err := json.Unmarshal(data, &body); err != nil {
		return err
	}
	code, err := hex.DecodeString(body.Code)
	if err != nil {
		return err
	}
	*c = ContractCall{
		FeeAmount: body.Fee,
		Registrar: body.Registrar,
		Value:     body.Value,
		Code:      code,
		Callee:    body.Callee,
	}
	return nil
}

func readContractCall(r *chain.Reader) Operation {
	c := &ContractCall{}
	c.FeeAmount = chain.ReadAssetAmount(r)
	c.Registrar = r.ObjectID(chain.ProtocolSpace, chain.AccountType)
	c.Value = chain.ReadAssetAmount(r)
	c.Code = r.Bytes()
	c.Callee = r.ObjectID(chain.ProtocolSpace, chain.ContractType)
	r.EmptyExtensions()
	return c
}
