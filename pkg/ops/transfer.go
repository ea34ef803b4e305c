package ops

import (
	"encoding/json"

	"github.com/suffix-labs/echo-signer/pkg/chain"
)

// Transfer moves Amount from one account to another.
type Transfer struct {
	FeeAmount chain.AssetAmount
	From      chain.ObjectID
	To        chain.ObjectID
	Amount    chain.AssetAmount
}

type transferJSON struct {
	Fee        chain.AssetAmount `json:"fee"`
	From       chain.ObjectID    `json:"from"`
	To         chain.ObjectID    `json:"to"`
	Amount     chain.AssetAmount `json:"amount"`
	Extensions []interface{}     `json:"extensions"`
}

// Type implements Operation.
func (t *Transfer) Type() OperationType { return TransferOperationType }

// Fee implements Operation.
func (t *Transfer) Fee() chain.AssetAmount { return t.FeeAmount }

// Bytes implements Operation: fee, from, to, amount, extensions.
func (t *Transfer) Bytes() []byte {
	w := &chain.Writer{}
	t.FeeAmount.WriteTo(w)
	w.ObjectID(t.From).ObjectID(t.To)
	t.Amount.WriteTo(w)
	w.EmptyExtensions()
	return w.Result()
}

// MarshalJSON implements json.Marshaler.
func (t *Transfer) MarshalJSON() ([]byte, error) {
	return json.Marshal(transferJSON{
		Fee:        t.FeeAmount,
		From:       t.From,
		To:         t.To,
		Amount:     t.Amount,
		Extensions: []interface{}{},
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Transfer) UnmarshalJSON(data []byte) error {
	var body transferJSON
	if err := json.Unmarshal(data, &body); err != nil {
		return err
	}
	*t = Transfer{FeeAmount: body.Fee, From: body.From, To: body.To, Amount: body.Amount}
	return nil
}

func readTransfer(r *chain.Reader) Operation {
	t := &Transfer{}
	t.FeeAmount = chain.ReadAssetAmount(r)
	t.From = r.ObjectID(chain.ProtocolSpace, chain.AccountType)
	t.To = r.ObjectID(chain.ProtocolSpace, chain.AccountType)
	t.Amount = chain.ReadAssetAmount(r)
	r.EmptyExtensions()
	return t
}
