package roles

import (
	"bytes"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/suffix-labs/echo-signer/pkg/fault"
	"github.com/suffix-labs/echo-signer/pkg/tx"
)

// Combiner merges the signatures of several copies of one transaction.
//
// Use cases:
//   - Accounts controlled by several keys held by different parties
//   - Signing on separate devices and merging before broadcast
//
// The copies must agree byte for byte on the chain id and the unsigned body.
// Signatures are merged in first-seen order without duplicates.
type Combiner struct {
	txs []*tx.Transaction
	log zerolog.Logger
}

// NewCombiner creates a new Combiner.
//
// Parameters:
//   - txs: copies of the same transaction (must all be locked)
func NewCombiner(txs []*tx.Transaction) *Combiner {
	return &Combiner{txs: txs, log: zerolog.Nop()}
}

// WithLogger attaches a logger.
func (c *Combiner) WithLogger(log zerolog.Logger) *Combiner {
	c.log = log
	return c
}

// Combine returns a new transaction carrying every distinct signature. The
// inputs are not modified.
func (c *Combiner) Combine() (*tx.Transaction, error) {
	if len(c.txs) == 0 {
		return nil, &fault.CombineError{Message: "no transactions to combine"}
	}

	base := c.txs[0]
	if base == nil || !base.IsLocked() {
		return nil, &fault.CombineError{Message: "transaction 0 is not locked"}
	}

	body := base.Serialize()
	result := base.Clone()

	for i := 1; i < len(c.txs); i++ {
		other := c.txs[i]
		if err := c.validateCompatible(base, body, other); err != nil {
			return nil, &fault.CombineError{Message: fmt.Sprintf("transaction %d", i), Cause: err}
		}
		for _, sig := range other.Signatures {
			if !result.HasSignature(sig) {
				result.Signatures = append(result.Signatures, append([]byte(nil), sig...))
			}
		}
	}

	c.log.Debug().Int("inputs", len(c.txs)).Int("signatures", len(result.Signatures)).Msg("signatures combined")
	return result, nil
}

// validateCompatible checks that other is the same transaction as base.
func (c *Combiner) validateCompatible(base *tx.Transaction, body []byte, other *tx.Transaction) error {
	if other == nil {
		return fmt.Errorf("missing transaction")
	}
	if !other.IsLocked() {
		return fmt.Errorf("transaction still modifiable (flags: 0x%x)", other.TxModifiable)
	}
	if base.ChainID != other.ChainID {
		return fmt.Errorf("incompatible chain ids: %x != %x", base.ChainID, other.ChainID)
	}
	if !bytes.Equal(body, other.Serialize()) {
		return fmt.Errorf("incompatible bodies: %s != %s", base.ID(), other.ID())
	}
	return nil
}
