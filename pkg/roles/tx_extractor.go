package roles

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/suffix-labs/echo-signer/pkg/fault"
	"github.com/suffix-labs/echo-signer/pkg/tx"
)

// TxExtractor produces the final forms of a signed transaction.
//
// The extractor:
//   - Validates that the transaction is locked and signed
//   - Renders the JSON accepted by broadcast_transaction
//   - Renders the raw signed wire bytes
type TxExtractor struct {
	tx  *tx.Transaction
	log zerolog.Logger
}

// NewTxExtractor creates a new TxExtractor.
func NewTxExtractor(t *tx.Transaction) *TxExtractor {
	return &TxExtractor{tx: t, log: zerolog.Nop()}
}

// WithLogger attaches a logger.
func (e *TxExtractor) WithLogger(log zerolog.Logger) *TxExtractor {
	e.log = log
	return e
}

// Extract returns the broadcast JSON.
func (e *TxExtractor) Extract() ([]byte, error) {
	if err := e.validate(); err != nil {
		return nil, fmt.Errorf("transaction validation failed: %w", err)
	}

	out, err := json.Marshal(e.tx)
	if err != nil {
		return nil, fmt.Errorf("failed to encode transaction: %w", err)
	}

	e.log.Debug().Str("id", e.tx.ID()).Int("bytes", len(out)).Msg("transaction extracted")
	return out, nil
}

// ExtractRaw returns the signed wire bytes.
func (e *TxExtractor) ExtractRaw() ([]byte, error) {
	if err := e.validate(); err != nil {
		return nil, fmt.Errorf("transaction validation failed: %w", err)
	}
	return e.tx.SerializeSigned(), nil
}

// validate checks that the transaction is complete.
func (e *TxExtractor) validate() error {
	if !e.tx.IsLocked() {
		return &fault.VerificationFailure{
			Code:    fault.ErrNotLocked,
			Message: fmt.Sprintf("transaction still modifiable (flags: 0x%x)", e.tx.TxModifiable),
		}
	}
	if len(e.tx.Signatures) == 0 {
		return &fault.VerificationFailure{Code: fault.ErrUnsigned, Message: "transaction has no signatures"}
	}
	return nil
}
