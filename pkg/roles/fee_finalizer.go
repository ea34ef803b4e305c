package roles

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/suffix-labs/echo-signer/pkg/fault"
	"github.com/suffix-labs/echo-signer/pkg/tx"
)

// FeeFinalizer checks that every operation carries a usable fee and then
// locks the transaction body so it can be signed.
//
// Fees are computed by the caller (usually from the network's fee schedule);
// this role only enforces that one has been attached.
type FeeFinalizer struct {
	tx  *tx.Transaction
	log zerolog.Logger
}

// NewFeeFinalizer creates a new FeeFinalizer.
func NewFeeFinalizer(t *tx.Transaction) *FeeFinalizer {
	return &FeeFinalizer{tx: t, log: zerolog.Nop()}
}

// WithLogger attaches a logger.
func (f *FeeFinalizer) WithLogger(log zerolog.Logger) *FeeFinalizer {
	f.log = log
	return f
}

// Finalize validates fees and clears every modification flag.
//
// Returns an error if:
//   - the transaction has no operations
//   - an operation's fee asset is not a 1.3.x asset id
//   - an operation's fee amount is negative
//
// On error the transaction is left unchanged.
func (f *FeeFinalizer) Finalize() error {
	if len(f.tx.Operations) == 0 {
		return &fault.VerificationFailure{
			Code:    fault.ErrMissingFee,
			Message: "transaction has no operations",
		}
	}

	for i, op := range f.tx.Operations {
		fee := op.Fee()
		if !fee.AssetID.IsAsset() {
			return &fault.VerificationFailure{
				Code:    fault.ErrMissingFee,
				Message: fmt.Sprintf("operation %d (%s) has no fee asset", i, op.Type()),
				Details: map[string]interface{}{"index": i, "fee_asset": fee.AssetID.String()},
			}
		}
		if fee.Amount < 0 {
			return &fault.VerificationFailure{
				Code:    fault.ErrMissingFee,
				Message: fmt.Sprintf("operation %d (%s) has negative fee", i, op.Type()),
				Details: map[string]interface{}{"index": i, "fee": fee.String()},
			}
		}
	}

	f.tx.TxModifiable = 0
	f.log.Debug().Int("operations", len(f.tx.Operations)).Str("id", f.tx.ID()).Msg("transaction locked")
	return nil
}

// Finish returns the locked transaction.
func (f *FeeFinalizer) Finish() *tx.Transaction {
	return f.tx
}
