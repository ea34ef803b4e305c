package roles

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/suffix-labs/echo-signer/pkg/fault"
	"github.com/suffix-labs/echo-signer/pkg/ops"
	"github.com/suffix-labs/echo-signer/pkg/tx"
)

// Constructor appends operations to a transaction.
//
// Operations keep the order they are added in; the order is part of what
// gets signed.
type Constructor struct {
	tx  *tx.Transaction
	log zerolog.Logger
}

// NewConstructor creates a new Constructor.
func NewConstructor(t *tx.Transaction) *Constructor {
	return &Constructor{tx: t, log: zerolog.Nop()}
}

// WithLogger attaches a logger.
func (c *Constructor) WithLogger(log zerolog.Logger) *Constructor {
	c.log = log
	return c
}

// AddOperation appends op.
//
// Returns an error if the operation list is no longer modifiable.
func (c *Constructor) AddOperation(op ops.Operation) error {
	if !c.tx.IsModifiable(tx.FlagOperationsModifiable) {
		return &fault.VerificationFailure{
			Code:    fault.ErrNotModifiable,
			Message: "operations not modifiable",
		}
	}

	c.tx.Operations = append(c.tx.Operations, op)
	c.log.Debug().Stringer("type", op.Type()).Int("index", len(c.tx.Operations)-1).Msg("operation added")
	return nil
}

// SetExpiration replaces the expiration while the header is modifiable.
func (c *Constructor) SetExpiration(expiration time.Time) error {
	if !c.tx.IsModifiable(tx.FlagHeaderModifiable) {
		return &fault.VerificationFailure{
			Code:    fault.ErrNotModifiable,
			Message: "header not modifiable",
		}
	}
	if err := tx.CheckExpiration(expiration); err != nil {
		return err
	}
	c.tx.Expiration = expiration.UTC().Truncate(time.Second)
	return nil
}

// Finish returns the transaction, ready for the Fee Finalizer.
func (c *Constructor) Finish() *tx.Transaction {
	return c.tx
}
