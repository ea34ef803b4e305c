// Package roles splits transaction construction into distinct steps:
//   - Creator: sets the chain binding, reference block and expiration
//   - Constructor: appends operations
//   - Fee Finalizer: checks every operation carries a fee and locks the body
//   - Signer: adds compact recoverable signatures
//   - Combiner: merges signatures collected by different parties
//   - Signature Verifier: recovers signers and checks them against expected keys
//   - Transaction Extractor: produces broadcast JSON and raw bytes
//
// Each role can run in a different process or on a different machine; the
// transaction carries everything the next role needs.
package roles

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/suffix-labs/echo-signer/pkg/chain"
	"github.com/suffix-labs/echo-signer/pkg/ops"
	"github.com/suffix-labs/echo-signer/pkg/tx"
)

// DefaultExpirationOffset is added to the head block time when no explicit
// expiration is set.
const DefaultExpirationOffset = 30 * time.Second

// Creator initializes a transaction with no operations.
//
// The Creator fixes the transaction-wide fields every signer must agree on:
// the chain id, the reference block and the expiration. Operations are added
// later by the Constructor.
type Creator struct {
	state      chain.ChainState
	offset     time.Duration
	expiration *time.Time
	log        zerolog.Logger
}

// NewCreator creates a Creator for the given chain snapshot.
//
// Parameters:
//   - state: chain id, head block number, head block id and head block time
func NewCreator(state chain.ChainState) *Creator {
	return &Creator{
		state:  state,
		offset: DefaultExpirationOffset,
		log:    zerolog.Nop(),
	}
}

// WithExpirationOffset replaces the default 30 second offset.
func (c *Creator) WithExpirationOffset(offset time.Duration) *Creator {
	c.offset = offset
	return c
}

// WithExpiration sets an absolute expiration in epoch seconds. It wins over
// any offset.
func (c *Creator) WithExpiration(epochSeconds uint32) *Creator {
	t := time.Unix(int64(epochSeconds), 0).UTC()
	c.expiration = &t
	return c
}

// WithLogger attaches a logger.
func (c *Creator) WithLogger(log zerolog.Logger) *Creator {
	c.log = log
	return c
}

// Create builds the base transaction.
//
// Returns a transaction with:
//   - chain id decoded from hex
//   - ref_block_num = head block number & 0xFFFF
//   - ref_block_prefix = bytes 4..8 of the head block id, little-endian
//   - all modification flags set
//
// Returns an error if the chain id or head block id is malformed, or the
// expiration does not fit in 32 bit epoch seconds.
func (c *Creator) Create() (*tx.Transaction, error) {
	chainID, err := c.state.ChainIDBytes()
	if err != nil {
		return nil, fmt.Errorf("invalid chain id: %w", err)
	}

	prefix, err := c.state.RefBlockPrefix()
	if err != nil {
		return nil, fmt.Errorf("invalid head block id: %w", err)
	}

	expiration := c.state.Expiration(c.offset)
	if c.expiration != nil {
		expiration = *c.expiration
	}
	if err := tx.CheckExpiration(expiration); err != nil {
		return nil, err
	}

	t := &tx.Transaction{
		ChainID:        chainID,
		RefBlockNum:    c.state.RefBlockNum(),
		RefBlockPrefix: prefix,
		Expiration:     expiration,
		Operations:     []ops.Operation{},
		Signatures:     [][]byte{},
		TxModifiable:   tx.FlagOperationsModifiable | tx.FlagHeaderModifiable,
	}

	c.log.Debug().
		Uint16("ref_block_num", t.RefBlockNum).
		Uint32("ref_block_prefix", t.RefBlockPrefix).
		Time("expiration", t.Expiration).
		Msg("transaction created")

	return t, nil
}
