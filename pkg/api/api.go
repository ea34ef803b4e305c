// Package api is the entry point for applications that build and sign
// transactions.
//
// It wraps the roles pipeline in a handful of functions:
//
//  1. ProposeTransaction - Creator, Constructor and Fee Finalizer in one call
//  2. GetSigningDigest - digest every signer signs
//  3. SignTransaction - adds signatures from private keys
//  4. AppendSignature - adds a signature produced elsewhere
//  5. Combine - merges signatures from several parties
//  6. VerifySignatures - checks signers against the expected keys
//  7. FinalizeAndExtract - broadcast JSON and raw bytes
//  8. ParseTransaction / SerializeTransaction - signed wire encoding
//
// BuildSignedTransaction runs 1, 3 and the verifier in one call.
package api

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/suffix-labs/echo-signer/pkg/chain"
	"github.com/suffix-labs/echo-signer/pkg/crypto"
	"github.com/suffix-labs/echo-signer/pkg/ops"
	"github.com/suffix-labs/echo-signer/pkg/roles"
	"github.com/suffix-labs/echo-signer/pkg/tx"
)

var logger = zerolog.Nop()

// SetLogger sets the logger handed to every role. It is not safe to call
// concurrently with the other functions in this package.
func SetLogger(l zerolog.Logger) {
	logger = l
}

// TransactionProposal is everything needed to build a transaction.
type TransactionProposal struct {
	State      chain.ChainState // Chain snapshot the transaction refers to
	Operations []ops.Operation  // Operations in signing order; fees already attached

	ExpirationOffset time.Duration // Added to head block time (0 = 30s default)
	Expiration       *uint32       // Absolute expiration in epoch seconds; wins over the offset
}

// ============================================================================
// API Function 1: ProposeTransaction
// ============================================================================

// ProposeTransaction builds a locked, unsigned transaction.
//
// This function:
//  1. Creates the transaction header using the Creator role
//  2. Adds every operation using the Constructor role
//  3. Checks fees and locks the body using the Fee Finalizer role
//
// The result is ready for SignTransaction.
func ProposeTransaction(proposal *TransactionProposal) (*tx.Transaction, error) {
	// Step 1: Creator
	creator := roles.NewCreator(proposal.State).WithLogger(logger)
	if proposal.ExpirationOffset > 0 {
		creator.WithExpirationOffset(proposal.ExpirationOffset)
	}
	if proposal.Expiration != nil {
		creator.WithExpiration(*proposal.Expiration)
	}

	t, err := creator.Create()
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	// Step 2: Constructor
	constructor := roles.NewConstructor(t).WithLogger(logger)
	for i, op := range proposal.Operations {
		if err := constructor.AddOperation(op); err != nil {
			return nil, fmt.Errorf("failed to add operation %d: %w", i, err)
		}
	}

	// Step 3: Fee Finalizer
	finalizer := roles.NewFeeFinalizer(constructor.Finish()).WithLogger(logger)
	if err := finalizer.Finalize(); err != nil {
		return nil, fmt.Errorf("fee finalization failed: %w", err)
	}

	return finalizer.Finish(), nil
}

// ============================================================================
// API Function 2: GetSigningDigest
// ============================================================================

// GetSigningDigest returns HashTwice(chain id || transaction bytes).
func GetSigningDigest(t *tx.Transaction) crypto.Digest {
	return t.SigningDigest()
}

// ============================================================================
// API Function 3: SignTransaction
// ============================================================================

// SignTransaction signs t with every key. Nothing is appended if any key
// fails.
func SignTransaction(t *tx.Transaction, keys ...*crypto.Key) error {
	return roles.NewSigner(t).WithLogger(logger).Sign(keys...)
}

// ============================================================================
// API Function 4: AppendSignature
// ============================================================================

// AppendSignature adds a compact signature made outside this process, for
// example on a hardware device. The signature must recover to a public key
// over t's signing digest and be canonical.
//
// Returns the recovered signer.
func AppendSignature(t *tx.Transaction, compact []byte) (*crypto.Key, error) {
	if !t.IsLocked() {
		return nil, fmt.Errorf("transaction still modifiable (flags: 0x%x)", t.TxModifiable)
	}

	sig, _, _, err := crypto.ParseCompact(compact)
	if err != nil {
		return nil, err
	}
	if !sig.IsCanonical() {
		return nil, fmt.Errorf("signature is not canonical (high S)")
	}

	signer, err := RecoverPublicKey(compact, t.SigningDigest())
	if err != nil {
		return nil, err
	}

	if !t.HasSignature(compact) {
		t.Signatures = append(t.Signatures, append([]byte(nil), compact...))
	}
	return signer, nil
}

// ============================================================================
// API Function 5: Combine
// ============================================================================

// Combine merges the signatures of several copies of one transaction.
func Combine(txs ...*tx.Transaction) (*tx.Transaction, error) {
	return roles.NewCombiner(txs).WithLogger(logger).Combine()
}

// ============================================================================
// API Function 6: VerifySignatures
// ============================================================================

// VerifySignatures checks that t is signed by exactly the expected keys. The
// chain id bound into the digest is the one t was created with.
func VerifySignatures(t *tx.Transaction, expected ...*crypto.Key) error {
	return roles.NewSignatureVerifier(t).WithLogger(logger).Verify(expected...)
}

// RecoverPublicKey recovers the signer of a 65 byte compact signature over
// digest.
func RecoverPublicKey(compact []byte, digest crypto.Digest) (*crypto.Key, error) {
	return roles.RecoverSigner(compact, digest)
}

// ============================================================================
// API Function 7: FinalizeAndExtract
// ============================================================================

// FinalizeAndExtract returns the broadcast JSON and the signed wire bytes.
func FinalizeAndExtract(t *tx.Transaction) ([]byte, []byte, error) {
	extractor := roles.NewTxExtractor(t).WithLogger(logger)

	out, err := extractor.Extract()
	if err != nil {
		return nil, nil, err
	}
	raw, err := extractor.ExtractRaw()
	if err != nil {
		return nil, nil, err
	}
	return out, raw, nil
}

// ============================================================================
// API Function 8: ParseTransaction / SerializeTransaction
// ============================================================================

// ParseTransaction decodes signed wire bytes for the chain with the given hex
// id.
func ParseTransaction(raw []byte, chainID string) (*tx.Transaction, error) {
	id, err := chain.ParseChainID(chainID)
	if err != nil {
		return nil, err
	}
	return tx.ParseSigned(raw, id)
}

// SerializeTransaction encodes t with its signatures.
func SerializeTransaction(t *tx.Transaction) []byte {
	return t.SerializeSigned()
}

// ============================================================================
// Convenience
// ============================================================================

// BuildSignedTransaction proposes, signs and self-verifies a transaction.
//
// Output is deterministic: the same proposal and keys always produce the
// same bytes.
func BuildSignedTransaction(proposal *TransactionProposal, keys ...*crypto.Key) (*tx.Transaction, error) {
	t, err := ProposeTransaction(proposal)
	if err != nil {
		return nil, err
	}

	if err := SignTransaction(t, keys...); err != nil {
		return nil, fmt.Errorf("signing failed: %w", err)
	}

	if len(keys) > 0 {
		if err := VerifySignatures(t, keys...); err != nil {
			return nil, fmt.Errorf("self verification failed: %w", err)
		}
	}

	logger.Info().Str("id", t.ID()).Int("operations", len(t.Operations)).Int("signatures", len(t.Signatures)).Msg("transaction built")
	return t, nil
}
