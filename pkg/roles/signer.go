package roles

import (
	"github.com/rs/zerolog"

	"github.com/suffix-labs/echo-signer/pkg/crypto"
	"github.com/suffix-labs/echo-signer/pkg/fault"
	"github.com/suffix-labs/echo-signer/pkg/tx"
)

// Signer adds compact recoverable signatures to a locked transaction.
//
// The Signer role:
//   - Computes the signing digest HashTwice(chain id || transaction bytes)
//   - Signs it with each key and canonicalises the result to low-S
//   - Finds the recovery id so verifiers can recover the signer's key
//   - Appends the 65 byte compact form to the transaction's signatures
//
// Several signers can work on copies of the same transaction; the Combiner
// merges what they produce.
type Signer struct {
	tx  *tx.Transaction
	log zerolog.Logger
}

// NewSigner creates a new Signer.
func NewSigner(t *tx.Transaction) *Signer {
	return &Signer{tx: t, log: zerolog.Nop()}
}

// WithLogger attaches a logger.
func (s *Signer) WithLogger(log zerolog.Logger) *Signer {
	s.log = log
	return s
}

// Sign signs the transaction with every key, in order.
//
// Either all signatures are appended or none are. Returns an error if:
//   - the transaction is still modifiable
//   - a key has no private scalar or fails to sign (KeyCrypterError)
//
// A signature already present is not added twice.
func (s *Signer) Sign(keys ...*crypto.Key) error {
	if !s.tx.IsLocked() {
		return &fault.VerificationFailure{
			Code:    fault.ErrNotLocked,
			Message: "transaction must be locked by the fee finalizer before signing",
			Details: map[string]interface{}{"tx_modifiable": s.tx.TxModifiable},
		}
	}

	digest := s.tx.SigningDigest()
	s.log.Debug().Str("digest", digest.String()).Int("keys", len(keys)).Msg("signing digest computed")

	signatures := make([][]byte, 0, len(keys))
	for i, key := range keys {
		compact, err := signCompact(key, digest)
		if err != nil {
			return &fault.KeyCrypterError{KeyIndex: i, Cause: err}
		}
		signatures = append(signatures, compact)
	}

	for _, sig := range signatures {
		if s.tx.HasSignature(sig) {
			continue
		}
		s.tx.Signatures = append(s.tx.Signatures, sig)
	}

	s.log.Debug().Int("signatures", len(s.tx.Signatures)).Msg("signatures appended")
	return nil
}

// signCompact produces the 65 byte compact signature of digest by key.
func signCompact(key *crypto.Key, digest crypto.Digest) ([]byte, error) {
	if key == nil {
		return nil, &fault.MissingPrivateKeyError{Operation: "sign"}
	}

	sig, err := key.Sign(digest)
	if err != nil {
		return nil, err
	}
	sig = sig.ToCanonicalised()

	id, err := key.FindRecoveryID(digest, sig)
	if err != nil {
		return nil, err
	}
	return sig.Compact(id, key.IsCompressed()), nil
}

// Finish returns the signed transaction.
func (s *Signer) Finish() *tx.Transaction {
	return s.tx
}
