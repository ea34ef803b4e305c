package roles

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/suffix-labs/echo-signer/pkg/crypto"
	"github.com/suffix-labs/echo-signer/pkg/fault"
	"github.com/suffix-labs/echo-signer/pkg/tx"
)

// SignatureVerifier recovers the public key behind every signature and
// checks the recovered set against the keys that are required to sign.
type SignatureVerifier struct {
	tx  *tx.Transaction
	log zerolog.Logger
}

// NewSignatureVerifier creates a new SignatureVerifier.
func NewSignatureVerifier(t *tx.Transaction) *SignatureVerifier {
	return &SignatureVerifier{tx: t, log: zerolog.Nop()}
}

// WithLogger attaches a logger.
func (v *SignatureVerifier) WithLogger(log zerolog.Logger) *SignatureVerifier {
	v.log = log
	return v
}

// RecoverSigners returns one public key per signature, in signature order.
func (v *SignatureVerifier) RecoverSigners() ([]*crypto.Key, error) {
	digest := v.tx.SigningDigest()

	signers := make([]*crypto.Key, 0, len(v.tx.Signatures))
	for i, raw := range v.tx.Signatures {
		key, err := RecoverSigner(raw, digest)
		if err != nil {
			return nil, fmt.Errorf("signature %d: %w", i, err)
		}
		signers = append(signers, key)
	}
	return signers, nil
}

// Verify checks that the transaction is signed by exactly the expected keys:
// every signature recovers to one of them and each of them has signed.
func (v *SignatureVerifier) Verify(expected ...*crypto.Key) error {
	if len(v.tx.Signatures) == 0 {
		return &fault.VerificationFailure{Code: fault.ErrUnsigned, Message: "transaction has no signatures"}
	}

	signers, err := v.RecoverSigners()
	if err != nil {
		return err
	}

	want := crypto.NewKeySet(expected...)
	for i, signer := range signers {
		if !want.Contains(signer) {
			return &fault.VerificationFailure{
				Code:    fault.ErrUnexpectedSigner,
				Message: fmt.Sprintf("signature %d is not from an expected key", i),
				Details: map[string]interface{}{"index": i, "public_key": signer.PublicKeyText(crypto.DefaultKeyPrefix)},
			}
		}
	}

	signed := crypto.NewKeySet(signers...)
	for i, key := range expected {
		if key != nil && !signed.Contains(key) {
			return &fault.VerificationFailure{
				Code:    fault.ErrMissingSigner,
				Message: fmt.Sprintf("expected key %d has not signed", i),
				Details: map[string]interface{}{"index": i, "public_key": key.PublicKeyText(crypto.DefaultKeyPrefix)},
			}
		}
	}

	v.log.Debug().Int("signatures", len(signers)).Msg("signatures verified")
	return nil
}

// RecoverSigner recovers the public key from a 65 byte compact signature
// using the recovery id and compression flag it carries.
func RecoverSigner(compact []byte, digest crypto.Digest) (*crypto.Key, error) {
	sig, id, compressed, err := crypto.ParseCompact(compact)
	if err != nil {
		return nil, err
	}
	key, ok := crypto.RecoverPublicKey(id, sig, digest, compressed)
	if !ok {
		return nil, &fault.RecoveryError{Message: fmt.Sprintf("no public key for recovery id %d", id)}
	}
	return key, nil
}
