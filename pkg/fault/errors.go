// Package fault defines the error types returned by the signing core.
//
// Every failure is local and synchronous: constructors either return a fully
// formed value or one of these errors, never a partially built object. None of
// them are retried internally.
package fault

import (
	"errors"
	"fmt"
)

// FormatError is returned for malformed text or binary input: bad Base58
// characters, checksum mismatches, wrong-length hash or hex input.
type FormatError struct {
	Code     string // Error code (e.g., ErrInvalidCharacter)
	Message  string // Human-readable error message
	Position int    // Offending position in the input, -1 when not applicable
	Cause    error  // Underlying error (if any)
}

func (e *FormatError) Error() string {
	msg := fmt.Sprintf("format error [%s]: %s", e.Code, e.Message)
	if e.Position >= 0 {
		msg = fmt.Sprintf("%s at position %d", msg, e.Position)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *FormatError) Unwrap() error { return e.Cause }

// InvalidKeyError is returned when key material is out of range or badly
// encoded. The key construction call produced nothing.
type InvalidKeyError struct {
	Code    string
	Message string
	Cause   error
}

func (e *InvalidKeyError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid key [%s]: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid key [%s]: %s", e.Code, e.Message)
}

func (e *InvalidKeyError) Unwrap() error { return e.Cause }

// MissingPrivateKeyError is returned when signing or exporting private bytes
// from a key that only holds a public point.
type MissingPrivateKeyError struct {
	Operation string // What was attempted (e.g., "sign")
}

func (e *MissingPrivateKeyError) Error() string {
	return fmt.Sprintf("missing private key: cannot %s with a public-only key", e.Operation)
}

// RecoveryError is returned when none of the four recovery ids reproduce the
// expected public key. For a signature made by the key over the same digest
// this cannot happen, so it points at a mismatch upstream.
type RecoveryError struct {
	Message string
}

func (e *RecoveryError) Error() string {
	return fmt.Sprintf("recovery error: %s", e.Message)
}

// KeyCrypterError is returned by the transaction signer when a supplied key
// cannot sign.
type KeyCrypterError struct {
	KeyIndex int   // Index of the key in the signing list
	Cause    error // Underlying error
}

func (e *KeyCrypterError) Error() string {
	return fmt.Sprintf("key crypter error for key %d: %v", e.KeyIndex, e.Cause)
}

func (e *KeyCrypterError) Unwrap() error { return e.Cause }

// CombineError is returned when signature sets of different transactions are
// merged.
type CombineError struct {
	Message string
	Cause   error
}

func (e *CombineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("combine error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("combine error: %s", e.Message)
}

func (e *CombineError) Unwrap() error { return e.Cause }

// VerificationFailure is returned when a transaction does not satisfy a
// precondition of the next role (missing fee, unsigned, unexpected signer).
type VerificationFailure struct {
	Code    string
	Message string
	Details map[string]interface{}
}

func (e *VerificationFailure) Error() string {
	return fmt.Sprintf("verification failed [%s]: %s", e.Code, e.Message)
}

// ParseError is returned when serialized transaction bytes cannot be decoded.
type ParseError struct {
	Message string
	Offset  int
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error at offset %d: %s: %v", e.Offset, e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error at offset %d: %s", e.Offset, e.Message)
}

func (e *ParseError) Unwrap() error { return e.Cause }

// Error codes used throughout the core.
const (
	ErrInvalidCharacter = "INVALID_CHARACTER"   // Character outside the Base58 alphabet
	ErrChecksumMismatch = "CHECKSUM_MISMATCH"   // Trailing checksum does not match
	ErrTooShort         = "TOO_SHORT"           // Input shorter than the format requires
	ErrInvalidLength    = "INVALID_LENGTH"      // Input has the wrong fixed length
	ErrInvalidHex       = "INVALID_HEX"         // Hex text could not be decoded
	ErrInvalidObjectID  = "INVALID_OBJECT_ID"   // Not a space.type.instance triple
	ErrScalarOutOfRange = "SCALAR_OUT_OF_RANGE" // Private scalar 0, 1, negative or >= n
	ErrScalarTooLarge   = "SCALAR_TOO_LARGE"    // Private scalar wider than 256 bits
	ErrInvalidPublicKey = "INVALID_PUBLIC_KEY"  // Public point wrong length, prefix or off curve
	ErrMissingFee       = "MISSING_FEE"         // Operation carries no usable fee
	ErrNotLocked        = "NOT_LOCKED"          // Operation list still modifiable
	ErrUnsigned         = "UNSIGNED"            // No signatures attached
	ErrUnexpectedSigner = "UNEXPECTED_SIGNER"   // Signature recovered to an unknown key
	ErrMissingSigner    = "MISSING_SIGNER"      // Required key did not sign
	ErrNotModifiable    = "NOT_MODIFIABLE"      // Operation list already locked
	ErrInvalidSignature = "INVALID_SIGNATURE"   // Signature bytes malformed
	ErrInvalidPrefix    = "INVALID_PREFIX"      // Key text lacks the network prefix
	ErrUnknownOperation = "UNKNOWN_OPERATION"   // Operation type not registered
	ErrInvalidExpiry    = "INVALID_EXPIRY"      // Expiration outside the 32 bit epoch range
)

// IsFormat reports whether err is, or wraps, a FormatError.
func IsFormat(err error) bool {
	var target *FormatError
	return errors.As(err, &target)
}

// IsInvalidKey reports whether err is, or wraps, an InvalidKeyError.
func IsInvalidKey(err error) bool {
	var target *InvalidKeyError
	return errors.As(err, &target)
}

// IsMissingPrivateKey reports whether err is, or wraps, a MissingPrivateKeyError.
func IsMissingPrivateKey(err error) bool {
	var target *MissingPrivateKeyError
	return errors.As(err, &target)
}

// IsRecovery reports whether err is, or wraps, a RecoveryError.
func IsRecovery(err error) bool {
	var target *RecoveryError
	return errors.As(err, &target)
}

// IsKeyCrypter reports whether err is, or wraps, a KeyCrypterError.
func IsKeyCrypter(err error) bool {
	var target *KeyCrypterError
	return errors.As(err, &target)
}
