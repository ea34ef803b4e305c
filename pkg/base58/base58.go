// Package base58 implements Base58 and Base58Check text encoding.
//
// Base58Check layout:
//
//	version (1 byte) || payload || first 4 bytes of SHA256(SHA256(version || payload))
//
// The whole buffer is then Base58 encoded with the Bitcoin alphabet. Leading
// zero bytes map one-to-one to leading '1' characters.
//
// These conversions are quadratic in the input length and are meant for
// short values such as keys and addresses, never bulk data.
package base58

import (
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcutil/base58"

	"github.com/suffix-labs/echo-signer/pkg/fault"
)

// Alphabet is the 58 symbol alphabet; its first symbol encodes a zero digit.
const Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// ChecksumLength is the number of checksum bytes appended by EncodeChecked.
const ChecksumLength = 4

// Encode maps arbitrary bytes to Base58 text.
func Encode(input []byte) string {
	if len(input) == 0 {
		return ""
	}
	return base58.Encode(input)
}

// Decode converts Base58 text back to bytes.
//
// Returns a FormatError naming the first character outside the alphabet and
// its position.
func Decode(input string) ([]byte, error) {
	if err := validate(input); err != nil {
		return nil, err
	}
	if len(input) == 0 {
		return []byte{}, nil
	}
	return base58.Decode(input), nil
}

// EncodeChecked prepends version and appends a 4 byte double SHA-256
// checksum before encoding.
func EncodeChecked(version byte, payload []byte) string {
	return base58.CheckEncode(payload, version)
}

// DecodeChecked decodes Base58Check text and returns the version byte and
// the payload with version and checksum removed.
func DecodeChecked(input string) (byte, []byte, error) {
	decoded, err := Decode(input)
	if err != nil {
		return 0, nil, err
	}
	if len(decoded) < ChecksumLength+1 {
		return 0, nil, &fault.FormatError{
			Code:     fault.ErrTooShort,
			Message:  fmt.Sprintf("decoded length %d too short for version and checksum", len(decoded)),
			Position: -1,
		}
	}

	payload, version, err := base58.CheckDecode(input)
	if errors.Is(err, base58.ErrChecksum) {
		return 0, nil, &fault.FormatError{
			Code:     fault.ErrChecksumMismatch,
			Message:  "checksum does not match payload",
			Position: -1,
		}
	}
	if err != nil {
		return 0, nil, &fault.FormatError{
			Code:     fault.ErrTooShort,
			Message:  "malformed checked encoding",
			Position: -1,
			Cause:    err,
		}
	}
	return version, payload, nil
}

// validate reports the first character that is not in the alphabet.
func validate(input string) error {
	for i := 0; i < len(input); i++ {
		if strings.IndexByte(Alphabet, input[i]) < 0 {
			return &fault.FormatError{
				Code:     fault.ErrInvalidCharacter,
				Message:  fmt.Sprintf("invalid character %q", input[i]),
				Position: i,
			}
		}
	}
	return nil
}
