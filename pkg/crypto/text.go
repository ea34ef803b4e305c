package crypto

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/crypto/ripemd160"

	"github.com/suffix-labs/echo-signer/pkg/base58"
	"github.com/suffix-labs/echo-signer/pkg/fault"
)

// WIF version bytes
const (
	WIFVersionMainnet byte = 0x80
	WIFVersionTestnet byte = 0xef

	wifCompressedFlag = 0x01
)

// DefaultKeyPrefix is the network prefix of public key text.
const DefaultKeyPrefix = "ECHO"

const publicKeyChecksumLength = 4

// KeyFromWIF parses a WIF (Wallet Import Format) private key.
// WIF format: version_byte || private_key (32 bytes) || [compression_flag] || checksum (4 bytes)
func KeyFromWIF(wif string) (*Key, error) {
	version, payload, err := base58.DecodeChecked(wif)
	if err != nil {
		return nil, fmt.Errorf("failed to decode WIF: %w", err)
	}

	if version != WIFVersionMainnet && version != WIFVersionTestnet {
		return nil, &fault.InvalidKeyError{
			Code:    fault.ErrInvalidPrefix,
			Message: fmt.Sprintf("invalid WIF version byte: 0x%02x", version),
		}
	}

	compressed := false
	switch {
	case len(payload) == PrivateKeyLength:
	case len(payload) == PrivateKeyLength+1 && payload[PrivateKeyLength] == wifCompressedFlag:
		compressed = true
	default:
		return nil, &fault.InvalidKeyError{
			Code:    fault.ErrScalarOutOfRange,
			Message: fmt.Sprintf("invalid WIF payload length %d", len(payload)),
		}
	}

	return KeyFromPrivate(payload[:PrivateKeyLength], compressed)
}

// WIF encodes the private key in Wallet Import Format under the given
// version byte. The compression flag byte is appended for compressed keys.
func (k *Key) WIF(version byte) (string, error) {
	if version != WIFVersionMainnet && version != WIFVersionTestnet {
		return "", &fault.InvalidKeyError{
			Code:    fault.ErrInvalidPrefix,
			Message: fmt.Sprintf("invalid WIF version byte: 0x%02x", version),
		}
	}
	priv, err := k.PrivateKeyBytes()
	if err != nil {
		return "", err
	}

	payload := priv
	if k.IsCompressed() {
		payload = append(payload, wifCompressedFlag)
	}
	return base58.EncodeChecked(version, payload), nil
}

// PublicKeyText returns prefix || Base58(compressed point || checksum),
// where checksum is the first 4 bytes of RIPEMD160(compressed point).
func (k *Key) PublicKeyText(prefix string) string {
	point := k.pub.Canonical()
	buffer := append(point, ripemd160Checksum(point)...)
	return prefix + base58.Encode(buffer)
}

// KeyFromPublicKeyText parses text produced by PublicKeyText.
func KeyFromPublicKeyText(text, prefix string) (*Key, error) {
	if !strings.HasPrefix(text, prefix) {
		return nil, &fault.InvalidKeyError{
			Code:    fault.ErrInvalidPrefix,
			Message: fmt.Sprintf("public key text does not start with %q", prefix),
		}
	}

	decoded, err := base58.Decode(text[len(prefix):])
	if err != nil {
		return nil, err
	}
	if len(decoded) != CompressedPointLength+publicKeyChecksumLength {
		return nil, &fault.FormatError{
			Code:     fault.ErrInvalidLength,
			Message:  fmt.Sprintf("public key text decodes to %d bytes", len(decoded)),
			Position: -1,
		}
	}

	point := decoded[:CompressedPointLength]
	if !bytes.Equal(ripemd160Checksum(point), decoded[CompressedPointLength:]) {
		return nil, &fault.FormatError{
			Code:     fault.ErrChecksumMismatch,
			Message:  "public key checksum does not match",
			Position: -1,
		}
	}
	return KeyFromPublic(point)
}

func ripemd160Checksum(b []byte) []byte {
	h := ripemd160.New()
	h.Write(b)
	return h.Sum(nil)[:publicKeyChecksumLength]
}
