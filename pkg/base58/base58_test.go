package base58

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suffix-labs/echo-signer/pkg/fault"
)

func TestEncodeVectors(t *testing.T) {
	tests := []struct {
		hex  string
		text string
	}{
		{"", ""},
		{"00", "1"},
		{"0001", "12"},
		{"000000", "111"},
		{"61", "2g"},
		{"626262", "a3gV"},
		{"636363", "aPEr"},
		{"00000000000000000000", "1111111111"},
		{"516b6fcd0f", "ABnLTmg"},
		{"572e4794", "3EFU7m"},
	}

	for _, tt := range tests {
		input, err := hex.DecodeString(tt.hex)
		require.NoError(t, err)

		assert.Equal(t, tt.text, Encode(input), "encode %s", tt.hex)

		decoded, err := Decode(tt.text)
		require.NoError(t, err, "decode %q", tt.text)
		assert.Equal(t, tt.hex, hex.EncodeToString(decoded), "decode %q", tt.text)
	}
}

func TestRoundTripLeadingZeros(t *testing.T) {
	inputs := [][]byte{
		{},
		{0},
		{0, 0, 0, 0},
		{0, 0, 0xff},
		bytes.Repeat([]byte{0xff}, 33),
		append(bytes.Repeat([]byte{0}, 5), 1, 2, 3),
	}

	for _, input := range inputs {
		decoded, err := Decode(Encode(input))
		require.NoError(t, err)
		assert.True(t, bytes.Equal(input, decoded), "round trip of %x gave %x", input, decoded)
	}
}

func TestDecodeInvalidCharacter(t *testing.T) {
	for _, tt := range []struct {
		input    string
		position int
	}{
		{"0", 0},
		{"12O", 2},
		{"abcI", 3},
		{"1l", 1},
		{"2g ", 2},
	} {
		_, err := Decode(tt.input)
		require.Error(t, err)

		var formatErr *fault.FormatError
		require.ErrorAs(t, err, &formatErr)
		assert.Equal(t, fault.ErrInvalidCharacter, formatErr.Code)
		assert.Equal(t, tt.position, formatErr.Position, "input %q", tt.input)
	}
}

func TestCheckedRoundTrip(t *testing.T) {
	payload, err := hex.DecodeString("0c28fca386c7a227600b2fe50b7cae11ec86d3bf1fbe471be89827e19d72aa1d")
	require.NoError(t, err)

	text := EncodeChecked(0x80, payload)
	assert.Equal(t, "5HueCGU8rMjxEXxiPuD5BDku4MkFqeZyd4dZ1jvhTVqvbTLvyTJ", text)

	version, decoded, err := DecodeChecked(text)
	require.NoError(t, err)
	assert.Equal(t, byte(0x80), version)
	assert.Equal(t, payload, decoded)
}

func TestCheckedRejectsAnyFlippedByte(t *testing.T) {
	payload := []byte("echo checked payload")
	text := EncodeChecked(0x35, payload)

	raw, err := Decode(text)
	require.NoError(t, err)

	for i := range raw {
		corrupted := append([]byte{}, raw...)
		corrupted[i] ^= 0x01

		_, _, err := DecodeChecked(Encode(corrupted))
		require.Error(t, err, "flip at byte %d", i)
		assert.True(t, fault.IsFormat(err), "flip at byte %d: %v", i, err)
	}
}

func TestCheckedTooShort(t *testing.T) {
	for _, input := range []string{"", "1", "2g", Encode([]byte{1, 2, 3, 4})} {
		_, _, err := DecodeChecked(input)
		require.Error(t, err)

		var formatErr *fault.FormatError
		require.ErrorAs(t, err, &formatErr)
		assert.Equal(t, fault.ErrTooShort, formatErr.Code)
	}
}
