package chain

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/suffix-labs/echo-signer/pkg/fault"
)

// ChainIDLength is the byte length of a chain id.
const ChainIDLength = 32

// BlockIDLength is the byte length of a block id.
const BlockIDLength = 20

// ExpirationTimeFormat is how expirations appear in JSON.
const ExpirationTimeFormat = "2006-01-02T15:04:05"

// ChainState is the snapshot of the network a transaction is built against.
type ChainState struct {
	ChainID         string    `json:"chain_id"`
	HeadBlockNumber uint32    `json:"head_block_number"`
	HeadBlockID     string    `json:"head_block_id"`
	HeadBlockTime   time.Time `json:"time"`
}

// ParseChainID decodes a 64 character hex chain id.
func ParseChainID(s string) ([ChainIDLength]byte, error) {
	var id [ChainIDLength]byte
	b, err := hex.DecodeString(s)
	if err != nil {
		return id, &fault.FormatError{Code: fault.ErrInvalidHex, Message: "chain id is not hex", Position: -1, Cause: err}
	}
	if len(b) != ChainIDLength {
		return id, &fault.FormatError{
			Code:     fault.ErrInvalidLength,
			Message:  fmt.Sprintf("chain id must be %d bytes, got %d", ChainIDLength, len(b)),
			Position: -1,
		}
	}
	copy(id[:], b)
	return id, nil
}

// ChainIDBytes decodes the chain id.
func (s ChainState) ChainIDBytes() ([ChainIDLength]byte, error) {
	return ParseChainID(s.ChainID)
}

// RefBlockNum is the low 16 bits of the head block number.
func (s ChainState) RefBlockNum() uint16 {
	return uint16(s.HeadBlockNumber & 0xffff)
}

// RefBlockPrefix is bytes 4..8 of the head block id read little-endian.
func (s ChainState) RefBlockPrefix() (uint32, error) {
	b, err := hex.DecodeString(s.HeadBlockID)
	if err != nil {
		return 0, &fault.FormatError{Code: fault.ErrInvalidHex, Message: "head block id is not hex", Position: -1, Cause: err}
	}
	if len(b) < 8 {
		return 0, &fault.FormatError{
			Code:     fault.ErrTooShort,
			Message:  fmt.Sprintf("head block id has %d bytes, need at least 8", len(b)),
			Position: -1,
		}
	}
	return binary.LittleEndian.Uint32(b[4:8]), nil
}

// Expiration returns head block time plus offset, truncated to seconds.
func (s ChainState) Expiration(offset time.Duration) time.Time {
	return s.HeadBlockTime.Add(offset).UTC().Truncate(time.Second)
}
