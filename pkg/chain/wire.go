// Package chain holds the small value types every operation is built from
// and the binary codec they share.
//
// Wire rules: fixed-width integers are little-endian, counts and object
// instances are unsigned LEB128 varints, byte strings are varint length
// prefixed, optional values are 0x00 (absent) or 0x01 followed by the value.
package chain

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/suffix-labs/echo-signer/pkg/fault"
)

// VarintMaximumBytes is the longest varint encoding of a uint64.
const VarintMaximumBytes = 10

// AppendVarint appends value as an unsigned LEB128 varint.
//
// byte 1:  ext | B06 | B05 | B04 | B03 | B02 | B01 | B00
// byte 2:  ext | B13 | B12 | B11 | B10 | B09 | B08 | B07
// ...
// ext is set on every byte except the last.
func AppendVarint(buffer []byte, value uint64) []byte {
	for value >= 0x80 {
		buffer = append(buffer, byte(value)|0x80)
		value >>= 7
	}
	return append(buffer, byte(value))
}

// ReadVarint decodes a varint from the start of buffer and returns the value
// and the number of bytes used. A count of 0 means the buffer was truncated
// or the encoding overflowed 64 bits.
func ReadVarint(buffer []byte) (uint64, int) {
	result := uint64(0)
	shift := uint(0)
	for count := 0; count < len(buffer) && count < VarintMaximumBytes; count++ {
		b := buffer[count]
		if count == VarintMaximumBytes-1 && b > 1 {
			return 0, 0
		}
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, count + 1
		}
		shift += 7
	}
	return 0, 0
}

// Writer accumulates the wire form of a record.
type Writer struct {
	buf bytes.Buffer
}

// Uint8 writes a single byte.
func (w *Writer) Uint8(v uint8) *Writer {
	w.buf.WriteByte(v)
	return w
}

// Uint16 writes v little-endian.
func (w *Writer) Uint16(v uint16) *Writer {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.buf.Write(b[:])
	return w
}

// Uint32 writes v little-endian.
func (w *Writer) Uint32(v uint32) *Writer {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
	return w
}

// Int64 writes v little-endian, two's complement.
func (w *Writer) Int64(v int64) *Writer {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(v))
	w.buf.Write(b[:])
	return w
}

// Varint writes v as a varint.
func (w *Writer) Varint(v uint64) *Writer {
	w.buf.Write(AppendVarint(nil, v))
	return w
}

// Bytes writes a varint length followed by b.
func (w *Writer) Bytes(b []byte) *Writer {
	w.Varint(uint64(len(b)))
	w.buf.Write(b)
	return w
}

// Raw writes b without a length prefix.
func (w *Writer) Raw(b []byte) *Writer {
	w.buf.Write(b)
	return w
}

// ObjectID writes the instance number of id.
func (w *Writer) ObjectID(id ObjectID) *Writer {
	return w.Varint(id.Instance)
}

// EmptyExtensions writes the marker for an empty extension set.
func (w *Writer) EmptyExtensions() *Writer {
	return w.Varint(0)
}

// Result returns the accumulated bytes.
func (w *Writer) Result() []byte {
	return w.buf.Bytes()
}

// Reader consumes a wire buffer. The first failure is kept and every later
// read returns a zero value, so callers check Err once at the end.
type Reader struct {
	data   []byte
	offset int
	err    error
}

// NewReader creates a Reader over data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Err returns the first decoding failure.
func (r *Reader) Err() error {
	return r.err
}

// Offset returns the number of bytes consumed.
func (r *Reader) Offset() int {
	return r.offset
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.offset
}

func (r *Reader) fail(message string) {
	if r.err == nil {
		r.err = &fault.ParseError{Message: message, Offset: r.offset}
	}
}

func (r *Reader) take(n int, what string) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || r.Remaining() < n {
		r.fail(fmt.Sprintf("truncated %s: need %d bytes, have %d", what, n, r.Remaining()))
		return nil
	}
	b := r.data[r.offset : r.offset+n]
	r.offset += n
	return b
}

// Uint8 reads a single byte.
func (r *Reader) Uint8() uint8 {
	b := r.take(1, "uint8")
	if b == nil {
		return 0
	}
	return b[0]
}

// Uint16 reads a little-endian uint16.
func (r *Reader) Uint16() uint16 {
	b := r.take(2, "uint16")
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

// Uint32 reads a little-endian uint32.
func (r *Reader) Uint32() uint32 {
	b := r.take(4, "uint32")
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

// Int64 reads a little-endian int64.
func (r *Reader) Int64() int64 {
	b := r.take(8, "int64")
	if b == nil {
		return 0
	}
	return int64(binary.LittleEndian.Uint64(b))
}

// Varint reads a varint.
func (r *Reader) Varint() uint64 {
	if r.err != nil {
		return 0
	}
	value, n := ReadVarint(r.data[r.offset:])
	if n == 0 {
		r.fail("malformed varint")
		return 0
	}
	r.offset += n
	return value
}

// Bytes reads a varint length prefixed byte string.
func (r *Reader) Bytes() []byte {
	n := r.Varint()
	if r.err != nil {
		return nil
	}
	if n > uint64(r.Remaining()) {
		r.fail(fmt.Sprintf("byte string length %d exceeds remaining %d", n, r.Remaining()))
		return nil
	}
	return append([]byte{}, r.take(int(n), "bytes")...)
}

// Raw reads exactly n bytes.
func (r *Reader) Raw(n int) []byte {
	return append([]byte{}, r.take(n, "raw bytes")...)
}

// ObjectID reads an instance number and completes it with space and type.
func (r *Reader) ObjectID(space, typ uint8) ObjectID {
	return ObjectID{Space: space, Type: typ, Instance: r.Varint()}
}

// EmptyExtensions reads an extension set and fails unless it is empty.
func (r *Reader) EmptyExtensions() {
	if n := r.Varint(); n != 0 && r.err == nil {
		r.fail(fmt.Sprintf("unsupported extensions: %d entries", n))
	}
}
