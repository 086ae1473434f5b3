// Package wire implements the DNS wire format codec: a fixed 512-byte
// cursor buffer, the compression-aware qname codec, and the header/record/
// packet encoders and decoders built on top of it (RFC 1035).
package wire

import (
	"encoding/binary"
	"fmt"

	"github.com/pellham/dnsresolver/internal/dns/resolvererrors"
)

// Capacity is the maximum size of a DNS message this codec will read or
// write, per spec §6 (classic UDP DNS, no EDNS0).
const Capacity = 512

// ByteBuffer is a fixed-capacity 512-byte cursor. Sequential reads and
// writes advance its position; Set* operations overwrite a previously
// written span in place without moving the cursor, which is what callers
// use to back-patch a length prefix after writing a variable-length
// payload. A ByteBuffer is owned by whichever single goroutine is
// currently decoding or encoding a packet; it is never shared.
type ByteBuffer struct {
	buf [Capacity]byte
	pos int
}

// NewByteBuffer returns an empty buffer ready for writing.
func NewByteBuffer() *ByteBuffer {
	return &ByteBuffer{}
}

// NewByteBufferFrom returns a buffer pre-loaded with data for reading. data
// longer than Capacity is truncated to Capacity bytes, since no valid
// message on this wire can exceed it.
func NewByteBufferFrom(data []byte) *ByteBuffer {
	b := &ByteBuffer{}
	n := copy(b.buf[:], data)
	_ = n
	return b
}

// OutOfRangeError reports an access that would cross the buffer's capacity,
// naming the offending index and the limit it exceeded.
type OutOfRangeError struct {
	Index    int
	Capacity int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s: index %d exceeds capacity %d", resolvererrors.ErrOutOfRange, e.Index, e.Capacity)
}

func (e *OutOfRangeError) Unwrap() error { return resolvererrors.ErrOutOfRange }

// Position returns the current cursor position.
func (b *ByteBuffer) Position() int { return b.pos }

// Seek moves the cursor to an absolute position without touching the
// buffer's contents. It fails if pos is outside [0, Capacity].
func (b *ByteBuffer) Seek(pos int) error {
	if pos < 0 || pos > Capacity {
		return &OutOfRangeError{Index: pos, Capacity: Capacity}
	}
	b.pos = pos
	return nil
}

// IntoBytes returns the slice of the buffer written so far: [0, Position()).
func (b *ByteBuffer) IntoBytes() []byte {
	out := make([]byte, b.pos)
	copy(out, b.buf[:b.pos])
	return out
}

// Raw exposes the full underlying array for the qname codec, which needs
// random access to chase compression pointers anywhere in the message,
// independent of the sequential cursor.
func (b *ByteBuffer) Raw() *[Capacity]byte { return &b.buf }

func (b *ByteBuffer) checkWrite(width int) error {
	if b.pos+width > Capacity {
		return &OutOfRangeError{Index: b.pos + width, Capacity: Capacity}
	}
	return nil
}

func (b *ByteBuffer) checkRead(width int) error {
	if b.pos+width > Capacity {
		return &OutOfRangeError{Index: b.pos + width, Capacity: Capacity}
	}
	return nil
}

// WriteU8 writes a single byte and advances the cursor by 1.
func (b *ByteBuffer) WriteU8(v uint8) error {
	if err := b.checkWrite(1); err != nil {
		return err
	}
	b.buf[b.pos] = v
	b.pos++
	return nil
}

// WriteU16 writes a big-endian uint16 and advances the cursor by 2.
func (b *ByteBuffer) WriteU16(v uint16) error {
	if err := b.checkWrite(2); err != nil {
		return err
	}
	binary.BigEndian.PutUint16(b.buf[b.pos:b.pos+2], v)
	b.pos += 2
	return nil
}

// WriteU32 writes a big-endian uint32 and advances the cursor by 4.
func (b *ByteBuffer) WriteU32(v uint32) error {
	if err := b.checkWrite(4); err != nil {
		return err
	}
	binary.BigEndian.PutUint32(b.buf[b.pos:b.pos+4], v)
	b.pos += 4
	return nil
}

// WriteBytes writes data verbatim and advances the cursor by len(data).
func (b *ByteBuffer) WriteBytes(data []byte) error {
	if err := b.checkWrite(len(data)); err != nil {
		return err
	}
	copy(b.buf[b.pos:b.pos+len(data)], data)
	b.pos += len(data)
	return nil
}

// ReadU8 reads a single byte and advances the cursor by 1.
func (b *ByteBuffer) ReadU8() (uint8, error) {
	if err := b.checkRead(1); err != nil {
		return 0, err
	}
	v := b.buf[b.pos]
	b.pos++
	return v, nil
}

// ReadU16 reads a big-endian uint16 and advances the cursor by 2.
func (b *ByteBuffer) ReadU16() (uint16, error) {
	if err := b.checkRead(2); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(b.buf[b.pos : b.pos+2])
	b.pos += 2
	return v, nil
}

// ReadU32 reads a big-endian uint32 and advances the cursor by 4.
func (b *ByteBuffer) ReadU32() (uint32, error) {
	if err := b.checkRead(4); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(b.buf[b.pos : b.pos+4])
	b.pos += 4
	return v, nil
}

// ReadN copies the next n bytes and advances the cursor by n.
func (b *ByteBuffer) ReadN(n int) ([]byte, error) {
	if err := b.checkRead(n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b.buf[b.pos:b.pos+n])
	b.pos += n
	return out, nil
}

// SetU8 overwrites a single byte at an absolute position without moving
// the cursor.
func (b *ByteBuffer) SetU8(at int, v uint8) error {
	if at < 0 || at+1 > Capacity {
		return &OutOfRangeError{Index: at + 1, Capacity: Capacity}
	}
	b.buf[at] = v
	return nil
}

// SetU16 overwrites a big-endian uint16 at an absolute position without
// moving the cursor. Callers use this to back-patch an rdlength field
// after writing the rdata that precedes it.
func (b *ByteBuffer) SetU16(at int, v uint16) error {
	if at < 0 || at+2 > Capacity {
		return &OutOfRangeError{Index: at + 2, Capacity: Capacity}
	}
	binary.BigEndian.PutUint16(b.buf[at:at+2], v)
	return nil
}

// SetU32 overwrites a big-endian uint32 at an absolute position without
// moving the cursor.
func (b *ByteBuffer) SetU32(at int, v uint32) error {
	if at < 0 || at+4 > Capacity {
		return &OutOfRangeError{Index: at + 4, Capacity: Capacity}
	}
	binary.BigEndian.PutUint32(b.buf[at:at+4], v)
	return nil
}
