package wire

import (
	"fmt"
	"strings"

	"github.com/pellham/dnsresolver/internal/dns/resolvererrors"
)

// maxLabelLength is the largest a single DNS label may be (RFC 1035 §3.1).
const maxLabelLength = 63

// maxPointerDereferences bounds qname decoding against pointer cycles: a
// label consumes at least two bytes, so within a 512-byte message no
// legitimate chain needs more hops than this (§4.2, §12).
const maxPointerDereferences = 126

// maxNameBytes bounds the total bytes a decoded name may consume across all
// its labels, per RFC 1035's 255-byte domain name limit.
const maxNameBytes = 255

// pointerFlag marks a label-length byte as a compression pointer: its top
// two bits are both set.
const pointerFlag = 0xC0

func malformedName(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{resolvererrors.ErrMalformedName}, args...)...)
}

// EncodeQName writes name as a sequence of length-prefixed labels
// terminated by a zero byte. No compression is ever emitted on encode;
// compression is a decode-only concern (§4.2).
func EncodeQName(b *ByteBuffer, name string) error {
	if name == "" {
		return b.WriteU8(0)
	}
	for _, label := range strings.Split(name, ".") {
		if len(label) > maxLabelLength {
			return malformedName("label %q exceeds %d bytes", label, maxLabelLength)
		}
		if err := b.WriteU8(uint8(len(label))); err != nil {
			return err
		}
		if err := b.WriteBytes([]byte(label)); err != nil {
			return err
		}
	}
	return b.WriteU8(0)
}

// DecodeQName reads a qname starting at b's current position, following
// compression pointers as needed. The first pointer encountered freezes
// the outer cursor: b.Position() after this call rests immediately past
// the first pointer's two bytes (or past the terminating zero byte, if no
// pointer was ever followed), never at the end of a chased chain (§4.2).
func DecodeQName(b *ByteBuffer) (string, error) {
	raw := b.Raw()
	cursor := b.Position()
	outerFrozen := false
	dereferences := 0
	emittedBytes := 0
	var labels []string

	for {
		if cursor >= Capacity {
			return "", malformedName("label length byte at %d exceeds capacity %d", cursor, Capacity)
		}
		lengthByte := raw[cursor]

		if lengthByte&pointerFlag == pointerFlag {
			if cursor+1 >= Capacity {
				return "", malformedName("truncated pointer at %d", cursor)
			}
			dereferences++
			if dereferences > maxPointerDereferences {
				return "", malformedName("exceeded %d pointer dereferences", maxPointerDereferences)
			}
			offset := int(uint16(lengthByte&^pointerFlag)<<8 | uint16(raw[cursor+1]))
			if !outerFrozen {
				if err := b.Seek(cursor + 2); err != nil {
					return "", err
				}
				outerFrozen = true
			}
			if offset >= Capacity {
				return "", malformedName("pointer offset %d exceeds capacity %d", offset, Capacity)
			}
			cursor = offset
			continue
		}

		if lengthByte&0xC0 != 0 {
			return "", malformedName("reserved label length bits at %d", cursor)
		}

		if lengthByte == 0 {
			cursor++
			if !outerFrozen {
				if err := b.Seek(cursor); err != nil {
					return "", err
				}
			}
			break
		}

		length := int(lengthByte)
		cursor++
		if cursor+length > Capacity {
			return "", malformedName("label at %d exceeds capacity %d", cursor, Capacity)
		}
		emittedBytes += length + 1
		if emittedBytes > maxNameBytes {
			return "", malformedName("name exceeds %d bytes", maxNameBytes)
		}
		labels = append(labels, strings.ToLower(string(raw[cursor:cursor+length])))
		cursor += length
	}

	return strings.Join(labels, "."), nil
}
