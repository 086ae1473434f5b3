package wire

import (
	"errors"
	"strings"
	"testing"

	"github.com/pellham/dnsresolver/internal/dns/resolvererrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeQName_LiteralBytes(t *testing.T) {
	// 03 77 77 77 06 67 6f 6f 67 6c 65 03 63 6f 6d 00 -> "www.google.com"
	data := []byte{
		0x03, 'w', 'w', 'w',
		0x06, 'g', 'o', 'o', 'g', 'l', 'e',
		0x03, 'c', 'o', 'm',
		0x00,
	}
	b := NewByteBufferFrom(data)
	name, err := DecodeQName(b)
	require.NoError(t, err)
	assert.Equal(t, "www.google.com", name)
	assert.Equal(t, len(data), b.Position())
}

func TestDecodeQName_CompressionPointer(t *testing.T) {
	data := []byte{
		0x03, 'w', 'w', 'w',
		0x06, 'g', 'o', 'o', 'g', 'l', 'e',
		0x03, 'c', 'o', 'm',
		0x00,
		0xC0, 0x00,
	}
	b := NewByteBufferFrom(data)
	require.NoError(t, b.Seek(16))
	name, err := DecodeQName(b)
	require.NoError(t, err)
	assert.Equal(t, "www.google.com", name)
	assert.Equal(t, 18, b.Position())
}

func TestEncodeDecodeQName_RoundTrip(t *testing.T) {
	names := []string{
		"www.google.com",
		"example.com",
		"a.b.c.d",
		"",
	}
	for _, n := range names {
		b := NewByteBuffer()
		require.NoError(t, EncodeQName(b, n))
		require.NoError(t, b.Seek(0))
		got, err := DecodeQName(b)
		require.NoError(t, err)
		assert.Equal(t, n, got)
	}
}

func TestDecodeQName_LowerCases(t *testing.T) {
	b := NewByteBuffer()
	require.NoError(t, EncodeQName(b, "WWW.Example.COM"))
	require.NoError(t, b.Seek(0))
	got, err := DecodeQName(b)
	require.NoError(t, err)
	assert.Equal(t, "www.example.com", got)
}

func TestEncodeQName_LabelTooLong(t *testing.T) {
	b := NewByteBuffer()
	err := EncodeQName(b, strings.Repeat("a", 64)+".com")
	require.Error(t, err)
	assert.True(t, errors.Is(err, resolvererrors.ErrMalformedName))
}

func TestDecodeQName_PointerBeyondCapacity(t *testing.T) {
	data := make([]byte, Capacity)
	// top two bits set (pointer) plus all low bits set gives an offset far
	// beyond the 512-byte capacity.
	data[0] = 0xFF
	data[1] = 0xFF
	b := NewByteBufferFrom(data)
	_, err := DecodeQName(b)
	require.Error(t, err)
	assert.True(t, errors.Is(err, resolvererrors.ErrMalformedName))
}

func TestDecodeQName_PointerCycle(t *testing.T) {
	data := make([]byte, Capacity)
	// a pointer at offset 0 pointing back to offset 0: an infinite cycle
	data[0] = 0xC0
	data[1] = 0x00
	b := NewByteBufferFrom(data)
	_, err := DecodeQName(b)
	require.Error(t, err)
	assert.True(t, errors.Is(err, resolvererrors.ErrMalformedName))
}
