package bitio

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteBitsMSBFirst(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.WriteBits("10110010")
	require.NoError(t, w.Flush())
	require.Equal(t, []byte{0xB2}, buf.Bytes())
}

func TestWriteBitsPadsFinalByte(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.WriteBits("101")
	require.NoError(t, w.Flush())
	require.Equal(t, []byte{0b10100000}, buf.Bytes())
}

func TestWriteByteFlushesPartialBitsFirst(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.WriteBits("101")
	w.WriteByte(0xFF)
	require.NoError(t, w.Flush())
	require.Equal(t, []byte{0b10100000, 0xFF}, buf.Bytes())
}

func TestReadBitMSBFirst(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0xB2}))
	want := "10110010"
	for i := 0; i < 8; i++ {
		bit, ok := r.ReadBit()
		require.True(t, ok)
		if want[i] == '1' {
			require.Equal(t, byte(1), bit)
		} else {
			require.Equal(t, byte(0), bit)
		}
	}
	_, ok := r.ReadBit()
	require.False(t, ok)
}

func TestReadByteDoesNotAlign(t *testing.T) {
	// 0xB2 = 10110010, 0xFF = 11111111.
	// Read 3 bits (101), then ReadByte should consume the remaining 5 bits
	// of the first byte plus the first 3 bits of the second.
	r := NewReader(bytes.NewReader([]byte{0xB2, 0xFF}))
	for i := 0; i < 3; i++ {
		_, ok := r.ReadBit()
		require.True(t, ok)
	}
	v, ok := r.ReadByte()
	require.True(t, ok)
	require.Equal(t, byte(0b10010111), v)
}

func TestAlignToByteDiscardsPartialByte(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0xB2, 0x42}))
	_, _ = r.ReadBit()
	_, _ = r.ReadBit()
	_, _ = r.ReadBit()
	r.AlignToByte()
	v, ok := r.ReadByte()
	require.True(t, ok)
	require.Equal(t, byte(0x42), v)
}

func TestRoundTripRandomBits(t *testing.T) {
	bits := "1101001011101000110101010011110000001"
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.WriteBits(bits)
	require.NoError(t, w.Flush())

	r := NewReader(bytes.NewReader(buf.Bytes()))
	var got []byte
	for i := 0; i < len(bits); i++ {
		bit, ok := r.ReadBit()
		require.True(t, ok)
		if bit == 1 {
			got = append(got, '1')
		} else {
			got = append(got, '0')
		}
	}
	require.Equal(t, bits, string(got))
}

func TestReadEOFIsIndistinguishableFromError(t *testing.T) {
	r := NewReader(bytes.NewReader(nil))
	_, ok := r.ReadBit()
	require.False(t, ok)
	_, ok = r.ReadByte()
	require.False(t, ok)
}
