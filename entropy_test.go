package jpegseg

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeStreamReference(t *testing.T) {
	got, err := acChrominanceTable().Decode([]byte{0b00001010, 0b10111001})
	require.NoError(t, err)
	require.Equal(t, []uint8{0x01, 0x01, 0x04, 0x21, 0x03}, got)
}

func TestDecodeStreamDeterministic(t *testing.T) {
	table := acChrominanceTable()
	data := []byte{0b00001010, 0b10111001, 0b00000000}

	first, err := table.Decode(data)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := table.Decode(data)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestDecodeStreamNoMatch(t *testing.T) {
	// All-ones is not a valid code of any length in the reference table.
	_, err := acChrominanceTable().Decode([]byte{0xFF, 0xFF})
	require.ErrorIs(t, err, ErrDecode)
	require.ErrorContains(t, err, "at bit 0")
	require.ErrorContains(t, err, "16 bits remaining")
}

func TestDecodeStreamTrailingBits(t *testing.T) {
	// 010 00 00 decode to 0x02 0x01 0x01, leaving a lone 0 bit that matches
	// no code.
	_, err := acChrominanceTable().Decode([]byte{0b01000000})
	require.ErrorIs(t, err, ErrDecode)
	require.ErrorContains(t, err, "at bit 7")
	require.ErrorContains(t, err, "1 bits remaining")
}

func TestDecodeStreamEmpty(t *testing.T) {
	got, err := acChrominanceTable().Decode(nil)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestDecodeStreamInvalidTable(t *testing.T) {
	table := &HuffmanTable{}
	table.Symbols[0] = []uint8{0x00, 0x01, 0x02}

	_, err := table.Decode([]byte{0b00001010})
	require.ErrorIs(t, err, ErrSyntax)
}

func TestDecodeStreamTrace(t *testing.T) {
	var lines []string
	opts := &DecodeOptions{
		Trace: func(format string, args ...any) {
			lines = append(lines, fmt.Sprintf(format, args...))
		},
	}

	got, err := acChrominanceTable().Decode([]byte{0b00001010, 0b10111001}, opts)
	require.NoError(t, err)
	require.Equal(t, []uint8{0x01, 0x01, 0x04, 0x21, 0x03}, got)

	// One line for the code map, one per decoded symbol.
	require.Len(t, lines, 6)
	require.Contains(t, lines[1], "0x01")
}

func TestDecodeStreamTraceOffByDefault(t *testing.T) {
	// A nil options pointer must behave like no options at all.
	got, err := acChrominanceTable().Decode([]byte{0b00001010, 0b10111001}, nil)
	require.NoError(t, err)
	require.Equal(t, []uint8{0x01, 0x01, 0x04, 0x21, 0x03}, got)
}
