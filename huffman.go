package jpegseg

import "fmt"

// maxCodeLength is the maximum (inclusive) number of bits in a Huffman code.
const maxCodeLength = 16

// TableClass identifies which of the four baseline Huffman tables a
// definition belongs to, from the class and id nibbles of its header byte.
type TableClass uint8

const (
	LuminanceDC TableClass = iota
	LuminanceAC
	ChrominanceDC
	ChrominanceAC
)

// String implements the [fmt.Stringer] interface.
func (c TableClass) String() string {
	switch c {
	case LuminanceDC:
		return "LuminanceDC"
	case LuminanceAC:
		return "LuminanceAC"
	case ChrominanceDC:
		return "ChrominanceDC"
	case ChrominanceAC:
		return "ChrominanceAC"
	default:
		return fmt.Sprintf("TableClass(%d)", uint8(c))
	}
}

// HuffmanTable is one table definition as read from a Define Huffman Table
// segment: the raw per-length symbol buckets, not yet usable for decoding.
// CodeMap derives the actual code assignment.
type HuffmanTable struct {
	Class TableClass

	// Symbols[i] holds the symbols assigned codes of length i+1 bits, in
	// assignment order. Bucket order is significant: it fixes which symbol
	// receives which code within a length.
	Symbols [maxCodeLength][]uint8
}

// Code identifies a Huffman code: the Len low bits of Bits, most significant
// bit first.
type Code struct {
	Len  uint8
	Bits uint16
}

// CodeMap maps each assigned code to its symbol byte. A well-formed map is
// prefix-free: no stored code is a proper prefix of another.
type CodeMap map[Code]uint8

// CodeMap builds the canonical code assignment for the table. Codes are
// assigned in increasing numeric order: a running code value starts at zero,
// is handed out to each symbol of a bucket in turn, and is shifted left one
// bit when moving to the next code length. Buckets that hand out more codes
// than fit in their length cannot come from a valid table and are rejected.
func (t *HuffmanTable) CodeMap() (CodeMap, error) {
	m := make(CodeMap)

	var code uint32
	for i, bucket := range t.Symbols {
		codeLen := i + 1

		for _, sym := range bucket {
			if code >= 1<<codeLen {
				return nil, fmt.Errorf("huffman table overflows the %d-bit code space: %w", codeLen, ErrSyntax)
			}

			m[Code{Len: uint8(codeLen), Bits: uint16(code)}] = sym
			code++
		}

		code <<= 1
	}

	return m, nil
}
