package jpegseg

import (
	"bytes"
	"fmt"

	"github.com/icza/bitio"
)

// Decode builds the table's code map and decodes the entropy-coded buffer
// with it. See [CodeMap.Decode].
func (t *HuffmanTable) Decode(data []byte, opts ...*DecodeOptions) ([]uint8, error) {
	m, err := t.CodeMap()
	if err != nil {
		return nil, err
	}

	return m.Decode(data, opts...)
}

// Decode reads data as a bit sequence, most significant bit first, and
// decodes it one variable-length code at a time. At each position, candidate
// codes are grown a bit at a time and the first match wins; because the map
// is prefix-free, a shorter code can never falsely match where a longer one
// starts. Decoding fails if no code of up to 16 bits matches before the bits
// run out.
//
// The decoded symbols are the raw size/run symbols of the stream; the
// fixed-width magnitude bits that follow each symbol in a real scan are not
// consumed here.
func (m CodeMap) Decode(data []byte, opts ...*DecodeOptions) ([]uint8, error) {
	var trace TraceFunc
	if len(opts) > 0 && opts[0] != nil {
		trace = opts[0].Trace
	}

	if trace != nil {
		trace("code map: %v", m)
	}

	r := bitio.NewReader(bytes.NewReader(data))
	total := len(data) * 8
	cursor := 0

	var out []uint8

	for cursor < total {
		var c Code
		matched := false

		for int(c.Len) < maxCodeLength && cursor+int(c.Len) < total {
			bit, err := r.ReadBool()
			if err != nil {
				break
			}

			c.Bits <<= 1
			if bit {
				c.Bits |= 1
			}
			c.Len++

			if sym, ok := m[c]; ok {
				if trace != nil {
					trace("bit %d: %0*b decodes to %#02x", cursor, int(c.Len), c.Bits, sym)
				}

				out = append(out, sym)
				cursor += int(c.Len)
				matched = true

				break
			}
		}

		if !matched {
			return nil, fmt.Errorf("no code matches at bit %d with %d bits remaining: %w", cursor, total-cursor, ErrDecode)
		}
	}

	return out, nil
}
