package jpegseg

import (
	"bytes"
	"fmt"
)

// scanner walks a JPEG buffer one marker segment at a time.
type scanner struct {
	data   []byte // Input buffer containing the entire JPEG file.
	pos    int    // Current position index in the input buffer.
	size   int    // Remaining bytes to be processed.
	length int    // Remaining payload bytes of the current marker segment.
}

// skip advances the current position in the buffer by 'count' bytes.
func (s *scanner) skip(count int) error {
	s.pos += count
	s.size -= count

	if s.length >= count {
		s.length -= count
	} else {
		s.length = 0
	}

	if s.size < 0 {
		return fmt.Errorf("truncated input at offset %d: %w", s.pos, ErrSyntax)
	}

	return nil
}

// decode16 reads a 16-bit big-endian integer from the specified offset.
func (s *scanner) decode16(offset int) int {
	p := s.pos + offset

	return (int(s.data[p]) << 8) | int(s.data[p+1])
}

// decodeLength reads the 16-bit length field of a marker segment and leaves
// the size of the remaining payload in s.length.
func (s *scanner) decodeLength() error {
	if s.size < 2 {
		return fmt.Errorf("truncated segment length at offset %d: %w", s.pos, ErrSyntax)
	}

	s.length = s.decode16(0)
	if s.length > s.size {
		return fmt.Errorf("segment length %d exceeds the %d remaining bytes: %w", s.length, s.size, ErrSyntax)
	}

	if s.length < 2 {
		// The length field counts its own 2 bytes.
		return fmt.Errorf("segment length %d below minimum: %w", s.length, ErrSyntax)
	}

	// Skip the 2 bytes of the length field itself.
	return s.skip(2)
}

// run verifies the start-of-image prefix and collects one Marker per segment
// until the end-of-image marker is consumed.
func (s *scanner) run() ([]Marker, error) {
	if s.size < 2 || s.data[0] != markerPrefix || s.data[1] != soiMarker {
		return nil, ErrNoJPEG
	}

	if err := s.skip(2); err != nil {
		return nil, err
	}

	var markers []Marker

	for {
		if s.size < 2 {
			return nil, fmt.Errorf("input exhausted before an end-of-image marker: %w", ErrSyntax)
		}

		if s.data[s.pos] != markerPrefix {
			return nil, fmt.Errorf("expected marker prefix at offset %d, got %#02x: %w", s.pos, s.data[s.pos], ErrSyntax)
		}

		tag := s.data[s.pos+1]
		if err := s.skip(2); err != nil {
			return nil, err
		}

		switch tag {
		case eoiMarker:
			return markers, nil
		case dhtMarker:
			m, err := s.decodeDHT()
			if err != nil {
				return nil, err
			}

			markers = append(markers, m)
		case dqtMarker:
			m, err := s.decodeDQT()
			if err != nil {
				return nil, err
			}

			markers = append(markers, m)
		case sosMarker:
			m, err := s.decodeSOS()
			if err != nil {
				return nil, err
			}

			markers = append(markers, m)
		default:
			m, err := s.decodeRaw(tag)
			if err != nil {
				return nil, err
			}

			markers = append(markers, m)
		}
	}
}

// decodeRaw consumes a marker segment the scanner does not interpret,
// keeping its payload verbatim.
func (s *scanner) decodeRaw(tag uint8) (RawSegment, error) {
	if err := s.decodeLength(); err != nil {
		return RawSegment{}, err
	}

	seg := RawSegment{
		Tag:    tag,
		Length: uint16(s.length + 2),
		Data:   s.data[s.pos : s.pos+s.length],
	}

	return seg, s.skip(s.length)
}

// decodeDHT parses a Define Huffman Table segment. A segment may carry
// several table definitions back-to-back; they are parsed until the declared
// segment length is exhausted.
func (s *scanner) decodeDHT() (HuffmanSegment, error) {
	var seg HuffmanSegment
	if err := s.decodeLength(); err != nil {
		return seg, err
	}

	// Each definition is at least 17 bytes: 1 class/id byte + 16 counts.
	for s.length >= 17 {
		var t HuffmanTable

		class, id := s.data[s.pos]>>4, s.data[s.pos]&0x0F
		switch {
		case class == 0 && id == 0:
			t.Class = LuminanceDC
		case class == 0 && id == 1:
			t.Class = LuminanceAC
		case class == 1 && id == 0:
			t.Class = ChrominanceDC
		case class == 1 && id == 1:
			t.Class = ChrominanceAC
		default:
			return seg, fmt.Errorf("unrecognized huffman table class/id %d/%d: %w", class, id, ErrSyntax)
		}

		// Read counts of codes for each length (1-16 bits).
		var counts [maxCodeLength]uint8
		for codeLen := 1; codeLen <= maxCodeLength; codeLen++ {
			counts[codeLen-1] = s.data[s.pos+codeLen]
		}

		if err := s.skip(17); err != nil {
			return seg, err
		}

		var n int
		for _, num := range counts {
			n += int(num)
		}

		if n > 256 || n > s.length {
			return seg, fmt.Errorf("huffman table declares %d symbols with %d segment bytes left: %w", n, s.length, ErrSyntax)
		}

		// Symbol bytes follow in code-length order, length 1 first. Bucket
		// order within a length is the canonical assignment order.
		for i, num := range counts {
			if num == 0 {
				continue
			}

			t.Symbols[i] = s.data[s.pos : s.pos+int(num)]
			if err := s.skip(int(num)); err != nil {
				return seg, err
			}
		}

		seg.Tables = append(seg.Tables, t)
	}

	if s.length != 0 {
		return seg, fmt.Errorf("%d stray bytes after the last huffman table: %w", s.length, ErrSyntax)
	}

	if len(seg.Tables) == 0 {
		return seg, fmt.Errorf("huffman table segment defines no tables: %w", ErrSyntax)
	}

	return seg, nil
}

// decodeDQT parses a Define Quantization Table segment: one id byte and 64
// coefficient bytes. Segments that pack more than one table are skipped past
// their declared length; only the first table is kept.
func (s *scanner) decodeDQT() (QuantizationSegment, error) {
	var seg QuantizationSegment
	if err := s.decodeLength(); err != nil {
		return seg, err
	}

	if s.length < 65 {
		return seg, fmt.Errorf("quantization table needs 65 bytes, segment carries %d: %w", s.length, ErrSyntax)
	}

	seg.ID = s.data[s.pos]
	copy(seg.Values[:], s.data[s.pos+1:s.pos+65])

	return seg, s.skip(s.length)
}

// decodeSOS parses the Start of Scan segment: the fixed-format header
// followed by the entropy-coded payload. The payload has no declared length
// and runs up to the end-of-image marker.
func (s *scanner) decodeSOS() (ScanSegment, error) {
	var seg ScanSegment

	// The declared length is validated but not otherwise used; the header is
	// fixed-format and the payload is delimited by the terminator below.
	if err := s.decodeLength(); err != nil {
		return seg, err
	}

	if s.size < 6 {
		return seg, fmt.Errorf("truncated scan header: %w", ErrSyntax)
	}

	seg.Header.Precision = s.data[s.pos]
	seg.Header.Height = uint16(s.decode16(1))
	seg.Header.Width = uint16(s.decode16(3))
	ncomp := int(s.data[s.pos+5])

	if err := s.skip(6); err != nil {
		return seg, err
	}

	if s.size < ncomp*3 {
		return seg, fmt.Errorf("scan header declares %d components with %d bytes left: %w", ncomp, s.size, ErrSyntax)
	}

	for i := 0; i < ncomp; i++ {
		seg.Header.Components = append(seg.Header.Components, ScanComponent{
			ID:            s.data[s.pos],
			HorizSampling: s.data[s.pos+1] >> 4,
			VertSampling:  s.data[s.pos+1] & 0x0F,
			QuantSel:      s.data[s.pos+2],
		})

		if err := s.skip(3); err != nil {
			return seg, err
		}
	}

	// The payload runs to the first 0xFF 0xD9 pair. Byte-stuffing is not
	// undone here: an entropy-coded payload that happens to contain that
	// pair as stuffed data is cut short at it.
	end := bytes.Index(s.data[s.pos:], []byte{markerPrefix, eoiMarker})
	if end < 0 {
		return seg, fmt.Errorf("scan payload is not terminated by an end-of-image marker: %w", ErrSyntax)
	}

	seg.Data = s.data[s.pos : s.pos+end]

	return seg, s.skip(end)
}
