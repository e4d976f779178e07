package jpegseg

// Marker tag bytes handled by the scanner. Every marker is introduced by a
// 0xFF prefix byte followed by one of these.
const (
	markerPrefix = 0xFF
	soiMarker    = 0xD8 // Start of Image
	eoiMarker    = 0xD9 // End of Image
	sosMarker    = 0xDA // Start of Scan
	dhtMarker    = 0xC4 // Define Huffman Table(s)
	dqtMarker    = 0xDB // Define Quantization Table
)

// Marker is one parsed segment of a JPEG stream. The variant set is closed:
// RawSegment, HuffmanSegment, QuantizationSegment and ScanSegment.
type Marker interface {
	marker()
}

// RawSegment is a marker segment the scanner does not interpret. Data is the
// segment payload, Length the declared segment length including the two
// length bytes themselves.
type RawSegment struct {
	Tag    uint8
	Length uint16
	Data   []byte
}

// HuffmanSegment is a Define Huffman Table segment. A single segment may
// define several tables back-to-back; Tables preserves their order.
type HuffmanSegment struct {
	Tables []HuffmanTable
}

// QuantizationSegment is a Define Quantization Table segment holding one 8x8
// coefficient table. Only the first table of a segment is kept; segments that
// pack several tables are not split up.
type QuantizationSegment struct {
	ID     uint8
	Values [64]uint8
}

// ScanSegment is the Start of Scan segment: the parsed header plus the raw
// entropy-coded payload, up to but not including the end-of-image marker.
type ScanSegment struct {
	Header ScanHeader
	Data   []byte
}

func (RawSegment) marker()          {}
func (HuffmanSegment) marker()      {}
func (QuantizationSegment) marker() {}
func (ScanSegment) marker()         {}

// ScanHeader is the fixed-format metadata at the start of a scan segment.
type ScanHeader struct {
	Precision     uint8
	Height, Width uint16
	Components    []ScanComponent
}

// ScanComponent describes one component of a scan. The two sampling factors
// arrive packed as nibbles of a single byte and are stored unpacked.
type ScanComponent struct {
	ID            uint8
	HorizSampling uint8
	VertSampling  uint8
	QuantSel      uint8
}
