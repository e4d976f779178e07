// Package jpegseg parses the marker-segment structure of a JPEG byte stream.
//
// Decode walks the full file buffer and returns one Marker per segment, in
// file order: Huffman table definitions are parsed into per-length symbol
// buckets, the start-of-scan segment carries its header plus the raw
// entropy-coded payload, and every other marker is returned with its opaque
// payload. The entropy-coded payload can then be decoded symbol by symbol
// with HuffmanTable.Decode.
//
// The package stops short of image reconstruction: dequantization, the
// inverse DCT, upsampling and color conversion are left to the caller, as is
// the extraction of the magnitude bits that follow each decoded symbol in a
// real scan.
package jpegseg

import (
	"errors"
	"fmt"
	"io"
)

// Standard error types for JPEG segment parsing and entropy decoding.
var (
	ErrNoJPEG = errors.New("not a JPEG file")
	ErrSyntax = errors.New("syntax error")
	ErrDecode = errors.New("entropy decode error")
)

// TraceFunc receives one formatted line per traced decoding step.
type TraceFunc func(format string, args ...any)

// DecodeOptions specifies entropy decoding parameters.
type DecodeOptions struct {
	// Trace, when non-nil, receives the built code map and one line per
	// decoded symbol. Tracing is off by default.
	Trace TraceFunc
}

// Decode parses the JPEG stream in data and returns its marker segments in
// file order. The buffer must start with the start-of-image marker and the
// segment sequence must be terminated by an end-of-image marker; the returned
// list holds the segments between the two. Parsing is all-or-nothing: the
// first malformed segment aborts the whole decode.
//
// Returned markers alias data and must be treated as read-only.
func Decode(data []byte) ([]Marker, error) {
	s := &scanner{data: data, size: len(data)}

	return s.run()
}

// Interface to check if a reader knows its remaining length.
type readerWithLen interface {
	Len() int
}

// DecodeReader reads all of r and parses it like Decode.
func DecodeReader(r io.Reader) ([]Marker, error) {
	// Pre-allocate if the reader knows its remaining length, as bytes.Reader
	// and friends do.
	if rl, ok := r.(readerWithLen); ok {
		size := rl.Len()
		if size > 0 {
			data := make([]byte, size)
			if _, err := io.ReadFull(r, data); err != nil {
				return nil, fmt.Errorf("failed to read stream: %w", err)
			}

			return Decode(data)
		}
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read stream: %w", err)
	}

	return Decode(data)
}
