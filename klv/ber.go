/*
NAME
  ber.go

DESCRIPTION
  ber.go provides decoding and validation of BER length fields as found in
  KLV encoded metadata records.

AUTHOR
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package klv provides validation and framing primitives for KLV encoded
// telemetry metadata recovered from untrusted transport streams: BER length
// decoding, whole-record validation ahead of decode, access unit framing and
// the record checksum.
package klv

import "math"

// Length is a decoded BER length field.
type Length struct {
	Value      uint64 // The decoded length value.
	EncodedLen int    // Bytes consumed by the length field itself.
}

// DecodeLength decodes the BER length field starting at offset in b.
//
// A short form field (top bit clear) encodes its value in the low seven
// bits and consumes one byte. A long form field (top bit set) gives the
// count of following big-endian value bytes in its low seven bits. A count
// of zero signals indefinite length, and a count above MaxLengthBytes can
// only come from a corrupt or hostile stream; both are rejected, as is any
// field extending past the end of b. Accumulation is checked before each
// step so an oversized value is rejected rather than silently truncated.
func DecodeLength(b []byte, offset int) (Length, error) {
	if offset < 0 || offset >= len(b) {
		return Length{}, StructuralError{"length field offset outside buffer"}
	}

	first := b[offset]
	if first&0x80 == 0 {
		return Length{Value: uint64(first), EncodedLen: 1}, nil
	}

	n := int(first & 0x7f)
	if n == 0 {
		return Length{}, StructuralError{"indefinite length not permitted"}
	}
	if n > MaxLengthBytes {
		return Length{}, LimitExceededError{Field: "length encoding byte count", Value: uint64(n), Max: MaxLengthBytes}
	}
	if offset+1+n > len(b) {
		return Length{}, StructuralError{"length field extends past end of buffer"}
	}

	var v uint64
	for _, c := range b[offset+1 : offset+1+n] {
		if v > math.MaxUint64>>8 {
			return Length{}, StructuralError{"length value overflows"}
		}
		v = v<<8 | uint64(c)
	}
	return Length{Value: v, EncodedLen: 1 + n}, nil
}
