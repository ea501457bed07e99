/*
NAME
  record.go

DESCRIPTION
  record.go provides whole-record validation of raw KLV metadata records
  ahead of handoff to the external record decoder.

AUTHOR
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package klv

import "math"

// ValidateRecord checks that b begins with one complete metadata record:
// a universal key, a well formed BER length within limits, and at least as
// many bytes as the record declares. It fails fast so that the external
// decoder, which may be less defensive, only ever sees complete records.
// Records are accepted or rejected wholesale; there is no partial read.
func ValidateRecord(b []byte) error {
	if len(b) < UniversalKeySize+1 {
		return StructuralError{"record too short"}
	}

	l, err := DecodeLength(b, UniversalKeySize)
	if err != nil {
		return err
	}
	if l.Value > MaxPayloadSize {
		return LimitExceededError{Field: "record value length", Value: l.Value, Max: MaxPayloadSize}
	}

	total, ok := recordSize(l)
	if !ok {
		return StructuralError{"record size overflows"}
	}
	if uint64(len(b)) < total {
		return StructuralError{"insufficient data for declared record size"}
	}
	return nil
}

// RecordSize returns the number of bytes spanned by the record at the start
// of b: key, length field and value. b must already have passed
// ValidateRecord; the same rejections apply.
func RecordSize(b []byte) (int, error) {
	l, err := DecodeLength(b, UniversalKeySize)
	if err != nil {
		return 0, err
	}
	total, ok := recordSize(l)
	if !ok || total > uint64(len(b)) {
		return 0, StructuralError{"insufficient data for declared record size"}
	}
	return int(total), nil
}

// recordSize returns the total byte span of a record whose length field
// decoded to l, reporting false if the sum is unrepresentable.
func recordSize(l Length) (uint64, bool) {
	head := uint64(UniversalKeySize + l.EncodedLen)
	if l.Value > math.MaxUint64-head {
		return 0, false
	}
	return head + l.Value, true
}
