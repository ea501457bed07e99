/*
NAME
  accessunit.go

DESCRIPTION
  accessunit.go provides extraction of the metadata cell from a framed
  metadata access unit.

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

import "encoding/binary"

// Access unit header layout: service ID byte, sequence number byte, flags
// byte, then the 16-bit big-endian cell data length.
const (
	auHeaderSize = 5
	auLenIdx     = 3
)

// FrameAccessUnit returns the metadata cell carried by the access unit in b,
// that is, the candidate record bytes following the fixed header. The unit
// must be longer than its header, and the declared cell length must fit both
// the configured ceiling and the bytes actually present; trailing bytes
// beyond the declared cell are excluded. Violations yield a typed error
// which callers treat as "nothing extracted".
func FrameAccessUnit(b []byte) ([]byte, error) {
	if len(b) <= auHeaderSize {
		return nil, StructuralError{"access unit too short"}
	}

	n := int(binary.BigEndian.Uint16(b[auLenIdx : auLenIdx+2]))
	if n > MaxPayloadSize {
		return nil, LimitExceededError{Field: "access unit cell length", Value: uint64(n), Max: MaxPayloadSize}
	}
	if n > len(b)-auHeaderSize {
		return nil, StructuralError{"access unit cell length exceeds available bytes"}
	}
	return b[auHeaderSize : auHeaderSize+n], nil
}
