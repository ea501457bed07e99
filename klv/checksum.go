/*
NAME
  checksum.go

DESCRIPTION
  checksum.go provides the 16-bit running checksum used to verify metadata
  records.

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

// Checksum computes the 16-bit running checksum over b: each byte is summed
// into a 16-bit accumulator, shifted left eight bits when its index is even.
// The summation is a protocol detail and must match the encoder bit for bit.
// Callers verifying a record pass all record bytes except the trailing
// two-byte checksum value.
func Checksum(b []byte) uint16 {
	var sum uint16
	for i, c := range b {
		sum += uint16(c) << (8 * uint((i+1)%2))
	}
	return sum
}
