/*
NAME
  limits.go

DESCRIPTION
  limits.go defines the hard limits applied when parsing metadata from an
  untrusted transport stream.

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

// These are constants, not configuration, set above legitimate protocol
// maxima; they must not be weakenable at run time.
const (
	// UniversalKeySize is the size of the fixed universal key prefixing a
	// top-level metadata record.
	UniversalKeySize = 16

	// MaxLengthBytes is the most bytes a long form BER length field may use
	// to encode its value.
	MaxLengthBytes = 8

	// MaxPayloadSize bounds any declared payload size handled by this
	// module: a record value, a sub-packet elementary payload or an access
	// unit cell. The protocol's 16-bit length fields cap legitimate
	// payloads below 64 KiB, so one coherent ceiling covers every stage.
	MaxPayloadSize = 64 * 1024

	// ChecksumSize is the size of the checksum value trailing a record.
	ChecksumSize = 2
)
