/*
NAME
  pes.go

DESCRIPTION
  pes.go provides defensive extraction of the elementary stream payload
  from a PES packet carrying telemetry metadata.

AUTHOR
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package pes provides PES packet constants and payload extraction for the
// telemetry metadata pipeline. Extraction is written for a live untrusted
// feed: every malformed packet is reported as a typed rejection, never a
// panic, and the caller drops the packet and moves on.
package pes

import "github.com/ausocean/telemetry/klv"

// Stream IDs as per ITU-T Rec. H.222.0 table 2-22 for streams that may
// carry telemetry metadata.
const (
	PrivateSID  = 0xbd // private_stream_1, synchronous metadata carriage.
	MetadataSID = 0xfc // Metadata stream.
)

// PES packet header sizing.
const (
	// MinHeaderSize is the smallest PES packet header: the 6 byte start
	// code and length region, 2 flag bytes and the header data length byte.
	MinHeaderSize = 9

	// headerDataIdx is the index of the header data length byte, which
	// gives the count of optional header bytes that follow it.
	headerDataIdx = 8

	// fixedOverhead is the number of header bytes counted by the PES packet
	// length field ahead of the optional header data: the 2 flag bytes and
	// the header data length byte.
	fixedOverhead = 3

	// maxHeaderData is the protocol ceiling on the header data length field.
	maxHeaderData = 255
)

// Extract returns the elementary stream payload of the PES packet in b,
// given the packet length declared to the demultiplexer, i.e. the count of
// bytes following the PES length field. The payload is the byte range after
// the fixed header and any optional header data, bounded by the declared
// length; it is returned uncopied.
//
// Rejections cover: a buffer below the minimal header size, a declared
// length too small for the header it must span, a payload above the
// configured ceiling, and any computed bound that would leave the buffer.
func Extract(b []byte, length int) ([]byte, error) {
	if len(b) < MinHeaderSize {
		return nil, klv.StructuralError{Reason: "PES packet shorter than minimal header"}
	}

	extra := int(b[headerDataIdx])
	if extra > maxHeaderData {
		return nil, klv.StructuralError{Reason: "PES header data length exceeds protocol ceiling"}
	}
	if length < fixedOverhead+extra {
		return nil, klv.StructuralError{Reason: "PES packet length too small for header"}
	}

	payloadLen := length - fixedOverhead - extra
	if payloadLen > klv.MaxPayloadSize {
		return nil, klv.LimitExceededError{Field: "PES payload length", Value: uint64(payloadLen), Max: klv.MaxPayloadSize}
	}

	headerLen := MinHeaderSize + extra
	end := headerLen + payloadLen
	if end < headerLen || end > len(b) {
		return nil, klv.StructuralError{Reason: "PES payload extends past end of packet"}
	}
	return b[headerLen:end], nil
}
