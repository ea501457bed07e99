/*
NAME
  mts.go

DESCRIPTION
  mts.go provides the MPEG-TS facing types of the telemetry extraction
  pipeline: the sub-packet model delivered by a demultiplexer, the stream
  types recognized as metadata carriers, and a helper to assemble
  sub-packets from raw 188 byte TS packets.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package mts provides MPEG-TS (mts) types and sub-packet assembly for the
// telemetry metadata pipeline.
package mts

import (
	"encoding/binary"
	"sort"

	"github.com/Comcast/gots/packet"
	gotspes "github.com/Comcast/gots/pes"
	"github.com/pkg/errors"
)

// PacketSize is the size of an MPEG-TS packet.
const PacketSize = 188

// PMT stream types for the two recognized metadata carriers, as per
// ITU-T Rec. H.222.0 table 2-34.
const (
	StreamTypePrivatePES = 0x06 // PES packets containing private (synchronous) metadata.
	StreamTypeKLV        = 0x15 // Asynchronous KLV metadata carriage.
)

// Index of the 16-bit PES packet length within a PES header.
const pesLenIdx = 4

// SubPacket is one elementary stream packet delivered by the demultiplexer,
// tagged with its PMT stream type and presentation timestamp. Data holds the
// full sub-packet bytes, header included; DeclaredLen is the PES packet
// length field as reported by the demultiplexer. SubPackets are ephemeral
// and must be treated as immutable by consumers.
type SubPacket struct {
	StreamType  uint8
	PTS         uint64
	DeclaredLen int
	Data        []byte
}

// SubPackets walks the complete TS packets in p and assembles a SubPacket
// for each PES packet found on a PID present in pids, which maps PID to the
// PMT stream type declared for it. The TS clip must contain only whole
// 188 byte packets; PIDs not in pids are skipped. Accumulated payloads whose
// PES header cannot be parsed are dropped, as they would be on a live feed.
func SubPackets(p []byte, pids map[int]uint8) ([]SubPacket, error) {
	l := len(p)
	if l%PacketSize != 0 {
		return nil, errors.New("clip is not a whole number of TS packets")
	}

	var (
		subs []SubPacket
		bufs = make(map[int][]byte)
	)

	var pkt packet.Packet
	for i := 0; i < l; i += PacketSize {
		copy(pkt[:], p[i:i+PacketSize])

		pid := pkt.PID()
		st, ok := pids[pid]
		if !ok {
			continue
		}

		payload, err := pkt.Payload()
		if err != nil {
			return nil, errors.Wrapf(err, "could not extract TS payload for PID %d", pid)
		}

		if pkt.PayloadUnitStartIndicator() {
			if b, ok := bufs[pid]; ok {
				if sub, err := newSubPacket(st, b); err == nil {
					subs = append(subs, sub)
				}
			}
			bufs[pid] = append([]byte(nil), payload...)
			continue
		}

		if b, ok := bufs[pid]; ok {
			bufs[pid] = append(b, payload...)
		}
	}

	// Flush the in-progress sub-packet for each PID, in PID order so that
	// output is deterministic.
	flush := make([]int, 0, len(bufs))
	for pid := range bufs {
		flush = append(flush, pid)
	}
	sort.Ints(flush)
	for _, pid := range flush {
		if sub, err := newSubPacket(pids[pid], bufs[pid]); err == nil {
			subs = append(subs, sub)
		}
	}
	return subs, nil
}

// newSubPacket parses the PES header of the accumulated sub-packet bytes in
// b to recover the presentation timestamp and declared length.
func newSubPacket(st uint8, b []byte) (SubPacket, error) {
	h, err := gotspes.NewPESHeader(b)
	if err != nil {
		return SubPacket{}, errors.Wrap(err, "could not parse PES header")
	}
	return SubPacket{
		StreamType:  st,
		PTS:         h.PTS(),
		DeclaredLen: int(binary.BigEndian.Uint16(b[pesLenIdx : pesLenIdx+2])),
		Data:        b,
	}, nil
}
