/*
NAME
  extract.go

DESCRIPTION
  extract.go provides the decode pipeline that turns an untrusted metadata
  sub-packet into a verified, structured telemetry packet.

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

// Package extract implements the metadata decode pipeline: payload
// extraction from a sub-packet, access unit framing, record validation,
// external decode and checksum verification, plus the per connection stage
// that feeds the stream metadata cache.
package extract

import (
	"errors"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/telemetry/container/mts/pes"
	"github.com/ausocean/telemetry/klv"
)

// Packet is a decoded metadata packet: a verified metadata context and the
// presentation timestamp of the sub-packet that carried it. A Packet exists
// only once its record checksum has been verified.
type Packet struct {
	PTS     uint64
	Context klv.Context
}

// Extractor decodes metadata sub-packets, one at a time. Decoding is
// strictly sequential for a given Extractor; independent streams use
// independent Extractors.
type Extractor struct {
	dec klv.Decoder
	log logging.Logger
}

// NewExtractor returns a pointer to a new Extractor using dec to decode
// validated records.
func NewExtractor(dec klv.Decoder, log logging.Logger) *Extractor {
	return &Extractor{dec: dec, log: log}
}

// Decode runs one sub-packet through payload extraction, access unit
// framing, record validation, the external decoder and checksum
// verification, in that order. A Packet carrying pts is returned only if
// every stage succeeds; any failure discards this sub-packet with a typed
// error and leaves the Extractor ready for the next one. Failures are
// logged and are routine on a live feed; nothing here panics on hostile
// input.
func (e *Extractor) Decode(b []byte, declaredLen int, pts uint64) (*Packet, error) {
	payload, err := pes.Extract(b, declaredLen)
	if err != nil {
		e.reject("no payload extracted from sub-packet", err)
		return nil, err
	}

	cell, err := klv.FrameAccessUnit(payload)
	if err != nil {
		e.reject("could not frame access unit", err)
		return nil, err
	}

	err = klv.ValidateRecord(cell)
	if err != nil {
		e.reject("record validation failed", err)
		return nil, err
	}
	n, err := klv.RecordSize(cell)
	if err != nil {
		e.reject("record validation failed", err)
		return nil, err
	}
	record := cell[:n]

	ctx, err := e.dec.Decode(record)
	if err != nil {
		err = klv.UpstreamDecodeError{Err: err}
		e.log.Warning("external decoder rejected validated record", "error", err.Error())
		return nil, err
	}

	declared, ok := ctx.Checksum()
	if !ok {
		err := klv.StructuralError{Reason: "record missing checksum element"}
		e.log.Debug("discarding record", "error", err.Error())
		return nil, err
	}
	sum := klv.Checksum(record[:len(record)-klv.ChecksumSize])
	if sum != declared {
		err := klv.IntegrityError{Declared: declared, Computed: sum}
		e.log.Warning("discarding record", "error", err.Error())
		return nil, err
	}

	return &Packet{PTS: pts, Context: ctx}, nil
}

// reject logs a discard: warning level for an exceeded hard limit, debug
// level for routine malformation.
func (e *Extractor) reject(msg string, err error) {
	var limit klv.LimitExceededError
	if errors.As(err, &limit) {
		e.log.Warning(msg, "error", err.Error())
		return
	}
	e.log.Debug(msg, "error", err.Error())
}
