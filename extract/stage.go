/*
NAME
  stage.go

DESCRIPTION
  stage.go provides the per connection distribution stage gluing the
  demultiplexer, the decode pipeline and the stream metadata cache.

AUTHOR
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package extract

import (
	"fmt"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/telemetry/container/mts"
	"github.com/ausocean/telemetry/klv"
	"github.com/ausocean/telemetry/meta"
)

// ResolveFunc returns the stream ID currently associated with the owning
// connection, reporting false while none has been established. An absent ID
// is expected transiently before the connection's parent record exists.
type ResolveFunc func() (string, bool)

// Stage is the per connection distribution glue: it filters arriving
// sub-packets to the recognized metadata carrier stream types, attaches the
// currently resolved stream ID, and publishes each decoded packet to the
// shared stream metadata cache.
//
// A Stage processes one connection's sub-packets strictly in arrival order
// and must be used from a single goroutine. Independent connections run
// their own Stages in parallel, sharing only the cache.
type Stage struct {
	ext     *Extractor
	cache   *meta.Cache
	resolve ResolveFunc
	log     logging.Logger
}

// NewStage returns a pointer to a new Stage feeding cache, using dec to
// decode validated records and resolve to obtain the connection's current
// stream ID.
func NewStage(dec klv.Decoder, cache *meta.Cache, resolve ResolveFunc, log logging.Logger) *Stage {
	return &Stage{
		ext:     NewExtractor(dec, log),
		cache:   cache,
		resolve: resolve,
		log:     log,
	}
}

// Process runs one demuxed sub-packet through the stage, returning the
// decoded packet if one was emitted. Sub-packets of unrecognized stream
// types, sub-packets arriving before a stream ID is resolvable, and
// sub-packets failing any decode stage are dropped without further effect.
func (s *Stage) Process(sp mts.SubPacket) *Packet {
	switch sp.StreamType {
	case mts.StreamTypePrivatePES, mts.StreamTypeKLV:
	default:
		return nil
	}

	id, ok := s.resolve()
	if !ok {
		s.log.Debug("no stream ID resolvable, dropping sub-packet")
		return nil
	}

	pkt, err := s.ext.Decode(sp.Data, sp.DeclaredLen, sp.PTS)
	if err != nil {
		// Already logged by the extractor.
		return nil
	}

	props := map[string]string{
		"streamType": fmt.Sprintf("0x%02x", sp.StreamType),
	}
	s.cache.Post(id, props, pkt.Context)
	return pkt
}
