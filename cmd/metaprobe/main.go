/*
NAME
  metaprobe - extracts embedded telemetry metadata from an MPEG-TS file and
  prints the live contents of the stream metadata cache.

DESCRIPTION
  metaprobe walks the TS packets of a recorded clip, reassembles the
  metadata PES packets on a nominated PID, runs them through the telemetry
  decode pipeline and prints whatever survives checksum verification.

AUTHOR
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/telemetry/container/mts"
	"github.com/ausocean/telemetry/extract"
	"github.com/ausocean/telemetry/klv"
	"github.com/ausocean/telemetry/meta"
)

// Logging configuration.
const (
	logPath      = "/var/log/metaprobe/metaprobe.log"
	logMaxSize   = 500 // MB
	logMaxBackup = 10
	logMaxAge    = 28 // Days.
	logSuppress  = true
)

func main() {
	var (
		inPath     = flag.String("in", "", "path of the MPEG-TS file to probe")
		pid        = flag.Int("pid", 0x101, "PID carrying metadata")
		streamType = flag.Int("type", mts.StreamTypeKLV, "PMT stream type of the metadata PID")
		streamID   = flag.String("stream", "metaprobe", "stream ID to post metadata under")
		logToFile  = flag.Bool("logfile", false, "also log to the rotating log file")
		verbose    = flag.Bool("v", false, "log at debug verbosity")
	)
	flag.Parse()

	// Create lumberjack logger to handle rotation if logging to file.
	var w io.Writer = os.Stderr
	if *logToFile {
		w = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   logPath,
			MaxSize:    logMaxSize,
			MaxBackups: logMaxBackup,
			MaxAge:     logMaxAge,
		})
	}
	verbosity := logging.Info
	if *verbose {
		verbosity = logging.Debug
	}
	log := logging.New(verbosity, w, logSuppress)

	if *inPath == "" {
		log.Fatal("no input file specified")
	}
	clip, err := os.ReadFile(*inPath)
	if err != nil {
		log.Fatal("could not read input file", "error", err.Error())
	}

	subs, err := mts.SubPackets(clip, map[int]uint8{*pid: uint8(*streamType)})
	if err != nil {
		log.Fatal("could not assemble sub-packets", "error", err.Error())
	}
	log.Info("assembled sub-packets", "count", len(subs))

	cache := meta.NewCache()
	id := *streamID
	stage := extract.NewStage(localSetDecoder{}, cache, func() (string, bool) { return id, true }, log)

	var emitted int
	for _, sub := range subs {
		if stage.Process(sub) != nil {
			emitted++
		}
	}
	log.Info("probe complete", "subPackets", len(subs), "emitted", emitted)

	for _, e := range cache.All() {
		fmt.Printf("%s:\n", e.StreamID)
		for k, v := range e.Properties {
			fmt.Printf("  %s=%s\n", k, v)
		}
		if s, ok := e.Context.(localSet); ok {
			for _, el := range s.elems {
				fmt.Printf("  tag %d: %x\n", el.tag, el.val)
			}
		}
	}
}

// checksumTag is the top level tag carrying the record checksum.
const checksumTag = 1

// element is one top level tag of a local set record.
type element struct {
	tag uint8
	val []byte
}

// localSet is a minimal decoding of a local set record: the top level tags
// and their raw values, which is as much as the probe needs to display.
// Interpreting tag semantics is left to the full dictionary-driven decoder.
type localSet struct {
	elems []element
}

// Checksum returns the declared checksum element, if present at the top
// level of the set.
func (s localSet) Checksum() (uint16, bool) {
	for _, el := range s.elems {
		if el.tag == checksumTag && len(el.val) == klv.ChecksumSize {
			return binary.BigEndian.Uint16(el.val), true
		}
	}
	return 0, false
}

// localSetDecoder implements klv.Decoder by walking the top level elements
// of a validated record value.
type localSetDecoder struct{}

func (localSetDecoder) Decode(b []byte) (klv.Context, error) {
	l, err := klv.DecodeLength(b, klv.UniversalKeySize)
	if err != nil {
		return nil, err
	}
	v := b[klv.UniversalKeySize+l.EncodedLen:]
	if uint64(len(v)) > l.Value {
		v = v[:l.Value]
	}

	var s localSet
	for off := 0; off < len(v); {
		tag := v[off]
		tl, err := klv.DecodeLength(v, off+1)
		if err != nil {
			return nil, errors.Wrapf(err, "bad length for element with tag %d", tag)
		}
		if tl.Value > uint64(len(v)) {
			return nil, errors.Errorf("element with tag %d overruns set", tag)
		}
		start := off + 1 + tl.EncodedLen
		end := start + int(tl.Value)
		if end > len(v) {
			return nil, errors.Errorf("element with tag %d overruns set", tag)
		}
		s.elems = append(s.elems, element{tag: tag, val: v[start:end]})
		off = end
	}
	return s, nil
}
