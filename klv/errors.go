/*
NAME
  errors.go

DESCRIPTION
  errors.go defines the error taxonomy used throughout the metadata
  extraction pipeline.

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

import "fmt"

// StructuralError reports input whose framing is malformed: a buffer too
// short for its declared contents, or a header field out of range. Malformed
// input is routine on a live feed, so callers treat these as a packet-local
// discard, never a fault.
type StructuralError struct {
	Reason string
}

func (e StructuralError) Error() string { return "klv: " + e.Reason }

// LimitExceededError reports a declared length above one of the hard limits
// in limits.go. Legitimate encoders never produce these, so an occurrence
// suggests an attack or a badly misconfigured source.
type LimitExceededError struct {
	Field string
	Value uint64
	Max   uint64
}

func (e LimitExceededError) Error() string {
	return fmt.Sprintf("klv: %s %d exceeds limit %d", e.Field, e.Value, e.Max)
}

// IntegrityError reports a checksum mismatch on an otherwise well formed,
// successfully decoded record.
type IntegrityError struct {
	Declared uint16
	Computed uint16
}

func (e IntegrityError) Error() string {
	return fmt.Sprintf("klv: checksum mismatch: declared 0x%04x, computed 0x%04x", e.Declared, e.Computed)
}

// UpstreamDecodeError wraps a failure from the external record decoder on
// bytes that passed local validation.
type UpstreamDecodeError struct {
	Err error
}

func (e UpstreamDecodeError) Error() string { return "klv: decoder: " + e.Err.Error() }

func (e UpstreamDecodeError) Unwrap() error { return e.Err }
