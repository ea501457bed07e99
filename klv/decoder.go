/*
NAME
  decoder.go

DESCRIPTION
  decoder.go defines the boundary to the external record decoder that turns
  validated record bytes into a structured metadata context.

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

// Decoder decodes one validated top-level record into a structured metadata
// context. Implementations are synchronous and bounded; a format failure is
// reported through the returned error and handled by callers exactly like a
// local validation failure. Implementations needing a tag dictionary should
// take it at construction rather than from process-wide state.
type Decoder interface {
	Decode(b []byte) (Context, error)
}

// Context is a decoded metadata tree. It is opaque to this module except
// that the top-level checksum element, when present, must be locatable.
type Context interface {
	// Checksum returns the checksum value declared at the top level of the
	// tree, or false if no checksum element is present.
	Checksum() (uint16, bool)
}
