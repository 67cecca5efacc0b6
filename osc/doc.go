// Package osc implements the subset of Open Sound Control 1.0 used by the
// node: single messages (no bundles) carried in UDP datagrams, an exact-match
// address dispatcher with a fallback method, and a server/client pair for the
// two-socket receive/reply topology.
//
// Supported argument type tags:
//
//	'i' (int32)
//	'f' (float32)
//	's' (string)
//	'b' ([]byte)
//	'h' (int64)
//	'd' (float64)
//	'T' (true)
//	'F' (false)
//	'N' (nil)
//
// A datagram that is not a well-formed message (truncated, misaligned, or
// carrying an unknown type tag) parses with an error wrapping ErrMalformed
// and is dropped by the server without interrupting the receive loop.
package osc
