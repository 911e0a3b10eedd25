// Package server is the read-only preview feed for an external renderer.
//
// It exposes the composition over HTTP (full state with a fingerprint ETag,
// paint order at a time, the template catalog) and pushes every committed
// change to websocket subscribers. Nothing here mutates the composition.
package server
