// Package buffer provides the storage primitives behind the delay effects.
//
// [Ring] is a generic fixed-capacity circular store with independently
// advanceable read and write cursors. All indexing is reduced modulo the
// capacity, so once a ring exists no accessor can fail.
//
// [Block] holds planar multi-channel float64 audio (one slice per channel)
// and converts to and from interleaved frames.
package buffer
