// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis streams with github.com/jfreymuth/oggvorbis.
//
// The codec already produces float32 samples in [-1.0, 1.0], so the Source
// returned by Decoder passes them through untouched, interleaved in the
// stream's own channel order.
//
// Decoder implements audio.Sniffer by looking for the "OggS" capture
// pattern. Ogg pages carrying other codecs pass the sniff and are then
// rejected by the Vorbis header parser.
package vorbis
