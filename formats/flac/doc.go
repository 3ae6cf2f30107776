// SPDX-License-Identifier: EPL-2.0

// Package flac decodes native FLAC streams with github.com/mewkiz/flac.
//
// Each FLAC frame is parsed whole and its per-channel subframes are
// interleaved and scaled to [-1.0, 1.0] by the stream's bit depth. A frame
// that fails its header or footer CRC check is reported as
// audio.ErrCorruptPacket so the decode loop can drop it. The reader then
// skips ahead to the next frame sync code and carries on from there.
package flac
