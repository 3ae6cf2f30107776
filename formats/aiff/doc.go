// SPDX-License-Identifier: EPL-2.0

// Package aiff provides AIFF (Audio Interchange File Format) decoding.
//
// This package uses github.com/go-audio/aiff to decode AIFF and AIFF-C
// files holding 16-bit integer PCM. Samples are delivered as interleaved
// float32 values in [-1.0, 1.0].
//
// # Detection
//
// Decoder implements audio.Sniffer: a FORM chunk with an AIFF or AIFC
// form type is accepted, so a registry can pick it by content even when
// the file extension is wrong.
//
// # Errors
//
//   - ErrNotAiffFile: the input has no valid FORM/COMM structure
//   - ErrOnlyPCM16bitSupported: any bit depth other than 16
//   - audio.ErrMissingStreamMetadata: the COMM chunk has no rate or channels
//
// A short read from the SSND chunk is reported as io.EOF, which the
// decode loop treats as a normal end of stream.
package aiff
