// SPDX-License-Identifier: EPL-2.0

// Package mp3 provides MP3 decoding on top of github.com/hajimehoshi/go-mp3.
//
// go-mp3 always decodes to interleaved 16-bit stereo, so every Source from
// this package reports two channels, whatever the file layout is. Mono
// files are duplicated into both channels by the codec and collapse back
// to the original signal after downmixing.
//
// Decoder implements audio.Sniffer and recognises either a leading ID3v2
// tag or an MPEG frame sync word.
//
// Decoding errors after the first frame are not recoverable and are
// returned to the caller as-is.
package mp3
