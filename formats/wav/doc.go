// SPDX-License-Identifier: EPL-2.0

// Package wav provides WAV decoding and 16-bit PCM encoding.
//
// Decoding uses github.com/go-audio/wav and accepts integer PCM at 16, 24
// or 32 bits with any channel count and sample rate. Unknown RIFF chunks
// before the data chunk are skipped. Samples are scaled by the bit depth
// into float32 values in [-1.0, 1.0].
//
//	f, _ := os.Open("audio.wav")
//	src, err := wav.Decoder{}.Decode(f)
//
// Decoder implements audio.Sniffer and recognises the RIFF/WAVE header.
//
// # Writing WAV Files
//
// WriteWAV16 writes interleaved int16 samples with a canonical 44-byte
// header, and WriteMono converts float32 samples first:
//
//	out, _ := os.Create("range.wav")
//	err := wav.WriteMono(out, 44100, samples)
//
// # Errors
//
//   - ErrNotWavFile: no RIFF/WAVE structure
//   - ErrOnlyPCMSupported: compressed or floating point data
//   - ErrUnsupportedBitDepth: 8-bit or odd bit depths
//   - ErrInvalidChannels: WriteWAV16 called with fewer than one channel
//   - audio.ErrNoAudioTrack: a valid header but no PCM data chunk
//   - audio.ErrMissingStreamMetadata: a fmt chunk with no rate or channels
package wav
