// SPDX-License-Identifier: EPL-2.0

// Package audio provides the decoding half of the analysis pipeline.
//
// This package contains:
//   - Source and Decoder interfaces implemented by the formats packages
//   - Registry for format registration, extension hints and content probing
//   - DecodeSource / Registry.DecodeFile, the sequential decode loop
//   - Downmix and MonoMixer for reducing stereo to mono
//   - ExtractRange for cutting a millisecond window out of decoded audio
//
// # Source Interface
//
// The Source interface is the foundation of audio processing:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// Samples are interleaved float32 values in [-1.0, 1.0].
//
// # Decoding
//
// DecodeFile reads the first bytes of the file, picks a decoder and drains
// it block by block:
//
//	samples, info, err := registry.DecodeFile("song.flac")
//	if errors.Is(err, audio.ErrUnreadableSource) {
//	    // missing file or unknown format
//	}
//
// End of stream (io.EOF or io.ErrUnexpectedEOF) is not an error. A Source
// may report a single damaged block by returning an error that wraps
// ErrCorruptPacket; the block is dropped and counted in
// StreamInfo.SkippedPackets. Every other read error aborts the decode with
// ErrDecodeFailure.
//
// # Channel Mixing
//
// Only stereo is mixed down: every L/R pair becomes (L+R)/2. Mono and any
// other channel layout is passed through in interleaved order.
//
//	mono := audio.NewMonoMixer(source)
//
// # Format Registry
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{}, ".wav", ".wave")
//	format, decoder, ok := registry.Detect(".wav", header)
//
// The extension is a hint. Decoders implementing Sniffer confirm it from
// the header; when they disagree every format is probed in registration
// order.
//
// # Ranges
//
// ExtractRange converts milliseconds to sample indices by truncation, fails
// with ErrRangeBeyondAudio when the start is past the audio and clamps an
// over-long end.
package audio
