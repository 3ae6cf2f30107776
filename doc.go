// SPDX-License-Identifier: EPL-2.0

// Package audspec turns a stretch of an audio file into time-stamped
// spectral band energies.
//
// The work happens in three stages, each usable on its own:
//
//	samples, info, err := audspec.Decode("song.mp3")
//	slice, err := audspec.ExtractRange(samples, 1000, 5000, info.SampleRate)
//	frames, err := audspec.Analyze(slice, info.SampleRate, spectrum.DefaultConfig(1000, 5000))
//
// Decode detects the container from the file extension and the leading
// bytes, decodes it completely and mixes stereo down to one channel.
// ExtractRange cuts the millisecond window out of the decoded samples, and
// Analyze produces one spectrum.Frame per half-overlapping Hann window.
//
// Pipeline chains the three stages, logs each one with log/slog and
// reports stage timings.
//
// # Supported Formats
//
//   - WAV (PCM 16/24/32-bit) via formats/wav
//   - AIFF and AIFF-C (PCM 16-bit) via formats/aiff
//   - FLAC via formats/flac
//   - Ogg Vorbis via formats/vorbis
//   - MP3 via formats/mp3
//
// Other formats can be added to a registry from NewRegistry with
// audio.Registry.Register.
package audspec
