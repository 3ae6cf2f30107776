// SPDX-License-Identifier: EPL-2.0

// Package spectrum computes banded spectral energy over time.
//
// Samples are cut into windows of Config.FrameSize with a hop of half a
// window. Each window is multiplied by a Hann window and transformed with a
// real-input FFT (github.com/mjibson/go-dsp). The first FrameSize/2 bins are
// split into Config.Bands contiguous groups of equal width, with the last
// group also taking the bins left over by integer division. A bin's energy
// is 20*log10(|X|) floored at -200 dB, and a band's value is the mean energy
// of its bins.
//
// Frames are stamped with their absolute start time in milliseconds:
//
//	TimeMS = StartMS + start/sampleRate*1000
//
// # Concurrency
//
// With Config.Workers above 1 the frames are computed by a bounded
// errgroup and written straight to their slot, so the output order never
// depends on scheduling.
package spectrum
