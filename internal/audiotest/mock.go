// SPDX-License-Identifier: EPL-2.0

// Package audiotest provides synthetic audio sources for tests.
// The sources satisfy audio.Source without importing it, so any package
// can use them without an import cycle.
package audiotest

import (
	"io"
	"math"
)

// MockSource generates totalSamples frames from a waveform function.
type MockSource struct {
	sampleRate   int
	channels     int
	totalSamples int // per channel
	generated    int // per channel
	waveform     func(sample int, channel int) float32
	closed       bool
}

// NewMockSource creates a new mock audio source.
// totalSamples is the total number of samples per channel to generate.
func NewMockSource(sampleRate, channels, totalSamples int, waveform func(sample int, channel int) float32) *MockSource {
	return &MockSource{
		sampleRate:   sampleRate,
		channels:     channels,
		totalSamples: totalSamples,
		waveform:     waveform,
	}
}

// NewSilentSource creates a mock source that generates silence (all zeros).
func NewSilentSource(sampleRate, channels, totalSamples int) *MockSource {
	return NewMockSource(sampleRate, channels, totalSamples, func(int, int) float32 {
		return 0
	})
}

// NewSineSource creates a mock source that generates a full-scale sine wave
// on every channel.
func NewSineSource(sampleRate, channels, totalSamples int, frequency float64) *MockSource {
	return NewMockSource(sampleRate, channels, totalSamples, func(sample int, _ int) float32 {
		return float32(Sine(sample, sampleRate, frequency))
	})
}

// NewConstantSource creates a mock source with constant value.
func NewConstantSource(sampleRate, channels, totalSamples int, value float32) *MockSource {
	return NewMockSource(sampleRate, channels, totalSamples, func(int, int) float32 {
		return value
	})
}

// Sine returns sin(2π·f·t) for sample index i at rate.
func Sine(i, rate int, frequency float64) float64 {
	t := float64(i) / float64(rate)
	return math.Sin(2 * math.Pi * frequency * t)
}

// SineSamples returns n mono samples of a sine wave.
func SineSamples(n, rate int, frequency float64) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(Sine(i, rate, frequency))
	}

	return out
}

func (m *MockSource) SampleRate() int { return m.sampleRate }
func (m *MockSource) Channels() int   { return m.channels }
func (m *MockSource) BufSize() int    { return 4096 }
func (m *MockSource) Closed() bool    { return m.closed }

func (m *MockSource) Close() error {
	m.closed = true
	return nil
}

// Reset resets the generated sample counter to allow re-reading
func (m *MockSource) Reset() {
	m.generated = 0
}

func (m *MockSource) ReadSamples(dst []float32) (int, error) {
	if m.generated >= m.totalSamples {
		return 0, io.EOF
	}

	framesToWrite := min(len(dst)/m.channels, m.totalSamples-m.generated)

	for frame := range framesToWrite {
		sampleIndex := m.generated + frame
		for ch := range m.channels {
			dst[frame*m.channels+ch] = m.waveform(sampleIndex, ch)
		}
	}

	m.generated += framesToWrite
	samplesWritten := framesToWrite * m.channels

	if m.generated >= m.totalSamples {
		return samplesWritten, io.EOF
	}

	return samplesWritten, nil
}

// Step is one scripted ReadSamples result.
type Step struct {
	Samples []float32
	Err     error
}

// ScriptedSource replays a fixed list of blocks and errors, then io.EOF.
// It is used to drive decode loops through error paths.
type ScriptedSource struct {
	Rate   int
	Chans  int
	Steps  []Step
	Buf    int
	reads  []int
	closed bool
}

func (s *ScriptedSource) SampleRate() int { return s.Rate }
func (s *ScriptedSource) Channels() int   { return s.Chans }
func (s *ScriptedSource) Close() error    { s.closed = true; return nil }
func (s *ScriptedSource) Closed() bool    { return s.closed }

// Reads returns len(dst) of every ReadSamples call so far.
func (s *ScriptedSource) Reads() []int { return s.reads }

func (s *ScriptedSource) BufSize() int {
	if s.Buf > 0 {
		return s.Buf
	}
	return 4096
}

func (s *ScriptedSource) ReadSamples(dst []float32) (int, error) {
	s.reads = append(s.reads, len(dst))
	if len(s.Steps) == 0 {
		return 0, io.EOF
	}

	step := s.Steps[0]
	s.Steps = s.Steps[1:]

	n := copy(dst, step.Samples)
	return n, step.Err
}
