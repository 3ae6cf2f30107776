// SPDX-License-Identifier: EPL-2.0

package audio

// Downmix appends the single-channel form of the interleaved block src to dst.
//
// Only stereo is mixed: each L/R pair becomes (L+R)/2 and a trailing unpaired
// sample is dropped. Every other channel count, mono included, is appended
// unchanged in its interleaved order.
func Downmix(dst, src []float32, channels int) []float32 {
	if channels != 2 {
		return append(dst, src...)
	}

	frames := len(src) / 2
	if cap(dst)-len(dst) < frames {
		grown := make([]float32, len(dst), len(dst)+max(frames, cap(dst)))
		copy(grown, dst)
		dst = grown
	}

	for f := range frames {
		idx := f << 1 // f * 2
		dst = append(dst, (src[idx]+src[idx+1])*0.5)
	}

	return dst
}

// MonoMixer streams a Source through Downmix. DecodeSource reads every
// source through one.
//
// A stereo source is delivered as mono. Any other layout is passed through
// untouched, so Channels reports the source's own count for it.
type MonoMixer struct {
	src Source
	tmp []float32
}

func NewMonoMixer(src Source) *MonoMixer {
	return &MonoMixer{
		src: src,
		tmp: make([]float32, 8192),
	}
}

func (m *MonoMixer) SampleRate() int { return m.src.SampleRate() }
func (m *MonoMixer) Close() error    { return m.src.Close() }

func (m *MonoMixer) Channels() int {
	if m.src.Channels() == 2 {
		return 1
	}
	return m.src.Channels()
}

// BufSize is the source's block size in output samples.
func (m *MonoMixer) BufSize() int {
	if m.src.Channels() == 2 {
		return max(m.src.BufSize()/2, 1)
	}
	return m.src.BufSize()
}

// ReadSamples fills dst with mixed samples. When the source is passed
// through, len(dst) must be a multiple of its channel count, otherwise
// ErrInvalidDstSize is returned and nothing is read.
func (m *MonoMixer) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	channels := m.src.Channels()
	if channels != 2 {
		if channels > 1 && len(dst)%channels != 0 {
			return 0, ErrInvalidDstSize
		}
		return m.src.ReadSamples(dst)
	}

	samplesNeeded := len(dst) * 2
	if cap(m.tmp) < samplesNeeded {
		m.tmp = make([]float32, samplesNeeded)
	}

	n, err := m.src.ReadSamples(m.tmp[:samplesNeeded])
	if n == 0 {
		return 0, err
	}

	out := Downmix(dst[:0], m.tmp[:n], 2)

	return len(out), err
}
