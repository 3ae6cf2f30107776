// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"

	"github.com/ik5/audspec/audio"
	"github.com/ik5/audspec/internal/seekable"
)

const formatPCM = 1

// pcmReader is the part of gowav.Decoder the source needs, so tests can fake it.
type pcmReader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

type source struct {
	dec        pcmReader
	sampleRate int
	channels   int
	scale      float32
	intBuf     *goaudio.IntBuffer
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }

func (s *source) BufSize() int {
	if s.intBuf != nil {
		return cap(s.intBuf.Data)
	}
	return 4096
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	if s.intBuf == nil || cap(s.intBuf.Data) < len(dst) {
		s.intBuf = &goaudio.IntBuffer{Data: make([]int, len(dst))}
	}
	s.intBuf.Data = s.intBuf.Data[:len(dst)]

	n, err := s.dec.PCMBuffer(s.intBuf)
	if n == 0 {
		if err != nil {
			return 0, fmt.Errorf("%w", err)
		}
		// go-audio signals the end of the data chunk with (0, nil)
		return 0, io.EOF
	}

	for i := range n {
		dst[i] = float32(s.intBuf.Data[i]) / s.scale
	}

	return n, err
}

// Decoder reads integer PCM WAV files (16, 24 or 32 bit, any channel count).
type Decoder struct{}

func (Decoder) Sniff(header []byte) bool {
	return len(header) >= 12 &&
		bytes.Equal(header[:4], []byte("RIFF")) &&
		bytes.Equal(header[8:12], []byte("WAVE"))
}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, err := seekable.From(r)
	if err != nil {
		return nil, fmt.Errorf("reading wav data: %w", err)
	}

	dec := gowav.NewDecoder(rs)
	if !dec.IsValidFile() {
		switch {
		case dec.Err() != nil:
			return nil, fmt.Errorf("%w: %w", ErrNotWavFile, dec.Err())
		case dec.NumChans < 1 || dec.SampleRate == 0:
			return nil, fmt.Errorf("%w: channels %d, sample rate %d",
				audio.ErrMissingStreamMetadata, dec.NumChans, dec.SampleRate)
		case dec.BitDepth < 8:
			return nil, ErrUnsupportedBitDepth
		default:
			return nil, fmt.Errorf("%w: no PCM data chunk", audio.ErrNoAudioTrack)
		}
	}

	if dec.WavAudioFormat != formatPCM {
		return nil, ErrOnlyPCMSupported
	}

	switch dec.BitDepth {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, dec.BitDepth)
	}

	if err := dec.FwdToPCM(); err != nil || dec.PCMChunk == nil {
		return nil, fmt.Errorf("%w: no PCM data chunk", audio.ErrNoAudioTrack)
	}

	return &source{
		dec:        dec,
		sampleRate: int(dec.SampleRate),
		channels:   int(dec.NumChans),
		scale:      float32(int64(1) << (dec.BitDepth - 1)),
	}, nil
}
