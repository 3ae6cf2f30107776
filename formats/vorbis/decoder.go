// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"

	"github.com/ik5/audspec/audio"
)

const defaultBufSize = 4096

// oggReader is an interface for oggvorbis.Reader to allow testing
type oggReader interface {
	SampleRate() int
	Channels() int
	Read([]float32) (int, error)
}

type source struct {
	dec        oggReader
	sampleRate int
	channels   int
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return defaultBufSize - defaultBufSize%s.channels }

// ReadSamples decodes straight into dst. oggvorbis counts interleaved
// values, so dst is trimmed to whole frames first.
func (s *source) ReadSamples(dst []float32) (int, error) {
	dst = dst[:len(dst)-len(dst)%s.channels]
	if len(dst) == 0 {
		return 0, nil
	}

	n, err := s.dec.Read(dst)
	if n == 0 {
		if err != nil {
			return 0, fmt.Errorf("%w", err)
		}
		return 0, io.EOF
	}

	return n, err
}

// Decoder reads Vorbis audio in an Ogg container.
type Decoder struct{}

func (Decoder) Sniff(header []byte) bool {
	return len(header) >= 4 && bytes.Equal(header[:4], []byte("OggS"))
}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("reading vorbis headers: %w", err)
	}

	if dec.SampleRate() <= 0 || dec.Channels() <= 0 {
		return nil, fmt.Errorf("%w: vorbis identification header", audio.ErrMissingStreamMetadata)
	}

	return &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		channels:   dec.Channels(),
	}, nil
}
