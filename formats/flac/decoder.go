// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"

	"github.com/ik5/audspec/audio"
)

const defaultBufSize = 4096

// frameParser is the part of flac.Stream the source needs, so tests can fake it.
type frameParser interface {
	ParseNext() (*frame.Frame, error)
}

type source struct {
	dec        frameParser
	sampleRate int
	channels   int
	scale      float32
	closer     io.Closer

	// resync moves the input to the next frame sync code. Nil disables
	// recovery from damaged frames.
	resync     func() error
	recovering bool

	pending []float32 // interleaved samples of the last parsed frame
	pos     int
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) BufSize() int    { return defaultBufSize - defaultBufSize%s.channels }

func (s *source) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	if s.pos >= len(s.pending) {
		if err := s.nextFrame(); err != nil {
			return 0, err
		}
	}

	n := copy(dst, s.pending[s.pos:])
	s.pos += n

	return n, nil
}

// nextFrame parses one frame and interleaves its subframes into pending.
//
// A checksum failure skips the frame. Until the next frame parses cleanly
// every parse error is treated the same way, since a sync code found by
// resync may be a false match inside audio data.
func (s *source) nextFrame() error {
	f, err := s.dec.ParseNext()
	if err != nil {
		switch {
		case errors.Is(err, io.EOF):
			return io.EOF
		case s.recovering, isChecksumError(err):
			return s.skipFrame(err)
		default:
			return fmt.Errorf("parsing flac frame: %w", err)
		}
	}
	s.recovering = false

	if len(f.Subframes) != s.channels {
		return fmt.Errorf("%w: frame has %d subframes, stream has %d channels",
			audio.ErrCorruptPacket, len(f.Subframes), s.channels)
	}

	frames := len(f.Subframes[0].Samples)
	s.pending = s.pending[:0]
	for i := range frames {
		for _, sub := range f.Subframes {
			var v int32
			if i < len(sub.Samples) {
				v = sub.Samples[i]
			}
			s.pending = append(s.pending, float32(v)/s.scale)
		}
	}
	s.pos = 0

	return nil
}

// skipFrame reports the damaged frame as corrupt and realigns the input. A
// header failure leaves the reader inside the frame body.
func (s *source) skipFrame(cause error) error {
	if s.resync != nil {
		s.recovering = true
		if err := s.resync(); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("resyncing flac stream: %w", err)
		}
	}

	return fmt.Errorf("%w: %w", audio.ErrCorruptPacket, cause)
}

// syncFrame discards input up to the next frame sync code (0xFFF8 or
// 0xFFF9). At the end of input everything left is discarded and io.EOF is
// returned, so the following parse ends the stream.
func syncFrame(r *bufio.Reader) error {
	for {
		b, err := r.Peek(2)
		if err != nil {
			_, _ = r.Discard(r.Buffered())
			return err
		}
		if b[0] == 0xFF && b[1]&0xFE == 0xF8 {
			return nil
		}
		if _, err := r.Discard(1); err != nil {
			return err
		}
	}
}

// mewkiz/flac reports CRC-8 and CRC-16 failures only as formatted errors.
func isChecksumError(err error) bool {
	return strings.Contains(err.Error(), "checksum mismatch")
}

// Decoder reads native FLAC streams of 4 to 32 bits per sample.
type Decoder struct{}

func (Decoder) Sniff(header []byte) bool {
	return len(header) >= 4 && bytes.Equal(header[:4], []byte("fLaC"))
}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	// flac.New reuses a *bufio.Reader of the default size instead of
	// wrapping it, so br is the reader frames are parsed from.
	br := bufio.NewReader(r)
	stream, err := flac.New(br)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFlacFile, err)
	}

	info := stream.Info
	if info == nil || info.SampleRate == 0 || info.NChannels == 0 {
		return nil, fmt.Errorf("%w: flac STREAMINFO block", audio.ErrMissingStreamMetadata)
	}
	if info.BitsPerSample < 4 || info.BitsPerSample > 32 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, info.BitsPerSample)
	}

	return &source{
		dec:        stream,
		sampleRate: int(info.SampleRate),
		channels:   int(info.NChannels),
		scale:      float32(int64(1) << (info.BitsPerSample - 1)),
		closer:     stream,
		resync:     func() error { return syncFrame(br) },
	}, nil
}
