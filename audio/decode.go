// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// probeSize is how many leading bytes DecodeFile hands to the sniffers.
const probeSize = 64

// maxEmptyReads bounds consecutive reads that deliver no audio, either
// (0, nil) or a corrupt packet, before a source is considered stalled.
const maxEmptyReads = 64

// DecodeFile opens path, detects its format and decodes the whole stream
// into a single-channel sample buffer.
func (r *Registry) DecodeFile(path string) ([]float32, StreamInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, StreamInfo{}, fmt.Errorf("%w: %w", ErrUnreadableSource, err)
	}
	defer f.Close()

	header := make([]byte, probeSize)
	n, err := io.ReadFull(f, header)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, StreamInfo{}, fmt.Errorf("%w: %s: %w", ErrUnreadableSource, path, err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, StreamInfo{}, fmt.Errorf("%w: %s: %w", ErrUnreadableSource, path, err)
	}

	format, dec, ok := r.Detect(filepath.Ext(path), header[:n])
	if !ok {
		return nil, StreamInfo{}, fmt.Errorf("%w: %s: no supported format recognised", ErrUnreadableSource, path)
	}

	src, err := dec.Decode(f)
	if err != nil {
		if errors.Is(err, ErrNoAudioTrack) || errors.Is(err, ErrMissingStreamMetadata) {
			return nil, StreamInfo{Format: format}, fmt.Errorf("%s: %w", path, err)
		}
		return nil, StreamInfo{Format: format}, fmt.Errorf("%w: %s (%s): %w", ErrUnreadableSource, path, format, err)
	}
	defer src.Close()

	samples, info, err := DecodeSource(src)
	info.Format = format
	if err != nil {
		return nil, info, fmt.Errorf("%s: %w", path, err)
	}

	return samples, info, nil
}

// DecodeSource drains src through a MonoMixer in delivery order.
//
// End of stream (io.EOF or io.ErrUnexpectedEOF) stops the loop normally. A
// block reported as ErrCorruptPacket is dropped and counted; any other error
// is returned wrapped in ErrDecodeFailure. More than maxEmptyReads reads in a
// row without audio also fail with ErrDecodeFailure.
func DecodeSource(src Source) ([]float32, StreamInfo, error) {
	info := StreamInfo{
		SampleRate: src.SampleRate(),
		Channels:   src.Channels(),
	}
	if info.SampleRate <= 0 || info.Channels <= 0 {
		return nil, info, fmt.Errorf("%w: sample rate %d, channels %d",
			ErrMissingStreamMetadata, info.SampleRate, info.Channels)
	}

	mono := NewMonoMixer(src)
	width := mono.Channels()

	size := max(mono.BufSize(), width)
	size -= size % width
	buf := make([]float32, size)

	var samples []float32
	empty := 0

	for {
		n, err := mono.ReadSamples(buf)

		switch {
		case errors.Is(err, ErrCorruptPacket):
			info.SkippedPackets++
			n = 0
		case n > 0:
			samples = append(samples, buf[:n]...)
		}

		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			break
		}
		if err != nil && !errors.Is(err, ErrCorruptPacket) {
			return nil, info, fmt.Errorf("%w: %w", ErrDecodeFailure, err)
		}

		if n > 0 {
			empty = 0
			continue
		}
		empty++
		if empty > maxEmptyReads {
			return nil, info, fmt.Errorf("%w: no audio in %d reads after %d samples (%d corrupt packets)",
				ErrDecodeFailure, empty, len(samples), info.SkippedPackets)
		}
	}

	info.TotalSamples = len(samples)

	return samples, info, nil
}
