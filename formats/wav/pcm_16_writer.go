// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ik5/audspec/utils"
)

// header is the canonical 44 byte PCM WAV header.
type header struct {
	RIFF          [4]byte
	RIFFSize      uint32
	WAVE          [4]byte
	Fmt           [4]byte
	FmtSize       uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	Data          [4]byte
	DataSize      uint32
}

const writeChunk = 8192 // samples per Write call

// WriteWAV16 writes interleaved 16-bit PCM samples with the given channel
// count as a WAV stream.
func WriteWAV16(w io.Writer, sampleRate, channels int, samples []int16) error {
	if channels < 1 {
		return fmt.Errorf("%w: channels %d", ErrInvalidChannels, channels)
	}

	dataSize := uint32(len(samples) * 2)
	h := header{
		RIFF:          [4]byte{'R', 'I', 'F', 'F'},
		RIFFSize:      36 + dataSize,
		WAVE:          [4]byte{'W', 'A', 'V', 'E'},
		Fmt:           [4]byte{'f', 'm', 't', ' '},
		FmtSize:       16,
		AudioFormat:   formatPCM,
		NumChannels:   uint16(channels),
		SampleRate:    uint32(sampleRate),
		ByteRate:      uint32(sampleRate * channels * 2),
		BlockAlign:    uint16(channels * 2),
		BitsPerSample: 16,
		Data:          [4]byte{'d', 'a', 't', 'a'},
		DataSize:      dataSize,
	}

	if err := binary.Write(w, binary.LittleEndian, &h); err != nil {
		return fmt.Errorf("%w", err)
	}

	buf := make([]byte, 2*min(len(samples), writeChunk))
	for start := 0; start < len(samples); start += writeChunk {
		chunk := samples[start:min(start+writeChunk, len(samples))]
		out := buf[:2*len(chunk)]
		for i, s := range chunk {
			binary.LittleEndian.PutUint16(out[2*i:], uint16(s))
		}
		if _, err := w.Write(out); err != nil {
			return fmt.Errorf("%w", err)
		}
	}

	return nil
}

// WriteMono writes normalized mono samples as a 16-bit PCM WAV stream.
func WriteMono(w io.Writer, sampleRate int, samples []float32) error {
	return WriteWAV16(w, sampleRate, 1, utils.Float32sToInt16s(nil, samples))
}
