// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/ik5/audspec/internal/audiotest"
)

func TestDecodeSource_StereoDownmix(t *testing.T) {
	t.Parallel()

	src := audiotest.NewMockSource(44100, 2, 10000, func(sample int, channel int) float32 {
		if channel == 0 {
			return float32(audiotest.Sine(sample, 44100, 440))
		}
		return 0.25
	})

	samples, info, err := DecodeSource(src)
	if err != nil {
		t.Fatalf("DecodeSource() error = %v", err)
	}

	if info.SampleRate != 44100 || info.Channels != 2 {
		t.Errorf("info = %+v, want 44100 Hz stereo", info)
	}
	if info.TotalSamples != 10000 || len(samples) != 10000 {
		t.Fatalf("TotalSamples = %d, len = %d, want 10000", info.TotalSamples, len(samples))
	}

	for i, v := range samples {
		want := (audiotest.Sine(i, 44100, 440) + 0.25) / 2
		if math.Abs(float64(v)-want) > 1e-6 {
			t.Fatalf("samples[%d] = %v, want %v", i, v, want)
		}
	}
}

func TestDecodeSource_MonoPassThrough(t *testing.T) {
	t.Parallel()

	samples, info, err := DecodeSource(audiotest.NewConstantSource(8000, 1, 5000, 0.5))
	if err != nil {
		t.Fatalf("DecodeSource() error = %v", err)
	}
	if info.TotalSamples != 5000 {
		t.Errorf("TotalSamples = %d, want 5000", info.TotalSamples)
	}
	for i, v := range samples {
		if v != 0.5 {
			t.Fatalf("samples[%d] = %v, want 0.5", i, v)
		}
	}
}

func corruptSteps(n int) []audiotest.Step {
	steps := make([]audiotest.Step, n)
	for i := range steps {
		steps[i].Err = fmt.Errorf("packet %d: %w", i, ErrCorruptPacket)
	}
	return steps
}

func TestDecodeSource_ErrorHandling(t *testing.T) {
	t.Parallel()

	fatal := errors.New("invalid bitstream")

	tests := []struct {
		name        string
		steps       []audiotest.Step
		wantErr     error
		wantSamples int
		wantSkipped int
	}{
		{
			name: "corrupt packet is skipped",
			steps: []audiotest.Step{
				{Samples: []float32{0.1, 0.1}},
				{Err: fmt.Errorf("frame 2: %w", ErrCorruptPacket)},
				{Samples: []float32{0.2, 0.2, 0.3, 0.3}, Err: io.EOF},
			},
			wantSamples: 3,
			wantSkipped: 1,
		},
		{
			name: "unexpected EOF ends the stream",
			steps: []audiotest.Step{
				{Samples: []float32{0.1, 0.1}},
				{Samples: []float32{0.2, 0.2}, Err: io.ErrUnexpectedEOF},
				{Samples: []float32{0.9, 0.9}},
			},
			wantSamples: 2,
		},
		{
			name: "other errors are fatal",
			steps: []audiotest.Step{
				{Samples: []float32{0.1, 0.1}},
				{Err: fatal},
				{Samples: []float32{0.2, 0.2}},
			},
			wantErr: ErrDecodeFailure,
		},
		{
			name: "samples of a corrupt block are dropped",
			steps: []audiotest.Step{
				{Samples: []float32{0.1, 0.1}, Err: ErrCorruptPacket},
				{Samples: []float32{0.2, 0.2}, Err: io.EOF},
			},
			wantSamples: 1,
			wantSkipped: 1,
		},
		{
			name:        "corrupt run within the limit is skipped",
			steps:       append(corruptSteps(maxEmptyReads), audiotest.Step{Samples: []float32{0.2, 0.2}}),
			wantSamples: 1,
			wantSkipped: maxEmptyReads,
		},
		{
			name:    "stalled source",
			steps:   make([]audiotest.Step, maxEmptyReads+2),
			wantErr: ErrDecodeFailure,
		},
		{
			name:    "endless corrupt packets",
			steps:   corruptSteps(maxEmptyReads + 2),
			wantErr: ErrDecodeFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := &audiotest.ScriptedSource{Rate: 8000, Chans: 2, Steps: tt.steps}
			samples, info, err := DecodeSource(src)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("DecodeSource() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeSource() error = %v", err)
			}
			if len(samples) != tt.wantSamples || info.TotalSamples != tt.wantSamples {
				t.Errorf("samples = %d (info %d), want %d", len(samples), info.TotalSamples, tt.wantSamples)
			}
			if info.SkippedPackets != tt.wantSkipped {
				t.Errorf("SkippedPackets = %d, want %d", info.SkippedPackets, tt.wantSkipped)
			}
		})
	}
}

func TestDecodeSource_FatalErrorKeepsCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("invalid bitstream")
	src := &audiotest.ScriptedSource{Rate: 8000, Chans: 1, Steps: []audiotest.Step{{Err: cause}}}

	_, _, err := DecodeSource(src)
	if !errors.Is(err, cause) {
		t.Errorf("DecodeSource() error = %v, want it to wrap %v", err, cause)
	}
}

func TestDecodeSource_MissingMetadata(t *testing.T) {
	t.Parallel()

	for _, src := range []Source{
		&audiotest.ScriptedSource{Rate: 0, Chans: 2},
		&audiotest.ScriptedSource{Rate: 44100, Chans: 0},
	} {
		_, _, err := DecodeSource(src)
		if !errors.Is(err, ErrMissingStreamMetadata) {
			t.Errorf("DecodeSource(rate=%d, channels=%d) error = %v, want ErrMissingStreamMetadata",
				src.SampleRate(), src.Channels(), err)
		}
	}
}

func TestDecodeSource_BlockSizeIsChannelAligned(t *testing.T) {
	t.Parallel()

	src := &audiotest.ScriptedSource{Rate: 8000, Chans: 3, Buf: 10}
	if _, _, err := DecodeSource(src); err != nil {
		t.Fatalf("DecodeSource() error = %v", err)
	}
	if reads := src.Reads(); len(reads) != 1 || reads[0] != 9 {
		t.Errorf("Reads() = %v, want one read of 9 samples", reads)
	}
}

func TestDecodeSource_StereoReadsWholeSourceBlocks(t *testing.T) {
	t.Parallel()

	src := &audiotest.ScriptedSource{
		Rate:  8000,
		Chans: 2,
		Buf:   10,
		Steps: []audiotest.Step{{Samples: []float32{0.2, 0.4, 0.6, 0.8}}},
	}

	samples, _, err := DecodeSource(src)
	if err != nil {
		t.Fatalf("DecodeSource() error = %v", err)
	}
	if len(samples) != 2 {
		t.Errorf("got %d samples, want 2", len(samples))
	}
	for i, n := range src.Reads() {
		if n != 10 {
			t.Errorf("read %d asked for %d samples, want 10", i, n)
		}
	}
}

// fileDecoder decodes any stream as one second of silence, or fails with err.
type fileDecoder struct {
	err error
	src *audiotest.MockSource
}

func (d *fileDecoder) Decode(r io.Reader) (Source, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.src, nil
}

func (d *fileDecoder) Sniff(header []byte) bool {
	return len(header) >= 4 && string(header[:4]) == "TEST"
}

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestRegistry_DecodeFile(t *testing.T) {
	t.Parallel()

	src := audiotest.NewSilentSource(16000, 1, 16000)
	registry := NewRegistry()
	registry.Register("test", &fileDecoder{src: src}, ".tst")

	path := writeTemp(t, "clip.bin", []byte("TEST payload"))

	samples, info, err := registry.DecodeFile(path)
	if err != nil {
		t.Fatalf("DecodeFile() error = %v", err)
	}
	if len(samples) != 16000 || info.TotalSamples != 16000 {
		t.Errorf("decoded %d samples (info %d), want 16000", len(samples), info.TotalSamples)
	}
	if info.Format != "test" {
		t.Errorf("Format = %q, want %q", info.Format, "test")
	}
	if !src.Closed() {
		t.Error("DecodeFile() did not close the source")
	}
}

func TestRegistry_DecodeFileErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		decoder *fileDecoder
		file    []byte
		missing bool
		wantErr error
	}{
		{
			name:    "missing file",
			decoder: &fileDecoder{},
			missing: true,
			wantErr: ErrUnreadableSource,
		},
		{
			name:    "unrecognised content",
			decoder: &fileDecoder{},
			file:    []byte("nothing we know"),
			wantErr: ErrUnreadableSource,
		},
		{
			name:    "empty file",
			decoder: &fileDecoder{},
			file:    []byte{},
			wantErr: ErrUnreadableSource,
		},
		{
			name:    "decoder rejects stream",
			decoder: &fileDecoder{err: errors.New("bad header")},
			file:    []byte("TEST"),
			wantErr: ErrUnreadableSource,
		},
		{
			name:    "no audio track passes through",
			decoder: &fileDecoder{err: fmt.Errorf("no data chunk: %w", ErrNoAudioTrack)},
			file:    []byte("TEST"),
			wantErr: ErrNoAudioTrack,
		},
		{
			name:    "missing metadata from the stream",
			decoder: &fileDecoder{src: audiotest.NewSilentSource(0, 2, 10)},
			file:    []byte("TEST"),
			wantErr: ErrMissingStreamMetadata,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			registry := NewRegistry()
			registry.Register("test", tt.decoder, ".tst")

			path := filepath.Join(t.TempDir(), "missing.tst")
			if !tt.missing {
				path = writeTemp(t, "input.tst", tt.file)
			}

			_, _, err := registry.DecodeFile(path)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("DecodeFile() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
