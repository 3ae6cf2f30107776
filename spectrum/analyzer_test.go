// SPDX-License-Identifier: EPL-2.0

package spectrum

import (
	"context"
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/ik5/audspec/internal/audiotest"
)

// floorDB is the energy of a silent bin.
var floorDB = 20 * math.Log10(noiseFloor)

func approx(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func TestAnalyze_SilenceIsNoiseFloor(t *testing.T) {
	t.Parallel()

	// Two seconds of 44.1 kHz silence, first second analysed.
	samples := make([]float32, 44100)
	cfg := Config{StartMS: 0, EndMS: 1000, Bands: 4, FrameSize: 1024}

	frames, err := Analyze(samples, 44100, cfg)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if want := (44100 - 1024) / 512; len(frames) != want {
		t.Fatalf("got %d frames, want %d", len(frames), want)
	}

	for i, f := range frames {
		if len(f.Bands) != 4 {
			t.Fatalf("frame %d has %d bands, want 4", i, len(f.Bands))
		}
		for b, v := range f.Bands {
			if math.IsNaN(v) || math.IsInf(v, 0) || !approx(v, -200, 1e-9) {
				t.Fatalf("frame %d band %d = %v, want %v", i, b, v, floorDB)
			}
		}
	}
}

func TestAnalyze_SinePeaksInItsBand(t *testing.T) {
	t.Parallel()

	const (
		rate      = 8000
		frameSize = 1024
		bands     = 8
		freq      = 1250.0 // bin 160, band 2 (500 Hz per band)
	)

	samples := audiotest.SineSamples(rate, rate, freq)
	frames, err := Analyze(samples, rate, Config{EndMS: 1000, Bands: bands, FrameSize: frameSize})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if len(frames) == 0 {
		t.Fatal("Analyze() returned no frames")
	}

	for i, f := range frames {
		peak := 0
		for b := range f.Bands {
			if f.Bands[b] > f.Bands[peak] {
				peak = b
			}
		}
		if peak != 2 {
			t.Fatalf("frame %d peaks in band %d (%v), want band 2", i, peak, f.Bands)
		}
		if f.Bands[2]-f.Bands[7] < 20 {
			t.Fatalf("frame %d: band 2 = %.1f dB, band 7 = %.1f dB, want at least 20 dB apart",
				i, f.Bands[2], f.Bands[7])
		}
	}
}

func TestAnalyze_Timestamps(t *testing.T) {
	t.Parallel()

	cfg := Config{StartMS: 250, EndMS: 2000, Bands: 4, FrameSize: 1024}
	frames, err := Analyze(make([]float32, 8000), 8000, cfg)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	// hop 512 at 8 kHz is 64 ms
	for i, f := range frames {
		if want := 250 + float64(i)*64; f.TimeMS != want {
			t.Errorf("frame %d TimeMS = %v, want %v", i, f.TimeMS, want)
		}
		if i > 0 && f.TimeMS <= frames[i-1].TimeMS {
			t.Errorf("frame %d TimeMS %v not after %v", i, f.TimeMS, frames[i-1].TimeMS)
		}
	}
}

func TestAnalyze_ShortInputYieldsNoFrames(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, 1, 1023, 1024} {
		frames, err := Analyze(make([]float32, n), 44100, Config{EndMS: 10, Bands: 4, FrameSize: 1024})
		if err != nil {
			t.Errorf("Analyze(%d samples) error = %v", n, err)
		}
		if len(frames) != 0 {
			t.Errorf("Analyze(%d samples) = %d frames, want 0", n, len(frames))
		}
	}
}

func TestAnalyze_InvalidInput(t *testing.T) {
	t.Parallel()

	if _, err := Analyze(make([]float32, 4096), 0, DefaultConfig(0, 10)); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Analyze() with zero rate error = %v, want ErrInvalidConfig", err)
	}
	if _, err := Analyze(make([]float32, 4096), 8000, Config{StartMS: 10, EndMS: 5}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Analyze() with reversed range error = %v, want ErrInvalidConfig", err)
	}
}

func TestBandEnergies_RemainderGoesToLastBand(t *testing.T) {
	t.Parallel()

	// 8 bins into 3 bands: [0,2) [2,4) [4,8)
	bins := []complex128{1, 1, 10, 10, 100, 100, 1000, 1000}

	got := bandEnergies(bins, 3)
	want := []float64{0, 20, 50}

	for i := range want {
		if !approx(got[i], want[i], 1e-9) {
			t.Errorf("band %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestBandEnergies_UsesMagnitude(t *testing.T) {
	t.Parallel()

	bins := []complex128{complex(3, 4), complex(0, -5)}
	got := bandEnergies(bins, 1)

	if want := 20 * math.Log10(cmplx.Abs(complex(3, 4))); !approx(got[0], want, 1e-12) {
		t.Errorf("band 0 = %v, want %v", got[0], want)
	}
}

func TestAnalyzer_ParallelMatchesSequential(t *testing.T) {
	t.Parallel()

	samples := audiotest.SineSamples(16000, 16000, 440)
	for i := range samples {
		samples[i] += float32(audiotest.Sine(i, 16000, 3100)) * 0.3
	}
	cfg := Config{StartMS: 100, EndMS: 1100, Bands: 16, FrameSize: 512}

	seq, err := NewAnalyzer(cfg)
	if err != nil {
		t.Fatalf("NewAnalyzer() error = %v", err)
	}
	par, err := NewAnalyzer(cfg, WithWorkers(4))
	if err != nil {
		t.Fatalf("NewAnalyzer() error = %v", err)
	}

	want, err := seq.Analyze(samples, 16000)
	if err != nil {
		t.Fatalf("sequential Analyze() error = %v", err)
	}
	got, err := par.Analyze(samples, 16000)
	if err != nil {
		t.Fatalf("parallel Analyze() error = %v", err)
	}

	if len(got) != len(want) {
		t.Fatalf("parallel produced %d frames, sequential %d", len(got), len(want))
	}
	for i := range want {
		if got[i].TimeMS != want[i].TimeMS {
			t.Fatalf("frame %d TimeMS = %v, want %v", i, got[i].TimeMS, want[i].TimeMS)
		}
		for b := range want[i].Bands {
			if got[i].Bands[b] != want[i].Bands[b] {
				t.Fatalf("frame %d band %d = %v, want %v", i, b, got[i].Bands[b], want[i].Bands[b])
			}
		}
	}
}

func TestAnalyzer_Observer(t *testing.T) {
	t.Parallel()

	for _, workers := range []int{1, 3} {
		var calls, last, total int
		monotonic := true

		a, err := NewAnalyzer(Config{EndMS: 10, Bands: 2, FrameSize: 64},
			WithWorkers(workers),
			WithObserver(func(done, n int) {
				calls++
				if done != last+1 {
					monotonic = false
				}
				last, total = done, n
			}),
		)
		if err != nil {
			t.Fatalf("NewAnalyzer() error = %v", err)
		}

		frames, err := a.Analyze(make([]float32, 64*20), 8000)
		if err != nil {
			t.Fatalf("Analyze() error = %v", err)
		}

		if calls != len(frames) || last != len(frames) || total != len(frames) {
			t.Errorf("workers %d: %d calls, last done %d of %d, want %d", workers, calls, last, total, len(frames))
		}
		if !monotonic {
			t.Errorf("workers %d: done did not grow by one per call", workers)
		}
	}
}

func TestAnalyzer_Cancellation(t *testing.T) {
	t.Parallel()

	samples := make([]float32, 64*100)

	for _, workers := range []int{0, 4} {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		a, err := NewAnalyzer(Config{EndMS: 10, Bands: 2, FrameSize: 64, Workers: workers})
		if err != nil {
			t.Fatalf("NewAnalyzer() error = %v", err)
		}

		if _, err := a.AnalyzeContext(ctx, samples, 8000); !errors.Is(err, context.Canceled) {
			t.Errorf("workers %d: AnalyzeContext() error = %v, want context.Canceled", workers, err)
		}
	}
}

func TestAnalyzer_CancelBetweenFrames(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	seen := 0
	a, err := NewAnalyzer(Config{EndMS: 10, Bands: 2, FrameSize: 64},
		WithObserver(func(done, _ int) {
			seen = done
			if done == 3 {
				cancel()
			}
		}),
	)
	if err != nil {
		t.Fatalf("NewAnalyzer() error = %v", err)
	}

	if _, err := a.AnalyzeContext(ctx, make([]float32, 64*100), 8000); !errors.Is(err, context.Canceled) {
		t.Fatalf("AnalyzeContext() error = %v, want context.Canceled", err)
	}
	if seen != 3 {
		t.Errorf("analysed %d frames after cancel, want 3", seen)
	}
}

func BenchmarkAnalyzer_Analyze(b *testing.B) {
	samples := audiotest.SineSamples(44100, 44100, 440)
	a, err := NewAnalyzer(DefaultConfig(0, 1000))
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()

	for b.Loop() {
		_, _ = a.Analyze(samples, 44100)
	}
}
