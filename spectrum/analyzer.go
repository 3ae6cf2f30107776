// SPDX-License-Identifier: EPL-2.0

package spectrum

import (
	"context"
	"fmt"
	"math"
	"math/cmplx"
	"sync"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
	"golang.org/x/sync/errgroup"
)

// noiseFloor keeps silent bins finite: 20*log10(1e-10) = -200 dB.
const noiseFloor = 1e-10

// Frame is the band energies, in dB, of one analysis window.
type Frame struct {
	// TimeMS is the absolute position of the window start in the source.
	TimeMS float64
	Bands  []float64
}

// Observer is told how many of total frames are done. Calls never overlap
// and done only grows.
type Observer func(done, total int)

type Option func(*Analyzer)

func WithObserver(o Observer) Option {
	return func(a *Analyzer) { a.observer = o }
}

// WithWorkers overrides Config.Workers.
func WithWorkers(n int) Option {
	return func(a *Analyzer) { a.cfg.Workers = n }
}

// Analyzer turns a mono sample buffer into Frames. The Hann window is built
// once and shared, so an Analyzer is safe for concurrent use.
type Analyzer struct {
	cfg      Config
	window   []float64
	observer Observer
}

// NewAnalyzer validates cfg, with zero Bands and FrameSize taking the
// defaults.
func NewAnalyzer(cfg Config, opts ...Option) (*Analyzer, error) {
	a := &Analyzer{cfg: cfg.WithDefaults()}
	for _, opt := range opts {
		opt(a)
	}

	if err := a.cfg.Validate(); err != nil {
		return nil, err
	}

	a.window = window.Hann(a.cfg.FrameSize)

	return a, nil
}

func (a *Analyzer) Config() Config { return a.cfg }

func (a *Analyzer) Analyze(samples []float32, sampleRate int) ([]Frame, error) {
	return a.AnalyzeContext(context.Background(), samples, sampleRate)
}

// AnalyzeContext frames samples with a 50% overlap and returns one Frame
// per window in time order. Input shorter than one frame yields no frames
// and no error. ctx is checked between frames.
func (a *Analyzer) AnalyzeContext(ctx context.Context, samples []float32, sampleRate int) ([]Frame, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %d", ErrInvalidConfig, sampleRate)
	}

	total := a.cfg.FrameCount(len(samples))
	frames := make([]Frame, total)

	if a.cfg.Workers > 1 && total > 1 {
		if err := a.analyzeParallel(ctx, samples, sampleRate, frames); err != nil {
			return nil, err
		}
		return frames, nil
	}

	for i := range total {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		frames[i] = a.frame(samples, i, sampleRate)
		if a.observer != nil {
			a.observer(i+1, total)
		}
	}

	return frames, nil
}

// analyzeParallel fills frames by index, so no reordering is needed.
func (a *Analyzer) analyzeParallel(ctx context.Context, samples []float32, sampleRate int, frames []Frame) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Workers)

	var (
		mu   sync.Mutex
		done int
	)

	for i := range frames {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			frames[i] = a.frame(samples, i, sampleRate)

			if a.observer != nil {
				mu.Lock()
				done++
				a.observer(done, len(frames))
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	return ctx.Err()
}

// frame analyses window idx.
func (a *Analyzer) frame(samples []float32, idx, sampleRate int) Frame {
	start := idx * a.cfg.Hop()

	buf := make([]float64, a.cfg.FrameSize)
	for i, w := range a.window {
		buf[i] = float64(samples[start+i]) * w
	}

	coeffs := fft.FFTReal(buf)

	return Frame{
		TimeMS: float64(a.cfg.StartMS) + float64(start)/float64(sampleRate)*1000,
		Bands:  bandEnergies(coeffs[:a.cfg.FrameSize/2], a.cfg.Bands),
	}
}

// bandEnergies splits bins into bands equal groups, the last one taking
// the division remainder, and averages the dB energy of each group.
func bandEnergies(bins []complex128, bands int) []float64 {
	width := len(bins) / bands
	out := make([]float64, bands)

	for b := range bands {
		lo := b * width
		hi := lo + width
		if b == bands-1 {
			hi = len(bins)
		}

		var sum float64
		for _, c := range bins[lo:hi] {
			sum += 20 * math.Log10(max(cmplx.Abs(c), noiseFloor))
		}
		out[b] = sum / float64(hi-lo)
	}

	return out
}

// Analyze runs a one-off Analyzer over samples.
func Analyze(samples []float32, sampleRate int, cfg Config) ([]Frame, error) {
	a, err := NewAnalyzer(cfg)
	if err != nil {
		return nil, err
	}
	return a.Analyze(samples, sampleRate)
}
