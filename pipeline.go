// SPDX-License-Identifier: EPL-2.0

package audspec

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ik5/audspec/audio"
	"github.com/ik5/audspec/spectrum"
)

// Timings records how long each stage of a run took.
type Timings struct {
	Decode  time.Duration
	Extract time.Duration
	Analyze time.Duration
}

// Result is everything a Pipeline run produced.
type Result struct {
	Info audio.StreamInfo
	// Range is the extracted slice of the decoded samples.
	Range   []float32
	Frames  []spectrum.Frame
	Config  spectrum.Config
	Timings Timings
}

// Pipeline runs decode, range extraction and analysis in order, logging
// each stage. The zero value uses DefaultRegistry and slog.Default().
type Pipeline struct {
	Registry *audio.Registry
	Logger   *slog.Logger
	Observer spectrum.Observer
}

func (p *Pipeline) registry() *audio.Registry {
	if p.Registry != nil {
		return p.Registry
	}
	return DefaultRegistry
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

// Run processes the file at path. cfg is validated before anything is
// decoded; zero Bands and FrameSize take the defaults.
func (p *Pipeline) Run(ctx context.Context, path string, cfg spectrum.Config) (*Result, error) {
	log := p.logger().With("input", path)

	var opts []spectrum.Option
	if p.Observer != nil {
		opts = append(opts, spectrum.WithObserver(p.Observer))
	}
	analyzer, err := spectrum.NewAnalyzer(cfg, opts...)
	if err != nil {
		return nil, err
	}

	res := &Result{Config: analyzer.Config()}
	cfg = res.Config

	var samples []float32
	res.Timings.Decode, err = timed(func() (err error) {
		samples, res.Info, err = p.registry().DecodeFile(path)
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Info("decoded audio",
		"format", res.Info.Format,
		"sample_rate", res.Info.SampleRate,
		"channels", res.Info.Channels,
		"samples", res.Info.TotalSamples,
		"duration", res.Info.Duration(),
		"took", res.Timings.Decode,
	)
	if res.Info.SkippedPackets > 0 {
		log.Warn("skipped corrupt packets", "count", res.Info.SkippedPackets)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res.Timings.Extract, err = timed(func() (err error) {
		res.Range, err = audio.ExtractRange(samples, cfg.StartMS, cfg.EndMS, res.Info.SampleRate)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Info("extracted time range",
		"start_ms", cfg.StartMS,
		"end_ms", cfg.EndMS,
		"samples", len(res.Range),
		"took", res.Timings.Extract,
	)

	log.Debug("analyzing spectrum",
		"frames", cfg.FrameCount(len(res.Range)),
		"bands", cfg.Bands,
		"frame_size", cfg.FrameSize,
		"workers", cfg.Workers,
	)
	res.Timings.Analyze, err = timed(func() (err error) {
		res.Frames, err = analyzer.AnalyzeContext(ctx, res.Range, res.Info.SampleRate)
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Info("analyzed spectrum", "frames", len(res.Frames), "took", res.Timings.Analyze)

	return res, nil
}

func timed(f func() error) (time.Duration, error) {
	start := time.Now()
	err := f()
	return time.Since(start), err
}
