// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/ik5/audspec"
	"github.com/ik5/audspec/formats/wav"
	"github.com/ik5/audspec/internal/config"
	"github.com/ik5/audspec/script"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

const progressEvery = 100

var errUsage = errors.New("invalid arguments")

type options struct {
	configPath string
	logLevel   string
	dumpWAV    string
	workers    int
	progress   bool

	input     string
	startMS   int
	endMS     int
	bands     int
	frameSize int
	output    string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(stderr, "audspec: %v\n", err)
		return exitUsage
	}

	cfg := config.Default()
	if opts.configPath != "" {
		if cfg, err = config.Load(opts.configPath); err != nil {
			fmt.Fprintf(stderr, "audspec: %v\n", err)
			return exitError
		}
	}
	opts.apply(cfg)
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(stderr, "audspec: %v\n", err)
		return exitUsage
	}

	logger := newLogger(cfg.LogLevel, stderr)
	slog.SetDefault(logger)

	p := audspec.Pipeline{Logger: logger}
	if opts.progress {
		p.Observer = progressLogger(logger)
	}

	res, err := p.Run(ctx, opts.input, cfg.Spectrum(opts.startMS, opts.endMS))
	if err != nil {
		logger.Error("analysis failed", "err", err)
		return exitError
	}

	if opts.dumpWAV != "" {
		if err := dumpRange(opts.dumpWAV, res.Info.SampleRate, res.Range); err != nil {
			logger.Error("failed to write range dump", "path", opts.dumpWAV, "err", err)
			return exitError
		}
		logger.Info("range written", "path", opts.dumpWAV)
	}

	out := script.OutputPath(cfg.Output, opts.startMS)
	start := time.Now()
	if err := script.WriteFile(out, res.Frames, res.Config.Bands, cfg.Script); err != nil {
		logger.Error("failed to write script", "path", out, "err", err)
		return exitError
	}
	logger.Info("script saved", "path", out, "frames", len(res.Frames), "took", time.Since(start))

	return exitOK
}

func parseArgs(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}

	fs := flag.NewFlagSet("audspec", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "path to a YAML configuration file")
	fs.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	fs.StringVar(&opts.dumpWAV, "dump-wav", "", "write the extracted range to this WAV file")
	fs.IntVar(&opts.workers, "workers", -1, "number of goroutines analysing frames")
	fs.BoolVar(&opts.progress, "progress", false, "log analysis progress")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: audspec [flags] <input> <start_ms> <end_ms> [bands] [frame_size] [output.lua]")
		fmt.Fprintln(stderr, "Example: audspec song.mp3 1000 5000 64 4096 output.lua")
		fmt.Fprintln(stderr)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	pos := fs.Args()
	if len(pos) < 3 || len(pos) > 6 {
		fs.Usage()
		return nil, fmt.Errorf("%w: expected 3 to 6 arguments, got %d", errUsage, len(pos))
	}

	opts.input = pos[0]

	var err error
	if opts.startMS, err = parseNonNegative("start_ms", pos[1]); err != nil {
		return nil, err
	}
	if opts.endMS, err = parseNonNegative("end_ms", pos[2]); err != nil {
		return nil, err
	}
	if opts.startMS >= opts.endMS {
		return nil, fmt.Errorf("%w: start_ms must be less than end_ms", errUsage)
	}

	if len(pos) > 3 {
		if opts.bands, err = parsePositive("bands", pos[3]); err != nil {
			return nil, err
		}
	}
	if len(pos) > 4 {
		if opts.frameSize, err = parsePositive("frame_size", pos[4]); err != nil {
			return nil, err
		}
	}
	if len(pos) > 5 {
		opts.output = pos[5]
	}

	return opts, nil
}

func parseNonNegative(name, s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: %s %q is not a non-negative integer", errUsage, name, s)
	}
	return v, nil
}

func parsePositive(name, s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%w: %s %q is not a positive integer", errUsage, name, s)
	}
	return v, nil
}

// apply lets command line values win over the configuration file.
func (o *options) apply(cfg *config.Config) {
	if o.logLevel != "" {
		cfg.LogLevel = config.LogLevel(o.logLevel)
	}
	if o.workers >= 0 {
		cfg.Analysis.Workers = o.workers
	}
	if o.bands > 0 {
		cfg.Analysis.Bands = o.bands
	}
	if o.frameSize > 0 {
		cfg.Analysis.FrameSize = o.frameSize
	}
	if o.output != "" {
		cfg.Output = o.output
	}
}

func newLogger(level config.LogLevel, w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level.Slog()}))
}

func progressLogger(logger *slog.Logger) func(done, total int) {
	return func(done, total int) {
		if done%progressEvery != 0 && done != total {
			return
		}
		logger.Info("progress",
			"frames", done,
			"total", total,
			"percent", fmt.Sprintf("%.1f", float64(done)/float64(total)*100),
		)
	}
}

func dumpRange(path string, sampleRate int, samples []float32) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := wav.WriteMono(f, sampleRate, samples); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
