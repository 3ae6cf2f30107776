// SPDX-License-Identifier: EPL-2.0

package script

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/template"

	"github.com/ik5/audspec/spectrum"
)

// DefaultOutput is the script name used when none is given.
const DefaultOutput = "spectrum.lua"

var ErrInvalidParams = errors.New("invalid script parameters")

//go:embed storyboard.lua.tmpl
var storyboardTemplate string

var storyboard = template.Must(template.New("storyboard").Funcs(template.FuncMap{
	"num":   formatNumber,
	"bands": formatBands,
}).Parse(storyboardTemplate))

// Params are the defaults baked into the script. The storyboard host can
// still override each of them at run time.
type Params struct {
	BarWidth       float64 `yaml:"bar_width"`
	BarSpacing     float64 `yaml:"bar_spacing"`
	MaxHeight      float64 `yaml:"max_height"`
	MinHeight      float64 `yaml:"min_height"`
	NumBars        int     `yaml:"num_bars"`
	BassMultiplier float64 `yaml:"bass_multiplier"`

	CanvasWidth  int `yaml:"canvas_width"`
	CanvasHeight int `yaml:"canvas_height"`
}

func DefaultParams() Params {
	return Params{
		BarWidth:       80,
		BarSpacing:     40,
		MaxHeight:      150,
		MinHeight:      30,
		NumBars:        16,
		BassMultiplier: 1.8,
		CanvasWidth:    1920,
		CanvasHeight:   1080,
	}
}

func (p Params) Validate() error {
	switch {
	case p.NumBars < 2:
		return fmt.Errorf("%w: num_bars %d must be at least 2", ErrInvalidParams, p.NumBars)
	case p.BarWidth <= 0:
		return fmt.Errorf("%w: bar_width must be positive", ErrInvalidParams)
	case p.BarSpacing < 0:
		return fmt.Errorf("%w: bar_spacing is negative", ErrInvalidParams)
	case p.MinHeight < 0 || p.MaxHeight < p.MinHeight:
		return fmt.Errorf("%w: heights must satisfy 0 <= min_height <= max_height", ErrInvalidParams)
	case p.CanvasWidth <= 0 || p.CanvasHeight <= 0:
		return fmt.Errorf("%w: canvas size must be positive", ErrInvalidParams)
	}
	return nil
}

type templateData struct {
	Frames []spectrum.Frame
	Bands  int
	Params Params
}

// Write renders the storyboard script for frames, each carrying bands
// energies, to w.
func Write(w io.Writer, frames []spectrum.Frame, bands int, p Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if bands < 1 {
		return fmt.Errorf("%w: bands %d", ErrInvalidParams, bands)
	}

	if err := storyboard.Execute(w, templateData{Frames: frames, Bands: bands, Params: p}); err != nil {
		return fmt.Errorf("rendering script: %w", err)
	}
	return nil
}

// WriteFile renders the script to path, replacing any existing file.
func WriteFile(path string, frames []spectrum.Frame, bands int, p Params) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating script: %w", err)
	}

	if err := Write(f, frames, bands, p); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

// OutputPath derives the script name from base and the range start:
// "out.lua" with start 1500 becomes "out@1500.lua". A trailing ".lua" and
// then ".txt" are stripped first.
func OutputPath(base string, startMS int) string {
	base = strings.TrimSuffix(base, ".lua")
	base = strings.TrimSuffix(base, ".txt")
	return base + "@" + strconv.Itoa(startMS) + ".lua"
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatBands(bands []float64) string {
	var sb strings.Builder
	for i, v := range bands {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.FormatFloat(v, 'f', 2, 64))
	}
	return sb.String()
}
