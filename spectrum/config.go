// SPDX-License-Identifier: EPL-2.0

package spectrum

import (
	"errors"
	"fmt"
)

const (
	DefaultBands     = 32
	DefaultFrameSize = 2048
)

var ErrInvalidConfig = errors.New("invalid analysis config")

// Config selects the analysed window and the shape of every Frame.
type Config struct {
	// StartMS and EndMS bound the analysed range; StartMS is also the time
	// of the first frame.
	StartMS int
	EndMS   int

	Bands     int
	FrameSize int

	// Workers above 1 analyses frames concurrently.
	Workers int
}

// DefaultConfig returns a Config for [startMS, endMS) with the default band
// count and frame size.
func DefaultConfig(startMS, endMS int) Config {
	return Config{
		StartMS:   startMS,
		EndMS:     endMS,
		Bands:     DefaultBands,
		FrameSize: DefaultFrameSize,
	}
}

// WithDefaults fills zero Bands and FrameSize with the package defaults.
func (c Config) WithDefaults() Config {
	if c.Bands == 0 {
		c.Bands = DefaultBands
	}
	if c.FrameSize == 0 {
		c.FrameSize = DefaultFrameSize
	}
	return c
}

func (c Config) Validate() error {
	switch {
	case c.StartMS < 0:
		return fmt.Errorf("%w: start_ms %d is negative", ErrInvalidConfig, c.StartMS)
	case c.StartMS >= c.EndMS:
		return fmt.Errorf("%w: start_ms %d must be less than end_ms %d", ErrInvalidConfig, c.StartMS, c.EndMS)
	case c.FrameSize < 2 || c.FrameSize%2 != 0:
		return fmt.Errorf("%w: frame_size %d must be an even number >= 2", ErrInvalidConfig, c.FrameSize)
	case c.Bands < 1 || c.Bands > c.FrameSize/2:
		return fmt.Errorf("%w: bands %d must be between 1 and %d", ErrInvalidConfig, c.Bands, c.FrameSize/2)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers %d is negative", ErrInvalidConfig, c.Workers)
	}
	return nil
}

// Hop is the distance between two consecutive frames.
func (c Config) Hop() int { return c.FrameSize / 2 }

// FrameCount is how many frames n samples produce. Frames that would run
// past the end are not counted.
func (c Config) FrameCount(n int) int {
	if n < c.FrameSize {
		return 0
	}
	return (n - c.FrameSize) / c.Hop()
}
