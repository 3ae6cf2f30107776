// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// MSToIndex converts a millisecond offset to a sample index, truncating.
func MSToIndex(ms, sampleRate int) int {
	return int(float64(ms) / 1000 * float64(sampleRate))
}

// ExtractRange returns the samples covering [startMS, endMS).
//
// A start at or past the end of samples fails with ErrRangeBeyondAudio; an
// end past the audio is clamped. The result shares memory with samples but
// has its capacity capped, so appending to it never overwrites the rest of
// the buffer.
func ExtractRange(samples []float32, startMS, endMS, sampleRate int) ([]float32, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %d", ErrInvalidRange, sampleRate)
	}
	if startMS < 0 || endMS < 0 {
		return nil, fmt.Errorf("%w: %dms to %dms", ErrInvalidRange, startMS, endMS)
	}

	start := MSToIndex(startMS, sampleRate)
	end := MSToIndex(endMS, sampleRate)

	if start >= len(samples) {
		return nil, fmt.Errorf("%w: start %dms, audio is %dms long",
			ErrRangeBeyondAudio, startMS, len(samples)*1000/sampleRate)
	}

	end = min(end, len(samples))
	if end < start {
		end = start
	}

	return samples[start:end:end], nil
}
