// SPDX-License-Identifier: EPL-2.0

// Package utils holds small sample-format helpers shared by the format
// packages and the command line tool.
package utils

// Float32ToInt16 converts a normalized sample to 16-bit PCM.
// Values outside [-1, 1] are clamped; the scale is symmetric (±32767).
func Float32ToInt16(x float32) int16 {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	return int16(x * 32767.0)
}

// Float32sToInt16s converts src into dst and returns dst[:len(src)].
// dst is grown when its capacity is too small.
func Float32sToInt16s(dst []int16, src []float32) []int16 {
	if cap(dst) < len(src) {
		dst = make([]int16, len(src))
	}
	dst = dst[:len(src)]

	for i, x := range src {
		dst[i] = Float32ToInt16(x)
	}

	return dst
}
