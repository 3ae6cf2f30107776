// SPDX-License-Identifier: EPL-2.0

package audspec

import (
	"github.com/ik5/audspec/audio"
	"github.com/ik5/audspec/formats/aiff"
	"github.com/ik5/audspec/formats/flac"
	"github.com/ik5/audspec/formats/mp3"
	"github.com/ik5/audspec/formats/vorbis"
	"github.com/ik5/audspec/formats/wav"
	"github.com/ik5/audspec/spectrum"
)

// Registered format names.
const (
	FormatWAV    = "wav"
	FormatAIFF   = "aiff"
	FormatFLAC   = "flac"
	FormatVorbis = "ogg vorbis"
	FormatMP3    = "mp3"
)

// DefaultRegistry knows every format shipped with this module.
var DefaultRegistry = NewRegistry()

// NewRegistry returns a registry with all bundled decoders. MP3 is probed
// last since a bare frame sync is the weakest signature.
func NewRegistry() *audio.Registry {
	r := audio.NewRegistry()
	r.Register(FormatWAV, wav.Decoder{}, "wav", "wave")
	r.Register(FormatAIFF, aiff.Decoder{}, "aiff", "aif", "aifc")
	r.Register(FormatFLAC, flac.Decoder{}, "flac")
	r.Register(FormatVorbis, vorbis.Decoder{}, "ogg", "oga")
	r.Register(FormatMP3, mp3.Decoder{}, "mp3")
	return r
}

// Decode reads the whole file at path into one channel of samples.
func Decode(path string) ([]float32, audio.StreamInfo, error) {
	return DefaultRegistry.DecodeFile(path)
}

// ExtractRange returns the samples of [startMS, endMS).
func ExtractRange(samples []float32, startMS, endMS, sampleRate int) ([]float32, error) {
	return audio.ExtractRange(samples, startMS, endMS, sampleRate)
}

// Analyze computes the spectral frames of samples.
func Analyze(samples []float32, sampleRate int, cfg spectrum.Config) ([]spectrum.Frame, error) {
	return spectrum.Analyze(samples, sampleRate, cfg)
}
