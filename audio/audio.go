// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
	"slices"
	"strings"
	"sync"
	"time"
)

type Source interface {
	// SampleRate of the PCM stream in Hz.
	SampleRate() int
	// Channels count (e.g., 1=mono, 2=stereo).
	Channels() int
	// ReadSamples fills dst with interleaved float32 samples in [-1,1].
	// Returns number of float32 values written (not frames). When n == 0 with err == io.EOF, the stream is finished.
	// A damaged block is reported as (0, err) with err wrapping ErrCorruptPacket.
	ReadSamples(dst []float32) (n int, err error)

	BufSize() int

	// Close releases any resources.
	Close() error
}

// Decoder constructs a Source from an input reader.
type Decoder interface {
	Decode(r io.Reader) (Source, error)
}

// Sniffer is implemented by decoders that can recognise their format from
// the first bytes of a stream.
type Sniffer interface {
	Sniff(header []byte) bool
}

// StreamInfo describes a whole decoded stream.
type StreamInfo struct {
	SampleRate int
	// Channels is the channel count of the source, before downmixing.
	Channels int
	// TotalSamples is the number of samples after downmixing.
	TotalSamples int

	// Format is the registry name the stream was decoded with, if known.
	Format string
	// SkippedPackets counts blocks dropped because they were corrupt.
	SkippedPackets int
}

// Duration of the decoded (downmixed) audio.
func (i StreamInfo) Duration() time.Duration {
	if i.SampleRate <= 0 {
		return 0
	}

	return time.Duration(float64(i.TotalSamples) / float64(i.SampleRate) * float64(time.Second))
}

// Registry for decoders by format key (e.g., "wav", "mp3", "ogg vorbis").
// Formats are probed in registration order.
type Registry struct {
	codecs map[string]Decoder
	exts   map[string]string
	order  []string

	mtx *sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]Decoder),
		exts:   make(map[string]string),
		mtx:    &sync.RWMutex{},
	}
}

// Register adds or replaces the decoder for format. extensions are file
// name extensions (with or without the leading dot) used as a detection hint.
func (r *Registry) Register(format string, d Decoder, extensions ...string) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if _, ok := r.codecs[format]; !ok {
		r.order = append(r.order, format)
	}
	r.codecs[format] = d

	for _, ext := range extensions {
		r.exts[normalizeExt(ext)] = format
	}
}

func (r *Registry) Get(format string) (Decoder, bool) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	d, ok := r.codecs[format]
	return d, ok
}

// Formats returns the registered format names in probing order.
func (r *Registry) Formats() []string {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	return slices.Clone(r.order)
}

// Detect picks a decoder for a stream with the given file extension and
// leading bytes. The extension is only a hint: it wins when its decoder
// cannot sniff or agrees with the header, otherwise every registered
// format is probed in order.
func (r *Registry) Detect(ext string, header []byte) (string, Decoder, bool) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	if format, ok := r.exts[normalizeExt(ext)]; ok {
		d := r.codecs[format]
		s, canSniff := d.(Sniffer)
		if !canSniff || s.Sniff(header) {
			return format, d, true
		}
	}

	for _, format := range r.order {
		d := r.codecs[format]
		if s, ok := d.(Sniffer); ok && s.Sniff(header) {
			return format, d, true
		}
	}

	return "", nil, false
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
