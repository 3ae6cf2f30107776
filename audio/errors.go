// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	// ErrInvalidDstSize means a pass-through read was given a buffer that
	// would split an interleaved frame.
	ErrInvalidDstSize = errors.New("dst size must be multiple of channels")

	// ErrUnreadableSource means the input could not be opened or no registered
	// format recognised it.
	ErrUnreadableSource = errors.New("unreadable audio source")
	// ErrNoAudioTrack means the container holds no decodable audio stream.
	ErrNoAudioTrack = errors.New("no audio track")
	// ErrMissingStreamMetadata means the stream does not report a sample rate
	// or a channel count.
	ErrMissingStreamMetadata = errors.New("missing stream metadata")
	// ErrDecodeFailure wraps an unrecoverable codec error.
	ErrDecodeFailure = errors.New("decode failure")
	// ErrCorruptPacket is returned by a Source for a single damaged block.
	// The decode loop drops the block and keeps reading.
	ErrCorruptPacket = errors.New("corrupt packet")
	// ErrRangeBeyondAudio means the requested start time is at or past the
	// end of the decoded audio.
	ErrRangeBeyondAudio = errors.New("range starts beyond end of audio")
	ErrInvalidRange     = errors.New("invalid time range")
)
