package videofeed

import (
	"fmt"
	"time"
)

// StreamKind says whether a stream carries one view or a side-by-side pair.
type StreamKind int

const (
	// KindMono is a single-view stream; every decoded frame is one image.
	KindMono StreamKind = iota
	// KindStereo is a side-by-side stereo stream; a decoded frame holds the
	// left view in its left half and the right view in its right half.
	KindStereo
)

// String returns a human-readable string representation of the stream kind.
func (k StreamKind) String() string {
	switch k {
	case KindMono:
		return "mono"
	case KindStereo:
		return "stereo"
	default:
		return "unknown"
	}
}

// Side selects which half (or whole) of a stereo frame a consumer wants.
type Side int

const (
	// SideLeft selects the left view (index 0 of a slot).
	SideLeft Side = iota
	// SideRight selects the right view (index 1 of a slot).
	SideRight
	// SideBoth keeps both views available; GetImage picks per call.
	SideBoth
)

// String returns a human-readable string representation of the side.
func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	case SideBoth:
		return "both"
	default:
		return "unknown"
	}
}

// Codec identifies the video codec carried by the RTP stream.
type Codec int

const (
	// CodecH264 is the only codec the launch grammar currently encodes.
	CodecH264 Codec = iota
	// CodecH265 is reserved for a future grammar variant.
	CodecH265
	// CodecAV1 is reserved for a future grammar variant.
	CodecAV1
)

// String returns a human-readable string representation of the codec.
func (c Codec) String() string {
	switch c {
	case CodecH264:
		return "h264"
	case CodecH265:
		return "h265"
	case CodecAV1:
		return "av1"
	default:
		return "unknown"
	}
}

// Vec3 is a spatial placement vector (position or scale) for the display layer.
type Vec3 struct {
	X, Y, Z float32
}

// StreamConfig contains the immutable configuration of one feed session.
//
// FallbackWidth/FallbackHeight size the synthesized placeholder imagery used
// before the stream has negotiated its real dimensions (and whenever a frame
// cannot be produced).
type StreamConfig struct {
	// Kind is the stream kind (mono or side-by-side stereo).
	Kind StreamKind
	// Side restricts the session to one view, or SideBoth for both.
	Side Side
	// Codec identifies the RTP payload codec.
	Codec Codec
	// Port is the UDP port the stream arrives on (required, 1-65535).
	Port int
	// Position is the spatial placement of the display quad.
	Position Vec3
	// Scale is the spatial scale of the display quad.
	Scale Vec3
	// Name is the human-readable stream name, drawn on placeholder imagery.
	Name string
	// FallbackWidth is the placeholder image width (required, > 0).
	FallbackWidth int
	// FallbackHeight is the placeholder image height (required, > 0).
	FallbackHeight int
}

// Validate checks the configuration at construction time (fail-fast principle).
func (c StreamConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("videofeed: invalid port %d (must be 1-65535)", c.Port)
	}
	if c.FallbackWidth <= 0 || c.FallbackHeight <= 0 {
		return fmt.Errorf(
			"videofeed: invalid fallback dimensions %dx%d (must be positive)",
			c.FallbackWidth, c.FallbackHeight,
		)
	}
	if c.Kind == KindMono && c.Side == SideBoth {
		return fmt.Errorf("videofeed: mono streams carry a single view, side must be left or right")
	}
	if c.Codec != CodecH264 {
		return fmt.Errorf("videofeed: codec %s not supported by the launch grammar", c.Codec)
	}
	return nil
}

// SessionStats contains current session statistics.
type SessionStats struct {
	// FramesCaptured is the number of decoded frames composed into slots.
	FramesCaptured uint64
	// FallbackSlots is the number of placeholder slots appended by the
	// capture loop (missing sample, unmapped buffer, size mismatch).
	FallbackSlots uint64
	// ErrorSlots is the number of error/EOS placeholder slots appended.
	ErrorSlots uint64
	// SizeMismatches counts frames whose mapped length was not width*height*3.
	SizeMismatches uint64
	// SlotsEvicted counts slots dropped from the head of the buffer.
	SlotsEvicted uint64
	// BufferDepth is the number of slots currently buffered.
	BufferDepth int
	// Negotiated is true once stream dimensions are known.
	Negotiated bool
	// Width is the negotiated frame width (0 until negotiated).
	Width int
	// Height is the negotiated frame height (0 until negotiated).
	Height int
	// FPS is the measured capture rate (frames / uptime).
	FPS float64
	// Uptime is the time since the session was constructed.
	Uptime time.Duration
	// Live is true while the capture goroutine is running.
	Live bool
}
