package videofeed

import "gocv.io/x/gocv"

// FrameFeed defines the consumer-facing contract of a feed session.
//
// Implementations must guarantee:
//   - GetImage() never returns an absent image: a real frame, a degraded
//     fallback or a synthesized placeholder, but always something drawable
//   - GetImage() returns an owned copy; the caller closes it and concurrent
//     buffer eviction can never invalidate it
//   - Close() is idempotent and joins the producer before releasing buffers
//   - Stats() is thread-safe (can be called from any goroutine)
type FrameFeed interface {
	// GetImage returns the current composed image for the requested side.
	// When the session is configured for a single side, that side wins over
	// the argument. The caller owns the returned Mat and must Close it.
	GetImage(side Side) gocv.Mat

	// Stats returns current session statistics.
	Stats() SessionStats

	// Close stops the capture loop and releases the pipeline and every
	// buffered slot. Safe to call multiple times.
	Close() error
}

var _ FrameFeed = (*Session)(nil)
