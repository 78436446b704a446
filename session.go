package videofeed

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"gocv.io/x/gocv"

	"github.com/LiFangXing76/VR-AR-streaming-optimization/internal/compose"
	"github.com/LiFangXing76/VR-AR-streaming-optimization/internal/gstpipe"
)

// healthCheckTimeout bounds the synchronous wait for an early fatal message
// during construction.
const healthCheckTimeout = 10 * time.Second

// frameSource is the narrow surface the capture loop consumes from the
// transport/decode layer. gstpipe.Pipeline implements it; tests substitute
// a fake.
type frameSource interface {
	// PollFatal is a non-blocking check for an error or end-of-stream
	// message; nil when none is pending.
	PollFatal() *gstpipe.Fatal
	// PullFrame blocks for the next decoded frame; false when no frame
	// could be produced.
	PullFrame() ([]byte, bool)
	// Dimensions probes the negotiated stream format.
	Dimensions() (width, height int, err error)
	// Stop forces the pipeline to its stopped state, unblocking a pull.
	Stop()
}

// Session owns one video feed: the decode pipeline, the capture goroutine
// and the bounded slot buffer consumers read through GetImage.
type Session struct {
	cfg StreamConfig
	buf frameBuffer
	src frameSource

	exit atomic.Bool
	live atomic.Bool
	wg   sync.WaitGroup

	started   time.Time
	closeOnce sync.Once

	seq            atomic.Uint64
	framesCaptured atomic.Uint64
	fallbackSlots  atomic.Uint64
	errorSlots     atomic.Uint64
	sizeMismatches atomic.Uint64
	slotsEvicted   atomic.Uint64

	// Negotiated stream dimensions; zero until the first successful probe,
	// assigned once by the capture loop.
	negWidth  atomic.Int64
	negHeight atomic.Int64
}

// NewSession validates the configuration, builds and starts the decode
// pipeline for cfg.Port and runs the bounded bus health check. When the
// pipeline fails to build, start or pass the health check, the session is
// still returned, but inert: no capture goroutine runs and GetImage serves
// placeholder imagery. Only an invalid configuration yields an error.
func NewSession(cfg StreamConfig) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := newSession(cfg)

	slog.Info("videofeed: creating session",
		"name", cfg.Name,
		"kind", cfg.Kind.String(),
		"side", cfg.Side.String(),
		"codec", cfg.Codec.String(),
		"port", cfg.Port,
	)

	pl, err := gstpipe.New(cfg.Port)
	if err != nil {
		slog.Error("videofeed: pipeline build failed, session is inert",
			"name", cfg.Name, "port", cfg.Port, "error", err)
		return s, nil
	}
	s.src = pl

	if err := pl.Play(); err != nil {
		slog.Error("videofeed: pipeline start failed, session is inert",
			"name", cfg.Name, "port", cfg.Port, "error", err)
		return s, nil
	}

	if fatal := pl.HealthCheck(healthCheckTimeout); fatal != nil {
		slog.Warn("videofeed: fatal signal during startup, session is inert",
			"name", cfg.Name,
			"port", cfg.Port,
			"eos", fatal.EOS,
			"error", fatal.Message,
			"debug", fatal.Debug,
			"category", fatal.Category.String(),
		)
		return s, nil
	}

	s.startCapture(pl)
	return s, nil
}

func newSession(cfg StreamConfig) *Session {
	return &Session{cfg: cfg, started: time.Now()}
}

// startCapture launches the producer goroutine against the given source.
func (s *Session) startCapture(src frameSource) {
	s.src = src
	s.live.Store(true)
	s.wg.Add(1)
	go s.captureLoop()
}

// GetImage returns an owned copy of the most recent composed image for the
// requested side; the caller must Close it. When the session is configured
// for a single side, that side wins over the argument. The buffer never
// presents an absence: an empty or single-slot buffer is seeded with a
// placeholder before the read.
//
// Every read converges the buffer to its two newest slots and returns the
// older of the pair, for every side. The clone is taken under the shared
// lock, so concurrent eviction can never invalidate what the caller holds.
func (s *Session) GetImage(side Side) gocv.Mat {
	if s.cfg.Side != SideBoth {
		side = s.cfg.Side
	}
	if side == SideBoth {
		side = SideLeft
	}

	idx := 0
	if s.cfg.Side == SideBoth && side == SideRight {
		idx = 1
	}

	img, trimmed := s.buf.currentImage(idx, s.placeholderSlot)
	if trimmed > 0 {
		s.slotsEvicted.Add(uint64(trimmed))
	}
	return img
}

// Close signals the capture loop to exit, stops the pipeline so an in-flight
// pull unblocks, joins the loop and releases every buffered slot. Idempotent.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		slog.Info("videofeed: closing session", "name", s.cfg.Name, "port", s.cfg.Port)
		s.exit.Store(true)
		if s.src != nil {
			s.src.Stop()
		}
		s.wg.Wait()
		s.live.Store(false)
		s.buf.drain()

		slog.Info("videofeed: session closed",
			"name", s.cfg.Name,
			"frames_captured", s.framesCaptured.Load(),
			"fallback_slots", s.fallbackSlots.Load(),
			"error_slots", s.errorSlots.Load(),
			"uptime", time.Since(s.started),
		)
	})
	return nil
}

// Stats returns a snapshot of the session counters.
func (s *Session) Stats() SessionStats {
	frames := s.framesCaptured.Load()
	w := int(s.negWidth.Load())
	h := int(s.negHeight.Load())

	uptime := time.Since(s.started)
	var fps float64
	if secs := uptime.Seconds(); secs > 0 {
		fps = float64(frames) / secs
	}

	return SessionStats{
		FramesCaptured: frames,
		FallbackSlots:  s.fallbackSlots.Load(),
		ErrorSlots:     s.errorSlots.Load(),
		SizeMismatches: s.sizeMismatches.Load(),
		SlotsEvicted:   s.slotsEvicted.Load(),
		BufferDepth:    s.buf.depth(),
		Negotiated:     w > 0 && h > 0,
		Width:          w,
		Height:         h,
		FPS:            fps,
		Uptime:         uptime,
		Live:           s.live.Load(),
	}
}

// Kind returns the configured stream kind.
func (s *Session) Kind() StreamKind { return s.cfg.Kind }

// Side returns the configured side selector.
func (s *Session) Side() Side { return s.cfg.Side }

// Codec returns the configured codec.
func (s *Session) Codec() Codec { return s.cfg.Codec }

// Port returns the configured UDP port.
func (s *Session) Port() int { return s.cfg.Port }

// Position returns the spatial placement of the display quad.
func (s *Session) Position() Vec3 { return s.cfg.Position }

// Scale returns the spatial scale of the display quad.
func (s *Session) Scale() Vec3 { return s.cfg.Scale }

// Name returns the human-readable stream name.
func (s *Session) Name() string { return s.cfg.Name }

// placeholderSlot synthesizes the standard fallback slot: solid fill plus a
// caption naming the side and stream, at the configured fallback dimensions.
func (s *Session) placeholderSlot() *frameSlot {
	slot := &frameSlot{
		kind:       slotFallback,
		seq:        s.seq.Add(1),
		traceID:    uuid.NewString(),
		capturedAt: time.Now(),
	}
	w, h := s.cfg.FallbackWidth, s.cfg.FallbackHeight
	if s.cfg.Side == SideBoth {
		slot.setPair(
			compose.Placeholder(w, h, compose.Label(SideLeft.String(), s.cfg.Name)),
			compose.Placeholder(w, h, compose.Label(SideRight.String(), s.cfg.Name)),
		)
	} else {
		slot.setSingle(compose.Placeholder(w, h, compose.Label(s.cfg.Side.String(), s.cfg.Name)))
	}
	return slot
}

// errorSlot synthesizes the error/end-of-stream slot.
func (s *Session) errorSlot() *frameSlot {
	slot := &frameSlot{
		kind:       slotError,
		seq:        s.seq.Add(1),
		traceID:    uuid.NewString(),
		capturedAt: time.Now(),
	}
	w, h := s.cfg.FallbackWidth, s.cfg.FallbackHeight
	if s.cfg.Side == SideBoth {
		slot.setPair(compose.ErrorFrame(w, h), compose.ErrorFrame(w, h))
	} else {
		slot.setSingle(compose.ErrorFrame(w, h))
	}
	return slot
}
