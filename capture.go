package videofeed

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/LiFangXing76/VR-AR-streaming-optimization/internal/compose"
)

// captureLoop is the sole producer. Each iteration polls the bus for a fatal
// signal, otherwise pulls one decoded frame, negotiates dimensions on the
// first frame, validates the mapped length and composes a slot. Degraded
// iterations append placeholder slots instead; nothing here ever terminates
// the loop except the exit flag.
func (s *Session) captureLoop() {
	defer s.wg.Done()

	slog.Info("videofeed: capture loop started", "name", s.cfg.Name, "port", s.cfg.Port)

	for !s.exit.Load() {
		if fatal := s.src.PollFatal(); fatal != nil {
			slog.Error("videofeed: fatal stream signal",
				"name", s.cfg.Name,
				"eos", fatal.EOS,
				"error", fatal.Message,
				"debug", fatal.Debug,
				"category", fatal.Category.String(),
			)
			s.errorSlots.Add(1)
			s.append(s.errorSlot())
			continue
		}

		data, ok := s.src.PullFrame()
		if s.exit.Load() {
			// Exit observed while blocked in the pull; no slot after this.
			break
		}
		if !ok {
			s.fallbackSlots.Add(1)
			s.append(s.placeholderSlot())
			continue
		}

		width, height, known := s.dimensions()
		if !known {
			w, h, err := s.src.Dimensions()
			if err != nil {
				slog.Warn("videofeed: dimension probe failed, retrying on next frame",
					"name", s.cfg.Name, "error", err)
				s.fallbackSlots.Add(1)
				s.append(s.placeholderSlot())
				continue
			}
			s.negWidth.Store(int64(w))
			s.negHeight.Store(int64(h))
			width, height = w, h
			slog.Info("videofeed: negotiated dimensions",
				"name", s.cfg.Name, "width", w, "height", h)
		}

		if len(data) != width*height*compose.BytesPerPixel {
			// A malformed frame is skipped, never fatal to the session.
			s.sizeMismatches.Add(1)
			slog.Error("videofeed: mapped frame size mismatch, skipping frame",
				"name", s.cfg.Name,
				"got_bytes", len(data),
				"want_bytes", width*height*compose.BytesPerPixel,
				"width", width,
				"height", height,
			)
			s.fallbackSlots.Add(1)
			s.append(s.placeholderSlot())
			continue
		}

		slot, err := s.composeSlot(data, width, height)
		if err != nil {
			slog.Error("videofeed: frame composition failed",
				"name", s.cfg.Name, "error", err)
			s.fallbackSlots.Add(1)
			s.append(s.placeholderSlot())
			continue
		}
		s.framesCaptured.Add(1)
		s.append(slot)
	}

	slog.Info("videofeed: capture loop stopped",
		"name", s.cfg.Name,
		"frames_captured", s.framesCaptured.Load(),
	)
}

// composeSlot builds a live slot from one decoded frame. Composition happens
// before the buffer lock is taken. Single-side sessions store the whole frame
// as their one image; stereo sessions serving both sides split it into
// half-width views over the slot-owned backing Mat.
func (s *Session) composeSlot(data []byte, width, height int) (*frameSlot, error) {
	slot := &frameSlot{
		kind:       slotLive,
		seq:        s.seq.Add(1),
		traceID:    uuid.NewString(),
		capturedAt: time.Now(),
	}

	if s.cfg.Kind == KindMono || s.cfg.Side != SideBoth {
		img, err := compose.FromRGB(data, width, height)
		if err != nil {
			return nil, err
		}
		slot.setSingle(img)
		return slot, nil
	}

	full, left, right, err := compose.SplitStereo(data, width, height)
	if err != nil {
		return nil, err
	}
	slot.setBacking(full)
	slot.setPair(left, right)
	return slot, nil
}

func (s *Session) append(slot *frameSlot) {
	evicted := s.buf.push(slot)
	if evicted > 0 {
		s.slotsEvicted.Add(uint64(evicted))
	}
	slog.Debug("videofeed: slot appended",
		"name", s.cfg.Name,
		"seq", slot.seq,
		"trace_id", slot.traceID,
		"evicted", evicted,
	)
}

func (s *Session) dimensions() (width, height int, known bool) {
	width = int(s.negWidth.Load())
	height = int(s.negHeight.Load())
	return width, height, width > 0 && height > 0
}
