package videofeed

import (
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// maxSlots is the steady-state buffer capacity. The sequence may hold one
// extra slot between an append and its eviction step.
const maxSlots = 10

type slotKind int

const (
	// slotLive holds images composed from a decoded frame.
	slotLive slotKind = iota
	// slotFallback holds synthesized placeholder imagery (no frame available).
	slotFallback
	// slotError holds the error/end-of-stream placeholder imagery.
	slotError
)

// frameSlot is one buffered unit of output: up to two images (index 0 =
// left/mono, index 1 = right) plus the backing Mat that owns the pixels when
// the images are stereo-split views. Slots are moved into and out of the
// buffer, never copied; close releases the views before the backing memory.
type frameSlot struct {
	images     [2]gocv.Mat
	populated  [2]bool
	backing    gocv.Mat
	hasBacking bool

	kind       slotKind
	seq        uint64
	traceID    string
	capturedAt time.Time
}

func (s *frameSlot) setSingle(m gocv.Mat) {
	s.images[0] = m
	s.populated[0] = true
}

func (s *frameSlot) setPair(left, right gocv.Mat) {
	s.images[0], s.images[1] = left, right
	s.populated[0], s.populated[1] = true, true
}

func (s *frameSlot) setBacking(m gocv.Mat) {
	s.backing = m
	s.hasBacking = true
}

func (s *frameSlot) close() {
	for i := range s.images {
		if s.populated[i] {
			s.images[i].Close()
			s.populated[i] = false
		}
	}
	if s.hasBacking {
		s.backing.Close()
		s.hasBacking = false
	}
}

// frameBuffer is the bounded, ordered hand-off buffer between the capture
// goroutine and consumers. Slots are kept oldest first; appends go to the
// tail, evictions come from the head. One mutex guards every structural
// mutation for both producer and consumer.
type frameBuffer struct {
	mu    sync.Mutex
	slots []*frameSlot
}

// push appends a slot at the tail and evicts from the head while the buffer
// exceeds capacity. Returns the number of slots evicted.
func (b *frameBuffer) push(s *frameSlot) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.slots = append(b.slots, s)
	evicted := 0
	for len(b.slots) > maxSlots {
		b.dropFront()
		evicted++
	}
	return evicted
}

// currentImage is the compound read operation behind GetImage. Under the
// shared lock it seeds a placeholder slot when one or zero slots are
// buffered, converges the buffer to its two newest slots, and returns an
// owned clone of the front slot's image for the given index. The clone
// outlives any later eviction of the slot it was taken from.
func (b *frameBuffer) currentImage(idx int, seed func() *frameSlot) (gocv.Mat, int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.slots) <= 1 {
		b.slots = append([]*frameSlot{seed()}, b.slots...)
	}
	trimmed := 0
	for len(b.slots) > 2 {
		b.dropFront()
		trimmed++
	}

	front := b.slots[0]
	if !front.populated[idx] {
		// Single-view slots keep their image at index 0.
		idx = 0
	}
	return front.images[idx].Clone(), trimmed
}

// dropFront removes and closes the oldest slot. Caller holds the lock.
func (b *frameBuffer) dropFront() {
	b.slots[0].close()
	b.slots[0] = nil
	b.slots = b.slots[1:]
}

func (b *frameBuffer) depth() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.slots)
}

// drain closes and releases every buffered slot.
func (b *frameBuffer) drain() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, s := range b.slots {
		s.close()
	}
	b.slots = nil
}
