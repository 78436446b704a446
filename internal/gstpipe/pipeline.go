// Package gstpipe wraps the GStreamer receive/decode pipeline behind the
// narrow surface the feed session needs: build from the wire launch grammar,
// start/stop, poll the bus for fatal messages, pull decoded frames and probe
// the negotiated stream dimensions.
package gstpipe

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/tinyzimmer/go-gst/gst"
	"github.com/tinyzimmer/go-gst/gst/app"
)

var initOnce sync.Once

// Init initializes GStreamer exactly once per process. Safe to call from
// every session constructor.
func Init() {
	initOnce.Do(func() {
		slog.Debug("gstpipe: initializing gstreamer")
		gst.Init(nil)
	})
}

// Launch builds the pipeline description for a UDP/RTP H.264 feed on the
// given port. The grammar is fixed by the transport peer and must stay
// bit-exact. Element names embed the port so multiple sessions in one
// process never collide.
func Launch(port int) string {
	p := fmt.Sprintf("%d", port)
	return "udpsrc port=" + p +
		" caps=\"application/x-rtp,media=video,clock-rate=90000,payload=96,encoding-name=H264\"" +
		" ! rtph264depay ! decodebin3 ! videoconvert name=videoconvert" + p +
		" ! video/x-raw,format=RGB ! appsink name=appsink" + p
}

// Pipeline owns one receive/decode pipeline and its named elements.
type Pipeline struct {
	pipeline *gst.Pipeline
	bus      *gst.Bus
	sink     *app.Sink
	convert  *gst.Element
	port     int
}

// New parse-launches the pipeline for the given port and resolves the named
// appsink and videoconvert elements. The pipeline is built but not started.
func New(port int) (*Pipeline, error) {
	Init()

	launch := Launch(port)
	slog.Debug("gstpipe: building pipeline", "port", port, "launch", launch)

	pipeline, err := gst.NewPipelineFromString(launch)
	if err != nil {
		return nil, fmt.Errorf("gstpipe: unable to build pipeline: %w", err)
	}

	sinkElem, err := pipeline.GetElementByName(fmt.Sprintf("appsink%d", port))
	if err != nil {
		return nil, fmt.Errorf("gstpipe: appsink element missing: %w", err)
	}
	convert, err := pipeline.GetElementByName(fmt.Sprintf("videoconvert%d", port))
	if err != nil {
		return nil, fmt.Errorf("gstpipe: videoconvert element missing: %w", err)
	}

	return &Pipeline{
		pipeline: pipeline,
		bus:      pipeline.GetPipelineBus(),
		sink:     app.SinkFromElement(sinkElem),
		convert:  convert,
		port:     port,
	}, nil
}

// Play sets the pipeline to the playing state.
func (p *Pipeline) Play() error {
	if err := p.pipeline.SetState(gst.StatePlaying); err != nil {
		return fmt.Errorf("gstpipe: unable to set pipeline to playing: %w", err)
	}
	slog.Info("gstpipe: pipeline playing", "port", p.port)
	return nil
}

// HealthCheck blocks up to timeout waiting for an early fatal message
// (error or end-of-stream) from the bus. Returns nil when the pipeline
// came up cleanly.
func (p *Pipeline) HealthCheck(timeout time.Duration) *Fatal {
	msg := p.bus.TimedPopFiltered(timeout, gst.MessageError|gst.MessageEOS)
	if msg == nil {
		return nil
	}
	return parseFatal(msg)
}

// PollFatal performs a non-blocking check for a fatal message on the bus.
// Returns nil when no error or end-of-stream message is pending.
func (p *Pipeline) PollFatal() *Fatal {
	msg := p.bus.TimedPopFiltered(0, gst.MessageError|gst.MessageEOS)
	if msg == nil {
		return nil
	}
	return parseFatal(msg)
}

// PullFrame blocks until the appsink produces a sample, then maps its buffer
// and copies the pixel data out before unmapping (GStreamer reuses the
// buffer). Returns false when no sample could be pulled or its buffer could
// not be mapped; the caller substitutes fallback imagery.
func (p *Pipeline) PullFrame() ([]byte, bool) {
	sample := p.sink.PullSample()
	if sample == nil {
		slog.Warn("gstpipe: failed to pull sample from appsink", "port", p.port)
		return nil, false
	}

	buffer := sample.GetBuffer()
	if buffer == nil {
		slog.Warn("gstpipe: sample carries no buffer", "port", p.port)
		return nil, false
	}

	mapInfo := buffer.Map(gst.MapRead)
	data := mapInfo.Bytes()
	if len(data) == 0 {
		buffer.Unmap()
		slog.Warn("gstpipe: empty buffer received", "port", p.port)
		return nil, false
	}

	frame := make([]byte, len(data))
	copy(frame, data)
	buffer.Unmap()

	return frame, true
}

// Dimensions probes the negotiated stream format on the videoconvert sink
// pad, falling back to the accepted caps when negotiation has not finished.
// Failures are returned for the caller to log and retry on a later frame.
func (p *Pipeline) Dimensions() (width, height int, err error) {
	pad := p.convert.GetStaticPad("sink")
	if pad == nil {
		return 0, 0, fmt.Errorf("gstpipe: videoconvert has no sink pad")
	}

	caps := pad.GetCurrentCaps()
	if caps == nil {
		caps = pad.GetAllowedCaps()
	}
	if caps == nil {
		return 0, 0, fmt.Errorf("gstpipe: no caps available on videoconvert sink pad")
	}

	structure := caps.GetStructureAt(0)
	if structure == nil {
		return 0, 0, fmt.Errorf("gstpipe: caps carry no structure")
	}
	slog.Info("gstpipe: probed caps", "port", p.port, "caps", structure.String())

	width, err = structureInt(structure, "width")
	if err != nil {
		return 0, 0, err
	}
	height, err = structureInt(structure, "height")
	if err != nil {
		return 0, 0, err
	}
	return width, height, nil
}

// Stop forces the pipeline to the stopped state. Element handles are released
// by their finalizers once the pipeline is gone.
func (p *Pipeline) Stop() {
	if p.pipeline == nil {
		return
	}
	if err := p.pipeline.SetState(gst.StateNull); err != nil {
		slog.Error("gstpipe: failed to stop pipeline", "port", p.port, "error", err)
		return
	}
	slog.Info("gstpipe: pipeline stopped", "port", p.port)
}

func structureInt(s *gst.Structure, field string) (int, error) {
	v, err := s.GetValue(field)
	if err != nil {
		return 0, fmt.Errorf("gstpipe: caps field %q unavailable: %w", field, err)
	}
	n, ok := v.(int)
	if !ok {
		return 0, fmt.Errorf("gstpipe: caps field %q is %T, want int", field, v)
	}
	return n, nil
}
