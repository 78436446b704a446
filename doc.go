// Package videofeed is the frame-ingestion core of a video-teleoperation
// client. It receives a continuous decoded video feed over UDP/RTP through a
// GStreamer pipeline and keeps the most recent frames available, with minimal
// latency, to renderer threads.
//
// # Quick Start
//
//	cfg := videofeed.StreamConfig{
//	    Kind:           videofeed.KindStereo,
//	    Side:           videofeed.SideBoth,
//	    Codec:          videofeed.CodecH264,
//	    Port:           5000,
//	    Name:           "head-cam",
//	    FallbackWidth:  640,
//	    FallbackHeight: 480,
//	}
//
//	session, err := videofeed.NewSession(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer session.Close()
//
//	img := session.GetImage(videofeed.SideLeft)
//	defer img.Close()
//	// render img...
//
// # Behavior
//
// A dedicated capture goroutine pulls decoded frames from the pipeline and
// appends them to a bounded slot buffer (capacity 10, oldest evicted first).
// Renderers call GetImage from any goroutine; reads converge the buffer to
// its two newest slots and return an owned copy of the current image.
//
// Callers never see an absence. Before the stream has produced anything, and
// whenever a frame cannot be pulled, mapped or validated, the session serves
// synthesized placeholder imagery captioned with the stream name and side.
// A decoder error or end-of-stream appends "Error or End Video" imagery and
// the loop keeps running; only Close stops a session.
//
// Stereo streams arrive side-by-side in a single frame. A session configured
// with SideBoth splits each frame into half-width left/right views; a session
// restricted to one side stores the whole frame as that side's image.
//
// Frame dimensions are negotiated lazily from the pipeline caps once data
// flows; until then placeholders use the configured fallback dimensions.
//
// # Dependencies
//
// GStreamer 1.x and OpenCV must be installed on the system. The pipeline
// uses udpsrc, rtph264depay, decodebin3, videoconvert and appsink; verify
// with:
//
//	gst-inspect-1.0 rtph264depay
//	gst-inspect-1.0 decodebin3
package videofeed
