// feedwatch opens a feed session on a UDP port, periodically snapshots the
// current image to disk and reports session statistics. It is the manual
// testing tool for the ingestion core: point a sender at the port, watch the
// stats, inspect the PNGs.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"gocv.io/x/gocv"

	videofeed "github.com/LiFangXing76/VR-AR-streaming-optimization"
)

const version = "v0.1.0"

func main() {
	port := flag.Int("port", 5000, "UDP port the RTP stream arrives on")
	name := flag.String("name", "feedwatch", "Stream name drawn on placeholder imagery")
	stereo := flag.Bool("stereo", false, "Treat the stream as side-by-side stereo")
	side := flag.String("side", "left", "Side to snapshot: left, right, both")
	width := flag.Int("width", 640, "Fallback placeholder width")
	height := flag.Int("height", 480, "Fallback placeholder height")
	outputDir := flag.String("output", "", "Directory to save snapshots (optional)")
	interval := flag.Int("interval", 1, "Seconds between snapshots")
	statsInterval := flag.Int("stats-interval", 10, "Seconds between stats reports")
	debug := flag.Bool("debug", false, "Enable debug logging")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("feedwatch %s\n", version)
		os.Exit(0)
	}

	logLevel := slog.LevelInfo
	if *debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))

	cfg := videofeed.StreamConfig{
		Kind:           videofeed.KindMono,
		Side:           videofeed.SideLeft,
		Codec:          videofeed.CodecH264,
		Port:           *port,
		Name:           *name,
		FallbackWidth:  *width,
		FallbackHeight: *height,
	}
	if *stereo {
		cfg.Kind = videofeed.KindStereo
	}
	switch *side {
	case "left":
		cfg.Side = videofeed.SideLeft
	case "right":
		cfg.Side = videofeed.SideRight
	case "both":
		cfg.Side = videofeed.SideBoth
	default:
		fmt.Fprintf(os.Stderr, "invalid side %q (must be left, right or both)\n", *side)
		os.Exit(1)
	}

	if *outputDir != "" {
		if err := os.MkdirAll(*outputDir, 0o755); err != nil {
			slog.Error("failed to create output directory", "dir", *outputDir, "error", err)
			os.Exit(1)
		}
	}

	session, err := videofeed.NewSession(cfg)
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	defer session.Close()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	snapshotTick := time.NewTicker(time.Duration(*interval) * time.Second)
	defer snapshotTick.Stop()
	statsTick := time.NewTicker(time.Duration(*statsInterval) * time.Second)
	defer statsTick.Stop()

	slog.Info("feedwatch running",
		"port", *port,
		"kind", cfg.Kind.String(),
		"side", cfg.Side.String(),
	)

	snapshots := 0
	for {
		select {
		case <-snapshotTick.C:
			for _, s := range sidesToGrab(cfg.Side) {
				img := session.GetImage(s)
				if *outputDir != "" {
					path := filepath.Join(*outputDir,
						fmt.Sprintf("frame_%06d_%s.png", snapshots, s.String()))
					if ok := gocv.IMWrite(path, img); !ok {
						slog.Warn("snapshot write failed", "path", path)
					}
				}
				img.Close()
			}
			snapshots++

		case <-statsTick.C:
			stats := session.Stats()
			slog.Info("session stats",
				"frames_captured", stats.FramesCaptured,
				"fallback_slots", stats.FallbackSlots,
				"error_slots", stats.ErrorSlots,
				"size_mismatches", stats.SizeMismatches,
				"buffer_depth", stats.BufferDepth,
				"negotiated", stats.Negotiated,
				"resolution", fmt.Sprintf("%dx%d", stats.Width, stats.Height),
				"fps", fmt.Sprintf("%.2f", stats.FPS),
				"uptime", stats.Uptime.Round(time.Second),
			)

		case sig := <-sigs:
			slog.Info("caught signal, shutting down", "signal", sig.String())
			return
		}
	}
}

func sidesToGrab(configured videofeed.Side) []videofeed.Side {
	if configured == videofeed.SideBoth {
		return []videofeed.Side{videofeed.SideLeft, videofeed.SideRight}
	}
	return []videofeed.Side{configured}
}
