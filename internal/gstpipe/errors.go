package gstpipe

import (
	"strings"

	"github.com/tinyzimmer/go-gst/gst"
)

// Fatal describes an error or end-of-stream message popped from the bus.
type Fatal struct {
	// EOS is true for an end-of-stream message, false for an error.
	EOS bool
	// Message is the error text ("end of stream" for EOS).
	Message string
	// Debug carries the element debug string, when present.
	Debug string
	// Category classifies the failure for log telemetry.
	Category ErrorCategory
}

func parseFatal(msg *gst.Message) *Fatal {
	if msg.Type() == gst.MessageEOS {
		return &Fatal{EOS: true, Message: "end of stream", Category: ErrCategoryUnknown}
	}
	gerr := msg.ParseError()
	if gerr == nil {
		return &Fatal{Message: "unparseable error message", Category: ErrCategoryUnknown}
	}
	return &Fatal{
		Message:  gerr.Error(),
		Debug:    gerr.DebugString(),
		Category: classify(gerr.Error(), gerr.DebugString()),
	}
}

// ErrorCategory classifies bus errors for log telemetry.
type ErrorCategory int

const (
	// ErrCategoryNetwork indicates transport failures (socket, timeout, RTP).
	ErrCategoryNetwork ErrorCategory = iota
	// ErrCategoryCodec indicates decode/format failures.
	ErrCategoryCodec
	// ErrCategoryUnknown indicates unclassified failures.
	ErrCategoryUnknown
)

// String returns a human-readable string representation of the category.
func (e ErrorCategory) String() string {
	switch e {
	case ErrCategoryNetwork:
		return "network"
	case ErrCategoryCodec:
		return "codec"
	default:
		return "unknown"
	}
}

var (
	codecKeywords = []string{
		"codec", "decode", "format", "negotiat", "caps",
		"h264", "no decoder", "missing plugin", "plug-in",
	}
	networkKeywords = []string{
		"connection", "timeout", "unreachable", "network",
		"socket", "udp", "rtp", "could not", "failed to bind",
	}
)

// classify categorizes an error message by keyword heuristics. go-gst's
// GError does not expose the error domain, so string matching is all there is.
func classify(errMsg, debugStr string) ErrorCategory {
	combined := strings.ToLower(errMsg + " " + debugStr)
	for _, kw := range codecKeywords {
		if strings.Contains(combined, kw) {
			return ErrCategoryCodec
		}
	}
	for _, kw := range networkKeywords {
		if strings.Contains(combined, kw) {
			return ErrCategoryNetwork
		}
	}
	return ErrCategoryUnknown
}
