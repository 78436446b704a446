package gstpipe

import (
	"strings"
	"testing"
)

// TestLaunchGrammar locks the wire-facing pipeline description. The string is
// consumed by the transport peer and must stay bit-exact.
func TestLaunchGrammar(t *testing.T) {
	got := Launch(5000)
	want := `udpsrc port=5000 caps="application/x-rtp,media=video,clock-rate=90000,payload=96,encoding-name=H264" ! rtph264depay ! decodebin3 ! videoconvert name=videoconvert5000 ! video/x-raw,format=RGB ! appsink name=appsink5000`
	if got != want {
		t.Errorf("Launch(5000) =\n%s\nwant\n%s", got, want)
	}
}

// TestLaunchElementNamesEmbedPort verifies two sessions in one process never
// collide on element names.
func TestLaunchElementNamesEmbedPort(t *testing.T) {
	a := Launch(5000)
	b := Launch(5002)

	if strings.Contains(a, "appsink5002") || strings.Contains(b, "appsink5000") {
		t.Error("element names leaked across ports")
	}
	for _, port := range []string{"5000", "5002"} {
		launch := Launch(5000)
		if port == "5002" {
			launch = Launch(5002)
		}
		for _, name := range []string{"appsink" + port, "videoconvert" + port} {
			if !strings.Contains(launch, "name="+name) {
				t.Errorf("Launch for port %s is missing element name %s", port, name)
			}
		}
	}
}
