package compose

import (
	"testing"
)

func TestLabel(t *testing.T) {
	tests := []struct {
		side string
		name string
		want string
	}{
		{"left", "head-cam", "[left]head-cam"},
		{"right", "head-cam", "[right]head-cam"},
		{"left", "", "[left]"},
	}

	for _, tt := range tests {
		if got := Label(tt.side, tt.name); got != tt.want {
			t.Errorf("Label(%q, %q) = %q, want %q", tt.side, tt.name, got, tt.want)
		}
	}
}

func TestPlaceholderDimensions(t *testing.T) {
	m := Placeholder(640, 480, "[left]cam")
	defer m.Close()

	if m.Empty() {
		t.Fatal("placeholder is empty")
	}
	if m.Cols() != 640 || m.Rows() != 480 {
		t.Errorf("placeholder is %dx%d, want 640x480", m.Cols(), m.Rows())
	}
}

func TestErrorFrameDimensions(t *testing.T) {
	m := ErrorFrame(320, 240)
	defer m.Close()

	if m.Empty() {
		t.Fatal("error frame is empty")
	}
	if m.Cols() != 320 || m.Rows() != 240 {
		t.Errorf("error frame is %dx%d, want 320x240", m.Cols(), m.Rows())
	}
}

func TestFromRGB_RejectsBadLength(t *testing.T) {
	if _, err := FromRGB(make([]byte, 10), 4, 4); err == nil {
		t.Error("FromRGB accepted a short buffer")
	}
	if _, err := FromRGB(make([]byte, 4*4*3), 4, 4); err != nil {
		t.Errorf("FromRGB rejected a valid buffer: %v", err)
	}
}

// TestSplitStereo verifies the left view starts at source column 0 and the
// right view at column width/2.
func TestSplitStereo(t *testing.T) {
	const width, height = 8, 2
	data := make([]byte, width*height*3)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			off := (y*width + x) * 3
			data[off] = byte(x) // R channel encodes the source column
		}
	}

	full, left, right, err := SplitStereo(data, width, height)
	if err != nil {
		t.Fatalf("SplitStereo failed: %v", err)
	}
	defer full.Close()
	defer left.Close()
	defer right.Close()

	if left.Cols() != width/2 || left.Rows() != height {
		t.Fatalf("left view is %dx%d, want %dx%d", left.Cols(), left.Rows(), width/2, height)
	}
	if right.Cols() != width/2 || right.Rows() != height {
		t.Fatalf("right view is %dx%d, want %dx%d", right.Cols(), right.Rows(), width/2, height)
	}

	if v := left.GetVecbAt(0, 0); v[0] != 0 {
		t.Errorf("left column 0 maps to source column %d, want 0", v[0])
	}
	if v := right.GetVecbAt(0, 0); v[0] != byte(width/2) {
		t.Errorf("right column 0 maps to source column %d, want %d", v[0], width/2)
	}
	if v := right.GetVecbAt(1, width/2-1); v[0] != byte(width-1) {
		t.Errorf("right last column maps to source column %d, want %d", v[0], width-1)
	}
}
