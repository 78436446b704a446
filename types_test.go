package videofeed

import "testing"

// TestStreamConfig_Validate tests fail-fast validation of session configs.
func TestStreamConfig_Validate(t *testing.T) {
	valid := StreamConfig{
		Kind:           KindStereo,
		Side:           SideBoth,
		Codec:          CodecH264,
		Port:           5000,
		Name:           "head-cam",
		FallbackWidth:  640,
		FallbackHeight: 480,
	}

	tests := []struct {
		name    string
		mutate  func(*StreamConfig)
		wantErr bool
	}{
		{name: "valid config", mutate: func(c *StreamConfig) {}},
		{name: "port zero", mutate: func(c *StreamConfig) { c.Port = 0 }, wantErr: true},
		{name: "port too high", mutate: func(c *StreamConfig) { c.Port = 70000 }, wantErr: true},
		{name: "zero fallback width", mutate: func(c *StreamConfig) { c.FallbackWidth = 0 }, wantErr: true},
		{name: "negative fallback height", mutate: func(c *StreamConfig) { c.FallbackHeight = -1 }, wantErr: true},
		{name: "mono with both sides", mutate: func(c *StreamConfig) { c.Kind = KindMono; c.Side = SideBoth }, wantErr: true},
		{name: "mono left", mutate: func(c *StreamConfig) { c.Kind = KindMono; c.Side = SideLeft }},
		{name: "stereo right only", mutate: func(c *StreamConfig) { c.Side = SideRight }},
		{name: "h265 not in grammar", mutate: func(c *StreamConfig) { c.Codec = CodecH265 }, wantErr: true},
		{name: "av1 not in grammar", mutate: func(c *StreamConfig) { c.Codec = CodecAV1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEnumStrings(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"mono", KindMono.String(), "mono"},
		{"stereo", KindStereo.String(), "stereo"},
		{"left", SideLeft.String(), "left"},
		{"right", SideRight.String(), "right"},
		{"both", SideBoth.String(), "both"},
		{"h264", CodecH264.String(), "h264"},
		{"h265", CodecH265.String(), "h265"},
		{"av1", CodecAV1.String(), "av1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("String() = %q, want %q", tt.got, tt.want)
			}
		})
	}
}
