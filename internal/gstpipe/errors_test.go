package gstpipe

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		errMsg string
		debug  string
		want   ErrorCategory
	}{
		{
			name:   "decode failure",
			errMsg: "could not decode stream",
			want:   ErrCategoryCodec,
		},
		{
			name:   "caps negotiation",
			errMsg: "internal data stream error",
			debug:  "streaming stopped, reason not-negotiated",
			want:   ErrCategoryCodec,
		},
		{
			name:   "missing plugin",
			errMsg: "your gstreamer installation is missing a plug-in",
			want:   ErrCategoryCodec,
		},
		{
			name:   "bind failure",
			errMsg: "failed to bind socket",
			want:   ErrCategoryNetwork,
		},
		{
			name:   "timeout",
			errMsg: "source read timeout",
			want:   ErrCategoryNetwork,
		},
		{
			name: "empty message",
			want: ErrCategoryUnknown,
		},
		{
			name:   "unclassified",
			errMsg: "something odd happened",
			want:   ErrCategoryUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classify(tt.errMsg, tt.debug); got != tt.want {
				t.Errorf("classify(%q, %q) = %s, want %s",
					tt.errMsg, tt.debug, got.String(), tt.want.String())
			}
		})
	}
}

func TestErrorCategoryString(t *testing.T) {
	tests := []struct {
		cat  ErrorCategory
		want string
	}{
		{ErrCategoryNetwork, "network"},
		{ErrCategoryCodec, "codec"},
		{ErrCategoryUnknown, "unknown"},
	}
	for _, tt := range tests {
		if got := tt.cat.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
