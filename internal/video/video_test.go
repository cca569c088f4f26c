package video

import (
	"testing"
	"time"
)

func TestParseProbeOutput(t *testing.T) {
	raw := []byte(`{
		"streams": [
			{"codec_type": "video", "codec_name": "h264", "width": 1920, "height": 1080},
			{"codec_type": "audio", "codec_name": "aac"}
		],
		"format": {"duration": "12.480000"}
	}`)

	info, err := parseProbeOutput("movie.mp4", raw)
	if err != nil {
		t.Fatalf("parseProbeOutput failed: %v", err)
	}

	if info.Width != 1920 || info.Height != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", info.Width, info.Height)
	}
	if info.Codec != "h264" {
		t.Errorf("expected h264, got %q", info.Codec)
	}
	if !info.HasAudio {
		t.Error("expected audio stream")
	}
	want := time.Duration(12.48 * float64(time.Second))
	if info.Duration != want {
		t.Errorf("expected duration %v, got %v", want, info.Duration)
	}
}

func TestParseProbeOutputFirstVideoStreamWins(t *testing.T) {
	raw := []byte(`{
		"streams": [
			{"codec_type": "video", "codec_name": "h264", "width": 1280, "height": 720},
			{"codec_type": "video", "codec_name": "mjpeg", "width": 320, "height": 240}
		],
		"format": {}
	}`)

	info, err := parseProbeOutput("movie.mp4", raw)
	if err != nil {
		t.Fatalf("parseProbeOutput failed: %v", err)
	}

	if info.Width != 1280 || info.Codec != "h264" {
		t.Errorf("expected first stream's 1280/h264, got %d/%q", info.Width, info.Codec)
	}
	if info.HasAudio {
		t.Error("expected no audio stream")
	}
}

func TestParseProbeOutputNoVideoStream(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"audio only", `{"streams": [{"codec_type": "audio"}], "format": {}}`},
		{"empty streams", `{"streams": [], "format": {}}`},
		{"invalid json", `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseProbeOutput("x.mp4", []byte(tt.raw)); err == nil {
				t.Error("expected error")
			}
		})
	}
}
