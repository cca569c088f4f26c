package cli

import (
	"path/filepath"
	"testing"
)

func TestOutputVideoPath(t *testing.T) {
	tests := []struct {
		name      string
		videoPath string
		outputDir string
		want      string
	}{
		{
			"different directory keeps the name",
			"/videos/talk.mp4",
			"/out",
			filepath.Join("/out", "talk.mp4"),
		},
		{
			"same directory gets a suffix",
			"/videos/talk.mp4",
			"/videos",
			filepath.Join("/videos", "talk_subtitled.mp4"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := outputVideoPath(tt.videoPath, tt.outputDir)
			if err != nil {
				t.Fatalf("outputVideoPath failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("outputVideoPath(%q, %q) = %q, want %q",
					tt.videoPath, tt.outputDir, got, tt.want)
			}
		})
	}
}
