package overlay

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/skanda-dev/subburn/internal/subtitle"
	"github.com/skanda-dev/subburn/internal/video"
)

// Rasterizer produces a transparent PNG for one cue's text, sized to
// the target video frame.
type Rasterizer interface {
	Render(ctx context.Context, text string, width, height int) ([]byte, error)
}

// Compositor burns a cue sequence into a video. It owns the per-cue
// temporary image artifacts: every artifact it creates is deleted
// before Composite returns, success or failure.
type Compositor struct {
	workDir    string
	rasterizer Rasterizer
	engine     Engine
	probe      func(ctx context.Context, videoPath string) (*video.Info, error)
}

func NewCompositor(workDir string, rasterizer Rasterizer) *Compositor {
	return &Compositor{
		workDir:    workDir,
		rasterizer: rasterizer,
		engine:     &ffmpegEngine{},
		probe:      video.Probe,
	}
}

// Composite renders every cue over its [start, end) window and writes
// the result to outputPath, overwriting any existing file. The
// original audio track passes through unchanged.
func (c *Compositor) Composite(
	ctx context.Context,
	videoPath string,
	cues []subtitle.Cue,
	outputPath string,
) (err error) {
	info, err := c.probe(ctx, videoPath)
	if err != nil {
		return err
	}

	var artifacts []*tempArtifact
	defer func() {
		for _, artifact := range artifacts {
			artifact.release()
		}
	}()

	links := make([]Link, 0, len(cues))
	for _, cue := range cues {
		data, renderErr := c.rasterizer.Render(ctx, cue.Text, info.Width, info.Height)
		if renderErr != nil {
			return renderErr
		}

		artifact, createErr := newTempArtifact(c.workDir, data)
		if createErr != nil {
			return createErr
		}
		artifacts = append(artifacts, artifact)

		links = append(links, Link{
			ImagePath: artifact.path,
			StartTime: cue.StartTime,
			EndTime:   cue.EndTime,
		})
	}

	plan := &Plan{
		VideoPath: videoPath,
		Links:     links,
		HasAudio:  info.HasAudio,
	}

	return c.engine.Render(ctx, plan, outputPath)
}

// tempArtifact is a cue image materialized on disk for the duration
// of one render. Names are uuid-based so concurrent runs sharing a
// work directory never collide.
type tempArtifact struct {
	path     string
	released bool
}

func newTempArtifact(dir string, data []byte) (*tempArtifact, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create work directory: %w", err)
	}

	path := filepath.Join(dir, "cue-"+uuid.NewString()+".png")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write cue image: %w", err)
	}

	return &tempArtifact{path: path}, nil
}

func (a *tempArtifact) release() {
	if a.released {
		return
	}
	a.released = true
	_ = os.Remove(a.path)
}
