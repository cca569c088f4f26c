package overlay

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/skanda-dev/subburn/internal/subtitle"
	"github.com/skanda-dev/subburn/internal/video"
)

func sec(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// rasterizer that returns fixed bytes, or fails after a set number
// of successful renders
type stubRasterizer struct {
	renders   int
	failAfter int // 0 means never fail
}

func (r *stubRasterizer) Render(ctx context.Context, text string, width, height int) ([]byte, error) {
	if r.failAfter > 0 && r.renders >= r.failAfter {
		return nil, fmt.Errorf("rasterizer exploded on %q", text)
	}
	r.renders++
	return []byte("png-bytes-" + text), nil
}

// engine that records the plan it was given and can be told to fail
type stubEngine struct {
	plan        *Plan
	outputPath  string
	err         error
	livePaths   []string // artifact paths that existed at render time
	missingPath bool
}

func (e *stubEngine) Render(ctx context.Context, plan *Plan, outputPath string) error {
	e.plan = plan
	e.outputPath = outputPath
	for _, link := range plan.Links {
		if _, statErr := os.Stat(link.ImagePath); statErr != nil {
			e.missingPath = true
		} else {
			e.livePaths = append(e.livePaths, link.ImagePath)
		}
	}
	return e.err
}

func stubProbe(width, height int) func(context.Context, string) (*video.Info, error) {
	return func(ctx context.Context, videoPath string) (*video.Info, error) {
		return &video.Info{
			Path:     videoPath,
			Width:    width,
			Height:   height,
			HasAudio: true,
		}, nil
	}
}

func testCues() []subtitle.Cue {
	return []subtitle.Cue{
		{Index: 1, StartTime: sec(1.0), EndTime: sec(1.5), Text: "HELLO THERE"},
		{Index: 2, StartTime: sec(1.6), EndTime: sec(3.0), Text: "GENERAL KENOBI"},
		{Index: 3, StartTime: sec(3.1), EndTime: sec(5.0), Text: "GOODBYE"},
	}
}

func TestCompositePlanOrder(t *testing.T) {
	workDir := t.TempDir()
	engine := &stubEngine{}
	compositor := &Compositor{
		workDir:    workDir,
		rasterizer: &stubRasterizer{},
		engine:     engine,
		probe:      stubProbe(1280, 720),
	}

	cues := testCues()
	err := compositor.Composite(context.Background(), "input.mp4", cues, "out.mp4")
	if err != nil {
		t.Fatalf("Composite failed: %v", err)
	}

	if engine.plan == nil {
		t.Fatal("engine never received a plan")
	}
	if len(engine.plan.Links) != len(cues) {
		t.Fatalf("expected %d links, got %d", len(cues), len(engine.plan.Links))
	}

	// links preserve cue order and carry the cue windows
	for i, link := range engine.plan.Links {
		if link.StartTime != cues[i].StartTime || link.EndTime != cues[i].EndTime {
			t.Errorf("link %d window %v-%v, want %v-%v",
				i, link.StartTime, link.EndTime, cues[i].StartTime, cues[i].EndTime)
		}
	}

	if engine.missingPath {
		t.Error("an artifact was missing while the engine ran")
	}
	if !engine.plan.HasAudio {
		t.Error("plan lost the audio stream")
	}
}

func TestCompositeCleansUpOnSuccess(t *testing.T) {
	workDir := t.TempDir()
	compositor := &Compositor{
		workDir:    workDir,
		rasterizer: &stubRasterizer{},
		engine:     &stubEngine{},
		probe:      stubProbe(1920, 1080),
	}

	err := compositor.Composite(context.Background(), "input.mp4", testCues(), "out.mp4")
	if err != nil {
		t.Fatalf("Composite failed: %v", err)
	}

	assertNoLeftovers(t, workDir)
}

func TestCompositeCleansUpOnEngineFailure(t *testing.T) {
	workDir := t.TempDir()
	engine := &stubEngine{err: &MediaEngineError{Output: "boom", Err: errors.New("exit 1")}}
	compositor := &Compositor{
		workDir:    workDir,
		rasterizer: &stubRasterizer{},
		engine:     engine,
		probe:      stubProbe(1920, 1080),
	}

	err := compositor.Composite(context.Background(), "input.mp4", testCues(), "out.mp4")
	if err == nil {
		t.Fatal("expected engine error")
	}

	var engineErr *MediaEngineError
	if !errors.As(err, &engineErr) {
		t.Fatalf("expected MediaEngineError, got %T: %v", err, err)
	}
	if engineErr.Output != "boom" {
		t.Errorf("expected diagnostics to survive, got %q", engineErr.Output)
	}

	// every artifact materialized before the failure is gone
	if len(engine.livePaths) != 3 {
		t.Fatalf("expected 3 artifacts at render time, got %d", len(engine.livePaths))
	}
	assertNoLeftovers(t, workDir)
}

func TestCompositeCleansUpOnRasterFailure(t *testing.T) {
	workDir := t.TempDir()
	compositor := &Compositor{
		workDir:    workDir,
		rasterizer: &stubRasterizer{failAfter: 2},
		engine:     &stubEngine{},
		probe:      stubProbe(1920, 1080),
	}

	err := compositor.Composite(context.Background(), "input.mp4", testCues(), "out.mp4")
	if err == nil {
		t.Fatal("expected raster error")
	}

	// the two artifacts created before the failure are gone
	assertNoLeftovers(t, workDir)
}

func TestCompositeArtifactNamesAreUnique(t *testing.T) {
	workDir := t.TempDir()
	engine := &stubEngine{}
	compositor := &Compositor{
		workDir:    workDir,
		rasterizer: &stubRasterizer{},
		engine:     engine,
		probe:      stubProbe(640, 480),
	}

	err := compositor.Composite(context.Background(), "input.mp4", testCues(), "out.mp4")
	if err != nil {
		t.Fatalf("Composite failed: %v", err)
	}

	seen := map[string]bool{}
	for _, path := range engine.livePaths {
		if seen[path] {
			t.Errorf("artifact path reused: %s", path)
		}
		seen[path] = true
	}
}

func TestTimeGate(t *testing.T) {
	link := Link{StartTime: sec(1.0), EndTime: sec(3.25)}
	want := "between(t,1.000,3.250)"
	if got := link.TimeGate(); got != want {
		t.Errorf("TimeGate = %q, want %q", got, want)
	}
}

func TestEngineRenderCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := &ffmpegEngine{}
	err := engine.Render(ctx, &Plan{VideoPath: "input.mp4"}, "out.mp4")
	if err == nil {
		t.Fatal("expected error for canceled context")
	}

	var engineErr *MediaEngineError
	if !errors.As(err, &engineErr) {
		t.Fatalf("expected MediaEngineError, got %T: %v", err, err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled in the chain, got %v", err)
	}
}

func assertNoLeftovers(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read work dir: %v", err)
	}
	for _, entry := range entries {
		t.Errorf("leftover temp artifact: %s", filepath.Join(dir, entry.Name()))
	}
}
