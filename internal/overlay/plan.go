package overlay

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	ffmpegbin "github.com/skanda-dev/subburn/internal/ffmpeg"
)

// Link is one step of the composition chain: it draws one cue image
// over the running video stream while the time gate holds.
type Link struct {
	ImagePath string
	StartTime time.Duration
	EndTime   time.Duration
}

// ffmpeg enable expression restricting the overlay to the cue window
func (l Link) TimeGate() string {
	return fmt.Sprintf("between(t,%s,%s)",
		formatSeconds(l.StartTime),
		formatSeconds(l.EndTime))
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
}

// Plan is an ordered chain of overlay links over a source video. Link
// order is load-bearing: each link's base is the previous link's
// output, so later links draw on top when windows overlap.
type Plan struct {
	VideoPath string
	Links     []Link
	HasAudio  bool
}

// Engine renders a composition plan to an output file.
type Engine interface {
	Render(ctx context.Context, plan *Plan, outputPath string) error
}

// reports a failed render, carrying the engine's diagnostics
type MediaEngineError struct {
	Output string
	Err    error
}

func (e *MediaEngineError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("media engine failed: %v: %s", e.Err, e.Output)
	}
	return fmt.Sprintf("media engine failed: %v", e.Err)
}

func (e *MediaEngineError) Unwrap() error {
	return e.Err
}

// translates plans into ffmpeg filter graphs and runs them
type ffmpegEngine struct{}

func (e *ffmpegEngine) Render(
	ctx context.Context,
	plan *Plan,
	outputPath string,
) error {
	if err := ctx.Err(); err != nil {
		return &MediaEngineError{Err: err}
	}

	ffmpegPath, err := ffmpegbin.FFmpegPath()
	if err != nil {
		return &MediaEngineError{Err: err}
	}

	input := ffmpeg.Input(plan.VideoPath)

	current := input.Video()
	for _, link := range plan.Links {
		image := ffmpeg.Input(link.ImagePath)
		current = ffmpeg.Filter(
			[]*ffmpeg.Stream{current, image},
			"overlay",
			ffmpeg.Args{},
			ffmpeg.KwArgs{
				"x":      "(W-w)/2",
				"y":      "H-h",
				"enable": link.TimeGate(),
			},
		)
	}

	outStreams := []*ffmpeg.Stream{current}
	kwargs := ffmpeg.KwArgs{}
	if plan.HasAudio {
		// original audio passes through untouched
		outStreams = append(outStreams, input.Audio())
		kwargs["c:a"] = "copy"
	}

	var errBuf bytes.Buffer
	cmd := ffmpeg.Output(outStreams, outputPath, kwargs).
		OverWriteOutput().
		SetFfmpegPath(ffmpegPath).
		Compile()
	cmd.Stderr = &errBuf

	if err := cmd.Start(); err != nil {
		return &MediaEngineError{Err: err}
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case <-ctx.Done():
		_ = cmd.Process.Kill()
		<-done
		return &MediaEngineError{
			Output: errBuf.String(),
			Err:    ctx.Err(),
		}
	case err := <-done:
		if err != nil {
			return &MediaEngineError{
				Output: errBuf.String(),
				Err:    err,
			}
		}
	}

	return nil
}
