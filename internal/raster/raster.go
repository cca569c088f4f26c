package raster

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"unicode/utf8"
)

// reports an external rasterizer failure, carrying its diagnostics
type RasterError struct {
	Output string
	Err    error
}

func (e *RasterError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("rasterization failed: %v: %s", e.Err, e.Output)
	}
	return fmt.Sprintf("rasterization failed: %v", e.Err)
}

func (e *RasterError) Unwrap() error {
	return e.Err
}

// Renderer turns cue text into a transparent PNG sized to the target
// video frame, delegating glyph rendering to ImageMagick.
type Renderer struct {
	// column width text is wrapped to before rasterizing
	WrapWidth int
	PointSize int
	Font      string
	// stroke width of the legibility outline
	StrokeWidth int
	// distance in pixels between the text block and the frame bottom
	BottomMargin int

	binaryOnce sync.Once
	binaryPath string
	binaryErr  error
}

func NewRenderer() *Renderer {
	return &Renderer{
		WrapWidth:    30,
		PointSize:    48,
		StrokeWidth:  2,
		BottomMargin: 40,
	}
}

// renders wrapped, centered, outlined text onto a width x height
// transparent canvas and returns the PNG bytes
func (r *Renderer) Render(
	ctx context.Context,
	text string,
	width, height int,
) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, &RasterError{
			Err: fmt.Errorf("invalid canvas size %dx%d", width, height),
		}
	}

	binary, err := r.binary()
	if err != nil {
		return nil, &RasterError{Err: err}
	}

	wrapped := WrapText(text, r.WrapWidth)

	// text sits horizontally centered, anchored above the frame bottom
	args := []string{
		"-size", fmt.Sprintf("%dx%d", width, height),
		"xc:none",
		"-gravity", "south",
		"-pointsize", fmt.Sprintf("%d", r.PointSize),
		"-fill", "white",
		"-stroke", "black",
		"-strokewidth", fmt.Sprintf("%d", r.StrokeWidth),
	}
	if r.Font != "" {
		args = append(args, "-font", r.Font)
	}
	args = append(args,
		"-annotate", fmt.Sprintf("+0+%d", r.BottomMargin),
		wrapped,
		"png:-",
	)

	cmd := exec.CommandContext(ctx, binary, args...)

	var out, errOut bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errOut

	if err := cmd.Run(); err != nil {
		return nil, &RasterError{
			Output: strings.TrimSpace(errOut.String()),
			Err:    err,
		}
	}

	return out.Bytes(), nil
}

// locates the ImageMagick binary once; IM7 installs "magick", older
// releases only "convert"
func (r *Renderer) binary() (string, error) {
	r.binaryOnce.Do(func() {
		for _, name := range []string{"magick", "convert"} {
			if found, err := exec.LookPath(name); err == nil {
				r.binaryPath = found
				return
			}
		}
		r.binaryErr = fmt.Errorf(
			"ImageMagick not found: install it or put magick/convert on PATH",
		)
	})
	return r.binaryPath, r.binaryErr
}

// WrapText greedily wraps text into lines of at most width runes so
// long cues render as multiple visual lines instead of overflowing.
func WrapText(text string, width int) string {
	if width <= 0 {
		return text
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return text
	}

	var lines []string
	current := words[0]

	for _, word := range words[1:] {
		if utf8.RuneCountInString(current)+1+utf8.RuneCountInString(word) <= width {
			current += " " + word
		} else {
			lines = append(lines, current)
			current = word
		}
	}
	lines = append(lines, current)

	return strings.Join(lines, "\n")
}
