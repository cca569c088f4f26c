package subtitle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// inline ASS-style override tags wrapped around every cue's text;
// timing lines are never touched
type InlineStyle struct {
	FontSize int
	Color    string // BGR hex as used by ASS overrides, e.g. "FFFF00"
}

// SubRip format
type SRTWriter struct {
	// optional styling applied to each cue's display text
	Style *InlineStyle
}

// default styling used by the burn pipeline, matching a yellow
// highlight with a white reset tail
func DefaultInlineStyle() *InlineStyle {
	return &InlineStyle{
		FontSize: 40,
		Color:    "FFFF00",
	}
}

// serializes the subtitle to SRT text
func (w *SRTWriter) Render(sub *Subtitle) string {
	var sb strings.Builder
	for _, cue := range sub.Cues {
		// index (1-based)
		sb.WriteString(fmt.Sprintf("%d\n", cue.Index))

		// timestamps: 00:00:00,000 --> 00:00:00,000
		sb.WriteString(fmt.Sprintf("%s --> %s\n",
			FormatTimestamp(cue.StartTime),
			FormatTimestamp(cue.EndTime)))

		// text
		sb.WriteString(w.styledText(cue.Text))
		sb.WriteString("\n\n")
	}
	return sb.String()
}

// writes the subtitle to an SRT file
func (w *SRTWriter) Write(sub *Subtitle, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(w.Render(sub)), 0644)
}

func (w *SRTWriter) styledText(text string) string {
	if w.Style == nil {
		return text
	}
	return fmt.Sprintf("{\\fs%d\\c&H%s&}%s{\\fs24\\c&HFFFFFF&}",
		w.Style.FontSize, w.Style.Color, text)
}

// formats a duration as HH:MM:SS,mmm with hours always present
func FormatTimestamp(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	millis := int(d.Milliseconds()) % 1000

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, millis)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0755)
}
