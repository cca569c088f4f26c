package subtitle

import (
	"strings"
)

// Builder converts transcription segments into an ordered cue sequence.
//
// Segments carrying word-level timing are split into fixed-size word
// groups; everything else becomes a single cue copied verbatim.
type Builder struct {
	// number of words per cue when word-level timing is available
	GroupSize int
}

func NewBuilder() *Builder {
	return &Builder{
		GroupSize: 2,
	}
}

// converts segments to cues, assigning 1-based indices in emission order
func (b *Builder) Build(segments []Segment) ([]Cue, error) {
	groupSize := b.GroupSize
	if groupSize <= 0 {
		groupSize = 2
	}

	var cues []Cue
	index := 1

	for i, seg := range segments {
		if seg.StartTime < 0 {
			return nil, &MalformedSegmentError{
				Index:  i,
				Reason: "negative start time",
			}
		}
		if seg.StartTime > seg.EndTime {
			return nil, &MalformedSegmentError{
				Index:  i,
				Reason: "start time after end time",
			}
		}

		if len(seg.Words) > 0 {
			for _, group := range groupWords(seg.Words, groupSize) {
				text := joinGroup(group)
				if text == "" {
					// a group of blank words would make an empty cue
					continue
				}
				cues = append(cues, Cue{
					Index:     index,
					StartTime: group[0].StartTime,
					EndTime:   group[len(group)-1].EndTime,
					Text:      text,
				})
				index++
			}
			continue
		}

		if strings.TrimSpace(seg.Text) == "" {
			return nil, &MalformedSegmentError{
				Index:  i,
				Reason: "empty text and no word timings",
			}
		}

		cues = append(cues, Cue{
			Index:     index,
			StartTime: seg.StartTime,
			EndTime:   seg.EndTime,
			Text:      seg.Text,
		})
		index++
	}

	return cues, nil
}

// splits words into consecutive groups of at most size words; a short
// trailing group still becomes a cue
func groupWords(words []Word, size int) [][]Word {
	groups := make([][]Word, 0, (len(words)+size-1)/size)
	for start := 0; start < len(words); start += size {
		end := start + size
		if end > len(words) {
			end = len(words)
		}
		groups = append(groups, words[start:end])
	}
	return groups
}

// joins a word group with single spaces, upper-cased for display
func joinGroup(group []Word) string {
	parts := make([]string, 0, len(group))
	for _, w := range group {
		text := strings.TrimSpace(w.Text)
		if text == "" {
			continue
		}
		parts = append(parts, text)
	}
	return strings.ToUpper(strings.Join(parts, " "))
}
