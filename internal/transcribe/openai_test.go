package transcribe

import (
	"testing"
	"time"
)

func sec(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func TestParseVerboseJSONSegments(t *testing.T) {
	rawJSON := `{
		"text": "Hello world. Goodbye.",
		"language": "english",
		"duration": 5.0,
		"segments": [
			{"start": 0.0, "end": 2.5, "text": " Hello world."},
			{"start": 2.5, "end": 5.0, "text": " Goodbye."}
		]
	}`

	segments, err := parseVerboseJSON(rawJSON, 5*time.Second)
	if err != nil {
		t.Fatalf("parseVerboseJSON failed: %v", err)
	}

	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}
	if segments[0].Text != "Hello world." {
		t.Errorf("expected trimmed text, got %q", segments[0].Text)
	}
	if segments[0].StartTime != 0 || segments[0].EndTime != sec(2.5) {
		t.Errorf("segment 0 timing %v-%v", segments[0].StartTime, segments[0].EndTime)
	}
	if len(segments[0].Words) != 0 {
		t.Errorf("expected no words without word granularity, got %d", len(segments[0].Words))
	}
}

func TestParseVerboseJSONWords(t *testing.T) {
	rawJSON := `{
		"text": "Hello world",
		"duration": 3.0,
		"segments": [
			{"start": 1.0, "end": 3.0, "text": "hello world"}
		],
		"words": [
			{"word": " hello", "start": 1.0, "end": 1.5},
			{"word": "world ", "start": 1.6, "end": 3.0}
		]
	}`

	segments, err := parseVerboseJSON(rawJSON, 3*time.Second)
	if err != nil {
		t.Fatalf("parseVerboseJSON failed: %v", err)
	}

	if len(segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segments))
	}

	words := segments[0].Words
	if len(words) != 2 {
		t.Fatalf("expected 2 words, got %d", len(words))
	}
	if words[0].Text != "hello" || words[1].Text != "world" {
		t.Errorf("expected trimmed words, got %q %q", words[0].Text, words[1].Text)
	}
	if words[0].StartTime != sec(1.0) || words[0].EndTime != sec(1.5) {
		t.Errorf("word 0 timing %v-%v", words[0].StartTime, words[0].EndTime)
	}
}

func TestParseVerboseJSONWordsAcrossSegments(t *testing.T) {
	rawJSON := `{
		"text": "a b",
		"segments": [
			{"start": 0.0, "end": 1.0, "text": "a"},
			{"start": 1.0, "end": 2.0, "text": "b"}
		],
		"words": [
			{"word": "a", "start": 0.2, "end": 0.8},
			{"word": "b", "start": 1.2, "end": 1.8}
		]
	}`

	segments, err := parseVerboseJSON(rawJSON, 2*time.Second)
	if err != nil {
		t.Fatalf("parseVerboseJSON failed: %v", err)
	}

	// each word lands in the segment whose window contains its start
	if len(segments[0].Words) != 1 || segments[0].Words[0].Text != "a" {
		t.Errorf("segment 0 words: %+v", segments[0].Words)
	}
	if len(segments[1].Words) != 1 || segments[1].Words[0].Text != "b" {
		t.Errorf("segment 1 words: %+v", segments[1].Words)
	}
}

func TestParseVerboseJSONTextOnlyFallback(t *testing.T) {
	rawJSON := `{"text": "just text", "duration": 7.5}`

	segments, err := parseVerboseJSON(rawJSON, time.Minute)
	if err != nil {
		t.Fatalf("parseVerboseJSON failed: %v", err)
	}

	if len(segments) != 1 {
		t.Fatalf("expected 1 whole-file segment, got %d", len(segments))
	}
	if segments[0].EndTime != sec(7.5) {
		t.Errorf("expected reported duration 7.5s, got %v", segments[0].EndTime)
	}
	if segments[0].Text != "just text" {
		t.Errorf("unexpected text %q", segments[0].Text)
	}
}

func TestParseVerboseJSONErrors(t *testing.T) {
	tests := []struct {
		name    string
		rawJSON string
	}{
		{"empty payload", ""},
		{"invalid json", "{nope"},
		{"no segments or text", `{"language": "en"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseVerboseJSON(tt.rawJSON, time.Second); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
