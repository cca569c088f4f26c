package transcribe

import (
	"testing"
)

func TestParseTranscriptJSON(t *testing.T) {
	responseText := `[
		{"start": 0.0, "end": 2.0, "text": " First phrase "},
		{"start": 2.0, "end": 4.5, "text": "Second phrase"}
	]`

	segments, err := parseTranscriptJSON(responseText)
	if err != nil {
		t.Fatalf("parseTranscriptJSON failed: %v", err)
	}

	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}
	if segments[0].Text != "First phrase" {
		t.Errorf("expected trimmed text, got %q", segments[0].Text)
	}
	if segments[1].StartTime != sec(2.0) || segments[1].EndTime != sec(4.5) {
		t.Errorf("segment 1 timing %v-%v", segments[1].StartTime, segments[1].EndTime)
	}
}

func TestParseTranscriptJSONWithWords(t *testing.T) {
	responseText := `[
		{
			"start": 1.0, "end": 3.0, "text": "hello world",
			"words": [
				{"word": "hello", "start": 1.0, "end": 1.5},
				{"word": " world", "start": 1.6, "end": 3.0},
				{"word": "  ", "start": 3.0, "end": 3.0}
			]
		}
	]`

	segments, err := parseTranscriptJSON(responseText)
	if err != nil {
		t.Fatalf("parseTranscriptJSON failed: %v", err)
	}

	words := segments[0].Words
	if len(words) != 2 {
		t.Fatalf("expected 2 words (blank dropped), got %d", len(words))
	}
	if words[1].Text != "world" {
		t.Errorf("expected trimmed word, got %q", words[1].Text)
	}
}

func TestParseTranscriptJSONInvalid(t *testing.T) {
	if _, err := parseTranscriptJSON("not json at all"); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestCleanJSONResponse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			"plain json untouched",
			`[{"start": 0}]`,
			`[{"start": 0}]`,
		},
		{
			"json fence stripped",
			"```json\n[{\"start\": 0}]\n```",
			`[{"start": 0}]`,
		},
		{
			"bare fence stripped",
			"```\n[]\n```",
			`[]`,
		},
		{
			"surrounding whitespace trimmed",
			"  \n[]\n  ",
			`[]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cleanJSONResponse(tt.input)
			if got != tt.want {
				t.Errorf("cleanJSONResponse(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTruncateString(t *testing.T) {
	if got := truncateString("short", 10); got != "short" {
		t.Errorf("expected unchanged string, got %q", got)
	}
	if got := truncateString("abcdefghij", 4); got != "abcd..." {
		t.Errorf("expected truncation, got %q", got)
	}
}
