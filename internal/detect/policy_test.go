package detect

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/textsnap/textsnap-daemon/internal/config"
	"github.com/textsnap/textsnap-daemon/internal/recognition"
)

func settings() config.Settings {
	s := config.DefaultSettings()
	s.Confidence = config.ConfidenceLow
	s.KeepLinebreaks = true
	s.Append = false
	s.Confirmation = false
	return s
}

func TestFilter(t *testing.T) {
	result := recognition.Result{
		{Text: "above", Confidence: 0.81},
		{Text: "exactly", Confidence: 0.8},
		{Text: "below", Confidence: 0.79},
	}

	kept := Filter(result, 0.8)

	want := recognition.Result{
		{Text: "above", Confidence: 0.81},
		{Text: "exactly", Confidence: 0.8},
	}
	if diff := cmp.Diff(want, kept); diff != "" {
		t.Errorf("Filter mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterPreservesOrder(t *testing.T) {
	result := recognition.Result{
		{Text: "z", Confidence: 0.9},
		{Text: "a", Confidence: 0.95},
		{Text: "m", Confidence: 0.85},
	}

	kept := Filter(result, 0.5)
	if diff := cmp.Diff(result, kept); diff != "" {
		t.Errorf("order not preserved (-want +got):\n%s", diff)
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name      string
		settings  func() config.Settings
		result    recognition.Result
		qr        []string
		clipboard string
		wantText  string
		wantClip  string
	}{
		{
			name:     "low threshold keeps both fragments",
			settings: settings,
			result: recognition.Result{
				{Text: "Hello", Confidence: 0.9},
				{Text: "World", Confidence: 0.85},
			},
			wantText: "Hello\nWorld",
			wantClip: "Hello\nWorld",
		},
		{
			name: "high threshold drops low fragment",
			settings: func() config.Settings {
				s := settings()
				s.Confidence = config.ConfidenceHigh
				return s
			},
			result: recognition.Result{
				{Text: "Hello", Confidence: 0.9},
				{Text: "faint", Confidence: 0.5},
			},
			wantText: "Hello",
			wantClip: "Hello",
		},
		{
			name: "linebreaks flattened to spaces",
			settings: func() config.Settings {
				s := settings()
				s.KeepLinebreaks = false
				return s
			},
			result: recognition.Result{
				{Text: "one", Confidence: 0.9},
				{Text: "two", Confidence: 0.9},
				{Text: "three", Confidence: 0.9},
			},
			wantText: "one two three",
			wantClip: "one two three",
		},
		{
			name: "qr payloads appended after text",
			settings: func() config.Settings {
				s := settings()
				s.DetectQRCodes = true
				return s
			},
			result:   recognition.Result{{Text: "caption", Confidence: 0.9}},
			qr:       []string{"https://example.com"},
			wantText: "caption\nhttps://example.com",
			wantClip: "caption\nhttps://example.com",
		},
		{
			name: "qr only result",
			settings: func() config.Settings {
				s := settings()
				s.DetectQRCodes = true
				return s
			},
			qr:       []string{"X", "Y"},
			wantText: "X\nY",
			wantClip: "X\nY",
		},
		{
			name:     "qr ignored when toggle off",
			settings: settings,
			qr:       []string{"X"},
			wantText: "",
		},
		{
			name: "qr block flattened too when linebreaks off",
			settings: func() config.Settings {
				s := settings()
				s.DetectQRCodes = true
				s.KeepLinebreaks = false
				return s
			},
			result:   recognition.Result{{Text: "caption", Confidence: 0.9}},
			qr:       []string{"X", "Y"},
			wantText: "caption X Y",
			wantClip: "caption X Y",
		},
		{
			name: "append to existing clipboard text",
			settings: func() config.Settings {
				s := settings()
				s.Append = true
				return s
			},
			result:    recognition.Result{{Text: "B", Confidence: 0.9}},
			clipboard: "A",
			wantText:  "B",
			wantClip:  "A\nB",
		},
		{
			name: "append to empty clipboard",
			settings: func() config.Settings {
				s := settings()
				s.Append = true
				return s
			},
			result:   recognition.Result{{Text: "B", Confidence: 0.9}},
			wantText: "B",
			wantClip: "B",
		},
		{
			name:     "nothing detected",
			settings: settings,
			result:   recognition.Result{{Text: "faint", Confidence: 0.1}},
			wantText: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.settings(), tt.result, tt.qr, tt.clipboard)

			if got.Text != tt.wantText {
				t.Errorf("Text = %q, want %q", got.Text, tt.wantText)
			}
			if got.ClipboardText != tt.wantClip {
				t.Errorf("ClipboardText = %q, want %q", got.ClipboardText, tt.wantClip)
			}
			if got.Empty() != (tt.wantText == "") {
				t.Errorf("Empty() = %v with text %q", got.Empty(), got.Text)
			}
		})
	}
}

func TestEvaluateConfirmationFlag(t *testing.T) {
	s := settings()
	s.Confirmation = true

	got := Evaluate(s, recognition.Result{{Text: "hi", Confidence: 0.9}}, nil, "")
	if !got.NeedsConfirmation {
		t.Error("expected NeedsConfirmation to be set")
	}

	s.Confirmation = false
	got = Evaluate(s, recognition.Result{{Text: "hi", Confidence: 0.9}}, nil, "")
	if got.NeedsConfirmation {
		t.Error("expected NeedsConfirmation to be unset")
	}
}

func TestEvaluateLinebreakRoundTrip(t *testing.T) {
	s := settings()
	s.KeepLinebreaks = false

	result := recognition.Result{
		{Text: "first", Confidence: 0.9},
		{Text: "second", Confidence: 0.9},
	}
	got := Evaluate(s, result, nil, "")

	if strings.Contains(got.Text, "\n") {
		t.Errorf("flattened text still contains newline: %q", got.Text)
	}
	if !strings.Contains(got.Text, " ") {
		t.Errorf("flattened multi-line text contains no space: %q", got.Text)
	}
}
