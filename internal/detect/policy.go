// Package detect holds the pure decision logic that turns raw recognition
// output into the text committed to the clipboard.
package detect

import (
	"strings"

	"github.com/textsnap/textsnap-daemon/internal/config"
	"github.com/textsnap/textsnap-daemon/internal/recognition"
)

// Decision is the policy's output for one processed image.
type Decision struct {
	// Text is the final detected text; "" means "no text" and the caller
	// must not touch the clipboard.
	Text string

	// ClipboardText is the value to commit, already merged with the
	// current clipboard when append mode is on.
	ClipboardText string

	// NeedsConfirmation is set when a human must approve the commit.
	NeedsConfirmation bool
}

// Empty reports whether the policy detected nothing.
func (d Decision) Empty() bool {
	return d.Text == ""
}

// Filter keeps the fragments whose confidence is at least threshold,
// preserving order.
func Filter(result recognition.Result, threshold float64) recognition.Result {
	var kept recognition.Result
	for _, frag := range result {
		if frag.Confidence >= threshold {
			kept = append(kept, frag)
		}
	}
	return kept
}

// Evaluate applies the detection policy: confidence filtering, fragment
// joining, QR payload appending, linebreak handling and the clipboard
// merge. clipboardText is the current clipboard text, "" when the
// clipboard holds no text; it is only consulted in append mode.
func Evaluate(s config.Settings, result recognition.Result, qrPayloads []string, clipboardText string) Decision {
	kept := Filter(result, s.Confidence.Threshold())

	parts := make([]string, 0, len(kept))
	for _, frag := range kept {
		parts = append(parts, frag.Text)
	}
	text := strings.Join(parts, "\n")

	if s.DetectQRCodes && len(qrPayloads) > 0 {
		qrBlock := strings.Join(qrPayloads, "\n")
		if text != "" {
			text = text + "\n" + qrBlock
		} else {
			text = qrBlock
		}
	}

	if !s.KeepLinebreaks {
		text = strings.ReplaceAll(text, "\n", " ")
	}

	if text == "" {
		return Decision{}
	}

	clipboard := text
	if s.Append && clipboardText != "" {
		clipboard = clipboardText + "\n" + text
	}

	return Decision{
		Text:              text,
		ClipboardText:     clipboard,
		NeedsConfirmation: s.Confirmation,
	}
}
