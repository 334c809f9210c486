// Package pasteboard wraps the system clipboard behind a change-counted
// interface. The system backend uses golang.design/x/clipboard; a memory
// backend serves tests and headless environments.
package pasteboard

// Board is the host clipboard service. The change counter increases
// whenever the clipboard content is observed to differ from the last
// observation; counter equality across two reads means "no change seen",
// best effort against true OS races.
type Board interface {
	// GetText returns the clipboard text, "" when the clipboard holds no
	// text.
	GetText() string

	// SetText replaces the clipboard content with text.
	SetText(text string)

	// GetImageData returns the clipboard image as encoded bytes (PNG for
	// the system backend), nil when the clipboard holds no image.
	GetImageData() []byte

	// SetImageData replaces the clipboard content with encoded image bytes.
	SetImageData(data []byte)

	// HasText reports whether the clipboard currently holds text.
	HasText() bool

	// HasImage reports whether the clipboard currently holds an image.
	HasImage() bool

	// Clear empties the clipboard.
	Clear()

	// ChangeCount returns the current value of the change counter.
	ChangeCount() int64
}
