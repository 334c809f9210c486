package pasteboard

import (
	"sync"

	"golang.design/x/clipboard"

	"github.com/textsnap/textsnap-daemon/pkg/utils"
)

// SystemBoard is the real clipboard backed by golang.design/x/clipboard.
// The library exposes no native change count, so the board derives one by
// fingerprinting the clipboard content on every ChangeCount call.
type SystemBoard struct {
	mu      sync.Mutex
	count   int64
	lastSig string
}

// NewSystemBoard initializes the system clipboard. Fails on headless
// systems without clipboard access; callers fall back to a MemoryBoard.
func NewSystemBoard() (*SystemBoard, error) {
	if err := clipboard.Init(); err != nil {
		return nil, err
	}
	b := &SystemBoard{}
	b.lastSig = b.signature()
	return b, nil
}

func (b *SystemBoard) GetText() string {
	return string(clipboard.Read(clipboard.FmtText))
}

func (b *SystemBoard) SetText(text string) {
	clipboard.Write(clipboard.FmtText, []byte(text))
	b.bump()
}

func (b *SystemBoard) GetImageData() []byte {
	data := clipboard.Read(clipboard.FmtImage)
	if len(data) == 0 {
		return nil
	}
	return data
}

func (b *SystemBoard) SetImageData(data []byte) {
	clipboard.Write(clipboard.FmtImage, data)
	b.bump()
}

func (b *SystemBoard) HasText() bool {
	return len(clipboard.Read(clipboard.FmtText)) > 0
}

func (b *SystemBoard) HasImage() bool {
	return len(clipboard.Read(clipboard.FmtImage)) > 0
}

func (b *SystemBoard) Clear() {
	clipboard.Write(clipboard.FmtText, nil)
	b.bump()
}

// ChangeCount fingerprints the current clipboard content and advances the
// counter when it differs from the last observation.
func (b *SystemBoard) ChangeCount() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	sig := b.signature()
	if sig != b.lastSig {
		b.lastSig = sig
		b.count++
	}
	return b.count
}

// bump records our own writes so the next poll doesn't mistake them for an
// external change.
func (b *SystemBoard) bump() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastSig = b.signature()
	b.count++
}

func (b *SystemBoard) signature() string {
	text := clipboard.Read(clipboard.FmtText)
	img := clipboard.Read(clipboard.FmtImage)
	return utils.QuickHash(text) + "|" + utils.QuickHash(img)
}
