package pasteboard

import "sync"

// MemoryBoard is an in-process clipboard used in tests and as a headless
// fallback when the system clipboard is unavailable.
type MemoryBoard struct {
	mu    sync.Mutex
	text  string
	image []byte
	count int64
}

// NewMemoryBoard creates an empty in-memory clipboard.
func NewMemoryBoard() *MemoryBoard {
	return &MemoryBoard{}
}

func (b *MemoryBoard) GetText() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text
}

func (b *MemoryBoard) SetText(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.text = text
	b.image = nil
	b.count++
}

func (b *MemoryBoard) GetImageData() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.image
}

func (b *MemoryBoard) SetImageData(data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.image = data
	b.text = ""
	b.count++
}

func (b *MemoryBoard) HasText() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text != ""
}

func (b *MemoryBoard) HasImage() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.image) > 0
}

func (b *MemoryBoard) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.text = ""
	b.image = nil
	b.count++
}

func (b *MemoryBoard) ChangeCount() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}
