package pasteboard

import "testing"

func TestMemoryBoardTextRoundTrip(t *testing.T) {
	b := NewMemoryBoard()

	if b.HasText() {
		t.Error("fresh board reports text")
	}
	b.SetText("hello")
	if !b.HasText() || b.GetText() != "hello" {
		t.Errorf("GetText = %q", b.GetText())
	}
}

func TestMemoryBoardChangeCounter(t *testing.T) {
	b := NewMemoryBoard()

	before := b.ChangeCount()
	if again := b.ChangeCount(); again != before {
		t.Error("counter moved without a write")
	}

	b.SetText("a")
	afterText := b.ChangeCount()
	if afterText == before {
		t.Error("counter did not advance after SetText")
	}

	b.SetImageData([]byte{1, 2, 3})
	if b.ChangeCount() == afterText {
		t.Error("counter did not advance after SetImageData")
	}

	b.Clear()
	if b.ChangeCount() == afterText {
		t.Error("counter did not advance after Clear")
	}
}

func TestMemoryBoardContentExclusive(t *testing.T) {
	b := NewMemoryBoard()

	b.SetImageData([]byte{1, 2, 3})
	if !b.HasImage() || b.HasText() {
		t.Error("image write should replace text")
	}

	b.SetText("text")
	if b.HasImage() || !b.HasText() {
		t.Error("text write should replace image")
	}

	b.Clear()
	if b.HasImage() || b.HasText() {
		t.Error("clear left content behind")
	}
}
