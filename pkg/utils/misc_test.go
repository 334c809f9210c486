package utils

import "testing"

func TestHashContent(t *testing.T) {
	a := HashContent([]byte("hello"))
	b := HashContent([]byte("hello"))
	c := HashContent([]byte("world"))

	if a != b {
		t.Error("hash not deterministic")
	}
	if a == c {
		t.Error("distinct content produced the same hash")
	}
	if len(a) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(a))
	}
}

func TestQuickHash(t *testing.T) {
	if QuickHash(nil) != "" {
		t.Error("empty data should hash to empty string")
	}
	if QuickHash([]byte("a")) == QuickHash([]byte("b")) {
		t.Error("distinct content produced the same quick hash")
	}
	if QuickHash([]byte("a")) != QuickHash([]byte("a")) {
		t.Error("quick hash not deterministic")
	}
}
