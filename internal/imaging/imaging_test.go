package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func encodePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDecode(t *testing.T) {
	img, err := Decode(encodePNG(t))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if img.Bounds().Dx() != 16 {
		t.Errorf("width = %d, want 16", img.Bounds().Dx())
	}
}

func TestDecodeGarbage(t *testing.T) {
	_, err := Decode([]byte("definitely not an image"))
	if !errors.Is(err, ErrImageLoad) {
		t.Errorf("err = %v, want ErrImageLoad", err)
	}
}

func TestDecodeEmpty(t *testing.T) {
	_, err := Decode(nil)
	if !errors.Is(err, ErrImageLoad) {
		t.Errorf("err = %v, want ErrImageLoad", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.png")
	data := encodePNG(t)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	img, raw, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if img == nil {
		t.Fatal("expected decoded image")
	}
	if !bytes.Equal(raw, data) {
		t.Error("raw bytes do not match the file content")
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, _, err := LoadFile(filepath.Join(t.TempDir(), "nope.png"))
	if !errors.Is(err, ErrImageLoad) {
		t.Errorf("err = %v, want ErrImageLoad", err)
	}
}

func TestPerceptualHash(t *testing.T) {
	img, err := Decode(encodePNG(t))
	if err != nil {
		t.Fatal(err)
	}
	if hash := PerceptualHash(img); hash == "" {
		t.Error("expected non-empty perceptual hash")
	}
}
