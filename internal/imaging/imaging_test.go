package imaging

import (
	"bytes"
	"image"
	"image/jpeg"
	"testing"
)

func encodeTestJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func decodeBounds(t *testing.T, data []byte) (int, int) {
	t.Helper()
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to decode result: %v", err)
	}
	return img.Bounds().Dx(), img.Bounds().Dy()
}

func TestShrinkDownscalesLargeImage(t *testing.T) {
	data := encodeTestJPEG(t, 400, 200)

	out := Shrink(data, 100)
	w, h := decodeBounds(t, out)
	if w != 100 || h != 50 {
		t.Errorf("expected 100x50, got %dx%d", w, h)
	}
}

func TestShrinkPreservesPortraitOrientation(t *testing.T) {
	data := encodeTestJPEG(t, 200, 400)

	out := Shrink(data, 100)
	w, h := decodeBounds(t, out)
	if w != 50 || h != 100 {
		t.Errorf("expected 50x100, got %dx%d", w, h)
	}
}

func TestShrinkKeepsSmallImageUntouched(t *testing.T) {
	data := encodeTestJPEG(t, 50, 50)

	out := Shrink(data, 100)
	if !bytes.Equal(out, data) {
		t.Error("expected small image to pass through unchanged")
	}
}

func TestShrinkPassesThroughUndecodable(t *testing.T) {
	data := []byte("definitely not an image")

	out := Shrink(data, 100)
	if !bytes.Equal(out, data) {
		t.Error("expected undecodable input to pass through unchanged")
	}
}

func TestShrinkDisabled(t *testing.T) {
	data := encodeTestJPEG(t, 400, 400)

	out := Shrink(data, 0)
	if !bytes.Equal(out, data) {
		t.Error("expected maxDim 0 to disable shrinking")
	}
}
