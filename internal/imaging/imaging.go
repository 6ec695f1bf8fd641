// Package imaging shrinks oversized uploads before they travel to the model
// server. Phone cameras routinely produce 12MP frames; the face model works on
// small crops, so shipping full-size JPEGs is wasted bandwidth and latency.
package imaging

import (
	"bytes"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

const jpegQuality = 90

// Shrink downscales an image so its longer side is at most maxDim, re-encoding
// as JPEG. Input that is small enough, undecodable, or fails to re-encode is
// returned unchanged - the model server performs its own decoding and is the
// authority on whether an image is usable.
func Shrink(imageData []byte, maxDim int) []byte {
	if maxDim <= 0 {
		return imageData
	}

	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return imageData
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxDim && h <= maxDim {
		return imageData
	}

	outW, outH := w, h
	if w >= h {
		outW = maxDim
		outH = h * maxDim / w
	} else {
		outH = maxDim
		outW = w * maxDim / h
	}
	if outW < 1 {
		outW = 1
	}
	if outH < 1 {
		outH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, outW, outH))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return imageData
	}
	return buf.Bytes()
}
