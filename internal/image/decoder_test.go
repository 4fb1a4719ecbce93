package image

import (
	"bytes"
	goimage "image"
	"image/color"
	"image/png"
	"testing"
)

func encodeTestPNG(t *testing.T, w, h int, c color.RGBA) []byte {
	t.Helper()
	img := goimage.NewRGBA(goimage.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding test png: %v", err)
	}
	return buf.Bytes()
}

func TestStdDecoder_DecodeReportsDimensions(t *testing.T) {
	raw := encodeTestPNG(t, 4, 2, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	decoded, err := StdDecoder{}.Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.Width != 4 || decoded.Height != 2 {
		t.Fatalf("expected 4x2, got %dx%d", decoded.Width, decoded.Height)
	}
	if len(decoded.Pixels) != 4*2*4 {
		t.Fatalf("expected %d RGBA bytes, got %d", 4*2*4, len(decoded.Pixels))
	}
}

func TestStdDecoder_EncodeResizesToTargetWidth(t *testing.T) {
	raw := encodeTestPNG(t, 10, 10, color.RGBA{R: 200, G: 100, B: 50, A: 255})
	decoded, err := StdDecoder{}.Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	handle, err := StdDecoder{}.Encode(decoded, 5)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if handle.Width != 5 {
		t.Fatalf("expected width 5, got %d", handle.Width)
	}
	if len(handle.Payload) != 5*5*4 {
		t.Fatalf("expected %d bytes, got %d", 5*5*4, len(handle.Payload))
	}
	// Every pixel in the solid-color source should resize to the same color.
	if handle.Payload[0] != 200 || handle.Payload[1] != 100 || handle.Payload[2] != 50 {
		t.Fatalf("unexpected resized pixel: %v", handle.Payload[:4])
	}
}

func TestStdDecoder_EncodeZeroWidthPassesThrough(t *testing.T) {
	decoded := &DecodedImage{Pixels: []byte{1, 2, 3, 4}, Width: 1, Height: 1}
	handle, err := StdDecoder{}.Encode(decoded, 0)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if handle.Width != 1 || len(handle.Payload) != 4 {
		t.Fatalf("expected pass-through payload, got %+v", handle)
	}
}
