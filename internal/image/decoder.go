package image

import (
	"bytes"
	goimage "image"
	"image/draw"

	// Registers the GIF/JPEG/PNG decoders with image.Decode so the
	// format-sniffing registry covers whichever format Jellyfin served.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// StdDecoder is the baseline Decoder built entirely on the standard
// image package, decoding any registered format via image.Decode's
// format-sniffing registry. Encode does a nearest-neighbor resize into
// raw RGBA bytes; turning that buffer into an actual terminal graphics
// escape sequence (kitty/sixel) is the terminal-graphics backend's job,
// not this default's.
type StdDecoder struct{}

func (StdDecoder) Decode(raw []byte) (*DecodedImage, error) {
	img, _, err := goimage.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	rgba := goimage.NewRGBA(goimage.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return &DecodedImage{Pixels: rgba.Pix, Width: b.Dx(), Height: b.Dy()}, nil
}

func (StdDecoder) Encode(img *DecodedImage, width int) (*ProtocolHandle, error) {
	if width <= 0 || img.Width == 0 {
		return &ProtocolHandle{Payload: img.Pixels, Width: img.Width}, nil
	}
	height := img.Height * width / img.Width
	if height <= 0 {
		height = 1
	}
	out := make([]byte, width*height*4)
	for y := 0; y < height; y++ {
		sy := y * img.Height / height
		for x := 0; x < width; x++ {
			sx := x * img.Width / width
			srcOff := (sy*img.Width + sx) * 4
			dstOff := (y*width + x) * 4
			copy(out[dstOff:dstOff+4], img.Pixels[srcOff:srcOff+4])
		}
	}
	return &ProtocolHandle{Payload: out, Width: width}, nil
}
