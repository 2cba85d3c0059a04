package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
)

// encodePNG encodes a rendered page for engines that take encoded images.
// Compression is kept fast; the payload is decoded again immediately.
func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode page image: %w", err)
	}
	return buf.Bytes(), nil
}

// rectPolygon returns the four corners of r clockwise from the top-left.
func rectPolygon(r image.Rectangle) [][2]float64 {
	return [][2]float64{
		{float64(r.Min.X), float64(r.Min.Y)},
		{float64(r.Max.X), float64(r.Min.Y)},
		{float64(r.Max.X), float64(r.Max.Y)},
		{float64(r.Min.X), float64(r.Max.Y)},
	}
}
