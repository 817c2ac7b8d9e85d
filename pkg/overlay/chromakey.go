package overlay

import (
	"image"
	"math"
)

// chromaKey matches pixels whose red, green and blue each lie within
// tolerance of the key colour. The key's alpha is not compared.
type chromaKey struct {
	r, g, b   uint8
	tolerance uint8
}

func newChromaKey(key [4]float64, tolerance uint8) chromaKey {
	return chromaKey{
		r:         unitToByte(key[0]),
		g:         unitToByte(key[1]),
		b:         unitToByte(key[2]),
		tolerance: tolerance,
	}
}

func unitToByte(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

func (k chromaKey) matches(r, g, b uint8) bool {
	return within(r, k.r, k.tolerance) && within(g, k.g, k.tolerance) && within(b, k.b, k.tolerance)
}

func within(v, target, tolerance uint8) bool {
	if v > target {
		return v-target <= tolerance
	}
	return target-v <= tolerance
}

// apply makes every matching pixel of img fully transparent.
func (k chromaKey) apply(img *image.RGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)]
		for i := 0; i+3 < len(row); i += 4 {
			if k.matches(row[i], row[i+1], row[i+2]) {
				row[i], row[i+1], row[i+2], row[i+3] = 0, 0, 0, 0
			}
		}
	}
}
