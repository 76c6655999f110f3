package colorist

import (
	"fmt"
	"image"
	"image/color"
	"math"
)

// RGB is a color in 8-bit sRGB.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Hex renders the color as "#rrggbb".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseHex parses "#rrggbb" (case-insensitive, leading '#' optional).
func ParseHex(s string) (RGB, error) {
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	if len(s) != 6 {
		return RGB{}, fmt.Errorf("invalid hex color %q", s)
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
		return RGB{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return RGB{R: r, G: g, B: b}, nil
}

// AverageColor computes the arithmetic per-channel mean over the region,
// integer-rounded to pixel coordinates. A nil region, a region that rounds to
// zero pixels, or any geometry outside the image yields nil rather than an
// error so one bad region never aborts the overall extraction.
func AverageColor(img image.Image, region *Region) *RGB {
	if img == nil || region == nil {
		return nil
	}

	bounds := img.Bounds()
	x0 := bounds.Min.X + int(math.Round(region.Left))
	y0 := bounds.Min.Y + int(math.Round(region.Top))
	x1 := x0 + int(math.Round(region.Width))
	y1 := y0 + int(math.Round(region.Height))

	if x0 < bounds.Min.X || y0 < bounds.Min.Y || x1 > bounds.Max.X || y1 > bounds.Max.Y || x0 >= x1 || y0 >= y1 {
		return nil
	}

	var rSum, gSum, bSum, n uint64
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			rSum += uint64(c.R)
			gSum += uint64(c.G)
			bSum += uint64(c.B)
			n++
		}
	}
	if n == 0 {
		return nil
	}
	return &RGB{
		R: uint8(rSum / n),
		G: uint8(gSum / n),
		B: uint8(bSum / n),
	}
}

// averageRGB is the componentwise mean of the non-nil colors; nil when none
// resolved.
func averageRGB(colors ...*RGB) *RGB {
	var rSum, gSum, bSum, n uint64
	for _, c := range colors {
		if c == nil {
			continue
		}
		rSum += uint64(c.R)
		gSum += uint64(c.G)
		bSum += uint64(c.B)
		n++
	}
	if n == 0 {
		return nil
	}
	return &RGB{
		R: uint8(rSum / n),
		G: uint8(gSum / n),
		B: uint8(bSum / n),
	}
}
