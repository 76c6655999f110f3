package colorist

import "math"

// Undertone is the skin color-temperature classification.
type Undertone string

const (
	UndertoneWarm         Undertone = "warm"
	UndertoneCool         Undertone = "cool"
	UndertoneNeutral      Undertone = "neutral"
	UndertoneOlive        Undertone = "olive"
	UndertoneUndetermined Undertone = "undetermined"
)

// Lab is a color in CIE L*a*b* (D65 reference white).
type Lab struct {
	L float64 `json:"l"`
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// RGBToLab converts 8-bit sRGB to CIE Lab via linear RGB and XYZ, D65 white.
func RGBToLab(c RGB) Lab {
	r := srgbToLinear(float64(c.R) / 255.0)
	g := srgbToLinear(float64(c.G) / 255.0)
	b := srgbToLinear(float64(c.B) / 255.0)

	// sRGB D65 matrix, normalized so white maps to (0.95047, 1.0, 1.08883).
	x := (0.4124564*r + 0.3575761*g + 0.1804375*b) / 0.95047
	y := 0.2126729*r + 0.7151522*g + 0.0721750*b
	z := (0.0193339*r + 0.1191920*g + 0.9503041*b) / 1.08883

	fx := labF(x)
	fy := labF(y)
	fz := labF(z)

	return Lab{
		L: 116*fy - 16,
		A: 500 * (fx - fy),
		B: 200 * (fy - fz),
	}
}

func srgbToLinear(v float64) float64 {
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

func labF(t float64) float64 {
	const epsilon = 0.008856
	const kappa = 903.3
	if t > epsilon {
		return math.Cbrt(t)
	}
	return (kappa*t + 16) / 116
}

// ClassifyUndertone classifies the color's Lab point. A nil color is
// undetermined.
func ClassifyUndertone(c *RGB) Undertone {
	if c == nil {
		return UndertoneUndetermined
	}
	return ClassifyLab(RGBToLab(*c))
}

// ClassifyLab buckets a Lab point into the undertone taxonomy. The rules are
// ordered and exclusive-first-match; the thresholds are contract values.
func ClassifyLab(lab Lab) Undertone {
	a, b := lab.A, lab.B

	inOlive := a >= -6 && a <= 6 && b >= 8 && b <= 24
	isWarm := b >= 15 && a >= 0

	switch {
	case math.Abs(a) <= 8 && math.Abs(b) <= 8:
		return UndertoneNeutral
	case isWarm:
		return UndertoneWarm
	case b <= 9 && a <= 12 && !(a >= -6 && a <= 6 && b >= 8):
		return UndertoneCool
	case inOlive && !isWarm:
		return UndertoneOlive
	default:
		return UndertoneUndetermined
	}
}
