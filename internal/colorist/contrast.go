package colorist

import "math"

// ContrastLevel buckets a WCAG contrast ratio.
type ContrastLevel string

const (
	ContrastLow    ContrastLevel = "low"
	ContrastMedium ContrastLevel = "medium"
	ContrastHigh   ContrastLevel = "high"
)

// ContrastProfile holds the three pairwise ratios and the overall bucket.
// Overall is the most favorable bucket reached by any single pair.
type ContrastProfile struct {
	SkinEye  float64       `json:"skin_eye"`
	SkinHair float64       `json:"skin_hair"`
	EyeHair  float64       `json:"eye_hair"`
	Overall  ContrastLevel `json:"overall"`
}

// RelativeLuminance is the WCAG relative luminance of an sRGB color.
func RelativeLuminance(c RGB) float64 {
	r := linearizeWCAG(float64(c.R) / 255.0)
	g := linearizeWCAG(float64(c.G) / 255.0)
	b := linearizeWCAG(float64(c.B) / 255.0)
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// WCAG 2.0 uses the 0.03928 breakpoint rather than the sRGB 0.04045 one.
func linearizeWCAG(v float64) float64 {
	if v <= 0.03928 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// ContrastRatio computes (Lmax + 0.05) / (Lmin + 0.05) between two hex
// colors, rounded to two decimals.
func ContrastRatio(hexA, hexB string) (float64, error) {
	a, err := ParseHex(hexA)
	if err != nil {
		return 0, err
	}
	b, err := ParseHex(hexB)
	if err != nil {
		return 0, err
	}
	la := RelativeLuminance(a)
	lb := RelativeLuminance(b)
	if lb > la {
		la, lb = lb, la
	}
	ratio := (la + 0.05) / (lb + 0.05)
	return math.Round(ratio*100) / 100, nil
}

// CategorizeContrast buckets a single ratio.
func CategorizeContrast(ratio float64) ContrastLevel {
	switch {
	case ratio >= 7:
		return ContrastHigh
	case ratio >= 4.5:
		return ContrastMedium
	default:
		return ContrastLow
	}
}

// EvaluateContrast computes the skin/eye, skin/hair, and eye/hair ratios and
// the overall category. Hair comes from the questionnaire, not the image.
func EvaluateContrast(skinHex, eyeHex, hairHex string) (*ContrastProfile, error) {
	skinEye, err := ContrastRatio(skinHex, eyeHex)
	if err != nil {
		return nil, err
	}
	skinHair, err := ContrastRatio(skinHex, hairHex)
	if err != nil {
		return nil, err
	}
	eyeHair, err := ContrastRatio(eyeHex, hairHex)
	if err != nil {
		return nil, err
	}

	overall := CategorizeContrast(skinEye)
	for _, r := range []float64{skinHair, eyeHair} {
		if level := CategorizeContrast(r); contrastRank(level) > contrastRank(overall) {
			overall = level
		}
	}

	return &ContrastProfile{
		SkinEye:  skinEye,
		SkinHair: skinHair,
		EyeHair:  eyeHair,
		Overall:  overall,
	}, nil
}

func contrastRank(level ContrastLevel) int {
	switch level {
	case ContrastHigh:
		return 2
	case ContrastMedium:
		return 1
	default:
		return 0
	}
}
