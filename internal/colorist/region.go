package colorist

import (
	"strings"

	"color-profile-backend/internal/models"
)

// Landmark type tags produced by the face detection service. Lookup is
// case-insensitive; first match wins.
const (
	LandmarkLeftCheek    = "left_cheek"
	LandmarkRightCheek   = "right_cheek"
	LandmarkGlabella     = "glabella"
	LandmarkLeftEye      = "left_eye"
	LandmarkRightEye     = "right_eye"
	LandmarkLeftEyebrow  = "left_eyebrow_upper_midpoint"
	LandmarkRightEyebrow = "right_eyebrow_upper_midpoint"
)

// Region is a pixel rectangle used to sample the average color of one facial
// feature. A nil *Region means the feature could not be resolved.
type Region struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RegionSet holds the seven sampling rectangles. Any entry may be nil when
// the required landmark is missing or the rectangle falls outside the image.
type RegionSet struct {
	LeftCheek    *Region
	RightCheek   *Region
	Forehead     *Region
	LeftEye      *Region
	RightEye     *Region
	LeftEyebrow  *Region
	RightEyebrow *Region
}

// ComputeRegions derives the sampling rectangles from normalized landmarks
// and the image dimensions. Cheek and forehead regions use a base unit of 5%
// of the shorter image dimension (minimum 10px). Eye regions are 30% of the
// base (minimum 4px), offset half their size outward toward the temple so the
// sample misses the iris/sclera boundary. Eyebrow regions are 60%x20% of the
// base (minimums 6px/3px), shifted down one region-height to land on brow
// hair. The forehead anchor is the glabella shifted up twice the base size to
// stay clear of the eyebrows.
func ComputeRegions(landmarks []models.Landmark, width, height int) RegionSet {
	if width <= 0 || height <= 0 {
		return RegionSet{}
	}

	shorter := width
	if height < shorter {
		shorter = height
	}
	base := 0.05 * float64(shorter)
	if base < 10 {
		base = 10
	}

	eyeSize := 0.3 * base
	if eyeSize < 4 {
		eyeSize = 4
	}
	browW := 0.6 * base
	if browW < 6 {
		browW = 6
	}
	browH := 0.2 * base
	if browH < 3 {
		browH = 3
	}

	w := float64(width)
	h := float64(height)

	set := RegionSet{}
	if p, ok := findLandmark(landmarks, LandmarkLeftCheek); ok {
		set.LeftCheek = boundedRegion(p.X*w-base/2, p.Y*h-base/2, base, base, w, h)
	}
	if p, ok := findLandmark(landmarks, LandmarkRightCheek); ok {
		set.RightCheek = boundedRegion(p.X*w-base/2, p.Y*h-base/2, base, base, w, h)
	}
	if p, ok := findLandmark(landmarks, LandmarkGlabella); ok {
		set.Forehead = boundedRegion(p.X*w-base/2, p.Y*h-2*base-base/2, base, base, w, h)
	}
	if p, ok := findLandmark(landmarks, LandmarkLeftEye); ok {
		// Left eye sits on the image-left side; outward is toward smaller x.
		set.LeftEye = boundedRegion(p.X*w-eyeSize/2-eyeSize/2, p.Y*h-eyeSize/2, eyeSize, eyeSize, w, h)
	}
	if p, ok := findLandmark(landmarks, LandmarkRightEye); ok {
		set.RightEye = boundedRegion(p.X*w-eyeSize/2+eyeSize/2, p.Y*h-eyeSize/2, eyeSize, eyeSize, w, h)
	}
	if p, ok := findLandmark(landmarks, LandmarkLeftEyebrow); ok {
		set.LeftEyebrow = boundedRegion(p.X*w-browW/2, p.Y*h+browH, browW, browH, w, h)
	}
	if p, ok := findLandmark(landmarks, LandmarkRightEyebrow); ok {
		set.RightEyebrow = boundedRegion(p.X*w-browW/2, p.Y*h+browH, browW, browH, w, h)
	}
	return set
}

type point struct {
	X, Y float64
}

func findLandmark(landmarks []models.Landmark, tag string) (point, bool) {
	for _, lm := range landmarks {
		if lm.Position == nil {
			continue
		}
		if strings.EqualFold(lm.Type, tag) {
			return point{X: lm.Position.X, Y: lm.Position.Y}, true
		}
	}
	return point{}, false
}

// boundedRegion returns the rectangle, or nil if it is degenerate or would
// extend outside the image.
func boundedRegion(left, top, width, height, imgW, imgH float64) *Region {
	if width <= 0 || height <= 0 {
		return nil
	}
	if left < 0 || top < 0 || left+width > imgW || top+height > imgH {
		return nil
	}
	return &Region{Left: left, Top: top, Width: width, Height: height}
}
