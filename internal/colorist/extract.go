package colorist

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"sync"

	"color-profile-backend/internal/models"
)

// ExtractedColors is the structured output of the extraction pipeline. Every
// field is independently nilable because any region may fail to resolve.
type ExtractedColors struct {
	SkinHex    *string    `json:"skin_hex,omitempty"`
	EyeHex     *string    `json:"eye_hex,omitempty"`
	EyebrowHex *string    `json:"eyebrow_hex,omitempty"`
	SkinLab    *Lab       `json:"skin_lab,omitempty"`
	Undertone  *Undertone `json:"undertone,omitempty"`
}

// ExtractColors decodes the image and turns landmarks into calibrated skin,
// eye, and eyebrow colors plus an undertone classification. A decode failure
// is an error; individual region failures only null out their fields. The
// three skin regions (cheeks plus forehead) are averaged over however many
// resolved, eye and eyebrow pairs likewise fall back to a single side.
func ExtractColors(imageData []byte, landmarks []models.Landmark) (*ExtractedColors, error) {
	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return ExtractFromImage(img, landmarks), nil
}

// ExtractFromImage runs the pipeline against an already-decoded image.
func ExtractFromImage(img image.Image, landmarks []models.Landmark) *ExtractedColors {
	bounds := img.Bounds()
	regions := ComputeRegions(landmarks, bounds.Dx(), bounds.Dy())

	// The seven samples are independent reads of the same immutable image.
	slots := [...]*Region{
		regions.LeftCheek, regions.RightCheek, regions.Forehead,
		regions.LeftEye, regions.RightEye,
		regions.LeftEyebrow, regions.RightEyebrow,
	}
	var colors [len(slots)]*RGB
	var wg sync.WaitGroup
	for i, region := range slots {
		wg.Add(1)
		go func(i int, region *Region) {
			defer wg.Done()
			colors[i] = AverageColor(img, region)
		}(i, region)
	}
	wg.Wait()

	skin := averageRGB(colors[0], colors[1], colors[2])
	eye := averageRGB(colors[3], colors[4])
	eyebrow := averageRGB(colors[5], colors[6])

	out := &ExtractedColors{}
	if skin != nil {
		hex := skin.Hex()
		out.SkinHex = &hex
		lab := RGBToLab(*skin)
		out.SkinLab = &lab
		undertone := ClassifyUndertone(skin)
		out.Undertone = &undertone
	}
	if eye != nil {
		hex := eye.Hex()
		out.EyeHex = &hex
	}
	if eyebrow != nil {
		hex := eyebrow.Hex()
		out.EyebrowHex = &hex
	}
	return out
}
