package colorist_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"color-profile-backend/internal/colorist"
)

func TestContrastRatio_SelfIsOne(t *testing.T) {
	for _, hex := range []string{"#000000", "#ffffff", "#c89b7c"} {
		ratio, err := colorist.ContrastRatio(hex, hex)
		require.NoError(t, err)
		assert.Equal(t, 1.0, ratio, hex)
	}
}

func TestContrastRatio_Symmetric(t *testing.T) {
	ab, err := colorist.ContrastRatio("#c89b7c", "#4b3a2a")
	require.NoError(t, err)
	ba, err := colorist.ContrastRatio("#4b3a2a", "#c89b7c")
	require.NoError(t, err)
	assert.Equal(t, ab, ba)
}

func TestContrastRatio_BlackWhite(t *testing.T) {
	ratio, err := colorist.ContrastRatio("#000000", "#ffffff")
	require.NoError(t, err)
	assert.Equal(t, 21.0, ratio)
}

func TestContrastRatio_InvalidHex(t *testing.T) {
	_, err := colorist.ContrastRatio("not-a-color", "#ffffff")
	assert.Error(t, err)

	_, err = colorist.ContrastRatio("#ffffff", "#12345")
	assert.Error(t, err)
}

func TestCategorizeContrast_Boundaries(t *testing.T) {
	assert.Equal(t, colorist.ContrastLow, colorist.CategorizeContrast(1.0))
	assert.Equal(t, colorist.ContrastLow, colorist.CategorizeContrast(4.49))
	assert.Equal(t, colorist.ContrastMedium, colorist.CategorizeContrast(4.5))
	assert.Equal(t, colorist.ContrastMedium, colorist.CategorizeContrast(6.99))
	assert.Equal(t, colorist.ContrastHigh, colorist.CategorizeContrast(7.0))
	assert.Equal(t, colorist.ContrastHigh, colorist.CategorizeContrast(21.0))
}

func TestEvaluateContrast_NaturalFeatureSet(t *testing.T) {
	// Medium-tan skin, dark brown eyes, near-black hair.
	profile, err := colorist.EvaluateContrast("#C89B7C", "#4B3A2A", "#2C222B")
	require.NoError(t, err)

	assert.InDelta(t, 4.35, profile.SkinEye, 0.01)
	assert.InDelta(t, 6.15, profile.SkinHair, 0.01)
	assert.InDelta(t, 1.41, profile.EyeHair, 0.01)

	// Overall follows the strongest pair: skin/hair is medium while the
	// other two are low.
	assert.Equal(t, colorist.ContrastMedium, profile.Overall)
}

func TestEvaluateContrast_HighOverall(t *testing.T) {
	profile, err := colorist.EvaluateContrast("#ffffff", "#777777", "#000000")
	require.NoError(t, err)
	assert.Equal(t, 21.0, profile.SkinHair)
	assert.Equal(t, colorist.ContrastHigh, profile.Overall)
}

func TestEvaluateContrast_InvalidHair(t *testing.T) {
	_, err := colorist.EvaluateContrast("#ffffff", "#000000", "blonde")
	assert.Error(t, err)
}

func TestRelativeLuminance_Extremes(t *testing.T) {
	assert.Equal(t, 0.0, colorist.RelativeLuminance(colorist.RGB{}))
	assert.InDelta(t, 1.0, colorist.RelativeLuminance(colorist.RGB{R: 255, G: 255, B: 255}), 1e-9)
}
