package unc17

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddPlaneComputesStrideAndAllocates(t *testing.T) {
	img := NewImage(5, 3, ColorspaceRGB, Chroma444)
	p, err := img.AddPlane(ComponentRed, 5, 3, 8, DefaultSecurityLimits())
	require.NoError(t, err)
	require.Equal(t, 5, p.Stride)
	require.Len(t, p.Bytes, 15)

	p2, err := img.AddPlane(ComponentY, 3, 2, 10, DefaultSecurityLimits())
	require.NoError(t, err)
	require.Equal(t, 6, p2.Stride) // 3 samples * 2 bytes
	require.Len(t, p2.Bytes, 12)
}

func TestAddPlaneRejectsInvalidDimensionsAndBitDepth(t *testing.T) {
	img := NewImage(1, 1, ColorspaceRGB, Chroma444)
	_, err := img.AddPlane(ComponentRed, 0, 1, 8, DefaultSecurityLimits())
	require.Error(t, err)
	_, err = img.AddPlane(ComponentRed, 1, 1, 0, DefaultSecurityLimits())
	require.Error(t, err)
	_, err = img.AddPlane(ComponentRed, 1, 1, 33, DefaultSecurityLimits())
	require.Error(t, err)
}

func TestAddPlaneRejectsOversizeAllocation(t *testing.T) {
	img := NewImage(1, 1, ColorspaceRGB, Chroma444)
	limits := SecurityLimits{MaxImageSizeBytes: 10}
	_, err := img.AddPlane(ComponentRed, 100, 100, 8, limits)
	require.Error(t, err)
}

func TestImageAttachmentRoundTrips(t *testing.T) {
	img := NewImage(4, 4, ColorspaceFilterArray, ChromaMonochrome)

	img.SetBayerPattern(BayerPattern{PatternWidth: 2, PatternHeight: 2})
	require.NotNil(t, img.BayerPattern())
	require.EqualValues(t, 2, img.BayerPattern().PatternWidth)

	img.AddBadPixelsMap(BadPixelsMap{BadRows: []uint32{1}})
	require.Len(t, img.BadPixelsMaps(), 1)

	img.AddNUC(SensorNonUniformityCorrection{ImageWidth: 4, ImageHeight: 4})
	require.Len(t, img.NUCs(), 1)

	img.SetChromaLocation(ChromaLocCenter)
	loc, ok := img.ChromaLocation()
	require.True(t, ok)
	require.EqualValues(t, ChromaLocCenter, loc)

	_, ok = NewImage(1, 1, ColorspaceRGB, Chroma444).ChromaLocation()
	require.False(t, ok)
}

func TestPolarizationPatternForPrefersExplicitMatchOverFallback(t *testing.T) {
	img := NewImage(2, 2, ColorspaceRGB, Chroma444)
	fallback := PolarizationPattern{PatternWidth: 1, PatternHeight: 1, PolarizationAngles: []float32{0}}
	explicit := PolarizationPattern{ComponentIndices: []uint32{2}, PatternWidth: 1, PatternHeight: 1, PolarizationAngles: []float32{45}}

	img.AddPolarizationPattern(fallback)
	img.AddPolarizationPattern(explicit)

	got, ok := img.PolarizationPatternFor(2)
	require.True(t, ok)
	require.Equal(t, explicit, got)

	got, ok = img.PolarizationPatternFor(9)
	require.True(t, ok)
	require.Equal(t, fallback, got)
}

func TestPolarizationPatternForNoPatternsReturnsFalse(t *testing.T) {
	img := NewImage(2, 2, ColorspaceRGB, Chroma444)
	_, ok := img.PolarizationPatternFor(0)
	require.False(t, ok)
}

func TestGetComponentAccessorsRejectOutOfRangeIndex(t *testing.T) {
	img := NewImage(2, 2, ColorspaceRGB, Chroma444)
	_, _, err := img.GetComponent(0)
	require.Error(t, err)
	_, err = img.GetComponentBitsPerPixel(0)
	require.Error(t, err)
	_, err = img.GetComponentDatatype(0)
	require.Error(t, err)
}

func TestGetComponentAccessorsReturnPlaneFields(t *testing.T) {
	img := NewImage(2, 2, ColorspaceRGB, Chroma444)
	_, err := img.AddPlane(ComponentRed, 2, 2, 8, DefaultSecurityLimits())
	require.NoError(t, err)

	bytes, stride, err := img.GetComponent(0)
	require.NoError(t, err)
	require.Len(t, bytes, 4)
	require.Equal(t, 2, stride)

	bpp, err := img.GetComponentBitsPerPixel(0)
	require.NoError(t, err)
	require.EqualValues(t, 8, bpp)

	dt, err := img.GetComponentDatatype(0)
	require.NoError(t, err)
	require.EqualValues(t, FormatUnsigned, dt)
}
