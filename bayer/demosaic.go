// Package bayer implements the Bayer bilinear demosaic operator
// (spec.md §4.G): converting a filter-array monochrome plane plus a cpat
// pattern into an interleaved RGB image. It is its own package, the same
// way the teacher keeps color-filter-array handling in
// github.com/mdouchement/tiff/bayer rather than inlining it into the
// decoder.
package bayer

import (
	"fmt"

	"github.com/go-imgcore/unc17"
)

func internalError(format string, args ...interface{}) *unc17.Error {
	return &unc17.Error{Kind: unc17.KindInternal, Message: fmt.Sprintf(format, args...)}
}

func unsupportedFeatureError(format string, args ...interface{}) *unc17.Error {
	return &unc17.Error{Kind: unc17.KindUnsupportedFeature, Message: fmt.Sprintf(format, args...)}
}

// offset is one (dx, dy) periodic neighbor used when averaging a channel
// at a pattern position.
type offset struct{ dx, dy int }

// componentTypeToRGBIndex maps an uncompressed-image component type to an
// output channel index, grounded directly on
// original_source/libheif/color-conversion/bayer_bilinear.cc's
// component_type_to_rgb_index: red -> 0, green -> 1, blue -> 2, anything
// else is not convertible.
func componentTypeToRGBIndex(componentType uint16) int {
	switch componentType {
	case unc17.ComponentRed:
		return 0
	case unc17.ComponentGreen:
		return 1
	case unc17.ComponentBlue:
		return 2
	default:
		return -1
	}
}

// neighborOffsetTable precomputes, for every pattern position and every
// RGB channel, the list of (dx, dy) offsets whose periodic neighbor
// carries that channel: a single (0,0) entry for the channel the position
// itself provides, and every non-matching in-period neighbor otherwise
// (spec.md §4.G step 2, bayer_bilinear.cc's neighbor_offsets build).
func neighborOffsetTable(patternChannel []int, pw, ph int) [][3][]offset {
	table := make([][3][]offset, pw*ph)

	searchRadiusX := pw - 1
	searchRadiusY := ph - 1

	for py := 0; py < ph; py++ {
		for px := 0; px < pw; px++ {
			thisCh := patternChannel[py*pw+px]
			offsets := &table[py*pw+px]
			offsets[thisCh] = append(offsets[thisCh], offset{0, 0})

			for dy := -searchRadiusY; dy <= searchRadiusY; dy++ {
				for dx := -searchRadiusX; dx <= searchRadiusX; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					npx := (((px+dx)%pw)+pw) % pw
					npy := (((py+dy)%ph)+ph) % ph
					neighborCh := patternChannel[npy*pw+npx]
					if neighborCh != thisCh {
						offsets[neighborCh] = append(offsets[neighborCh], offset{dx, dy})
					}
				}
			}
		}
	}
	return table
}

// readSample reads the bpp-wide sample at pixel (x, y) from a plane whose
// rows are bpp<=8 ? 1-byte : 2-byte (little-endian) in-memory samples.
func readSample(plane *unc17.Plane, x, y int, bpp uint8) uint32 {
	off := y * plane.Stride
	if bpp <= 8 {
		return uint32(plane.Bytes[off+x])
	}
	off += x * 2
	return uint32(plane.Bytes[off]) | uint32(plane.Bytes[off+1])<<8
}

func writeSample(plane *unc17.Plane, x, y, channel int, bpp uint8, v uint32) {
	off := y*plane.Stride + x*3
	if bpp <= 8 {
		plane.Bytes[off+channel] = byte(v)
		return
	}
	off = y*plane.Stride + (x*3+channel)*2
	plane.Bytes[off] = byte(v)
	plane.Bytes[off+1] = byte(v >> 8)
}

// Demosaic converts a filter-array monochrome Pixel Image into an
// interleaved RGB one, per spec.md §4.G; when the input carries a camera
// color matrix, the result is instead ApplyColorSpaceCorrection's
// interleaved float XYZ image. cmpd resolves the Bayer pattern's
// per-pixel component_index values to the channel each pattern position
// provides. Bit depths outside {8} ∪ (8,16] are rejected as an Internal
// error, matching spec.md §4.G's "Other bit depths -> InternalError".
func Demosaic(img *unc17.Image, cmpd *unc17.Cmpd, limits unc17.SecurityLimits) (*unc17.Image, error) {
	if img.Colorspace != unc17.ColorspaceFilterArray || img.Chroma != unc17.ChromaMonochrome {
		return nil, internalError("Demosaic: input image must be colorspace=filter_array, chroma=monochrome")
	}
	if len(img.Planes) != 1 {
		return nil, internalError("Demosaic: input image must have exactly one plane, got %d", len(img.Planes))
	}
	bp := img.BayerPattern()
	if bp == nil {
		return nil, internalError("Demosaic: input image has no attached Bayer pattern")
	}

	pw, ph := int(bp.PatternWidth), int(bp.PatternHeight)
	if pw == 0 || ph == 0 {
		return nil, internalError("Demosaic: Bayer pattern has zero width or height")
	}

	inPlane := &img.Planes[0]
	bpp := inPlane.BitDepth

	var outChroma unc17.Chroma
	switch {
	case bpp == 8:
		outChroma = unc17.ChromaInterleavedRGB
	case bpp > 8 && bpp <= 16:
		outChroma = unc17.ChromaInterleavedRRGGBBLE
	default:
		return nil, internalError("Demosaic: unsupported bit depth %d", bpp)
	}

	patternChannel := make([]int, pw*ph)
	for i, px := range bp.Pixels {
		if int(px.ComponentIndex) >= len(cmpd.Components) {
			return nil, internalError("Demosaic: Bayer pattern component_index %d has no matching cmpd entry", px.ComponentIndex)
		}
		ch := componentTypeToRGBIndex(cmpd.Components[px.ComponentIndex].ComponentType)
		if ch < 0 {
			return nil, unsupportedFeatureError("Demosaic: Bayer pattern contains component types that cannot convert to RGB")
		}
		patternChannel[i] = ch
	}

	offsets := neighborOffsetTable(patternChannel, pw, ph)

	width, height := img.Width, img.Height
	bytesPerSample := 1
	if bpp > 8 {
		bytesPerSample = 2
	}
	stride := width * 3 * bytesPerSample
	total := uint64(stride) * uint64(height)
	if err := limits.CheckImageSizeBytes(total); err != nil {
		return nil, err
	}

	out := unc17.NewImage(width, height, unc17.ColorspaceRGB, outChroma)
	out.Planes = append(out.Planes, unc17.Plane{
		Channel:  unc17.ChannelInterleaved,
		Datatype: unc17.FormatUnsigned,
		BitDepth: bpp,
		Width:    width,
		Height:   height,
		Stride:   stride,
		Bytes:    make([]byte, total),
	})
	outPlane := &out.Planes[0]

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			posOffsets := &offsets[(y%ph)*pw+(x%pw)]
			for ch := 0; ch < 3; ch++ {
				sum := 0
				count := 0
				for _, o := range posOffsets[ch] {
					nx, ny := x+o.dx, y+o.dy
					if nx < 0 || nx >= width || ny < 0 || ny >= height {
						continue
					}
					sum += int(readSample(inPlane, nx, ny, bpp))
					count++
				}
				var v uint32
				if count > 0 {
					v = uint32((sum + count/2) / count)
				}
				writeSample(outPlane, x, y, ch, bpp, v)
			}
		}
	}

	// spec.md §4.G's sensor calibration note: a Bayer-pattern image that
	// carries a DNG-style camera calibration matrix gets color-space
	// corrected into CIE XYZ immediately after demosaicing, mirroring
	// reader.go's Step 3 (demosaic) -> Step 4 (color space correction)
	// pipeline order.
	if m, ok := img.CameraColorMatrix(); ok {
		out.SetCameraColorMatrix(m)
		return ApplyColorSpaceCorrection(out, limits)
	}

	return out, nil
}
