package unc17

// Colorspace classifies what a Pixel Image's planes represent (spec.md §3).
type Colorspace int

const (
	ColorspaceRGB Colorspace = iota
	ColorspaceYCbCr
	ColorspaceMonochrome
	ColorspaceFilterArray
	ColorspaceNonvisual
)

// Chroma names the subsampling/interleave layout of a Pixel Image's planes
// (spec.md §3, §4.G).
type Chroma int

const (
	Chroma444 Chroma = iota
	Chroma422
	Chroma420
	ChromaMonochrome
	// ChromaInterleavedRGB is the demosaic operator's 8bpp output layout
	// (spec.md §4.G).
	ChromaInterleavedRGB
	// ChromaInterleavedRRGGBBLE is the demosaic operator's >8bpp output
	// layout, little-endian 16-bit samples (spec.md §4.G).
	ChromaInterleavedRRGGBBLE
)

// ChannelInterleaved marks a plane whose samples are pixel-interleaved
// (e.g. the Bayer demosaic operator's RGB output) rather than tied to a
// single cmpd channel tag. No cmpd ComponentXxx constant collides with
// this reserved value (the named constants top out at ComponentCustomBase,
// 0x8000; custom component types above it are not excluded).
const ChannelInterleaved = 0xFFFF

// Plane is one component's pixel storage: row-stride-aligned bytes, the
// channel tag it carries (one of the cmpd ComponentXxx constants), its
// datatype (uncC FormatXxx), and its bit depth. Width/Height are the
// plane's own dimensions, which may be smaller than the image's for
// subsampled chroma (spec.md §4.C).
type Plane struct {
	Channel   uint16
	Datatype  uint8
	BitDepth  uint8
	Width     int
	Height    int
	Stride    int
	Bytes     []byte
	// ComponentType is set only for a nonvisual image's planes, where the
	// component's meaning cannot be expressed as a channel tag
	// (spec.md §3: "A nonvisual image additionally records component_type
	// per component independently of any channel tag.").
	ComponentType uint16
}

// Image is the in-memory raster the decoder produces and the encoder
// consumes: per-component planes plus the sensor-metadata attachments that
// travel alongside them (spec.md §3, §4.C). The Image exclusively owns all
// plane memory; attachments are stored and copied by value, never shared
// by reference, matching spec.md §3's ownership rule and §5's "no
// reference cycles" resource policy.
type Image struct {
	Width      int
	Height     int
	Colorspace Colorspace
	Chroma     Chroma

	Planes []Plane

	bayer             *BayerPattern
	polarizations     []PolarizationPattern
	badPixelMaps      []BadPixelsMap
	nucs              []SensorNonUniformityCorrection
	chromaLocation    *uint8
	cameraColorMatrix *[9]float32
}

// NewImage creates an empty Pixel Image of the given dimensions,
// colorspace, and chroma layout (spec.md §4.C's create operation).
func NewImage(width, height int, colorspace Colorspace, chroma Chroma) *Image {
	return &Image{Width: width, Height: height, Colorspace: colorspace, Chroma: chroma}
}

// planeStride computes the row stride for a plane of the given width and
// bit depth: one in-memory sample per pixel of 1 byte (bits <= 8), 2 bytes
// (bits <= 16) or 4 bytes (bits <= 32), the layout the encoder, decoder and
// demosaic operator read and write.
func planeStride(width int, bitDepth uint8) int {
	switch {
	case bitDepth <= 8:
		return width
	case bitDepth <= 16:
		return width * 2
	default:
		return width * 4
	}
}

// AddPlane allocates a row-stride-aligned plane for the given channel tag,
// dimensions, and bit depth, appending it to the image's component list in
// order. It fails with a Memory_allocation error if w*h exceeds
// limits.MaxImagePixels or stride*h exceeds limits.MaxImageSizeBytes
// (spec.md §4.C).
func (img *Image) AddPlane(channel uint16, width, height int, bitDepth uint8, limits SecurityLimits) (*Plane, error) {
	if bitDepth < 1 || bitDepth > 32 {
		return nil, usageError("AddPlane: bit_depth %d out of range [1,32]", bitDepth)
	}
	if width <= 0 || height <= 0 {
		return nil, usageError("AddPlane: width and height must both be >= 1, got %dx%d", width, height)
	}

	if err := limits.checkImagePixels(uint64(width) * uint64(height)); err != nil {
		return nil, err
	}

	stride := planeStride(width, bitDepth)
	total := uint64(stride) * uint64(height)
	if err := limits.checkImageSizeBytes(total); err != nil {
		return nil, err
	}

	p := Plane{
		Channel:  channel,
		Datatype: FormatUnsigned,
		BitDepth: bitDepth,
		Width:    width,
		Height:   height,
		Stride:   stride,
		Bytes:    make([]byte, total),
	}
	img.Planes = append(img.Planes, p)
	return &img.Planes[len(img.Planes)-1], nil
}

// SetComponentType records a nonvisual plane's component_type, independent
// of its channel tag (spec.md §3).
func (p *Plane) SetComponentType(t uint16) {
	p.ComponentType = t
}

// GetComponent returns the idx'th plane's bytes and row stride
// (spec.md §4.C's get_component).
func (img *Image) GetComponent(idx int) ([]byte, int, error) {
	if idx < 0 || idx >= len(img.Planes) {
		return nil, 0, usageError("GetComponent: index %d out of range [0,%d)", idx, len(img.Planes))
	}
	p := &img.Planes[idx]
	return p.Bytes, p.Stride, nil
}

// GetComponentBitsPerPixel returns the idx'th plane's bit depth
// (spec.md §4.C's get_component_bits_per_pixel).
func (img *Image) GetComponentBitsPerPixel(idx int) (uint8, error) {
	if idx < 0 || idx >= len(img.Planes) {
		return 0, usageError("GetComponentBitsPerPixel: index %d out of range [0,%d)", idx, len(img.Planes))
	}
	return img.Planes[idx].BitDepth, nil
}

// GetComponentDatatype returns the idx'th plane's sample format
// (spec.md §4.C's get_component_datatype).
func (img *Image) GetComponentDatatype(idx int) (uint8, error) {
	if idx < 0 || idx >= len(img.Planes) {
		return 0, usageError("GetComponentDatatype: index %d out of range [0,%d)", idx, len(img.Planes))
	}
	return img.Planes[idx].Datatype, nil
}

//------------------------//
// Attachments            //
//------------------------//
//
// spec.md §3: "at most one Bayer pattern, zero-or-more polarization
// patterns, zero-or-more bad-pixel maps, zero-or-more NUCs, at most one
// chroma location." Setters mirror-replace or append; no consistency
// checks run between attachments here (spec.md §4.C), matching the
// encoder/decoder's own "mirror-for-mirror" attachment copying (§4.E,
// §4.F).

// SetBayerPattern replaces the image's single Bayer pattern attachment.
func (img *Image) SetBayerPattern(p BayerPattern) {
	img.bayer = &p
}

// BayerPattern returns the image's Bayer pattern attachment, or nil if
// none is set.
func (img *Image) BayerPattern() *BayerPattern {
	return img.bayer
}

// AddPolarizationPattern appends one polarization pattern attachment.
func (img *Image) AddPolarizationPattern(p PolarizationPattern) {
	img.polarizations = append(img.polarizations, p)
}

// PolarizationPatterns returns all polarization pattern attachments, in
// insertion order.
func (img *Image) PolarizationPatterns() []PolarizationPattern {
	return img.polarizations
}

// PolarizationPatternFor returns the first polarization pattern that
// applies to componentIndex: an explicit match in ComponentIndices, or —
// failing that — the first pattern with an empty (applies-to-all) list
// (spec.md §3: "lookup by component index returns the first match,
// preferring empty-list patterns as fallback").
func (img *Image) PolarizationPatternFor(componentIndex uint32) (PolarizationPattern, bool) {
	var fallback *PolarizationPattern
	for i := range img.polarizations {
		p := &img.polarizations[i]
		if len(p.ComponentIndices) == 0 {
			if fallback == nil {
				fallback = p
			}
			continue
		}
		for _, idx := range p.ComponentIndices {
			if idx == componentIndex {
				return *p, true
			}
		}
	}
	if fallback != nil {
		return *fallback, true
	}
	return PolarizationPattern{}, false
}

// AddBadPixelsMap appends one bad-pixel map attachment.
func (img *Image) AddBadPixelsMap(m BadPixelsMap) {
	img.badPixelMaps = append(img.badPixelMaps, m)
}

// BadPixelsMaps returns all bad-pixel map attachments, in insertion order.
func (img *Image) BadPixelsMaps() []BadPixelsMap {
	return img.badPixelMaps
}

// AddNUC appends one non-uniformity-correction attachment.
func (img *Image) AddNUC(n SensorNonUniformityCorrection) {
	img.nucs = append(img.nucs, n)
}

// NUCs returns all non-uniformity-correction attachments, in insertion
// order.
func (img *Image) NUCs() []SensorNonUniformityCorrection {
	return img.nucs
}

// SetChromaLocation replaces the image's single chroma-sample-location
// attachment.
func (img *Image) SetChromaLocation(location uint8) {
	img.chromaLocation = &location
}

// ChromaLocation returns the image's chroma-sample-location attachment and
// whether one is set.
func (img *Image) ChromaLocation() (uint8, bool) {
	if img.chromaLocation == nil {
		return 0, false
	}
	return *img.chromaLocation, true
}

// SetCameraColorMatrix attaches a row-major 3x3 XYZ-to-camera calibration
// matrix (a DNG-style ColorMatrix1/ColorMatrix2 tag's equivalent), replacing
// any previously set matrix.
func (img *Image) SetCameraColorMatrix(m [9]float32) {
	img.cameraColorMatrix = &m
}

// CameraColorMatrix returns the image's XYZ-to-camera calibration matrix
// attachment and whether one is set.
func (img *Image) CameraColorMatrix() ([9]float32, bool) {
	if img.cameraColorMatrix == nil {
		return [9]float32{}, false
	}
	return *img.cameraColorMatrix, true
}
