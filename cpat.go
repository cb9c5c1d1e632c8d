package unc17

// CpatPixel is one cell of a Bayer/filter-array pattern: the cmpd index of
// the component sampled at this position, and its relative gain
// (spec.md §4.B, §4.E).
type CpatPixel struct {
	ComponentIndex uint16
	ComponentGain  float32
}

// BayerPattern is the periodic Bayer/filter-array pattern an image's
// color filter array repeats across the full frame (spec.md §3, §4.E).
// PatternWidth and PatternHeight mirror the public heif_bayer_pattern_pixel
// API's uint16_t dimensions; Pixels has exactly PatternWidth*PatternHeight
// entries in row-major order.
type BayerPattern struct {
	PatternWidth  uint16
	PatternHeight uint16
	Pixels        []CpatPixel
}

// Cpat is the "cpat" box: the Bayer/filter-array pattern descriptor
// (spec.md §3, §4.B, §4.E, §4.G).
type Cpat struct {
	hdr     boxHeader
	full    fullBoxHeader
	Pattern BayerPattern
}

// NewCpat returns an empty Cpat box ready for SetPattern.
func NewCpat() *Cpat {
	return &Cpat{hdr: boxHeader{Type: fourccCpat}}
}

// SetPattern replaces the box's Bayer pattern.
func (b *Cpat) SetPattern(p BayerPattern) {
	b.Pattern = p
}

// Type implements Box.
func (b *Cpat) Type() FourCC { return fourccCpat }

func parseCpat(h boxHeader, r *Range) (*Cpat, error) {
	full, err := readFullBoxHeader(r)
	if err != nil {
		return nil, err
	}
	if err := requireVersionZero(fourccCpat, full); err != nil {
		return nil, err
	}
	h.HeaderSize += 4

	width, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	height, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	if width == 0 || height == 0 {
		return nil, invalidInputError(SubInvalidParameterValue, "cpat: pattern_width and pattern_height must both be >= 1, got %dx%d", width, height)
	}

	cells := uint32(width) * uint32(height)
	if err := r.limits.checkImagePixels(uint64(cells)); err != nil {
		return nil, err
	}

	p := BayerPattern{PatternWidth: width, PatternHeight: height}
	for i := uint32(0); i < cells; i++ {
		idx, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		gain, err := r.ReadF32()
		if err != nil {
			return nil, err
		}
		p.Pixels = append(p.Pixels, CpatPixel{ComponentIndex: idx, ComponentGain: gain})
	}

	return &Cpat{hdr: h, full: full, Pattern: p}, nil
}

// Write implements Box.
func (b *Cpat) Write(sink *Sink) error {
	if b.Pattern.PatternWidth == 0 || b.Pattern.PatternHeight == 0 {
		return usageError("cpat: pattern_width and pattern_height must both be >= 1")
	}
	cells := uint32(b.Pattern.PatternWidth) * uint32(b.Pattern.PatternHeight)
	if uint32(len(b.Pattern.Pixels)) != cells {
		return usageError("cpat: have %d pattern pixels, pattern needs %d", len(b.Pattern.Pixels), cells)
	}
	mark := sink.beginFullBox(fourccCpat, 0, 0)
	sink.WriteU16(b.Pattern.PatternWidth)
	sink.WriteU16(b.Pattern.PatternHeight)
	for _, px := range b.Pattern.Pixels {
		sink.WriteU16(px.ComponentIndex)
		sink.WriteF32(px.ComponentGain)
	}
	sink.endBox(mark)
	return nil
}

// Dump implements Box.
func (b *Cpat) Dump() string {
	out := dumpHeaderLine(fourccCpat, b.hdr)
	out += "version: " + itoa(int64(b.full.Version)) + "\n"
	out += "flags: " + itoa(int64(b.full.Flags)) + "\n"
	out += "pattern_width: " + itoa(int64(b.Pattern.PatternWidth)) + "\n"
	out += "pattern_height: " + itoa(int64(b.Pattern.PatternHeight)) + "\n"
	width := int64(b.Pattern.PatternWidth)
	for i, px := range b.Pattern.Pixels {
		var x, y int64
		if width > 0 {
			x = int64(i) % width
			y = int64(i) / width
		}
		out += "  [" + itoa(x) + "," + itoa(y) + "]: component_index=" + itoa(int64(px.ComponentIndex)) +
			", gain=" + ftoa(px.ComponentGain) + "\n"
	}
	return out
}
