package unc17

// PolarizationPattern is the periodic polarization-filter layout carried by
// an splz box: the components it applies to, the tile size of the filter
// pattern, and one polarization angle (in degrees) per pattern cell
// (spec.md §6).
type PolarizationPattern struct {
	ComponentIndices    []uint32
	PatternWidth        uint16
	PatternHeight       uint16
	PolarizationAngles  []float32
}

// Splz is the "splz" box: the polarization filter pattern descriptor
// (spec.md §3, §6).
type Splz struct {
	hdr     boxHeader
	full    fullBoxHeader
	Pattern PolarizationPattern
}

// NewSplz returns an empty Splz box ready for SetPattern.
func NewSplz() *Splz {
	return &Splz{hdr: boxHeader{Type: fourccSplz}}
}

// SetPattern replaces the box's polarization pattern.
func (b *Splz) SetPattern(p PolarizationPattern) {
	b.Pattern = p
}

// Type implements Box.
func (b *Splz) Type() FourCC { return fourccSplz }

func parseSplz(h boxHeader, r *Range) (*Splz, error) {
	full, err := readFullBoxHeader(r)
	if err != nil {
		return nil, err
	}
	if err := requireVersionZero(fourccSplz, full); err != nil {
		return nil, err
	}
	h.HeaderSize += 4

	componentCount, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if err := r.limits.checkComponentCount(componentCount); err != nil {
		return nil, err
	}
	p := PolarizationPattern{}
	for i := uint32(0); i < componentCount; i++ {
		idx, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		p.ComponentIndices = append(p.ComponentIndices, idx)
	}

	width, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	height, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	p.PatternWidth = width
	p.PatternHeight = height

	cells := uint32(width) * uint32(height)
	if err := r.limits.checkImagePixels(uint64(cells)); err != nil {
		return nil, err
	}
	for i := uint32(0); i < cells; i++ {
		angle, err := r.ReadF32()
		if err != nil {
			return nil, err
		}
		p.PolarizationAngles = append(p.PolarizationAngles, angle)
	}

	return &Splz{hdr: h, full: full, Pattern: p}, nil
}

// Write implements Box.
func (b *Splz) Write(sink *Sink) error {
	cells := uint32(b.Pattern.PatternWidth) * uint32(b.Pattern.PatternHeight)
	if uint32(len(b.Pattern.PolarizationAngles)) != cells {
		return usageError("splz: have %d polarization angles, pattern needs %d", len(b.Pattern.PolarizationAngles), cells)
	}
	mark := sink.beginFullBox(fourccSplz, 0, 0)
	sink.WriteU32(uint32(len(b.Pattern.ComponentIndices)))
	for _, idx := range b.Pattern.ComponentIndices {
		sink.WriteU32(idx)
	}
	sink.WriteU16(b.Pattern.PatternWidth)
	sink.WriteU16(b.Pattern.PatternHeight)
	for _, a := range b.Pattern.PolarizationAngles {
		sink.WriteF32(a)
	}
	sink.endBox(mark)
	return nil
}

// Dump implements Box.
func (b *Splz) Dump() string {
	out := dumpHeaderLine(fourccSplz, b.hdr)
	out += "version: " + itoa(int64(b.full.Version)) + "\n"
	out += "flags: " + itoa(int64(b.full.Flags)) + "\n"
	out += "component_count: " + itoa(int64(len(b.Pattern.ComponentIndices))) + "\n"
	for i, idx := range b.Pattern.ComponentIndices {
		out += "  component_index[" + itoa(int64(i)) + "]: " + itoa(int64(idx)) + "\n"
	}
	out += "pattern_width: " + itoa(int64(b.Pattern.PatternWidth)) + "\n"
	out += "pattern_height: " + itoa(int64(b.Pattern.PatternHeight)) + "\n"
	width := int64(b.Pattern.PatternWidth)
	for i, a := range b.Pattern.PolarizationAngles {
		var x, y int64
		if width > 0 {
			x = int64(i) % width
			y = int64(i) / width
		}
		out += "  [" + itoa(x) + "," + itoa(y) + "]: "
		if IsNoFilter(a) {
			out += "no filter\n"
		} else {
			out += ftoa(a) + " degrees\n"
		}
	}
	return out
}
