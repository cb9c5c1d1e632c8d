package unc17

const flagNucIsApplied = 0x80

// SensorNonUniformityCorrection carries a sensor's per-pixel gain/offset
// correction table, applied (or not) to the named components
// (spec.md §6).
type SensorNonUniformityCorrection struct {
	ComponentIndices []uint32
	NucIsApplied     bool
	ImageWidth       uint32
	ImageHeight      uint32
	NucGains         []float32
	NucOffsets       []float32
}

// Snuc is the "snuc" box: the sensor non-uniformity correction descriptor
// (spec.md §3, §6).
type Snuc struct {
	hdr  boxHeader
	full fullBoxHeader
	Nuc  SensorNonUniformityCorrection
}

// NewSnuc returns an empty Snuc box ready for SetNuc.
func NewSnuc() *Snuc {
	return &Snuc{hdr: boxHeader{Type: fourccSnuc}}
}

// SetNuc replaces the box's correction table.
func (b *Snuc) SetNuc(n SensorNonUniformityCorrection) {
	b.Nuc = n
}

// Type implements Box.
func (b *Snuc) Type() FourCC { return fourccSnuc }

func parseSnuc(h boxHeader, r *Range) (*Snuc, error) {
	full, err := readFullBoxHeader(r)
	if err != nil {
		return nil, err
	}
	if err := requireVersionZero(fourccSnuc, full); err != nil {
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
	n := SensorNonUniformityCorrection{}
	for i := uint32(0); i < componentCount; i++ {
		idx, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		n.ComponentIndices = append(n.ComponentIndices, idx)
	}

	flags, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	n.NucIsApplied = flags&flagNucIsApplied != 0

	width, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	height, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	n.ImageWidth = width
	n.ImageHeight = height

	cells := uint64(width) * uint64(height)
	if err := r.limits.checkImagePixels(cells); err != nil {
		return nil, err
	}
	for i := uint64(0); i < cells; i++ {
		g, err := r.ReadF32()
		if err != nil {
			return nil, err
		}
		n.NucGains = append(n.NucGains, g)
	}
	for i := uint64(0); i < cells; i++ {
		o, err := r.ReadF32()
		if err != nil {
			return nil, err
		}
		n.NucOffsets = append(n.NucOffsets, o)
	}

	return &Snuc{hdr: h, full: full, Nuc: n}, nil
}

// Write implements Box.
func (b *Snuc) Write(sink *Sink) error {
	cells := uint64(b.Nuc.ImageWidth) * uint64(b.Nuc.ImageHeight)
	if uint64(len(b.Nuc.NucGains)) != cells || uint64(len(b.Nuc.NucOffsets)) != cells {
		return usageError("snuc: have %d gains and %d offsets, image needs %d of each", len(b.Nuc.NucGains), len(b.Nuc.NucOffsets), cells)
	}
	mark := sink.beginFullBox(fourccSnuc, 0, 0)
	sink.WriteU32(uint32(len(b.Nuc.ComponentIndices)))
	for _, idx := range b.Nuc.ComponentIndices {
		sink.WriteU32(idx)
	}
	var flags uint8
	if b.Nuc.NucIsApplied {
		flags |= flagNucIsApplied
	}
	sink.WriteU8(flags)
	sink.WriteU32(b.Nuc.ImageWidth)
	sink.WriteU32(b.Nuc.ImageHeight)
	for _, g := range b.Nuc.NucGains {
		sink.WriteF32(g)
	}
	for _, o := range b.Nuc.NucOffsets {
		sink.WriteF32(o)
	}
	sink.endBox(mark)
	return nil
}

// Dump implements Box.
func (b *Snuc) Dump() string {
	out := dumpHeaderLine(fourccSnuc, b.hdr)
	out += "version: " + itoa(int64(b.full.Version)) + "\n"
	out += "flags: " + itoa(int64(b.full.Flags)) + "\n"
	out += "component_count: " + itoa(int64(len(b.Nuc.ComponentIndices))) + "\n"
	for i, idx := range b.Nuc.ComponentIndices {
		out += "  component_index[" + itoa(int64(i)) + "]: " + itoa(int64(idx)) + "\n"
	}
	out += "nuc_is_applied: " + boolDumpBit(b.Nuc.NucIsApplied) + "\n"
	out += "image_width: " + itoa(int64(b.Nuc.ImageWidth)) + "\n"
	out += "image_height: " + itoa(int64(b.Nuc.ImageHeight)) + "\n"
	out += "nuc_gains: " + itoa(int64(len(b.Nuc.NucGains))) + " values\n"
	out += "nuc_offsets: " + itoa(int64(len(b.Nuc.NucOffsets))) + " values\n"
	return out
}
