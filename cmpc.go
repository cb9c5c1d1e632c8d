package unc17

// Compressed-unit granularities (spec.md §3): selects what each icef entry
// indexes.
const (
	CompressedUnitTile             = 0
	CompressedUnitTileRow          = 1
	CompressedUnitTileComponent    = 2
	CompressedUnitTileRowComponent = 3
)

// CmpC is the "cmpC" box: the per-tile compression descriptor (spec.md §3).
type CmpC struct {
	hdr  boxHeader
	full fullBoxHeader

	CompressionType    FourCC
	CompressedUnitType uint8 // 0..3
}

// NewCmpC returns a CmpC box for the given compression fourcc and unit type.
func NewCmpC(compressionType FourCC, unitType uint8) *CmpC {
	return &CmpC{hdr: boxHeader{Type: fourccCmpC}, CompressionType: compressionType, CompressedUnitType: unitType}
}

// Type implements Box.
func (b *CmpC) Type() FourCC { return fourccCmpC }

func parseCmpC(h boxHeader, r *Range) (*CmpC, error) {
	full, err := readFullBoxHeader(r)
	if err != nil {
		return nil, err
	}
	if err := requireVersionZero(fourccCmpC, full); err != nil {
		return nil, err
	}
	h.HeaderSize += 4
	compressionType, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	unitType, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	if unitType > 3 {
		return nil, invalidInputError(SubInvalidParameterValue, "cmpC: compressed_unit_type %d out of range [0,3]", unitType)
	}
	return &CmpC{hdr: h, full: full, CompressionType: FourCC(compressionType), CompressedUnitType: unitType}, nil
}

// Write implements Box.
func (b *CmpC) Write(sink *Sink) error {
	if b.CompressedUnitType > 3 {
		return usageError("cmpC: compressed_unit_type %d out of range [0,3]", b.CompressedUnitType)
	}
	mark := sink.beginFullBox(fourccCmpC, 0, 0)
	sink.WriteU32(uint32(b.CompressionType))
	sink.WriteU8(b.CompressedUnitType)
	sink.endBox(mark)
	return nil
}

// Dump implements Box.
func (b *CmpC) Dump() string {
	out := dumpHeaderLine(fourccCmpC, b.hdr)
	out += "compression_type: " + b.CompressionType.String() + "\n"
	out += "compressed_entity_type: " + itoa(int64(b.CompressedUnitType)) + "\n"
	return out
}
