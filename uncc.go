package unc17

// Sampling types (spec.md §3).
const (
	SamplingNone = 0 // no chroma subsampling
	Sampling422  = 1
	Sampling420  = 2
	Sampling411  = 3
)

var samplingTypeNames = map[uint8]string{
	SamplingNone: "no subsampling",
	Sampling422:  "4:2:2",
	Sampling420:  "4:2:0",
	Sampling411:  "4:1:1",
}

// Interleave types (spec.md §3, §9).
const (
	InterleaveComponent    = 0
	InterleavePixel        = 1
	InterleaveMixed        = 2
	InterleaveRow          = 3
	InterleaveTileComponent = 4
	InterleaveMultiY       = 5
)

var interleaveTypeNames = map[uint8]string{
	InterleaveComponent:     "component",
	InterleavePixel:         "pixel",
	InterleaveMixed:         "mixed",
	InterleaveRow:           "row",
	InterleaveTileComponent: "tile-component",
	InterleaveMultiY:        "multi-Y",
}

// Component formats (spec.md §3).
const (
	FormatUnsigned  = 0
	FormatSigned    = 1
	FormatFloat     = 2
	FormatComplex32 = 3
	FormatComplex64 = 4
)

var componentFormatNames = map[uint8]string{
	FormatUnsigned:  "unsigned",
	FormatSigned:    "signed",
	FormatFloat:     "float",
	FormatComplex32: "complex32",
	FormatComplex64: "complex64",
}

const (
	flagComponentsLittleEndian = 0x10
	flagBlockPadLSB            = 0x08
	flagBlockLittleEndian      = 0x04
	flagBlockReversed          = 0x02
	flagPadUnknown             = 0x01
)

// UncCComponent is one uncC component-layout entry (spec.md §3).
type UncCComponent struct {
	ComponentIndex   uint16
	ComponentBitDepth uint8 // 1..32
	ComponentFormat   uint8
	ComponentAlignSize uint8 // one of {0,1,2,4,8}
}

// UncC is the "uncC" box: the pixel layout / interleave / tiling
// descriptor (spec.md §3, §4.B).
type UncC struct {
	hdr     boxHeader
	full    fullBoxHeader
	Profile FourCC

	Components []UncCComponent

	SamplingType    uint8
	InterleaveType  uint8
	BlockSize       uint8

	ComponentsLittleEndian bool
	BlockPadLSB            bool
	BlockLittleEndian      bool
	BlockReversed          bool
	PadUnknown             bool

	PixelSize     uint32
	RowAlignSize  uint32
	TileAlignSize uint32

	// NumTileCols/NumTileRows are the logical (already +1'd) tile grid
	// dimensions; the wire form stores each minus one (spec.md §3).
	NumTileCols uint32
	NumTileRows uint32
}

// NewUncC returns an UncC box with the spec's implicit defaults: a single
// 1x1 tile grid.
func NewUncC() *UncC {
	return &UncC{hdr: boxHeader{Type: fourccUncC}, NumTileCols: 1, NumTileRows: 1}
}

// AddComponent appends one component-layout entry.
func (b *UncC) AddComponent(c UncCComponent) {
	b.Components = append(b.Components, c)
}

// Type implements Box.
func (b *UncC) Type() FourCC { return fourccUncC }

func (b *UncC) flagsByte() uint8 {
	var f uint8
	if b.ComponentsLittleEndian {
		f |= flagComponentsLittleEndian
	}
	if b.BlockPadLSB {
		f |= flagBlockPadLSB
	}
	if b.BlockLittleEndian {
		f |= flagBlockLittleEndian
	}
	if b.BlockReversed {
		f |= flagBlockReversed
	}
	if b.PadUnknown {
		f |= flagPadUnknown
	}
	return f
}

func parseUncC(h boxHeader, r *Range) (*UncC, error) {
	full, err := readFullBoxHeader(r)
	if err != nil {
		return nil, err
	}
	if err := requireVersionZero(fourccUncC, full); err != nil {
		return nil, err
	}
	h.HeaderSize += 4

	b := &UncC{hdr: h, full: full}

	profile, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	b.Profile = FourCC(profile)

	count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if err := r.limits.checkComponentCount(count); err != nil {
		return nil, err
	}
	for i := uint32(0); i < count; i++ {
		idx, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		bitDepthMinus1, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		format, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		align, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		b.Components = append(b.Components, UncCComponent{
			ComponentIndex:    idx,
			ComponentBitDepth: bitDepthMinus1 + 1,
			ComponentFormat:   format,
			ComponentAlignSize: align,
		})
	}

	sampling, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	b.SamplingType = sampling

	interleave, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	b.InterleaveType = interleave

	blockSize, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	b.BlockSize = blockSize

	flags, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	b.ComponentsLittleEndian = flags&flagComponentsLittleEndian != 0
	b.BlockPadLSB = flags&flagBlockPadLSB != 0
	b.BlockLittleEndian = flags&flagBlockLittleEndian != 0
	b.BlockReversed = flags&flagBlockReversed != 0
	b.PadUnknown = flags&flagPadUnknown != 0

	if b.PixelSize, err = r.ReadU32(); err != nil {
		return nil, err
	}
	if b.RowAlignSize, err = r.ReadU32(); err != nil {
		return nil, err
	}
	if b.TileAlignSize, err = r.ReadU32(); err != nil {
		return nil, err
	}

	colsMinus1, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	rowsMinus1, err := r.ReadU32()
	if err != nil {
		return nil, err
	}

	// spec.md §4.B: "num_tile_cols/rows arithmetic must not overflow when
	// +1 is applied; overflow -> Invalid_input/Invalid_parameter_value".
	if colsMinus1 == 0xFFFFFFFF {
		return nil, invalidInputError(SubInvalidParameterValue, "uncC: num_tile_cols_minus_one overflows when incremented")
	}
	if rowsMinus1 == 0xFFFFFFFF {
		return nil, invalidInputError(SubInvalidParameterValue, "uncC: num_tile_rows_minus_one overflows when incremented")
	}
	b.NumTileCols = colsMinus1 + 1
	b.NumTileRows = rowsMinus1 + 1

	return b, nil
}

// Write implements Box.
func (b *UncC) Write(sink *Sink) error {
	mark := sink.beginFullBox(fourccUncC, 0, 0)
	sink.WriteU32(uint32(b.Profile))
	sink.WriteU32(uint32(len(b.Components)))
	for _, c := range b.Components {
		if c.ComponentBitDepth < 1 || c.ComponentBitDepth > 32 {
			return usageError("uncC: component_bit_depth %d out of range [1,32]", c.ComponentBitDepth)
		}
		sink.WriteU16(c.ComponentIndex)
		sink.WriteU8(c.ComponentBitDepth - 1)
		sink.WriteU8(c.ComponentFormat)
		sink.WriteU8(c.ComponentAlignSize)
	}
	sink.WriteU8(b.SamplingType)
	sink.WriteU8(b.InterleaveType)
	sink.WriteU8(b.BlockSize)
	sink.WriteU8(b.flagsByte())
	sink.WriteU32(b.PixelSize)
	sink.WriteU32(b.RowAlignSize)
	sink.WriteU32(b.TileAlignSize)
	if b.NumTileCols == 0 || b.NumTileRows == 0 {
		return usageError("uncC: num_tile_cols/rows must be >= 1")
	}
	sink.WriteU32(b.NumTileCols - 1)
	sink.WriteU32(b.NumTileRows - 1)
	sink.endBox(mark)
	return nil
}

func boolDumpBit(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

// Dump implements Box.
func (b *UncC) Dump() string {
	out := dumpHeaderLine(fourccUncC, b.hdr)
	out += "profile: " + itoa(int64(uint32(b.Profile))) + " (" + b.Profile.String() + ")\n"
	for _, c := range b.Components {
		out += "component_index: " + itoa(int64(c.ComponentIndex)) + "\n"
		out += "| component_bit_depth: " + itoa(int64(c.ComponentBitDepth)) + "\n"
		out += "| component_format: " + componentFormatNames[c.ComponentFormat] + "\n"
		out += "| component_align_size: " + itoa(int64(c.ComponentAlignSize)) + "\n"
	}
	out += "sampling_type: " + samplingTypeNames[b.SamplingType] + "\n"
	out += "interleave_type: " + interleaveTypeNames[b.InterleaveType] + "\n"
	out += "block_size: " + itoa(int64(b.BlockSize)) + "\n"
	out += "components_little_endian: " + boolDumpBit(b.ComponentsLittleEndian) + "\n"
	out += "block_pad_lsb: " + boolDumpBit(b.BlockPadLSB) + "\n"
	out += "block_little_endian: " + boolDumpBit(b.BlockLittleEndian) + "\n"
	out += "block_reversed: " + boolDumpBit(b.BlockReversed) + "\n"
	out += "pad_unknown: " + boolDumpBit(b.PadUnknown) + "\n"
	out += "pixel_size: " + itoa(int64(b.PixelSize)) + "\n"
	out += "row_align_size: " + itoa(int64(b.RowAlignSize)) + "\n"
	out += "tile_align_size: " + itoa(int64(b.TileAlignSize)) + "\n"
	out += "num_tile_cols: " + itoa(int64(b.NumTileCols)) + "\n"
	out += "num_tile_rows: " + itoa(int64(b.NumTileRows)) + "\n"
	return out
}
