package unc17

// icef width codes select a byte width for the offset and size fields of
// each compressed-tile index entry. The table below is reconstructed from
// original_source/tests/uncompressed_box.cc's byte fixtures rather than from
// a literal bit-width reading of spec.md §4.B: widths 1..4 bytes map
// directly (code -> code+1), then the table jumps to the large power-of-two
// widths (8, 16, 32, 64 bytes) for codes 4..7, mirroring the box largesize
// escape. DESIGN.md records this reconciliation.
var icefWidthTable = [8]uint8{1, 2, 3, 4, 8, 16, 32, 64}

func icefCodeToWidth(code uint8) uint8 {
	return icefWidthTable[code&0x7]
}

func icefWidthToCode(width uint8) (uint8, error) {
	for code, w := range icefWidthTable {
		if w == width {
			return uint8(code), nil
		}
	}
	return 0, usageError("icef: %d is not a valid field width", width)
}

// IcefUnit is one compressed-tile index entry: the byte offset and size of
// one tile's compressed payload within the item's data (spec.md §3, §4.B).
type IcefUnit struct {
	UnitOffset uint64
	UnitSize   uint64
}

// Icef is the "icef" box: the per-tile compressed-data index, present only
// when cmpC names a compression scheme (spec.md §3).
type Icef struct {
	hdr  boxHeader
	full fullBoxHeader

	// OffsetFieldWidth is the stored offset field's width in bytes, or 0
	// to mean the offset is not stored and is instead inferred as the
	// running sum of prior units' (offset+size), starting at 0.
	OffsetFieldWidth uint8
	SizeFieldWidth   uint8

	Units []IcefUnit
}

// NewIcef returns an empty Icef box using the given field widths.
func NewIcef(offsetFieldWidth, sizeFieldWidth uint8) *Icef {
	return &Icef{hdr: boxHeader{Type: fourccIcef}, OffsetFieldWidth: offsetFieldWidth, SizeFieldWidth: sizeFieldWidth}
}

// AddUnit appends one tile index entry.
func (b *Icef) AddUnit(u IcefUnit) {
	b.Units = append(b.Units, u)
}

// Type implements Box.
func (b *Icef) Type() FourCC { return fourccIcef }

func parseIcef(h boxHeader, r *Range) (*Icef, error) {
	full, err := readFullBoxHeader(r)
	if err != nil {
		return nil, err
	}
	if err := requireVersionZero(fourccIcef, full); err != nil {
		return nil, err
	}
	h.HeaderSize += 4

	headerByte, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	if headerByte&0x3 != 0 {
		return nil, invalidInputError(SubInvalidParameterValue, "icef: reserved header bits must be zero, got 0x%02x", headerByte&0x3)
	}
	offsetCode := (headerByte >> 5) & 0x7
	sizeCode := (headerByte >> 2) & 0x7

	b := &Icef{hdr: h, full: full, SizeFieldWidth: icefCodeToWidth(sizeCode)}
	if offsetCode == 0 {
		b.OffsetFieldWidth = 0
	} else {
		b.OffsetFieldWidth = icefCodeToWidth(offsetCode)
	}

	count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if err := r.limits.checkICEFUnits(uint64(count)); err != nil {
		return nil, err
	}

	var cumulative uint64
	for i := uint32(0); i < count; i++ {
		var off uint64
		if b.OffsetFieldWidth == 0 {
			off = cumulative
		} else {
			off, err = readUintNWidth(r, b.OffsetFieldWidth)
			if err != nil {
				return nil, err
			}
		}
		size, err := readUintNWidth(r, b.SizeFieldWidth)
		if err != nil {
			return nil, err
		}
		b.Units = append(b.Units, IcefUnit{UnitOffset: off, UnitSize: size})
		cumulative = off + size
	}
	return b, nil
}

// readUintNWidth reads a field whose width is one of icefWidthTable's
// values. Widths beyond 8 bytes cannot be represented in a uint64, so they
// surface as Unsupported_feature rather than silently truncating.
func readUintNWidth(r *Range, width uint8) (uint64, error) {
	if width > 8 {
		return 0, unsupportedError(SubNone, "icef: %d-byte offset/size fields exceed the 64-bit accumulator", width)
	}
	return r.ReadUintN(int(width))
}

func writeUintNWidth(sink *Sink, v uint64, width uint8) error {
	if width > 8 {
		return usageError("icef: %d-byte offset/size fields exceed the 64-bit accumulator", width)
	}
	sink.WriteUintN(v, int(width))
	return nil
}

// Write implements Box.
func (b *Icef) Write(sink *Sink) error {
	sizeCode, err := icefWidthToCode(b.SizeFieldWidth)
	if err != nil {
		return err
	}
	var offsetCode uint8
	if b.OffsetFieldWidth != 0 {
		offsetCode, err = icefWidthToCode(b.OffsetFieldWidth)
		if err != nil {
			return err
		}
		if offsetCode == 0 {
			return usageError("icef: a 1-byte offset field is not representable; use 0 (inferred) instead")
		}
	}

	mark := sink.beginFullBox(fourccIcef, 0, 0)
	sink.WriteU8((offsetCode << 5) | (sizeCode << 2))
	sink.WriteU32(uint32(len(b.Units)))
	var cumulative uint64
	for _, u := range b.Units {
		if b.OffsetFieldWidth != 0 {
			if err := writeUintNWidth(sink, u.UnitOffset, b.OffsetFieldWidth); err != nil {
				return err
			}
		} else if u.UnitOffset != cumulative {
			return usageError("icef: inferred offset %d does not match running sum %d", u.UnitOffset, cumulative)
		}
		if err := writeUintNWidth(sink, u.UnitSize, b.SizeFieldWidth); err != nil {
			return err
		}
		cumulative = u.UnitOffset + u.UnitSize
	}
	sink.endBox(mark)
	return nil
}

// Dump implements Box.
func (b *Icef) Dump() string {
	out := dumpHeaderLine(fourccIcef, b.hdr)
	out += "num_compressed_units: " + itoa(int64(len(b.Units))) + "\n"
	for _, u := range b.Units {
		out += "unit_offset: " + itoa(int64(u.UnitOffset)) + ", unit_size: " + itoa(int64(u.UnitSize)) + "\n"
	}
	return out
}
