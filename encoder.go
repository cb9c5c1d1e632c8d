package unc17

// encoderComponent is one source-image component resolved to its wire
// identity: cmpd index, channel tag, legacy component type, format, and
// byte-alignment, mirroring unc_encoder_component_interleave's per-
// component bookkeeping (original_source's unc_encoder_component_interleave.cc).
type encoderComponent struct {
	planeIndex   int
	channel      uint16
	componentType uint16
	format       uint8
	bpp          uint8
	byteAligned  bool
}

// Encoder is the component-interleave encoder factory (spec.md §4.E): it
// builds the cmpd/uncC/cpat/splz/sbpm/snuc/cloc boxes once, from a source
// Pixel Image, then serializes any number of same-shaped tiles against
// that fixed box set.
type Encoder struct {
	Cmpd *Cmpd
	UncC *UncC
	Cpat *Cpat
	Splz []*Splz
	Sbpm []*Sbpm
	Snuc []*Snuc
	Cloc *Cloc

	components []encoderComponent
}

// CanEncode reports whether this factory accepts img, mirroring
// unc_encoder_factory_component_interleave::can_encode: an already
// interleaved source image is rejected so a different factory can accept
// it instead (spec.md §4.E's precondition, exposed here as a queryable
// probe per SPEC_FULL.md §1/§5).
func CanEncode(img *Image) bool {
	for _, p := range img.Planes {
		if p.Channel == ChannelInterleaved {
			return false
		}
	}
	return true
}

// NewEncoder builds the cmpd/uncC/attachment boxes for img, per spec.md
// §4.E steps 1-5. It fails with a usage error if img carries an
// interleaved channel (CanEncode would have returned false).
func NewEncoder(img *Image) (*Encoder, error) {
	if !CanEncode(img) {
		return nil, usageError("NewEncoder: source image has an interleaved channel; this factory only accepts component-separated images")
	}

	enc := &Encoder{Cmpd: NewCmpd(), UncC: NewUncC()}
	isNonvisual := img.Colorspace == ColorspaceNonvisual

	hasCb := false
	for _, p := range img.Planes {
		if p.Channel == ComponentCb {
			hasCb = true
			break
		}
	}

	littleEndian := false
	for idx, p := range img.Planes {
		var compType uint16
		if isNonvisual {
			compType = p.ComponentType
		} else if p.Channel == ComponentY && !hasCb {
			compType = ComponentMonochrome
		} else {
			compType = p.Channel
		}

		byteAligned := p.BitDepth%8 == 0
		if byteAligned && p.BitDepth > 8 {
			littleEndian = true
		}

		enc.components = append(enc.components, encoderComponent{
			planeIndex:    idx,
			channel:       p.Channel,
			componentType: compType,
			format:        p.Datatype,
			bpp:           p.BitDepth,
			byteAligned:   byteAligned,
		})

		enc.Cmpd.AddComponent(CmpdComponent{ComponentType: compType})
		enc.UncC.AddComponent(UncCComponent{
			ComponentIndex:     uint16(idx),
			ComponentBitDepth:  p.BitDepth,
			ComponentFormat:    p.Datatype,
			ComponentAlignSize: 0,
		})
	}

	enc.UncC.InterleaveType = InterleaveComponent
	enc.UncC.ComponentsLittleEndian = littleEndian
	enc.UncC.BlockSize = 0

	switch img.Chroma {
	case Chroma420:
		enc.UncC.SamplingType = Sampling420
	case Chroma422:
		enc.UncC.SamplingType = Sampling422
	default:
		enc.UncC.SamplingType = SamplingNone
	}

	// spec.md §4.E step 4: resolve a legacy (component-type-as-index)
	// Bayer pattern into reference cmpd entries and a cpat box whose
	// per-pixel index references them, exactly as
	// unc_encoder_component_interleave's type_to_cmpd_index map does.
	if bp := img.BayerPattern(); bp != nil {
		nextIndex := uint16(len(enc.Cmpd.Components))
		typeToCmpdIndex := map[uint16]uint16{}
		var uniqueTypes []uint16
		seen := map[uint16]bool{}
		for _, px := range bp.Pixels {
			t := px.ComponentIndex // legacy authoring: index IS the type
			if !seen[t] {
				seen[t] = true
				uniqueTypes = append(uniqueTypes, t)
			}
		}
		for _, t := range uniqueTypes {
			typeToCmpdIndex[t] = nextIndex
			enc.Cmpd.AddComponent(CmpdComponent{ComponentType: t})
			nextIndex++
		}

		resolved := BayerPattern{PatternWidth: bp.PatternWidth, PatternHeight: bp.PatternHeight}
		for _, px := range bp.Pixels {
			resolved.Pixels = append(resolved.Pixels, CpatPixel{
				ComponentIndex: typeToCmpdIndex[px.ComponentIndex],
				ComponentGain:  px.ComponentGain,
			})
		}
		enc.Cpat = NewCpat()
		enc.Cpat.SetPattern(resolved)
	}

	for _, p := range img.PolarizationPatterns() {
		b := NewSplz()
		b.SetPattern(p)
		enc.Splz = append(enc.Splz, b)
	}
	for _, m := range img.BadPixelsMaps() {
		b := NewSbpm()
		b.SetBadPixelsMap(m)
		enc.Sbpm = append(enc.Sbpm, b)
	}
	for _, n := range img.NUCs() {
		b := NewSnuc()
		b.SetNuc(n)
		enc.Snuc = append(enc.Snuc, b)
	}
	if loc, ok := img.ChromaLocation(); ok {
		enc.Cloc = NewCloc(loc)
	}

	return enc, nil
}

// planeDims returns the chroma-adjusted tile plane dimensions for a given
// component, mirroring compute_tile_data_size_bytes's Cb/Cr subsampling
// adjustment.
func (enc *Encoder) planeDims(comp encoderComponent, tileWidth, tileHeight uint32) (uint32, uint32) {
	w, h := tileWidth, tileHeight
	if comp.channel == ComponentCb || comp.channel == ComponentCr {
		switch enc.UncC.SamplingType {
		case Sampling420:
			w = (w + 1) / 2
			h = (h + 1) / 2
		case Sampling422:
			w = (w + 1) / 2
		}
	}
	return w, h
}

func rowBytes(width uint32, bpp uint8, byteAligned bool) uint64 {
	if byteAligned {
		return uint64(width) * uint64((bpp+7)/8)
	}
	return (uint64(width)*uint64(bpp) + 7) / 8
}

// ComputeTileDataSizeBytes implements spec.md §4.E's tile-size law: the sum
// over components of rows_in_comp * bytes_per_row_in_comp, grounded on
// unc_encoder_component_interleave::compute_tile_data_size_bytes.
func (enc *Encoder) ComputeTileDataSizeBytes(tileWidth, tileHeight uint32) uint64 {
	var total uint64
	for _, comp := range enc.components {
		w, h := enc.planeDims(comp, tileWidth, tileHeight)
		total += rowBytes(w, comp.bpp, comp.byteAligned) * uint64(h)
	}
	return total
}

// EncodeTile packs one tile's worth of component planes from img into the
// byte-aligned/bit-packed wire layout spec.md §4.E specifies, in uncC
// component order. The bit accumulator resets at every row boundary, so
// row y's output bytes depend only on row y's samples (spec.md §8's
// "bit-pack row independence" property).
func (enc *Encoder) EncodeTile(img *Image) ([]byte, error) {
	total := enc.ComputeTileDataSizeBytes(uint32(img.Width), uint32(img.Height))
	out := make([]byte, total)
	pos := uint64(0)

	for _, comp := range enc.components {
		if comp.planeIndex >= len(img.Planes) {
			return nil, internalError("EncodeTile: component references plane %d but image has %d planes", comp.planeIndex, len(img.Planes))
		}
		plane := img.Planes[comp.planeIndex]
		w, h := uint32(plane.Width), uint32(plane.Height)

		if comp.byteAligned {
			bytesPerPixel := int((comp.bpp + 7) / 8)
			rowLen := int(w) * bytesPerPixel
			for y := uint32(0); y < h; y++ {
				srcOff := int(y) * plane.Stride
				if srcOff+rowLen > len(plane.Bytes) {
					return nil, internalError("EncodeTile: plane row %d exceeds plane storage", y)
				}
				copy(out[pos:], plane.Bytes[srcOff:srcOff+rowLen])
				pos += uint64(rowLen)
			}
			continue
		}

		// Bit-packed path: MSB-first accumulator, reset every row.
		for y := uint32(0); y < h; y++ {
			srcOff := int(y) * plane.Stride
			row := plane.Bytes[srcOff:]

			var accumulator uint64
			accumulatedBits := uint(0)
			for x := uint32(0); x < w; x++ {
				sample, err := readPackedSample(row, x, comp.bpp)
				if err != nil {
					return nil, err
				}
				accumulator = (accumulator << comp.bpp) | uint64(sample)
				accumulatedBits += uint(comp.bpp)
				for accumulatedBits >= 8 {
					accumulatedBits -= 8
					out[pos] = byte(accumulator >> accumulatedBits)
					pos++
					accumulator &= (uint64(1) << accumulatedBits) - 1
				}
			}
			if accumulatedBits > 0 {
				out[pos] = byte(accumulator << (8 - accumulatedBits))
				pos++
			}
		}
	}

	return out, nil
}

// readPackedSample reads the x'th bpp-wide sample from a decoded plane row
// stored as 8/16/32-bit little-endian-in-memory samples, the same
// bpp-bucketing unc_encoder_component_interleave::encode_tile uses before
// repacking into the bitstream's MSB-first form.
func readPackedSample(row []byte, x uint32, bpp uint8) (uint32, error) {
	switch {
	case bpp <= 8:
		if int(x) >= len(row) {
			return 0, internalError("readPackedSample: row too short for sample %d", x)
		}
		return uint32(row[x]), nil
	case bpp <= 16:
		off := int(x) * 2
		if off+2 > len(row) {
			return 0, internalError("readPackedSample: row too short for sample %d", x)
		}
		return uint32(row[off]) | uint32(row[off+1])<<8, nil
	default:
		off := int(x) * 4
		if off+4 > len(row) {
			return 0, internalError("readPackedSample: row too short for sample %d", x)
		}
		return uint32(row[off]) | uint32(row[off+1])<<8 | uint32(row[off+2])<<16 | uint32(row[off+3])<<24, nil
	}
}

// EncodeTiles encodes img as a single tile covering the whole image
// through EncodeTile, so the returned slice always holds exactly one tile.
// When compression is non-zero it compresses that tile and builds the cmpC
// box and an icef box with one unit at offset 0 (spec.md §4.E's final
// paragraph).
func (enc *Encoder) EncodeTiles(img *Image, compression FourCC) (cmpC *CmpC, icef *Icef, tiles [][]byte, err error) {
	data, err := enc.EncodeTile(img)
	if err != nil {
		return nil, nil, nil, err
	}

	if compression == 0 {
		return nil, nil, [][]byte{data}, nil
	}

	compressed, err := Compress(compression, data)
	if err != nil {
		return nil, nil, nil, err
	}

	cmpC = NewCmpC(compression, CompressedUnitTile)
	icef = NewIcef(0, 4) // offsets inferred, 32-bit sizes
	icef.AddUnit(IcefUnit{UnitOffset: 0, UnitSize: uint64(len(compressed))})
	return cmpC, icef, [][]byte{compressed}, nil
}
