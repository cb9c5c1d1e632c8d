package unc17

// Decoder is the inverse of Encoder: given the descriptor box set for one
// uncompressed-image item and that item's tile byte stream, it reconstructs
// a Pixel Image (spec.md §4.F). It is grounded on
// original_source/libheif/codecs/uncompressed/unc_dec.h's
// Decoder_uncompressed method surface and on the teacher decoder.go's
// compression-dispatch idiom, generalized to compress.go's fourcc table.
type Decoder struct {
	Cmpd *Cmpd
	UncC *UncC
	Cpat *Cpat
	CmpC *CmpC
	Icef *Icef
	Splz []*Splz
	Sbpm []*Sbpm
	Snuc []*Snuc
	Cloc *Cloc

	limits SecurityLimits

	decodedImage *Image
}

// NewDecoder builds a Decoder from the box set a container would have
// parsed out of a sample entry: cmpd and uncC are mandatory, every other
// box is optional (spec.md §4.F's "missing required box" error case).
func NewDecoder(cmpd *Cmpd, uncC *UncC, limits SecurityLimits) (*Decoder, error) {
	if cmpd == nil || uncC == nil {
		return nil, invalidInputError(SubNoMandatoryProperty, "Decoder: cmpd and uncC are both mandatory")
	}
	return &Decoder{Cmpd: cmpd, UncC: uncC, limits: limits}, nil
}

// SetCpat/SetCmpC/SetIcef/SetCloc/SetSplz/SetSbpm/SetSnuc attach the
// corresponding optional box(es), mirroring Decoder_uncompressed's
// set_cpat/set_cmpC/... setters in unc_dec.h.

func (d *Decoder) SetCpat(b *Cpat) { d.Cpat = b }
func (d *Decoder) SetCmpC(b *CmpC) { d.CmpC = b }
func (d *Decoder) SetIcef(b *Icef) { d.Icef = b }
func (d *Decoder) SetCloc(b *Cloc) { d.Cloc = b }
func (d *Decoder) SetSplz(bs []*Splz) { d.Splz = bs }
func (d *Decoder) SetSbpm(bs []*Sbpm) { d.Sbpm = bs }
func (d *Decoder) SetSnuc(bs []*Snuc) { d.Snuc = bs }

// GetLumaBitsPerPixel returns the bit depth of the component carrying the
// monochrome/Y channel, or -1 if none is present, grounded on
// Decoder_uncompressed::get_luma_bits_per_pixel.
func (d *Decoder) GetLumaBitsPerPixel() int {
	for i, c := range d.Cmpd.Components {
		if c.ComponentType == ComponentMonochrome || c.ComponentType == ComponentY {
			if i < len(d.UncC.Components) {
				return int(d.UncC.Components[i].ComponentBitDepth)
			}
		}
	}
	return -1
}

// GetChromaBitsPerPixel returns the bit depth of the component carrying
// the Cb channel, or -1 if none is present, grounded on
// Decoder_uncompressed::get_chroma_bits_per_pixel.
func (d *Decoder) GetChromaBitsPerPixel() int {
	for i, c := range d.Cmpd.Components {
		if c.ComponentType == ComponentCb {
			if i < len(d.UncC.Components) {
				return int(d.UncC.Components[i].ComponentBitDepth)
			}
		}
	}
	return -1
}

// GetCodedImageColorspace reports the colorspace and chroma layout implied
// by the box set's component types, grounded on
// Decoder_uncompressed::get_coded_image_colorspace.
func (d *Decoder) GetCodedImageColorspace() (Colorspace, Chroma) {
	hasY, hasCb, hasR, hasFA := false, false, false, false
	for _, c := range d.Cmpd.Components {
		switch c.ComponentType {
		case ComponentY, ComponentMonochrome:
			hasY = true
		case ComponentCb:
			hasCb = true
		case ComponentRed:
			hasR = true
		case ComponentFilterArray:
			hasFA = true
		}
	}

	chroma := chromaFromSamplingType(d.UncC.SamplingType)

	switch {
	case hasFA:
		return ColorspaceFilterArray, ChromaMonochrome
	case hasR:
		return ColorspaceRGB, chroma
	case hasY && hasCb:
		return ColorspaceYCbCr, chroma
	case hasY:
		return ColorspaceMonochrome, ChromaMonochrome
	default:
		return ColorspaceNonvisual, chroma
	}
}

func chromaFromSamplingType(s uint8) Chroma {
	switch s {
	case Sampling420:
		return Chroma420
	case Sampling422:
		return Chroma422
	default:
		return Chroma444
	}
}

// HasAlphaComponent reports whether the box set declares an alpha
// component, grounded on Decoder_uncompressed::has_alpha_component.
func (d *Decoder) HasAlphaComponent() bool {
	for _, c := range d.Cmpd.Components {
		if c.ComponentType == ComponentAlpha {
			return true
		}
	}
	return false
}

// ReadBitstreamConfigurationData serializes the box set (cmpd + uncC +
// attachments) as a container's sample-entry "configuration data" would
// carry it, grounded on
// Decoder_uncompressed::read_bitstream_configuration_data.
func (d *Decoder) ReadBitstreamConfigurationData() ([]byte, error) {
	sink := NewSink()
	boxes := []Box{d.Cmpd, d.UncC}
	if d.Cpat != nil {
		boxes = append(boxes, d.Cpat)
	}
	if d.Cloc != nil {
		boxes = append(boxes, d.Cloc)
	}
	for _, b := range d.Splz {
		boxes = append(boxes, b)
	}
	for _, b := range d.Sbpm {
		boxes = append(boxes, b)
	}
	for _, b := range d.Snuc {
		boxes = append(boxes, b)
	}
	for _, b := range boxes {
		if err := b.Write(sink); err != nil {
			return nil, err
		}
	}
	return sink.Bytes(), nil
}

// attachAttachments copies cpat/splz/sbpm/snuc/cloc onto the decoded image,
// mirror-for-mirror from the box set (spec.md §4.F).
func (d *Decoder) attachAttachments(img *Image) {
	if d.Cpat != nil {
		img.SetBayerPattern(d.Cpat.Pattern)
	}
	for _, b := range d.Splz {
		img.AddPolarizationPattern(b.Pattern)
	}
	for _, b := range d.Sbpm {
		img.AddBadPixelsMap(b.Map)
	}
	for _, b := range d.Snuc {
		img.AddNUC(b.Nuc)
	}
	if d.Cloc != nil {
		img.SetChromaLocation(d.Cloc.ChromaLocation)
	}
}

// checkTileGridSizeBytes enforces spec.md §3's uncC invariant
// "tile_cols · tile_rows · bytes/tile <= SecurityLimits.max_image_size_bytes":
// the full tile grid's total pixel-data footprint, which AddPlane's own
// per-plane check (one tile's one component at a time) can never see.
func (d *Decoder) checkTileGridSizeBytes(width, height int) error {
	if d.limits.disabled {
		return nil
	}

	var bytesPerTile uint64
	for _, comp := range d.UncC.Components {
		planeW, planeH := width, height
		if int(comp.ComponentIndex) < len(d.Cmpd.Components) {
			switch d.Cmpd.Components[comp.ComponentIndex].ComponentType {
			case ComponentCb, ComponentCr:
				switch d.UncC.SamplingType {
				case Sampling420:
					planeW, planeH = (planeW+1)/2, (planeH+1)/2
				case Sampling422:
					planeW = (planeW + 1) / 2
				}
			}
		}
		bytesPerPixel := uint64((comp.ComponentBitDepth + 7) / 8)
		bytesPerTile += uint64(planeW) * uint64(planeH) * bytesPerPixel
	}

	tiles := uint64(d.UncC.NumTileCols) * uint64(d.UncC.NumTileRows)
	if bytesPerTile == 0 || tiles == 0 {
		return nil
	}
	if tiles > ^uint64(0)/bytesPerTile {
		return memoryError("uncC tile grid %d x %d at %d bytes/tile exceeds limit %d", d.UncC.NumTileCols, d.UncC.NumTileRows, bytesPerTile, d.limits.MaxImageSizeBytes)
	}
	return d.limits.checkImageSizeBytes(tiles * bytesPerTile)
}

// decodeTile reverses EncodeTile: it allocates one plane per uncC
// component and unpacks tileData into them, reversing the same row-reset
// bit accumulator and byte/bit alignment rule the encoder used (spec.md
// §4.E, §4.F).
func (d *Decoder) decodeTile(width, height int, tileData []byte) (*Image, error) {
	if d.UncC.InterleaveType != InterleaveComponent {
		return nil, unsupportedError(SubNone, "Decoder: interleave_type %d is not implemented; only component interleave is supported", d.UncC.InterleaveType)
	}
	if err := d.checkTileGridSizeBytes(width, height); err != nil {
		return nil, err
	}

	colorspace, chroma := d.GetCodedImageColorspace()
	img := NewImage(width, height, colorspace, chroma)

	isNonvisual := colorspace == ColorspaceNonvisual

	pos := 0
	for i, comp := range d.UncC.Components {
		if int(comp.ComponentIndex) >= len(d.Cmpd.Components) {
			return nil, invalidInputError(SubInvalidParameterValue, "Decoder: uncC component_index %d has no matching cmpd entry", comp.ComponentIndex)
		}
		cmpdEntry := d.Cmpd.Components[comp.ComponentIndex]

		planeW, planeH := width, height
		if cmpdEntry.ComponentType == ComponentCb || cmpdEntry.ComponentType == ComponentCr {
			switch d.UncC.SamplingType {
			case Sampling420:
				planeW, planeH = (planeW+1)/2, (planeH+1)/2
			case Sampling422:
				planeW = (planeW + 1) / 2
			}
		}

		plane, err := img.AddPlane(cmpdEntry.ComponentType, planeW, planeH, comp.ComponentBitDepth, d.limits)
		if err != nil {
			return nil, err
		}
		plane.Datatype = comp.ComponentFormat
		if isNonvisual {
			plane.SetComponentType(cmpdEntry.ComponentType)
		}

		byteAligned := comp.ComponentBitDepth%8 == 0
		bytesPerPixel := int((comp.ComponentBitDepth + 7) / 8)

		if byteAligned {
			rowLen := planeW * bytesPerPixel
			for y := 0; y < planeH; y++ {
				if pos+rowLen > len(tileData) {
					return nil, invalidInputError(SubEndOfData, "Decoder: tile data too short for component %d row %d", i, y)
				}
				dstOff := y * plane.Stride
				copy(plane.Bytes[dstOff:dstOff+rowLen], tileData[pos:pos+rowLen])
				pos += rowLen
			}
			continue
		}

		for y := 0; y < planeH; y++ {
			var accumulator uint64
			accumulatedBits := uint(0)
			samplesWritten := 0
			dstOff := y * plane.Stride
			for samplesWritten < planeW {
				for accumulatedBits < uint(comp.ComponentBitDepth) {
					if pos >= len(tileData) {
						return nil, invalidInputError(SubEndOfData, "Decoder: tile data too short for component %d row %d", i, y)
					}
					accumulator = accumulator<<8 | uint64(tileData[pos])
					pos++
					accumulatedBits += 8
				}
				accumulatedBits -= uint(comp.ComponentBitDepth)
				sample := uint32(accumulator>>accumulatedBits) & ((1 << comp.ComponentBitDepth) - 1)
				accumulator &= (uint64(1) << accumulatedBits) - 1
				writePackedSample(plane.Bytes[dstOff:], uint32(samplesWritten), comp.ComponentBitDepth, sample)
				samplesWritten++
			}
			// accumulator/accumulatedBits are scoped to this row's
			// iteration, so any leftover padding bits from the row-end
			// flush never carry into the next row (spec.md §8's
			// bit-pack row independence property).
		}
	}

	d.attachAttachments(img)
	return img, nil
}

func writePackedSample(row []byte, x uint32, bpp uint8, sample uint32) {
	switch {
	case bpp <= 8:
		row[x] = byte(sample)
	case bpp <= 16:
		off := int(x) * 2
		row[off] = byte(sample)
		row[off+1] = byte(sample >> 8)
	default:
		off := int(x) * 4
		row[off] = byte(sample)
		row[off+1] = byte(sample >> 8)
		row[off+2] = byte(sample >> 16)
		row[off+3] = byte(sample >> 24)
	}
}

// DecodeSingleFrame decodes the one tile this image's box set describes,
// spanning the whole frame. Without cmpC, data is that tile uncompressed;
// with cmpC, the first icef unit's byte range (or all of data when there
// is no icef unit) is decompressed into it. Grounded on
// Decoder_uncompressed::decode_single_frame_from_compressed_data.
func (d *Decoder) DecodeSingleFrame(width, height int, data []byte) (*Image, error) {
	tileData := data
	if d.CmpC != nil {
		compressed := data
		if d.Icef != nil && len(d.Icef.Units) > 0 {
			u := d.Icef.Units[0]
			end := u.UnitOffset + u.UnitSize
			if end > uint64(len(data)) {
				return nil, invalidInputError(SubEndOfData, "Decoder: icef unit extends past tile data")
			}
			compressed = data[u.UnitOffset:end]
		}
		decompressed, err := Decompress(d.CmpC.CompressionType, compressed)
		if err != nil {
			return nil, err
		}
		tileData = decompressed
	}
	return d.decodeTile(width, height, tileData)
}

// UploadSequenceFrame pushes one compressed (or raw) tile's bytes into the
// decoder for later retrieval by PullDecodedFrame, grounded on
// Decoder_uncompressed::decode_sequence_frame_from_compressed_data's
// push half of the push/pull sequence-frame API (spec.md §4.F).
func (d *Decoder) UploadSequenceFrame(width, height int, data []byte) error {
	img, err := d.DecodeSingleFrame(width, height, data)
	if err != nil {
		return err
	}
	d.decodedImage = img
	return nil
}

// PullDecodedFrame returns the most recently uploaded frame, or nil if
// none is buffered, grounded on Decoder_uncompressed::get_decoded_frame.
func (d *Decoder) PullDecodedFrame() *Image {
	img := d.decodedImage
	d.decodedImage = nil
	return img
}

// FlushDecoder is a no-op: the uncompressed codec has no internal
// buffering to drain (spec.md §4.F, Decoder_uncompressed::flush_decoder).
func (d *Decoder) FlushDecoder() error {
	return nil
}
