package unc17

// Chroma sample location types, matching H.273/ISOBMFF's chroma_loc_info
// enumeration (spec.md §3's cloc box). Each maps to a fixed (h, v) sample
// offset used only for the diagnostic dump.
const (
	ChromaLocLeft       = 0
	ChromaLocCenter     = 1
	ChromaLocTopLeft    = 2
	ChromaLocTop        = 3
	ChromaLocBottomLeft = 4
	ChromaLocBottom     = 5
	// ChromaLocExtension is the ISO/IEC 23001-17 extension chroma-sample
	// location value (spec.md §3), beyond H.273's 0..5 range.
	ChromaLocExtension = 6
	chromaLocMax       = ChromaLocExtension
)

var chromaLocHV = map[uint8][2]string{
	ChromaLocLeft:       {"0", "0.5"},
	ChromaLocCenter:     {"0.5", "0.5"},
	ChromaLocTopLeft:    {"0", "0"},
	ChromaLocTop:        {"0.5", "0"},
	ChromaLocBottomLeft: {"0", "1"},
	ChromaLocBottom:     {"0.5", "1"},
	ChromaLocExtension:  {"1", "0.5"},
}

// Cloc is the "cloc" box: the chroma sample location descriptor
// (spec.md §3).
type Cloc struct {
	hdr  boxHeader
	full fullBoxHeader

	ChromaLocation uint8
}

// NewCloc returns a Cloc box with the given chroma_location value.
func NewCloc(location uint8) *Cloc {
	return &Cloc{hdr: boxHeader{Type: fourccCloc}, ChromaLocation: location}
}

// Type implements Box.
func (b *Cloc) Type() FourCC { return fourccCloc }

func parseCloc(h boxHeader, r *Range) (*Cloc, error) {
	full, err := readFullBoxHeader(r)
	if err != nil {
		return nil, err
	}
	if err := requireVersionZero(fourccCloc, full); err != nil {
		return nil, err
	}
	h.HeaderSize += 4

	location, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	if location > chromaLocMax {
		return nil, invalidInputError(SubInvalidParameterValue, "cloc: chroma_location %d out of range [0,%d]", location, chromaLocMax)
	}
	return &Cloc{hdr: h, full: full, ChromaLocation: location}, nil
}

// Write implements Box.
func (b *Cloc) Write(sink *Sink) error {
	if b.ChromaLocation > chromaLocMax {
		return usageError("cloc: chroma_location %d out of range [0,%d]", b.ChromaLocation, chromaLocMax)
	}
	mark := sink.beginFullBox(fourccCloc, 0, 0)
	sink.WriteU8(b.ChromaLocation)
	sink.endBox(mark)
	return nil
}

// Dump implements Box.
func (b *Cloc) Dump() string {
	out := dumpHeaderLine(fourccCloc, b.hdr)
	out += "version: " + itoa(int64(b.full.Version)) + "\n"
	out += "flags: " + itoa(int64(b.full.Flags)) + "\n"
	hv := chromaLocHV[b.ChromaLocation]
	prefix := "h=" + hv[0] + ","
	for len(prefix) < 7 {
		prefix += " "
	}
	out += "chroma_location: " + itoa(int64(b.ChromaLocation)) + " (" + prefix + "v=" + hv[1] + ")\n"
	return out
}
