package unc17

// FourCC is a 4-byte ASCII box or compression-method tag, stored as the
// big-endian uint32 the bitstream actually carries.
type FourCC uint32

// NewFourCC builds a FourCC from its 4-character string form, e.g. "uncC".
func NewFourCC(s string) FourCC {
	if len(s) != 4 {
		panic("fourcc: must be exactly 4 bytes: " + s)
	}
	return FourCC(uint32(s[0])<<24 | uint32(s[1])<<16 | uint32(s[2])<<8 | uint32(s[3]))
}

// String renders the FourCC back to its 4-character form.
func (f FourCC) String() string {
	return string([]byte{byte(f >> 24), byte(f >> 16), byte(f >> 8), byte(f)})
}

var (
	fourccCmpd = NewFourCC("cmpd")
	fourccUncC = NewFourCC("uncC")
	fourccCmpC = NewFourCC("cmpC")
	fourccIcef = NewFourCC("icef")
	fourccCpat = NewFourCC("cpat")
	fourccSplz = NewFourCC("splz")
	fourccSbpm = NewFourCC("sbpm")
	fourccSnuc = NewFourCC("snuc")
	fourccCloc = NewFourCC("cloc")

	fourccDeflate = NewFourCC("defl")
	fourccZlib    = NewFourCC("zlib")
	fourccBrotli  = NewFourCC("brot")
)

// HeifUnciCompression mirrors the heif_unci_compression enum named in
// spec.md §6: the encoder's public compression-choice knob, translated to
// a compression fourcc (or 0 for "no compression requested").
type HeifUnciCompression int

const (
	HeifUnciCompressionOff HeifUnciCompression = iota
	HeifUnciCompressionDeflate
	HeifUnciCompressionZlib
	HeifUnciCompressionBrotli
)

// ResolveCompressionFourCC implements the translation table in spec.md §6:
// off -> 0, deflate -> "defl", zlib -> "zlib", brotli -> "brot", anything
// else -> 0 (no compression requested).
func ResolveCompressionFourCC(c HeifUnciCompression) FourCC {
	switch c {
	case HeifUnciCompressionDeflate:
		return fourccDeflate
	case HeifUnciCompressionZlib:
		return fourccZlib
	case HeifUnciCompressionBrotli:
		return fourccBrotli
	default:
		return 0
	}
}
