package unc17

import "strconv"

// Box is the common interface every descriptor box in this family
// implements: parse from a bounded range, serialize to a Sink, and render
// a stable diagnostic dump (spec.md §4.B).
type Box interface {
	// Type returns the box's 4-byte tag.
	Type() FourCC
	// Write serializes the box in canonical form to sink.
	Write(sink *Sink) error
	// Dump renders the stable, human-readable diagnostic text for the box.
	Dump() string
}

// ReadBox reads one box's header and dispatches to the matching type's
// parser, mirroring libheif's Box::read dispatch (original_source's
// unc_dec.h references exactly this closed set of box classes). Only the
// nine uncompressed-image box types below are parsed; any other box type
// is rejected with an Unsupported_feature error.
func ReadBox(r *Range) (Box, error) {
	mark := r.off
	h, err := readBoxHeader(r)
	if err != nil {
		return nil, err
	}
	// Re-slice a fresh range scoped to this box's declared extent so a
	// box's own fields can never read past its boundary, and so parse
	// errors can't leave the outer range at an inconsistent offset.
	payloadLen := int(h.Size) - h.HeaderSize
	if err := r.require(payloadLen); err != nil {
		return nil, err
	}
	boxEnd := r.off + payloadLen
	inner := &Range{data: r.data[r.off:boxEnd], limits: r.limits}

	var box Box
	switch h.Type {
	case fourccCmpd:
		box, err = parseCmpd(h, inner)
	case fourccUncC:
		box, err = parseUncC(h, inner)
	case fourccCmpC:
		box, err = parseCmpC(h, inner)
	case fourccIcef:
		box, err = parseIcef(h, inner)
	case fourccCpat:
		box, err = parseCpat(h, inner)
	case fourccSplz:
		box, err = parseSplz(h, inner)
	case fourccSbpm:
		box, err = parseSbpm(h, inner)
	case fourccSnuc:
		box, err = parseSnuc(h, inner)
	case fourccCloc:
		box, err = parseCloc(h, inner)
	default:
		return nil, unsupportedError(SubNone, "unknown box type %q", h.Type.String())
	}
	if err != nil {
		r.off = mark
		return nil, err
	}
	r.off = boxEnd
	return box, nil
}

// dumpHeaderLine renders the "Box: <type> -----\nsize: N   (header size: M)\n"
// preamble every box's Dump() starts with (spec.md §4.B, verified byte-for-byte
// against original_source/tests/uncompressed_box.cc).
func dumpHeaderLine(t FourCC, h boxHeader) string {
	return "Box: " + t.String() + " -----\nsize: " + itoa(int64(h.Size)) + "   (header size: " + itoa(int64(h.HeaderSize)) + ")\n"
}

// itoa avoids pulling in fmt at every call site; kept tiny and local since
// every Dump() implementation needs it repeatedly.
func itoa(v int64) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// ftoa renders a float32 sample value (a cpat gain, an splz angle, ...) for
// Dump() without truncating its fractional part the way itoa(int64(v))
// does; 'g' with -1 precision prints the shortest string that round-trips.
func ftoa(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}
