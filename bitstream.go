package unc17

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// Range is a bounded, big-endian byte-oriented reader (spec.md §4.A). All
// reads are checked against the remaining extent; an over-read returns an
// Invalid_input error rather than panicking, so adversarial input can
// never escalate past a typed error (spec.md §7).
type Range struct {
	data   []byte
	off    int
	limits SecurityLimits
}

// NewRange wraps data as a bounded reader gated by limits.
func NewRange(data []byte, limits SecurityLimits) *Range {
	return &Range{data: data, limits: limits}
}

// Len returns the number of unread bytes left in the range.
func (r *Range) Len() int {
	return len(r.data) - r.off
}

// Limits returns the SecurityLimits this range was constructed with.
func (r *Range) Limits() SecurityLimits {
	return r.limits
}

func (r *Range) require(n int) error {
	if n < 0 || n > r.Len() {
		return invalidInputError(SubEndOfData, "unexpected end of data: need %d bytes, have %d", n, r.Len())
	}
	return nil
}

// ReadBytes returns the next n bytes without copying; the caller must not
// mutate the returned slice.
func (r *Range) ReadBytes(n int) ([]byte, error) {
	if err := r.require(n); err != nil {
		return nil, err
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b, nil
}

// ReadU8 reads one byte.
func (r *Range) ReadU8() (uint8, error) {
	b, err := r.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadU16 reads a big-endian uint16.
func (r *Range) ReadU16() (uint16, error) {
	b, err := r.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

// ReadU24 reads a big-endian 3-byte unsigned integer (used for FullBox flags).
func (r *Range) ReadU24() (uint32, error) {
	b, err := r.ReadBytes(3)
	if err != nil {
		return 0, err
	}
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2]), nil
}

// ReadU32 reads a big-endian uint32.
func (r *Range) ReadU32() (uint32, error) {
	b, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// ReadU40 reads a big-endian 5-byte unsigned integer.
func (r *Range) ReadU40() (uint64, error) {
	return r.ReadUintN(5)
}

// ReadU48 reads a big-endian 6-byte unsigned integer.
func (r *Range) ReadU48() (uint64, error) {
	return r.ReadUintN(6)
}

// ReadU64 reads a big-endian uint64.
func (r *Range) ReadU64() (uint64, error) {
	b, err := r.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

// ReadUintN reads an n-byte (1..8) big-endian, MSB-first unsigned integer,
// used by icef's arbitrary-width offset/size fields (spec.md §4.B).
func (r *Range) ReadUintN(n int) (uint64, error) {
	b, err := r.ReadBytes(n)
	if err != nil {
		return 0, err
	}
	var v uint64
	for _, by := range b {
		v = v<<8 | uint64(by)
	}
	return v, nil
}

// ReadF32 reads a big-endian IEEE-754 float32, preserving its exact bit
// pattern (needed for the splz "no filter" sentinel, spec.md §6).
func (r *Range) ReadF32() (float32, error) {
	bits, err := r.ReadU32()
	if err != nil {
		return 0, err
	}
	return float32FromBits(bits), nil
}

// ReadCString reads bytes up to and including a terminating NUL, returning
// the string without the NUL. Used by cmpd's component_type_uri.
func (r *Range) ReadCString() (string, error) {
	start := r.off
	for {
		b, err := r.ReadU8()
		if err != nil {
			return "", errors.Wrap(err, "reading NUL-terminated string")
		}
		if b == 0 {
			return string(r.data[start : r.off-1]), nil
		}
	}
}

//------------------------//
// Sink (writer)          //
//------------------------//

// Sink is an in-memory, growable big-endian byte writer that backpatches
// box size prefixes on close (spec.md §4.A).
type Sink struct {
	buf []byte
}

// NewSink returns an empty Sink.
func NewSink() *Sink {
	return &Sink{}
}

// Bytes returns the accumulated byte stream.
func (s *Sink) Bytes() []byte {
	return s.buf
}

// Len returns the number of bytes written so far.
func (s *Sink) Len() int {
	return len(s.buf)
}

// WriteU8 appends one byte.
func (s *Sink) WriteU8(v uint8) {
	s.buf = append(s.buf, v)
}

// WriteU16 appends a big-endian uint16.
func (s *Sink) WriteU16(v uint16) {
	s.buf = append(s.buf, byte(v>>8), byte(v))
}

// WriteU24 appends a big-endian 3-byte unsigned integer.
func (s *Sink) WriteU24(v uint32) {
	s.buf = append(s.buf, byte(v>>16), byte(v>>8), byte(v))
}

// WriteU32 appends a big-endian uint32.
func (s *Sink) WriteU32(v uint32) {
	s.buf = append(s.buf, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

// WriteU64 appends a big-endian uint64.
func (s *Sink) WriteU64(v uint64) {
	s.buf = append(s.buf,
		byte(v>>56), byte(v>>48), byte(v>>40), byte(v>>32),
		byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

// WriteUintN appends an n-byte (1..8) big-endian unsigned integer.
func (s *Sink) WriteUintN(v uint64, n int) {
	for i := n - 1; i >= 0; i-- {
		s.buf = append(s.buf, byte(v>>(8*uint(i))))
	}
}

// WriteF32 appends a big-endian IEEE-754 float32, bit-exact.
func (s *Sink) WriteF32(v float32) {
	s.WriteU32(float32Bits(v))
}

// WriteBytes appends raw bytes.
func (s *Sink) WriteBytes(b []byte) {
	s.buf = append(s.buf, b...)
}

// WriteCString appends s followed by a NUL terminator.
func (s *Sink) WriteCString(str string) {
	s.buf = append(s.buf, []byte(str)...)
	s.buf = append(s.buf, 0)
}

// beginBox reserves a 4-byte size placeholder and writes the type, and
// returns the offset of the size placeholder so endBox can backpatch it.
func (s *Sink) beginBox(t FourCC) int {
	mark := len(s.buf)
	s.WriteU32(0) // placeholder
	s.WriteU32(uint32(t))
	return mark
}

// endBox backpatches the 4-byte size field at mark with the number of
// bytes written since mark (spec.md §4.A).
func (s *Sink) endBox(mark int) {
	size := uint32(len(s.buf) - mark)
	binary.BigEndian.PutUint32(s.buf[mark:mark+4], size)
}

// beginFullBox is beginBox plus the FullBox version/flags header.
func (s *Sink) beginFullBox(t FourCC, version uint8, flags uint32) int {
	mark := s.beginBox(t)
	s.WriteU8(version)
	s.WriteU24(flags)
	return mark
}

//------------------------//
// Box headers            //
//------------------------//

// boxHeader carries the fields common to every box, used for dump's
// "size: N  (header size: M)" line.
type boxHeader struct {
	Size       uint64
	Type       FourCC
	HeaderSize int
}

// readBoxHeader reads a (size, type) pair, including the 64-bit
// "largesize" extension when size == 1, per spec.md §4.A.
func readBoxHeader(r *Range) (boxHeader, error) {
	size32, err := r.ReadU32()
	if err != nil {
		return boxHeader{}, err
	}
	typ, err := r.ReadU32()
	if err != nil {
		return boxHeader{}, err
	}
	h := boxHeader{Type: FourCC(typ), Size: uint64(size32), HeaderSize: 8}
	if size32 == 1 {
		large, err := r.ReadU64()
		if err != nil {
			return boxHeader{}, err
		}
		h.Size = large
		h.HeaderSize = 16
	}
	if err := r.limits.checkBoxSize(h.Size); err != nil {
		return boxHeader{}, err
	}
	return h, nil
}

// fullBoxHeader carries a FullBox's version and 24-bit flags.
type fullBoxHeader struct {
	Version uint8
	Flags   uint32
}

func readFullBoxHeader(r *Range) (fullBoxHeader, error) {
	version, err := r.ReadU8()
	if err != nil {
		return fullBoxHeader{}, err
	}
	flags, err := r.ReadU24()
	if err != nil {
		return fullBoxHeader{}, err
	}
	return fullBoxHeader{Version: version, Flags: flags}, nil
}

// requireVersionZero enforces spec.md §4.B's version rule: every FullBox in
// this family only defines version 0.
func requireVersionZero(t FourCC, h fullBoxHeader) error {
	if h.Version != 0 {
		return unsupportedVersionError(t.String(), h.Version)
	}
	return nil
}
