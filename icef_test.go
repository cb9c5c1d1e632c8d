package unc17

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIcef24Bit8BitWidths(t *testing.T) {
	data := []byte{
		0x00, 0x00, 0x00, 0x19, 'i', 'c', 'e', 'f',
		0x00, 0x00, 0x00, 0x00,
		0b01000000,
		0x00, 0x00, 0x00, 0x02,
		0x00, 0x0a, 0x03, 0x03,
		0x02, 0x03, 0x0a, 0x07,
	}
	r := NewRange(data, DefaultSecurityLimits())
	box, err := ReadBox(r)
	require.NoError(t, err)
	b, ok := box.(*Icef)
	require.True(t, ok)
	require.Len(t, b.Units, 2)
	require.EqualValues(t, 3, b.OffsetFieldWidth)
	require.EqualValues(t, 1, b.SizeFieldWidth)

	sink := NewSink()
	require.NoError(t, b.Write(sink))
	require.Equal(t, data, sink.Bytes())

	require.Equal(t, "Box: icef -----\nsize: 25   (header size: 12)\nnum_compressed_units: 2\nunit_offset: 2563, unit_size: 3\nunit_offset: 131850, unit_size: 7\n", b.Dump())
}

func TestIcefInferredOffset16BitSize(t *testing.T) {
	data := []byte{
		0x00, 0x00, 0x00, 0x15, 'i', 'c', 'e', 'f',
		0x00, 0x00, 0x00, 0x00,
		0b00000100,
		0x00, 0x00, 0x00, 0x02,
		0x40, 0x03,
		0x0a, 0x07,
	}
	r := NewRange(data, DefaultSecurityLimits())
	box, err := ReadBox(r)
	require.NoError(t, err)
	b, ok := box.(*Icef)
	require.True(t, ok)
	require.Len(t, b.Units, 2)
	require.EqualValues(t, 0, b.OffsetFieldWidth)
	require.EqualValues(t, 2, b.SizeFieldWidth)
	require.EqualValues(t, 0, b.Units[0].UnitOffset)
	require.EqualValues(t, 16387, b.Units[0].UnitSize)
	require.EqualValues(t, 16387, b.Units[1].UnitOffset)
	require.EqualValues(t, 2567, b.Units[1].UnitSize)

	sink := NewSink()
	require.NoError(t, b.Write(sink))
	require.Equal(t, data, sink.Bytes())

	require.Equal(t, "Box: icef -----\nsize: 21   (header size: 12)\nnum_compressed_units: 2\nunit_offset: 0, unit_size: 16387\nunit_offset: 16387, unit_size: 2567\n", b.Dump())
}

func TestIcef32BitWidths(t *testing.T) {
	data := []byte{
		0x00, 0x00, 0x00, 0x21, 'i', 'c', 'e', 'f',
		0x00, 0x00, 0x00, 0x00,
		0b01101100,
		0x00, 0x00, 0x00, 0x02,
		0x00, 0x00, 0x03, 0x04, 0x01, 0x01, 0x02, 0x03,
		0x01, 0x02, 0x03, 0x0a, 0x00, 0x04, 0x05, 0x07,
	}
	r := NewRange(data, DefaultSecurityLimits())
	box, err := ReadBox(r)
	require.NoError(t, err)
	b, ok := box.(*Icef)
	require.True(t, ok)
	require.EqualValues(t, 772, b.Units[0].UnitOffset)
	require.EqualValues(t, 16843267, b.Units[0].UnitSize)
	require.EqualValues(t, 16909066, b.Units[1].UnitOffset)
	require.EqualValues(t, 263431, b.Units[1].UnitSize)

	sink := NewSink()
	require.NoError(t, b.Write(sink))
	require.Equal(t, data, sink.Bytes())

	require.Equal(t, "Box: icef -----\nsize: 33   (header size: 12)\nnum_compressed_units: 2\nunit_offset: 772, unit_size: 16843267\nunit_offset: 16909066, unit_size: 263431\n", b.Dump())
}

func TestIcefUint64Widths(t *testing.T) {
	data := []byte{
		0x00, 0x00, 0x00, 0x31, 'i', 'c', 'e', 'f',
		0x00, 0x00, 0x00, 0x00,
		0b10010000,
		0x00, 0x00, 0x00, 0x02,
		0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x0a, 0x03,
		0x00, 0x00, 0x00, 0x02, 0x00, 0x01, 0x02, 0x03,
		0x00, 0x00, 0x00, 0x02, 0x00, 0x02, 0x03, 0x0a,
		0x00, 0x00, 0x00, 0x03, 0x00, 0x04, 0x05, 0x07,
	}
	r := NewRange(data, DefaultSecurityLimits())
	box, err := ReadBox(r)
	require.NoError(t, err)
	b, ok := box.(*Icef)
	require.True(t, ok)
	require.EqualValues(t, 4294969859, b.Units[0].UnitOffset)
	require.EqualValues(t, 8590000643, b.Units[0].UnitSize)
	require.EqualValues(t, 8590066442, b.Units[1].UnitOffset)
	require.EqualValues(t, 12885165319, b.Units[1].UnitSize)

	sink := NewSink()
	require.NoError(t, b.Write(sink))
	require.Equal(t, data, sink.Bytes())

	require.Equal(t, "Box: icef -----\nsize: 49   (header size: 12)\nnum_compressed_units: 2\nunit_offset: 4294969859, unit_size: 8590000643\nunit_offset: 8590066442, unit_size: 12885165319\n", b.Dump())
}

func TestIcefBadVersionIsUnsupported(t *testing.T) {
	data := []byte{
		0x00, 0x00, 0x00, 0x19, 'i', 'c', 'e', 'f',
		0x01, 0x00, 0x00, 0x00,
		0b01000000,
		0x00, 0x00, 0x00, 0x02,
		0x00, 0x0a, 0x03, 0x03,
		0x02, 0x03, 0x0a, 0x07,
	}
	r := NewRange(data, DefaultSecurityLimits())
	_, err := ReadBox(r)
	require.Error(t, err)
	icefErr, ok := err.(*Error)
	require.True(t, ok)
	require.Equal(t, KindUnsupportedFeature, icefErr.Kind)
	require.Equal(t, SubUnsupportedDataVersion, icefErr.SubKind)
	require.Equal(t, "icef box data version 1 is not implemented yet", icefErr.Message)
}
