package unc17

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func buildRGBAUncC() *UncC {
	b := NewUncC()
	b.Profile = NewFourCC("rgba")
	b.AddComponent(UncCComponent{ComponentIndex: 0, ComponentBitDepth: 8, ComponentFormat: FormatUnsigned})
	b.AddComponent(UncCComponent{ComponentIndex: 1, ComponentBitDepth: 8, ComponentFormat: FormatUnsigned})
	b.AddComponent(UncCComponent{ComponentIndex: 2, ComponentBitDepth: 8, ComponentFormat: FormatUnsigned})
	b.AddComponent(UncCComponent{ComponentIndex: 3, ComponentBitDepth: 8, ComponentFormat: FormatUnsigned})
	b.SamplingType = SamplingNone
	b.InterleaveType = InterleavePixel
	return b
}

func TestUncCWriteAndDump(t *testing.T) {
	b := buildRGBAUncC()
	require.Len(t, b.Components, 4)
	require.EqualValues(t, 1, b.NumTileCols)
	require.EqualValues(t, 1, b.NumTileRows)

	sink := NewSink()
	require.NoError(t, b.Write(sink))
	expected := []byte{
		0x00, 0x00, 0x00, 0x40, 'u', 'n', 'c', 'C',
		0x00, 0x00, 0x00, 0x00, 'r', 'g', 'b', 'a',
		0x00, 0x00, 0x00, 0x04, 0, 0, 7, 0x00,
		0x00, 0x00, 0x01, 0x07, 0x00, 0x00, 0x00, 0x02,
		0x07, 0x00, 0x00, 0x00, 0x03, 0x07, 0x00, 0x00,
		0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	}
	require.Equal(t, expected, sink.Bytes())

	require.Equal(t, "Box: uncC -----\nsize: 0   (header size: 0)\nprofile: 1919378017 (rgba)\ncomponent_index: 0\n"+
		"| component_bit_depth: 8\n| component_format: unsigned\n| component_align_size: 0\ncomponent_index: 1\n"+
		"| component_bit_depth: 8\n| component_format: unsigned\n| component_align_size: 0\ncomponent_index: 2\n"+
		"| component_bit_depth: 8\n| component_format: unsigned\n| component_align_size: 0\ncomponent_index: 3\n"+
		"| component_bit_depth: 8\n| component_format: unsigned\n| component_align_size: 0\nsampling_type: no subsampling\n"+
		"interleave_type: pixel\nblock_size: 0\ncomponents_little_endian: 0\nblock_pad_lsb: 0\nblock_little_endian: 0\n"+
		"block_reversed: 0\npad_unknown: 0\npixel_size: 0\nrow_align_size: 0\ntile_align_size: 0\nnum_tile_cols: 1\nnum_tile_rows: 1\n",
		b.Dump())
}

func TestUncCParseRoundTrip(t *testing.T) {
	data := []byte{
		0x00, 0x00, 0x00, 0x40, 'u', 'n', 'c', 'C',
		0x00, 0x00, 0x00, 0x00, 'r', 'g', 'b', 'a',
		0x00, 0x00, 0x00, 0x04, 0, 0, 7, 0x00,
		0x00, 0x00, 0x01, 0x07, 0x00, 0x00, 0x00, 0x02,
		0x07, 0x00, 0x00, 0x00, 0x03, 0x07, 0x00, 0x00,
		0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x02,
	}
	r := NewRange(data, DefaultSecurityLimits())
	box, err := ReadBox(r)
	require.NoError(t, err)
	b, ok := box.(*UncC)
	require.True(t, ok)
	require.EqualValues(t, 2, b.NumTileCols)
	require.EqualValues(t, 3, b.NumTileRows)

	require.Equal(t, "Box: uncC -----\n"+
		"size: 64   (header size: 12)\n"+
		"profile: 1919378017 (rgba)\n"+
		"component_index: 0\n"+
		"| component_bit_depth: 8\n"+
		"| component_format: unsigned\n"+
		"| component_align_size: 0\n"+
		"component_index: 1\n"+
		"| component_bit_depth: 8\n"+
		"| component_format: unsigned\n"+
		"| component_align_size: 0\n"+
		"component_index: 2\n"+
		"| component_bit_depth: 8\n"+
		"| component_format: unsigned\n"+
		"| component_align_size: 0\n"+
		"component_index: 3\n"+
		"| component_bit_depth: 8\n"+
		"| component_format: unsigned\n"+
		"| component_align_size: 0\n"+
		"sampling_type: no subsampling\n"+
		"interleave_type: pixel\n"+
		"block_size: 0\n"+
		"components_little_endian: 0\n"+
		"block_pad_lsb: 0\n"+
		"block_little_endian: 0\n"+
		"block_reversed: 0\n"+
		"pad_unknown: 0\n"+
		"pixel_size: 0\n"+
		"row_align_size: 0\n"+
		"tile_align_size: 0\n"+
		"num_tile_cols: 2\n"+
		"num_tile_rows: 3\n",
		b.Dump())
}

func TestUncCParseNoOverflowWithDisabledLimits(t *testing.T) {
	data := []byte{
		0x00, 0x00, 0x00, 0x40, 'u', 'n', 'c', 'C',
		0x00, 0x00, 0x00, 0x00, 'r', 'g', 'b', 'a',
		0x00, 0x00, 0x00, 0x04, 0, 0, 7, 0x00,
		0x00, 0x00, 0x01, 0x07, 0x00, 0x00, 0x00, 0x02,
		0x07, 0x00, 0x00, 0x00, 0x03, 0x07, 0x00, 0x00,
		0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0xff, 0xff, 0xff, 0xfe, 0xff, 0xff, 0xff, 0xfe,
	}
	r := NewRange(data, DisabledSecurityLimits())
	box, err := ReadBox(r)
	require.NoError(t, err)
	b, ok := box.(*UncC)
	require.True(t, ok)
	require.EqualValues(t, 0xFFFFFFFF, b.NumTileCols)
	require.EqualValues(t, 0xFFFFFFFF, b.NumTileRows)
}

func TestUncCParseExcessTileColsOverflows(t *testing.T) {
	data := []byte{
		0x00, 0x00, 0x00, 0x40, 'u', 'n', 'c', 'C',
		0x00, 0x00, 0x00, 0x00, 'r', 'g', 'b', 'a',
		0x00, 0x00, 0x00, 0x04, 0, 0, 7, 0x00,
		0x00, 0x00, 0x01, 0x07, 0x00, 0x00, 0x00, 0x02,
		0x07, 0x00, 0x00, 0x00, 0x03, 0x07, 0x00, 0x00,
		0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0xff, 0xff, 0xff, 0xff, 0x00, 0x00, 0x7f, 0xff,
	}
	r := NewRange(data, DefaultSecurityLimits())
	_, err := ReadBox(r)
	require.Error(t, err)
	uncErr, ok := err.(*Error)
	require.True(t, ok)
	require.Equal(t, KindInvalidInput, uncErr.Kind)
	require.Equal(t, SubInvalidParameterValue, uncErr.SubKind)
}

func TestUncCParseExcessTileRowsOverflows(t *testing.T) {
	data := []byte{
		0x00, 0x00, 0x00, 0x40, 'u', 'n', 'c', 'C',
		0x00, 0x00, 0x00, 0x00, 'r', 'g', 'b', 'a',
		0x00, 0x00, 0x00, 0x04, 0, 0, 7, 0x00,
		0x00, 0x00, 0x01, 0x07, 0x00, 0x00, 0x00, 0x02,
		0x07, 0x00, 0x00, 0x00, 0x03, 0x07, 0x00, 0x00,
		0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x7f, 0xff, 0xff, 0xff, 0xff, 0xff,
	}
	r := NewRange(data, DefaultSecurityLimits())
	_, err := ReadBox(r)
	require.Error(t, err)
	uncErr, ok := err.(*Error)
	require.True(t, ok)
	require.Equal(t, KindInvalidInput, uncErr.Kind)
	require.Equal(t, SubInvalidParameterValue, uncErr.SubKind)
}
