package unc17

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCmpCDeflate(t *testing.T) {
	data := []byte{
		0x00, 0x00, 0x00, 0x11, 'c', 'm', 'p', 'C',
		0x00, 0x00, 0x00, 0x00, 'd', 'e', 'f', 'l',
		0x00,
	}
	r := NewRange(data, DefaultSecurityLimits())
	box, err := ReadBox(r)
	require.NoError(t, err)
	b, ok := box.(*CmpC)
	require.True(t, ok)
	require.Equal(t, NewFourCC("defl"), b.CompressionType)
	require.EqualValues(t, CompressedUnitTile, b.CompressedUnitType)

	sink := NewSink()
	require.NoError(t, b.Write(sink))
	require.Equal(t, data, sink.Bytes())

	require.Equal(t, "Box: cmpC -----\nsize: 17   (header size: 12)\ncompression_type: defl\ncompressed_entity_type: 0\n", b.Dump())
}

func TestCmpCZlib(t *testing.T) {
	data := []byte{
		0x00, 0x00, 0x00, 0x11, 'c', 'm', 'p', 'C',
		0x00, 0x00, 0x00, 0x00, 'z', 'l', 'i', 'b',
		0x02,
	}
	r := NewRange(data, DefaultSecurityLimits())
	box, err := ReadBox(r)
	require.NoError(t, err)
	b, ok := box.(*CmpC)
	require.True(t, ok)
	require.Equal(t, NewFourCC("zlib"), b.CompressionType)
	require.EqualValues(t, CompressedUnitTileComponent, b.CompressedUnitType)

	sink := NewSink()
	require.NoError(t, b.Write(sink))
	require.Equal(t, data, sink.Bytes())

	require.Equal(t, "Box: cmpC -----\nsize: 17   (header size: 12)\ncompression_type: zlib\ncompressed_entity_type: 2\n", b.Dump())
}

func TestCmpCBrotli(t *testing.T) {
	data := []byte{
		0x00, 0x00, 0x00, 0x11, 'c', 'm', 'p', 'C',
		0x00, 0x00, 0x00, 0x00, 'b', 'r', 'o', 't',
		0x01,
	}
	r := NewRange(data, DefaultSecurityLimits())
	box, err := ReadBox(r)
	require.NoError(t, err)
	b, ok := box.(*CmpC)
	require.True(t, ok)
	require.Equal(t, NewFourCC("brot"), b.CompressionType)
	require.EqualValues(t, CompressedUnitTileRow, b.CompressedUnitType)

	sink := NewSink()
	require.NoError(t, b.Write(sink))
	require.Equal(t, data, sink.Bytes())

	require.Equal(t, "Box: cmpC -----\nsize: 17   (header size: 12)\ncompression_type: brot\ncompressed_entity_type: 1\n", b.Dump())
}

func TestCmpCBadVersionIsUnsupported(t *testing.T) {
	data := []byte{
		0x00, 0x00, 0x00, 0x11, 'c', 'm', 'p', 'C',
		0x01, 0x00, 0x00, 0x00, 'd', 'e', 'f', 'l',
		0x00,
	}
	r := NewRange(data, DefaultSecurityLimits())
	_, err := ReadBox(r)
	require.Error(t, err)
	cmpcErr, ok := err.(*Error)
	require.True(t, ok)
	require.Equal(t, KindUnsupportedFeature, cmpcErr.Kind)
	require.Equal(t, SubUnsupportedDataVersion, cmpcErr.SubKind)
	require.Equal(t, "cmpC box data version 1 is not implemented yet", cmpcErr.Message)
}

func TestCmpCRejectsOutOfRangeUnitType(t *testing.T) {
	b := NewCmpC(NewFourCC("defl"), 4)
	require.Error(t, b.Write(NewSink()))
}
