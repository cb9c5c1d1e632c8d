package unc17

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompressDecompressRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog "), 64)

	for _, fourcc := range []FourCC{fourccDeflate, fourccZlib, fourccBrotli} {
		compressed, err := Compress(fourcc, payload)
		require.NoError(t, err)
		require.NotEmpty(t, compressed)

		decompressed, err := Decompress(fourcc, compressed)
		require.NoError(t, err)
		require.Equal(t, payload, decompressed)
	}
}

func TestCompressUnsupportedFourCCExactMessage(t *testing.T) {
	_, err := Compress(NewFourCC("zzzz"), []byte("x"))
	require.Error(t, err)
	compErr, ok := err.(*Error)
	require.True(t, ok)
	require.Equal(t, KindUnsupportedFeature, compErr.Kind)
	require.Equal(t, SubUnsupportedGenericCompression, compErr.SubKind)
	require.Equal(t, "Unsupported unci compression method.", compErr.Message)
}

func TestDecompressUnsupportedFourCCExactMessage(t *testing.T) {
	_, err := Decompress(NewFourCC("zzzz"), []byte("x"))
	require.Error(t, err)
	compErr, ok := err.(*Error)
	require.True(t, ok)
	require.Equal(t, KindUnsupportedFeature, compErr.Kind)
	require.Equal(t, SubUnsupportedGenericCompression, compErr.SubKind)
	require.Equal(t, "Unsupported unci compression method.", compErr.Message)
}
