package unc17

import (
	"bytes"
	"io"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zlib"
	"github.com/pkg/errors"
)

// Compress dispatches to the named compression back-end, addressed by
// fourcc (spec.md §6: "defl", "zlib", "brot"). An unknown fourcc returns
// the exact Unsupported_feature error spec.md §6 mandates.
func Compress(fourcc FourCC, data []byte) ([]byte, error) {
	switch fourcc {
	case fourccDeflate:
		var buf bytes.Buffer
		w, err := flate.NewWriter(&buf, flate.DefaultCompression)
		if err != nil {
			return nil, decoderPluginError(err, "defl: opening writer")
		}
		if _, err := w.Write(data); err != nil {
			return nil, decoderPluginError(err, "defl: compressing")
		}
		if err := w.Close(); err != nil {
			return nil, decoderPluginError(err, "defl: closing writer")
		}
		return buf.Bytes(), nil
	case fourccZlib:
		var buf bytes.Buffer
		w := zlib.NewWriter(&buf)
		if _, err := w.Write(data); err != nil {
			return nil, decoderPluginError(err, "zlib: compressing")
		}
		if err := w.Close(); err != nil {
			return nil, decoderPluginError(err, "zlib: closing writer")
		}
		return buf.Bytes(), nil
	case fourccBrotli:
		var buf bytes.Buffer
		w := brotli.NewWriter(&buf)
		if _, err := w.Write(data); err != nil {
			return nil, decoderPluginError(err, "brot: compressing")
		}
		if err := w.Close(); err != nil {
			return nil, decoderPluginError(err, "brot: closing writer")
		}
		return buf.Bytes(), nil
	default:
		return nil, unsupportedCompressionError(fourcc)
	}
}

// Decompress is Compress's inverse, dispatched by the same fourcc table.
func Decompress(fourcc FourCC, data []byte) ([]byte, error) {
	switch fourcc {
	case fourccDeflate:
		r := flate.NewReader(bytes.NewReader(data))
		defer r.Close()
		return readAllWrapped(r, "defl")
	case fourccZlib:
		r, err := zlib.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, decoderPluginError(err, "zlib: opening reader")
		}
		defer r.Close()
		return readAllWrapped(r, "zlib")
	case fourccBrotli:
		r := brotli.NewReader(bytes.NewReader(data))
		return readAllWrapped(r, "brot")
	default:
		return nil, unsupportedCompressionError(fourcc)
	}
}

func readAllWrapped(r io.Reader, name string) ([]byte, error) {
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, decoderPluginError(errors.WithStack(err), "%s: decompressing", name)
	}
	return out, nil
}

// unsupportedCompressionError builds the exact message spec.md §6 mandates
// for a back-end this module does not implement.
func unsupportedCompressionError(fourcc FourCC) error {
	return unsupportedError(SubUnsupportedGenericCompression, "Unsupported unci compression method.")
}
