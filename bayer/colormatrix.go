package bayer

import (
	"math"

	"github.com/go-imgcore/unc17"
	"gonum.org/v1/gonum/mat"
)

// SRGBToXYZD65 is the sRGB -> CIE XYZ (D65 white point) matrix used when a
// sensor provides no calibration matrix of its own.
var SRGBToXYZD65 = []float64{
	0.4124564, 0.3575761, 0.1804375,
	0.2126729, 0.7151522, 0.0721750,
	0.0193339, 0.1191920, 0.9503041,
}

// InvertCameraMatrix inverts a row-major 3x3 XYZ-to-camera-space matrix
// (e.g. a DNG ColorMatrix1/ColorMatrix2 tag) into the camera-to-XYZ matrix
// ApplyColorSpaceCorrection needs, the same mat.NewDense/mat.Dense.Inverse
// sequence reader.go uses to invert tColorMatrix1/tColorMatrix2 before
// applying it to demosaiced samples.
func InvertCameraMatrix(xyzToCam []float64) ([]float64, error) {
	if len(xyzToCam) != 9 {
		return nil, internalError("InvertCameraMatrix: need 9 elements, got %d", len(xyzToCam))
	}
	m := mat.NewDense(3, 3, xyzToCam)
	var inv mat.Dense
	if err := inv.Inverse(m); err != nil {
		return nil, internalError("InvertCameraMatrix: matrix is not invertible: %v", err)
	}
	camToXYZ := make([]float64, 0, 9)
	camToXYZ = append(camToXYZ, inv.RawRowView(0)...)
	camToXYZ = append(camToXYZ, inv.RawRowView(1)...)
	camToXYZ = append(camToXYZ, inv.RawRowView(2)...)
	return camToXYZ, nil
}

// ApplyColorMatrix maps one (r, g, b) sample through a row-major 3x3
// matrix, as reader.go's XYZ decode loop does per-pixel with camToXYZ.
func ApplyColorMatrix(matrix []float64, r, g, b float64) (x, y, z float64) {
	x = r*matrix[0] + g*matrix[1] + b*matrix[2]
	y = r*matrix[3] + g*matrix[4] + b*matrix[5]
	z = r*matrix[6] + g*matrix[7] + b*matrix[8]
	return x, y, z
}

func readInterleavedChannel(plane *unc17.Plane, x, y, channel int, bpp uint8) uint32 {
	if bpp <= 8 {
		off := y*plane.Stride + x*3 + channel
		return uint32(plane.Bytes[off])
	}
	off := y*plane.Stride + (x*3+channel)*2
	return uint32(plane.Bytes[off]) | uint32(plane.Bytes[off+1])<<8
}

func writeXYZSample(plane *unc17.Plane, x, y int, xv, yv, zv float64) {
	off := y*plane.Stride + x*12
	for i, v := range [3]float64{xv, yv, zv} {
		bits := math.Float32bits(float32(v))
		o := off + i*4
		plane.Bytes[o] = byte(bits)
		plane.Bytes[o+1] = byte(bits >> 8)
		plane.Bytes[o+2] = byte(bits >> 16)
		plane.Bytes[o+3] = byte(bits >> 24)
	}
}

// ApplyColorSpaceCorrection converts Demosaic's interleaved RGB output into
// interleaved CIE XYZ samples, grounded on reader.go's "Step 4 - Color
// Space Correction": the camera-to-XYZ matrix is inverted from a
// DNG-style XYZ-to-camera calibration matrix the image carries
// (Image.CameraColorMatrix), falling back to SRGBToXYZD65 when none is
// attached, exactly the tColorMatrix2/tColorMatrix1/else chain reader.go
// runs before its per-pixel camToXYZ multiply.
func ApplyColorSpaceCorrection(img *unc17.Image, limits unc17.SecurityLimits) (*unc17.Image, error) {
	if img.Colorspace != unc17.ColorspaceRGB || len(img.Planes) != 1 || img.Planes[0].Channel != unc17.ChannelInterleaved {
		return nil, internalError("ApplyColorSpaceCorrection: input image must be Demosaic's one interleaved RGB plane")
	}

	camToXYZ := SRGBToXYZD65
	if xyzToCam, ok := img.CameraColorMatrix(); ok {
		data := make([]float64, 9)
		for i, v := range xyzToCam {
			data[i] = float64(v)
		}
		inv, err := InvertCameraMatrix(data)
		if err != nil {
			return nil, err
		}
		camToXYZ = inv
	}

	in := &img.Planes[0]
	bpp := in.BitDepth
	width, height := img.Width, img.Height
	maxVal := float64((uint32(1) << bpp) - 1)

	out := unc17.NewImage(width, height, unc17.ColorspaceNonvisual, unc17.ChromaInterleavedRRGGBBLE)
	stride := width * 3 * 4
	total := uint64(stride) * uint64(height)
	if err := limits.CheckImageSizeBytes(total); err != nil {
		return nil, err
	}
	out.Planes = append(out.Planes, unc17.Plane{
		Channel:  unc17.ChannelInterleaved,
		Datatype: unc17.FormatFloat,
		BitDepth: 32,
		Width:    width,
		Height:   height,
		Stride:   stride,
		Bytes:    make([]byte, total),
	})
	outPlane := &out.Planes[0]

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r := float64(readInterleavedChannel(in, x, y, 0, bpp)) / maxVal
			g := float64(readInterleavedChannel(in, x, y, 1, bpp)) / maxVal
			b := float64(readInterleavedChannel(in, x, y, 2, bpp)) / maxVal
			xv, yv, zv := ApplyColorMatrix(camToXYZ, r, g, b)
			writeXYZSample(outPlane, x, y, xv, yv, zv)
		}
	}

	return out, nil
}
