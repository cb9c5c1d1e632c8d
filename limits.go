package unc17

// SecurityLimits gates the resource cost of parsing untrusted boxes, per
// spec.md §4.A. A zero-value SecurityLimits is not valid; use
// DefaultSecurityLimits or DisabledSecurityLimits.
type SecurityLimits struct {
	// MaxBoxSizeBytes bounds the total size (including header) of any one
	// box this module will parse.
	MaxBoxSizeBytes uint64
	// MaxICEFUnits bounds the number of (offset, size) entries an icef box
	// may declare.
	MaxICEFUnits uint64
	// MaxImagePixels bounds width*height for any pixel image this module
	// will allocate.
	MaxImagePixels uint64
	// MaxImageSizeBytes bounds the byte size of pixel data: each plane or
	// output buffer this module allocates, and the decoder's whole uncC
	// tile grid (tile count times bytes per tile, spec.md §3's uncC
	// invariant).
	MaxImageSizeBytes uint64
	// MaxComponents bounds the number of components a single pixel may
	// carry.
	MaxComponents uint32

	disabled bool
}

// DefaultSecurityLimits returns the limits applied unless a caller opts
// into DisabledSecurityLimits. The numbers are generous but finite, in the
// spirit of libheif's heif_get_global_security_limits().
func DefaultSecurityLimits() SecurityLimits {
	return SecurityLimits{
		MaxBoxSizeBytes:   512 * 1024 * 1024,
		MaxICEFUnits:      1 << 20,
		MaxImagePixels:    256 * 1024 * 1024,
		MaxImageSizeBytes: 4 * 1024 * 1024 * 1024,
		MaxComponents:     256,
	}
}

// DisabledSecurityLimits returns limits that never reject anything, for
// tests that must exercise adversarial or extreme-but-legal input without
// the limits tripping first (spec.md §4.A's "disabled limits mode").
func DisabledSecurityLimits() SecurityLimits {
	return SecurityLimits{disabled: true}
}

func (l SecurityLimits) checkBoxSize(size uint64) error {
	if l.disabled {
		return nil
	}
	if size > l.MaxBoxSizeBytes {
		return invalidInputError(SubInvalidParameterValue, "box size %d exceeds limit %d", size, l.MaxBoxSizeBytes)
	}
	return nil
}

func (l SecurityLimits) checkICEFUnits(n uint64) error {
	if l.disabled {
		return nil
	}
	if n > l.MaxICEFUnits {
		return invalidInputError(SubInvalidParameterValue, "icef unit count %d exceeds limit %d", n, l.MaxICEFUnits)
	}
	return nil
}

func (l SecurityLimits) checkImagePixels(pixels uint64) error {
	if l.disabled {
		return nil
	}
	if pixels > l.MaxImagePixels {
		return memoryError("image pixel count %d exceeds limit %d", pixels, l.MaxImagePixels)
	}
	return nil
}

func (l SecurityLimits) checkImageSizeBytes(size uint64) error {
	if l.disabled {
		return nil
	}
	if size > l.MaxImageSizeBytes {
		return memoryError("image size %d bytes exceeds limit %d", size, l.MaxImageSizeBytes)
	}
	return nil
}

// CheckImageSizeBytes is the exported form of checkImageSizeBytes, for
// packages outside unc17 (e.g. bayer) that allocate pixel storage of their
// own and must honor the same limit (spec.md §4.A).
func (l SecurityLimits) CheckImageSizeBytes(size uint64) error {
	return l.checkImageSizeBytes(size)
}

func (l SecurityLimits) checkComponentCount(n uint32) error {
	if l.disabled {
		return nil
	}
	if n > l.MaxComponents {
		return invalidInputError(SubInvalidParameterValue, "component count %d exceeds limit %d", n, l.MaxComponents)
	}
	return nil
}
