package unc17

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies an Error the way spec.md §7 enumerates them: not an
// identifier, but a bucket the caller can switch on.
type Kind int

const (
	// KindUsage means the caller violated the API contract.
	KindUsage Kind = iota
	// KindInvalidInput means wire data violates the spec.
	KindInvalidInput
	// KindUnsupportedFeature means the data is recognized but not implemented.
	KindUnsupportedFeature
	// KindMemoryAllocation means a buffer request exceeded limits.
	KindMemoryAllocation
	// KindDecoderPlugin means an upstream compression back-end failed.
	KindDecoderPlugin
	// KindInternal means an invariant was broken inside the core.
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindUsage:
		return "Usage_error"
	case KindInvalidInput:
		return "Invalid_input"
	case KindUnsupportedFeature:
		return "Unsupported_feature"
	case KindMemoryAllocation:
		return "Memory_allocation"
	case KindDecoderPlugin:
		return "Decoder_plugin"
	case KindInternal:
		return "Internal"
	default:
		return "Unknown"
	}
}

// Sub-kinds used across the box family. These mirror libheif's
// sub_error_code naming so error messages stay recognizable.
const (
	SubInvalidParameterValue        = "Invalid_parameter_value"
	SubNoMandatoryProperty          = "No_mandatory_property"
	SubUnsupportedDataVersion       = "Unsupported_data_version"
	SubUnsupportedGenericCompression = "Unsupported_generic_compression_method"
	SubEndOfData                   = "End_of_data"
	SubNone                        = ""
)

// Error is the single error type returned across the module. It carries a
// Kind, an optional SubKind (mirrors libheif's sub_error_code), a message,
// and an optional wrapped cause.
type Error struct {
	Kind    Kind
	SubKind string
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.SubKind == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s/%s: %s", e.Kind, e.SubKind, e.Message)
}

// Unwrap lets errors.Is/errors.As see through to the cause, including
// causes wrapped by github.com/pkg/errors.
func (e *Error) Unwrap() error {
	return e.cause
}

func usageError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindUsage, Message: fmt.Sprintf(format, args...)}
}

func invalidInputError(sub, format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidInput, SubKind: sub, Message: fmt.Sprintf(format, args...)}
}

func unsupportedError(sub, format string, args ...interface{}) *Error {
	return &Error{Kind: KindUnsupportedFeature, SubKind: sub, Message: fmt.Sprintf(format, args...)}
}

func memoryError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindMemoryAllocation, Message: fmt.Sprintf(format, args...)}
}

func decoderPluginError(cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: KindDecoderPlugin, cause: errors.WithStack(cause), Message: fmt.Sprintf(format, args...)}
}

func internalError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInternal, Message: fmt.Sprintf(format, args...)}
}

// unsupportedVersionError builds the exact message spec.md §4.B mandates:
// "<fourcc> box data version <N> is not implemented yet".
func unsupportedVersionError(fourccStr string, version uint8) *Error {
	return unsupportedError(SubUnsupportedDataVersion, "%s box data version %d is not implemented yet", fourccStr, version)
}
