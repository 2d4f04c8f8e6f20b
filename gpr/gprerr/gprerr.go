// Package gprerr defines the GPR error taxonomy (§7) as a leaf package so
// every layer of the codec — from bitstream.Reader up through the
// encoder/decoder drivers — can return a stable Kind without import
// cycles back to the root gpr package.
package gprerr

import "github.com/pkg/errors"

// Kind identifies one of the error classes a GPR encode or decode call can
// fail with.
type Kind int

const (
	// KindMemory means the injected Allocator returned failure.
	KindMemory Kind = iota
	// KindBitstreamUnderflow means a read ran past the end of the byte stream.
	KindBitstreamUnderflow
	// KindBitstreamOverflow means a write could not grow the byte stream.
	KindBitstreamOverflow
	// KindMissingStartMarker means the first 32 bits of a decode input were
	// not the bitstream magic.
	KindMissingStartMarker
	// KindBadSegment means an unknown required tag, or an optional tag whose
	// payload length was not plausible, was encountered.
	KindBadSegment
	// KindDuplicateHeaderParameter means a header tag was seen a second time.
	KindDuplicateHeaderParameter
	// KindMissingHeaderParameter means a non-header tag appeared before a
	// required header tag had been seen.
	KindMissingHeaderParameter
	// KindBadImageFormat means ImageFormat, pattern, or components-per-sample
	// failed validation.
	KindBadImageFormat
	// KindBadLowpassPrecision means the lowpass precision fell outside [8, 16].
	KindBadLowpassPrecision
	// KindNotFoundInCodebook means VLC parsing scanned the whole codebook
	// without a bit-pattern match.
	KindNotFoundInCodebook
	// KindMissingBandEnd means a highpass subband ended without its band-end
	// marker.
	KindMissingBandEnd
	// KindUnsupportedPixelFormat means the requested Bayer layout is unknown.
	KindUnsupportedPixelFormat
	// KindUnsupportedResolution means the requested RGB output resolution is
	// outside {Full, Half, Quarter, Eighth, Sixteenth}.
	KindUnsupportedResolution
)

func (k Kind) String() string {
	switch k {
	case KindMemory:
		return "memory"
	case KindBitstreamUnderflow:
		return "bitstream underflow"
	case KindBitstreamOverflow:
		return "bitstream overflow"
	case KindMissingStartMarker:
		return "missing start marker"
	case KindBadSegment:
		return "bad segment"
	case KindDuplicateHeaderParameter:
		return "duplicate header parameter"
	case KindMissingHeaderParameter:
		return "missing header parameter"
	case KindBadImageFormat:
		return "bad image format"
	case KindBadLowpassPrecision:
		return "bad lowpass precision"
	case KindNotFoundInCodebook:
		return "not found in codebook"
	case KindMissingBandEnd:
		return "missing band end"
	case KindUnsupportedPixelFormat:
		return "unsupported pixel format"
	case KindUnsupportedResolution:
		return "unsupported resolution"
	default:
		return "unknown"
	}
}

// Error is the concrete error type returned by every driver entry point.
// It wraps an underlying cause (often nil) behind a stable Kind so callers
// can both errors.Is/As through the pkg/errors chain and switch on Kind.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an *Error of the given Kind with no wrapped cause.
func New(kind Kind) *Error {
	return &Error{Kind: kind}
}

// Wrap builds an *Error of the given Kind wrapping err with pkg/errors so
// the original stack and any bitstream-offset context added by
// errors.Wrapf at the call site survive in the Unwrap chain.
func Wrap(kind Kind, err error, msg string) *Error {
	return &Error{Kind: kind, Err: errors.Wrap(err, msg)}
}

// Is reports whether the first *Error found in err's Unwrap chain has the
// given Kind; any *Error deeper in the chain is not examined.
func Is(err error, kind Kind) bool {
	var e *Error
	for err != nil {
		if ge, ok := err.(*Error); ok {
			e = ge
			break
		}
		err = errors.Unwrap(err)
	}
	return e != nil && e.Kind == kind
}
