// Package state implements the codec state record (§4.4, component C4):
// the mutable parameters tag-value segments update as a bitstream is
// written or parsed, plus the "already seen" header-tag bookkeeping that
// makes the encoder's "same as state" elision and the decoder's
// duplicate-header detection possible.
package state

import (
	"github.com/cocosip/gpr-codec/gpr/gprerr"
	"github.com/cocosip/gpr-codec/gpr/tagvalue"
)

// State mirrors every parameter the bitstream carries across tag-value
// updates. A single instance is shared by one encode or one decode call.
type State struct {
	ChannelCount        int
	ImageWidth          int
	ImageHeight         int
	SubbandCount        int
	ImageFormat         int
	PatternWidth        int
	PatternHeight       int
	ComponentsPerSample int
	MaxBitsPerComponent int

	ChannelNumber    int
	ChannelWidth     int
	ChannelHeight    int
	BitsPerComponent int
	LowpassPrecision int
	SubbandNumber    int
	Quantization     int
	// PrescaleShift holds 2 bits per wavelet level, packed low-to-high
	// (level 0 in bits 0-1, level 1 in bits 2-3, level 2 in bits 4-5), per
	// §4.9's "PrescaleShift (packed 2 bits per wavelet)".
	PrescaleShift int

	// seen tracks which header parameters (tagvalue.Descriptor.Header ==
	// true) have already been assigned once (§4.4).
	seen map[tagvalue.Tag]bool
	// headerComplete latches true the first time a non-header tag is
	// observed; further header tags after that point are an error (§4.4).
	headerComplete bool
}

// New returns a zeroed State with LowpassPrecision defaulted to 16 (§3:
// "lowpass precision ... default 16").
func New() *State {
	return &State{
		LowpassPrecision: 16,
		seen:             make(map[tagvalue.Tag]bool),
	}
}

// Prescale returns the prescale shift for wavelet level (0, 1, or 2).
func (s *State) Prescale(level int) int {
	return (s.PrescaleShift >> uint(2*level)) & 0x3
}

// SetPrescale packs shift into the 2-bit field for wavelet level.
func (s *State) SetPrescale(level, shift int) {
	mask := 0x3 << uint(2*level)
	s.PrescaleShift = (s.PrescaleShift &^ mask) | ((shift & 0x3) << uint(2*level))
}

// Observe records that seg.Tag was just parsed, enforcing §4.4's
// duplicate-header and header-ordering invariants. Callers apply the
// segment's value to the matching State field themselves (Apply does
// this for the scalar fields this package knows about); Observe only
// maintains the seen-map bookkeeping and must be called for every
// segment, header or not.
func (s *State) Observe(t tagvalue.Tag) error {
	d, ok := tagvalue.Lookup(t)
	if !ok {
		return nil // unknown tags don't participate in header tracking
	}
	if d.Header {
		if s.headerComplete {
			return gprerr.New(gprerr.KindMissingHeaderParameter)
		}
		if s.seen[t] {
			return gprerr.New(gprerr.KindDuplicateHeaderParameter)
		}
		s.seen[t] = true
		return nil
	}
	s.headerComplete = true
	return nil
}

// Apply assigns a decoded segment's value to the matching State field.
// Tags this package does not model as a scalar State field (LargeCodeblock,
// InverseTransform, InversePermutation, UniqueImageIdentifier) are left for
// the decoder driver to dispatch directly; Apply is a no-op for those.
func (s *State) Apply(t tagvalue.Tag, value uint16) {
	switch t {
	case tagvalue.ChannelCount:
		s.ChannelCount = int(value)
	case tagvalue.ImageWidth:
		s.ImageWidth = int(value)
	case tagvalue.ImageHeight:
		s.ImageHeight = int(value)
	case tagvalue.SubbandCount:
		s.SubbandCount = int(value)
	case tagvalue.ImageFormat:
		s.ImageFormat = int(value)
	case tagvalue.PatternWidth:
		s.PatternWidth = int(value)
	case tagvalue.PatternHeight:
		s.PatternHeight = int(value)
	case tagvalue.ComponentsPerSample:
		s.ComponentsPerSample = int(value)
	case tagvalue.MaxBitsPerComponent:
		s.MaxBitsPerComponent = int(value)
	case tagvalue.ChannelNumber:
		s.ChannelNumber = int(value)
	case tagvalue.ChannelWidth:
		s.ChannelWidth = int(value)
	case tagvalue.ChannelHeight:
		s.ChannelHeight = int(value)
	case tagvalue.BitsPerComponent:
		s.BitsPerComponent = int(value)
	case tagvalue.LowpassPrecision:
		s.LowpassPrecision = int(value)
	case tagvalue.SubbandNumber:
		s.SubbandNumber = int(value)
	case tagvalue.Quantization:
		s.Quantization = int(value)
	case tagvalue.PrescaleShift:
		s.PrescaleShift = int(value)
	}
}

// HeaderComplete reports whether a non-header tag has been observed yet.
func (s *State) HeaderComplete() bool {
	return s.headerComplete
}

// ValidateImageFormat checks the header fields §7's BadImageFormat
// enumerates: ImageFormat must name RAW (0), the pattern must be 2x2, and
// components-per-sample must be 1.
func (s *State) ValidateImageFormat() error {
	const formatRAW = 0
	if s.ImageFormat != formatRAW || s.PatternWidth != 2 || s.PatternHeight != 2 || s.ComponentsPerSample != 1 {
		return gprerr.New(gprerr.KindBadImageFormat)
	}
	return nil
}

// ValidateLowpassPrecision checks §7's BadLowpassPrecision bound.
func (s *State) ValidateLowpassPrecision() error {
	if s.LowpassPrecision < 8 || s.LowpassPrecision > 16 {
		return gprerr.New(gprerr.KindBadLowpassPrecision)
	}
	return nil
}
