// Package bayer implements Bayer (un)packing (§4.6, component C6):
// converting packed RGGB/GBRG sensor buffers at 12/12-packed/14/16 bits
// to and from the four decorrelated component planes GS, GD, RG, BG, with
// cubic companding applied to each raw sample first (§3).
package bayer

import "github.com/cocosip/gpr-codec/gpr/gprerr"

// Format identifies one of the 8 supported packed Bayer layouts (§4.6).
type Format int

const (
	RGGB12 Format = iota
	RGGB14
	RGGB16
	RGGB12P
	GBRG12
	GBRG14
	GBRG16
	GBRG12P
)

// phase reports the 2x2 pixel arrangement of a format's top-left block:
// true for RGGB (R, G1 / G2, B), false for GBRG (G1, B / R, G2).
func (f Format) phase() bool {
	switch f {
	case RGGB12, RGGB14, RGGB16, RGGB12P:
		return true
	case GBRG12, GBRG14, GBRG16, GBRG12P:
		return false
	default:
		return true
	}
}

// bitDepth reports the format's native sample bit depth.
func (f Format) bitDepth() (int, error) {
	switch f {
	case RGGB12, RGGB12P, GBRG12, GBRG12P:
		return 12, nil
	case RGGB14, GBRG14:
		return 14, nil
	case RGGB16, GBRG16:
		return 16, nil
	default:
		return 0, gprerr.New(gprerr.KindUnsupportedPixelFormat)
	}
}

// packed reports whether a format uses the 3-bytes-per-2-pixels packing
// (§4.6: "RGGB_12P — three bytes per two pixels").
func (f Format) packed() bool {
	return f == RGGB12P || f == GBRG12P
}

// BitDepth exposes a format's native sample bit depth to callers outside
// this package that need to size an output buffer (the decoder driver's
// raw-output pitch computation).
func (f Format) BitDepth() (int, error) {
	return f.bitDepth()
}

// IsPacked exposes whether a format uses the 3-bytes-per-2-pixels packing,
// for the same callers BitDepth serves.
func (f Format) IsPacked() bool {
	return f.packed()
}
