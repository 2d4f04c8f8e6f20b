package bayer

import "github.com/cocosip/gpr-codec/gpr/internal/curve"

// Companding remaps the 12-bit raw sample domain (0..4095) onto itself
// along a cubic curve (§3: "a cubic 'log' companding LUT of length
// 4096->16-bit" — 4096 entries, each stored with 16-bit headroom, over
// the same 12-bit value domain the rest of the pipeline works in), the
// same shape gpr/codebook applies to coefficient magnitudes over a
// different domain size (§4.2).
const (
	rawDomain = 1<<12 - 1
	midpoint  = 1 << 11 // 2048
)

// LUT holds the forward and inverse companding tables, built once and
// shared read-only across encode/decode instances (§9 "Global LUTs and
// codebooks": "computed once at codec initialization ... deterministic so
// different instances share identical tables by structural equality").
type LUT struct {
	forward []uint32 // rawDomain+1 entries
	inverse []uint32 // rawDomain+1 entries
}

// NewLUT builds the companding tables.
func NewLUT() *LUT {
	fwd := curve.Build(rawDomain, rawDomain)
	return &LUT{forward: fwd, inverse: curve.BuildInverse(fwd, rawDomain)}
}

func (l *LUT) compand(raw int) int {
	return int(l.forward[clamp12(raw)])
}

func (l *LUT) decompand(companded int) int {
	return int(l.inverse[clamp12(companded)])
}

func clamp12(v int) int {
	if v < 0 {
		return 0
	}
	if v > rawDomain {
		return rawDomain
	}
	return v
}

// Planes holds the four decorrelated component planes for one image,
// GS/GD/RG/BG (§3), each sized channelWidth x channelHeight.
type Planes struct {
	Width, Height  int // channel plane dimensions (half the image, each axis)
	GS, GD, RG, BG []int16
}

func newPlanes(w, h int) *Planes {
	n := w * h
	return &Planes{
		Width: w, Height: h,
		GS: make([]int16, n), GD: make([]int16, n),
		RG: make([]int16, n), BG: make([]int16, n),
	}
}

// Unpack decodes a packed Bayer image into the four component planes
// (§4.6 forward direction).
func Unpack(lut *LUT, format Format, image []byte, imgWidth, imgHeight, pitch int) (*Planes, error) {
	if _, err := format.bitDepth(); err != nil {
		return nil, err
	}
	depth, _ := format.bitDepth()
	packed := format.packed()
	rggb := format.phase()

	cw, ch := imgWidth/2, imgHeight/2
	planes := newPlanes(cw, ch)

	for by := 0; by < ch; by++ {
		for bx := 0; bx < cw; bx++ {
			p0, p1, p2, p3 := readSamples(image, pitch, by*2, bx*2, depth, packed)

			var r, g1, g2, b int
			if rggb {
				r, g1, g2, b = p0, p1, p2, p3
			} else {
				g1, b, r, g2 = p0, p1, p2, p3
			}

			r = lut.compand(r)
			g1 = lut.compand(g1)
			g2 = lut.compand(g2)
			b = lut.compand(b)

			gs := (g1 + g2) / 2
			gd := (g1-g2)/2 + midpoint
			rg := (r-gs)/2 + midpoint
			bg := (b-gs)/2 + midpoint

			i := by*cw + bx
			planes.GS[i] = int16(clamp12(gs))
			planes.GD[i] = int16(clamp12(gd))
			planes.RG[i] = int16(clamp12(rg))
			planes.BG[i] = int16(clamp12(bg))
		}
	}

	return planes, nil
}

// Pack reconstructs a packed Bayer image from the four component planes
// (§4.6 inverse direction): applies the inverse cubic LUT back to the
// 12-bit linear domain, then writes each sample at the requested format's
// bit depth and phase.
func Pack(lut *LUT, format Format, planes *Planes, imgWidth, imgHeight, pitch int) ([]byte, error) {
	if _, err := format.bitDepth(); err != nil {
		return nil, err
	}
	depth, _ := format.bitDepth()
	packed := format.packed()
	rggb := format.phase()
	cw := planes.Width

	out := make([]byte, pitch*imgHeight)

	for by := 0; by < planes.Height; by++ {
		for bx := 0; bx < cw; bx++ {
			i := by*cw + bx
			gs := int(planes.GS[i])
			gd := int(planes.GD[i])
			rg := int(planes.RG[i])
			bg := int(planes.BG[i])

			g1 := gs + (gd - midpoint)
			g2 := gs - (gd - midpoint)
			r := gs + 2*(rg-midpoint)
			b := gs + 2*(bg-midpoint)

			r = lut.decompand(r)
			g1 = lut.decompand(g1)
			g2 = lut.decompand(g2)
			b = lut.decompand(b)

			var p0, p1, p2, p3 int
			if rggb {
				p0, p1, p2, p3 = r, g1, g2, b
			} else {
				p0, p1, p2, p3 = g1, b, r, g2
			}

			writeSamples(out, pitch, by*2, bx*2, depth, packed, p0, p1, p2, p3)
		}
	}

	return out, nil
}
