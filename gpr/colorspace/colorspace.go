// Package colorspace inverts the GS/GD/RG/BG decorrelated planes (§3, §4.6)
// back to RGB for the reduced-resolution decode path (§4.8's "small
// color-matrix stage that inverts GS/GD/RG/BG → R,G,B with a camera gain
// triple"), and the matching forward direction for symmetry and testing.
// Scalar conversion plus batch-over-slices helpers follow the same split
// jpeg2000/colorspace/rct.go uses for its RCT forward/inverse pair.
package colorspace

const Midpoint = 1 << 11

// Gain is a fixed-point (16.16) per-channel multiplier applied after color
// reconstruction, for the camera gain triple §4.8 mentions (white balance /
// exposure compensation baked in at capture time).
type Gain uint32

// UnityGain applies no scaling.
const UnityGain Gain = 1 << 16

// GainTriple holds the three per-channel gains applied on the inverse path.
type GainTriple struct {
	R, G, B Gain
}

// UnityGains is the identity triple: output equals the unscaled
// reconstruction.
var UnityGains = GainTriple{R: UnityGain, G: UnityGain, B: UnityGain}

func applyGain(v int32, g Gain) int32 {
	return int32((int64(v) * int64(g)) >> 16)
}

// Forward computes GS/GD/RG/BG from a Bayer quad (§3).
func Forward(r, g1, g2, b int32) (gs, gd, rg, bg int32) {
	gs = (g1 + g2) / 2
	gd = (g1-g2)/2 + Midpoint
	rg = (r-gs)/2 + Midpoint
	bg = (b-gs)/2 + Midpoint
	return
}

// Inverse reconstructs R, G, B from GS/GD/RG/BG (the green channel output is
// GS itself — the Bayer pattern's average green, not the per-phase G1/G2
// pair) and applies the camera gain triple, clamping each channel to
// [0, maxValue].
func Inverse(gs, gd, rg, bg int32, gains GainTriple, maxValue int32) (r, g, b int32) {
	_ = gd // GD only distinguishes G1 from G2; the RGB output has a single green.
	r = clamp(applyGain(gs+2*(rg-Midpoint), gains.R), maxValue)
	g = clamp(applyGain(gs, gains.G), maxValue)
	b = clamp(applyGain(gs+2*(bg-Midpoint), gains.B), maxValue)
	return
}

func clamp(v, max int32) int32 {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

// InverseComponents converts whole GS/GD/RG/BG planes to separate R, G, B
// planes, mirroring the batch-over-slices idiom used for RCT.
func InverseComponents(gs, gd, rg, bg []int32, gains GainTriple, maxValue int32) (r, g, b []int32) {
	n := len(gs)
	r = make([]int32, n)
	g = make([]int32, n)
	b = make([]int32, n)
	for i := 0; i < n; i++ {
		r[i], g[i], b[i] = Inverse(gs[i], gd[i], rg[i], bg[i], gains, maxValue)
	}
	return
}

// InterleaveRGB packs separate R, G, B planes into an interleaved
// [R0,G0,B0,R1,G1,B1,...] buffer sized for the requested output bit depth
// (8 or 16 bits per sample, big-endian for 16-bit per §4.8's RGB output).
func InterleaveRGB(r, g, b []int32, bitsPerSample int) []byte {
	n := len(r)
	switch bitsPerSample {
	case 8:
		out := make([]byte, n*3)
		for i := 0; i < n; i++ {
			out[i*3] = byte(r[i])
			out[i*3+1] = byte(g[i])
			out[i*3+2] = byte(b[i])
		}
		return out
	default:
		out := make([]byte, n*6)
		for i := 0; i < n; i++ {
			putBE16(out[i*6:], uint16(r[i]))
			putBE16(out[i*6+2:], uint16(g[i]))
			putBE16(out[i*6+4:], uint16(b[i]))
		}
		return out
	}
}

func putBE16(dst []byte, v uint16) {
	dst[0] = byte(v >> 8)
	dst[1] = byte(v)
}
