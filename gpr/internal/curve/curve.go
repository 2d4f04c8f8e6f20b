// Package curve builds the cubic "log" companding curves §3 and §4.2
// describe: a monotonic remapping that gives small values finer
// resolution than large ones, used both for Bayer pixel companding (C6)
// and for wavelet-coefficient magnitude companding before entropy coding
// (C2). Both call sites want the same curve family over different domain
// sizes, so the curve itself lives in one place.
package curve

import "math"

// Build returns a forward companding LUT of length in+1 mapping
// [0, in] -> [0, out] along a cube-root curve: f(x) = out * (x/in)^(1/3)
// scaled so f(in) == out exactly, rounded to the nearest integer. The
// curve is concave (steep near 0, flat near in), so small input values
// spread across more of the output range than large ones. It is
// non-decreasing but not strictly increasing: when in > out, and in the
// flat region near in, neighbouring inputs share one output value, so
// BuildInverse inverts it only approximately.
func Build(in, out int) []uint32 {
	lut := make([]uint32, in+1)
	inF := float64(in)
	outF := float64(out)
	for x := 0; x <= in; x++ {
		t := float64(x) / inF
		lut[x] = uint32(outF*math.Cbrt(t) + 0.5)
	}
	return lut
}

// BuildInverse derives the inverse of a LUT built by Build: for each
// output value y in [0, out], find the smallest x whose forward value is
// >= y. Because forward is monotonic non-decreasing this is a valid
// (if not perfectly bit-exact) inverse — §4.6 notes the forward/inverse
// pair is "idempotent together only up to quantization of the companding
// curve; this is expected."
func BuildInverse(forward []uint32, out int) []uint32 {
	in := len(forward) - 1
	inv := make([]uint32, out+1)
	x := 0
	for y := 0; y <= out; y++ {
		for x < in && forward[x] < uint32(y) {
			x++
		}
		inv[y] = uint32(x)
	}
	return inv
}
