// Package dwt implements the two-dimensional wavelet forward and inverse
// transforms (§4.7, §4.8, components C7/C8): a horizontal 2/6-tap filter
// followed by a vertical 2/6-tap filter on the forward side, and their
// inverses on reconstruction, each with the subband's quantization folded
// in. The in-place, explicitly-bordered filtering style follows
// go-dicom-codec's jpeg2000/wavelet/dwt53.go row filter (gpr/dwt
// generalizes the same "predict step with explicit left/right border
// cases" shape from a 2-tap lifting filter to GPR's 2-6 tap biorthogonal
// one).
package dwt

func clamp16(x int32) int16 {
	if x > 0x7FFF {
		return 0x7FFF
	}
	if x < -0x8000 {
		return -0x8000
	}
	return int16(x)
}

// prescaleRow right-shifts every sample by pre bits with rounding (§4.7:
// "(x + ((1<<pre)-1)) >> pre"), or returns src unchanged if pre == 0.
func prescaleRow(src []int16, pre int) []int32 {
	out := make([]int32, len(src))
	if pre == 0 {
		for i, v := range src {
			out[i] = int32(v)
		}
		return out
	}
	bias := int32(1<<uint(pre)) - 1
	for i, v := range src {
		out[i] = (int32(v) + bias) >> uint(pre)
	}
	return out
}

// col returns src[i], reflecting i back into [0, len(src)) for samples
// that would otherwise fall off the row — the same mirror-extension
// border handling the vertical filter uses, needed here too once a row is
// narrower than the 6-tap window (small test images in particular).
func col(src []int32, i int) int32 {
	n := len(src)
	for i < 0 || i >= n {
		if i < 0 {
			i = -i - 1
		}
		if i >= n {
			i = 2*n - i - 1
		}
	}
	return src[i]
}

// horizontalForward runs the forward horizontal 2/6-tap filter over one
// prescaled row (§4.7), producing half-width low- and high-pass rows.
func horizontalForward(src []int32) (low, high []int32) {
	width := len(src)
	half := width / 2
	low = make([]int32, half)
	high = make([]int32, half)

	for k := 0; k < half; k++ {
		low[k] = src[2*k] + src[2*k+1]
	}

	for k := 1; k <= half-2; k++ {
		c := 2 * k
		high[k] = (-src[c-2] - src[c-1] + src[c+2] + src[c+3] + 4) >> 3
		high[k] += src[c] - src[c+1]
	}

	// Left border (k=0): §4.7's six-tap boundary formula using the first
	// six samples.
	s0, s1, s2, s3, s4, s5 := col(src, 0), col(src, 1), col(src, 2), col(src, 3), col(src, 4), col(src, 5)
	high[0] = (5*s0 - 11*s1 + 4*s2 + 4*s3 - s4 - s5 + 4) >> 3

	// Right border mirrors the left using the last six samples with
	// inverted signs (§4.7). Skipped when half == 1: the single output
	// column is entirely the left border.
	if half > 1 {
		n := width
		s0, s1, s2, s3, s4, s5 = col(src, n-6), col(src, n-5), col(src, n-4), col(src, n-3), col(src, n-2), col(src, n-1)
		high[half-1] = (s0 + s1 - 4*s2 - 4*s3 + 11*s4 - 5*s5 + 4) >> 3
	}

	return low, high
}

// verticalForward runs the forward vertical 2/6-tap filter (§4.7) given
// six consecutive rows of horizontal-filtered data, producing one pair of
// low/high output rows per window position. top and bottom select the
// boundary formulas for the first and last output row respectively;
// otherwise the interior "middle" formula applies.
func verticalForward(r0, r1, r2, r3, r4, r5 []int32, top, bottom bool) (low, high []int32) {
	width := len(r0)
	low = make([]int32, width)
	high = make([]int32, width)

	switch {
	case top:
		for x := 0; x < width; x++ {
			low[x] = r0[x] + r1[x]
			high[x] = (5*r0[x] - 11*r1[x] + 4*r2[x] + 4*r3[x] - r4[x] - r5[x] + 4) >> 3
		}
	case bottom:
		for x := 0; x < width; x++ {
			low[x] = r4[x] + r5[x]
			high[x] = (r0[x] + r1[x] - 4*r2[x] - 4*r3[x] + 11*r4[x] - 5*r5[x] + 4) >> 3
		}
	default:
		for x := 0; x < width; x++ {
			low[x] = r2[x] + r3[x]
			high[x] = (-r0[x] - r1[x] + 8*r2[x] - 8*r3[x] + r4[x] + r5[x] + 4) >> 3
		}
	}
	return low, high
}
