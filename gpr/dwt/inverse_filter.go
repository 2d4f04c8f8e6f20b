package dwt

// verticalInverse reconstructs the even/odd row pair at pyramid row index
// i from the LL/HL (or LH/HH) band rows, inverting verticalForward
// (§4.8). ll is indexed by the same mirror-safe row accessor the forward
// pass uses so small planes reconstruct without a separate bounds check.
func verticalInverse(llAt func(int) []int32, hl []int32, i, height int) (even, odd []int32) {
	width := len(hl)
	even = make([]int32, width)
	odd = make([]int32, width)

	switch {
	case i == 0:
		l0, l1, l2 := llAt(0), llAt(1), llAt(2)
		for x := 0; x < width; x++ {
			evenCorr := (11*l0[x] - 4*l1[x] + l2[x] + 4) >> 3
			oddCorr := (5*l0[x] + 4*l1[x] - l2[x] + 4) >> 3
			even[x] = (evenCorr + hl[x]) >> 1
			odd[x] = (oddCorr - hl[x]) >> 1
		}
	case i == height/2-1:
		l0, l1, l2 := llAt(height/2-3), llAt(height/2-2), llAt(height/2-1)
		for x := 0; x < width; x++ {
			evenCorr := (5*l2[x] + 4*l1[x] - l0[x] + 4) >> 3
			oddCorr := (11*l2[x] - 4*l1[x] + l0[x] + 4) >> 3
			even[x] = (evenCorr + hl[x]) >> 1
			odd[x] = (oddCorr - hl[x]) >> 1
		}
	default:
		lPrev, lCur, lNext := llAt(i-1), llAt(i), llAt(i+1)
		for x := 0; x < width; x++ {
			corrEven := (lPrev[x] - lNext[x] + 4) >> 3
			corrOdd := (lNext[x] - lPrev[x] + 4) >> 3
			even[x] = (lCur[x] + corrEven + hl[x]) >> 1
			odd[x] = (lCur[x] + corrOdd - hl[x]) >> 1
		}
	}
	return even, odd
}

// hcol returns lp[c], reflecting c back into [0, len(lp)) the same way
// col does for the forward horizontal filter.
func hcol(lp []int32, c int) int32 {
	return col(lp, c)
}

// horizontalInverse reconstructs a full-width row from its half-width
// lowpass and highpass components (§4.8: "the same three-tap filter
// horizontally ... left/right borders use the same biased coefficients as
// encode"). When descale is true the final >>1 is omitted (§4.8's
// "descale variant": "when the encoder applied a prescale of 2, the
// decoder replaces the final >>1 with an <<descale_shift (equivalently,
// omits the shift) so the reconstructed coefficient is left in the
// higher-precision domain").
func horizontalInverse(lp, hp []int32, descale bool) []int32 {
	half := len(lp)
	out := make([]int32, 2*half)

	finish := func(v int32) int32 {
		if descale {
			return v
		}
		return v >> 1
	}

	for c := 0; c < half; c++ {
		switch {
		case c == 0:
			l0, l1, l2 := hcol(lp, 0), hcol(lp, 1), hcol(lp, 2)
			corrEven := (11*l0 - 4*l1 + l2 + 4) >> 3
			corrOdd := (5*l0 + 4*l1 - l2 + 4) >> 3
			out[2*c] = finish(corrEven + hp[c])
			out[2*c+1] = finish(corrOdd - hp[c])
		case c == half-1:
			l0, l1, l2 := hcol(lp, half-3), hcol(lp, half-2), hcol(lp, half-1)
			corrEven := (5*l2 + 4*l1 - l0 + 4) >> 3
			corrOdd := (11*l2 - 4*l1 + l0 + 4) >> 3
			out[2*c] = finish(corrEven + hp[c])
			out[2*c+1] = finish(corrOdd - hp[c])
		default:
			corrEven := (lp[c-1] - lp[c+1] + 4) >> 3
			corrOdd := (lp[c+1] - lp[c-1] + 4) >> 3
			out[2*c] = finish(lp[c] + corrEven + hp[c])
			out[2*c+1] = finish(lp[c] + corrOdd - hp[c])
		}
	}
	return out
}
