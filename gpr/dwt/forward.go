package dwt

import "github.com/cocosip/gpr-codec/gpr/quant"

// mirrorIndex reflects an out-of-range row index back into [0, height) so
// the six-row vertical window can be evaluated uniformly at every output
// position, including near the top/bottom borders of small planes, without
// a separate bounds-checked code path per case.
func mirrorIndex(i, height int) int {
	for i < 0 || i >= height {
		if i < 0 {
			i = -i - 1
		}
		if i >= height {
			i = 2*height - i - 1
		}
	}
	return i
}

// ForwardLevel runs one level of the 2-D forward wavelet transform (§4.7)
// over a source plane of int16 rows (width x height, both even), applying
// prescale before the horizontal filter and the given per-band quantizer
// after the vertical filter. It returns the four quantized bands, each
// width/2 x height/2.
func ForwardLevel(srcRows [][]int16, width, height, prescale int, quantizers [4]quant.Quantizer) (ll, lh, hl, hh [][]int16) {
	halfH := height / 2

	// Horizontal pass: filter every row independently.
	lowRows := make([][]int32, height)
	highRows := make([][]int32, height)
	for y := 0; y < height; y++ {
		prescaled := prescaleRow(srcRows[y], prescale)
		lowRows[y], highRows[y] = horizontalForward(prescaled)
	}

	ll = make([][]int16, halfH)
	hl = make([][]int16, halfH)
	lh = make([][]int16, halfH)
	hh = make([][]int16, halfH)

	fetch := func(rows [][]int32, i int) []int32 {
		return rows[mirrorIndex(i, height)]
	}

	for j := 0; j < halfH; j++ {
		top := j == 0
		bottom := j == halfH-1

		var base int
		switch {
		case top:
			base = 0
		case bottom:
			base = height - 6
		default:
			base = 2*j - 2
		}

		llRow, hlRow := verticalForward(
			fetch(lowRows, base), fetch(lowRows, base+1), fetch(lowRows, base+2),
			fetch(lowRows, base+3), fetch(lowRows, base+4), fetch(lowRows, base+5),
			top, bottom,
		)
		lhRow, hhRow := verticalForward(
			fetch(highRows, base), fetch(highRows, base+1), fetch(highRows, base+2),
			fetch(highRows, base+3), fetch(highRows, base+4), fetch(highRows, base+5),
			top, bottom,
		)

		ll[j] = quantizeRow(llRow, quantizers[0])
		lh[j] = quantizeRow(lhRow, quantizers[1])
		hl[j] = quantizeRow(hlRow, quantizers[2])
		hh[j] = quantizeRow(hhRow, quantizers[3])
	}

	return ll, lh, hl, hh
}

func quantizeRow(row []int32, q quant.Quantizer) []int16 {
	out := make([]int16, len(row))
	for i, v := range row {
		out[i] = q.Quantize(v)
	}
	return out
}
