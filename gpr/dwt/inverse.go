package dwt

import "github.com/cocosip/gpr-codec/gpr/quant"

// InverseLevel reconstructs one pyramid level's source plane from its four
// quantized bands (§4.8): dequantize, then invert the vertical filter (LL
// paired with HL, LH paired with HH) to recover the horizontal lowpass
// and highpass row sets, then invert the horizontal filter row pair by
// row pair to produce the full-resolution plane.
//
// prescale is the encoder's prescale shift for this level (§4.9's
// {0,2,2} table). When it is 2, the horizontal reconstruction's final
// >>1 is omitted per §4.8's descale variant, leaving the output in the
// higher-precision domain the encoder's own prescale produced; the
// caller is responsible for applying any matching downstream shift.
func InverseLevel(ll, lh, hl, hh [][]int16, quantizers [4]quant.Quantizer, prescale int) [][]int16 {
	halfH := len(ll)
	if halfH == 0 {
		return nil
	}
	height := halfH * 2

	llRows := dequantizeRows(ll, quantizers[0])
	lhRows := dequantizeRows(lh, quantizers[1])
	hlRows := dequantizeRows(hl, quantizers[2])
	hhRows := dequantizeRows(hh, quantizers[3])

	llAt := func(i int) []int32 { return llRows[mirrorIndex(i, halfH)] }
	lhAt := func(i int) []int32 { return lhRows[mirrorIndex(i, halfH)] }

	descale := prescale == 2

	out := make([][]int16, height)

	for i := 0; i < halfH; i++ {
		lowEven, lowOdd := verticalInverse(llAt, hlRows[i], i, height)
		highEven, highOdd := verticalInverse(lhAt, hhRows[i], i, height)

		evenRow := horizontalInverse(lowEven, highEven, descale)
		oddRow := horizontalInverse(lowOdd, highOdd, descale)

		out[2*i] = toInt16(evenRow)
		out[2*i+1] = toInt16(oddRow)
	}

	return out
}

func dequantizeRows(band [][]int16, q quant.Quantizer) [][]int32 {
	out := make([][]int32, len(band))
	for i, row := range band {
		r := make([]int32, len(row))
		for x, v := range row {
			r[x] = q.Dequantize(v)
		}
		out[i] = r
	}
	return out
}

func toInt16(row []int32) []int16 {
	out := make([]int16, len(row))
	for i, v := range row {
		out[i] = clamp16(v)
	}
	return out
}
