package bayer

// readSamples decodes one 2x2 Bayer block starting at (row, col) of a
// packed buffer into four raw samples at internal 12-bit working
// precision, in phase order (p0, p1 / p2, p3) regardless of RGGB/GBRG —
// the caller maps those positions to R/G1/G2/B according to the format's
// phase.
func readSamples(buf []byte, pitch, row, col int, depth int, packed bool) (p0, p1, p2, p3 int) {
	shift := depth - 12
	if shift < 0 {
		shift = 0
	}

	if packed {
		p0 = unpack12P(buf, pitch, row, col, 0) >> shift
		p1 = unpack12P(buf, pitch, row, col, 1) >> shift
		p2 = unpack12P(buf, pitch, row+1, col, 0) >> shift
		p3 = unpack12P(buf, pitch, row+1, col, 1) >> shift
		return
	}

	p0 = readLE16(buf, pitch, row, col) >> shift
	p1 = readLE16(buf, pitch, row, col+1) >> shift
	p2 = readLE16(buf, pitch, row+1, col) >> shift
	p3 = readLE16(buf, pitch, row+1, col+1) >> shift
	return
}

// writeSamples is the inverse of readSamples: it widens four 12-bit
// working values back to the packed buffer's native bit depth and
// layout.
func writeSamples(buf []byte, pitch, row, col int, depth int, packed bool, p0, p1, p2, p3 int) {
	shift := depth - 12
	if shift < 0 {
		shift = 0
	}

	if packed {
		pack12P(buf, pitch, row, col, 0, p0<<shift)
		pack12P(buf, pitch, row, col, 1, p1<<shift)
		pack12P(buf, pitch, row+1, col, 0, p2<<shift)
		pack12P(buf, pitch, row+1, col, 1, p3<<shift)
		return
	}

	writeLE16(buf, pitch, row, col, p0<<shift)
	writeLE16(buf, pitch, row, col+1, p1<<shift)
	writeLE16(buf, pitch, row+1, col, p2<<shift)
	writeLE16(buf, pitch, row+1, col+1, p3<<shift)
}

func readLE16(buf []byte, pitch, row, col int) int {
	off := row*pitch + col*2
	return int(buf[off]) | int(buf[off+1])<<8
}

func writeLE16(buf []byte, pitch, row, col, v int) {
	off := row*pitch + col*2
	buf[off] = byte(v)
	buf[off+1] = byte(v >> 8)
}

// unpack12P reads one of a pair's two samples from the 3-bytes-per-2-
// pixels packing (§4.6: "byte0 = lo8(p0); byte1 = hi4(p0)|(lo4(p1)<<4);
// byte2 = hi8(p1)"). which is 0 for the even (p0) sample, 1 for the odd
// (p1) sample of the pair starting at col.
func unpack12P(buf []byte, pitch, row, col, which int) int {
	off := row*pitch + (col/2)*3
	b0, b1, b2 := int(buf[off]), int(buf[off+1]), int(buf[off+2])
	if which == 0 {
		return b0 | (b1&0x0F)<<8
	}
	return (b1>>4)&0x0F | b2<<4
}

func pack12P(buf []byte, pitch, row, col, which, v int) {
	off := row*pitch + (col/2)*3
	if which == 0 {
		buf[off] = byte(v)
		buf[off+1] = (buf[off+1] &^ 0x0F) | byte((v>>8)&0x0F)
		return
	}
	buf[off+1] = (buf[off+1] &^ 0xF0) | byte((v&0x0F)<<4)
	buf[off+2] = byte(v >> 4)
}
