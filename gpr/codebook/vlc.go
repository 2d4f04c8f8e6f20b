package codebook

// Codec pairs a Table with its Derived lookup tables: everything an
// encoder or decoder needs to turn coefficients into codewords and back.
type Codec struct {
	Table   *Table
	Derived *Derived
}

// NewCodec builds a fresh, independently-owned codebook 17 instance.
func NewCodec() *Codec {
	t := New()
	return &Codec{Table: t, Derived: BuildDerived(t)}
}

// EncodeMagnitude returns the codeword for a coefficient's raw absolute
// value, and the 1-bit sign to follow it on the wire (0 for zero/positive,
// 1 for negative), per §4.2's "magnitude plus sign" encoding.
func (c *Codec) EncodeMagnitude(coefficient int) (entry Entry, sign uint32) {
	abs := coefficient
	if abs < 0 {
		abs = -abs
		sign = 1
	}
	return c.Derived.MagnitudeEntry(abs), sign
}

// DecodeMagnitude maps a decoded KindMagnitude entry back to the raw
// coefficient magnitude it was companded from (see Derived.DecompandMagnitude);
// the caller still owes the 1-bit sign read that follows the codeword on
// the wire.
func (c *Codec) DecodeMagnitude(entry Entry) int {
	return c.Derived.DecompandMagnitude(entry.Value)
}

// EncodeRun returns the codeword sequence for a run of exactly n zero
// coefficients.
func (c *Codec) EncodeRun(n int) []Entry {
	return c.Derived.RunCodewords(n)
}

// BandEnd returns the special marker codeword terminating a band's
// run-length stream.
func (c *Codec) BandEnd() Entry {
	return c.Table.Marker(BandEnd)
}

// bitReader is the minimal surface vlc decoding needs from a bitstream
// reader: consume one or more bits MSB-first.
type bitReader interface {
	GetBits(n int) uint32
}

// maxCodeLength bounds the decoder's equal-length scan: no codebook 17
// entry is longer than the zero-run entry for MaxRunLength, whose
// Elias-gamma suffix is 2*bits.Len(3071)-1 = 23 bits, plus the 2-bit
// category tag.
const maxCodeLength = 2 + 23

// Decode reads one codeword from r and reports which entry it matched.
// It mirrors §4.2's decode algorithm: "read bits into a shift register;
// iterate over codebook entries of equal length until bit-pattern match."
// Because every codeword is a fixed 2-bit category tag followed by a
// self-delimiting Elias-gamma (or 1-bit marker) suffix, the codebook is
// prefix-free by construction, so accumulating one bit at a time and
// checking the current length's bucket for an exact match — rather than
// peeking ahead and backtracking — always finds the unique match.
// For magnitude entries the caller still owes a 1-bit sign read.
func (c *Codec) Decode(r bitReader) (Entry, bool) {
	var shift uint32
	for n := 1; n <= maxCodeLength; n++ {
		shift = shift<<1 | r.GetBits(1)
		for _, e := range c.Table.EntriesOfLength(n) {
			if e.Bits == shift {
				return e, true
			}
		}
	}
	return Entry{}, false
}
