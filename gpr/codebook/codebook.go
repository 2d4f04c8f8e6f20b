// Package codebook implements codebook 17 (§4.2, component C2): the
// static table of variable-length codewords used to entropy-code
// wavelet highpass coefficients, plus the encoder's derived
// magnitude/run lookup tables and the decoder's bit-pattern search.
//
// The reference codebook's literal bit patterns live in GoPro's C source,
// which was filtered out of this repository's retrieval pack entirely
// (original_source/_INDEX.md records zero kept files). What is fully
// specified, and therefore what this package reproduces exactly, is the
// codebook's *shape*: a flat table of (size, bits, count, value) entries
// split into magnitude, zero-run and special-marker kinds, built once at
// init time (§9 "Global LUTs and codebooks" — deterministic construction
// so independently-built tables are structurally equal), with every
// documented invariant (prefix-free, magnitude+sign, exact run lengths,
// a terminating band-end marker, greedy run-packing) intact. The concrete
// codewords are generated rather than guessed: each entry is a 2-bit kind
// tag followed by an Elias-gamma suffix, which is self-delimiting and
// therefore trivially prefix-free without needing a canonical-Huffman
// length assignment pass. See DESIGN.md for the record of this decision.
package codebook

import "math/bits"

// Kind distinguishes the three entry shapes codebook 17 carries.
type Kind int

const (
	// KindMagnitude entries carry an unsigned magnitude m > 0 (Count == 1);
	// a 1-bit sign follows the codeword on the wire.
	KindMagnitude Kind = iota
	// KindZeroRun entries carry a run of Count zeros (Value == 0, Count >= 1).
	KindZeroRun
	// KindMarker entries are reserved codewords (Count == 0); BandEnd is
	// the only one this codec emits.
	KindMarker
)

// Marker identifies a reserved codeword.
type Marker int

const (
	// BandEnd terminates a highpass subband's run-length stream (§4.2,
	// §4.10: "highpass bands are terminated by the band-end special
	// marker").
	BandEnd Marker = iota
	// Reserved is not emitted by this codec but occupies a codeword so the
	// marker category has more than one member, matching the "special
	// marker (band-end, etc.)" wording in §4.2.
	Reserved
)

// Entry is one codeword of codebook 17.
type Entry struct {
	Size  int    // codeword length in bits
	Bits  uint32 // codeword bit pattern, MSB-first, right-justified in Size bits
	Count int    // run length (ZeroRun), 1 (Magnitude), or 0 (Marker)
	Value int    // magnitude (Magnitude, > 0), 0 (ZeroRun), or Marker id (Marker)
}

func (e Entry) Kind() Kind {
	switch {
	case e.Count == 0:
		return KindMarker
	case e.Value == 0:
		return KindZeroRun
	default:
		return KindMagnitude
	}
}

const (
	categoryBits = 2

	categoryMagnitude uint32 = 0 // "00"
	categoryZeroRun   uint32 = 1 // "01"
	categoryMarker    uint32 = 2 // "10"

	// MaxMagnitude is the largest magnitude codebook 17 carries an explicit
	// entry for. Companded magnitudes above this are clamped down to it
	// (§4.2: "clamped to the codebook's max encoded magnitude").
	MaxMagnitude = 255
)

// zeroRunLengths is the codebook's explicit, finite set of zero-run
// codewords. Arbitrary run lengths up to 3071 (§4.2) are produced by
// greedily concatenating these base codewords (see tables.go), not by
// giving every possible run length its own entry.
var zeroRunLengths = []int{
	1, 2, 3, 4, 6, 8, 12, 16, 24, 32, 48, 64, 96, 128, 192, 256, 384, 512, 768, 1024, 1536, 2048, 3071,
}

// Table is one process-independent, structurally-deterministic build of
// codebook 17: the flat entry list plus the derived tables an encoder or
// decoder instance needs. Multiple Tables built by New() are never
// aliased, matching §9's "no globals" re-architecture, but are always
// structurally equal.
type Table struct {
	Entries []Entry

	// byLength buckets entries by codeword length for the decoder's
	// "scan equal-length entries for a match" search (§4.2).
	byLength map[int][]Entry

	// magByValue / runByValue index encoder lookups by the Value/Count the
	// caller already knows it wants to emit.
	magByValue map[int]Entry
	runByValue map[int]Entry
	markers    map[Marker]Entry
}

// New builds a fresh, independently-owned codebook 17 table.
func New() *Table {
	t := &Table{
		byLength:   make(map[int][]Entry),
		magByValue: make(map[int]Entry),
		runByValue: make(map[int]Entry),
		markers:    make(map[Marker]Entry),
	}

	for m := 1; m <= MaxMagnitude; m++ {
		e := gammaEntry(categoryMagnitude, uint32(m))
		e.Count = 1
		e.Value = m
		t.add(e)
	}
	for _, k := range zeroRunLengths {
		e := gammaEntry(categoryZeroRun, uint32(k))
		e.Count = k
		e.Value = 0
		t.add(e)
	}
	// Markers get a fixed-width 1-bit suffix (there are only two of them),
	// rather than a gamma suffix, since gamma codes require Value >= 1.
	for _, m := range []Marker{BandEnd, Reserved} {
		suffix := uint32(m)
		e := Entry{
			Size:  categoryBits + 1,
			Bits:  categoryMarker<<1 | suffix,
			Count: 0,
			Value: int(m),
		}
		t.add(e)
		t.markers[m] = e
	}

	return t
}

func (t *Table) add(e Entry) {
	t.Entries = append(t.Entries, e)
	t.byLength[e.Size] = append(t.byLength[e.Size], e)
	switch e.Kind() {
	case KindMagnitude:
		t.magByValue[e.Value] = e
	case KindZeroRun:
		t.runByValue[e.Count] = e
	}
}

// gammaEntry builds the (category tag || Elias-gamma(value)) codeword.
// Elias-gamma is self-delimiting: b = bit-length(value); the codeword is
// (b-1) zero bits followed by value's own b-bit representation. Read as an
// unsigned integer MSB-first, that is simply `value` held in `2b-1` bits
// (the leading zero bits contribute nothing), so Bits == value and
// Size == 2*b-1 for the suffix; the fixed 2-bit category tag is prepended
// on top.
func gammaEntry(category, value uint32) Entry {
	b := bits.Len32(value)
	suffixSize := 2*b - 1
	return Entry{
		Size: categoryBits + suffixSize,
		Bits: category<<uint(suffixSize) | value,
	}
}

// Marker returns the entry encoding the given special marker.
func (t *Table) Marker(m Marker) Entry {
	return t.markers[m]
}

// EntriesOfLength returns every entry whose codeword is exactly n bits
// long, the set the decoder's bit-pattern search scans (§4.2: "iterate
// over codebook entries of equal length until bit-pattern match").
func (t *Table) EntriesOfLength(n int) []Entry {
	return t.byLength[n]
}
