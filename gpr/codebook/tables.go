package codebook

import "github.com/cocosip/gpr-codec/gpr/internal/curve"

// CompandedMagnitudeDomain is the number of raw coefficient magnitudes
// (0..2^10-1) the encoder's companding curve maps onto 0..MaxMagnitude
// before codebook lookup (§4.2: "indexed by absolute coefficient value
// 0..2^10-1").
const CompandedMagnitudeDomain = 1 << 10

// MaxRunLength is the largest run length the derived runs table covers
// (§4.2: "a runs table indexed by run length 0..3071").
const MaxRunLength = 3071

// Derived holds the two lookup tables an encoder builds once at startup
// from a Table: one entry per possible input magnitude, and one
// concatenation-of-codewords per possible run length.
type Derived struct {
	companding   []uint32 // CompandedMagnitudeDomain entries, raw magnitude -> companded
	decompanding []uint32 // MaxMagnitude+1 entries, companded magnitude -> raw (inverse, see bayer.LUT)
	magnitudes   []Entry  // CompandedMagnitudeDomain entries, raw magnitude -> codeword of its companded value
	runs         [][]Entry
}

// BuildDerived builds the magnitudes and runs tables for t.
func BuildDerived(t *Table) *Derived {
	companding := curve.Build(CompandedMagnitudeDomain-1, MaxMagnitude)
	d := &Derived{
		companding:   companding,
		decompanding: curve.BuildInverse(companding, MaxMagnitude),
		magnitudes:   make([]Entry, CompandedMagnitudeDomain),
		runs:         make([][]Entry, MaxRunLength+1),
	}

	for raw := 0; raw < CompandedMagnitudeDomain; raw++ {
		companded := int(d.companding[raw])
		if companded < 1 {
			companded = 1
		}
		if companded > MaxMagnitude {
			companded = MaxMagnitude
		}
		d.magnitudes[raw] = t.magByValue[companded]
	}

	// Greedy run packing: sort the codebook's explicit zero-run entries by
	// decreasing run length, then for every target length repeatedly take
	// the largest entry that still fits (§4.2).
	sorted := make([]Entry, len(zeroRunLengths))
	for i, k := range zeroRunLengths {
		sorted[i] = t.runByValue[k]
	}
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if sorted[j].Count > sorted[i].Count {
				sorted[i], sorted[j] = sorted[j], sorted[i]
			}
		}
	}

	for k := 0; k <= MaxRunLength; k++ {
		remaining := k
		var codewords []Entry
		for remaining > 0 {
			for _, e := range sorted {
				if e.Count <= remaining {
					codewords = append(codewords, e)
					remaining -= e.Count
					break
				}
			}
		}
		d.runs[k] = codewords
	}

	return d
}

// MagnitudeEntry returns the codeword for a raw coefficient magnitude in
// [0, CompandedMagnitudeDomain).
func (d *Derived) MagnitudeEntry(rawMagnitude int) Entry {
	if rawMagnitude < 0 {
		rawMagnitude = 0
	}
	if rawMagnitude >= CompandedMagnitudeDomain {
		rawMagnitude = CompandedMagnitudeDomain - 1
	}
	return d.magnitudes[rawMagnitude]
}

// DecompandMagnitude maps a decoded codeword's companded Value back to
// the raw coefficient-magnitude domain via the inverse curve, mirroring
// bayer.LUT's compand/decompand pairing for pixel values (planes.go).
func (d *Derived) DecompandMagnitude(companded int) int {
	if companded < 0 {
		companded = 0
	}
	if companded >= len(d.decompanding) {
		companded = len(d.decompanding) - 1
	}
	return int(d.decompanding[companded])
}

// RunCodewords returns the shortest concatenation of zero-run codewords
// covering exactly the given run length, for k in [0, MaxRunLength].
func (d *Derived) RunCodewords(k int) []Entry {
	if k < 0 {
		k = 0
	}
	if k > MaxRunLength {
		k = MaxRunLength
	}
	return d.runs[k]
}
