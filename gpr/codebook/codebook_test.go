package codebook

import (
	"fmt"
	"testing"
)

// fakeBitReader feeds Decode bits one at a time from a pre-built codeword,
// the same minimal surface bitstream.Reader satisfies.
type fakeBitReader struct {
	bits []uint32
	pos  int
}

func (f *fakeBitReader) GetBits(n int) uint32 {
	if n != 1 {
		panic("fakeBitReader only supports single-bit reads")
	}
	if f.pos >= len(f.bits) {
		return 0
	}
	v := f.bits[f.pos]
	f.pos++
	return v
}

func bitsOf(entry Entry) []uint32 {
	out := make([]uint32, entry.Size)
	for i := 0; i < entry.Size; i++ {
		out[i] = (entry.Bits >> uint(entry.Size-1-i)) & 1
	}
	return out
}

// TestCodebookIsBijective checks that every codeword in the table is
// unique and round-trips through Decode to the entry it came from
// (testable property #6: codebook bijection).
func TestCodebookIsBijective(t *testing.T) {
	c := NewCodec()
	seen := make(map[string]Entry)

	for _, e := range c.Table.Entries {
		key := fmt.Sprintf("%d/%d", e.Size, e.Bits)
		if prev, ok := seen[key]; ok {
			t.Fatalf("duplicate codeword (size=%d, bits=%#x): %+v and %+v", e.Size, e.Bits, prev, e)
		}
		seen[key] = e

		r := &fakeBitReader{bits: bitsOf(e)}
		got, ok := c.Decode(r)
		if !ok {
			t.Fatalf("entry %+v: Decode reported no match", e)
		}
		if got != e {
			t.Fatalf("entry %+v: Decode returned %+v", e, got)
		}
	}
}

// TestMagnitudeRoundTrip checks every magnitude entry carries a distinct
// positive value and decodes back to it.
func TestMagnitudeRoundTrip(t *testing.T) {
	c := NewCodec()
	for m := 1; m <= MaxMagnitude; m++ {
		e, ok := c.Table.magByValue[m]
		if !ok {
			t.Fatalf("no codeword for magnitude %d", m)
		}
		if e.Value != m || e.Count != 1 {
			t.Fatalf("magnitude %d: got value=%d count=%d", m, e.Value, e.Count)
		}
		got, ok := c.Decode(&fakeBitReader{bits: bitsOf(e)})
		if !ok || got != e {
			t.Fatalf("magnitude %d: Decode returned %+v (ok=%v), want %+v", m, got, ok, e)
		}
	}
}

// TestRunPackingExactness checks that every run length's derived codeword
// concatenation covers exactly that many zeros, no more and no less
// (testable property #7: run length exactness).
func TestRunPackingExactness(t *testing.T) {
	c := NewCodec()
	for k := 0; k <= MaxRunLength; k++ {
		codewords := c.EncodeRun(k)
		total := 0
		for _, e := range codewords {
			if e.Kind() != KindZeroRun {
				t.Fatalf("run %d: non-run entry %+v in packing", k, e)
			}
			total += e.Count
		}
		if total != k {
			t.Fatalf("run %d: codewords cover %d zeros, want %d", k, total, k)
		}
	}
}

// TestRunPackingIsPrefixFreeSequence checks a packed run's codewords, laid
// end to end, still decode back to exactly that sequence of zero-run
// entries — i.e. concatenation doesn't introduce any ambiguity.
func TestRunPackingIsPrefixFreeSequence(t *testing.T) {
	c := NewCodec()
	for _, k := range []int{0, 1, 5, 100, 1000, MaxRunLength} {
		codewords := c.EncodeRun(k)
		var bits []uint32
		for _, e := range codewords {
			bits = append(bits, bitsOf(e)...)
		}
		r := &fakeBitReader{bits: bits}
		for i, want := range codewords {
			got, ok := c.Decode(r)
			if !ok {
				t.Fatalf("run %d, codeword %d: Decode reported no match", k, i)
			}
			if got != want {
				t.Fatalf("run %d, codeword %d: got %+v, want %+v", k, i, got, want)
			}
		}
	}
}

// TestEncodeMagnitudeSignsCorrectly checks sign extraction from negative
// and non-negative coefficients, and that DecodeMagnitude recovers the
// original magnitude through the companding round trip (entry.Value
// holds the companded codeword value, not the raw magnitude itself).
func TestEncodeMagnitudeSignsCorrectly(t *testing.T) {
	c := NewCodec()

	e, sign := c.EncodeMagnitude(-42)
	if sign != 1 {
		t.Fatalf("expected sign bit 1 for negative coefficient, got %d", sign)
	}
	if got := c.DecodeMagnitude(e); got != 42 {
		t.Fatalf("expected decompanded magnitude 42, got %d", got)
	}

	e, sign = c.EncodeMagnitude(42)
	if sign != 0 {
		t.Fatalf("expected sign bit 0 for positive coefficient, got %d", sign)
	}
	if got := c.DecodeMagnitude(e); got != 42 {
		t.Fatalf("expected decompanded magnitude 42, got %d", got)
	}
}

// TestBandEndIsMarker checks the band-end marker carries no magnitude or
// run payload.
func TestBandEndIsMarker(t *testing.T) {
	c := NewCodec()
	e := c.BandEnd()
	if e.Kind() != KindMarker {
		t.Fatalf("expected marker kind, got %v", e.Kind())
	}
	if e.Count != 0 {
		t.Fatalf("expected marker count 0, got %d", e.Count)
	}
}
