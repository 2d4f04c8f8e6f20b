package bayer

import "testing"

// TestUnpackConstantImageIsUniform covers scenario S1: a 4x4 RGGB 12-bit
// image with every pixel equal to 2048 decorrelates to a uniform set of
// plane values (no edges to produce differences).
func TestUnpackConstantImageIsUniform(t *testing.T) {
	lut := NewLUT()
	const w, h = 4, 4
	pitch := w * 2
	img := make([]byte, pitch*h)
	for i := 0; i < len(img); i += 2 {
		writeLE16(img, pitch, 0, i/2, 2048)
	}

	planes, err := Unpack(lut, RGGB12, img, w, h, pitch)
	if err != nil {
		t.Fatalf("unpack: %v", err)
	}

	first := planes.GS[0]
	for i, v := range planes.GS {
		if v != first {
			t.Fatalf("GS[%d] = %d, want uniform %d", i, v, first)
		}
	}
	for i, v := range planes.GD {
		if v != int16(midpoint) {
			t.Fatalf("GD[%d] = %d, want midpoint %d (no green difference on a flat field)", i, v, midpoint)
		}
	}
}

// TestPackUnpackRoundTripRGGB12 round-trips a small synthetic image
// through Unpack then Pack and checks the result is within a few LSBs
// (the companding curve is lossy, §4.6: "idempotent together only up to
// quantization of the companding curve; this is expected").
func TestPackUnpackRoundTripRGGB12(t *testing.T) {
	lut := NewLUT()
	const w, h = 4, 4
	pitch := w * 2
	img := make([]byte, pitch*h)
	v := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			writeLE16(img, pitch, y, x, (v*251)%4096)
			v++
		}
	}

	planes, err := Unpack(lut, RGGB12, img, w, h, pitch)
	if err != nil {
		t.Fatalf("unpack: %v", err)
	}
	out, err := Pack(lut, RGGB12, planes, w, h, pitch)
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	if len(out) != len(img) {
		t.Fatalf("output length %d, want %d", len(out), len(img))
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			got := readLE16(out, pitch, y, x)
			want := readLE16(img, pitch, y, x)
			diff := got - want
			if diff < 0 {
				diff = -diff
			}
			if diff > 32 {
				t.Fatalf("pixel (%d,%d): got %d, want ~%d (diff %d too large)", x, y, got, want, diff)
			}
		}
	}
}

func TestUnsupportedPixelFormatFails(t *testing.T) {
	lut := NewLUT()
	_, err := Unpack(lut, Format(99), make([]byte, 64), 4, 4, 8)
	if err == nil {
		t.Fatal("expected an error for an unrecognized format")
	}
}

func TestPacked12PRoundTrip(t *testing.T) {
	lut := NewLUT()
	const w, h = 4, 4
	pitch := (w / 2) * 3
	img := make([]byte, pitch*h)

	// Write two adjacent 12-bit samples (100, 200) per the 12P packing.
	for y := 0; y < h; y++ {
		for pair := 0; pair < w/2; pair++ {
			pack12P(img, pitch, y, pair*2, 0, 100)
			pack12P(img, pitch, y, pair*2, 1, 200)
		}
	}

	planes, err := Unpack(lut, RGGB12P, img, w, h, pitch)
	if err != nil {
		t.Fatalf("unpack: %v", err)
	}
	out, err := Pack(lut, RGGB12P, planes, w, h, pitch)
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	if len(out) != len(img) {
		t.Fatalf("output length %d, want %d", len(out), len(img))
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			got := unpack12P(out, pitch, y, x, x%2)
			want := unpack12P(img, pitch, y, x, x%2)
			diff := got - want
			if diff < 0 {
				diff = -diff
			}
			if diff > 32 {
				t.Fatalf("pixel (%d,%d): got %d, want ~%d (diff %d too large)", x, y, got, want, diff)
			}
		}
	}
}
