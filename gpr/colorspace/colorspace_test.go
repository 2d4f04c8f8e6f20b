package colorspace

import "testing"

func TestForwardInverseRoundTripUnityGain(t *testing.T) {
	cases := []struct{ r, g1, g2, b int32 }{
		{0, 0, 0, 0},
		{4095, 4095, 4095, 4095},
		{2048, 2000, 2100, 1500},
		{100, 50, 60, 200},
	}
	for _, c := range cases {
		gs, gd, rg, bg := Forward(c.r, c.g1, c.g2, c.b)
		r, g, b := Inverse(gs, gd, rg, bg, UnityGains, 4095)

		if diff(r, c.r) > 1 {
			t.Fatalf("Forward/Inverse(%+v): r=%d, want ~%d", c, r, c.r)
		}
		wantG := (c.g1 + c.g2) / 2
		if diff(g, wantG) > 1 {
			t.Fatalf("Forward/Inverse(%+v): g=%d, want ~%d", c, g, wantG)
		}
		if diff(b, c.b) > 1 {
			t.Fatalf("Forward/Inverse(%+v): b=%d, want ~%d", c, b, c.b)
		}
	}
}

func TestInverseClampsToMaxValue(t *testing.T) {
	gs, _, rg, bg := Forward(4095, 4095, 4095, 4095)
	r, g, b := Inverse(gs, Midpoint, rg, bg, GainTriple{R: 2 << 16, G: UnityGain, B: 2 << 16}, 4095)
	if r != 4095 || b != 4095 {
		t.Fatalf("expected gain overflow clamped to 4095, got r=%d b=%d", r, b)
	}
	if g != gs {
		t.Fatalf("expected unity-gain green unchanged, got %d want %d", g, gs)
	}
}

func TestInverseClampsNegativeToZero(t *testing.T) {
	// rg/bg far below midpoint drive the reconstructed R/B well under zero
	// before clamping.
	r, g, b := Inverse(10, Midpoint, Midpoint-100, Midpoint-100, UnityGains, 4095)
	if r != 0 || b != 0 {
		t.Fatalf("expected r=0 b=0 after clamping, got r=%d b=%d", r, b)
	}
	if g != 10 {
		t.Fatalf("expected g=10 unchanged, got %d", g)
	}
}

func TestInverseComponentsMatchesScalar(t *testing.T) {
	gs := []int32{100, 200, 300}
	gd := []int32{Midpoint, Midpoint, Midpoint}
	rg := []int32{Midpoint + 10, Midpoint - 10, Midpoint}
	bg := []int32{Midpoint, Midpoint + 5, Midpoint - 5}

	r, g, b := InverseComponents(gs, gd, rg, bg, UnityGains, 4095)
	for i := range gs {
		wantR, wantG, wantB := Inverse(gs[i], gd[i], rg[i], bg[i], UnityGains, 4095)
		if r[i] != wantR || g[i] != wantG || b[i] != wantB {
			t.Fatalf("index %d: got (%d,%d,%d), want (%d,%d,%d)", i, r[i], g[i], b[i], wantR, wantG, wantB)
		}
	}
}

func TestInterleaveRGB8Bit(t *testing.T) {
	r := []int32{1, 2}
	g := []int32{3, 4}
	b := []int32{5, 6}
	got := InterleaveRGB(r, g, b, 8)
	want := []byte{1, 3, 5, 2, 4, 6}
	if len(got) != len(want) {
		t.Fatalf("length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("byte %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestInterleaveRGB16Bit(t *testing.T) {
	r := []int32{0x0102}
	g := []int32{0x0304}
	b := []int32{0x0506}
	got := InterleaveRGB(r, g, b, 16)
	want := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}
	if len(got) != len(want) {
		t.Fatalf("length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("byte %d: got %#x, want %#x", i, got[i], want[i])
		}
	}
}

func diff(a, b int32) int32 {
	d := a - b
	if d < 0 {
		return -d
	}
	return d
}
