package decoder

import (
	"testing"

	"github.com/cocosip/gpr-codec/gpr/bayer"
	"github.com/cocosip/gpr-codec/gpr/encoder"
	"github.com/cocosip/gpr-codec/gpr/gprerr"
	"github.com/cocosip/gpr-codec/gpr/quant"
)

func writeLE16(buf []byte, pitch, row, col int, v uint16) {
	off := row*pitch + col*2
	buf[off] = byte(v)
	buf[off+1] = byte(v >> 8)
}

func constantImage(w, h int, v uint16) (img []byte, pitch int) {
	pitch = w * 2
	img = make([]byte, pitch*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			writeLE16(img, pitch, y, x, v)
		}
	}
	return
}

func encodeFixture(t *testing.T, w, h int, v uint16) []byte {
	t.Helper()
	img, pitch := constantImage(w, h, v)
	result, err := encoder.Encode(encoder.Params{
		Image: img, ImageWidth: w, ImageHeight: h, Pitch: pitch,
		Format: bayer.RGGB12, Preset: quant.High,
	})
	if err != nil {
		t.Fatalf("fixture encode: %v", err)
	}
	return result.Bitstream
}

// TestDecodeRejectsMissingStartMarker covers the decoder's first check:
// a bitstream not opening with the VC-5 start marker is rejected before
// any header tag is parsed.
func TestDecodeRejectsMissingStartMarker(t *testing.T) {
	bad := []byte{0, 0, 0, 0, 0, 0, 0, 0}
	_, err := Decode(bad, nil, Request{Resolution: Full, Want: WantRGB}, nil)
	if !gprerr.Is(err, gprerr.KindMissingStartMarker) {
		t.Fatalf("err = %v, want KindMissingStartMarker", err)
	}
}

// TestDecodeRejectsUnsupportedResolution covers the Request.Resolution
// validation at the top of Decode.
func TestDecodeRejectsUnsupportedResolution(t *testing.T) {
	bits := encodeFixture(t, 4, 4, 1024)
	_, err := Decode(bits, nil, Request{Resolution: Resolution(99), Want: WantRGB}, nil)
	if !gprerr.Is(err, gprerr.KindUnsupportedResolution) {
		t.Fatalf("err = %v, want KindUnsupportedResolution", err)
	}
}

// TestDecodeRejectsRawAtNonFullResolution covers §4.10's constraint that
// a packed Bayer plane only exists once every subband has been inverted
// back to full channel resolution.
func TestDecodeRejectsRawAtNonFullResolution(t *testing.T) {
	bits := encodeFixture(t, 8, 8, 1024)
	_, err := Decode(bits, nil, Request{Resolution: Quarter, Want: WantRaw, OutputFormat: bayer.RGGB16}, nil)
	if !gprerr.Is(err, gprerr.KindUnsupportedResolution) {
		t.Fatalf("err = %v, want KindUnsupportedResolution", err)
	}
}

// TestDecodeSixteenthSkipsAllHighpassSubbands exercises the skip-decode
// path directly: at Sixteenth resolution only subband 0 is parsed per
// channel, and the other nine are consumed via skipSubband without any
// VLC decode — this must still leave the reader positioned correctly for
// every channel and both WantRaw/WantRGB-independent outputs.
func TestDecodeSixteenthSkipsAllHighpassSubbands(t *testing.T) {
	bits := encodeFixture(t, 16, 16, 2048)
	res, err := Decode(bits, nil, Request{Resolution: Sixteenth, Want: WantRGB}, nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if res.RGBWidth != 1 || res.RGBHeight != 1 {
		t.Fatalf("RGB dims = %dx%d, want 1x1 (16/16)", res.RGBWidth, res.RGBHeight)
	}
}

// TestDecodeFullResolutionRoundTripsRawPlane checks the WantRaw output at
// Full resolution reproduces a constant source image within quantization
// tolerance.
func TestDecodeFullResolutionRoundTripsRawPlane(t *testing.T) {
	const w, h = 8, 8
	bits := encodeFixture(t, w, h, 3000)
	res, err := Decode(bits, nil, Request{
		Resolution: Full, Want: WantRaw, OutputFormat: bayer.RGGB12,
	}, nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if res.RawWidth != w || res.RawHeight != h {
		t.Fatalf("raw dims = %dx%d, want %dx%d", res.RawWidth, res.RawHeight, w, h)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			off := y*res.RawPitch + x*2
			got := int(res.Raw[off]) | int(res.Raw[off+1])<<8
			if diff := got - 3000; diff < -4 || diff > 4 {
				t.Fatalf("pixel (%d,%d) = %d, want ~3000", x, y, got)
			}
		}
	}
}
