// Package gpr is the top-level entry point for the GoPro Professional
// RAW still-image codec: a Bayer-mosaic wavelet codec layered on SMPTE
// ST 2073 VC-5 (§1, §2). It wires together the bitstream, tag-value,
// codebook, Bayer, wavelet-transform and codec-state packages under
// gpr/ into the same Codec/EncodeParams/DecodeResult shape the DICOM
// codec registry in this repository's history used for its pluggable
// codecs, generalized from one fixed transfer syntax to GPR's tunable
// quantization presets and resolution-scalable decode.
//
// Out of scope here, and left to callers that embed this package in a
// DNG/TIFF pipeline: container (DNG/TIFF/EXIF/XMP) plumbing, the
// gpr_tools conversion CLI, JPEG thumbnail re-encoding, the host
// allocator's concrete implementation (callers inject one via
// gpr/alloc.Allocator), and SIMD specializations of the wavelet filters.
package gpr

import (
	"go.uber.org/zap"

	"github.com/cocosip/gpr-codec/gpr/alloc"
	"github.com/cocosip/gpr-codec/gpr/bayer"
	"github.com/cocosip/gpr-codec/gpr/colorspace"
	"github.com/cocosip/gpr-codec/gpr/decoder"
	"github.com/cocosip/gpr-codec/gpr/encoder"
	"github.com/cocosip/gpr-codec/gpr/gprerr"
	"github.com/cocosip/gpr-codec/gpr/quant"
)

// errInvalidPreset is returned by EncodeOptions.Validate for a preset
// carrying a zero divisor.
var errInvalidPreset = gprerr.New(gprerr.KindBadSegment)

// Codec is the universal codec interface this package's Bayer RAW codec
// satisfies, mirroring the pluggable shape other image codecs in this
// module's lineage expose: one Encode/Decode pair plus identity methods
// a registry can key on.
type Codec interface {
	Encode(params EncodeParams) ([]byte, error)
	Decode(data []byte) (*DecodeResult, error)
	UID() string
	Name() string
}

// Options is the codec-specific encode option interface, the same shape
// every codec under this lineage implements so a caller can validate
// before committing to a potentially expensive encode.
type Options interface {
	Validate() error
}

// EncodeOptions configures a GPR encode: the quantization preset,
// injected allocator, logger, and whether to produce a side-channel
// thumbnail (§6).
type EncodeOptions struct {
	// Preset is the named quantization table, or a quant.Custom table.
	// The zero value is quant.Preset{} (all-zero divisors); callers should
	// set this explicitly rather than rely on the zero value.
	Preset quant.Preset
	// Allocator is the injected memory allocator (§9); nil uses
	// alloc.Default.
	Allocator alloc.Allocator
	// Logger receives debug diagnostics; nil uses a no-op logger.
	Logger *zap.Logger
	// Thumbnail requests a 1/16-resolution RGB side-output.
	Thumbnail bool
	// ThumbnailGains applies a camera gain triple to the thumbnail.
	ThumbnailGains colorspace.GainTriple
}

// Validate checks that the preset carries no zero divisors (§3:
// "quantization divisor > 0" — quant.Custom already repairs zeros to 1,
// but a caller-constructed Preset literal bypasses that, so Validate
// re-checks here before an expensive encode is attempted).
func (o EncodeOptions) Validate() error {
	for _, d := range o.Preset {
		if d == 0 {
			return errInvalidPreset
		}
	}
	return nil
}

// EncodeParams holds one encode call's image and options, the same
// PixelData/Width/Height/Components/BitDepth/Options shape this
// lineage's other codecs use, specialized to GPR's packed-Bayer input
// and its own EncodeOptions.
type EncodeParams struct {
	PixelData []byte
	Width     int
	Height    int
	// Format names the packed Bayer layout the pixel data is in (§4.6).
	Format  bayer.Format
	Pitch   int
	Options EncodeOptions
}

// DecodeResult holds the decoded image and, depending on the request,
// the raw Bayer plane and/or an interleaved RGB plane.
type DecodeResult struct {
	Width, Height int
	// Raw is the packed Bayer buffer, set only when Request.Want included
	// WantRaw (only valid at Resolution Full).
	Raw       []byte
	RawPitch  int
	RawFormat bayer.Format
	// RGB is an interleaved RGB buffer at the requested resolution's
	// dimensions, set only when Request.Want included WantRGB.
	RGB                 []byte
	RGBWidth, RGBHeight int
}

// DecodeRequest configures a decode call: which resolution tier to stop
// the pipelined inversion cascade at, and which outputs to produce.
type DecodeRequest = decoder.Request

// Resolution re-exports the five resolution-scalable decode tiers
// (§4.10) so callers need not import gpr/decoder directly.
type Resolution = decoder.Resolution

const (
	Full      = decoder.Full
	Half      = decoder.Half
	Quarter   = decoder.Quarter
	Eighth    = decoder.Eighth
	Sixteenth = decoder.Sixteenth
)

// Want re-exports the decode output bitmask.
type Want = decoder.Want

const (
	WantRaw = decoder.WantRaw
	WantRGB = decoder.WantRGB
)

// codec is the stateless Codec implementation this package exposes via
// New.
type codec struct{}

// New returns the GPR Codec implementation.
func New() Codec {
	return codec{}
}

// UID names this codec for a caller's registry; GPR has no DICOM
// transfer-syntax UID, so this is a private-tree OID reminiscent of the
// placeholders the DICOM codec registry uses for vendor-private
// transfer syntaxes.
func (codec) UID() string { return "1.2.840.10008.9999.1.1" }

// Name returns a human-readable codec name.
func (codec) Name() string { return "GPR (GoPro Professional RAW)" }

// Encode runs the encoder driver with the given parameters.
func (codec) Encode(params EncodeParams) ([]byte, error) {
	if err := params.Options.Validate(); err != nil {
		return nil, err
	}
	result, err := encoder.Encode(encoder.Params{
		Image:          params.PixelData,
		ImageWidth:     params.Width,
		ImageHeight:    params.Height,
		Pitch:          params.Pitch,
		Format:         params.Format,
		Preset:         params.Options.Preset,
		Allocator:      params.Options.Allocator,
		Logger:         params.Options.Logger,
		Thumbnail:      params.Options.Thumbnail,
		ThumbnailGains: params.Options.ThumbnailGains,
	})
	if err != nil {
		return nil, err
	}
	return result.Bitstream, nil
}

// Decode runs the decoder driver at Full resolution, producing both raw
// Bayer and RGB outputs. Callers that need a specific resolution tier or
// output subset should call gpr/decoder.Decode directly.
func (codec) Decode(data []byte) (*DecodeResult, error) {
	res, err := decoder.Decode(data, alloc.Default, decoder.Request{
		Resolution:   decoder.Full,
		Want:         decoder.WantRaw | decoder.WantRGB,
		OutputFormat: bayer.RGGB12,
		RGBBitDepth:  8,
		Gains:        colorspace.UnityGains,
	}, nil)
	if err != nil {
		return nil, err
	}
	return &DecodeResult{
		Width: res.RawWidth, Height: res.RawHeight,
		Raw: res.Raw, RawPitch: res.RawPitch, RawFormat: bayer.RGGB12,
		RGB: res.RGB, RGBWidth: res.RGBWidth, RGBHeight: res.RGBHeight,
	}, nil
}

// DecodeTo runs the decoder driver with full control over resolution and
// output selection, for callers that need the resolution-scalable path
// gpr/decoder.Decode exposes.
func DecodeTo(data []byte, allocator alloc.Allocator, req DecodeRequest, logger *zap.Logger) (*decoder.Result, error) {
	return decoder.Decode(data, allocator, req, logger)
}
