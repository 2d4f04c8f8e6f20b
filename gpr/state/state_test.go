package state

import (
	"testing"

	"github.com/cocosip/gpr-codec/gpr/gprerr"
	"github.com/cocosip/gpr-codec/gpr/tagvalue"
)

func TestDuplicateHeaderTagFails(t *testing.T) {
	s := New()
	if err := s.Observe(tagvalue.ChannelCount); err != nil {
		t.Fatalf("first observe: %v", err)
	}
	err := s.Observe(tagvalue.ChannelCount)
	if !gprerr.Is(err, gprerr.KindDuplicateHeaderParameter) {
		t.Fatalf("expected DuplicateHeaderParameter, got %v", err)
	}
}

func TestHeaderTagAfterNonHeaderFails(t *testing.T) {
	s := New()
	if err := s.Observe(tagvalue.ChannelNumber); err != nil { // non-header
		t.Fatalf("observe non-header: %v", err)
	}
	err := s.Observe(tagvalue.ImageWidth) // header, after completion
	if !gprerr.Is(err, gprerr.KindMissingHeaderParameter) {
		t.Fatalf("expected MissingHeaderParameter, got %v", err)
	}
}

func TestPrescalePacking(t *testing.T) {
	s := New()
	s.SetPrescale(0, 0)
	s.SetPrescale(1, 2)
	s.SetPrescale(2, 3)

	if got := s.Prescale(0); got != 0 {
		t.Fatalf("level 0: got %d, want 0", got)
	}
	if got := s.Prescale(1); got != 2 {
		t.Fatalf("level 1: got %d, want 2", got)
	}
	if got := s.Prescale(2); got != 3 {
		t.Fatalf("level 2: got %d, want 3", got)
	}
}

func TestValidateImageFormat(t *testing.T) {
	s := New()
	s.PatternWidth, s.PatternHeight, s.ComponentsPerSample = 2, 2, 1
	if err := s.ValidateImageFormat(); err != nil {
		t.Fatalf("expected valid RAW format, got %v", err)
	}

	s.PatternWidth = 4
	if err := s.ValidateImageFormat(); !gprerr.Is(err, gprerr.KindBadImageFormat) {
		t.Fatalf("expected BadImageFormat, got %v", err)
	}
}

func TestValidateLowpassPrecisionBounds(t *testing.T) {
	s := New()
	s.LowpassPrecision = 16
	if err := s.ValidateLowpassPrecision(); err != nil {
		t.Fatalf("default precision should be valid: %v", err)
	}
	s.LowpassPrecision = 20
	if err := s.ValidateLowpassPrecision(); !gprerr.Is(err, gprerr.KindBadLowpassPrecision) {
		t.Fatalf("expected BadLowpassPrecision, got %v", err)
	}
}
