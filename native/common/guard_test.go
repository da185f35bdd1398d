package common

import (
	"errors"
	"testing"
)

func TestGuardNilView(t *testing.T) {
	if err := Guard(nil, "incentive"); err != nil {
		t.Fatalf("nil view must not block: %v", err)
	}
}

func TestPauseRegistryAuthority(t *testing.T) {
	var authority, outsider [20]byte
	authority[0] = 0x01
	outsider[0] = 0x02
	reg := NewPauseRegistry(authority)

	if err := reg.Pause(outsider, "incentive"); !errors.Is(err, ErrNotPauseAuthority) {
		t.Fatalf("expected ErrNotPauseAuthority, got %v", err)
	}
	if err := reg.Pause(authority, "incentive"); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if err := Guard(reg, "incentive"); !errors.Is(err, ErrModulePaused) {
		t.Fatalf("expected ErrModulePaused, got %v", err)
	}
	// Other modules stay unaffected.
	if err := Guard(reg, "other"); err != nil {
		t.Fatalf("unrelated module blocked: %v", err)
	}
	if err := reg.Resume(outsider, "incentive"); !errors.Is(err, ErrNotPauseAuthority) {
		t.Fatalf("expected ErrNotPauseAuthority on resume, got %v", err)
	}
	if err := reg.Resume(authority, "incentive"); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if err := Guard(reg, "incentive"); err != nil {
		t.Fatalf("guard after resume: %v", err)
	}
}
