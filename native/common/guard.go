package common

import (
	"errors"
	"sync"
)

var (
	// ErrModulePaused is returned by Guard when the consulted module is
	// halted.
	ErrModulePaused = errors.New("module paused")
	// ErrNotPauseAuthority is returned when a caller other than the
	// configured authority flips a pause switch.
	ErrNotPauseAuthority = errors.New("caller is not the pause authority")
)

// PauseView exposes the read side of the pause gate. Modules consult it
// before every mutating operation.
type PauseView interface {
	IsPaused(module string) bool
}

// Guard rejects the operation with ErrModulePaused when the module is halted.
// A nil view or empty module name disables the check.
func Guard(p PauseView, module string) error {
	if p == nil || module == "" {
		return nil
	}
	if p.IsPaused(module) {
		return ErrModulePaused
	}
	return nil
}

// PauseRegistry holds the global halt switches. A single authority, fixed at
// construction, may pause or resume modules; reads are unrestricted.
type PauseRegistry struct {
	mu        sync.RWMutex
	authority [20]byte
	paused    map[string]bool
}

// NewPauseRegistry creates a registry owned by the provided authority.
func NewPauseRegistry(authority [20]byte) *PauseRegistry {
	return &PauseRegistry{authority: authority, paused: make(map[string]bool)}
}

// Authority returns the address allowed to flip pause switches.
func (r *PauseRegistry) Authority() [20]byte {
	return r.authority
}

// IsPaused implements PauseView.
func (r *PauseRegistry) IsPaused(module string) bool {
	if r == nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.paused[module]
}

// Pause halts the named module. Only the authority may call it.
func (r *PauseRegistry) Pause(caller [20]byte, module string) error {
	if caller != r.authority {
		return ErrNotPauseAuthority
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paused[module] = true
	return nil
}

// Resume releases the named module. Only the authority may call it.
func (r *PauseRegistry) Resume(caller [20]byte, module string) error {
	if caller != r.authority {
		return ErrNotPauseAuthority
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.paused, module)
	return nil
}
