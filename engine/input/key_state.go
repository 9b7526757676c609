package input

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-bootstrap/common"
)

// keyState implements the KeyState interface with a fixed table indexed by virtual key code.
type keyState struct {
	mu   *sync.Mutex
	keys [common.KeyCount]bool
}

// KeyState records which keys are currently held.
// Codes are 8-bit virtual key codes (see common.Key*); codes outside [0, 255] are ignored.
type KeyState interface {
	// Initialize resets every key to the released state.
	Initialize()

	// OnKeyDown records that a key was pressed.
	//
	// Parameters:
	//   - code: the virtual key code
	OnKeyDown(code uint32)

	// OnKeyUp records that a key was released.
	//
	// Parameters:
	//   - code: the virtual key code
	OnKeyUp(code uint32)

	// IsPressed reports whether a key is currently held.
	//
	// Parameters:
	//   - code: the virtual key code
	//
	// Returns:
	//   - bool: true if the key is held, false if released or out of range
	IsPressed(code uint32) bool
}

var _ KeyState = &keyState{}

// NewKeyState creates a KeyState with every key released.
//
// Returns:
//   - KeyState: the new key state table
func NewKeyState() KeyState {
	return &keyState{mu: &sync.Mutex{}}
}

func (k *keyState) Initialize() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.keys = [common.KeyCount]bool{}
}

func (k *keyState) OnKeyDown(code uint32) {
	k.set(code, true)
}

func (k *keyState) OnKeyUp(code uint32) {
	k.set(code, false)
}

func (k *keyState) IsPressed(code uint32) bool {
	if code >= common.KeyCount {
		return false
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.keys[code]
}

func (k *keyState) set(code uint32, pressed bool) {
	if code >= common.KeyCount {
		return
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	k.keys[code] = pressed
}
