package common

// Virtual key codes for cross-platform input handling.
// Every code fits in a single byte so it can index the 256-entry key state table directly.
// Printable keys use their uppercase ASCII value, which GLFW shares for letters, digits and space.
// Reference: https://learn.microsoft.com/en-us/windows/win32/inputdev/virtual-key-codes
const (
	KeyBackspace = 0x08 // Backspace key
	KeyTab       = 0x09 // Tab key
	KeyEnter     = 0x0D // Enter key
	KeyShift     = 0x10 // Either Shift key
	KeyControl   = 0x11 // Either Control key
	KeyAlt       = 0x12 // Either Alt key
	KeyPause     = 0x13 // Pause key
	KeyCapsLock  = 0x14 // Caps Lock key
	KeyEscape    = 0x1B // Escape key
	KeySpace     = 0x20 // Spacebar (ASCII)
	KeyPageUp    = 0x21 // Page Up key
	KeyPageDown  = 0x22 // Page Down key
	KeyEnd       = 0x23 // End key
	KeyHome      = 0x24 // Home key
	KeyLeft      = 0x25 // Left arrow
	KeyUp        = 0x26 // Up arrow
	KeyRight     = 0x27 // Right arrow
	KeyDown      = 0x28 // Down arrow
	KeyInsert    = 0x2D // Insert key
	KeyDelete    = 0x2E // Delete key

	Key0 = 0x30 // 0 key (ASCII)
	Key1 = 0x31 // 1 key (ASCII)
	Key2 = 0x32 // 2 key (ASCII)
	Key3 = 0x33 // 3 key (ASCII)
	Key4 = 0x34 // 4 key (ASCII)
	Key5 = 0x35 // 5 key (ASCII)
	Key6 = 0x36 // 6 key (ASCII)
	Key7 = 0x37 // 7 key (ASCII)
	Key8 = 0x38 // 8 key (ASCII)
	Key9 = 0x39 // 9 key (ASCII)

	KeyA = 0x41 // A key (ASCII)
	KeyB = 0x42 // B key (ASCII)
	KeyC = 0x43 // C key (ASCII)
	KeyD = 0x44 // D key (ASCII)
	KeyE = 0x45 // E key (ASCII)
	KeyF = 0x46 // F key (ASCII)
	KeyG = 0x47 // G key (ASCII)
	KeyH = 0x48 // H key (ASCII)
	KeyI = 0x49 // I key (ASCII)
	KeyJ = 0x4A // J key (ASCII)
	KeyK = 0x4B // K key (ASCII)
	KeyL = 0x4C // L key (ASCII)
	KeyM = 0x4D // M key (ASCII)
	KeyN = 0x4E // N key (ASCII)
	KeyO = 0x4F // O key (ASCII)
	KeyP = 0x50 // P key (ASCII)
	KeyQ = 0x51 // Q key (ASCII)
	KeyR = 0x52 // R key (ASCII)
	KeyS = 0x53 // S key (ASCII)
	KeyT = 0x54 // T key (ASCII)
	KeyU = 0x55 // U key (ASCII)
	KeyV = 0x56 // V key (ASCII)
	KeyW = 0x57 // W key (ASCII)
	KeyX = 0x58 // X key (ASCII)
	KeyY = 0x59 // Y key (ASCII)
	KeyZ = 0x5A // Z key (ASCII)

	KeyF1  = 0x70
	KeyF2  = 0x71
	KeyF3  = 0x72
	KeyF4  = 0x73
	KeyF5  = 0x74
	KeyF6  = 0x75
	KeyF7  = 0x76
	KeyF8  = 0x77
	KeyF9  = 0x78
	KeyF10 = 0x79
	KeyF11 = 0x7A
	KeyF12 = 0x7B
)

// Side-specific modifier keys.
const (
	KeyLeftShift    = 0xA0
	KeyRightShift   = 0xA1
	KeyLeftControl  = 0xA2
	KeyRightControl = 0xA3
	KeyLeftAlt      = 0xA4
	KeyRightAlt     = 0xA5
)

// KeyCount is the number of distinct virtual key codes.
const KeyCount = 256
