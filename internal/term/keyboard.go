package term

// Two 58-entry shift tables translating a scancode directly to the
// character produced, indexed [upper/lower][scancode] exactly as
// keyboard.c's kbd_scan table does (scancode slots that produce
// nothing, e.g. the shift keys themselves, are left 0).
const (
	lower = 0
	upper = 1
)

var kbdScan = [2][58]byte{
	lower: {
		0, 0, '1', '2', '3', '4', '5', '6', '7', '8', '9', '0', '-', '=', 0, 0,
		'q', 'w', 'e', 'r', 't', 'y', 'u', 'i', 'o', 'p', '[', ']', '\n', 0,
		'a', 's', 'd', 'f', 'g', 'h', 'j', 'k', 'l', ';', '\'', '`', 0, '\\',
		'z', 'x', 'c', 'v', 'b', 'n', 'm', ',', '.', '/', 0, 0, 0, ' ',
	},
	upper: {
		0, 0, '!', '@', '#', '$', '%', '^', '&', '*', '(', ')', '_', '+', 0, 0,
		'Q', 'W', 'E', 'R', 'T', 'Y', 'U', 'I', 'O', 'P', '{', '}', '\n', 0,
		'A', 'S', 'D', 'F', 'G', 'H', 'J', 'K', 'L', ':', '"', '~', 0, '|',
		'Z', 'X', 'C', 'V', 'B', 'N', 'M', '<', '>', '?', 0, 0, 0, ' ',
	},
}

const scanLimit = 58

// scancode ranges used by is_letter/is_char in keyboard.c.
const (
	scanQ = 16
	scanP = 25
	scanA = 30
	scanL = 38
	scanZ = 44
	scanM = 50
	scanSpace = 57
)

func isLetter(scancode uint8) bool {
	switch {
	case scancode >= scanQ && scancode <= scanP:
		return true
	case scancode >= scanA && scancode <= scanL:
		return true
	case scancode >= scanZ && scancode <= scanM:
		return true
	}
	return false
}

// Modifiers_t tracks the edge-triggered key state keyboard.c keeps in
// file-scope volatiles: shift, caps, ctrl, alt, and which function key
// is currently held.
type Modifiers_t struct {
	Shift bool
	Caps  bool
	Ctrl  bool
	Alt   bool
	Fn    int // 0 = none, 1..3 = F1..F3
}

// Key_t is one decoded keypress: either a printable rune to append to
// the line buffer, or a control action the terminal handles directly.
type Key_t struct {
	Char          byte
	HasChar       bool
	Tab           bool
	Backspace     bool
	ClearScreen   bool
	RequestSwitch bool
	SwitchTo      int // valid only when RequestSwitch is true
}

// Decode turns scancode plus the current modifier state into a Key_t,
// mutating mods the way update_key_status does, and returns the
// decoded key. It is the direct translation of keyboard_handler's
// dispatch plus update_key_status's switch statement.
func Decode(scancode uint8, mods *Modifiers_t) Key_t {
	switch scancode {
	case 0x3A: // CAPSLOCK
		mods.Caps = !mods.Caps
		return Key_t{}
	case 0x36, 0x2A: // RSHIFT_ON, LSHIFT_ON
		mods.Shift = true
		return Key_t{}
	case 0xB6, 0xAA: // RSHIFT_OFF, LSHIFT_OFF
		mods.Shift = false
		return Key_t{}
	case 0x1D: // L_CTRL_ON
		mods.Ctrl = true
		return Key_t{}
	case 0x9D: // L_CTRL_OFF
		mods.Ctrl = false
		return Key_t{}
	case 0x38: // ALT_ON
		mods.Alt = true
		return Key_t{}
	case 0xB8: // ALT_OFF
		mods.Alt = false
		return Key_t{}
	case 0x3B: // F1_ON
		mods.Fn = 1
	case 0x3C: // F2_ON
		mods.Fn = 2
	case 0x3D: // F3_ON
		mods.Fn = 3
	case 0xBB, 0xBC, 0xBD: // F1_OFF, F2_OFF, F3_OFF
		mods.Fn = 0
		return Key_t{}
	case 0x0E: // BACKSPACE
		return Key_t{Backspace: true}
	}

	if mods.Alt && mods.Fn != 0 {
		return Key_t{RequestSwitch: true, SwitchTo: mods.Fn - 1}
	}

	if scancode == 0x26 && mods.Ctrl { // LETTER_L == 38 decimal (0x26)
		return Key_t{ClearScreen: true}
	}

	if scancode >= scanLimit {
		return Key_t{}
	}

	if scancode == 0x0F { // TAB: four spaces, expanded by the caller
		return Key_t{Tab: true}
	}

	if !isCharScancode(scancode) {
		return Key_t{}
	}

	var table int
	switch {
	case !mods.Caps && mods.Shift:
		table = upper
	case !mods.Caps && !mods.Shift:
		table = lower
	case mods.Caps && !mods.Shift:
		if isLetter(scancode) {
			table = upper
		} else {
			table = lower
		}
	default: // caps && shift
		if isLetter(scancode) {
			table = lower
		} else {
			table = upper
		}
	}

	c := kbdScan[table][scancode]
	if c == 0 {
		return Key_t{}
	}
	return Key_t{Char: c, HasChar: true}
}

// isCharScancode mirrors is_char: the two contiguous digit/letter
// scancode runs plus the dedicated space scancode.
func isCharScancode(scancode uint8) bool {
	switch {
	case scancode >= 2 && scancode <= 13:
		return true
	case scancode >= 16 && scancode <= 53:
		return true
	case scancode == scanSpace:
		return true
	}
	return false
}
