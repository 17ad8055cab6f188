package hotkey

import (
	"fmt"
	"strings"
)

// Modifiers is a bit set of modifier keys
type Modifiers uint8

const (
	// ModCtrl is the control modifier
	ModCtrl Modifiers = 1 << iota
	// ModShift is the shift modifier
	ModShift
	// ModAlt is the alt modifier
	ModAlt
	// ModSuper is the super/windows/command modifier
	ModSuper
)

// String renders the modifier set in canonical order
func (m Modifiers) String() string {
	var parts []string
	if m&ModCtrl != 0 {
		parts = append(parts, "ctrl")
	}
	if m&ModShift != 0 {
		parts = append(parts, "shift")
	}
	if m&ModAlt != 0 {
		parts = append(parts, "alt")
	}
	if m&ModSuper != 0 {
		parts = append(parts, "super")
	}
	return strings.Join(parts, "+")
}

// Combo is a parsed key combination: a modifier set plus exactly one
// non-modifier key, identified by its canonical code name.
type Combo struct {
	Mods Modifiers
	Key  string
}

// String renders the combo in canonical form, e.g. "ctrl+shift+KeyK"
func (c Combo) String() string {
	if mods := c.Mods.String(); mods != "" {
		return mods + "+" + c.Key
	}
	return c.Key
}

// splitCombo splits on '+' while letting a doubled "++" denote the literal
// plus key.
func splitCombo(s string) []string {
	var result []string
	var current strings.Builder

	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '+' {
			current.WriteRune(runes[i])
			continue
		}
		if current.Len() > 0 {
			result = append(result, current.String())
			current.Reset()
		}
		if i+1 < len(runes) && runes[i+1] == '+' {
			result = append(result, "+")
			i++
		}
	}
	if current.Len() > 0 {
		result = append(result, current.String())
	}
	return result
}

// ParseCombo parses a user-facing combination string like "ctrl+shift+k".
// Matching is case-insensitive; modifiers may appear in any order; exactly
// one non-modifier key is required.
func ParseCombo(s string) (Combo, error) {
	parts := splitCombo(s)
	if len(parts) == 0 {
		return Combo{}, fmt.Errorf("invalid key format: %q", s)
	}

	var combo Combo
	for _, part := range parts {
		switch strings.ToLower(part) {
		case "ctrl", "control":
			combo.Mods |= ModCtrl
		case "shift":
			combo.Mods |= ModShift
		case "alt":
			combo.Mods |= ModAlt
		case "super", "win", "cmd", "meta":
			combo.Mods |= ModSuper
		default:
			if combo.Key != "" {
				return Combo{}, fmt.Errorf("invalid key format: multiple non-modifier keys in %q", s)
			}
			code, ok := keyCode(part)
			if !ok {
				return Combo{}, fmt.Errorf("unknown key: %q", part)
			}
			combo.Key = code
		}
	}

	if combo.Key == "" {
		return Combo{}, fmt.Errorf("invalid key format: no key code in %q", s)
	}
	return combo, nil
}

// keyCodes maps upper-cased aliases to canonical W3C code names. Letters,
// digits, numpad digits and F-keys are generated in init.
var keyCodes = map[string]string{
	"BACKQUOTE": "Backquote", "`": "Backquote",
	"BACKSLASH": "Backslash", "\\": "Backslash",
	"BRACKETLEFT": "BracketLeft", "[": "BracketLeft",
	"BRACKETRIGHT": "BracketRight", "]": "BracketRight",
	"PAUSE": "Pause", "PAUSEBREAK": "Pause",
	"COMMA": "Comma", ",": "Comma",
	"EQUAL": "Equal", "=": "Equal",
	"MINUS": "Minus", "-": "Minus",
	"PERIOD": "Period", ".": "Period",
	"QUOTE": "Quote", "'": "Quote",
	"SEMICOLON": "Semicolon", ";": "Semicolon",
	"SLASH": "Slash", "/": "Slash",
	"BACKSPACE":   "Backspace",
	"CAPSLOCK":    "CapsLock",
	"ENTER":       "Enter",
	"SPACE":       "Space",
	"TAB":         "Tab",
	"DELETE":      "Delete",
	"END":         "End",
	"HOME":        "Home",
	"INSERT":      "Insert",
	"PAGEDOWN":    "PageDown",
	"PAGEUP":      "PageUp",
	"PRINTSCREEN": "PrintScreen",
	"SCROLLLOCK":  "ScrollLock",
	"ARROWDOWN":   "ArrowDown", "DOWN": "ArrowDown",
	"ARROWLEFT": "ArrowLeft", "LEFT": "ArrowLeft",
	"ARROWRIGHT": "ArrowRight", "RIGHT": "ArrowRight",
	"ARROWUP": "ArrowUp", "UP": "ArrowUp",
	"NUMLOCK":         "NumLock",
	"NUMPADADD":       "NumpadAdd",
	"NUMADD":          "NumpadAdd",
	"NUMPADPLUS":      "NumpadAdd",
	"NUMPLUS":         "NumpadAdd",
	"+":               "NumpadAdd",
	"NUMPADDECIMAL":   "NumpadDecimal",
	"NUMDECIMAL":      "NumpadDecimal",
	"NUMPADDIVIDE":    "NumpadDivide",
	"NUMDIVIDE":       "NumpadDivide",
	"NUMPADENTER":     "NumpadEnter",
	"NUMENTER":        "NumpadEnter",
	"NUMPADEQUAL":     "NumpadEqual",
	"NUMEQUAL":        "NumpadEqual",
	"NUMPADMULTIPLY":  "NumpadMultiply",
	"NUMMULTIPLY":     "NumpadMultiply",
	"NUMPADSUBTRACT":  "NumpadSubtract",
	"NUMSUBTRACT":     "NumpadSubtract",
	"ESCAPE":          "Escape",
	"ESC":             "Escape",
	"AUDIOVOLUMEDOWN": "AudioVolumeDown", "VOLUMEDOWN": "AudioVolumeDown",
	"AUDIOVOLUMEUP": "AudioVolumeUp", "VOLUMEUP": "AudioVolumeUp",
	"AUDIOVOLUMEMUTE": "AudioVolumeMute", "VOLUMEMUTE": "AudioVolumeMute",
	"MEDIAPLAY":      "MediaPlay",
	"MEDIAPAUSE":     "MediaPause",
	"MEDIAPLAYPAUSE": "MediaPlayPause",
	"MEDIASTOP":      "MediaStop",
	"MEDIATRACKNEXT": "MediaTrackNext",
	"MEDIATRACKPREV": "MediaTrackPrevious", "MEDIATRACKPREVIOUS": "MediaTrackPrevious",
}

func init() {
	for c := 'A'; c <= 'Z'; c++ {
		name := "Key" + string(c)
		keyCodes[string(c)] = name
		keyCodes["KEY"+string(c)] = name
	}
	for c := '0'; c <= '9'; c++ {
		name := "Digit" + string(c)
		keyCodes[string(c)] = name
		keyCodes["DIGIT"+string(c)] = name
		keyCodes["NUMPAD"+string(c)] = "Numpad" + string(c)
		keyCodes["NUM"+string(c)] = "Numpad" + string(c)
	}
	for i := 1; i <= 24; i++ {
		name := fmt.Sprintf("F%d", i)
		keyCodes[strings.ToUpper(name)] = name
	}
}

func keyCode(name string) (string, bool) {
	code, ok := keyCodes[strings.ToUpper(name)]
	return code, ok
}
