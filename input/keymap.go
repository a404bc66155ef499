package input

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Pedgin/NS-ProCon-Converter/procon"
)

// Keymap maps evdev key names (KEY_W, BTN_LEFT, ...) to controller input
// codes (BUTTON_A, LSTICK_UP, ...).
type Keymap map[string]string

// Validate checks that every mapped value is a known controller input code.
// Key names are resolved against the actual device capabilities when a source
// opens its device.
func (m Keymap) Validate() error {
	for key, code := range m {
		if !procon.IsInputCode(code) {
			valid := procon.InputCodes()
			sort.Strings(valid)
			return fmt.Errorf("keymap %s: unknown input code %q (valid: %s)",
				key, code, strings.Join(valid, ", "))
		}
	}
	return nil
}

// Normalized returns a copy with upper-cased key names, so config files may
// spell keys as key_w or KEY_W.
func (m Keymap) Normalized() Keymap {
	out := make(Keymap, len(m))
	for key, code := range m {
		out[strings.ToUpper(key)] = strings.ToUpper(code)
	}
	return out
}

// DefaultKeymap is a QWERTY layout covering movement on the left stick,
// camera on the d-pad and the face buttons on the right hand.
func DefaultKeymap() Keymap {
	return Keymap{
		"KEY_W":         procon.CodeLStickUp,
		"KEY_S":         procon.CodeLStickDown,
		"KEY_A":         procon.CodeLStickLeft,
		"KEY_D":         procon.CodeLStickRight,
		"KEY_LEFTSHIFT": procon.CodeLStickPress,
		"KEY_UP":        procon.CodeDpadUp,
		"KEY_DOWN":      procon.CodeDpadDown,
		"KEY_LEFT":      procon.CodeDpadLeft,
		"KEY_RIGHT":     procon.CodeDpadRight,
		"KEY_SPACE":     procon.CodeButtonB,
		"KEY_E":         procon.CodeButtonA,
		"KEY_R":         procon.CodeButtonX,
		"KEY_F":         procon.CodeButtonY,
		"KEY_Q":         procon.CodeButtonZL,
		"KEY_TAB":       procon.CodeButtonL,
		"KEY_ESC":       procon.CodeButtonMinus,
		"KEY_ENTER":     procon.CodeButtonPlus,
		"KEY_HOME":      procon.CodeButtonHome,
		"KEY_F12":       procon.CodeButtonCapture,
		"BTN_LEFT":      procon.CodeButtonZR,
		"BTN_RIGHT":     procon.CodeButtonR,
		"BTN_MIDDLE":    procon.CodeRStickPress,
	}
}

// Tuning derives the gyro sensitivity from physical mouse parameters.
type Tuning struct {
	// MouseDPI is the pointer resolution in dots per inch.
	MouseDPI float64
	// MouseTurnDistance is the mouse travel in centimeters that turns the
	// camera half a revolution.
	MouseTurnDistance float64
}

// Sensitivity converts the tuning into the dots-per-degree scale consumed by
// the gyro conversion: the dots travelled over a 180 degree turn, expressed
// per 0.07-degree gyro digit.
func (t Tuning) Sensitivity() float64 {
	turnDots := t.MouseDPI * (t.MouseTurnDistance / 2.54)
	return (turnDots / 180) * 0.07
}
