package input

import (
	"fmt"

	evdev "github.com/gvalkov/golang-evdev"
)

// DiscoverDevices classifies the available evdev nodes the way the converter
// picks its defaults: a device with relative axes and a mouse button is the
// mouse; a device with keys and no relative axes is the keyboard. The full
// device list is returned for diagnostics.
func DiscoverDevices() (mouse, keyboard *evdev.InputDevice, all []*evdev.InputDevice, err error) {
	all, err = evdev.ListInputDevices()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("list input devices: %w", err)
	}

	for _, dev := range all {
		rel := HasEventType(dev, "EV_REL")
		key := HasEventType(dev, "EV_KEY")
		switch {
		case rel && HasKeyCode(dev, evdev.BTN_MOUSE):
			if mouse == nil {
				mouse = dev
			}
		case !rel && key:
			if keyboard == nil {
				keyboard = dev
			}
		}
	}
	return mouse, keyboard, all, nil
}

// HasEventType reports whether the device advertises the named event type
// (EV_KEY, EV_REL, ...).
func HasEventType(dev *evdev.InputDevice, name string) bool {
	for t := range dev.Capabilities {
		if t.Name == name {
			return true
		}
	}
	return false
}

// HasKeyCode reports whether the device advertises the EV_KEY code.
func HasKeyCode(dev *evdev.InputDevice, code int) bool {
	for t, codes := range dev.Capabilities {
		if t.Name != "EV_KEY" {
			continue
		}
		for _, c := range codes {
			if c.Code == code {
				return true
			}
		}
	}
	return false
}

// KeyCodeNames returns the device's EV_KEY capability codes keyed by numeric
// code, used to resolve keymap names against what the device can emit.
func KeyCodeNames(dev *evdev.InputDevice) map[uint16]string {
	out := map[uint16]string{}
	for t, codes := range dev.Capabilities {
		if t.Name != "EV_KEY" {
			continue
		}
		for _, c := range codes {
			out[uint16(c.Code)] = c.Name
		}
	}
	return out
}
