package cmd

import (
	"fmt"
	"log/slog"

	"github.com/Pedgin/NS-ProCon-Converter/input"
)

// Devices lists the evdev nodes the converter can see and marks which ones
// auto-discovery would pick.
type Devices struct{}

func (d *Devices) Run(logger *slog.Logger) error {
	mouse, keyboard, all, err := input.DiscoverDevices()
	if err != nil {
		return err
	}
	if len(all) == 0 {
		return fmt.Errorf("no evdev input devices found; missing permissions on /dev/input?")
	}

	for _, dev := range all {
		marker := " "
		switch dev {
		case mouse:
			marker = "M"
		case keyboard:
			marker = "K"
		}
		fmt.Printf("%s %-20s %-32s %s\n", marker, dev.Fn, dev.Name, dev.Phys)
	}
	if mouse == nil {
		logger.Warn("no mouse-like device found")
	}
	if keyboard == nil {
		logger.Warn("no keyboard-like device found")
	}
	return nil
}
