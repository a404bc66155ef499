package gadget

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// DefaultGadgetDir is the configfs directory created by the gadget setup
// script; DefaultUDCDir lists the platform's USB device controllers.
const (
	DefaultGadgetDir = "/sys/kernel/config/usb_gadget/procon"
	DefaultUDCDir    = "/sys/class/udc"
)

// settleDelay gives the host time to enumerate the gadget after a UDC bind
// before traffic starts.
const settleDelay = 500 * time.Millisecond

// Exists reports whether the configfs gadget directory is present.
func Exists(gadgetDir string) bool {
	info, err := os.Stat(gadgetDir)
	return err == nil && info.IsDir()
}

// ResetUDC unbinds and rebinds the gadget to the first available USB device
// controller, then waits for the host to enumerate it. Running it before a
// session clears any half-finished pairing left on the port; running it after
// detaches the gadget cleanly.
func ResetUDC(gadgetDir, udcDir string) error {
	udcFile := filepath.Join(gadgetDir, "UDC")

	if err := os.WriteFile(udcFile, []byte("\n"), 0o644); err != nil {
		return fmt.Errorf("unbind UDC: %w", err)
	}

	name, err := firstUDC(udcDir)
	if err != nil {
		return err
	}
	if err := os.WriteFile(udcFile, []byte(name+"\n"), 0o644); err != nil {
		return fmt.Errorf("bind UDC %s: %w", name, err)
	}

	time.Sleep(settleDelay)
	return nil
}

// Unbind detaches the gadget from its UDC without rebinding.
func Unbind(gadgetDir string) error {
	udcFile := filepath.Join(gadgetDir, "UDC")
	if err := os.WriteFile(udcFile, []byte("\n"), 0o644); err != nil {
		return fmt.Errorf("unbind UDC: %w", err)
	}
	return nil
}

// firstUDC returns the lexically first controller name under udcDir.
func firstUDC(udcDir string) (string, error) {
	entries, err := os.ReadDir(udcDir)
	if err != nil {
		return "", fmt.Errorf("list UDCs: %w", err)
	}
	if len(entries) == 0 {
		return "", fmt.Errorf("no USB device controller under %s", udcDir)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names[0], nil
}
