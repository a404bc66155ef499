// Package keyboard reads a Linux evdev keyboard and feeds mapped key events
// into the controller state.
package keyboard

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"syscall"
	"time"

	evdev "github.com/gvalkov/golang-evdev"

	"github.com/Pedgin/NS-ProCon-Converter/input"
)

func init() {
	input.RegisterSource("keyboard", New)
}

const readTimeout = 250 * time.Millisecond

// Source is a running keyboard producer.
type Source struct {
	dev    *evdev.InputDevice
	sink   input.Sink
	logger *slog.Logger

	// codes maps the device's numeric key codes to controller input codes.
	codes map[uint16]string
}

// New opens the configured keyboard device, or discovers one, and resolves
// the keymap against its capabilities.
func New(cfg input.Config, sink input.Sink, logger *slog.Logger) (input.Source, error) {
	var dev *evdev.InputDevice
	var err error
	if cfg.KeyboardPath != "" {
		dev, err = evdev.Open(cfg.KeyboardPath)
		if err != nil {
			return nil, fmt.Errorf("open keyboard %s: %w", cfg.KeyboardPath, err)
		}
	} else {
		_, dev, _, err = input.DiscoverDevices()
		if err != nil {
			return nil, err
		}
		if dev == nil {
			return nil, fmt.Errorf("no keyboard-like input device found; check the device list with the devices command")
		}
	}

	codes := resolveKeymap(dev, cfg.Keymap, logger)
	logger.Info("keyboard source ready", "device", dev.Fn, "name", dev.Name, "mapped", len(codes))

	return &Source{dev: dev, sink: sink, logger: logger, codes: codes}, nil
}

// resolveKeymap matches keymap names against the key names the device
// advertises. Names the device cannot emit are logged and skipped.
func resolveKeymap(dev *evdev.InputDevice, keymap input.Keymap, logger *slog.Logger) map[uint16]string {
	byName := map[string]uint16{}
	for code, name := range input.KeyCodeNames(dev) {
		byName[name] = code
	}

	out := map[uint16]string{}
	for keyName, inputCode := range keymap {
		code, ok := byName[keyName]
		if !ok {
			logger.Debug("key not present on device", "key", keyName)
			continue
		}
		out[code] = inputCode
	}
	return out
}

// Run grabs the device for exclusive access and pumps key events until the
// context is cancelled.
func (s *Source) Run(ctx context.Context) error {
	if err := s.dev.Grab(); err != nil {
		return fmt.Errorf("grab keyboard %s: %w", s.dev.Fn, err)
	}
	defer s.dev.Release()
	defer s.dev.File.Close()

	if err := syscall.SetNonblock(int(s.dev.File.Fd()), true); err != nil {
		return fmt.Errorf("set keyboard non-blocking: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if err := s.dev.File.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
			return fmt.Errorf("keyboard read deadline: %w", err)
		}
		ev, err := s.dev.ReadOne()
		if err != nil {
			if os.IsTimeout(err) {
				continue
			}
			return fmt.Errorf("read keyboard %s: %w", s.dev.Fn, err)
		}

		if ev.Type != evdev.EV_KEY {
			continue
		}
		code, ok := s.codes[ev.Code]
		if !ok {
			continue
		}
		input.ApplyKeyEvent(s.sink, code, ev.Value)
	}
}
