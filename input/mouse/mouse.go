// Package mouse reads a Linux evdev mouse, accumulating pointer motion into
// the gyro accumulators and feeding mapped button events into the controller
// state. Horizontal motion turns the camera (gyro Z yaw), vertical motion
// pitches it (gyro Y).
package mouse

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
	input.RegisterSource("mouse", New)
}

const readTimeout = 250 * time.Millisecond

// Source is a running mouse producer.
type Source struct {
	dev    *evdev.InputDevice
	sink   input.Sink
	logger *slog.Logger
	codes  map[uint16]string
}

// New opens the configured mouse device, or discovers one, and resolves the
// keymap against its button capabilities.
func New(cfg input.Config, sink input.Sink, logger *slog.Logger) (input.Source, error) {
	var dev *evdev.InputDevice
	var err error
	if cfg.MousePath != "" {
		dev, err = evdev.Open(cfg.MousePath)
		if err != nil {
			return nil, fmt.Errorf("open mouse %s: %w", cfg.MousePath, err)
		}
	} else {
		dev, _, _, err = input.DiscoverDevices()
		if err != nil {
			return nil, err
		}
		if dev == nil {
			return nil, fmt.Errorf("no mouse-like input device found; check the device list with the devices command")
		}
	}

	byName := map[string]uint16{}
	for code, name := range input.KeyCodeNames(dev) {
		byName[name] = code
	}
	codes := map[uint16]string{}
	for keyName, inputCode := range cfg.Keymap {
		if code, ok := byName[keyName]; ok {
			codes[code] = inputCode
		}
	}

	logger.Info("mouse source ready", "device", dev.Fn, "name", dev.Name, "mapped", len(codes))
	return &Source{dev: dev, sink: sink, logger: logger, codes: codes}, nil
}

// Run grabs the device for exclusive access and pumps motion and button
// events until the context is cancelled.
func (s *Source) Run(ctx context.Context) error {
	if err := s.dev.Grab(); err != nil {
		return fmt.Errorf("grab mouse %s: %w", s.dev.Fn, err)
	}
	defer s.dev.Release()
	defer s.dev.File.Close()

	if err := syscall.SetNonblock(int(s.dev.File.Fd()), true); err != nil {
		return fmt.Errorf("set mouse non-blocking: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if err := s.dev.File.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
			return fmt.Errorf("mouse read deadline: %w", err)
		}
		ev, err := s.dev.ReadOne()
		if err != nil {
			if os.IsTimeout(err) {
				continue
			}
			return fmt.Errorf("read mouse %s: %w", s.dev.Fn, err)
		}

		switch ev.Type {
		case evdev.EV_REL:
			switch ev.Code {
			case evdev.REL_X:
				s.sink.AddGyro(0, 0, int64(ev.Value))
			case evdev.REL_Y:
				s.sink.AddGyro(0, int64(ev.Value), 0)
			}
		case evdev.EV_KEY:
			if code, ok := s.codes[ev.Code]; ok {
				input.ApplyKeyEvent(s.sink, code, ev.Value)
			}
		}
	}
}
