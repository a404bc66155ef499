// Package terminal drives the controller from raw stdin keystrokes. It is a
// fallback for driving the emulator over SSH where no evdev access exists;
// terminals deliver no key-release events, so every keystroke becomes a short
// tap.
package terminal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/Pedgin/NS-ProCon-Converter/input"
	"github.com/Pedgin/NS-ProCon-Converter/procon"
)

func init() {
	input.RegisterSource("terminal", New)
}

// tapDuration is how long a keystroke holds its input before release.
const tapDuration = 80 * time.Millisecond

// keymap maps raw stdin bytes to controller codes. WASD moves the left
// stick, the right hand covers the face buttons.
var keymap = map[byte]string{
	'w': procon.CodeLStickUp,
	's': procon.CodeLStickDown,
	'a': procon.CodeLStickLeft,
	'd': procon.CodeLStickRight,
	'i': procon.CodeDpadUp,
	'k': procon.CodeDpadDown,
	'j': procon.CodeDpadLeft,
	'l': procon.CodeDpadRight,
	' ': procon.CodeButtonB,
	'e': procon.CodeButtonA,
	'r': procon.CodeButtonX,
	'f': procon.CodeButtonY,
	'u': procon.CodeButtonL,
	'o': procon.CodeButtonR,
	'7': procon.CodeButtonZL,
	'9': procon.CodeButtonZR,
	'-': procon.CodeButtonMinus,
	'+': procon.CodeButtonPlus,
	'h': procon.CodeButtonHome,
	'c': procon.CodeButtonCapture,
}

// Source is a running terminal producer.
type Source struct {
	sink   input.Sink
	logger *slog.Logger
}

// New builds the terminal source. It requires stdin to be a terminal.
func New(cfg input.Config, sink input.Sink, logger *slog.Logger) (input.Source, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, fmt.Errorf("stdin is not a terminal")
	}
	return &Source{sink: sink, logger: logger}, nil
}

// Run switches stdin to raw mode and taps mapped inputs for every keystroke
// until q, Ctrl-C or context cancellation.
func (s *Source) Run(ctx context.Context) error {
	fd := int(os.Stdin.Fd())
	old, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("raw terminal: %w", err)
	}
	defer term.Restore(fd, old)

	s.logger.Info("terminal source active", "quit", "q or Ctrl-C")

	keys := make(chan byte)
	readErr := make(chan error, 1)
	go func() {
		buf := make([]byte, 1)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				readErr <- err
				return
			}
			if n == 1 {
				keys <- buf[0]
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			return fmt.Errorf("read stdin: %w", err)
		case k := <-keys:
			if k == 'q' || k == 0x03 {
				return nil
			}
			code, ok := keymap[k]
			if !ok {
				continue
			}
			s.tap(code)
		}
	}
}

// tap presses the input and schedules its release.
func (s *Source) tap(code string) {
	input.ApplyKeyEvent(s.sink, code, 1)
	time.AfterFunc(tapDuration, func() {
		input.ApplyKeyEvent(s.sink, code, 0)
	})
}
