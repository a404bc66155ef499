// Package input defines the producer side of the converter: sources that read
// host input devices and feed symbolic updates into the controller state.
package input

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/Pedgin/NS-ProCon-Converter/procon"
)

// Sink receives input updates from a source. *procon.Controller implements it.
type Sink interface {
	// Set applies one symbolic input update.
	Set(code string, value int)
	// AddGyro accumulates raw pointer dots into the gyro accumulators.
	AddGyro(x, y, z int64)
}

// Source is one running input producer. Run blocks until the context is
// cancelled or the underlying device fails.
type Source interface {
	Run(ctx context.Context) error
}

// Config carries the shared source configuration.
type Config struct {
	// KeyboardPath and MousePath pin the evdev nodes to open. Empty values
	// select auto-discovery.
	KeyboardPath string
	MousePath    string

	// Keymap maps evdev key names to controller input codes.
	Keymap Keymap
}

// Factory builds a source from the shared configuration.
type Factory func(cfg Config, sink Sink, logger *slog.Logger) (Source, error)

var (
	sourcesMu sync.RWMutex
	sources   = map[string]Factory{}
)

// RegisterSource registers a source factory under a name. Called from the
// init functions of the source packages.
func RegisterSource(name string, f Factory) {
	sourcesMu.Lock()
	defer sourcesMu.Unlock()
	sources[name] = f
}

// NewSource builds the named source.
func NewSource(name string, cfg Config, sink Sink, logger *slog.Logger) (Source, error) {
	sourcesMu.RLock()
	f, ok := sources[name]
	sourcesMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown input source %q (valid: %s)", name, strings.Join(SourceNames(), ", "))
	}
	return f(cfg, sink, logger.With("source", name))
}

// SourceNames returns the registered source names, sorted.
func SourceNames() []string {
	sourcesMu.RLock()
	defer sourcesMu.RUnlock()
	names := make([]string, 0, len(sources))
	for n := range sources {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// StickValue translates a key press or release on a stick-direction code into
// the stick position to store: the saturated endpoint while held, neutral on
// release. Codes that are not stick directions return ok false.
func StickValue(code string, pressed bool) (value int, ok bool) {
	switch {
	case strings.HasSuffix(code, "STICK_UP"), strings.HasSuffix(code, "STICK_RIGHT"):
		if pressed {
			return procon.StickMax, true
		}
		return procon.StickNeutral, true
	case strings.HasSuffix(code, "STICK_DOWN"), strings.HasSuffix(code, "STICK_LEFT"):
		if pressed {
			return procon.StickMin, true
		}
		return procon.StickNeutral, true
	}
	return 0, false
}

// ApplyKeyEvent feeds one key event into the sink, routing stick-direction
// codes through StickValue and everything else through as-is.
func ApplyKeyEvent(sink Sink, code string, value int32) {
	if v, ok := StickValue(code, value > 0); ok {
		sink.Set(code, v)
		return
	}
	sink.Set(code, int(value))
}
