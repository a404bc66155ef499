package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Pedgin/NS-ProCon-Converter/gadget"
	"github.com/Pedgin/NS-ProCon-Converter/input"
	"github.com/Pedgin/NS-ProCon-Converter/internal/log"
	"github.com/Pedgin/NS-ProCon-Converter/procon"
)

// Run is the converter daemon: it binds the gadget, opens the controller and
// pumps the configured input sources into it until interrupted.
type Run struct {
	GadgetPath string `help:"HID gadget device node" default:"/dev/hidg0" env:"PROCON_GADGET_PATH"`
	GadgetDir  string `help:"Configfs gadget directory" default:"/sys/kernel/config/usb_gadget/procon" env:"PROCON_GADGET_DIR"`
	UDCDir     string `help:"USB device controller directory" default:"/sys/class/udc" env:"PROCON_UDC_DIR"`
	NoUDCReset bool   `help:"Skip the UDC unbind/bind cycle around the session"`

	Sources      []string `help:"Input sources to start" default:"keyboard,mouse"`
	KeyboardPath string   `help:"Evdev keyboard node (auto-discovered when empty)"`
	MousePath    string   `help:"Evdev mouse node (auto-discovered when empty)"`

	Keymap map[string]string `help:"Evdev key name to controller code mapping (KEY_W=LSTICK_UP;...)" mapsep:";"`

	MouseDPI          float64 `help:"Pointer resolution in dots per inch" default:"800"`
	MouseTurnDistance float64 `help:"Mouse travel in centimeters for a half camera turn" default:"16"`

	ReportSec float64  `help:"Seconds between periodic input reports" default:"0.015"`
	ApplySens []string `help:"Gyro axes converted from dots to degrees per second" default:"gyroy,gyroz"`
}

// Run is called by kong when the run command is executed.
func (r *Run) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return r.Start(ctx, logger, rawLogger)
}

// Start runs one converter session under the given context.
func (r *Run) Start(ctx context.Context, logger *slog.Logger, rawLogger log.RawLogger) error {
	if !gadget.Exists(r.GadgetDir) {
		return fmt.Errorf("gadget %s does not exist; run the gadget setup script first", r.GadgetDir)
	}
	if !r.NoUDCReset {
		if err := gadget.ResetUDC(r.GadgetDir, r.UDCDir); err != nil {
			return err
		}
	}
	if _, err := os.Stat(r.GadgetPath); err != nil {
		return fmt.Errorf("gadget path %s does not exist: %w", r.GadgetPath, err)
	}

	keymap := input.DefaultKeymap()
	if len(r.Keymap) > 0 {
		keymap = input.Keymap(r.Keymap).Normalized()
	}
	if err := keymap.Validate(); err != nil {
		return err
	}

	con, err := procon.New(r.GadgetPath, &procon.Options{
		Logger:    logger,
		Raw:       rawLogger,
		ReportSec: r.ReportSec,
		ApplySens: r.ApplySens,
	})
	if err != nil {
		return err
	}
	tuning := input.Tuning{MouseDPI: r.MouseDPI, MouseTurnDistance: r.MouseTurnDistance}
	con.Input.Sensor.Gyro.Sensitivity = tuning.Sensitivity()

	srcCfg := input.Config{
		KeyboardPath: r.KeyboardPath,
		MousePath:    r.MousePath,
		Keymap:       keymap,
	}
	srcs := make([]input.Source, 0, len(r.Sources))
	for _, name := range r.Sources {
		src, err := input.NewSource(name, srcCfg, con, logger)
		if err != nil {
			return err
		}
		srcs = append(srcs, src)
	}

	if err := con.StartConnect(); err != nil {
		return err
	}
	logger.Info("converter running", "gadget", r.GadgetPath, "sources", r.Sources,
		"sensitivity", con.Input.Sensor.Gyro.Sensitivity)

	srcErr := make(chan error, len(srcs))
	for _, src := range srcs {
		src := src
		go func() {
			srcErr <- src.Run(ctx)
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-con.Err():
		runErr = err
	case err := <-srcErr:
		runErr = err
	}

	con.Disconnect()
	if err := con.Close(); err != nil && runErr == nil {
		runErr = err
	}
	if !r.NoUDCReset {
		if err := gadget.ResetUDC(r.GadgetDir, r.UDCDir); err != nil {
			logger.Warn("UDC reset on shutdown failed", "error", err)
		}
	}
	return runErr
}
