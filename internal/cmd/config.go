package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml"
	yaml "gopkg.in/yaml.v3"

	"github.com/Pedgin/NS-ProCon-Converter/gadget"
	"github.com/Pedgin/NS-ProCon-Converter/input"
	"github.com/Pedgin/NS-ProCon-Converter/procon"
)

// ConfigCommand groups config-related subcommands.
type ConfigCommand struct {
	Init ConfigInit `cmd:"" help:"Generate a configuration template"`
}

// ConfigInit writes a run-command configuration template carrying every knob
// at its default, including the full default keymap so users edit bindings
// instead of guessing key names.
type ConfigInit struct {
	Format string `help:"Output format" enum:"json,yaml,toml" default:"toml"`
	Output string `help:"Destination file path (defaults to current directory)"`
	Force  bool   `help:"Overwrite if the file already exists"`
}

// template mirrors the run command's flag names (kong's config keys).
func template() map[string]any {
	return map[string]any{
		"gadget-path":  "/dev/hidg0",
		"gadget-dir":   gadget.DefaultGadgetDir,
		"udc-dir":      gadget.DefaultUDCDir,
		"no-udc-reset": false,

		"sources":       []string{"keyboard", "mouse"},
		"keyboard-path": "",
		"mouse-path":    "",
		"keymap":        map[string]string(input.DefaultKeymap()),

		"mouse-dpi":           800.0,
		"mouse-turn-distance": 16.0,
		"report-sec":          procon.DefaultReportSec,
		"apply-sens":          []string{"gyroy", "gyroz"},

		"log": map[string]any{
			"level":    "info",
			"file":     "",
			"raw-file": "",
		},
	}
}

func (c *ConfigInit) Run() error {
	format := strings.ToLower(c.Format)
	if format == "yml" {
		format = "yaml"
	}

	var data []byte
	var err error
	switch format {
	case "json":
		data, err = json.MarshalIndent(template(), "", "  ")
	case "yaml":
		data, err = yaml.Marshal(template())
	case "toml":
		data, err = toml.Marshal(template())
	default:
		return fmt.Errorf("unsupported format: %s", c.Format)
	}
	if err != nil {
		return err
	}

	dest := c.Output
	if dest == "" {
		dest = "run." + format
	}
	if !c.Force {
		if _, err := os.Stat(dest); err == nil {
			return errors.New("destination exists; use --force to overwrite")
		}
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dest, data, 0o644)
}
