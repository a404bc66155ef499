// Package cmd defines the converter's command line surface.
package cmd

// CLI is the root kong grammar.
type CLI struct {
	Log struct {
		Level   string `help:"Log level (trace, debug, info, warn, error)" default:"info" env:"PROCON_LOG_LEVEL"`
		File    string `help:"Write logs to this file instead of the console" env:"PROCON_LOG_FILE"`
		RawFile string `help:"Write raw frame hex dumps to this file" env:"PROCON_LOG_RAW_FILE"`
	} `embed:"" prefix:"log."`

	Run     Run           `cmd:"" help:"Run the converter against the HID gadget"`
	Devices Devices       `cmd:"" help:"List candidate evdev input devices"`
	Config  ConfigCommand `cmd:"" help:"Configuration file helpers"`
}
