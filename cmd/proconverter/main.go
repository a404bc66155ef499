package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/Pedgin/NS-ProCon-Converter/internal/cmd"
	"github.com/Pedgin/NS-ProCon-Converter/internal/configpaths"
	"github.com/Pedgin/NS-ProCon-Converter/internal/log"

	_ "github.com/Pedgin/NS-ProCon-Converter/internal/registry" // Register all input sources

	"github.com/alecthomas/kong"
	kongtoml "github.com/alecthomas/kong-toml"
	kongyaml "github.com/alecthomas/kong-yaml"
)

func main() {
	// PROCON_CONFIG pins an explicit config file; otherwise the standard
	// candidate locations are probed.
	jsonPaths, yamlPaths, tomlPaths := configpaths.CandidatePaths(os.Getenv("PROCON_CONFIG"))

	var cli cmd.CLI
	parser := kong.Parse(&cli,
		kong.Name("proconverter"),
		kong.Description("Keyboard and mouse to Switch Pro Controller converter over a USB HID gadget"),
		kong.UsageOnError(),
		kong.Configuration(kong.JSON, jsonPaths...),
		kong.Configuration(kongyaml.Loader, yamlPaths...),
		kong.Configuration(kongtoml.Loader, tomlPaths...),
	)

	logger, raw, cleanup, err := setupLogging(&cli)
	parser.FatalIfErrorf(err)
	defer cleanup()

	parser.Bind(logger)
	parser.BindTo(raw, (*log.RawLogger)(nil))
	parser.FatalIfErrorf(parser.Run())
}

// setupLogging builds the event logger and the raw frame logger. Raw frames
// go to their own file when configured, to stdout at trace level, and
// nowhere otherwise.
func setupLogging(cli *cmd.CLI) (*slog.Logger, log.RawLogger, func(), error) {
	logger, closeLog, err := log.Setup(cli.Log.Level, cli.Log.File)
	if err != nil {
		return nil, nil, nil, err
	}

	raw := log.NewRaw(nil)
	cleanup := closeLog
	switch {
	case cli.Log.RawFile != "":
		f, err := os.OpenFile(cli.Log.RawFile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
		if err != nil {
			closeLog()
			return nil, nil, nil, fmt.Errorf("open raw log file: %w", err)
		}
		raw = log.NewRaw(f)
		cleanup = func() {
			_ = f.Close()
			closeLog()
		}
	case log.ParseLevel(cli.Log.Level) <= log.LevelTrace:
		raw = log.NewRaw(os.Stdout)
	}
	return logger, raw, cleanup, nil
}
