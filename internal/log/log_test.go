package log_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pedgin/NS-ProCon-Converter/internal/log"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, log.LevelTrace, log.ParseLevel("trace"))
	assert.Equal(t, slog.LevelDebug, log.ParseLevel("debug"))
	assert.Equal(t, slog.LevelInfo, log.ParseLevel("info"))
	assert.Equal(t, slog.LevelInfo, log.ParseLevel(""))
	assert.Equal(t, slog.LevelWarn, log.ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, log.ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, log.ParseLevel("bogus"))
}

func TestSetupWritesLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "converter.log")
	logger, cleanup, err := log.Setup("debug", path)
	require.NoError(t, err)

	logger.Debug("handshake", "selector", 0x01)
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "handshake")
	assert.Contains(t, string(data), "selector=1")
}

func TestRawLoggerFrameKinds(t *testing.T) {
	var buf bytes.Buffer
	raw := log.NewRaw(&buf)

	raw.Log(true, []byte{0x80, 0x01})
	raw.Log(true, []byte{0x01, 0x00})
	raw.Log(false, []byte{0x30, 0x2a})
	raw.Log(false, []byte{0x21, 0x07})
	raw.Log(false, []byte{0x55})

	out := buf.String()
	assert.Contains(t, out, ">>> usb")
	assert.Contains(t, out, ">>> subcmd")
	assert.Contains(t, out, "<<< input")
	assert.Contains(t, out, "<<< ack")
	assert.Contains(t, out, "0x55")
	assert.Contains(t, out, "80 01")
	assert.Contains(t, out, "30 2a")
}

func TestRawLoggerNoOp(t *testing.T) {
	raw := log.NewRaw(nil)
	raw.Log(true, []byte{0x01})

	var buf bytes.Buffer
	raw = log.NewRaw(&buf)
	raw.Log(true, nil)
	assert.Zero(t, buf.Len())
}
