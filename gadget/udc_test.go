package gadget_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pedgin/NS-ProCon-Converter/gadget"
)

func makeGadgetDirs(t *testing.T, udcNames ...string) (gadgetDir, udcDir string) {
	t.Helper()
	root := t.TempDir()

	gadgetDir = filepath.Join(root, "usb_gadget", "procon")
	require.NoError(t, os.MkdirAll(gadgetDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(gadgetDir, "UDC"), nil, 0o644))

	udcDir = filepath.Join(root, "udc")
	require.NoError(t, os.MkdirAll(udcDir, 0o755))
	for _, name := range udcNames {
		require.NoError(t, os.MkdirAll(filepath.Join(udcDir, name), 0o755))
	}
	return gadgetDir, udcDir
}

func TestExists(t *testing.T) {
	gadgetDir, _ := makeGadgetDirs(t)
	assert.True(t, gadget.Exists(gadgetDir))
	assert.False(t, gadget.Exists(filepath.Join(gadgetDir, "missing")))
}

func TestResetUDCBindsFirstController(t *testing.T) {
	gadgetDir, udcDir := makeGadgetDirs(t, "fe980000.usb", "dummy_udc.0")

	require.NoError(t, gadget.ResetUDC(gadgetDir, udcDir))

	data, err := os.ReadFile(filepath.Join(gadgetDir, "UDC"))
	require.NoError(t, err)
	assert.Equal(t, "dummy_udc.0\n", string(data))
}

func TestResetUDCNoController(t *testing.T) {
	gadgetDir, udcDir := makeGadgetDirs(t)
	err := gadget.ResetUDC(gadgetDir, udcDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no USB device controller")
}

func TestUnbind(t *testing.T) {
	gadgetDir, udcDir := makeGadgetDirs(t, "dummy_udc.0")
	require.NoError(t, gadget.ResetUDC(gadgetDir, udcDir))
	require.NoError(t, gadget.Unbind(gadgetDir))

	data, err := os.ReadFile(filepath.Join(gadgetDir, "UDC"))
	require.NoError(t, err)
	assert.Equal(t, "\n", string(data))
}
