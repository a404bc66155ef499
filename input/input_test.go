package input_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pedgin/NS-ProCon-Converter/input"
	"github.com/Pedgin/NS-ProCon-Converter/procon"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recordingSink captures updates for assertions.
type recordingSink struct {
	sets map[string]int
	gyro [3]int64
}

func newRecordingSink() *recordingSink {
	return &recordingSink{sets: map[string]int{}}
}

func (r *recordingSink) Set(code string, value int) {
	r.sets[code] = value
}

func (r *recordingSink) AddGyro(x, y, z int64) {
	r.gyro[0] += x
	r.gyro[1] += y
	r.gyro[2] += z
}

func TestStickValue(t *testing.T) {
	cases := []struct {
		code    string
		pressed bool
		value   int
		ok      bool
	}{
		{procon.CodeLStickUp, true, procon.StickMax, true},
		{procon.CodeLStickUp, false, procon.StickNeutral, true},
		{procon.CodeRStickRight, true, procon.StickMax, true},
		{procon.CodeLStickDown, true, procon.StickMin, true},
		{procon.CodeRStickLeft, true, procon.StickMin, true},
		{procon.CodeRStickLeft, false, procon.StickNeutral, true},
		{procon.CodeLStickPress, true, 0, false},
		{procon.CodeButtonA, true, 0, false},
	}
	for _, tc := range cases {
		v, ok := input.StickValue(tc.code, tc.pressed)
		assert.Equal(t, tc.ok, ok, tc.code)
		if ok {
			assert.Equal(t, tc.value, v, tc.code)
		}
	}
}

func TestApplyKeyEvent(t *testing.T) {
	sink := newRecordingSink()

	input.ApplyKeyEvent(sink, procon.CodeLStickUp, 1)
	assert.Equal(t, procon.StickMax, sink.sets[procon.CodeLStickUp])

	input.ApplyKeyEvent(sink, procon.CodeLStickUp, 0)
	assert.Equal(t, procon.StickNeutral, sink.sets[procon.CodeLStickUp])

	input.ApplyKeyEvent(sink, procon.CodeButtonA, 1)
	assert.Equal(t, 1, sink.sets[procon.CodeButtonA])

	input.ApplyKeyEvent(sink, procon.CodeButtonA, 0)
	assert.Equal(t, 0, sink.sets[procon.CodeButtonA])

	// Key repeat passes through as a press.
	input.ApplyKeyEvent(sink, procon.CodeButtonB, 2)
	assert.Equal(t, 2, sink.sets[procon.CodeButtonB])
}

func TestKeymapValidate(t *testing.T) {
	good := input.Keymap{"KEY_W": procon.CodeLStickUp, "BTN_LEFT": procon.CodeButtonZR}
	require.NoError(t, good.Validate())

	// The misspelled capture code is the accepted spelling.
	require.NoError(t, input.Keymap{"KEY_F12": "BUTTON_CAPTUER"}.Validate())
	require.Error(t, input.Keymap{"KEY_F12": "BUTTON_CAPTURE"}.Validate())

	err := input.Keymap{"KEY_W": "BUTTON_NOPE"}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KEY_W")
}

func TestKeymapNormalized(t *testing.T) {
	m := input.Keymap{"key_w": "lstick_up"}.Normalized()
	assert.Equal(t, input.Keymap{"KEY_W": "LSTICK_UP"}, m)
}

func TestDefaultKeymapValid(t *testing.T) {
	require.NoError(t, input.DefaultKeymap().Validate())
}

func TestTuningSensitivity(t *testing.T) {
	tuning := input.Tuning{MouseDPI: 800, MouseTurnDistance: 16}
	// 800 dpi * 16cm/2.54 = 5039.37 dots per half turn.
	turnDots := 800.0 * 16.0 / 2.54
	assert.InDelta(t, turnDots/180*0.07, tuning.Sensitivity(), 1e-9)

	// More travel per turn means more dots per degree.
	slower := input.Tuning{MouseDPI: 800, MouseTurnDistance: 32}
	assert.Greater(t, slower.Sensitivity(), tuning.Sensitivity())
}

func TestNewSourceUnknownName(t *testing.T) {
	_, err := input.NewSource("gamepad", input.Config{}, newRecordingSink(), testLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown input source")
}
