package procon_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pedgin/NS-ProCon-Converter/procon"
)

func TestInputBufferLayout(t *testing.T) {
	type testCase struct {
		name     string
		setup    func(in *procon.Input)
		expected []byte
	}

	cases := []testCase{
		{
			name:  "neutral defaults",
			setup: func(in *procon.Input) {},
			expected: []byte{
				0x81,
				0x00, 0x00, 0x00,
				0x00, 0x08, 0x80,
				0x00, 0x08, 0x80,
				0x00,
			},
		},
		{
			name: "face buttons",
			setup: func(in *procon.Input) {
				in.Set(procon.CodeButtonA, 1)
				in.Set(procon.CodeButtonZR, 1)
			},
			expected: []byte{
				0x81,
				0x88, 0x00, 0x00,
				0x00, 0x08, 0x80,
				0x00, 0x08, 0x80,
				0x00,
			},
		},
		{
			name: "center cluster and stick presses",
			setup: func(in *procon.Input) {
				in.Set(procon.CodeButtonMinus, 1)
				in.Set(procon.CodeButtonHome, 1)
				in.Set(procon.CodeButtonCapture, 1)
				in.Set(procon.CodeLStickPress, 1)
				in.Set(procon.CodeRStickPress, 1)
			},
			expected: []byte{
				0x81,
				0x00, 0x3D, 0x00,
				0x00, 0x08, 0x80,
				0x00, 0x08, 0x80,
				0x00,
			},
		},
		{
			name: "dpad and shoulders",
			setup: func(in *procon.Input) {
				in.Set(procon.CodeDpadUp, 1)
				in.Set(procon.CodeDpadLeft, 1)
				in.Set(procon.CodeButtonL, 1)
				in.Set(procon.CodeButtonZL, 1)
			},
			expected: []byte{
				0x81,
				0x00, 0x00, 0xCA,
				0x00, 0x08, 0x80,
				0x00, 0x08, 0x80,
				0x00,
			},
		},
		{
			name: "left stick packing",
			setup: func(in *procon.Input) {
				in.Set(procon.CodeLStickRight, 0x123)
				in.Set(procon.CodeLStickUp, 0x456)
			},
			expected: []byte{
				0x81,
				0x00, 0x00, 0x00,
				0x23, 0x61, 0x45,
				0x00, 0x08, 0x80,
				0x00,
			},
		},
		{
			name: "right stick saturated",
			setup: func(in *procon.Input) {
				in.Set(procon.CodeRStickRight, procon.StickMax)
				in.Set(procon.CodeRStickUp, procon.StickMax)
			},
			expected: []byte{
				0x81,
				0x00, 0x00, 0x00,
				0x00, 0x08, 0x80,
				0xFF, 0xFF, 0xFF,
				0x00,
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := procon.NewInput()
			tc.setup(in)
			buf := in.InputBuffer()
			require.Len(t, buf, procon.InputBufferSize)
			assert.Equal(t, tc.expected, buf)
		})
	}
}

// buttonBit mirrors the wire layout for decoding in the round-trip test.
var buttonBits = []struct {
	code   string
	byteIx int
	bit    uint
}{
	{procon.CodeButtonY, 1, 0},
	{procon.CodeButtonX, 1, 1},
	{procon.CodeButtonB, 1, 2},
	{procon.CodeButtonA, 1, 3},
	{procon.CodeButtonR, 1, 6},
	{procon.CodeButtonZR, 1, 7},
	{procon.CodeButtonMinus, 2, 0},
	{procon.CodeButtonPlus, 2, 1},
	{procon.CodeButtonHome, 2, 4},
	{procon.CodeButtonCapture, 2, 5},
	{procon.CodeButtonL, 3, 6},
	{procon.CodeButtonZL, 3, 7},
}

func TestButtonRoundTrip(t *testing.T) {
	for combo := 0; combo < 1<<len(buttonBits); combo++ {
		in := procon.NewInput()
		for i, b := range buttonBits {
			if combo&(1<<i) != 0 {
				in.Set(b.code, 1)
			}
		}
		buf := in.InputBuffer()
		for i, b := range buttonBits {
			want := uint8(0)
			if combo&(1<<i) != 0 {
				want = 1
			}
			got := (buf[b.byteIx] >> b.bit) & 1
			if got != want {
				t.Fatalf("combo %#x: %s encoded as %d, want %d", combo, b.code, got, want)
			}
		}
	}
}

func TestSensorBufferRepeatsFrame(t *testing.T) {
	in := procon.NewInput()
	in.Sensor.Accel.Add(100, -200, 300)
	in.Sensor.Gyro.Add(-1, 2, -3)

	buf := in.SensorBuffer(procon.SensorAxesFlags{}, procon.DefaultReportSec)
	require.Len(t, buf, procon.SensorBufferSize)

	frame := buf[0:12]
	assert.Equal(t, frame, buf[12:24])
	assert.Equal(t, frame, buf[24:36])

	assert.Equal(t, uint16(100), binary.LittleEndian.Uint16(frame[0:2]))
	assert.Equal(t, uint16(0x10000-200), binary.LittleEndian.Uint16(frame[2:4]))
	assert.Equal(t, uint16(300), binary.LittleEndian.Uint16(frame[4:6]))
	assert.Equal(t, uint16(0xFFFF), binary.LittleEndian.Uint16(frame[6:8]))
	assert.Equal(t, uint16(2), binary.LittleEndian.Uint16(frame[8:10]))
	assert.Equal(t, uint16(0x10000-3), binary.LittleEndian.Uint16(frame[10:12]))
}

func TestSensorBufferDrainsAccumulators(t *testing.T) {
	in := procon.NewInput()
	in.Sensor.Accel.Add(1, 2, 3)
	in.Sensor.Gyro.Add(4, 5, 6)

	_ = in.SensorBuffer(procon.SensorAxesFlags{GyroY: true}, procon.DefaultReportSec)

	ax, ay, az := in.Sensor.Accel.Load()
	gx, gy, gz := in.Sensor.Gyro.Load()
	assert.Zero(t, ax)
	assert.Zero(t, ay)
	assert.Zero(t, az)
	assert.Zero(t, gx)
	assert.Zero(t, gy)
	assert.Zero(t, gz)
}

func TestSensorBufferGyroConversion(t *testing.T) {
	in := procon.NewInput()
	in.Sensor.Gyro.Sensitivity = 100.0

	// Accumulate across several producer calls; only the y axis converts.
	in.Sensor.Gyro.Add(0, 500, 123)
	in.Sensor.Gyro.Add(0, 1000, 0)

	buf := in.SensorBuffer(procon.SensorAxesFlags{GyroY: true}, 0.015)
	gyroY := int16(binary.LittleEndian.Uint16(buf[8:10]))
	gyroZ := int16(binary.LittleEndian.Uint16(buf[10:12]))

	// (1500/100)/0.015 = 1000 dps, /0.07 = 14285 digits.
	assert.Equal(t, int16(14285), gyroY)
	assert.Equal(t, int16(123), gyroZ)

	_, gy, _ := in.Sensor.Gyro.Load()
	assert.Zero(t, gy)
}

func TestDot2DPS(t *testing.T) {
	assert.Equal(t, int16(14285), procon.Dot2DPS(1500, 100.0, 0.015))
	assert.Equal(t, int16(0), procon.Dot2DPS(0, 100.0, 0.015))
	assert.Equal(t, int16(32767), procon.Dot2DPS(1<<40, 1.0, 0.015))
	assert.Equal(t, int16(-32768), procon.Dot2DPS(-(1<<40), 1.0, 0.015))

	// Monotone non-decreasing in dot for fixed positive parameters.
	prev := procon.Dot2DPS(-5000, 3.5, 0.015)
	for dot := int64(-4999); dot <= 5000; dot++ {
		cur := procon.Dot2DPS(dot, 3.5, 0.015)
		require.GreaterOrEqual(t, cur, prev, "dot %d", dot)
		prev = cur
	}
}

func TestParseApplySens(t *testing.T) {
	flags, err := procon.ParseApplySens([]string{"gyroy", "GyroZ"})
	require.NoError(t, err)
	assert.Equal(t, procon.SensorAxesFlags{GyroY: true, GyroZ: true}, flags)

	_, err = procon.ParseApplySens([]string{"accelx"})
	assert.Error(t, err)
}
