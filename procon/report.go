package procon

import "encoding/binary"

// bitInput returns 1<<offset when the field is set.
func bitInput(v uint8, offset uint) uint8 {
	if v != 0 {
		return 1 << offset
	}
	return 0
}

// InputBuffer encodes the current buttons, dpad and sticks into the 11-byte
// packed layout shared by periodic reports and subcommand replies:
//
//	Byte 0:    0x81
//	Byte 1:    Y(0) X(1) B(2) A(3) R(6) ZR(7)
//	Byte 2:    Minus(0) Plus(1) RStick press(2) LStick press(3) Home(4) Capture(5)
//	Byte 3:    Dpad Down(0) Up(1) Right(2) Left(3) L(6) ZL(7)
//	Bytes 4-6: left stick, (Y<<12)|X little-endian
//	Bytes 7-9: right stick, (Y<<12)|X little-endian
//	Byte 10:   vibrator, always 0x00
func (in *Input) InputBuffer() []byte {
	dpad, btn, stick := in.snapshot()

	left := bitInput(btn.Y, 0) | bitInput(btn.X, 1) |
		bitInput(btn.B, 2) | bitInput(btn.A, 3) |
		bitInput(btn.R, 6) | bitInput(btn.ZR, 7)

	center := bitInput(btn.Minus, 0) | bitInput(btn.Plus, 1) |
		bitInput(stick.Right.Press, 2) | bitInput(stick.Left.Press, 3) |
		bitInput(btn.Home, 4) | bitInput(btn.Capture, 5)

	right := bitInput(dpad.Down, 0) | bitInput(dpad.Up, 1) |
		bitInput(dpad.Right, 2) | bitInput(dpad.Left, 3) |
		bitInput(btn.L, 6) | bitInput(btn.ZL, 7)

	buf := make([]byte, InputBufferSize)
	buf[0] = 0x81
	buf[1] = left
	buf[2] = center
	buf[3] = right
	putStick(buf[4:7], stick.Left)
	putStick(buf[7:10], stick.Right)
	buf[10] = 0x00
	return buf
}

// putStick packs (Y<<12)|X as a 24-bit little-endian group.
func putStick(b []byte, s StickState) {
	v := uint32(s.Y&StickMax)<<12 | uint32(s.X&StickMax)
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
}

// SensorAxesFlags selects which gyro axes undergo dot-to-DPS conversion when
// the six-axis buffer is encoded. Unselected axes pass through as raw counts.
type SensorAxesFlags struct {
	GyroX, GyroY, GyroZ bool
}

// SensorBuffer drains the six accumulators and encodes them as three identical
// 12-byte [ax ay az gx gy gz] frames of little-endian signed 16-bit values.
// Gyro axes selected in apply are converted from accumulated dots to
// degree-per-second digits with Dot2DPS over the reportSec period. All six
// accumulators are zero after this call.
func (in *Input) SensorBuffer(apply SensorAxesFlags, reportSec float64) []byte {
	ax, ay, az := in.Sensor.Accel.drain()
	gx, gy, gz := in.Sensor.Gyro.drain()

	dotPerDegree := in.Sensor.Gyro.Sensitivity
	if apply.GyroX {
		gx = int64(Dot2DPS(gx, dotPerDegree, reportSec))
	}
	if apply.GyroY {
		gy = int64(Dot2DPS(gy, dotPerDegree, reportSec))
	}
	if apply.GyroZ {
		gz = int64(Dot2DPS(gz, dotPerDegree, reportSec))
	}

	frame := make([]byte, 12)
	binary.LittleEndian.PutUint16(frame[0:2], uint16(ax))
	binary.LittleEndian.PutUint16(frame[2:4], uint16(ay))
	binary.LittleEndian.PutUint16(frame[4:6], uint16(az))
	binary.LittleEndian.PutUint16(frame[6:8], uint16(gx))
	binary.LittleEndian.PutUint16(frame[8:10], uint16(gy))
	binary.LittleEndian.PutUint16(frame[10:12], uint16(gz))

	buf := make([]byte, 0, SensorBufferSize)
	buf = append(buf, frame...)
	buf = append(buf, frame...)
	buf = append(buf, frame...)
	return buf
}

// Dot2DPS converts accumulated pointer dots into signed gyroscope digits.
// dot/dotPerDegree is the angle travelled during the report period psec;
// dividing by psec yields degrees per second, encoded in 0.07 deg/s units and
// clamped to the int16 range.
func Dot2DPS(dot int64, dotPerDegree, psec float64) int16 {
	degree := float64(dot) / dotPerDegree
	dps := degree / psec
	digit := int64(dps / dpsPerDigit)
	if digit > 32767 {
		digit = 32767
	} else if digit < -32768 {
		digit = -32768
	}
	return int16(digit)
}
