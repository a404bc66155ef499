package procon

import (
	"sync"
	"sync/atomic"
)

// Dpad holds the four directional pad bits. The encoder tolerates opposing
// directions being held at once; mapping layers are expected to avoid it.
type Dpad struct {
	Up, Down, Left, Right uint8
}

// Buttons holds the twelve digital buttons, 1 = pressed.
type Buttons struct {
	A, B, X, Y    uint8
	L, R, ZL, ZR  uint8
	Home, Capture uint8
	Plus, Minus   uint8
}

// StickState is one analog stick: 12-bit X/Y axes plus the click button.
type StickState struct {
	X, Y  uint16
	Press uint8
}

// Stick holds both analog sticks.
type Stick struct {
	Left, Right StickState
}

// SensorAxes is one three-axis sensor. The axes are accumulators: producers
// add raw counts at arbitrary rates and the encoder drains them with every
// six-axis buffer, so motion arriving between reports is never lost.
type SensorAxes struct {
	x, y, z atomic.Int64

	// Sensitivity is the gyro dots-per-degree scale used by Dot2DPS. It is
	// configured before StartConnect and read-only afterwards.
	Sensitivity float64
}

// Add accumulates raw counts into the three axes.
func (s *SensorAxes) Add(x, y, z int64) {
	if x != 0 {
		s.x.Add(x)
	}
	if y != 0 {
		s.y.Add(y)
	}
	if z != 0 {
		s.z.Add(z)
	}
}

// Load returns the current accumulator values without draining them.
func (s *SensorAxes) Load() (x, y, z int64) {
	return s.x.Load(), s.y.Load(), s.z.Load()
}

// drain atomically takes and zeroes the accumulators. Concurrent Adds land
// either in the returned values or in the next report, never both or neither.
func (s *SensorAxes) drain() (x, y, z int64) {
	return s.x.Swap(0), s.y.Swap(0), s.z.Swap(0)
}

// Sensor holds the accelerometer and gyroscope accumulators.
type Sensor struct {
	Accel SensorAxes
	Gyro  SensorAxes
}

// Input is the complete controller state. Every Controller owns exactly one
// Input for its lifetime; it is never shared between controllers.
//
// Buttons, dpad and sticks are guarded by an internal mutex (Set and the
// encoder take it); the sensor accumulators are atomics and may be mutated
// directly via Sensor.Gyro.Add / Sensor.Accel.Add.
type Input struct {
	mu     sync.Mutex
	Dpad   Dpad
	Button Buttons
	Stick  Stick
	Sensor Sensor
}

// NewInput returns an Input with both sticks at the neutral position.
func NewInput() *Input {
	in := &Input{}
	in.Stick.Left.X = StickNeutral
	in.Stick.Left.Y = StickNeutral
	in.Stick.Right.X = StickNeutral
	in.Stick.Right.Y = StickNeutral
	in.Sensor.Gyro.Sensitivity = 1.0
	return in
}

// Set applies one symbolic input update. Button, dpad and stick-press codes
// store 1 when value > 0 and 0 otherwise; stick direction codes store the raw
// value (the adapter supplies neutral, saturated or intermediate positions).
// Unknown codes are ignored.
func (in *Input) Set(code string, value int) {
	onoff := uint8(0)
	if value > 0 {
		onoff = 1
	}

	in.mu.Lock()
	defer in.mu.Unlock()

	switch code {
	case CodeButtonA:
		in.Button.A = onoff
	case CodeButtonB:
		in.Button.B = onoff
	case CodeButtonX:
		in.Button.X = onoff
	case CodeButtonY:
		in.Button.Y = onoff
	case CodeButtonR:
		in.Button.R = onoff
	case CodeButtonZR:
		in.Button.ZR = onoff
	case CodeButtonL:
		in.Button.L = onoff
	case CodeButtonZL:
		in.Button.ZL = onoff
	case CodeButtonHome:
		in.Button.Home = onoff
	case CodeButtonPlus:
		in.Button.Plus = onoff
	case CodeButtonMinus:
		in.Button.Minus = onoff
	case CodeButtonCapture:
		in.Button.Capture = onoff
	case CodeDpadUp:
		in.Dpad.Up = onoff
	case CodeDpadDown:
		in.Dpad.Down = onoff
	case CodeDpadLeft:
		in.Dpad.Left = onoff
	case CodeDpadRight:
		in.Dpad.Right = onoff
	case CodeLStickUp, CodeLStickDown:
		in.Stick.Left.Y = uint16(value) & StickMax
	case CodeLStickLeft, CodeLStickRight:
		in.Stick.Left.X = uint16(value) & StickMax
	case CodeLStickPress:
		in.Stick.Left.Press = onoff
	case CodeRStickUp, CodeRStickDown:
		in.Stick.Right.Y = uint16(value) & StickMax
	case CodeRStickLeft, CodeRStickRight:
		in.Stick.Right.X = uint16(value) & StickMax
	case CodeRStickPress:
		in.Stick.Right.Press = onoff
	}
}

// snapshot copies the mutex-guarded portion of the state.
func (in *Input) snapshot() (Dpad, Buttons, Stick) {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.Dpad, in.Button, in.Stick
}
