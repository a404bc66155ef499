package procon

// Report IDs on the gadget channel. The first byte of every frame selects the
// decode path on both sides.
const (
	ReportIDInput     = 0x30 // unsolicited periodic input report
	ReportIDUARTReply = 0x21 // subcommand reply (piggybacks the input buffer)
	ReportIDUSBReply  = 0x81 // USB handshake reply

	ReportIDUSBRequest  = 0x80 // host -> device USB handshake family
	ReportIDUARTRequest = 0x01 // host -> device UART subcommand
	ReportIDRumbleOnly  = 0x10 // host -> device rumble data, ignored
)

// Selectors of the 0x80 USB handshake family (frame byte 1).
const (
	USBCmdConnStatus = 0x01 // requests controller MAC/type
	USBCmdHandshake  = 0x02
	USBCmdBaudRate   = 0x03
	USBCmdHIDEnable  = 0x04 // starts the periodic input reports
)

// UART subcommand IDs (frame byte 10). Arguments start at byte 11.
const (
	SubcmdPairing         = 0x01
	SubcmdDeviceInfo      = 0x02
	SubcmdInputMode       = 0x03
	SubcmdTriggerTime     = 0x04
	SubcmdShipmentState   = 0x08
	SubcmdSPIRead         = 0x10
	SubcmdNFCIRState      = 0x21
	SubcmdPlayerLights    = 0x30
	SubcmdHomeLight       = 0x38
	SubcmdIMUEnable       = 0x40
	SubcmdIMUSensitivity  = 0x41
	SubcmdVibrationEnable = 0x48
)

// UART ack byte values. A positive ack carrying payload ORs the subcommand id
// into the ack byte.
const (
	uartAckNegative = 0x00
	uartAckPositive = 0x80
)

const (
	// FrameSize is the exact length of every outbound frame: 2 header bytes
	// plus PayloadSize bytes of zero-padded payload.
	FrameSize   = 64
	PayloadSize = 62

	// readChunkSize is the largest inbound read per poll iteration.
	readChunkSize = 128

	// InputBufferSize is the packed button/stick buffer, SensorBufferSize the
	// three-sample six-axis buffer appended to periodic reports.
	InputBufferSize  = 11
	SensorBufferSize = 36
)

// Stick axis range. The wire packs X into the low 12 bits and Y into the high
// 12 bits of a 3-byte little-endian group.
const (
	StickMin     = 0x000
	StickNeutral = 0x800
	StickMax     = 0xFFF
)

// dpsPerDigit is the gyroscope scale: one signed digit is 0.07 degrees/second.
const dpsPerDigit = 0.07

// Input codes accepted by Set. The BUTTON_CAPTUER spelling is a wire-level
// contract inherited from existing key mapping files and is kept as-is.
const (
	CodeButtonA       = "BUTTON_A"
	CodeButtonB       = "BUTTON_B"
	CodeButtonX       = "BUTTON_X"
	CodeButtonY       = "BUTTON_Y"
	CodeButtonL       = "BUTTON_L"
	CodeButtonR       = "BUTTON_R"
	CodeButtonZL      = "BUTTON_ZL"
	CodeButtonZR      = "BUTTON_ZR"
	CodeButtonHome    = "BUTTON_HOME"
	CodeButtonPlus    = "BUTTON_PLUS"
	CodeButtonMinus   = "BUTTON_MINUS"
	CodeButtonCapture = "BUTTON_CAPTUER"

	CodeDpadUp    = "DPAD_UP"
	CodeDpadDown  = "DPAD_DOWN"
	CodeDpadLeft  = "DPAD_LEFT"
	CodeDpadRight = "DPAD_RIGHT"

	CodeLStickUp    = "LSTICK_UP"
	CodeLStickDown  = "LSTICK_DOWN"
	CodeLStickLeft  = "LSTICK_LEFT"
	CodeLStickRight = "LSTICK_RIGHT"
	CodeLStickPress = "LSTICK_PRESS"

	CodeRStickUp    = "RSTICK_UP"
	CodeRStickDown  = "RSTICK_DOWN"
	CodeRStickLeft  = "RSTICK_LEFT"
	CodeRStickRight = "RSTICK_RIGHT"
	CodeRStickPress = "RSTICK_PRESS"
)

var inputCodes = map[string]struct{}{
	CodeButtonA: {}, CodeButtonB: {}, CodeButtonX: {}, CodeButtonY: {},
	CodeButtonL: {}, CodeButtonR: {}, CodeButtonZL: {}, CodeButtonZR: {},
	CodeButtonHome: {}, CodeButtonPlus: {}, CodeButtonMinus: {}, CodeButtonCapture: {},
	CodeDpadUp: {}, CodeDpadDown: {}, CodeDpadLeft: {}, CodeDpadRight: {},
	CodeLStickUp: {}, CodeLStickDown: {}, CodeLStickLeft: {}, CodeLStickRight: {}, CodeLStickPress: {},
	CodeRStickUp: {}, CodeRStickDown: {}, CodeRStickLeft: {}, CodeRStickRight: {}, CodeRStickPress: {},
}

// IsInputCode reports whether code is one of the symbolic input identifiers
// accepted by Set.
func IsInputCode(code string) bool {
	_, ok := inputCodes[code]
	return ok
}

// InputCodes returns all symbolic input identifiers, for config validation
// error messages.
func InputCodes() []string {
	out := make([]string, 0, len(inputCodes))
	for c := range inputCodes {
		out = append(out, c)
	}
	return out
}
