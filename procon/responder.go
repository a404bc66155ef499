package procon

// dispatch routes one inbound frame by its leading byte. Rumble-only output
// reports (0x00, 0x10) carry nothing the emulator supports and are dropped;
// the host reads silence as "feature ignored", not as an error.
func (c *Controller) dispatch(buf []byte) {
	if len(buf) == 0 {
		return
	}
	switch buf[0] {
	case ReportIDUSBRequest:
		c.handleUSB(buf)
	case ReportIDUARTRequest:
		c.handleUART(buf)
	case 0x00, ReportIDRumbleOnly:
	default:
		c.logger.Debug("unknown request", "report", buf[0])
	}
}

// handleUSB answers the 0x80 handshake family. The selector is echoed as the
// reply's cmd byte.
func (c *Controller) handleUSB(buf []byte) {
	if len(buf) < 2 {
		return
	}
	switch buf[1] {
	case USBCmdConnStatus:
		// Controller MAC/type report.
		c.write(ReportIDUSBReply, buf[1], []byte{0x00, 0x03, 0x00, 0x00, 0x5e, 0x00, 0x53, 0x5e})
	case USBCmdHandshake, USBCmdBaudRate:
		c.write(ReportIDUSBReply, buf[1], nil)
	case USBCmdHIDEnable:
		c.logger.Info("input report started")
		c.stopInput.Store(false)
	default:
		c.logger.Debug("unknown usb request", "cmd", buf[1])
	}
}

// handleUART answers the 0x01 subcommand family. The subcommand id sits at
// byte 10, arguments from byte 11. Unknown subcommands draw no reply.
func (c *Controller) handleUART(buf []byte) {
	if len(buf) < 11 {
		return
	}
	subCmd := buf[10]
	switch subCmd {
	case SubcmdPairing:
		c.uart(true, subCmd, []byte{0x03, 0x01})
	case SubcmdDeviceInfo:
		c.uart(true, subCmd, []byte{0x03, 0x48, 0x03, 0x02, 0x5e, 0x53, 0x00, 0x5e, 0x00, 0x00, 0x03, 0x01})
	case SubcmdInputMode, SubcmdTriggerTime, SubcmdShipmentState,
		SubcmdPlayerLights, SubcmdHomeLight, SubcmdIMUEnable,
		SubcmdIMUSensitivity, SubcmdVibrationEnable:
		c.uart(true, subCmd, nil)
	case SubcmdSPIRead:
		c.handleSPIRead(buf)
	case SubcmdNFCIRState:
		c.uart(true, subCmd, []byte{0x01, 0x00, 0xff, 0x00, 0x03, 0x00, 0x05, 0x01})
	default:
		c.logger.Debug("unknown uart subcommand", "subcmd", subCmd)
	}
}

// handleSPIRead serves subcommand 0x10. Arguments: byte 11 low address within
// the page, byte 12 page, bytes 13-14 echoed reserved bytes, byte 15 length.
// The reply payload echoes bytes 11..15 followed by the ROM slice. An unknown
// page draws a negative ack; a read past the end of a page is malformed and
// draws nothing.
func (c *Controller) handleSPIRead(buf []byte) {
	if len(buf) < 16 {
		return
	}
	offset, page, length := buf[11], buf[12], buf[15]

	data, ok := spiRead(page, offset, length)
	if !ok {
		c.uart(false, SubcmdSPIRead, nil)
		c.logger.Debug("unknown spi page", "page", page, "length", length)
		return
	}
	if data == nil {
		c.logger.Debug("spi read out of range", "page", page, "offset", offset, "length", length)
		return
	}

	payload := make([]byte, 0, 5+len(data))
	payload = append(payload, buf[11:16]...)
	payload = append(payload, data...)
	c.uart(true, SubcmdSPIRead, payload)
	c.logger.Debug("spi read", "page", page, "offset", offset, "length", length)
}
