package log

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// RawLogger records raw frames crossing the gadget channel.
type RawLogger interface {
	Log(in bool, data []byte)
}

// NewRaw creates a RawLogger writing one line per frame. A nil writer
// returns a no-op logger so callers never need to guard their Log calls.
func NewRaw(w io.Writer) RawLogger {
	return &rawLogger{w: w}
}

type rawLogger struct {
	w  io.Writer
	mu sync.Mutex
}

// Log emits one line per frame: a millisecond timestamp (the report cadence
// is 5 ms, second resolution would collapse runs of frames), a direction
// marker (">>>" host to controller, "<<<" controller to host), the decoded
// report kind and the frame bytes.
func (r *rawLogger) Log(in bool, data []byte) {
	if r.w == nil || len(data) == 0 {
		return
	}

	dir := "<<<"
	if in {
		dir = ">>>"
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = fmt.Fprintf(r.w, "%s %s %-6s % x\n",
		time.Now().Format("15:04:05.000"), dir, frameKind(in, data[0]), data)
}

// frameKind names a frame by its leading report byte. The same byte value
// means different things per direction (0x01 is a subcommand inbound but
// would be unknown outbound), so the direction picks the table.
func frameKind(in bool, id byte) string {
	if in {
		switch id {
		case 0x80:
			return "usb"
		case 0x01:
			return "subcmd"
		case 0x00, 0x10:
			return "rumble"
		}
	} else {
		switch id {
		case 0x30:
			return "input"
		case 0x21:
			return "ack"
		case 0x81:
			return "usb"
		}
	}
	return fmt.Sprintf("0x%02x", id)
}
