// Package procon emulates a Nintendo Switch Pro Controller on the device side
// of a USB HID gadget channel. The Controller answers the console's handshake
// and subcommand requests, serves simulated SPI calibration reads and emits
// periodic input reports built from an Input state that external adapters
// mutate at arbitrary rates.
package procon

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sys/unix"

	"github.com/Pedgin/NS-ProCon-Converter/gadget"
	"github.com/Pedgin/NS-ProCon-Converter/internal/log"
)

const (
	// tickInterval is the base scheduler period. The packet counter advances
	// every tick; an input report goes out every reportDivider ticks, which is
	// also the period fed into Dot2DPS.
	tickInterval  = 5 * time.Millisecond
	reportDivider = 3

	// DefaultReportSec is reportDivider * tickInterval expressed in seconds.
	DefaultReportSec = 0.015

	// pollInterval is the reader backoff after a would-block read.
	pollInterval = 500 * time.Microsecond
)

// Conn is the full-duplex byte channel to the HID gadget device node. Reads
// and writes are non-blocking; a would-block condition surfaces as an error
// matching unix.EAGAIN.
type Conn interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Close() error
}

// Options configures a Controller. The zero value of every field selects a
// sensible default.
type Options struct {
	// Logger receives protocol events. Defaults to slog.Default().
	Logger *slog.Logger

	// Raw receives hex dumps of every frame crossing the channel.
	// Defaults to a no-op logger.
	Raw log.RawLogger

	// ReportSec is the seconds between periodic input reports as seen by the
	// gyro conversion. Defaults to DefaultReportSec.
	ReportSec float64

	// ApplySens names the gyro axes subject to dot-to-DPS conversion, a
	// subset of {"gyrox", "gyroy", "gyroz"}. Axes not named pass through as
	// raw accumulator values.
	ApplySens []string

	// Dial opens the byte channel for a device node path. Defaults to opening
	// the path as a non-blocking HID gadget node.
	Dial func(path string) (Conn, error)
}

// Controller is one emulated Pro Controller bound to a gadget device node. It
// stays dormant until StartConnect and owns its channel and Input exclusively.
type Controller struct {
	path      string
	logger    *slog.Logger
	raw       log.RawLogger
	dial      func(path string) (Conn, error)
	reportSec float64
	applySens SensorAxesFlags

	// Input is the controller state fed by external adapters.
	Input *Input

	count           atomic.Uint32
	stopCounter     atomic.Bool
	stopInput       atomic.Bool
	stopCommunicate atomic.Bool

	mu         sync.Mutex // guards conn and tickerStop across lifecycle calls
	conn       Conn
	tickerStop chan struct{}
	wg         sync.WaitGroup

	writeMu sync.Mutex

	errOnce sync.Once
	errCh   chan error
}

// New returns a dormant Controller bound to the device node path.
func New(path string, o *Options) (*Controller, error) {
	c := &Controller{
		path:      path,
		logger:    slog.Default(),
		raw:       log.NewRaw(nil),
		reportSec: DefaultReportSec,
		Input:     NewInput(),
		errCh:     make(chan error, 1),
		dial: func(p string) (Conn, error) {
			return gadget.Open(p)
		},
	}
	c.stopCounter.Store(true)
	c.stopInput.Store(true)
	c.stopCommunicate.Store(true)

	if o != nil {
		if o.Logger != nil {
			c.logger = o.Logger
		}
		if o.Raw != nil {
			c.raw = o.Raw
		}
		if o.ReportSec > 0 {
			c.reportSec = o.ReportSec
		}
		if o.Dial != nil {
			c.dial = o.Dial
		}
		apply, err := ParseApplySens(o.ApplySens)
		if err != nil {
			return nil, err
		}
		c.applySens = apply
	}
	return c, nil
}

// ParseApplySens converts axis names into SensorAxesFlags. Valid names are
// gyrox, gyroy and gyroz.
func ParseApplySens(names []string) (SensorAxesFlags, error) {
	var f SensorAxesFlags
	for _, n := range names {
		switch strings.ToLower(strings.TrimSpace(n)) {
		case "gyrox":
			f.GyroX = true
		case "gyroy":
			f.GyroY = true
		case "gyroz":
			f.GyroZ = true
		case "":
		default:
			return f, fmt.Errorf("unknown sensor axis %q (valid: gyrox, gyroy, gyroz)", n)
		}
	}
	return f, nil
}

// Set applies one symbolic input update to the controller state.
func (c *Controller) Set(code string, value int) {
	c.Input.Set(code, value)
}

// AddGyro accumulates raw pointer dots into the gyro accumulators.
func (c *Controller) AddGyro(x, y, z int64) {
	c.Input.Sensor.Gyro.Add(x, y, z)
}

// Err yields the first hard channel failure. The channel never closes; a
// failed controller delivers exactly one error.
func (c *Controller) Err() <-chan error {
	return c.errCh
}

// Counter returns the current packet counter value.
func (c *Controller) Counter() uint8 {
	return uint8(c.count.Load())
}

// StartConnect opens the gadget channel and starts the scheduler and the
// reader. It returns immediately and is a no-op when already connected.
// Periodic input reports stay disabled until the host finishes the USB
// handshake with the 0x80/0x04 request.
func (c *Controller) StartConnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		return nil
	}

	conn, err := c.dial(c.path)
	if err != nil {
		return fmt.Errorf("open gadget %s: %w", c.path, err)
	}
	c.writeMu.Lock()
	c.conn = conn
	c.writeMu.Unlock()
	c.stopCounter.Store(false)
	c.stopCommunicate.Store(false)
	c.tickerStop = make(chan struct{})

	c.wg.Add(2)
	go c.runTicker(c.tickerStop)
	go c.runReader(conn)

	c.logger.Info("connection started", "path", c.path)
	return nil
}

// Disconnect tells the host the controller is going away: three subcommand
// frames carrying an 0x80/0x30 acknowledgment tail, with the byte at payload
// offset 10 rewritten to 0x0a and then 0x09 for the second and third frame.
// The channel stays open; call Close afterwards.
func (c *Controller) Disconnect() {
	payload := append(c.Input.InputBuffer(), 0x80, 0x30)
	c.write(ReportIDUARTReply, c.Counter(), payload)
	payload[10] = 0x0a
	c.write(ReportIDUARTReply, c.Counter(), payload)
	payload[10] = 0x09
	c.write(ReportIDUARTReply, c.Counter(), payload)
	c.logger.Info("disconnect sequence sent")
}

// Close stops the scheduler and the reader, then closes the channel. The
// ticker is always down before the channel closes so no write can land on a
// closed handle. Safe to call when already closed.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}

	c.stopCounter.Store(true)
	c.stopInput.Store(true)
	c.stopCommunicate.Store(true)
	close(c.tickerStop)
	c.wg.Wait()

	c.writeMu.Lock()
	err := c.conn.Close()
	c.conn = nil
	c.writeMu.Unlock()
	return err
}

// runTicker drives the 5 ms scheduler: every tick advances the packet
// counter, every reportDivider-th tick emits one periodic input report.
func (c *Controller) runTicker(stop <-chan struct{}) {
	defer c.wg.Done()
	t := time.NewTicker(tickInterval)
	defer t.Stop()

	tick := 0
	for {
		select {
		case <-t.C:
			if !c.stopCounter.Load() {
				c.count.Add(1)
			}
			tick++
			if tick == reportDivider {
				tick = 0
				if !c.stopInput.Load() {
					c.inputReport()
				}
			}
		case <-stop:
			return
		}
	}
}

// inputReport emits one unsolicited 0x30 report: input buffer followed by the
// six-axis buffer, draining the sensor accumulators.
func (c *Controller) inputReport() {
	payload := append(c.Input.InputBuffer(), c.Input.SensorBuffer(c.applySens, c.reportSec)...)
	c.write(ReportIDInput, c.Counter(), payload)
}

// runReader polls the channel and dispatches every inbound frame. It exits
// when stopCommunicate is set; a hard read failure is fatal to the session.
func (c *Controller) runReader(conn Conn) {
	defer c.wg.Done()
	buf := make([]byte, readChunkSize)
	for !c.stopCommunicate.Load() {
		n, err := conn.Read(buf)
		if err != nil {
			if errors.Is(err, unix.EAGAIN) {
				time.Sleep(pollInterval)
				continue
			}
			c.fail(fmt.Errorf("gadget read: %w", err))
			return
		}
		if n == 0 {
			time.Sleep(pollInterval)
			continue
		}
		c.raw.Log(true, buf[:n])
		c.dispatch(buf[:n])
	}
}

// uart sends one subcommand reply. The payload always leads with the current
// input buffer; the ack byte is 0x00 for a negative ack, 0x80 for a positive
// ack without payload, and 0x80|subCmd for a positive ack with payload.
func (c *Controller) uart(ack bool, subCmd byte, data []byte) {
	ackByte := byte(uartAckNegative)
	if ack {
		ackByte = uartAckPositive
		if len(data) > 0 {
			ackByte |= subCmd
		}
	}
	payload := append(c.Input.InputBuffer(), ackByte, subCmd)
	payload = append(payload, data...)
	c.write(ReportIDUARTReply, c.Counter(), payload)
}

// write frames and sends one 64-byte report: [ack, cmd] then the payload,
// zero-padded. A would-block write drops the frame; the host recovers from
// dropped reports via the counter, but not from partial frames, so any other
// write failure is fatal to the session.
func (c *Controller) write(ack, cmd byte, payload []byte) {
	frame := make([]byte, FrameSize)
	frame[0] = ack
	frame[1] = cmd
	copy(frame[2:], payload)

	c.writeMu.Lock()
	conn := c.conn
	if conn == nil {
		c.writeMu.Unlock()
		return
	}
	_, err := conn.Write(frame)
	c.writeMu.Unlock()

	if err != nil {
		if errors.Is(err, unix.EAGAIN) {
			return
		}
		c.fail(fmt.Errorf("gadget write: %w", err))
		return
	}
	c.raw.Log(false, frame)
}

// fail records the first hard channel failure, freezes all periodic work and
// wakes the lifecycle owner through Err.
func (c *Controller) fail(err error) {
	c.errOnce.Do(func() {
		c.logger.Error("channel failure", "error", err)
		c.stopCounter.Store(true)
		c.stopInput.Store(true)
		c.stopCommunicate.Store(true)
		c.errCh <- err
	})
}
