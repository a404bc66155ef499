// Package gadget opens and drives the Linux USB HID gadget device node that
// carries the controller's report traffic, and manages the configfs side of
// the gadget (UDC binding).
package gadget

import (
	"os"
	"sync"

	"golang.org/x/sys/unix"
)

// Device is a non-blocking full-duplex handle on a /dev/hidgN node. Reads
// and writes that would block return an error matching unix.EAGAIN.
type Device struct {
	path string

	mu sync.Mutex
	fd int
}

// Open opens the device node read/write and non-blocking.
func Open(path string) (*Device, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, &os.PathError{Op: "open", Path: path, Err: err}
	}
	return &Device{path: path, fd: fd}, nil
}

// Path returns the device node path the handle was opened on.
func (d *Device) Path() string {
	return d.path
}

// Read reads up to len(p) bytes from the node.
func (d *Device) Read(p []byte) (int, error) {
	d.mu.Lock()
	fd := d.fd
	d.mu.Unlock()
	if fd < 0 {
		return 0, os.ErrClosed
	}
	n, err := unix.Read(fd, p)
	if err != nil {
		return 0, &os.PathError{Op: "read", Path: d.path, Err: err}
	}
	return n, nil
}

// Write writes p to the node in a single syscall.
func (d *Device) Write(p []byte) (int, error) {
	d.mu.Lock()
	fd := d.fd
	d.mu.Unlock()
	if fd < 0 {
		return 0, os.ErrClosed
	}
	n, err := unix.Write(fd, p)
	if err != nil {
		return 0, &os.PathError{Op: "write", Path: d.path, Err: err}
	}
	return n, nil
}

// Close releases the file descriptor. Safe to call twice.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fd < 0 {
		return nil
	}
	err := unix.Close(d.fd)
	d.fd = -1
	if err != nil {
		return &os.PathError{Op: "close", Path: d.path, Err: err}
	}
	return nil
}
