package converter

import (
	"errors"
	"fmt"
)

// ErrEmptyCapture is returned when the input holds no complete packet.
var ErrEmptyCapture = errors.New("capture contains no complete packet")

// FormatError represents a packet buffer not aligned to the record size.
type FormatError struct {
	Length     int
	PacketSize int
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("buffer of %d bytes is not a multiple of the %d byte packet size", e.Length, e.PacketSize)
}

// NamingError represents an input filename that does not follow the
// capture naming pattern.
type NamingError struct {
	Filename string
	Reason   string
}

func (e *NamingError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("filename not matched, ignoring file %q: %s", e.Filename, e.Reason)
	}
	return fmt.Sprintf("filename not matched, ignoring file %q", e.Filename)
}

// IOError represents a failure reading the input or producing the output.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("error %s %q: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// ChannelError represents a request for a channel the device does not have.
type ChannelError struct {
	Device  string
	Channel string
}

func (e *ChannelError) Error() string {
	return fmt.Sprintf("device %s has no channel %s", e.Device, e.Channel)
}
