package protocol

import (
	"errors"
	"fmt"
)

// ProtocolError represents a non-zero status in a device acknowledgment.
type ProtocolError struct {
	// Operation is the command that failed
	Operation string

	// StatusCode is the status byte from the acknowledgment
	StatusCode byte
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s failed: device rejected command (status 0x%02X)", e.Operation, e.StatusCode)
}

// IsProtocolError returns true if the error is or wraps a ProtocolError.
func IsProtocolError(err error) bool {
	var pe *ProtocolError
	return errors.As(err, &pe)
}
