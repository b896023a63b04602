package bitstream

import (
	"errors"
	"fmt"
)

var (
	// ErrNoHeaderTerminator is returned when the 0x0A 0x0A header terminator is missing.
	ErrNoHeaderTerminator = errors.New("header terminator (0x0A 0x0A) not found")

	// ErrBadSignature is returned when the first three blocks are not the start-of-file signature.
	ErrBadSignature = errors.New("start-of-file signature not found")

	// ErrBlockTooShort is returned when a block is too short to contain a CRC.
	ErrBlockTooShort = errors.New("block too short to contain CRC")
)

// ChecksumError indicates that a block's trailing CRC-16 does not match its contents.
type ChecksumError struct {
	// Block is the 1-based block number, zero when unknown
	Block int

	// Frame is the frame index for frame payload blocks, -1 otherwise
	Frame int

	Expected uint16
	Computed uint16
}

func (e *ChecksumError) Error() string {
	msg := fmt.Sprintf("CRC mismatch: expected 0x%04X, got 0x%04X", e.Expected, e.Computed)
	switch {
	case e.Block > 0 && e.Frame >= 0:
		return fmt.Sprintf("block %d: frame %d: %s", e.Block, e.Frame, msg)
	case e.Block > 0:
		return fmt.Sprintf("block %d: %s", e.Block, msg)
	default:
		return msg
	}
}

// TruncatedBlockError indicates that a block extends past the end of the input.
type TruncatedBlockError struct {
	Block     int
	Declared  int
	Available int
}

func (e *TruncatedBlockError) Error() string {
	return fmt.Sprintf("block %d: unexpected end of file: need %d bytes, %d available",
		e.Block, e.Declared, e.Available)
}

// UnalignedBlockError indicates a block length field that is not a whole number of bytes.
type UnalignedBlockError struct {
	Block int
	Bits  uint16
}

func (e *UnalignedBlockError) Error() string {
	return fmt.Sprintf("block %d: length of %d bits is not a multiple of 8", e.Block, e.Bits)
}

// blockError attaches block and frame numbers to a checksum failure.
func blockError(err error, block, frame int) error {
	var ce *ChecksumError
	if errors.As(err, &ce) {
		ce.Block = block
		ce.Frame = frame
		return ce
	}
	return fmt.Errorf("block %d: %w", block, err)
}
