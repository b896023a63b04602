package uploader

import "errors"

var (
	// ErrBootloaderMode is returned when the programmer reports bootloader mode.
	ErrBootloaderMode = errors.New("T76 is in bootloader mode")

	// ErrEmptyBitstream is returned when Upload is called without data.
	ErrEmptyBitstream = errors.New("bitstream cannot be empty")
)
