package bitstream

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

const (
	// SignatureBlocks is the number of blocks forming the start-of-file signature
	SignatureBlocks = 3

	// MarkerSize is the length of an all-0xFF sync/EOF marker block
	MarkerSize = 16
)

var (
	// StartSignature is the third signature block
	StartSignature = []byte{0xCC, 0x55, 0xAA, 0x33}

	// Marker is the 16-byte all-0xFF block used for sync and EOF detection
	Marker = bytes.Repeat([]byte{0xFF}, MarkerSize)
)

// IsSignature reports whether blocks is exactly the start-of-file signature.
func IsSignature(blocks [][]byte) bool {
	return len(blocks) == SignatureBlocks &&
		bytes.Equal(blocks[0], Marker) &&
		bytes.Equal(blocks[1], Marker) &&
		bytes.Equal(blocks[2], StartSignature)
}

// ReadSignature reads the first three blocks from r and returns them if they
// form the start-of-file signature. The blocks are not interpreted as commands.
func ReadSignature(r *BlockReader) ([][]byte, error) {
	blocks := make([][]byte, 0, SignatureBlocks)
	for len(blocks) < SignatureBlocks {
		block, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read signature: %w", err)
		}
		blocks = append(blocks, block)
	}

	if !IsSignature(blocks) {
		return nil, ErrBadSignature
	}
	return blocks, nil
}
