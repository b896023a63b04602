package bitstream

import (
	"bytes"
	"encoding/binary"
	"io"
	"strings"
)

// Container layout constants.
const (
	// LengthFieldSize is the size of the bit-length prefix before each block
	LengthFieldSize = 2

	// BlockHeaderSize is the size of a command record header: Cmd, Flag, Size(2)
	BlockHeaderSize = 4
)

// HeaderTerminator ends the ASCII header section of a .bit file.
var HeaderTerminator = []byte{0x0A, 0x0A}

// SplitHeader separates the ASCII header from the framed block section.
// The header text excludes the terminator; invalid UTF-8 is replaced.
func SplitHeader(data []byte) (header string, body []byte, err error) {
	idx := bytes.Index(data, HeaderTerminator)
	if idx < 0 {
		return "", nil, ErrNoHeaderTerminator
	}

	header = strings.ToValidUTF8(string(data[:idx]), "�")
	return header, data[idx+len(HeaderTerminator):], nil
}

// BlockReader yields the framed blocks of a .bit body in order.
// It is not restartable; create a new reader to walk the body again.
type BlockReader struct {
	data  []byte
	off   int
	count int
}

// NewBlockReader returns a reader over the block section that follows the header.
func NewBlockReader(body []byte) *BlockReader {
	return &BlockReader{data: body}
}

// Next returns the next block. The returned slice aliases the input.
//
// Next returns io.EOF once fewer than LengthFieldSize bytes remain, a
// *TruncatedBlockError when a block runs past the end of the input and an
// *UnalignedBlockError when its bit length is not a multiple of 8.
func (r *BlockReader) Next() ([]byte, error) {
	if r.off+LengthFieldSize > len(r.data) {
		return nil, io.EOF
	}

	bits := binary.BigEndian.Uint16(r.data[r.off:])
	r.off += LengthFieldSize
	r.count++

	if bits%bitsPerByte != 0 {
		return nil, &UnalignedBlockError{Block: r.count, Bits: bits}
	}

	size := int(bits / bitsPerByte)
	if r.off+size > len(r.data) {
		return nil, &TruncatedBlockError{
			Block:     r.count,
			Declared:  size,
			Available: len(r.data) - r.off,
		}
	}

	block := r.data[r.off : r.off+size : r.off+size]
	r.off += size
	return block, nil
}

// Count returns the 1-based number of the most recently read block.
func (r *BlockReader) Count() int {
	return r.count
}
