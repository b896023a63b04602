package bitstream

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
)

// Command codes of the block records understood by the filter.
const (
	// CmdDeviceID carries the target device identifier
	CmdDeviceID = 0xF0

	// CmdResetCRC resets the device-side CRC; only the first one is kept
	CmdResetCRC = 0xF1

	// CmdUnknown1 is not needed by the T76 and always dropped
	CmdUnknown1 = 0xF3

	// CmdUnknown2 is not needed by the T76 and always dropped
	CmdUnknown2 = 0xF5

	// CmdEndData marks the end of a data segment and re-arms EOF detection
	CmdEndData = 0xF7

	// CmdFrameInfo declares the frame count and frame size
	CmdFrameInfo = 0xC7

	// CmdFrameData announces the frame payload blocks that follow
	CmdFrameData = 0xEC
)

// PaddingSize is the trailer allowance added to a skipped frame data region.
const PaddingSize = 19

// Record is a block interpreted as a command record.
type Record struct {
	Command byte
	Flag    byte

	// Size is the declared payload size
	Size int

	// Payload is everything after the 4-byte record header
	Payload []byte
}

// ParseRecord interprets block as a command record. The block must be at
// least BlockHeaderSize bytes long.
func ParseRecord(block []byte) Record {
	return Record{
		Command: block[0],
		Flag:    block[1],
		Size:    int(binary.BigEndian.Uint16(block[2:4])),
		Payload: block[BlockHeaderSize:],
	}
}

// SizeMatches reports whether the payload length equals the declared size.
func (r Record) SizeMatches() bool {
	return len(r.Payload) == r.Size
}

// CommandName returns a human-readable name for a command code.
func CommandName(cmd byte) string {
	switch cmd {
	case CmdDeviceID:
		return "device ID"
	case CmdResetCRC:
		return "reset CRC"
	case CmdUnknown1, CmdUnknown2:
		return "unknown"
	case CmdEndData:
		return "end of data"
	case CmdFrameInfo:
		return "frame info"
	case CmdFrameData:
		return "frame data"
	default:
		return fmt.Sprintf("command 0x%02X", cmd)
	}
}

// uintBE reads b as a big-endian unsigned integer. Bytes past the eighth are ignored.
func uintBE(b []byte) int {
	var v int
	for i := 0; i < len(b) && i < 8; i++ {
		v = v<<8 | int(b[i])
	}
	return v
}

// formatDeviceID renders b as an upper-case hexadecimal number without
// leading zeros, left-padded to an even digit count.
func formatDeviceID(b []byte) string {
	digits := strings.TrimLeft(strings.ToUpper(hex.EncodeToString(b)), "0")
	if digits == "" {
		digits = "0"
	}
	if len(digits)%2 != 0 {
		digits = "0" + digits
	}
	return digits
}
