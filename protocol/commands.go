package protocol

import (
	"encoding/binary"
	"fmt"
	"math"
)

// BuildQueryInfoCmd constructs the device info request: eight zero bytes.
func BuildQueryInfoCmd() []byte {
	return make([]byte, SubHeaderSize)
}

// BuildBeginCmd constructs the packet that opens a bitstream transfer.
//
// Packet structure (little-endian):
//
//	[OPCODE][PHASE][PACKET_SIZE(2)][TOTAL_LEN(4)]
func BuildBeginCmd(totalLen int) ([]byte, error) {
	if totalLen <= 0 {
		return nil, fmt.Errorf("bitstream cannot be empty")
	}
	if uint64(totalLen) > math.MaxUint32 {
		return nil, fmt.Errorf("bitstream length %d exceeds maximum %d bytes", totalLen, uint32(math.MaxUint32))
	}

	packet := make([]byte, SubHeaderSize)
	packet[0] = CmdWriteBitstream
	packet[1] = PhaseBegin
	binary.LittleEndian.PutUint16(packet[2:4], PacketSize)
	binary.LittleEndian.PutUint32(packet[4:8], uint32(totalLen))

	return packet, nil
}

// BuildBlockCmd constructs a full-size packet carrying one bitstream chunk.
// The chunk is zero-padded to PacketSize.
//
// Packet structure (little-endian):
//
//	[OPCODE][PHASE][CHUNK_LEN(2)][RESERVED(4)][CHUNK...][PADDING...]
func BuildBlockCmd(chunk []byte) ([]byte, error) {
	if len(chunk) == 0 {
		return nil, fmt.Errorf("chunk cannot be empty")
	}
	if len(chunk) > MaxPayloadSize {
		return nil, fmt.Errorf("chunk length %d exceeds maximum %d bytes", len(chunk), MaxPayloadSize)
	}

	packet := make([]byte, PacketSize)
	packet[0] = CmdWriteBitstream
	packet[1] = PhaseBlock
	binary.LittleEndian.PutUint16(packet[2:4], uint16(len(chunk)))
	copy(packet[SubHeaderSize:], chunk)

	return packet, nil
}

// BuildEndCmd constructs the packet that closes a bitstream transfer.
//
// Packet structure:
//
//	[OPCODE][PHASE][RESERVED(6)]
func BuildEndCmd() []byte {
	packet := make([]byte, SubHeaderSize)
	packet[0] = CmdWriteBitstream
	packet[1] = PhaseEnd
	return packet
}
