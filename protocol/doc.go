// Package protocol implements the XGecu T76 bulk transfer protocol used to
// load an FPGA bitstream.
//
// # Protocol Overview
//
// Commands go to bulk endpoint 0x01 and status reports come back on 0x81.
// Every command opens with an 8-byte sub-header:
//
//	[OPCODE][PHASE][LEN_L][LEN_H][VAL0][VAL1][VAL2][VAL3]
//
// A bitstream upload is three phases of the write bitstream opcode (0x26):
//
//	Begin: [26][00][PACKET_SIZE(2)][TOTAL_LEN(4)]          -> 8-byte ack
//	Block: [26][01][CHUNK_LEN(2)][00 00 00 00][CHUNK...]   (PacketSize bytes, repeated)
//	End:   [26][02][00 00 00 00 00 00]                     -> 16-byte ack
//
// All multi-byte fields are little-endian. An acknowledgment whose second
// byte is non-zero is a rejection.
//
// # Command Builders
//
//	begin, err := protocol.BuildBeginCmd(len(bitstream))
//	block, err := protocol.BuildBlockCmd(bitstream[:protocol.MaxPayloadSize])
//	end := protocol.BuildEndCmd()
//
// # Response Parsers
//
//	if err := protocol.ParseAck("begin bitstream", resp); err != nil {
//	    return err
//	}
//	info, err := protocol.ParseDeviceInfo(report)
//
// # Error Handling
//
// Rejections are returned as *ProtocolError:
//
//	// err.Error() returns: "begin bitstream failed: device rejected command (status 0x01)"
package protocol
