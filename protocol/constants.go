package protocol

// USB identity and endpoints of the XGecu T76.
const (
	// VendorID is the T76 USB vendor ID
	VendorID = 0xA466

	// ProductID is the T76 USB product ID
	ProductID = 0x1A86

	// EndpointOut is the bulk OUT endpoint for commands and data
	EndpointOut = 0x01

	// EndpointIn is the bulk IN endpoint for status responses
	EndpointIn = 0x81
)

// Packet layout constants.
const (
	// PacketSize is the size of a bitstream block packet
	PacketSize = 0x200

	// SubHeaderSize is the size of the command sub-header that opens every packet
	SubHeaderSize = 8

	// MaxPayloadSize is the bitstream payload carried by a full-size block packet
	MaxPayloadSize = PacketSize - SubHeaderSize
)

// Command opcodes.
const (
	// CmdQueryInfo requests the device information report
	CmdQueryInfo = 0x00

	// CmdWriteBitstream streams an FPGA bitstream to the device
	CmdWriteBitstream = 0x26
)

// Write bitstream phases, carried in the second sub-header byte.
const (
	// PhaseBegin announces the total bitstream length
	PhaseBegin = 0x00

	// PhaseBlock carries one chunk of the bitstream
	PhaseBlock = 0x01

	// PhaseEnd finishes the transfer
	PhaseEnd = 0x02
)

// Status codes.
const (
	// StatusSuccess is the only accepted status byte in an acknowledgment
	StatusSuccess = 0x00
)

// Response sizes.
const (
	// QueryInfoResponseSize is the buffer size requested for the device info report
	QueryInfoResponseSize = 80

	// MinDeviceInfoSize is the shortest device info report that can be parsed
	MinDeviceInfoSize = 64

	// BeginResponseSize is the buffer size requested for the begin acknowledgment
	BeginResponseSize = 8

	// EndResponseSize is the buffer size requested for the end acknowledgment
	EndResponseSize = 16

	// MinAckSize is the shortest acknowledgment carrying a status byte
	MinAckSize = 2
)

// Device info status values.
const (
	// ModeNormal means the programmer runs its main firmware
	ModeNormal = 1

	// ModeBootloader means the programmer is in its firmware update bootloader
	ModeBootloader = 2
)
