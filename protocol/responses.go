package protocol

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// ParseAck checks the status byte of a begin or end acknowledgment.
// A non-zero status is returned as a *ProtocolError for operation.
func ParseAck(operation string, resp []byte) error {
	if len(resp) < MinAckSize {
		return fmt.Errorf("%s: acknowledgment too short: got %d bytes, minimum is %d",
			operation, len(resp), MinAckSize)
	}

	if resp[1] != StatusSuccess {
		return &ProtocolError{Operation: operation, StatusCode: resp[1]}
	}

	return nil
}

// ParseDeviceInfo parses the device info report.
//
// Report layout:
//
//	[0:4]   reserved
//	[4]     firmware minor, zero in bootloader mode
//	[5]     firmware major
//	[8:24]  manufacture date (NUL padded)
//	[24:32] device code (NUL padded)
//	[32:56] serial number (NUL padded)
//	[56:60] supply voltage in mV (little-endian)
//	[60]    USB speed code
//	[62]    external power flag
func ParseDeviceInfo(msg []byte) (*DeviceInfo, error) {
	if len(msg) < MinDeviceInfoSize {
		return nil, fmt.Errorf("incomplete device info response: got %d bytes, minimum is %d",
			len(msg), MinDeviceInfoSize)
	}

	mode := ModeNormal
	if msg[4] == 0 {
		mode = ModeBootloader
	}

	info := &DeviceInfo{
		Model:           "T76",
		Mode:            mode,
		ManufactureDate: cString(msg[8:24]),
		DeviceCode:      cString(msg[24:32]),
		Serial:          cString(msg[32:56]),
		Firmware:        fmt.Sprintf("%02d.%d.%02d", 0, msg[5], msg[4]),
		SupplyVoltage:   float64(binary.LittleEndian.Uint32(msg[56:60])) / 1000.0,
		USBSpeed:        msg[60],
		ExternalPower:   msg[62] != 0,
	}

	return info, nil
}

// cString returns b up to its trailing NUL padding, dropping invalid UTF-8.
func cString(b []byte) string {
	b = bytes.TrimRight(b, "\x00")
	return string(bytes.ToValidUTF8(b, nil))
}
