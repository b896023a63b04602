package protocol

// DeviceInfo is the identification report returned by the query info command.
type DeviceInfo struct {
	// Model is the programmer model name
	Model string

	// Mode is ModeNormal or ModeBootloader
	Mode int

	// DeviceCode is the programmer device code
	DeviceCode string

	// Serial is the programmer serial number
	Serial string

	// ManufactureDate is empty when the device does not report one
	ManufactureDate string

	// Firmware is the firmware version, formatted as HH.MM.mm
	Firmware string

	// SupplyVoltage is the measured supply voltage in volts, zero if unknown
	SupplyVoltage float64

	// USBSpeed is the raw USB speed code
	USBSpeed byte

	// ExternalPower is set when the programmer is powered externally
	ExternalPower bool
}

// InBootloader reports whether the programmer is in bootloader mode.
func (d *DeviceInfo) InBootloader() bool {
	return d.Mode == ModeBootloader
}

// SpeedDescription returns a human-readable USB link speed.
func (d *DeviceInfo) SpeedDescription() string {
	switch d.USBSpeed {
	case 0:
		return "12 Mbps (USB 1.1)"
	case 3:
		return "5 Gbps (USB 3.0)"
	default:
		return "480 Mbps (USB 2.0)"
	}
}

// PowerSource returns "External" or "USB".
func (d *DeviceInfo) PowerSource() string {
	if d.ExternalPower {
		return "External"
	}
	return "USB"
}
