package bitstream

import "encoding/binary"

// CRC-16/BUYPASS parameters.
const (
	// CRC16Polynomial is the BUYPASS generator polynomial
	CRC16Polynomial = 0x8005

	// CRC16InitialValue is the register value before the first byte
	CRC16InitialValue = 0x0000

	// CRC16HighBitMask selects the bit shifted out on each round
	CRC16HighBitMask = 0x8000

	// CRCSize is the size of a trailing block checksum in bytes
	CRCSize = 2

	bitsPerByte = 8
)

// CRC16Buypass computes the CRC-16/BUYPASS checksum of data.
//
// Parameters: polynomial 0x8005, initial value 0x0000, MSB first,
// no input or output reflection and no final XOR.
func CRC16Buypass(data []byte) uint16 {
	var crc uint16 = CRC16InitialValue

	for _, b := range data {
		crc ^= uint16(b) << bitsPerByte
		for i := 0; i < bitsPerByte; i++ {
			if crc&CRC16HighBitMask != 0 {
				crc = (crc << 1) ^ CRC16Polynomial
			} else {
				crc <<= 1
			}
		}
	}

	return crc
}

// ValidateBlockCRC checks the trailing big-endian checksum of block against
// the CRC of the bytes before it.
//
// It returns ErrBlockTooShort when the block cannot hold a checksum and a
// *ChecksumError on mismatch. Callers treat any non-nil result as fatal.
func ValidateBlockCRC(block []byte) error {
	if len(block) < CRCSize {
		return ErrBlockTooShort
	}

	expected := binary.BigEndian.Uint16(block[len(block)-CRCSize:])
	computed := CRC16Buypass(block[:len(block)-CRCSize])

	if computed != expected {
		return &ChecksumError{Frame: -1, Expected: expected, Computed: computed}
	}

	return nil
}
