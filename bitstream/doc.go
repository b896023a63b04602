// Package bitstream converts Anlogic TD .bit containers into the stripped
// byte stream accepted by the XGecu T76 programmer.
//
// # Container Format
//
// A .bit file starts with a free-text ASCII header terminated by two
// consecutive newlines (0x0A 0x0A). The rest of the file is a sequence of
// framed blocks:
//
//	[BitLen(2, big-endian)][Block(BitLen/8 bytes)]
//
// The first three blocks form the start-of-file signature:
//
//	FF FF FF FF FF FF FF FF FF FF FF FF FF FF FF FF
//	FF FF FF FF FF FF FF FF FF FF FF FF FF FF FF FF
//	CC 55 AA 33
//
// Every later block is read as a command record:
//
//	[Cmd(1)][Flag(1)][Size(2, big-endian)][Payload(Size)]
//
// Some records end with a CRC-16/BUYPASS over all preceding bytes of the block.
//
// # Filtering
//
// The [Filter] walks the command records in order and decides whether each
// block is kept, dropped or aborts the conversion. Kept blocks are written
// without their length prefix and the output is padded to an even length.
//
//	res, err := bitstream.ConvertFile("design.bit", "design.t76")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Device ID: 0x%s, %d bytes\n", res.DeviceID, len(res.Data))
//
// # Error Handling
//
// Checksum mismatches, a missing signature or header terminator and
// truncated blocks are fatal and no output is written. Size mismatches and
// out-of-order frame data only drop the offending block; they are reported
// through the [Logger] and collected in [Result.Warnings].
package bitstream
