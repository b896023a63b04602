// Package uploader streams a converted bitstream to an XGecu T76 programmer.
//
// # Overview
//
// The upload sequence is:
//   - Query the device info report and refuse bootloader mode
//   - Announce the total length with a begin packet
//   - Send the bitstream in fixed-size block packets
//   - Close the transfer with an end packet and check the acknowledgment
//
// # Basic Usage
//
//	// User provides the bulk transport (io.ReadWriter)
//	device := myusb.Open(protocol.VendorID, protocol.ProductID)
//
//	res, err := bitstream.ConvertFile("top.bit", "top.t76")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	up := uploader.New(device)
//	if _, err := up.QueryInfo(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	if err := up.Upload(ctx, res.Data); err != nil {
//	    log.Fatal(err)
//	}
//
// # Progress Tracking
//
//	up := uploader.New(device,
//	    uploader.WithProgressCallback(func(p uploader.Progress) {
//	        fmt.Printf("\rUploading... %3.0f%%", p.Percentage)
//	    }),
//	)
//
// # Hardware Independence
//
// This package does NOT open USB devices. Each Write must be sent as one bulk
// OUT transfer on endpoint 0x01 and each Read must return one bulk IN transfer
// from endpoint 0x81. When the device also implements SetReadDeadline and
// SetWriteDeadline the configured timeouts are applied to every transfer.
package uploader
