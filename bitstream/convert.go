package bitstream

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
)

// Result is the outcome of a successful conversion.
type Result struct {
	// Header is the ASCII header text of the input
	Header string

	// Data is the converted stream, padded to an even length
	Data []byte

	// Digest is the xxHash64 of Data
	Digest uint64

	// DeviceID is the hexadecimal device identifier, or "" if none was found
	DeviceID string

	// NumFrames and FrameSize come from the frame info record
	NumFrames int
	FrameSize int

	// Blocks is the number of framed blocks read, signature included
	Blocks int

	// Kept and Dropped count the blocks after the signature
	Kept    int
	Dropped int

	// EOFDetected is set when the EOF marker pair was found
	EOFDetected bool

	// Warnings lists the recoverable problems met during filtering
	Warnings []Warning
}

// ConvertFile converts the .bit file at inPath and writes the result to outPath.
// Nothing is written when the conversion fails.
//
// Example:
//
//	res, err := bitstream.ConvertFile("top.bit", "top.t76")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("wrote %d bytes\n", len(res.Data))
func ConvertFile(inPath, outPath string, opts ...Option) (*Result, error) {
	f, err := os.Open(inPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer func() { _ = f.Close() }()

	res, err := ConvertReader(f, opts...)
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(outPath, res.Data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write output: %w", err)
	}

	return res, nil
}

// ConvertReader reads a whole .bit container from r and converts it.
func ConvertReader(r io.Reader, opts ...Option) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return Convert(data, opts...)
}

// Convert converts an in-memory .bit container.
func Convert(data []byte, opts ...Option) (*Result, error) {
	header, body, err := SplitHeader(data)
	if err != nil {
		return nil, err
	}

	reader := NewBlockReader(body)
	signature, err := ReadSignature(reader)
	if err != nil {
		return nil, err
	}

	filter := NewFilter(opts...)
	filter.logInfo("SOF signature found")

	res := &Result{Header: header}

	out := make([]byte, 0, len(body))
	for _, block := range signature {
		out = append(out, block...)
	}

	for {
		block, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		action, err := filter.Process(block, reader.Count())
		if err != nil {
			return nil, err
		}

		switch action {
		case ActionKeep:
			out = append(out, block...)
			res.Kept++
		case ActionDrop:
			res.Dropped++
		}
	}

	if len(out)%2 != 0 {
		out = append(out, 0x00)
	}

	state := filter.State()
	res.Data = out
	res.Digest = xxhash.Sum64(out)
	res.DeviceID = filter.DeviceID()
	res.NumFrames = state.NumFrames
	res.FrameSize = state.FrameSize
	res.Blocks = reader.Count()
	res.EOFDetected = filter.EOFDetected()
	res.Warnings = filter.Warnings()

	filter.logInfo("conversion complete",
		"blocks", res.Blocks,
		"kept", res.Kept,
		"dropped", res.Dropped,
		"bytes", len(res.Data),
		"digest", fmt.Sprintf("%016x", res.Digest),
	)

	return res, nil
}
