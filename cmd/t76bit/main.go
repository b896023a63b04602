// Command t76bit converts an Anlogic .bit file into the stream expected by the
// XGecu T76 programmer.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/moffa90/go-t76/bitstream"
)

var (
	verbose = flag.Bool("v", false, "verbose mode")
	quiet   = flag.Bool("q", false, "quiet mode, warnings and errors only")
)

func main() {
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 2 {
		usage()
		os.Exit(2)
	}

	os.Exit(run(flag.Arg(0), flag.Arg(1), os.Stdout, newLogger(os.Stderr)))
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [-v] [-q] input_file output_file\n", os.Args[0])
	flag.PrintDefaults()
}

// run performs one conversion and returns the process exit code.
func run(in, out string, stdout io.Writer, logger *slog.Logger) int {
	res, err := bitstream.ConvertFile(in, out, bitstream.WithLogger(logger))
	if err != nil {
		logger.Error("conversion failed", "input", in, "err", err)
		return 1
	}

	fmt.Fprintln(stdout, "\n-----------------Bitstream info:----------------")
	fmt.Fprintln(stdout, res.Header)
	fmt.Fprintln(stdout, "------------------------------------------------")
	fmt.Fprintln(stdout)

	if res.DeviceID != "" {
		fmt.Fprintf(stdout, "Device ID: 0x%s\n", res.DeviceID)
	}
	if res.NumFrames > 0 {
		fmt.Fprintf(stdout, "Number of frames: %d\nFrame size: %d bytes\n", res.NumFrames, res.FrameSize)
	}
	if res.EOFDetected {
		fmt.Fprintln(stdout, "EOF signature found.")
	}
	if n := len(res.Warnings); n > 0 {
		fmt.Fprintf(stdout, "%d warnings\n", n)
	}

	fmt.Fprintf(stdout, "\nProcessed %d blocks and wrote %d bytes to %s.\n", res.Blocks, len(res.Data), out)
	return 0
}

// newLogger builds a text logger on w. Timestamps are left out on a terminal.
func newLogger(w *os.File) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case *verbose:
		level = slog.LevelDebug
	case *quiet:
		level = slog.LevelWarn
	}

	opts := &slog.HandlerOptions{Level: level}
	if term.IsTerminal(int(w.Fd())) {
		opts.ReplaceAttr = func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			return a
		}
	}

	return slog.New(slog.NewTextHandler(w, opts))
}
