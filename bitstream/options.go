package bitstream

// Logger is an optional logging interface for conversion reports.
// *slog.Logger satisfies it.
//
// Example:
//
//	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
//	res, err := bitstream.ConvertFile(in, out, bitstream.WithLogger(logger))
type Logger interface {
	// Debug logs a debug message with optional key-value pairs
	Debug(msg string, keysAndValues ...interface{})

	// Info logs an info message with optional key-value pairs
	Info(msg string, keysAndValues ...interface{})

	// Warn logs a warning with optional key-value pairs
	Warn(msg string, keysAndValues ...interface{})

	// Error logs an error message with optional key-value pairs
	Error(msg string, keysAndValues ...interface{})
}

// BlockEvent describes the decision taken for one block.
type BlockEvent struct {
	// Block is the 1-based block number, counting the signature blocks
	Block int

	// Command is the first byte of the block, zero for blocks shorter than one byte
	Command byte

	// Size is the block length in bytes
	Size int

	// Mode is the engine mode the block was processed in
	Mode Mode

	// Action is the decision for the block
	Action Action
}

// BlockCallback is called once per block after the signature.
type BlockCallback func(BlockEvent)

// Config holds the conversion configuration.
type Config struct {
	// Logger receives reports and warnings (optional)
	Logger Logger

	// BlockCallback observes per-block decisions (optional)
	BlockCallback BlockCallback
}

func defaultConfig() Config {
	return Config{}
}

// Option is a functional option for configuring a conversion.
type Option func(*Config)

// WithLogger sets the logger for reports and warnings.
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithBlockCallback sets a callback invoked for every block after the signature.
//
// Example:
//
//	bitstream.WithBlockCallback(func(ev bitstream.BlockEvent) {
//	    fmt.Printf("block %d cmd=0x%02X %s\n", ev.Block, ev.Command, ev.Action)
//	})
func WithBlockCallback(callback BlockCallback) Option {
	return func(c *Config) {
		c.BlockCallback = callback
	}
}
