package uploader

import "time"

// Config holds the uploader configuration.
type Config struct {
	// ProgressCallback is called during the upload (optional)
	ProgressCallback ProgressCallback

	// Logger is used for logging operations (optional)
	Logger Logger

	// ReadTimeout bounds each bulk IN transfer on devices with deadlines
	ReadTimeout time.Duration

	// WriteTimeout bounds each bulk OUT transfer on devices with deadlines
	WriteTimeout time.Duration

	// CommandDelay is an optional pause after every packet
	CommandDelay time.Duration
}

func defaultConfig() Config {
	return Config{
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
}

// Option is a functional option for configuring the Uploader.
type Option func(*Config)

// WithProgressCallback sets a callback function to track upload progress.
func WithProgressCallback(callback ProgressCallback) Option {
	return func(c *Config) {
		c.ProgressCallback = callback
	}
}

// WithLogger sets a logger for the uploader operations.
//
// Example:
//
//	up := uploader.New(device, uploader.WithLogger(slog.Default()))
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithTimeout sets both read and write timeouts.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.ReadTimeout = timeout
		c.WriteTimeout = timeout
	}
}

// WithCommandDelay sets a pause after every packet, for slow transports.
func WithCommandDelay(delay time.Duration) Option {
	return func(c *Config) {
		if delay >= 0 {
			c.CommandDelay = delay
		}
	}
}
