package uploader

import "time"

// Upload phases reported in Progress.Phase.
const (
	PhaseBegin     = "begin"
	PhaseUploading = "uploading"
	PhaseEnd       = "end"
	PhaseComplete  = "complete"
)

// Progress contains information about the upload progress.
type Progress struct {
	// Phase is one of PhaseBegin, PhaseUploading, PhaseEnd or PhaseComplete
	Phase string

	// Packet is the number of block packets sent so far
	Packet int

	// TotalPackets is the number of block packets in the transfer
	TotalPackets int

	// BytesSent is the number of bitstream bytes sent so far
	BytesSent int

	// TotalBytes is the bitstream length
	TotalBytes int

	// Percentage is the completion percentage (0.0 to 100.0)
	Percentage float64

	// ElapsedTime is the time elapsed since the upload started
	ElapsedTime time.Duration
}

// ProgressCallback is called during the upload to report progress.
// Implementations should return quickly.
type ProgressCallback func(Progress)

// Logger is an optional logging interface; *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}
