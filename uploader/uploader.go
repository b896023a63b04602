package uploader

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/moffa90/go-t76/protocol"
)

// Uploader streams bitstreams to a T76 programmer over a bulk transport.
//
// Uploader is not safe for concurrent use; the device handles one transfer at a time.
type Uploader struct {
	device io.ReadWriter
	config Config
}

type readDeadliner interface {
	SetReadDeadline(t time.Time) error
}

type writeDeadliner interface {
	SetWriteDeadline(t time.Time) error
}

// New creates a new Uploader with the given device and options.
//
// Example:
//
//	up := uploader.New(device,
//	    uploader.WithProgressCallback(progressFunc),
//	    uploader.WithTimeout(10*time.Second),
//	)
func New(device io.ReadWriter, opts ...Option) *Uploader {
	if device == nil {
		panic("device cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Uploader{
		device: device,
		config: cfg,
	}
}

// QueryInfo requests the device info report. It returns ErrBootloaderMode,
// along with the parsed report, when the programmer is in bootloader mode.
func (u *Uploader) QueryInfo(ctx context.Context) (*protocol.DeviceInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("cancelled: %w", err)
	}

	resp, err := u.exchange(protocol.BuildQueryInfoCmd(), protocol.QueryInfoResponseSize)
	if err != nil {
		return nil, fmt.Errorf("query info: %w", err)
	}

	info, err := protocol.ParseDeviceInfo(resp)
	if err != nil {
		return nil, err
	}

	u.logDebug("device info",
		"model", info.Model,
		"device_code", info.DeviceCode,
		"serial", info.Serial,
		"firmware", info.Firmware,
		"usb_speed", info.SpeedDescription(),
	)

	if info.InBootloader() {
		return info, ErrBootloaderMode
	}

	return info, nil
}

// Upload performs the complete bitstream transfer:
//  1. Send the begin packet with the total length and check the acknowledgment
//  2. Send the bitstream in block packets of protocol.MaxPayloadSize bytes
//  3. Send the end packet and check the acknowledgment
//
// The operation can be cancelled via context between packets.
func (u *Uploader) Upload(ctx context.Context, bitstream []byte) error {
	if len(bitstream) == 0 {
		return ErrEmptyBitstream
	}

	startTime := time.Now()
	total := len(bitstream)
	packets := (total + protocol.MaxPayloadSize - 1) / protocol.MaxPayloadSize

	u.logInfo("upload starting",
		"bytes", total,
		"packets", packets,
		"digest", fmt.Sprintf("%016x", xxhash.Sum64(bitstream)),
	)

	// Phase 1: Begin
	u.reportProgress(Progress{
		Phase:        PhaseBegin,
		TotalPackets: packets,
		TotalBytes:   total,
	})

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("cancelled: %w", err)
	}

	begin, err := protocol.BuildBeginCmd(total)
	if err != nil {
		return err
	}

	resp, err := u.exchange(begin, protocol.BeginResponseSize)
	if err != nil {
		return fmt.Errorf("begin bitstream: %w", err)
	}
	if err := protocol.ParseAck("begin bitstream", resp); err != nil {
		return err
	}

	// Phase 2: Blocks
	sent := 0
	for i := 0; sent < total; i++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("cancelled: %w", err)
		}

		chunk := bitstream[sent:min(sent+protocol.MaxPayloadSize, total)]
		packet, err := protocol.BuildBlockCmd(chunk)
		if err != nil {
			return err
		}

		if err := u.send(packet); err != nil {
			return fmt.Errorf("send block %d/%d: %w", i+1, packets, err)
		}
		sent += len(chunk)

		u.reportProgress(Progress{
			Phase:        PhaseUploading,
			Packet:       i + 1,
			TotalPackets: packets,
			BytesSent:    sent,
			TotalBytes:   total,
			Percentage:   float64(sent) / float64(total) * 100,
			ElapsedTime:  time.Since(startTime),
		})
	}

	// Phase 3: End
	u.reportProgress(Progress{
		Phase:        PhaseEnd,
		Packet:       packets,
		TotalPackets: packets,
		BytesSent:    sent,
		TotalBytes:   total,
		Percentage:   100,
		ElapsedTime:  time.Since(startTime),
	})

	resp, err = u.exchange(protocol.BuildEndCmd(), protocol.EndResponseSize)
	if err != nil {
		return fmt.Errorf("end bitstream: %w", err)
	}
	if err := protocol.ParseAck("end bitstream", resp); err != nil {
		u.logError("bitstream rejected", "err", err)
		return err
	}

	u.reportProgress(Progress{
		Phase:        PhaseComplete,
		Packet:       packets,
		TotalPackets: packets,
		BytesSent:    sent,
		TotalBytes:   total,
		Percentage:   100,
		ElapsedTime:  time.Since(startTime),
	})

	u.logInfo("upload complete",
		"bytes", sent,
		"packets", packets,
		"elapsed", time.Since(startTime).String(),
	)

	return nil
}

// send writes one packet as a single bulk OUT transfer.
func (u *Uploader) send(packet []byte) error {
	if d, ok := u.device.(writeDeadliner); ok && u.config.WriteTimeout > 0 {
		if err := d.SetWriteDeadline(time.Now().Add(u.config.WriteTimeout)); err != nil {
			return fmt.Errorf("set write deadline: %w", err)
		}
	}

	n, err := u.device.Write(packet)
	if err != nil {
		return fmt.Errorf("write packet: %w", err)
	}
	if n != len(packet) {
		return fmt.Errorf("write packet: %w (%d of %d bytes)", io.ErrShortWrite, n, len(packet))
	}

	if u.config.CommandDelay > 0 {
		time.Sleep(u.config.CommandDelay)
	}

	return nil
}

// exchange sends a packet and reads one bulk IN transfer of at most size bytes.
func (u *Uploader) exchange(packet []byte, size int) ([]byte, error) {
	if err := u.send(packet); err != nil {
		return nil, err
	}

	if d, ok := u.device.(readDeadliner); ok && u.config.ReadTimeout > 0 {
		if err := d.SetReadDeadline(time.Now().Add(u.config.ReadTimeout)); err != nil {
			return nil, fmt.Errorf("set read deadline: %w", err)
		}
	}

	resp := make([]byte, size)
	n, err := u.device.Read(resp)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	return resp[:n], nil
}

// reportProgress calls the progress callback if configured.
func (u *Uploader) reportProgress(progress Progress) {
	if u.config.ProgressCallback != nil {
		u.config.ProgressCallback(progress)
	}
}

func (u *Uploader) logDebug(msg string, keysAndValues ...interface{}) {
	if u.config.Logger != nil {
		u.config.Logger.Debug(msg, keysAndValues...)
	}
}

func (u *Uploader) logInfo(msg string, keysAndValues ...interface{}) {
	if u.config.Logger != nil {
		u.config.Logger.Info(msg, keysAndValues...)
	}
}

func (u *Uploader) logError(msg string, keysAndValues ...interface{}) {
	if u.config.Logger != nil {
		u.config.Logger.Error(msg, keysAndValues...)
	}
}
