package bitstream

import (
	"bytes"
	"fmt"
)

// Action is the decision taken for a block.
type Action int

const (
	// ActionKeep writes the block to the output unchanged
	ActionKeep Action = iota

	// ActionDrop leaves the block out of the output
	ActionDrop

	// ActionAbort stops the conversion; it is always paired with an error
	ActionAbort
)

func (a Action) String() string {
	switch a {
	case ActionKeep:
		return "keep"
	case ActionDrop:
		return "drop"
	case ActionAbort:
		return "abort"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Mode is the multi-block mode the filter is in.
type Mode int

const (
	// ModeNormal interprets each block as a command record
	ModeNormal Mode = iota

	// ModeSkipping discards bytes of an unusable frame data region
	ModeSkipping

	// ModeCapturing treats each block as one frame payload
	ModeCapturing

	// ModeTerminated drops everything after the EOF marker pair
	ModeTerminated
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeSkipping:
		return "skipping"
	case ModeCapturing:
		return "capturing"
	case ModeTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// eofMarkers is the number of consecutive marker blocks that end the stream.
const eofMarkers = 2

// State is the conversion-wide state of a Filter.
// SkipRemaining and FramesRemaining are never both positive.
type State struct {
	// EOFRunCount counts marker blocks since the last end-of-data record
	EOFRunCount int

	// SkipRemaining is the number of bytes still to discard
	SkipRemaining int

	// FramesRemaining is the number of frame payload blocks still to capture
	FramesRemaining int

	// NumFrames and FrameSize come from the last valid frame info record
	NumFrames int
	FrameSize int

	// FrameInfoSeen is set once a frame info record has been parsed
	FrameInfoSeen bool

	// ResetCRCConsumed is set once a reset CRC record has been kept
	ResetCRCConsumed bool
}

// Mode returns the mode implied by the counters, in precedence order.
func (s State) Mode() Mode {
	switch {
	case s.EOFRunCount >= eofMarkers:
		return ModeTerminated
	case s.SkipRemaining > 0:
		return ModeSkipping
	case s.FramesRemaining > 0:
		return ModeCapturing
	default:
		return ModeNormal
	}
}

// Warning is a recoverable problem that caused a block to be dropped or passed through.
type Warning struct {
	Block   int
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("block %d: %s", w.Block, w.Message)
}

// Filter is the block state machine. It holds the state of a single
// conversion and must see blocks in input order.
//
// A Filter is not safe for concurrent use.
type Filter struct {
	config Config
	state  State

	deviceID    string
	eofDetected bool
	warnings    []Warning
}

// NewFilter creates a Filter with fresh state.
func NewFilter(opts ...Option) *Filter {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Filter{config: cfg}
}

// State returns a copy of the current state.
func (f *Filter) State() State {
	return f.state
}

// DeviceID returns the last reported device ID, or "" if none was seen.
func (f *Filter) DeviceID() string {
	return f.deviceID
}

// EOFDetected reports whether the EOF marker pair has been seen.
func (f *Filter) EOFDetected() bool {
	return f.eofDetected
}

// Warnings returns the recoverable problems reported so far.
func (f *Filter) Warnings() []Warning {
	return f.warnings
}

// Process decides what to do with block, the blockNum-th block of the file.
// A non-nil error is fatal and comes with ActionAbort.
func (f *Filter) Process(block []byte, blockNum int) (Action, error) {
	mode := f.state.Mode()

	action, err := f.process(block, blockNum)
	if err != nil {
		action = ActionAbort
	}

	if f.config.BlockCallback != nil {
		var cmd byte
		if len(block) > 0 {
			cmd = block[0]
		}
		f.config.BlockCallback(BlockEvent{
			Block:   blockNum,
			Command: cmd,
			Size:    len(block),
			Mode:    mode,
			Action:  action,
		})
	}

	return action, err
}

func (f *Filter) process(block []byte, blockNum int) (Action, error) {
	// Short blocks pass through, even in the multi-block modes.
	if len(block) < BlockHeaderSize {
		f.warn(blockNum, "too short to contain required header", "size", len(block))
		return ActionKeep, nil
	}

	if f.state.EOFRunCount >= eofMarkers {
		return ActionDrop, nil
	}

	if f.state.SkipRemaining > 0 {
		f.state.SkipRemaining -= min(len(block), f.state.SkipRemaining)
		f.logDebug("skipped invalid frame data",
			"block", blockNum, "remaining", f.state.SkipRemaining)
		return ActionDrop, nil
	}

	if f.state.FramesRemaining > 0 {
		return f.captureFrame(block, blockNum)
	}

	rec := ParseRecord(block)

	switch rec.Command {
	case CmdUnknown1, CmdUnknown2:
		return ActionDrop, nil
	case CmdResetCRC:
		if f.state.ResetCRCConsumed {
			return ActionDrop, nil
		}
		f.state.ResetCRCConsumed = true
		return ActionKeep, nil
	}

	// The marker check ignores the record fields.
	if bytes.Equal(block, Marker) {
		f.state.EOFRunCount++
		if f.state.EOFRunCount == eofMarkers {
			f.eofDetected = true
			f.logInfo("EOF signature found", "block", blockNum)
		}
		return ActionKeep, nil
	}

	switch {
	case rec.Command == CmdDeviceID:
		return f.deviceIDRecord(block, rec, blockNum)
	case rec.Command == CmdFrameInfo:
		return f.frameInfoRecord(block, rec, blockNum)
	case rec.Command == CmdFrameData && rec.Flag != 0:
		return f.frameDataRecord(rec, blockNum)
	case rec.Command == CmdEndData && rec.Flag == 0:
		f.state.EOFRunCount = 0
		f.logInfo("end of data found", "block", blockNum)
		return ActionKeep, nil
	}

	return ActionKeep, nil
}

// captureFrame handles one frame payload block. Frame 0 is not CRC checked.
func (f *Filter) captureFrame(block []byte, blockNum int) (Action, error) {
	frame := f.state.NumFrames - f.state.FramesRemaining
	if frame > 0 {
		if err := ValidateBlockCRC(block); err != nil {
			f.logError("frame has bad CRC", "block", blockNum, "frame", frame, "size", len(block))
			return ActionAbort, blockError(err, blockNum, frame)
		}
	}
	f.state.FramesRemaining--
	f.logDebug("frame captured", "block", blockNum, "frame", frame, "size", len(block))
	return ActionKeep, nil
}

func (f *Filter) deviceIDRecord(block []byte, rec Record, blockNum int) (Action, error) {
	if !rec.SizeMatches() {
		f.sizeMismatch(rec, blockNum)
		return ActionDrop, nil
	}
	if rec.Flag == 0 && rec.Size >= CRCSize {
		if err := ValidateBlockCRC(block); err != nil {
			return ActionAbort, blockError(err, blockNum, -1)
		}
		f.deviceID = formatDeviceID(rec.Payload[:len(rec.Payload)-CRCSize])
		f.logInfo("device ID", "block", blockNum, "id", "0x"+f.deviceID)
	}
	return ActionKeep, nil
}

func (f *Filter) frameInfoRecord(block []byte, rec Record, blockNum int) (Action, error) {
	if !rec.SizeMatches() {
		f.sizeMismatch(rec, blockNum)
		return ActionDrop, nil
	}
	if rec.Flag == 0 && rec.Size >= CRCSize {
		if err := ValidateBlockCRC(block); err != nil {
			return ActionAbort, blockError(err, blockNum, -1)
		}
		p := rec.Payload
		f.state.NumFrames = uintBE(p[:min(2, len(p))])
		f.state.FrameSize = uintBE(p[min(2, len(p)):min(4, len(p))])
		f.state.FrameInfoSeen = true
		f.logInfo("frame info",
			"block", blockNum, "frames", f.state.NumFrames, "frame_size", f.state.FrameSize)
	}
	return ActionKeep, nil
}

func (f *Filter) frameDataRecord(rec Record, blockNum int) (Action, error) {
	if !f.state.FrameInfoSeen {
		f.warn(blockNum, "frame data received before frame info")
		return ActionDrop, nil
	}
	if rec.Size != f.state.NumFrames {
		f.state.SkipRemaining = rec.Size*f.state.FrameSize + PaddingSize
		f.logDebug("skipping frame data region",
			"block", blockNum, "frames", rec.Size, "bytes", f.state.SkipRemaining)
		return ActionDrop, nil
	}
	f.state.FramesRemaining = rec.Size
	f.logInfo("found frames", "block", blockNum, "frames", rec.Size)
	return ActionKeep, nil
}

func (f *Filter) sizeMismatch(rec Record, blockNum int) {
	f.warn(blockNum, fmt.Sprintf("size mismatch, expected %d payload bytes, got %d",
		rec.Size, len(rec.Payload)), "command", CommandName(rec.Command))
}

func (f *Filter) warn(blockNum int, msg string, keysAndValues ...interface{}) {
	f.warnings = append(f.warnings, Warning{Block: blockNum, Message: msg})
	if f.config.Logger != nil {
		f.config.Logger.Warn(msg, append([]interface{}{"block", blockNum}, keysAndValues...)...)
	}
}

func (f *Filter) logDebug(msg string, keysAndValues ...interface{}) {
	if f.config.Logger != nil {
		f.config.Logger.Debug(msg, keysAndValues...)
	}
}

func (f *Filter) logInfo(msg string, keysAndValues ...interface{}) {
	if f.config.Logger != nil {
		f.config.Logger.Info(msg, keysAndValues...)
	}
}

func (f *Filter) logError(msg string, keysAndValues ...interface{}) {
	if f.config.Logger != nil {
		f.config.Logger.Error(msg, keysAndValues...)
	}
}
