package bitstream

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// step feeds one block to f and checks the decision.
func step(t *testing.T, f *Filter, block []byte, want Action) {
	t.Helper()
	got, err := f.Process(block, 0)
	require.NoError(t, err)
	require.Equal(t, want, got, "block % X", block)
}

func TestFilterShortBlockPassesThrough(t *testing.T) {
	logger := &recordingLogger{}
	f := NewFilter(WithLogger(logger))

	step(t, f, []byte{0xF3, 0x00, 0x00}, ActionKeep)
	step(t, f, []byte{}, ActionKeep)

	require.Len(t, f.Warnings(), 2)
	_, ok := logger.find("WARN", "too short to contain required header")
	assert.True(t, ok)

	// Short blocks are kept even after EOF.
	step(t, f, Marker, ActionKeep)
	step(t, f, Marker, ActionKeep)
	step(t, f, []byte{0x01, 0x02}, ActionKeep)
}

func TestFilterDropsEverythingAfterEOF(t *testing.T) {
	f := NewFilter()

	step(t, f, Marker, ActionKeep)
	assert.False(t, f.EOFDetected())
	step(t, f, Marker, ActionKeep)
	assert.True(t, f.EOFDetected())
	assert.Equal(t, ModeTerminated, f.State().Mode())

	trailing := [][]byte{
		Marker,
		record(CmdEndData, 0),
		record(CmdResetCRC, 0),
		crcRecord(CmdDeviceID, 0, 0x12, 0x34),
		recordSize(CmdDeviceID, 0, 200, 0x01),
		{0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07},
	}
	for _, b := range trailing {
		step(t, f, b, ActionDrop)
	}
	assert.Equal(t, eofMarkers, f.State().EOFRunCount)
}

func TestFilterEndDataRearmsEOF(t *testing.T) {
	logger := &recordingLogger{}
	f := NewFilter(WithLogger(logger))

	step(t, f, Marker, ActionKeep)
	step(t, f, record(CmdEndData, 0), ActionKeep)
	step(t, f, Marker, ActionKeep)
	assert.Equal(t, 1, f.State().EOFRunCount)
	assert.False(t, f.EOFDetected())

	_, ok := logger.find("INFO", "end of data found")
	assert.True(t, ok)

	// A flagged end-of-data record is a plain pass-through.
	step(t, f, record(CmdEndData, 1), ActionKeep)
	assert.Equal(t, 1, f.State().EOFRunCount)
}

func TestFilterAlwaysDroppedCommands(t *testing.T) {
	f := NewFilter()

	step(t, f, record(CmdUnknown1, 0, 0x01, 0x02), ActionDrop)
	step(t, f, record(CmdUnknown2, 0x80, 0x01), ActionDrop)
	step(t, f, recordSize(CmdUnknown2, 0, 99), ActionDrop)
	assert.Empty(t, f.Warnings())
}

func TestFilterResetCRCOnce(t *testing.T) {
	f := NewFilter()

	step(t, f, record(CmdResetCRC, 0), ActionKeep)
	assert.True(t, f.State().ResetCRCConsumed)
	step(t, f, record(CmdResetCRC, 0), ActionDrop)
	step(t, f, record(CmdResetCRC, 1, 0xAA), ActionDrop)
}

func TestFilterDeviceID(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{name: "two bytes", data: []byte{0x12, 0x34}, want: "1234"},
		{name: "odd digit count padded", data: []byte{0x01, 0x23}, want: "0123"},
		{name: "leading zero byte dropped", data: []byte{0x00, 0xAB}, want: "AB"},
		{name: "four bytes", data: []byte{0x0A, 0xBC, 0xDE, 0xF0}, want: "0ABCDEF0"},
		{name: "zero", data: []byte{0x00, 0x00}, want: "00"},
		{name: "checksum only", data: nil, want: "00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := &recordingLogger{}
			f := NewFilter(WithLogger(logger))

			step(t, f, crcRecord(CmdDeviceID, 0, tt.data...), ActionKeep)
			assert.Equal(t, tt.want, f.DeviceID())

			entry, ok := logger.find("INFO", "device ID")
			require.True(t, ok)
			assert.Equal(t, "0x"+tt.want, entry.value("id"))
		})
	}
}

func TestFilterDeviceIDBadCRC(t *testing.T) {
	block := crcRecord(CmdDeviceID, 0, 0x12, 0x34)
	block[len(block)-1] ^= 0x01

	f := NewFilter()
	action, err := f.Process(block, 7)
	assert.Equal(t, ActionAbort, action)

	var ce *ChecksumError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, 7, ce.Block)
	assert.Equal(t, -1, ce.Frame)
	assert.Contains(t, err.Error(), "block 7")
}

func TestFilterDeviceIDWithoutCRC(t *testing.T) {
	f := NewFilter()

	// Flagged records and records too small for a CRC are kept unchecked.
	step(t, f, record(CmdDeviceID, 1, 0x12, 0x34, 0x00, 0x00), ActionKeep)
	step(t, f, record(CmdDeviceID, 0, 0x12), ActionKeep)
	assert.Empty(t, f.DeviceID())
}

func TestFilterSizeMismatch(t *testing.T) {
	tests := []struct {
		name  string
		block []byte
	}{
		{name: "device ID payload too long", block: recordSize(CmdDeviceID, 0, 2, 0x01, 0x02, 0x03)},
		{name: "device ID payload too short", block: recordSize(CmdDeviceID, 0, 6, 0x01)},
		{name: "frame info", block: recordSize(CmdFrameInfo, 0, 6, 0x00, 0x01)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := &recordingLogger{}
			f := NewFilter(WithLogger(logger))

			action, err := f.Process(tt.block, 12)
			require.NoError(t, err)
			assert.Equal(t, ActionDrop, action)

			require.Len(t, f.Warnings(), 1)
			assert.Equal(t, 12, f.Warnings()[0].Block)
			assert.Contains(t, f.Warnings()[0].Message, "size mismatch")
			assert.Len(t, logger.entries, 1)
			assert.Equal(t, "WARN", logger.entries[0].level)
		})
	}
}

func TestFilterFrameInfo(t *testing.T) {
	logger := &recordingLogger{}
	f := NewFilter(WithLogger(logger))

	step(t, f, frameInfo(0x0123, 0x0456), ActionKeep)

	st := f.State()
	assert.True(t, st.FrameInfoSeen)
	assert.Equal(t, 0x0123, st.NumFrames)
	assert.Equal(t, 0x0456, st.FrameSize)

	entry, ok := logger.find("INFO", "frame info")
	require.True(t, ok)
	assert.Equal(t, "291", entry.value("frames"))
	assert.Equal(t, "1110", entry.value("frame_size"))
}

func TestFilterFrameInfoBadCRC(t *testing.T) {
	block := frameInfo(2, 4)
	block[5] ^= 0xFF

	f := NewFilter()
	action, err := f.Process(block, 3)
	assert.Equal(t, ActionAbort, action)

	var ce *ChecksumError
	assert.True(t, errors.As(err, &ce))
	assert.False(t, f.State().FrameInfoSeen)
}

func TestFilterFrameDataBeforeFrameInfo(t *testing.T) {
	f := NewFilter()

	step(t, f, record(CmdFrameData, 1), ActionDrop)
	require.Len(t, f.Warnings(), 1)
	assert.Contains(t, f.Warnings()[0].Message, "before frame info")
	assert.Equal(t, ModeNormal, f.State().Mode())

	// Unflagged frame data is a plain pass-through.
	step(t, f, record(CmdFrameData, 0), ActionKeep)
}

func TestFilterSkipMode(t *testing.T) {
	f := NewFilter()

	step(t, f, frameInfo(2, 4), ActionKeep)
	step(t, f, recordSize(CmdFrameData, 1, 1), ActionDrop)

	st := f.State()
	assert.Equal(t, 1*4+PaddingSize, st.SkipRemaining)
	assert.Equal(t, ModeSkipping, st.Mode())
	assert.Zero(t, st.FramesRemaining)

	// A marker block while skipping is consumed as skip bytes, not as EOF.
	step(t, f, Marker, ActionDrop)
	assert.Equal(t, 7, f.State().SkipRemaining)
	assert.Zero(t, f.State().EOFRunCount)

	step(t, f, crcRecord(CmdDeviceID, 0, 0x12, 0x34, 0x56), ActionDrop)
	assert.Zero(t, f.State().SkipRemaining)
	assert.Equal(t, ModeNormal, f.State().Mode())
	assert.Empty(t, f.DeviceID())

	step(t, f, record(CmdEndData, 0), ActionKeep)
}

func TestFilterFrameCapture(t *testing.T) {
	logger := &recordingLogger{}
	f := NewFilter(WithLogger(logger))

	step(t, f, frameInfo(3, 4), ActionKeep)
	step(t, f, recordSize(CmdFrameData, 1, 3), ActionKeep)
	assert.Equal(t, ModeCapturing, f.State().Mode())
	assert.Equal(t, 3, f.State().FramesRemaining)

	_, ok := logger.find("INFO", "found frames")
	assert.True(t, ok)

	// Frame 0 is never CRC checked.
	step(t, f, []byte{0xDE, 0xAD, 0xBE, 0xEF, 0x00, 0x00}, ActionKeep)
	// Frames look like records but are not dispatched.
	step(t, f, withCRC(record(CmdUnknown1, 0, 0x00, 0x00)), ActionKeep)
	assert.Equal(t, 1, f.State().FramesRemaining)

	bad := withCRC([]byte{0x01, 0x02, 0x03, 0x04})
	bad[0] = 0xFF
	action, err := f.Process(bad, 42)
	assert.Equal(t, ActionAbort, action)

	var ce *ChecksumError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, 42, ce.Block)
	assert.Equal(t, 2, ce.Frame)
	assert.Contains(t, err.Error(), "frame 2")

	_, ok = logger.find("ERROR", "frame has bad CRC")
	assert.True(t, ok)
}

func TestFilterFrameCaptureEndsInNormalMode(t *testing.T) {
	f := NewFilter()

	step(t, f, frameInfo(2, 4), ActionKeep)
	step(t, f, recordSize(CmdFrameData, 1, 2), ActionKeep)
	step(t, f, Marker, ActionKeep) // frame 0
	step(t, f, []byte{0x01, 0x02}, ActionKeep)
	assert.Equal(t, 1, f.State().FramesRemaining, "short blocks do not count as frames")
	step(t, f, withCRC([]byte{0x01, 0x02, 0x03, 0x04}), ActionKeep)
	assert.Equal(t, ModeNormal, f.State().Mode())
	assert.Zero(t, f.State().EOFRunCount)

	step(t, f, record(CmdUnknown1, 0), ActionDrop)
}

func TestFilterFrameCaptureBlankFrames(t *testing.T) {
	f := NewFilter()

	step(t, f, frameInfo(2, 0), ActionKeep)
	step(t, f, recordSize(CmdFrameData, 1, 2), ActionKeep)
	step(t, f, []byte{0x00, 0x00, 0x00, 0x00}, ActionKeep)

	// A blank frame carries a valid CRC.
	step(t, f, []byte{0x00, 0x00, 0x00, 0x00}, ActionKeep)
	assert.Equal(t, ModeNormal, f.State().Mode())
}

func TestFilterDefaultPassThrough(t *testing.T) {
	f := NewFilter()

	step(t, f, record(0x99, 0x00, 0x01, 0x02), ActionKeep)
	step(t, f, recordSize(0x42, 0x07, 1000), ActionKeep)
	step(t, f, record(CmdFrameData, 0, 0x01), ActionKeep)
	assert.Empty(t, f.Warnings())
}

func TestFilterBlockCallback(t *testing.T) {
	var events []BlockEvent
	f := NewFilter(WithBlockCallback(func(ev BlockEvent) {
		events = append(events, ev)
	}))

	_, err := f.Process(frameInfo(1, 4), 4)
	require.NoError(t, err)
	_, err = f.Process(recordSize(CmdFrameData, 1, 1), 5)
	require.NoError(t, err)
	_, err = f.Process(withCRC([]byte{0x01, 0x02}), 6)
	require.NoError(t, err)
	_, err = f.Process(record(CmdUnknown2, 0), 7)
	require.NoError(t, err)

	require.Len(t, events, 4)
	assert.Equal(t, BlockEvent{Block: 4, Command: CmdFrameInfo, Size: 10, Mode: ModeNormal, Action: ActionKeep}, events[0])
	assert.Equal(t, ModeCapturing, events[2].Mode)
	assert.Equal(t, BlockEvent{Block: 7, Command: CmdUnknown2, Size: 4, Mode: ModeNormal, Action: ActionDrop}, events[3])
}

func TestActionAndModeStrings(t *testing.T) {
	assert.Equal(t, "keep", ActionKeep.String())
	assert.Equal(t, "drop", ActionDrop.String())
	assert.Equal(t, "abort", ActionAbort.String())
	assert.Equal(t, "action(9)", Action(9).String())
	assert.Equal(t, "skipping", ModeSkipping.String())
	assert.Equal(t, "terminated", ModeTerminated.String())
}
