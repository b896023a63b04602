package bitstream

import (
	"bytes"
	"fmt"
)

const testHeader = "# Generated by Anlogic TD\n# Device: EG4S20BG256\n# Bitstream CRC: 0101010101010101"

// framed prefixes block with its big-endian bit length.
func framed(block []byte) []byte {
	bits := len(block) * 8
	return append([]byte{byte(bits >> 8), byte(bits)}, block...)
}

// withCRC returns a copy of b followed by its big-endian CRC-16/BUYPASS.
func withCRC(b []byte) []byte {
	crc := CRC16Buypass(b)
	out := make([]byte, 0, len(b)+CRCSize)
	out = append(out, b...)
	return append(out, byte(crc>>8), byte(crc))
}

// record builds a command record whose declared size is len(payload).
func record(cmd, flag byte, payload ...byte) []byte {
	return recordSize(cmd, flag, len(payload), payload...)
}

// recordSize builds a command record with an explicit declared size.
func recordSize(cmd, flag byte, size int, payload ...byte) []byte {
	return append([]byte{cmd, flag, byte(size >> 8), byte(size)}, payload...)
}

// crcRecord builds a command record carrying data followed by a CRC over the whole block.
func crcRecord(cmd, flag byte, data ...byte) []byte {
	size := len(data) + CRCSize
	return withCRC(append([]byte{cmd, flag, byte(size >> 8), byte(size)}, data...))
}

// frameInfo builds a valid frame info record.
func frameInfo(numFrames, frameSize int) []byte {
	return crcRecord(CmdFrameInfo, 0,
		byte(numFrames>>8), byte(numFrames), byte(frameSize>>8), byte(frameSize))
}

// signatureBytes is the expected output prefix of every accepted file.
func signatureBytes() []byte {
	out := append([]byte{}, Marker...)
	out = append(out, Marker...)
	return append(out, StartSignature...)
}

// container builds a .bit file: header, terminator, signature, then blocks.
func container(blocks ...[]byte) []byte {
	var buf bytes.Buffer
	buf.WriteString(testHeader)
	buf.Write(HeaderTerminator)
	buf.Write(framed(Marker))
	buf.Write(framed(Marker))
	buf.Write(framed(StartSignature))
	for _, b := range blocks {
		buf.Write(framed(b))
	}
	return buf.Bytes()
}

// concat joins blocks the way the output assembler does.
func concat(blocks ...[]byte) []byte {
	var out []byte
	for _, b := range blocks {
		out = append(out, b...)
	}
	return out
}

type logEntry struct {
	level string
	msg   string
	kv    []interface{}
}

// recordingLogger collects log calls for assertions.
type recordingLogger struct {
	entries []logEntry
}

func (l *recordingLogger) add(level, msg string, kv []interface{}) {
	l.entries = append(l.entries, logEntry{level: level, msg: msg, kv: kv})
}

func (l *recordingLogger) Debug(msg string, kv ...interface{}) { l.add("DEBUG", msg, kv) }
func (l *recordingLogger) Info(msg string, kv ...interface{})  { l.add("INFO", msg, kv) }
func (l *recordingLogger) Warn(msg string, kv ...interface{})  { l.add("WARN", msg, kv) }
func (l *recordingLogger) Error(msg string, kv ...interface{}) { l.add("ERROR", msg, kv) }

// find returns the first entry with the given level and message.
func (l *recordingLogger) find(level, msg string) (logEntry, bool) {
	for _, e := range l.entries {
		if e.level == level && e.msg == msg {
			return e, true
		}
	}
	return logEntry{}, false
}

// value returns the value logged for key, formatted with %v.
func (e logEntry) value(key string) string {
	for i := 0; i+1 < len(e.kv); i += 2 {
		if e.kv[i] == key {
			return fmt.Sprintf("%v", e.kv[i+1])
		}
	}
	return ""
}
