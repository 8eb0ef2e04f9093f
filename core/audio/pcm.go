package audio

import (
	"bytes"
	"encoding/binary"
)

// PCMBuffer holds a fully decoded stream as interleaved signed 16-bit
// little-endian samples. One buffer is decoded per request and shared by all
// segment extractions.
type PCMBuffer struct {
	Data       []byte
	SampleRate int
	Channels   int
}

func (b *PCMBuffer) frameSize() int {
	return b.Channels * 2
}

func (b *PCMBuffer) frames() int {
	return len(b.Data) / b.frameSize()
}

// DurationMs returns the buffer's playback duration in milliseconds.
func (b *PCMBuffer) DurationMs() int64 {
	return int64(b.frames()) * 1000 / int64(b.SampleRate)
}

// frameAt maps a millisecond offset to a frame index, clamped to the buffer.
func (b *PCMBuffer) frameAt(ms int64) int {
	if ms < 0 {
		return 0
	}
	f := ms * int64(b.SampleRate) / 1000
	if n := int64(b.frames()); f > n {
		f = n
	}
	return int(f)
}

// SliceMs returns the samples for [startMs, endMs). Offsets are mapped to
// frame boundaries from the original timeline, so adjacent ranges slice
// without gaps or overlaps. A degenerate range yields an empty slice.
func (b *PCMBuffer) SliceMs(startMs, endMs int64) []byte {
	fs := b.frameSize()
	start := b.frameAt(startMs) * fs
	end := b.frameAt(endMs) * fs
	if end <= start {
		return nil
	}
	return b.Data[start:end]
}

// EncodeWAV wraps raw s16le samples in a RIFF/WAVE container. A nil or empty
// sample slice produces a valid zero-length WAV file.
func EncodeWAV(samples []byte, sampleRate, channels int) []byte {
	blockAlign := channels * 2
	byteRate := sampleRate * blockAlign

	var buf bytes.Buffer
	buf.Grow(44 + len(samples))

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+len(samples)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(16)) // bits per sample

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(len(samples)))
	buf.Write(samples)

	return buf.Bytes()
}
