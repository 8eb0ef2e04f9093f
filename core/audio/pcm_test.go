package audio

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// makePCM builds a buffer of n frames with recognizable per-frame bytes.
func makePCM(frames, sampleRate, channels int) *PCMBuffer {
	data := make([]byte, frames*channels*2)
	for i := range data {
		data[i] = byte(i % 251)
	}
	return &PCMBuffer{Data: data, SampleRate: sampleRate, Channels: channels}
}

func TestPCMBuffer_DurationMs(t *testing.T) {
	// 40 seconds at 44.1kHz stereo.
	b := makePCM(40*44100, 44100, 2)
	if d := b.DurationMs(); d != 40000 {
		t.Errorf("DurationMs = %d, want 40000", d)
	}

	empty := &PCMBuffer{SampleRate: 44100, Channels: 2}
	if d := empty.DurationMs(); d != 0 {
		t.Errorf("empty DurationMs = %d, want 0", d)
	}
}

func TestPCMBuffer_SliceMs_gap_free(t *testing.T) {
	b := makePCM(44100, 44100, 2) // 1 second

	// Adjacent ranges planned from the same timeline must tile the buffer.
	boundaries := []int64{0, 250, 500, 750, 1000}
	var total int
	var prevEnd int
	for i := 0; i < 4; i++ {
		s := b.SliceMs(boundaries[i], boundaries[i+1])
		start := b.frameAt(boundaries[i]) * b.frameSize()
		if i > 0 && start != prevEnd {
			t.Errorf("slice %d starts at byte %d, previous ended at %d", i, start, prevEnd)
		}
		prevEnd = start + len(s)
		total += len(s)
	}
	if total != len(b.Data) {
		t.Errorf("slices cover %d bytes, want %d", total, len(b.Data))
	}
}

func TestPCMBuffer_SliceMs_degenerate_and_clamped(t *testing.T) {
	b := makePCM(441, 44100, 2) // 10ms

	if s := b.SliceMs(5, 5); len(s) != 0 {
		t.Errorf("empty range returned %d bytes", len(s))
	}
	if s := b.SliceMs(-3, 5); len(s) != b.frameAt(5)*b.frameSize() {
		t.Errorf("negative start not clamped: %d bytes", len(s))
	}
	// End beyond the buffer clamps to the last frame.
	if s := b.SliceMs(0, 10000); len(s) != len(b.Data) {
		t.Errorf("oversized range returned %d bytes, want %d", len(s), len(b.Data))
	}
}

func TestEncodeWAV_header(t *testing.T) {
	samples := make([]byte, 1764) // arbitrary frame-aligned payload
	wav := EncodeWAV(samples, 44100, 2)

	if len(wav) != 44+len(samples) {
		t.Fatalf("wav length = %d, want %d", len(wav), 44+len(samples))
	}
	if !bytes.Equal(wav[0:4], []byte("RIFF")) || !bytes.Equal(wav[8:12], []byte("WAVE")) {
		t.Fatal("missing RIFF/WAVE markers")
	}
	if got := binary.LittleEndian.Uint32(wav[4:8]); got != uint32(36+len(samples)) {
		t.Errorf("RIFF size = %d, want %d", got, 36+len(samples))
	}
	if got := binary.LittleEndian.Uint16(wav[20:22]); got != 1 {
		t.Errorf("audio format = %d, want 1 (PCM)", got)
	}
	if got := binary.LittleEndian.Uint16(wav[22:24]); got != 2 {
		t.Errorf("channels = %d, want 2", got)
	}
	if got := binary.LittleEndian.Uint32(wav[24:28]); got != 44100 {
		t.Errorf("sample rate = %d, want 44100", got)
	}
	if got := binary.LittleEndian.Uint32(wav[28:32]); got != 44100*4 {
		t.Errorf("byte rate = %d, want %d", got, 44100*4)
	}
	if got := binary.LittleEndian.Uint16(wav[32:34]); got != 4 {
		t.Errorf("block align = %d, want 4", got)
	}
	if got := binary.LittleEndian.Uint16(wav[34:36]); got != 16 {
		t.Errorf("bits per sample = %d, want 16", got)
	}
	if got := binary.LittleEndian.Uint32(wav[40:44]); got != uint32(len(samples)) {
		t.Errorf("data size = %d, want %d", got, len(samples))
	}
	if !bytes.Equal(wav[44:], samples) {
		t.Error("sample payload mismatch")
	}
}

func TestEncodeWAV_empty(t *testing.T) {
	wav := EncodeWAV(nil, 44100, 2)
	if len(wav) != 44 {
		t.Fatalf("empty wav length = %d, want 44", len(wav))
	}
	if got := binary.LittleEndian.Uint32(wav[40:44]); got != 0 {
		t.Errorf("data size = %d, want 0", got)
	}
}

func TestContentTypeForExt(t *testing.T) {
	cases := map[string]string{
		".wav":  "audio/wav",
		".mp3":  "audio/mpeg",
		".flac": "application/octet-stream",
	}
	for ext, want := range cases {
		if got := ContentTypeForExt(ext); got != want {
			t.Errorf("ContentTypeForExt(%q) = %q, want %q", ext, got, want)
		}
	}
}
