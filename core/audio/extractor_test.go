package audio

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/apexwis/AudioSplitterFaaS/model"
)

// preloadedSource returns a Source whose PCM buffer is already populated, so
// the re-encode strategy never shells out to ffmpeg.
func preloadedSource(pcm *PCMBuffer) *Source {
	src := &Source{}
	src.pcmOnce.Do(func() {
		src.pcm = pcm
	})
	return src
}

func TestReencodeExtractor_probe_and_slices(t *testing.T) {
	pcm := makePCM(2*44100, 44100, 2) // 2 seconds
	src := preloadedSource(pcm)
	e := NewReencodeExtractor(nil)

	d, err := e.Probe(context.Background(), src)
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if d != 2000 {
		t.Errorf("Probe = %d, want 2000", d)
	}

	// Four planned ranges must re-encode to slices covering the whole buffer.
	boundaries := []int64{0, 500, 1000, 1500, 2000}
	var totalSamples int
	for i := 0; i < 4; i++ {
		payload, err := e.Extract(context.Background(), src, model.SegmentRange{
			Index: i, StartMs: boundaries[i], EndMs: boundaries[i+1],
		})
		if err != nil {
			t.Fatalf("Extract %d: %v", i, err)
		}
		if payload.ContentType != "audio/wav" {
			t.Errorf("segment %d content type = %q", i, payload.ContentType)
		}
		if len(payload.Data) < 44 {
			t.Fatalf("segment %d shorter than a WAV header: %d bytes", i, len(payload.Data))
		}
		totalSamples += len(payload.Data) - 44
	}
	if totalSamples != len(pcm.Data) {
		t.Errorf("segments carry %d sample bytes, want %d", totalSamples, len(pcm.Data))
	}
}

func TestReencodeExtractor_empty_range(t *testing.T) {
	src := preloadedSource(makePCM(441, 44100, 2))
	e := NewReencodeExtractor(nil)

	payload, err := e.Extract(context.Background(), src, model.SegmentRange{Index: 0, StartMs: 0, EndMs: 0})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(payload.Data) != 44 {
		t.Errorf("empty segment = %d bytes, want a bare 44-byte WAV", len(payload.Data))
	}
}

func TestStreamCopyExtractor_empty_range_skips_ffmpeg(t *testing.T) {
	// nil processor: any ffmpeg invocation would panic.
	e := NewStreamCopyExtractor(nil)
	src := &Source{Path: "unused", Ext: ".mp3"}

	payload, err := e.Extract(context.Background(), src, model.SegmentRange{Index: 2, StartMs: 100, EndMs: 100})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(payload.Data) != 0 {
		t.Errorf("empty segment carries %d bytes", len(payload.Data))
	}
	if payload.ContentType != "audio/mpeg" {
		t.Errorf("content type = %q, want audio/mpeg", payload.ContentType)
	}
}

func TestNewSource_materializes_and_removes(t *testing.T) {
	dir := t.TempDir()
	src, err := NewSource(dir, strings.NewReader("payload-bytes"), "track.mp3")
	if err != nil {
		t.Fatalf("NewSource: %v", err)
	}
	if src.Ext != ".mp3" {
		t.Errorf("Ext = %q, want .mp3", src.Ext)
	}
	data, err := os.ReadFile(src.Path)
	if err != nil {
		t.Fatalf("reading temp file: %v", err)
	}
	if string(data) != "payload-bytes" {
		t.Errorf("temp file content = %q", data)
	}

	if err := src.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := os.Stat(src.Path); !os.IsNotExist(err) {
		t.Errorf("temp file still present after Close")
	}
}

func TestNewSource_default_extension(t *testing.T) {
	src, err := NewSource(t.TempDir(), strings.NewReader("x"), "noext")
	if err != nil {
		t.Fatalf("NewSource: %v", err)
	}
	defer src.Close()
	if src.Ext != ".mp3" {
		t.Errorf("Ext = %q, want .mp3", src.Ext)
	}
}
