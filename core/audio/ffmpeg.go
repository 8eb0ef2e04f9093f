package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Sentinel errors for the extraction pipeline. Wrap with context at the call
// site using fmt.Errorf so errors.Is keeps working.
var (
	// ErrUnreadableMedia indicates the upload could not be parsed as audio.
	ErrUnreadableMedia = errors.New("media cannot be read as audio")

	// ErrExtractionFailed indicates decode, slicing, or the ffmpeg invocation
	// for one segment failed. Not retryable for this request.
	ErrExtractionFailed = errors.New("ffmpeg failed")
)

// Decode parameters for the re-encode strategy. Every upload is normalized to
// this sample layout so millisecond offsets map to exact frame offsets.
const (
	decodeSampleRate = 44100
	decodeChannels   = 2
)

// FFmpegProcessor invokes ffmpeg and ffprobe binaries.
type FFmpegProcessor struct {
	ffmpegPath string
}

// NewFFmpegProcessor creates a new FFmpegProcessor.
func NewFFmpegProcessor(ffmpegPath string) *FFmpegProcessor {
	return &FFmpegProcessor{ffmpegPath: ffmpegPath}
}

func (p *FFmpegProcessor) ffprobePath() string {
	return strings.Replace(p.ffmpegPath, "ffmpeg", "ffprobe", 1)
}

// ffprobeOutput defines the structure for ffprobe JSON output.
type ffprobeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// ProbeDurationMs uses ffprobe to get the duration of an audio file in
// milliseconds, reading container metadata only.
func (p *FFmpegProcessor) ProbeDurationMs(ctx context.Context, inputFile string) (int64, error) {
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "json",
		inputFile,
	}

	cmd := exec.CommandContext(ctx, p.ffprobePath(), args...)
	var out bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("%w: ffprobe execution failed for %s: %v: %s",
			ErrUnreadableMedia, inputFile, err, stderr.String())
	}

	var probeData ffprobeOutput
	if err := json.Unmarshal(out.Bytes(), &probeData); err != nil {
		return 0, fmt.Errorf("%w: failed to unmarshal ffprobe output for %s: %v",
			ErrUnreadableMedia, inputFile, err)
	}
	if probeData.Format.Duration == "" {
		return 0, fmt.Errorf("%w: duration not found in ffprobe output for %s",
			ErrUnreadableMedia, inputFile)
	}

	seconds, err := strconv.ParseFloat(probeData.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to parse duration %q for %s: %v",
			ErrUnreadableMedia, probeData.Format.Duration, inputFile, err)
	}

	return int64(seconds*1000 + 0.5), nil
}

// CutCopy extracts [startMs, endMs) from inputFile into outFile without
// re-encoding. Boundary precision is limited to the container's packet
// granularity for some codecs.
func (p *FFmpegProcessor) CutCopy(ctx context.Context, inputFile, outFile string, startMs, endMs int64) error {
	args := []string{
		"-y",
		"-i", inputFile,
		"-ss", formatFFmpegTime(startMs),
		"-to", formatFFmpegTime(endMs),
		"-c", "copy",
		outFile,
	}

	cmd := exec.CommandContext(ctx, p.ffmpegPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: stream copy of [%d,%d)ms from %s: %v: %s",
			ErrExtractionFailed, startMs, endMs, inputFile, err, stderr.String())
	}
	return nil
}

// DecodePCM decodes the whole file into interleaved signed 16-bit
// little-endian samples at the normalized rate and channel count.
func (p *FFmpegProcessor) DecodePCM(ctx context.Context, inputFile string) (*PCMBuffer, error) {
	args := []string{
		"-v", "error",
		"-i", inputFile,
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-ac", strconv.Itoa(decodeChannels),
		"-ar", strconv.Itoa(decodeSampleRate),
		"pipe:1",
	}

	cmd := exec.CommandContext(ctx, p.ffmpegPath, args...)
	var out bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: ffmpeg decode failed for %s: %v: %s",
			ErrUnreadableMedia, inputFile, err, stderr.String())
	}

	return &PCMBuffer{
		Data:       out.Bytes(),
		SampleRate: decodeSampleRate,
		Channels:   decodeChannels,
	}, nil
}

// formatFFmpegTime formats a millisecond offset for ffmpeg -ss/-to arguments
// as HH:MM:SS.mmm.
func formatFFmpegTime(ms int64) string {
	h := ms / 3600000
	m := (ms / 60000) % 60
	s := (ms / 1000) % 60
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms%1000)
}
