package audio

import (
	"context"
	"fmt"
	"os"

	"github.com/apexwis/AudioSplitterFaaS/model"
)

// Extractor produces an independently playable encoded byte stream for one
// time range of a source. Probe and Extract share a strategy; within a single
// request both must be served by the same Extractor.
type Extractor interface {
	// Probe returns the total duration of the source in milliseconds.
	Probe(ctx context.Context, src *Source) (int64, error)

	// Extract returns the encoded payload for the given range. A degenerate
	// range yields a valid zero-length payload; it is never an error here.
	Extract(ctx context.Context, src *Source, r model.SegmentRange) (model.SegmentPayload, error)
}

// StreamCopyExtractor slices the original container with ffmpeg -c copy,
// preserving the encoded audio bit-for-bit. Boundary precision follows the
// container's packet granularity.
type StreamCopyExtractor struct {
	proc *FFmpegProcessor
}

// NewStreamCopyExtractor creates an Extractor using lossless stream copy.
func NewStreamCopyExtractor(proc *FFmpegProcessor) *StreamCopyExtractor {
	return &StreamCopyExtractor{proc: proc}
}

// Probe reads container metadata only; the stream is never decoded.
func (e *StreamCopyExtractor) Probe(ctx context.Context, src *Source) (int64, error) {
	return e.proc.ProbeDurationMs(ctx, src.Path)
}

// Extract remuxes [StartMs, EndMs) of the source into a sibling temp file and
// reads it back. The temp file is removed before returning.
func (e *StreamCopyExtractor) Extract(ctx context.Context, src *Source, r model.SegmentRange) (model.SegmentPayload, error) {
	contentType := ContentTypeForExt(src.Ext)

	if r.Empty() {
		return model.SegmentPayload{Range: r, Data: []byte{}, ContentType: contentType}, nil
	}

	outFile := fmt.Sprintf("%s.seg%d%s", src.Path, r.Index, src.Ext)
	defer os.Remove(outFile)

	if err := e.proc.CutCopy(ctx, src.Path, outFile, r.StartMs, r.EndMs); err != nil {
		return model.SegmentPayload{}, err
	}

	data, err := os.ReadFile(outFile)
	if err != nil {
		return model.SegmentPayload{}, fmt.Errorf("%w: reading segment %d output: %v",
			ErrExtractionFailed, r.Index, err)
	}

	return model.SegmentPayload{Range: r, Data: data, ContentType: contentType}, nil
}

// ReencodeExtractor decodes the source once into memory, slices the decoded
// samples by millisecond offsets, and re-encodes each slice as WAV. Boundaries
// are exact at sample granularity.
type ReencodeExtractor struct {
	proc *FFmpegProcessor
}

// NewReencodeExtractor creates an Extractor using decode-slice-reencode.
func NewReencodeExtractor(proc *FFmpegProcessor) *ReencodeExtractor {
	return &ReencodeExtractor{proc: proc}
}

// decoded returns the request's shared PCM buffer, decoding on first use.
// Safe for concurrent segment extractions.
func (e *ReencodeExtractor) decoded(ctx context.Context, src *Source) (*PCMBuffer, error) {
	src.pcmOnce.Do(func() {
		src.pcm, src.pcmErr = e.proc.DecodePCM(ctx, src.Path)
	})
	return src.pcm, src.pcmErr
}

// Probe fully decodes the source and reports the decoded duration.
func (e *ReencodeExtractor) Probe(ctx context.Context, src *Source) (int64, error) {
	pcm, err := e.decoded(ctx, src)
	if err != nil {
		return 0, err
	}
	return pcm.DurationMs(), nil
}

// Extract slices the shared decoded buffer and wraps the slice as WAV.
func (e *ReencodeExtractor) Extract(ctx context.Context, src *Source, r model.SegmentRange) (model.SegmentPayload, error) {
	pcm, err := e.decoded(ctx, src)
	if err != nil {
		return model.SegmentPayload{}, fmt.Errorf("%w: segment %d: %v", ErrExtractionFailed, r.Index, err)
	}

	samples := pcm.SliceMs(r.StartMs, r.EndMs)
	return model.SegmentPayload{
		Range:       r,
		Data:        EncodeWAV(samples, pcm.SampleRate, pcm.Channels),
		ContentType: "audio/wav",
	}, nil
}
