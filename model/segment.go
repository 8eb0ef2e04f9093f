package model

// SegmentRange is one planned [StartMs, EndMs) slice of the source audio.
// Index is zero-based and fixes the segment's position in the response.
type SegmentRange struct {
	Index   int
	StartMs int64
	EndMs   int64
}

// DurationMs returns the length of the range in milliseconds.
func (r SegmentRange) DurationMs() int64 {
	return r.EndMs - r.StartMs
}

// Empty reports whether the range carries no audio.
func (r SegmentRange) Empty() bool {
	return r.EndMs <= r.StartMs
}

// SegmentPayload is the encoded bytes for one range, ready for upload.
type SegmentPayload struct {
	Range       SegmentRange
	Data        []byte
	ContentType string // e.g. "audio/wav" or "audio/mpeg"
}

// PublishedSegment is the externally visible result unit for one stored
// segment. Created after a successful upload and never mutated.
type PublishedSegment struct {
	Key string `json:"key"`
	URL string `json:"url"`
}
