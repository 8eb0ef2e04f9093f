package splitter

import "github.com/apexwis/AudioSplitterFaaS/model"

// Plan divides durationMs into count contiguous, gap-free [start,end) ranges.
// Each boundary is computed from the original duration, never from previously
// sliced segments, so integer rounding cannot drift across segments. The last
// range absorbs the remainder of the integer division. durationMs < count
// yields zero-length leading ranges, which are valid.
//
// Pure and deterministic: the same (durationMs, count) always yields the same
// ranges. count < 1 yields nil.
func Plan(durationMs int64, count int) []model.SegmentRange {
	if count < 1 || durationMs < 0 {
		return nil
	}

	segment := durationMs / int64(count)
	ranges := make([]model.SegmentRange, count)
	for i := 0; i < count; i++ {
		ranges[i] = model.SegmentRange{
			Index:   i,
			StartMs: int64(i) * segment,
			EndMs:   int64(i+1) * segment,
		}
	}
	ranges[count-1].EndMs = durationMs
	return ranges
}
