package splitter

import (
	"reflect"
	"testing"

	"github.com/apexwis/AudioSplitterFaaS/model"
)

func TestPlan_even_division(t *testing.T) {
	got := Plan(1000, 4)
	want := []model.SegmentRange{
		{Index: 0, StartMs: 0, EndMs: 250},
		{Index: 1, StartMs: 250, EndMs: 500},
		{Index: 2, StartMs: 500, EndMs: 750},
		{Index: 3, StartMs: 750, EndMs: 1000},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Plan(1000, 4) = %v, want %v", got, want)
	}
}

func TestPlan_remainder_absorbed_by_last(t *testing.T) {
	got := Plan(1001, 4)
	want := []model.SegmentRange{
		{Index: 0, StartMs: 0, EndMs: 250},
		{Index: 1, StartMs: 250, EndMs: 500},
		{Index: 2, StartMs: 500, EndMs: 750},
		{Index: 3, StartMs: 750, EndMs: 1001},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Plan(1001, 4) = %v, want %v", got, want)
	}
}

func TestPlan_duration_below_count(t *testing.T) {
	got := Plan(3, 4)
	want := []model.SegmentRange{
		{Index: 0, StartMs: 0, EndMs: 0},
		{Index: 1, StartMs: 0, EndMs: 0},
		{Index: 2, StartMs: 0, EndMs: 0},
		{Index: 3, StartMs: 0, EndMs: 3},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Plan(3, 4) = %v, want %v", got, want)
	}
	for i, r := range got[:3] {
		if !r.Empty() {
			t.Errorf("range %d should be empty", i)
		}
	}
}

func TestPlan_zero_duration(t *testing.T) {
	got := Plan(0, 4)
	if len(got) != 4 {
		t.Fatalf("Plan(0, 4) returned %d ranges", len(got))
	}
	for i, r := range got {
		if r.StartMs != 0 || r.EndMs != 0 {
			t.Errorf("range %d = [%d,%d), want [0,0)", i, r.StartMs, r.EndMs)
		}
	}
}

func TestPlan_invariants(t *testing.T) {
	// Gap-free, ordered, first at 0, last at total, lengths within the
	// remainder of floor division, for a sweep of durations.
	for d := int64(0); d <= 5000; d += 7 {
		ranges := Plan(d, 4)
		if len(ranges) != 4 {
			t.Fatalf("d=%d: got %d ranges", d, len(ranges))
		}
		if ranges[0].StartMs != 0 {
			t.Errorf("d=%d: first range starts at %d", d, ranges[0].StartMs)
		}
		if ranges[3].EndMs != d {
			t.Errorf("d=%d: last range ends at %d", d, ranges[3].EndMs)
		}
		var sum int64
		base := d / 4
		for i, r := range ranges {
			if r.Index != i {
				t.Errorf("d=%d: range %d has index %d", d, i, r.Index)
			}
			if r.StartMs > r.EndMs {
				t.Errorf("d=%d: range %d inverted: [%d,%d)", d, i, r.StartMs, r.EndMs)
			}
			if i > 0 && ranges[i-1].EndMs != r.StartMs {
				t.Errorf("d=%d: gap between range %d and %d", d, i-1, i)
			}
			if diff := r.DurationMs() - base; diff < 0 || diff > d%4 {
				t.Errorf("d=%d: range %d length %d deviates from %d by %d", d, i, r.DurationMs(), base, diff)
			}
			sum += r.DurationMs()
		}
		if sum != d {
			t.Errorf("d=%d: range lengths sum to %d", d, sum)
		}
	}
}

func TestPlan_deterministic(t *testing.T) {
	a := Plan(987654, 4)
	b := Plan(987654, 4)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("Plan is not deterministic: %v vs %v", a, b)
	}
}

func TestPlan_invalid_count(t *testing.T) {
	if got := Plan(1000, 0); got != nil {
		t.Errorf("Plan(1000, 0) = %v, want nil", got)
	}
	if got := Plan(-1, 4); got != nil {
		t.Errorf("Plan(-1, 4) = %v, want nil", got)
	}
}
