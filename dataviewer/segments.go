package dataviewer

import (
	"fmt"
	"sort"
	"time"
)

// Segment is a half-open time interval [Start, End).
type Segment struct {
	Start time.Time
	End   time.Time
}

func NewSegment(start, end time.Time) (Segment, error) {
	if end.Before(start) {
		return Segment{}, fmt.Errorf("segment end %s before start %s", end, start)
	}
	return Segment{Start: start, End: end}, nil
}

// Duration returns the length of the segment.
func (s Segment) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// IsZero reports whether the segment is empty.
func (s Segment) IsZero() bool {
	return !s.End.After(s.Start)
}

// Contains reports whether t falls inside the segment.
func (s Segment) Contains(t time.Time) bool {
	return !t.Before(s.Start) && t.Before(s.End)
}

// Intersects reports whether the two segments overlap.
func (s Segment) Intersects(o Segment) bool {
	return s.Start.Before(o.End) && o.Start.Before(s.End)
}

// Intersection returns the overlap of the two segments, which may be
// zero when they do not intersect.
func (s Segment) Intersection(o Segment) Segment {
	start := s.Start
	if o.Start.After(start) {
		start = o.Start
	}
	end := s.End
	if o.End.Before(end) {
		end = o.End
	}
	if end.Before(start) {
		return Segment{}
	}
	return Segment{Start: start, End: end}
}

// contiguous reports whether the two segments touch or overlap.
func (s Segment) contiguous(o Segment) bool {
	return !s.Start.After(o.End) && !o.Start.After(s.End)
}

func (s Segment) String() string {
	return fmt.Sprintf("[%s, %s)", s.Start.Format(time.RFC3339Nano), s.End.Format(time.RFC3339Nano))
}

// SegmentList is a list of segments. Most operations expect or produce
// a coalesced list: sorted, non-overlapping, non-adjacent.
type SegmentList []Segment

// Coalesce sorts the list and merges overlapping or touching segments
// in place, returning the result.
func (l SegmentList) Coalesce() SegmentList {
	if len(l) <= 1 {
		return l
	}
	sort.Slice(l, func(i, j int) bool { return l[i].Start.Before(l[j].Start) })
	out := l[:1]
	for _, seg := range l[1:] {
		last := &out[len(out)-1]
		if last.contiguous(seg) {
			if seg.End.After(last.End) {
				last.End = seg.End
			}
		} else {
			out = append(out, seg)
		}
	}
	return out
}

// Extent returns the segment spanning the whole list.
func (l SegmentList) Extent() Segment {
	if len(l) == 0 {
		return Segment{}
	}
	ext := l[0]
	for _, seg := range l[1:] {
		if seg.Start.Before(ext.Start) {
			ext.Start = seg.Start
		}
		if seg.End.After(ext.End) {
			ext.End = seg.End
		}
	}
	return ext
}

// Duration returns the summed length of all segments. Only meaningful
// on a coalesced list.
func (l SegmentList) Duration() time.Duration {
	var d time.Duration
	for _, seg := range l {
		d += seg.Duration()
	}
	return d
}

// Intersect returns the parts of l covered by o. Both lists must be
// coalesced.
func (l SegmentList) Intersect(o SegmentList) SegmentList {
	var out SegmentList
	for _, a := range l {
		for _, b := range o {
			if x := a.Intersection(b); !x.IsZero() {
				out = append(out, x)
			}
		}
	}
	return out.Coalesce()
}

// Sub returns the parts of l not covered by o. Both lists must be
// coalesced.
func (l SegmentList) Sub(o SegmentList) SegmentList {
	var out SegmentList
	for _, a := range l {
		rest := []Segment{a}
		for _, b := range o {
			var next []Segment
			for _, r := range rest {
				if !r.Intersects(b) {
					next = append(next, r)
					continue
				}
				if r.Start.Before(b.Start) {
					next = append(next, Segment{Start: r.Start, End: b.Start})
				}
				if b.End.Before(r.End) {
					next = append(next, Segment{Start: b.End, End: r.End})
				}
			}
			rest = next
		}
		out = append(out, rest...)
	}
	return out.Coalesce()
}
