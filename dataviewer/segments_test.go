package dataviewer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var segEpoch = time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

func seg(startSec, endSec int) Segment {
	return Segment{
		Start: segEpoch.Add(time.Duration(startSec) * time.Second),
		End:   segEpoch.Add(time.Duration(endSec) * time.Second),
	}
}

func TestSegmentListCoalesce(t *testing.T) {
	l := SegmentList{seg(4, 6), seg(0, 2), seg(1, 3), seg(6, 8)}
	out := l.Coalesce()

	require.Len(t, out, 2)
	assert.Equal(t, seg(0, 3), out[0])
	assert.Equal(t, seg(4, 8), out[1])
}

func TestSegmentListExtentAndDuration(t *testing.T) {
	l := SegmentList{seg(0, 2), seg(5, 8)}

	assert.Equal(t, seg(0, 8), l.Extent())
	assert.Equal(t, 5*time.Second, l.Duration())
}

func TestSegmentListIntersect(t *testing.T) {
	a := SegmentList{seg(0, 5), seg(10, 15)}
	b := SegmentList{seg(3, 12)}

	out := a.Intersect(b)
	require.Len(t, out, 2)
	assert.Equal(t, seg(3, 5), out[0])
	assert.Equal(t, seg(10, 12), out[1])
}

func TestSegmentListSub(t *testing.T) {
	a := SegmentList{seg(0, 10)}
	b := SegmentList{seg(2, 4), seg(6, 8)}

	out := a.Sub(b)
	require.Len(t, out, 3)
	assert.Equal(t, seg(0, 2), out[0])
	assert.Equal(t, seg(4, 6), out[1])
	assert.Equal(t, seg(8, 10), out[2])
}

func TestSegmentContains(t *testing.T) {
	s := seg(0, 10)

	assert.True(t, s.Contains(segEpoch))
	assert.True(t, s.Contains(segEpoch.Add(5*time.Second)))
	// half-open: the end is excluded
	assert.False(t, s.Contains(segEpoch.Add(10*time.Second)))
}

func TestNewSegmentRejectsBackwards(t *testing.T) {
	_, err := NewSegment(segEpoch.Add(time.Second), segEpoch)
	assert.Error(t, err)
}
