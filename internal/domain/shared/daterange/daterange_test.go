package daterange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(m time.Month, d int) time.Time {
	return time.Date(2026, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewTruncatesToMidnightUTC(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	start := time.Date(2026, time.September, 1, 14, 30, 0, 0, loc)
	end := time.Date(2026, time.September, 5, 2, 0, 0, 0, loc)

	dr, err := New(start, end)
	require.NoError(t, err)
	assert.Equal(t, day(time.September, 1), dr.Start)
	// 02:00 UTC+3 is the night before in UTC.
	assert.Equal(t, day(time.September, 4), dr.End)
}

func TestNewRejectsEmptyAndInvertedRanges(t *testing.T) {
	_, err := New(day(time.September, 5), day(time.September, 5))
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = New(day(time.September, 5), day(time.September, 1))
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestNights(t *testing.T) {
	dr := MustNew(day(time.September, 1), day(time.September, 5))
	assert.Equal(t, 4, dr.Nights())

	single := MustNew(day(time.September, 1), day(time.September, 2))
	assert.Equal(t, 1, single.Nights())
}

func TestOverlaps(t *testing.T) {
	base := MustNew(day(time.September, 5), day(time.September, 10))

	assert.True(t, base.Overlaps(MustNew(day(time.September, 8), day(time.September, 12))))
	assert.True(t, base.Overlaps(MustNew(day(time.September, 1), day(time.September, 6))))
	assert.True(t, base.Overlaps(base))

	// A checkout day equal to another booking's check-in day is not a
	// conflict: the boundary day counts once.
	assert.False(t, base.Overlaps(MustNew(day(time.September, 10), day(time.September, 15))))
	assert.False(t, base.Overlaps(MustNew(day(time.September, 1), day(time.September, 5))))
	assert.False(t, base.Overlaps(MustNew(day(time.September, 20), day(time.September, 25))))
}

func TestImmediatelyBefore(t *testing.T) {
	left := MustNew(day(time.September, 1), day(time.September, 5))
	right := MustNew(day(time.September, 5), day(time.September, 10))
	gap := MustNew(day(time.September, 7), day(time.September, 10))

	assert.True(t, left.ImmediatelyBefore(right))
	assert.False(t, right.ImmediatelyBefore(left))
	assert.False(t, left.ImmediatelyBefore(gap))
}

func TestContains(t *testing.T) {
	outer := MustNew(day(time.September, 1), day(time.September, 10))

	assert.True(t, outer.Contains(MustNew(day(time.September, 3), day(time.September, 7))))
	assert.True(t, outer.Contains(outer))
	assert.False(t, outer.Contains(MustNew(day(time.September, 3), day(time.September, 12))))
	assert.False(t, outer.Contains(MustNew(day(time.August, 30), day(time.September, 5))))
}

func TestString(t *testing.T) {
	dr := MustNew(day(time.September, 1), day(time.September, 5))
	assert.Equal(t, "[2026-09-01, 2026-09-05)", dr.String())
}
