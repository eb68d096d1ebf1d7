package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayhub/internal/domain/shared/daterange"
)

func jan(d int) time.Time {
	return time.Date(2026, time.January, d, 0, 0, 0, 0, time.UTC)
}

func r(start, end int) daterange.DateRange {
	return daterange.MustNew(jan(start), jan(end))
}

func TestInsertDisjointRangesStaySorted(t *testing.T) {
	var s Set
	require.NoError(t, s.Insert(r(20, 25)))
	require.NoError(t, s.Insert(r(1, 5)))
	require.NoError(t, s.Insert(r(10, 15)))

	assert.Equal(t, []daterange.DateRange{r(1, 5), r(10, 15), r(20, 25)}, s.Ranges())
}

func TestInsertMergesTouchingNeighborOnTheLeft(t *testing.T) {
	var s Set
	require.NoError(t, s.Insert(r(1, 10)))
	require.NoError(t, s.Insert(r(10, 15)))

	assert.Equal(t, []daterange.DateRange{r(1, 15)}, s.Ranges())
}

func TestInsertMergesTouchingNeighborOnTheRight(t *testing.T) {
	var s Set
	require.NoError(t, s.Insert(r(10, 15)))
	require.NoError(t, s.Insert(r(1, 10)))

	assert.Equal(t, []daterange.DateRange{r(1, 15)}, s.Ranges())
}

func TestInsertBridgesTwoOpenIntervals(t *testing.T) {
	var s Set
	require.NoError(t, s.Insert(r(1, 10)))
	require.NoError(t, s.Insert(r(15, 20)))
	require.NoError(t, s.Insert(r(10, 15)))

	assert.Equal(t, []daterange.DateRange{r(1, 20)}, s.Ranges())
}

func TestInsertOrderDoesNotMatter(t *testing.T) {
	pieces := []daterange.DateRange{r(1, 10), r(15, 20), r(10, 15)}
	permutations := [][]int{
		{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0},
	}
	for _, perm := range permutations {
		var s Set
		for _, i := range perm {
			require.NoError(t, s.Insert(pieces[i]))
		}
		assert.Equal(t, []daterange.DateRange{r(1, 20)}, s.Ranges())
	}
}

func TestInsertRejectsDuplicate(t *testing.T) {
	var s Set
	require.NoError(t, s.Insert(r(1, 10)))

	err := s.Insert(r(1, 10))
	assert.ErrorIs(t, err, ErrDuplicateRange)
	assert.Equal(t, []daterange.DateRange{r(1, 10)}, s.Ranges())
}

func TestInsertRejectsOverlapAndLeavesSetUnchanged(t *testing.T) {
	var s Set
	require.NoError(t, s.Insert(r(1, 10)))
	require.NoError(t, s.Insert(r(15, 20)))
	before := s.Ranges()

	for _, bad := range []daterange.DateRange{r(5, 12), r(8, 16), r(2, 9)} {
		err := s.Insert(bad)
		assert.ErrorIs(t, err, ErrOverlappingRange, bad.String())
		assert.Equal(t, before, s.Ranges())
	}
}

func TestInsertRejectsInvalidRange(t *testing.T) {
	var s Set
	err := s.Insert(daterange.DateRange{Start: jan(5), End: jan(5)})
	assert.ErrorIs(t, err, daterange.ErrInvalidRange)
	assert.Zero(t, s.Len())
}

func TestRemoveSplitsOpenInterval(t *testing.T) {
	var s Set
	require.NoError(t, s.Insert(r(1, 20)))

	require.NoError(t, s.Remove(r(5, 10)))
	assert.Equal(t, []daterange.DateRange{r(1, 5), r(10, 20)}, s.Ranges())
}

func TestRemoveAtIntervalEdges(t *testing.T) {
	var s Set
	require.NoError(t, s.Insert(r(1, 20)))
	require.NoError(t, s.Remove(r(1, 5)))
	assert.Equal(t, []daterange.DateRange{r(5, 20)}, s.Ranges())

	require.NoError(t, s.Remove(r(15, 20)))
	assert.Equal(t, []daterange.DateRange{r(5, 15)}, s.Ranges())

	require.NoError(t, s.Remove(r(5, 15)))
	assert.Zero(t, s.Len())
}

func TestRemoveFailsWhenRangeNotFullyOpen(t *testing.T) {
	var s Set
	require.NoError(t, s.Insert(r(1, 10)))
	require.NoError(t, s.Insert(r(15, 20)))

	// Straddles the closed gap between the two intervals.
	err := s.Remove(r(8, 16))
	assert.ErrorIs(t, err, ErrRangeNotOpen)

	err = s.Remove(r(25, 28))
	assert.ErrorIs(t, err, ErrRangeNotOpen)
}

func TestRemoveThenInsertRestoresMergedInterval(t *testing.T) {
	var s Set
	require.NoError(t, s.Insert(r(1, 20)))
	require.NoError(t, s.Remove(r(5, 10)))

	// Reopening the booked dates merges back into one interval.
	require.NoError(t, s.Insert(r(5, 10)))
	assert.Equal(t, []daterange.DateRange{r(1, 20)}, s.Ranges())
}

func TestCovers(t *testing.T) {
	var s Set
	require.NoError(t, s.Insert(r(1, 10)))
	require.NoError(t, s.Insert(r(15, 20)))

	assert.True(t, s.Covers(r(1, 10)))
	assert.True(t, s.Covers(r(3, 7)))
	assert.False(t, s.Covers(r(8, 16)))
	assert.False(t, s.Covers(r(10, 15)))
	assert.False(t, s.Covers(r(25, 28)))
}

func TestNewSetNormalizesInitialRanges(t *testing.T) {
	s, err := NewSet(r(10, 15), r(1, 10))
	require.NoError(t, err)
	assert.Equal(t, []daterange.DateRange{r(1, 15)}, s.Ranges())

	_, err = NewSet(r(1, 10), r(5, 15))
	assert.ErrorIs(t, err, ErrOverlappingRange)
}
