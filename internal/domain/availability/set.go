package availability

import (
	"errors"
	"sort"

	"stayhub/internal/domain/shared/daterange"
)

var (
	ErrOverlappingRange = errors.New("availability: range overlaps already-open dates")
	ErrDuplicateRange   = errors.New("availability: range is already open")
	ErrRangeNotOpen     = errors.New("availability: range is not fully open")
)

// Set is a listing's open date ranges: ordered ascending by start, pairwise
// non-overlapping and non-adjacent. Touching ranges are always merged on
// insert, never stored as two entries.
type Set struct {
	ranges []daterange.DateRange
}

// NewSet builds a set by inserting every range in turn, so the usual
// normalization rules apply to the initial contents as well.
func NewSet(ranges ...daterange.DateRange) (Set, error) {
	var s Set
	for _, r := range ranges {
		if err := s.Insert(r); err != nil {
			return Set{}, err
		}
	}
	return s, nil
}

// Ranges returns a copy of the open ranges in ascending start order.
func (s *Set) Ranges() []daterange.DateRange {
	out := make([]daterange.DateRange, len(s.ranges))
	copy(out, s.ranges)
	return out
}

func (s *Set) Len() int {
	return len(s.ranges)
}

// Insert opens newRange, absorbing touching neighbors into one interval.
// A single pass suffices: the set is normalized on entry, so at most one
// left and one right neighbor can exist. The set is unchanged on error.
func (s *Set) Insert(newRange daterange.DateRange) error {
	if err := newRange.Validate(); err != nil {
		return err
	}

	left, right := -1, -1
	for i, r := range s.ranges {
		switch {
		case newRange.Identical(r):
			return ErrDuplicateRange
		case newRange.Overlaps(r):
			return ErrOverlappingRange
		case r.ImmediatelyBefore(newRange):
			left = i
		case newRange.ImmediatelyBefore(r):
			right = i
		}
	}

	switch {
	case left == -1 && right == -1:
		s.ranges = append(s.ranges, newRange)
	case left >= 0 && right == -1:
		s.ranges[left].End = newRange.End
	case left == -1 && right >= 0:
		s.ranges[right].Start = newRange.Start
	default:
		// newRange bridges two open intervals: collapse all three into one.
		s.ranges[right].Start = s.ranges[left].Start
		s.ranges = append(s.ranges[:left], s.ranges[left+1:]...)
	}

	sort.Slice(s.ranges, func(i, j int) bool {
		return s.ranges[i].Start.Before(s.ranges[j].Start)
	})
	return nil
}

// Remove closes a sub-range of one open interval, splitting it into zero,
// one, or two remaining ranges. The sub-range must be fully open.
func (s *Set) Remove(r daterange.DateRange) error {
	if err := r.Validate(); err != nil {
		return err
	}
	for i, open := range s.ranges {
		if !open.Contains(r) {
			continue
		}
		var replacement []daterange.DateRange
		if open.Start.Before(r.Start) {
			replacement = append(replacement, daterange.DateRange{Start: open.Start, End: r.Start})
		}
		if r.End.Before(open.End) {
			replacement = append(replacement, daterange.DateRange{Start: r.End, End: open.End})
		}
		rest := append(replacement, s.ranges[i+1:]...)
		s.ranges = append(s.ranges[:i], rest...)
		return nil
	}
	return ErrRangeNotOpen
}

// Covers reports whether r lies inside an open interval. The set is kept
// non-adjacent, so coverage by a union of entries cannot occur.
func (s *Set) Covers(r daterange.DateRange) bool {
	for _, open := range s.ranges {
		if open.Contains(r) {
			return true
		}
	}
	return false
}
