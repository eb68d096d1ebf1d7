package daterange

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidRange = errors.New("daterange: end date must be after start date")

// DateRange is a half-open interval [Start, End) of UTC calendar days.
// The shared boundary day counts once: a range ending on a day and a range
// starting on that same day touch without overlapping.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// New builds a range, truncating both bounds to midnight UTC.
func New(start, end time.Time) (DateRange, error) {
	dr := DateRange{Start: Day(start), End: Day(end)}
	if err := dr.Validate(); err != nil {
		return DateRange{}, err
	}
	return dr, nil
}

// MustNew is a fixture helper that panics on an invalid range.
func MustNew(start, end time.Time) DateRange {
	dr, err := New(start, end)
	if err != nil {
		panic(err)
	}
	return dr
}

// Day truncates a timestamp to midnight UTC.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (dr DateRange) Validate() error {
	if dr.Start.IsZero() || dr.End.IsZero() {
		return ErrInvalidRange
	}
	if !dr.End.After(dr.Start) {
		return ErrInvalidRange
	}
	return nil
}

// Nights counts the nights covered by the range.
func (dr DateRange) Nights() int {
	return int(dr.End.Sub(dr.Start).Hours() / 24)
}

// Overlaps reports whether the two ranges share at least one night.
func (dr DateRange) Overlaps(other DateRange) bool {
	return dr.Start.Before(other.End) && other.Start.Before(dr.End)
}

// Identical reports whether both bounds are equal.
func (dr DateRange) Identical(other DateRange) bool {
	return dr.Start.Equal(other.Start) && dr.End.Equal(other.End)
}

// ImmediatelyBefore reports whether the range ends exactly where other
// starts, with no gap and no shared night.
func (dr DateRange) ImmediatelyBefore(other DateRange) bool {
	return dr.End.Equal(other.Start)
}

// Contains reports whether other lies entirely within the range.
func (dr DateRange) Contains(other DateRange) bool {
	return !dr.Start.After(other.Start) && !dr.End.Before(other.End)
}

func (dr DateRange) String() string {
	return fmt.Sprintf("[%s, %s)", dr.Start.Format("2006-01-02"), dr.End.Format("2006-01-02"))
}
