package date

import (
	"errors"
	"fmt"
	"iter"
)

// ErrInvalidRange is returned for ranges that cannot be iterated.
var ErrInvalidRange = errors.New("invalid date range")

// Range represents an inclusive range of dates.
type Range struct{ From, To Date }

// NewRange return a well known period
func NewRange(d Date, period Period) Range {
	return Range{From: d.StartOf(period), To: d.EndOf(period)}
}

// LastDays returns the range of the n days ending on 'to' (included).
func LastDays(n int, to Date) Range {
	if n < 1 {
		n = 1
	}
	return Range{From: to.Add(1 - n), To: to}
}

// Contains return true date is included in the range (boundaries included)
func (r Range) Contains(date Date) bool { return !date.Before(r.From) && !date.After(r.To) }

// Validate returns ErrInvalidRange when a boundary is missing or From is after To.
func (r Range) Validate() error {
	if r.From.IsZero() || r.To.IsZero() {
		return fmt.Errorf("%w: missing boundary in %s", ErrInvalidRange, r)
	}
	if r.From.After(r.To) {
		return fmt.Errorf("%w: %s is after %s", ErrInvalidRange, r.From, r.To)
	}
	return nil
}

// Len returns the number of days in the range.
func (r Range) Len() int {
	if r.From.After(r.To) {
		return 0
	}
	return r.To.DaysSince(r.From) + 1
}

// Days iterates over every day of the range in ascending order.
func (r Range) Days() iter.Seq[Date] {
	return func(yield func(Date) bool) {
		for d := r.From; !d.After(r.To); d = d.Add(1) {
			if !yield(d) {
				return
			}
		}
	}
}

// Ends iterates over the last day of each period intersecting the range,
// the range end included.
func (r Range) Ends(p Period) iter.Seq[Date] {
	return func(yield func(Date) bool) {
		for d := r.From; !d.After(r.To); d = d.EndOf(p).Add(1) {
			end := Min(d.EndOf(p), r.To)
			if !yield(end) {
				return
			}
		}
	}
}

func (r Range) String() string { return fmt.Sprintf("%s..%s", r.From, r.To) }
