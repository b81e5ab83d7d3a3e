package calendar

import (
	"fmt"
	"time"
)

// Granularity controls the size of the buckets a window is split into
type Granularity int

const (
	Daily Granularity = iota
	Weekly
)

// String method for Granularity enum
func (g Granularity) String() string {
	switch g {
	case Daily:
		return "daily"
	case Weekly:
		return "weekly"
	default:
		return "unknown"
	}
}

// TimeWindow represents a planning horizon with an inclusive start and end date
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewTimeWindow creates a validated TimeWindow. Both dates are normalized to
// midnight UTC.
func NewTimeWindow(start, end time.Time) (TimeWindow, error) {
	start = DateOf(start)
	end = DateOf(end)
	if end.Before(start) {
		return TimeWindow{}, fmt.Errorf("window end %s before start %s",
			end.Format("2006-01-02"), start.Format("2006-01-02"))
	}
	return TimeWindow{Start: start, End: end}, nil
}

// Contains reports whether t falls inside the window (inclusive)
func (w TimeWindow) Contains(t time.Time) bool {
	d := DateOf(t)
	return !d.Before(w.Start) && !d.After(w.End)
}

// Overlaps reports whether the two windows share at least one day
func (w TimeWindow) Overlaps(other TimeWindow) bool {
	return !w.Start.After(other.End) && !other.Start.After(w.End)
}

// Days returns the number of calendar days covered by the window
func (w TimeWindow) Days() int {
	return int(w.End.Sub(w.Start).Hours()/24) + 1
}

// TimeBucket is an atomic planning period. Start is inclusive, End is
// exclusive, and consecutive buckets from the same window are contiguous.
type TimeBucket struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the bucket
func (b TimeBucket) Contains(t time.Time) bool {
	return !t.Before(b.Start) && t.Before(b.End)
}

// Overlaps reports whether the bucket intersects the given window
func (b TimeBucket) Overlaps(w TimeWindow) bool {
	return b.Start.Before(w.End.AddDate(0, 0, 1)) && w.Start.Before(b.End)
}

// Buckets splits the window into contiguous, non-overlapping buckets of the
// requested granularity. The final bucket is clipped to the window end.
func (w TimeWindow) Buckets(g Granularity) []TimeBucket {
	step := 1
	if g == Weekly {
		step = 7
	}

	var buckets []TimeBucket
	limit := w.End.AddDate(0, 0, 1)
	for cursor := w.Start; cursor.Before(limit); cursor = cursor.AddDate(0, 0, step) {
		end := cursor.AddDate(0, 0, step)
		if end.After(limit) {
			end = limit
		}
		buckets = append(buckets, TimeBucket{Start: cursor, End: end})
	}
	return buckets
}

// DateOf truncates a time to midnight UTC
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
