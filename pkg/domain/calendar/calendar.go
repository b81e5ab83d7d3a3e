package calendar

import "time"

// Calendar answers working-day questions for lead-time offsets and demand
// distribution. Saturday and Sunday are non-working by default; holidays are
// an explicit date list. When CountCalendarDays is set, AddWorkingDays and
// SubWorkingDays degrade to plain calendar arithmetic for suppliers that
// deliver seven days a week.
type Calendar struct {
	weekendOff        [7]bool
	holidays          map[time.Time]bool
	CountCalendarDays bool
}

// NewCalendar creates a calendar with weekends marked non-working
func NewCalendar() *Calendar {
	c := &Calendar{holidays: make(map[time.Time]bool)}
	c.weekendOff[time.Saturday] = true
	c.weekendOff[time.Sunday] = true
	return c
}

// AddHoliday marks a date as non-working
func (c *Calendar) AddHoliday(t time.Time) {
	c.holidays[DateOf(t)] = true
}

// SetWorkingDay overrides whether a weekday counts as working time
func (c *Calendar) SetWorkingDay(day time.Weekday, working bool) {
	c.weekendOff[day] = !working
}

// IsWorkingDay reports whether the date is a working day
func (c *Calendar) IsWorkingDay(t time.Time) bool {
	d := DateOf(t)
	if c.weekendOff[d.Weekday()] {
		return false
	}
	return !c.holidays[d]
}

// AddWorkingDays advances t by n working days. With n == 0 the date is
// returned unchanged, even on a non-working day.
func (c *Calendar) AddWorkingDays(t time.Time, n int) time.Time {
	d := DateOf(t)
	if n <= 0 {
		return d
	}
	if c.CountCalendarDays {
		return d.AddDate(0, 0, n)
	}
	for remaining := n; remaining > 0; {
		d = d.AddDate(0, 0, 1)
		if c.IsWorkingDay(d) {
			remaining--
		}
	}
	return d
}

// SubWorkingDays moves t back by n working days
func (c *Calendar) SubWorkingDays(t time.Time, n int) time.Time {
	d := DateOf(t)
	if n <= 0 {
		return d
	}
	if c.CountCalendarDays {
		return d.AddDate(0, 0, -n)
	}
	for remaining := n; remaining > 0; {
		d = d.AddDate(0, 0, -1)
		if c.IsWorkingDay(d) {
			remaining--
		}
	}
	return d
}

// WorkingDaysIn counts the working days inside the window
func (c *Calendar) WorkingDaysIn(w TimeWindow) int {
	count := 0
	for d := w.Start; !d.After(w.End); d = d.AddDate(0, 0, 1) {
		if c.IsWorkingDay(d) {
			count++
		}
	}
	return count
}

// HasWorkingDay reports whether the bucket contains at least one working day
func (c *Calendar) HasWorkingDay(b TimeBucket) bool {
	for d := b.Start; d.Before(b.End); d = d.AddDate(0, 0, 1) {
		if c.IsWorkingDay(d) {
			return true
		}
	}
	return false
}
