package calendar

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewTimeWindow_RejectsReversedDates(t *testing.T) {
	_, err := NewTimeWindow(date(2026, 3, 10), date(2026, 3, 1))
	if err == nil {
		t.Fatal("expected error for end before start")
	}
}

func TestBuckets_DailyContiguous(t *testing.T) {
	w, err := NewTimeWindow(date(2026, 3, 1), date(2026, 3, 10))
	if err != nil {
		t.Fatalf("NewTimeWindow failed: %v", err)
	}

	buckets := w.Buckets(Daily)
	if len(buckets) != 10 {
		t.Fatalf("expected 10 daily buckets, got %d", len(buckets))
	}

	for i := 1; i < len(buckets); i++ {
		if !buckets[i].Start.Equal(buckets[i-1].End) {
			t.Errorf("bucket %d not contiguous: prev end %v, start %v",
				i, buckets[i-1].End, buckets[i].Start)
		}
	}
}

func TestBuckets_WeeklyClipsFinalBucket(t *testing.T) {
	w, _ := NewTimeWindow(date(2026, 3, 2), date(2026, 3, 11))

	buckets := w.Buckets(Weekly)
	if len(buckets) != 2 {
		t.Fatalf("expected 2 weekly buckets, got %d", len(buckets))
	}
	if !buckets[1].End.Equal(date(2026, 3, 12)) {
		t.Errorf("final bucket not clipped to window end, got %v", buckets[1].End)
	}
}

func TestIsWorkingDay_WeekendsAndHolidays(t *testing.T) {
	cal := NewCalendar()
	cal.AddHoliday(date(2026, 1, 1))

	tests := []struct {
		name string
		day  time.Time
		want bool
	}{
		{"monday", date(2026, 3, 2), true},
		{"saturday", date(2026, 3, 7), false},
		{"sunday", date(2026, 3, 8), false},
		{"holiday", date(2026, 1, 1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cal.IsWorkingDay(tt.day); got != tt.want {
				t.Errorf("IsWorkingDay(%v) = %v, want %v", tt.day, got, tt.want)
			}
		})
	}
}

func TestSubWorkingDays_SkipsWeekend(t *testing.T) {
	cal := NewCalendar()

	// 2026-03-09 is a Monday; 3 working days back crosses the weekend
	got := cal.SubWorkingDays(date(2026, 3, 9), 3)
	want := date(2026, 3, 4)
	if !got.Equal(want) {
		t.Errorf("SubWorkingDays = %v, want %v", got, want)
	}
}

func TestSubWorkingDays_SkipsHoliday(t *testing.T) {
	cal := NewCalendar()
	cal.AddHoliday(date(2026, 3, 6)) // Friday

	got := cal.SubWorkingDays(date(2026, 3, 9), 2)
	want := date(2026, 3, 4)
	if !got.Equal(want) {
		t.Errorf("SubWorkingDays = %v, want %v", got, want)
	}
}

func TestSubWorkingDays_CalendarDayMode(t *testing.T) {
	cal := NewCalendar()
	cal.CountCalendarDays = true

	// day 20 minus a 7 day lead time lands on day 13 regardless of weekends
	got := cal.SubWorkingDays(date(2026, 3, 20), 7)
	want := date(2026, 3, 13)
	if !got.Equal(want) {
		t.Errorf("SubWorkingDays = %v, want %v", got, want)
	}
}

func TestAddWorkingDays(t *testing.T) {
	cal := NewCalendar()

	// Friday + 1 working day = Monday
	got := cal.AddWorkingDays(date(2026, 3, 6), 1)
	want := date(2026, 3, 9)
	if !got.Equal(want) {
		t.Errorf("AddWorkingDays = %v, want %v", got, want)
	}
}

func TestWorkingDaysIn(t *testing.T) {
	cal := NewCalendar()
	w, _ := NewTimeWindow(date(2026, 3, 2), date(2026, 3, 8)) // Mon..Sun

	if got := cal.WorkingDaysIn(w); got != 5 {
		t.Errorf("WorkingDaysIn = %d, want 5", got)
	}
}
