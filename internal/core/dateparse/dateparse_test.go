package dateparse

import (
	"testing"
	"time"
)

// fixed reference clock: Wednesday, June 10, 2026 3:00 PM local
var testNow = time.Date(2026, time.June, 10, 15, 0, 0, 0, time.Local)

func TestParse_Table(t *testing.T) {
	t.Parallel()

	want := func(y int, mo time.Month, d, h, mi int) *time.Time {
		tm := time.Date(y, mo, d, h, mi, 0, 0, time.Local)
		return &tm
	}

	tests := []struct {
		name string
		in   string
		out  *time.Time
	}{
		{"empty", "", nil},
		{"whitespace only", "   ", nil},
		{"dates vary", "Dates vary, see website", nil},
		{"varies", "Schedule varies", nil},
		{"multiple dates", "Multiple dates in June", nil},

		{"full date and time", "Sunday, December 4, 2026 at 1:00 PM", want(2026, time.December, 4, 13, 0)},
		{"full date and time no weekday", "December 4, 2026 1:00 PM", want(2026, time.December, 4, 13, 0)},
		{"range prefix through", "through Friday, July 3, 2026 at 9:30 AM", want(2026, time.July, 3, 9, 30)},
		{"midnight twelve am", "June 20, 2026 12:00 AM", want(2026, time.June, 20, 0, 0)},
		{"noon twelve pm", "June 20, 2026 12:00 PM", want(2026, time.June, 20, 12, 0)},
		{"lowercase month", "on saturday, june 13, 2026 at 7:00 pm", want(2026, time.June, 13, 19, 0)},

		{"full date no clock gets noon", "Sunday, December 4, 2026", want(2026, time.December, 4, 12, 0)},
		{"full date without comma", "July 4 2026", want(2026, time.July, 4, 12, 0)},
		{"unknown month falls through", "Smarch 13, 2026", nil},

		{"today", "Today", want(2026, time.June, 10, 12, 0)},
		{"tomorrow", "tomorrow", want(2026, time.June, 11, 12, 0)},

		// Wednesday 3:00 PM reference: Friday is 2 days out
		{"weekday with time", "Friday 6:00 PM", want(2026, time.June, 12, 18, 0)},
		{"weekday with at", "Friday at 6:00 PM", want(2026, time.June, 12, 18, 0)},
		// same weekday, clock already passed, rolls a week
		{"same weekday past time rolls", "Wednesday 10:00 AM", want(2026, time.June, 17, 10, 0)},
		// same weekday, clock still ahead, stays today
		{"same weekday future time stays", "Wednesday 8:00 PM", want(2026, time.June, 10, 20, 0)},
		// earlier weekday wraps into next week
		{"earlier weekday wraps", "Monday 9:00 AM", want(2026, time.June, 15, 9, 0)},

		{"weekday only gets noon", "Saturday", want(2026, time.June, 13, 12, 0)},
		{"weekday only past noon today rolls", "Wednesday", want(2026, time.June, 17, 12, 0)},
		{"not a weekday", "Someday", nil},

		{"iso fallback current year", "2026-08-01", want(2026, time.August, 1, 12, 0)},
		{"slash fallback current year", "08/01/2026", want(2026, time.August, 1, 12, 0)},
		{"fallback wrong year rejected", "2024-08-01", nil},
		{"garbage", "see flyer for details", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Parse(tc.in, testNow)
			switch {
			case tc.out == nil && got != nil:
				t.Fatalf("Parse(%q) = %v, want nil", tc.in, got)
			case tc.out != nil && got == nil:
				t.Fatalf("Parse(%q) = nil, want %v", tc.in, *tc.out)
			case tc.out != nil && !got.Equal(*tc.out):
				t.Fatalf("Parse(%q) = %v, want %v", tc.in, got, *tc.out)
			}
		})
	}
}

// weekday results must never land in the past relative to the reference clock
func TestParse_WeekdayNeverPast(t *testing.T) {
	t.Parallel()

	days := []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
	for _, d := range days {
		for _, clock := range []string{"", " 9:00 AM", " 11:00 PM"} {
			in := d + clock
			got := Parse(in, testNow)
			if got == nil {
				t.Fatalf("Parse(%q) = nil, want a timestamp", in)
			}
			if got.Before(testNow) {
				t.Fatalf("Parse(%q) = %v, landed in the past of %v", in, got, testNow)
			}
			if got.After(testNow.AddDate(0, 0, 8)) {
				t.Fatalf("Parse(%q) = %v, landed more than a week out from %v", in, got, testNow)
			}
		}
	}
}
