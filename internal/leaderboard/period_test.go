package leaderboard

import (
	"testing"
	"time"
)

// fixClock pins the package clock for a test.
func fixClock(t *testing.T, at time.Time) {
	t.Helper()
	old := now
	now = func() time.Time { return at }
	t.Cleanup(func() { now = old })
}

func TestTodayIDs(t *testing.T) {
	// 2022-06-15 12:00 UTC is 08:00 in UTC-4
	fixClock(t, time.Date(2022, time.June, 15, 12, 0, 0, 0, time.UTC))

	tests := []struct {
		period Period
		want   string
	}{
		{Daily, "2022:d:5:15"},
		{Weekly, "2022:w:24"},
		{Monthly, "2022:m:5"},
		{Seasonally, "2022:s:summer"},
		{Yearly, "2022:y"},
		{AllTime, "all"},
	}
	for _, tt := range tests {
		if got := tt.period.TodayID(); got != tt.want {
			t.Errorf("%s TodayID = %q, want %q", tt.period, got, tt.want)
		}
	}
}

func TestTodayIDUsesFixedOffset(t *testing.T) {
	// 02:00 UTC on July 1 is still June 30 at 22:00 in UTC-4
	fixClock(t, time.Date(2022, time.July, 1, 2, 0, 0, 0, time.UTC))

	if got := Daily.TodayID(); got != "2022:d:5:30" {
		t.Errorf("Daily id = %q, want the UTC-4 previous day 2022:d:5:30", got)
	}
	if got := Monthly.TodayID(); got != "2022:m:5" {
		t.Errorf("Monthly id = %q, want 2022:m:5", got)
	}
}

func TestSeasonNames(t *testing.T) {
	tests := []struct {
		month time.Month
		want  string
	}{
		{time.March, "spring"},
		{time.April, "spring"},
		{time.May, "summer"},
		{time.August, "summer"},
		{time.September, "autumn"},
		{time.October, "autumn"},
		{time.November, "winter"},
		{time.February, "winter"},
	}
	for _, tt := range tests {
		if got := seasonName(tt.month); got != tt.want {
			t.Errorf("seasonName(%s) = %q, want %q", tt.month, got, tt.want)
		}
	}
}

func TestParsePeriod(t *testing.T) {
	if _, ok := ParsePeriod("ALL_TIME"); !ok {
		t.Error("ALL_TIME should parse")
	}
	if _, ok := ParsePeriod("FORTNIGHTLY"); ok {
		t.Error("unknown period should not parse")
	}
}
