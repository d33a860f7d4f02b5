package activity

import (
	"testing"
	"time"
)

func TestStreak(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	now := time.Date(2026, 5, 20, 9, 0, 0, 0, loc)
	daysAgo := func(n int, hour int) Record {
		d := now.AddDate(0, 0, -n)
		return Record{Timestamp: time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, loc)}
	}

	long := make([]Record, 0, 40)
	for i := 0; i < 40; i++ {
		long = append(long, daysAgo(i, 8))
	}

	tests := []struct {
		name    string
		records []Record
		want    int
	}{
		{name: "no activity", want: 0},
		{name: "today only", records: []Record{daysAgo(0, 8)}, want: 1},
		{name: "run ending yesterday, quiet today", records: []Record{daysAgo(1, 10), daysAgo(2, 10), daysAgo(3, 23)}, want: 3},
		{name: "today and yesterday", records: []Record{daysAgo(0, 1), daysAgo(1, 22), daysAgo(1, 7)}, want: 2},
		{name: "gap breaks the run", records: []Record{daysAgo(0, 8), daysAgo(1, 8), daysAgo(3, 8)}, want: 2},
		{name: "gap before yesterday", records: []Record{daysAgo(2, 8), daysAgo(3, 8)}, want: 0},
		{name: "capped at lookback window", records: long, want: MaxStreakDays},
		{
			name: "day boundary uses local time",
			// 23:30 UTC on the 18th is 01:30 on the 19th in UTC+2
			records: []Record{{Timestamp: time.Date(2026, 5, 18, 23, 30, 0, 0, time.UTC)}},
			want:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Streak(tt.records, now); got != tt.want {
				t.Errorf("Streak() = %d, want %d", got, tt.want)
			}
		})
	}
}
