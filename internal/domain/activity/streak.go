package activity

import "time"

// MaxStreakDays caps how far back a streak is looked for.
const MaxStreakDays = 30

// Streak counts consecutive calendar days (in now's location) with at least
// one record, walking back from today. A quiet today does not break a run that
// ended yesterday; any earlier gap does.
func Streak(records []Record, now time.Time) int {
	loc := now.Location()
	active := make(map[time.Time]struct{}, len(records))
	for _, r := range records {
		active[startOfDay(r.Timestamp.In(loc))] = struct{}{}
	}

	day := startOfDay(now)
	streak := 0
	for i := 0; i < MaxStreakDays; i++ {
		if _, ok := active[day]; ok {
			streak++
		} else if i > 0 || streak > 0 {
			break
		}
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// StreakSince is the earliest instant Streak can look at for now: midnight at
// the start of the oldest day in the lookback.
func StreakSince(now time.Time) time.Time {
	return startOfDay(now).AddDate(0, 0, -(MaxStreakDays - 1))
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
