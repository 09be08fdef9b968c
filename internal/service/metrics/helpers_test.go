package metrics

import "time"

func fp(v float64) *float64 { return &v }

func sp(v string) *string { return &v }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dayp(y int, m time.Month, d int) *time.Time {
	t := day(y, m, d)
	return &t
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
