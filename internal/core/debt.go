package core

import "time"

// RunningDebt is the cumulative balance after each record: driving adds its
// distance and cycling subtracts it. records must already be sorted by Start;
// the fold is order dependent.
func RunningDebt(records []Record) []float64 {
	out := make([]float64, len(records))
	var debt float64
	for i, r := range records {
		debt += r.Kind.Sign() * r.Distance
		out[i] = debt
	}
	return out
}

// Schedule is what it takes to clear the debt by the end of the year.
type Schedule struct {
	Debt      float64 // meters, positive when owed
	Owed      bool
	DaysLeft  int
	WeeksLeft float64
	PerDay    float64 // meters of cycling per day
	PerWeek   float64 // meters of cycling per week
}

// NewSchedule spreads the balance of summary over the days remaining until
// January 1 of the year after now, counted in now's calendar.
func NewSchedule(summary Summary, now time.Time) Schedule {
	s := Schedule{
		Debt:     summary.Balance(),
		DaysLeft: DaysUntilNewYear(now),
	}
	s.WeeksLeft = float64(s.DaysLeft) / 7
	if s.Debt > 0 {
		s.Owed = true
		s.PerDay = s.Debt / float64(s.DaysLeft)
		s.PerWeek = s.Debt / s.WeeksLeft
	}
	return s
}

// DaysUntilNewYear counts calendar days from now's date to the next January 1.
// It is 1 on December 31.
func DaysUntilNewYear(now time.Time) int {
	daysInYear := time.Date(now.Year(), time.December, 31, 0, 0, 0, 0, now.Location()).YearDay()
	return daysInYear - now.YearDay() + 1
}
