package domain

import (
	"math"
	"time"
)

const DateLayout = "2006-01-02"

// Session is one presence interval. Owner is empty for rows the ingest path
// wrote before anyone claimed them; End is zero while the session is open.
type Session struct {
	ID    int64
	Owner string
	Start time.Time
	End   time.Time
}

func (s Session) Closed() bool {
	return !s.End.IsZero()
}

func (s Session) Unassigned() bool {
	return s.Owner == ""
}

// Hours is the closed duration in hours; an open session contributes zero
// until it is closed.
func (s Session) Hours() float64 {
	if !s.Closed() {
		return 0
	}
	return s.End.Sub(s.Start).Hours()
}

func TotalHours(sessions []Session) float64 {
	total := 0.0
	for _, s := range sessions {
		total += s.Hours()
	}
	return total
}

type DayTotal struct {
	Date  string
	Hours float64
}

// DailyHours buckets closed-session hours by calendar start date over the
// seven trailing days ending at today, oldest first. Days without sessions
// still appear with zero hours.
func DailyHours(sessions []Session, today time.Time) []DayTotal {
	totals := make([]DayTotal, 0, 7)
	index := make(map[string]int, 7)
	for ago := 6; ago >= 0; ago-- {
		date := today.AddDate(0, 0, -ago).Format(DateLayout)
		index[date] = len(totals)
		totals = append(totals, DayTotal{Date: date})
	}
	for _, s := range sessions {
		if !s.Closed() {
			continue
		}
		if i, ok := index[s.Start.Format(DateLayout)]; ok {
			totals[i].Hours += s.Hours()
		}
	}
	for i := range totals {
		totals[i].Hours = math.Round(totals[i].Hours*100) / 100
	}
	return totals
}
