package dto

import "time"

const (
	StatusWorking    = "working"
	StatusNotWorking = "not_working"

	ActionStart = "start"
	ActionStop  = "stop"
)

type SessionOutput struct {
	ID    int64
	Owner string
	Start time.Time
	End   time.Time
	Open  bool
	Hours float64
}

type ElapsedOutput struct {
	Status         string
	ElapsedSeconds float64
}

type ToggleInput struct {
	Owner  string
	Action string
}

type DayDetail struct {
	Date  string
	Hours float64
}

type DailyReportOutput struct {
	Dates   []string
	Hours   []float64
	Details []DayDetail
}
