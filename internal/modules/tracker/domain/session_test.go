package domain_test

import (
	"testing"
	"time"

	"deskwatch/internal/modules/tracker/domain"
)

func day(dayOfMonth, hour int) time.Time {
	return time.Date(2026, 3, dayOfMonth, hour, 0, 0, 0, time.Local)
}

func TestTotalHoursExcludesOpenSession(t *testing.T) {
	t.Parallel()
	sessions := []domain.Session{
		{Start: day(10, 1), End: day(10, 2)},
		{Start: day(10, 3)},
	}
	if got := domain.TotalHours(sessions); got != 1 {
		t.Fatalf("total hours = %v, want 1", got)
	}
}

func TestDailyHoursAlwaysSevenDaysOldestFirst(t *testing.T) {
	t.Parallel()
	today := day(10, 12)
	totals := domain.DailyHours(nil, today)
	if len(totals) != 7 {
		t.Fatalf("expected 7 entries, got %d", len(totals))
	}
	if totals[0].Date != "2026-03-04" || totals[6].Date != "2026-03-10" {
		t.Fatalf("unexpected date range %s..%s", totals[0].Date, totals[6].Date)
	}
	for _, d := range totals {
		if d.Hours != 0 {
			t.Fatalf("empty day %s has %v hours", d.Date, d.Hours)
		}
	}
}

func TestDailyHoursBucketsByStartDateAndZeroFills(t *testing.T) {
	t.Parallel()
	today := day(10, 23)
	sessions := []domain.Session{
		{Start: day(10, 9), End: day(10, 11)},  // today, 2h
		{Start: day(10, 13), End: day(10, 14)}, // today, 1h
		{Start: day(6, 8), End: day(6, 9)},     // four days ago, 1h
		{Start: day(1, 8), End: day(1, 18)},    // outside the window
		{Start: day(10, 20)},                   // open, contributes nothing
	}
	totals := domain.DailyHours(sessions, today)

	byDate := map[string]float64{}
	sum := 0.0
	for _, d := range totals {
		byDate[d.Date] = d.Hours
		sum += d.Hours
	}
	if byDate["2026-03-10"] != 3 {
		t.Fatalf("today = %v hours, want 3", byDate["2026-03-10"])
	}
	if byDate["2026-03-06"] != 1 {
		t.Fatalf("2026-03-06 = %v hours, want 1", byDate["2026-03-06"])
	}
	if byDate["2026-03-05"] != 0 {
		t.Fatalf("empty day must still appear with 0, got %v", byDate["2026-03-05"])
	}

	// The series sums to the window-restricted total.
	windowed := []domain.Session{sessions[0], sessions[1], sessions[2]}
	if want := domain.TotalHours(windowed); sum != want {
		t.Fatalf("series sum = %v, want %v", sum, want)
	}
}

func TestSessionHours(t *testing.T) {
	t.Parallel()
	open := domain.Session{Start: day(10, 1)}
	if open.Hours() != 0 {
		t.Fatalf("open session hours = %v, want 0", open.Hours())
	}
	closed := domain.Session{Start: day(10, 1), End: day(10, 1).Add(90 * time.Minute)}
	if closed.Hours() != 1.5 {
		t.Fatalf("closed session hours = %v, want 1.5", closed.Hours())
	}
}
