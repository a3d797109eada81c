package in

import (
	"context"
	"time"

	"deskwatch/internal/modules/tracker/dto"
)

type Usecase interface {
	// OnPresence applies a sensor transition to the current-session slot.
	// Redundant transitions are no-ops.
	OnPresence(ctx context.Context, active bool) error
	ManualStart(ctx context.Context, owner string) error
	ManualStop(ctx context.Context, owner string) error
	Elapsed(ctx context.Context) (dto.ElapsedOutput, error)
	// Sync claims unassigned rows for owner and returns the refreshed
	// working set, most recent start first.
	Sync(ctx context.Context, owner string) ([]dto.SessionOutput, error)
	TotalHours(workingSet []dto.SessionOutput) float64
	DailyHours(workingSet []dto.SessionOutput, today time.Time) dto.DailyReportOutput
	Delete(ctx context.Context, owner string, id int64) error
	// Toggle is the manual start/stop surface; it syncs afterwards so a
	// just-persisted session's id is visible for deletion.
	Toggle(ctx context.Context, input dto.ToggleInput) ([]dto.SessionOutput, error)
}
