package in

import (
	"context"
	"time"

	"deskwatch/internal/modules/tracker/dto"
	trackerin "deskwatch/internal/modules/tracker/port/in"
)

type CLIHandler struct {
	usecase trackerin.Usecase
}

func NewCLIHandler(usecase trackerin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Sync(ctx context.Context, owner string) ([]dto.SessionOutput, error) {
	return h.usecase.Sync(ctx, owner)
}

func (h CLIHandler) Elapsed(ctx context.Context) (dto.ElapsedOutput, error) {
	return h.usecase.Elapsed(ctx)
}

func (h CLIHandler) Toggle(ctx context.Context, owner, action string) ([]dto.SessionOutput, error) {
	return h.usecase.Toggle(ctx, dto.ToggleInput{Owner: owner, Action: action})
}

func (h CLIHandler) Delete(ctx context.Context, owner string, id int64) error {
	return h.usecase.Delete(ctx, owner, id)
}

// Report syncs and aggregates in one call for the report command.
func (h CLIHandler) Report(ctx context.Context, owner string, today time.Time) (float64, dto.DailyReportOutput, error) {
	workingSet, err := h.usecase.Sync(ctx, owner)
	if err != nil {
		return 0, dto.DailyReportOutput{}, err
	}
	total := h.usecase.TotalHours(workingSet)
	daily := h.usecase.DailyHours(workingSet, today)
	return total, daily, nil
}
