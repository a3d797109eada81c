package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"deskwatch/internal/modules/tracker/domain"
	"deskwatch/internal/modules/tracker/dto"
	trackerin "deskwatch/internal/modules/tracker/port/in"
	trackerout "deskwatch/internal/modules/tracker/port/out"
	"deskwatch/internal/modules/tracker/service"
	apperrors "deskwatch/internal/platform/errors"

	hclog "github.com/hashicorp/go-hclog"
)

type Interactor struct {
	slot  *service.SlotService
	store trackerout.SessionStore
	log   hclog.Logger
}

func NewInteractor(slot *service.SlotService, store trackerout.SessionStore, log hclog.Logger) trackerin.Usecase {
	return &Interactor{slot: slot, store: store, log: log}
}

func (i *Interactor) OnPresence(ctx context.Context, active bool) error {
	i.slot.OnPresence(ctx, active)
	return nil
}

func (i *Interactor) ManualStart(ctx context.Context, owner string) error {
	return i.slot.ManualStart(ctx, owner)
}

func (i *Interactor) ManualStop(ctx context.Context, owner string) error {
	return i.slot.ManualStop(ctx, owner)
}

func (i *Interactor) Elapsed(_ context.Context) (dto.ElapsedOutput, error) {
	working, seconds := i.slot.Elapsed()
	status := dto.StatusNotWorking
	if working {
		status = dto.StatusWorking
	}
	return dto.ElapsedOutput{Status: status, ElapsedSeconds: seconds}, nil
}

// Sync claims every unassigned row for owner, then reloads the working set.
// Claiming is idempotent; a row written unassigned while the claim runs is
// picked up on the next sync.
func (i *Interactor) Sync(ctx context.Context, owner string) ([]dto.SessionOutput, error) {
	if owner == "" {
		return nil, fmt.Errorf("%w: owner is required", apperrors.ErrInvalidInput)
	}
	claimed, err := i.store.ClaimUnassigned(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("claim unassigned sessions: %w", err)
	}
	if claimed > 0 {
		i.log.Info("claimed unassigned sessions", "owner", owner, "count", claimed)
	}
	sessions, err := i.store.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	out := make([]dto.SessionOutput, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, toOutput(s))
	}
	return out, nil
}

func (i *Interactor) TotalHours(workingSet []dto.SessionOutput) float64 {
	return domain.TotalHours(toDomain(workingSet))
}

func (i *Interactor) DailyHours(workingSet []dto.SessionOutput, today time.Time) dto.DailyReportOutput {
	totals := domain.DailyHours(toDomain(workingSet), today)
	report := dto.DailyReportOutput{
		Dates:   make([]string, 0, len(totals)),
		Hours:   make([]float64, 0, len(totals)),
		Details: make([]dto.DayDetail, 0, len(totals)),
	}
	for _, day := range totals {
		report.Dates = append(report.Dates, day.Date)
		report.Hours = append(report.Hours, day.Hours)
		report.Details = append(report.Details, dto.DayDetail{Date: day.Date, Hours: day.Hours})
	}
	return report
}

func (i *Interactor) Delete(ctx context.Context, owner string, id int64) error {
	session, err := i.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if session.Owner != owner {
		return apperrors.ErrForbidden
	}
	if err := i.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete session %d: %w", id, err)
	}
	return nil
}

// Toggle mirrors the manual start/stop buttons. Double-start and stop-while-
// idle are quiet no-ops; either way the working set is resynced so a freshly
// persisted session carries its store id.
func (i *Interactor) Toggle(ctx context.Context, input dto.ToggleInput) ([]dto.SessionOutput, error) {
	switch input.Action {
	case dto.ActionStart:
		if err := i.slot.ManualStart(ctx, input.Owner); err != nil && !errors.Is(err, apperrors.ErrSessionOpen) {
			return nil, err
		}
	case dto.ActionStop:
		if err := i.slot.ManualStop(ctx, input.Owner); err != nil && !errors.Is(err, apperrors.ErrNoOpenSession) {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: action %q", apperrors.ErrInvalidInput, input.Action)
	}
	return i.Sync(ctx, input.Owner)
}

func toOutput(s domain.Session) dto.SessionOutput {
	return dto.SessionOutput{
		ID:    s.ID,
		Owner: s.Owner,
		Start: s.Start,
		End:   s.End,
		Open:  !s.Closed(),
		Hours: s.Hours(),
	}
}

func toDomain(workingSet []dto.SessionOutput) []domain.Session {
	sessions := make([]domain.Session, 0, len(workingSet))
	for _, s := range workingSet {
		sessions = append(sessions, domain.Session{ID: s.ID, Owner: s.Owner, Start: s.Start, End: s.End})
	}
	return sessions
}
