package usecase

import (
	"context"

	"deskwatch/internal/modules/tracker/dto"
	trackerin "deskwatch/internal/modules/tracker/port/in"
	trackerout "deskwatch/internal/modules/tracker/port/out"
)

// DaemonHandler adapts the tracker usecase to the daemon control socket.
// Only slot-bound operations go through here; store-only commands talk to
// SQLite directly from their own process.
type DaemonHandler struct {
	uc   trackerin.Usecase
	stop func()
}

func NewDaemonHandler(uc trackerin.Usecase, stop func()) *DaemonHandler {
	return &DaemonHandler{uc: uc, stop: stop}
}

var _ trackerout.IPCHandler = (*DaemonHandler)(nil)

func (h *DaemonHandler) Elapsed(ctx context.Context) (bool, float64, error) {
	out, err := h.uc.Elapsed(ctx)
	if err != nil {
		return false, 0, err
	}
	return out.Status == dto.StatusWorking, out.ElapsedSeconds, nil
}

func (h *DaemonHandler) Toggle(ctx context.Context, owner, action string) error {
	_, err := h.uc.Toggle(ctx, dto.ToggleInput{Owner: owner, Action: action})
	return err
}

func (h *DaemonHandler) Stop(_ context.Context) error {
	if h.stop != nil {
		h.stop()
	}
	return nil
}
