package usecase_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	trackerout "deskwatch/internal/modules/tracker/adapter/out"
	"deskwatch/internal/modules/tracker/dto"
	trackerin "deskwatch/internal/modules/tracker/port/in"
	"deskwatch/internal/modules/tracker/service"
	"deskwatch/internal/modules/tracker/usecase"
	apperrors "deskwatch/internal/platform/errors"

	hclog "github.com/hashicorp/go-hclog"
)

type fakeClock struct {
	mu     sync.Mutex
	values []time.Time
	idx    int
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.idx >= len(f.values) {
		return f.values[len(f.values)-1]
	}
	v := f.values[f.idx]
	f.idx++
	return v
}

var (
	t0 = time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)
	t1 = time.Date(2026, 3, 10, 10, 30, 0, 0, time.Local)
)

func newTracker(t *testing.T, clk *fakeClock) (trackerin.Usecase, func() (bool, float64)) {
	t.Helper()
	store, err := trackerout.NewSQLiteSessionStore(filepath.Join(t.TempDir(), "deskwatch.db"))
	if err != nil {
		t.Fatalf("new session store: %v", err)
	}
	slot := service.NewSlotService(clk, store, hclog.NewNullLogger())
	return usecase.NewInteractor(slot, store, hclog.NewNullLogger()), slot.Elapsed
}

func TestSensorSessionClaimedOnSync(t *testing.T) {
	t.Parallel()
	uc, _ := newTracker(t, &fakeClock{values: []time.Time{t0, t1}})
	ctx := context.Background()

	if err := uc.OnPresence(ctx, true); err != nil {
		t.Fatalf("presence on: %v", err)
	}
	if err := uc.OnPresence(ctx, false); err != nil {
		t.Fatalf("presence off: %v", err)
	}

	workingSet, err := uc.Sync(ctx, "alice")
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if len(workingSet) != 1 {
		t.Fatalf("expected 1 session after claim, got %d", len(workingSet))
	}
	if workingSet[0].Owner != "alice" {
		t.Fatalf("claimed owner = %q, want alice", workingSet[0].Owner)
	}
	if got, want := uc.TotalHours(workingSet), 1.5; got != want {
		t.Fatalf("total hours = %v, want %v", got, want)
	}
}

func TestClaimIsIdempotent(t *testing.T) {
	t.Parallel()
	uc, _ := newTracker(t, &fakeClock{values: []time.Time{t0, t1}})
	ctx := context.Background()

	_ = uc.OnPresence(ctx, true)
	_ = uc.OnPresence(ctx, false)

	first, err := uc.Sync(ctx, "alice")
	if err != nil {
		t.Fatalf("first sync: %v", err)
	}
	second, err := uc.Sync(ctx, "alice")
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("claim twice changed the working set: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID || first[i].Owner != second[i].Owner {
			t.Fatalf("claim twice changed row %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestSyncDoesNotStealOwnedSessions(t *testing.T) {
	t.Parallel()
	uc, _ := newTracker(t, &fakeClock{values: []time.Time{t0, t1, t1.Add(time.Hour), t1.Add(2 * time.Hour)}})
	ctx := context.Background()

	// Alice claims the first sensor session.
	_ = uc.OnPresence(ctx, true)
	_ = uc.OnPresence(ctx, false)
	if _, err := uc.Sync(ctx, "alice"); err != nil {
		t.Fatalf("alice sync: %v", err)
	}

	// A later sensor session goes to bob; alice's row stays hers.
	_ = uc.OnPresence(ctx, true)
	_ = uc.OnPresence(ctx, false)
	bobSet, err := uc.Sync(ctx, "bob")
	if err != nil {
		t.Fatalf("bob sync: %v", err)
	}
	if len(bobSet) != 1 {
		t.Fatalf("bob working set = %d sessions, want 1", len(bobSet))
	}
	aliceSet, err := uc.Sync(ctx, "alice")
	if err != nil {
		t.Fatalf("alice resync: %v", err)
	}
	if len(aliceSet) != 1 {
		t.Fatalf("alice working set = %d sessions, want 1", len(aliceSet))
	}
}

func TestWorkingSetOrderedByStartDescending(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{values: []time.Time{
		t0, t0.Add(time.Hour),
		t0.Add(2 * time.Hour), t0.Add(3 * time.Hour),
		t0.Add(4 * time.Hour), t0.Add(5 * time.Hour),
	}}
	uc, _ := newTracker(t, clk)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_ = uc.OnPresence(ctx, true)
		_ = uc.OnPresence(ctx, false)
	}
	workingSet, err := uc.Sync(ctx, "alice")
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if len(workingSet) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(workingSet))
	}
	for i := 1; i < len(workingSet); i++ {
		if workingSet[i].Start.After(workingSet[i-1].Start) {
			t.Fatalf("working set not ordered by start descending: %v before %v",
				workingSet[i-1].Start, workingSet[i].Start)
		}
	}
}

func TestManualToggleOwnsSessionDirectly(t *testing.T) {
	t.Parallel()
	uc, _ := newTracker(t, &fakeClock{values: []time.Time{t0, t1}})
	ctx := context.Background()

	if _, err := uc.Toggle(ctx, dto.ToggleInput{Owner: "alice", Action: dto.ActionStart}); err != nil {
		t.Fatalf("toggle start: %v", err)
	}
	workingSet, err := uc.Toggle(ctx, dto.ToggleInput{Owner: "alice", Action: dto.ActionStop})
	if err != nil {
		t.Fatalf("toggle stop: %v", err)
	}
	if len(workingSet) != 1 {
		t.Fatalf("expected 1 session after stop, got %d", len(workingSet))
	}
	session := workingSet[0]
	if session.Owner != "alice" || session.ID == 0 {
		t.Fatalf("manual session must be owned and carry a store id, got %+v", session)
	}

	// Owned directly: deletable by alice, not by bob.
	if err := uc.Delete(ctx, "bob", session.ID); !errors.Is(err, apperrors.ErrForbidden) {
		t.Fatalf("delete by non-owner: got %v, want ErrForbidden", err)
	}
	if err := uc.Delete(ctx, "alice", session.ID); err != nil {
		t.Fatalf("delete by owner: %v", err)
	}
	if err := uc.Delete(ctx, "alice", session.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("delete missing: got %v, want ErrNotFound", err)
	}
}

func TestToggleRedundantActionsAreQuietNoOps(t *testing.T) {
	t.Parallel()
	uc, elapsed := newTracker(t, &fakeClock{values: []time.Time{t0, t1}})
	ctx := context.Background()

	if _, err := uc.Toggle(ctx, dto.ToggleInput{Owner: "alice", Action: dto.ActionStop}); err != nil {
		t.Fatalf("stop while idle must be a no-op, got %v", err)
	}
	if _, err := uc.Toggle(ctx, dto.ToggleInput{Owner: "alice", Action: dto.ActionStart}); err != nil {
		t.Fatalf("toggle start: %v", err)
	}
	if _, err := uc.Toggle(ctx, dto.ToggleInput{Owner: "alice", Action: dto.ActionStart}); err != nil {
		t.Fatalf("double start must be a no-op, got %v", err)
	}
	if working, _ := elapsed(); !working {
		t.Fatalf("session must still be open after redundant start")
	}
	if _, err := uc.Toggle(ctx, dto.ToggleInput{Owner: "alice", Action: "pause"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("unknown action: got %v, want ErrInvalidInput", err)
	}
}

func TestElapsedStatus(t *testing.T) {
	t.Parallel()
	uc, _ := newTracker(t, &fakeClock{values: []time.Time{t0, t0.Add(90 * time.Second)}})
	ctx := context.Background()

	out, err := uc.Elapsed(ctx)
	if err != nil {
		t.Fatalf("elapsed: %v", err)
	}
	if out.Status != dto.StatusNotWorking || out.ElapsedSeconds != 0 {
		t.Fatalf("idle elapsed = %+v", out)
	}

	_ = uc.OnPresence(ctx, true)
	out, err = uc.Elapsed(ctx)
	if err != nil {
		t.Fatalf("elapsed: %v", err)
	}
	if out.Status != dto.StatusWorking || out.ElapsedSeconds != 90 {
		t.Fatalf("working elapsed = %+v, want 90s", out)
	}
}

func TestSyncRequiresOwner(t *testing.T) {
	t.Parallel()
	uc, _ := newTracker(t, &fakeClock{values: []time.Time{t0}})
	if _, err := uc.Sync(context.Background(), ""); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("sync without owner: got %v, want ErrInvalidInput", err)
	}
}

func TestDailyHoursReportShape(t *testing.T) {
	t.Parallel()
	uc, _ := newTracker(t, &fakeClock{values: []time.Time{t0, t1}})
	ctx := context.Background()

	_ = uc.OnPresence(ctx, true)
	_ = uc.OnPresence(ctx, false)
	workingSet, err := uc.Sync(ctx, "alice")
	if err != nil {
		t.Fatalf("sync: %v", err)
	}

	report := uc.DailyHours(workingSet, t0)
	if len(report.Dates) != 7 || len(report.Hours) != 7 || len(report.Details) != 7 {
		t.Fatalf("report must have 7 parallel entries, got %d/%d/%d",
			len(report.Dates), len(report.Hours), len(report.Details))
	}
	if report.Dates[6] != t0.Format("2006-01-02") {
		t.Fatalf("last entry = %s, want today", report.Dates[6])
	}
	if report.Hours[6] != 1.5 {
		t.Fatalf("today hours = %v, want 1.5", report.Hours[6])
	}
	for i := range report.Dates {
		if report.Details[i].Date != report.Dates[i] || report.Details[i].Hours != report.Hours[i] {
			t.Fatalf("details out of step at %d: %+v", i, report.Details[i])
		}
	}
}
