package service

import (
	"context"
	"sync"
	"time"

	"deskwatch/internal/modules/tracker/domain"
	trackerout "deskwatch/internal/modules/tracker/port/out"
	"deskwatch/internal/platform/clock"
	apperrors "deskwatch/internal/platform/errors"

	hclog "github.com/hashicorp/go-hclog"
)

// SlotService is the sole authority over the single current-session slot.
// The physical sensor watches exactly one desk, so the slot is one shared
// value rather than per-owner state; the ingest goroutine and request paths
// race on it, and every method holds mu for its full read-modify-write.
type SlotService struct {
	mu    sync.Mutex
	clock clock.Clock
	store trackerout.SessionStore
	log   hclog.Logger

	// start is zero while no session is open.
	start time.Time
}

func NewSlotService(clk clock.Clock, store trackerout.SessionStore, log hclog.Logger) *SlotService {
	return &SlotService{clock: clk, store: store, log: log}
}

// OnPresence applies a sensor transition. Active while open and inactive
// while idle are no-ops, which makes duplicate events harmless. Sensor
// closures persist unassigned: the ingest path never knows who is logged in.
func (s *SlotService) OnPresence(ctx context.Context, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()
	switch {
	case active && s.start.IsZero():
		s.start = now
		s.log.Info("session opened", "start", now)
	case !active && !s.start.IsZero():
		s.closeLocked(ctx, now, "")
	}
}

func (s *SlotService) ManualStart(ctx context.Context, owner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.start.IsZero() {
		return apperrors.ErrSessionOpen
	}
	s.start = s.clock.Now()
	s.log.Info("session opened manually", "owner", owner, "start", s.start)
	return nil
}

func (s *SlotService) ManualStop(ctx context.Context, owner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.start.IsZero() {
		return apperrors.ErrNoOpenSession
	}
	s.closeLocked(ctx, s.clock.Now(), owner)
	return nil
}

// Elapsed reports whether a session is open and for how many seconds. Pure
// read; still takes the lock so it never observes a half-applied transition.
func (s *SlotService) Elapsed() (bool, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.start.IsZero() {
		return false, 0
	}
	return true, s.clock.Now().Sub(s.start).Seconds()
}

// closeLocked persists the completed interval and clears the slot. The slot
// clears even when the insert fails: losing one interval beats leaving the
// tracker wedged open forever. Caller holds mu.
func (s *SlotService) closeLocked(ctx context.Context, end time.Time, owner string) {
	session := domain.Session{Owner: owner, Start: s.start, End: end}
	if _, err := s.store.Insert(ctx, session); err != nil {
		s.log.Error("persist completed session", "start", session.Start, "end", end, "error", err)
	} else {
		s.log.Info("session closed", "start", session.Start, "end", end, "owner", owner)
	}
	s.start = time.Time{}
}
