package service

import (
	"context"
	"strings"
	"time"

	"deskwatch/internal/modules/sensor/domain"
	sensorout "deskwatch/internal/modules/sensor/port/out"

	hclog "github.com/hashicorp/go-hclog"
)

// IngestService is the long-lived consumer of the line source. Transport
// faults stay local: it backs off and reconnects forever, so a missing or
// flaky device degrades to web-only operation instead of taking the
// process down.
type IngestService struct {
	source sensorout.LineSource
	sink   sensorout.PresenceSink
	log    hclog.Logger
	retry  time.Duration
}

func NewIngestService(source sensorout.LineSource, sink sensorout.PresenceSink, log hclog.Logger, retry time.Duration) *IngestService {
	if retry <= 0 {
		retry = 5 * time.Second
	}
	return &IngestService{source: source, sink: sink, log: log, retry: retry}
}

func (s *IngestService) Run(ctx context.Context) error {
	defer func() {
		if err := s.source.Close(); err != nil {
			s.log.Debug("close line source", "error", err)
		}
	}()

	opened := false
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !opened {
			if err := s.source.Open(ctx); err != nil {
				s.log.Warn("open line source", "error", err)
				if !s.sleep(ctx) {
					return ctx.Err()
				}
				continue
			}
			opened = true
			s.log.Info("line source open")
		}

		line, err := s.source.ReadLine(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.log.Warn("read line", "error", err)
			if cerr := s.source.Close(); cerr != nil {
				s.log.Debug("close after read failure", "error", cerr)
			}
			opened = false
			if !s.sleep(ctx) {
				return ctx.Err()
			}
			continue
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		event, ok := domain.ParseLine(line)
		if !ok {
			s.log.Debug("discarded line", "line", line)
			continue
		}
		s.log.Debug("presence event", "active", event.Active, "device_time", event.DeviceTime)
		if err := s.sink.OnPresence(ctx, event.Active); err != nil {
			s.log.Error("apply presence event", "error", err)
		}
	}
}

func (s *IngestService) sleep(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(s.retry):
		return true
	}
}
