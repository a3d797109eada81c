package domain_test

import (
	"testing"

	"deskwatch/internal/modules/sensor/domain"
)

func TestParseLine(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name   string
		line   string
		ok     bool
		active bool
	}{
		{name: "presence on", line: "PRESENCE:1,TIME:12345", ok: true, active: true},
		{name: "presence off", line: "PRESENCE:0,TIME:12345", ok: true, active: false},
		{name: "device time is opaque", line: "PRESENCE:1,TIME:not-a-number", ok: true, active: true},
		{name: "missing time field", line: "PRESENCE:1", ok: false},
		{name: "wrong prefix", line: "MOTION:1,TIME:5", ok: false},
		{name: "non integer flag", line: "PRESENCE:yes,TIME:5", ok: false},
		{name: "out of range flag", line: "PRESENCE:2,TIME:5", ok: false},
		{name: "negative flag", line: "PRESENCE:-1,TIME:5", ok: false},
		{name: "empty", line: "", ok: false},
		{name: "noise", line: "STATUS:ok", ok: false},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			event, ok := domain.ParseLine(tc.line)
			if ok != tc.ok {
				t.Fatalf("ParseLine(%q) ok = %v, want %v", tc.line, ok, tc.ok)
			}
			if ok && event.Active != tc.active {
				t.Fatalf("ParseLine(%q) active = %v, want %v", tc.line, event.Active, tc.active)
			}
		})
	}
}

func TestParseLineKeepsDeviceTimePayload(t *testing.T) {
	t.Parallel()
	event, ok := domain.ParseLine("PRESENCE:1,TIME:2025-01-01T09:00:00")
	if !ok {
		t.Fatalf("expected valid event")
	}
	if event.DeviceTime != "2025-01-01T09:00:00" {
		t.Fatalf("device time = %q", event.DeviceTime)
	}
}
