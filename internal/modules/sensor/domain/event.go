package domain

import (
	"strconv"
	"strings"
)

const (
	linePrefix    = "PRESENCE:"
	timeSeparator = ",TIME:"
)

// PresenceEvent is one decoded sensor transition. DeviceTime is the
// device's echoed clock field; it is unvalidated and kept for logging only,
// never used as the session timestamp.
type PresenceEvent struct {
	Active     bool
	DeviceTime string
}

// ParseLine decodes a raw sensor line of the form PRESENCE:<0|1>,TIME:<x>.
// Anything else is skippable noise, reported by the second return value;
// malformed input is a normal case, not an error.
func ParseLine(line string) (PresenceEvent, bool) {
	if !strings.HasPrefix(line, linePrefix) {
		return PresenceEvent{}, false
	}
	parts := strings.SplitN(strings.TrimPrefix(line, linePrefix), timeSeparator, 2)
	if len(parts) != 2 {
		return PresenceEvent{}, false
	}
	flag, err := strconv.Atoi(parts[0])
	if err != nil || (flag != 0 && flag != 1) {
		return PresenceEvent{}, false
	}
	return PresenceEvent{Active: flag == 1, DeviceTime: parts[1]}, true
}
