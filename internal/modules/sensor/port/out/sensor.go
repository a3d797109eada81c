package out

import "context"

// LineSource is the raw transport: an unbounded, restartable sequence of
// text lines from the sensor. Implementations guard the underlying handle
// with their own lock, independent of the session slot's lock.
type LineSource interface {
	Open(ctx context.Context) error
	// ReadLine blocks until a full line is available. It may return an
	// empty line for skippable input (undecodable bytes, keepalives).
	ReadLine(ctx context.Context) (string, error)
	Close() error
}

// PresenceSink receives decoded transitions. The tracker module's usecase
// satisfies this.
type PresenceSink interface {
	OnPresence(ctx context.Context, active bool) error
}
