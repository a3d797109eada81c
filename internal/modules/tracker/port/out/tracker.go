package out

import (
	"context"

	"deskwatch/internal/modules/tracker/domain"
)

type SessionStore interface {
	// Insert persists a session and returns the store-assigned id. An empty
	// owner is stored as unassigned.
	Insert(ctx context.Context, session domain.Session) (int64, error)
	// ClaimUnassigned reassigns every unowned row to owner in one statement
	// and reports how many rows it touched.
	ClaimUnassigned(ctx context.Context, owner string) (int64, error)
	ListByOwner(ctx context.Context, owner string) ([]domain.Session, error)
	Get(ctx context.Context, id int64) (domain.Session, error)
	Delete(ctx context.Context, id int64) error
}

// DaemonStore manages the watch daemon's pid, socket, and log files.
type DaemonStore interface {
	WritePID(ctx context.Context, pid int) error
	ReadPID(ctx context.Context) (int, error)
	ClearPID(ctx context.Context) error
	SocketPath() string
	LogPath() string
}

// IPCHandler is what the daemon exposes on its control socket: the
// slot-bound operations that only make sense inside the ingesting process.
type IPCHandler interface {
	Elapsed(ctx context.Context) (working bool, seconds float64, err error)
	Toggle(ctx context.Context, owner, action string) error
	Stop(ctx context.Context) error
}

type IPCServer interface {
	Serve(ctx context.Context, socketPath string, handler IPCHandler) error
}

type IPCClient interface {
	Elapsed(ctx context.Context, socketPath string) (working bool, seconds float64, err error)
	Toggle(ctx context.Context, socketPath, owner, action string) error
	Stop(ctx context.Context, socketPath string) error
}
