package in

import "context"

type Usecase interface {
	// Run consumes the line source until ctx is cancelled, feeding parsed
	// transitions into the tracker. It recovers from transport faults by
	// retrying forever and only returns on cancellation.
	Run(ctx context.Context) error
}
